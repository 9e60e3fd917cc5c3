package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lydakis/cadmcp/internal/logging"
)

// Validate checks configuration invariants and returns actionable errors.
func Validate(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	var errs []error
	errs = append(errs, validateExecutor(cfg.Executor)...)
	errs = append(errs, validateLog(cfg.Log)...)
	errs = append(errs, validateTelemetry(cfg.Telemetry)...)
	return errors.Join(errs...)
}

func validateExecutor(e ExecutorConfig) []error {
	var errs []error

	if strings.TrimSpace(e.Host) == "" {
		errs = append(errs, fmt.Errorf("executor.host: must not be empty"))
	}
	if e.Port < 1 || e.Port > 65535 {
		errs = append(errs, fmt.Errorf("executor.port: must be in 1-65535, got %d", e.Port))
	}

	if e.ConnectTimeout != "" {
		errs = append(errs, validateDuration("executor.connect_timeout", e.ConnectTimeout)...)
	}
	if e.ReadTimeout != "" {
		errs = append(errs, validateDuration("executor.read_timeout", e.ReadTimeout)...)
	}
	return errs
}

func validateDuration(key, raw string) []error {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return []error{fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)}
	}
	if d <= 0 {
		return []error{fmt.Errorf("%s: must be > 0, got %q", key, raw)}
	}
	return nil
}

func validateLog(l LogConfig) []error {
	if l.Level == "" {
		return nil
	}
	if !logging.ValidLevel(l.Level) {
		return []error{fmt.Errorf("log.level: unknown level %q", l.Level)}
	}
	return nil
}

func validateTelemetry(t TelemetryConfig) []error {
	endpoint := strings.TrimSpace(t.OTLPEndpoint)
	if endpoint == "" {
		return nil
	}
	if strings.Contains(endpoint, "://") {
		return []error{fmt.Errorf("telemetry.otlp_endpoint: want host:port without scheme, got %q", t.OTLPEndpoint)}
	}
	return nil
}
