package cli

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/lydakis/cadmcp/internal/config"
	"github.com/lydakis/cadmcp/internal/logging"
	"github.com/lydakis/cadmcp/internal/response"
	"github.com/lydakis/cadmcp/internal/telemetry"
	"github.com/lydakis/cadmcp/internal/tools"
	"github.com/lydakis/cadmcp/internal/transport"
)

// globalOptions are the root flags shared by every subcommand.
type globalOptions struct {
	configPath string
	host       string
	port       int
	verbose    bool
}

func defaultConfigPath() string {
	return config.ExampleConfigPath()
}

func (o *globalOptions) path() string {
	if o.configPath != "" {
		return o.configPath
	}
	return defaultConfigPath()
}

// loadConfig reads the config file and applies flag overrides.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(o.path())
	if err != nil {
		return nil, exitError(response.ExitInternal, "%v", err)
	}
	if o.host != "" {
		cfg.Executor.Host = o.host
	}
	if o.port != 0 {
		cfg.Executor.Port = o.port
	}
	if err := config.Validate(cfg); err != nil {
		return nil, exitError(response.ExitUsageErr, "invalid config: %v", err)
	}
	return cfg, nil
}

// session is everything a command needs to dispatch tool calls.
type session struct {
	cfg        *config.Config
	logger     zerolog.Logger
	dispatcher *tools.Dispatcher

	logCloser io.Closer
	telemetry *telemetry.Provider
}

// openSession loads config and wires logging, telemetry, and the executor
// client. defaultLogFile is used when the config names no log file.
func openSession(ctx context.Context, opts *globalOptions, stderr io.Writer, defaultLogFile string) (*session, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = defaultLogFile
	}
	logger, closer, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    logFile,
		Verbose: opts.verbose,
		Stderr:  stderr,
	})
	if err != nil {
		return nil, exitError(response.ExitInternal, "%v", err)
	}

	provider, err := telemetry.Setup(ctx, cfg.Telemetry, buildVersion)
	if err != nil {
		closer.Close()
		return nil, exitError(response.ExitInternal, "%v", err)
	}

	client := &transport.Client{
		Addr:           cfg.Executor.Addr(),
		ConnectTimeout: cfg.Executor.ConnectTimeoutDuration(),
		ReadTimeout:    cfg.Executor.ReadTimeoutDuration(),
	}
	dispatcher := tools.NewDispatcher(tools.NewRegistry(), client,
		tools.WithLogger(logger),
		tools.WithObserver(provider.Observer),
	)

	logger.Debug().
		Str("addr", client.Addr).
		Dur("connect_timeout", client.ConnectTimeout).
		Dur("read_timeout", client.ReadTimeout).
		Msg("executor client ready")

	return &session{
		cfg:        cfg,
		logger:     logger,
		dispatcher: dispatcher,
		logCloser:  closer,
		telemetry:  provider,
	}, nil
}

func (s *session) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.telemetry.Shutdown(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("flushing telemetry")
	}
	s.logCloser.Close()
}
