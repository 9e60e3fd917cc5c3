package config

import (
	"net"
	"strconv"
	"time"

	"github.com/lydakis/cadmcp/internal/wire"
)

// Default executor timeouts.
const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultLogLevel       = "info"
	DefaultServiceName    = "cadmcp"
)

// Config is the top-level cadmcp configuration.
type Config struct {
	Executor  ExecutorConfig  `toml:"executor"`
	Log       LogConfig       `toml:"log"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// ExecutorConfig describes how to reach the AutoCAD add-in.
type ExecutorConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`

	// Durations in time.ParseDuration syntax. An empty read_timeout means
	// the client waits for the add-in to close the connection.
	ConnectTimeout string `toml:"connect_timeout"`
	ReadTimeout    string `toml:"read_timeout"`
}

// LogConfig controls diagnostic logging. Logs never go to stdout.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// TelemetryConfig enables OTLP/HTTP trace export when Endpoint is set.
type TelemetryConfig struct {
	OTLPEndpoint string            `toml:"otlp_endpoint"`
	Insecure     bool              `toml:"insecure"`
	ServiceName  string            `toml:"service_name"`
	Headers      map[string]string `toml:"headers"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Executor: ExecutorConfig{
			Host:           wire.DefaultHost,
			Port:           wire.DefaultPort,
			ConnectTimeout: DefaultConnectTimeout.String(),
		},
		Log: LogConfig{Level: DefaultLogLevel},
		Telemetry: TelemetryConfig{
			ServiceName: DefaultServiceName,
		},
	}
}

// Addr returns host:port for dialing.
func (e ExecutorConfig) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// ConnectTimeoutDuration parses ConnectTimeout, falling back to the default.
// Call Validate first to surface parse errors.
func (e ExecutorConfig) ConnectTimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(e.ConnectTimeout); err == nil && d > 0 {
		return d
	}
	return DefaultConnectTimeout
}

// ReadTimeoutDuration parses ReadTimeout; zero disables the read timeout.
func (e ExecutorConfig) ReadTimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(e.ReadTimeout); err == nil && d > 0 {
		return d
	}
	return 0
}
