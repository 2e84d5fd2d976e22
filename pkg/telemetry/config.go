package telemetry

import "time"

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error, fatal.
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error fatal"`

	// Format is json or console.
	Format string `yaml:"format" validate:"omitempty,oneof=json console"`

	// Output is stdout, stderr, or a file path.
	Output string `yaml:"output"`

	// EnableCaller adds the calling file and line to each entry.
	EnableCaller bool `yaml:"enable_caller"`
}

// DefaultLoggingConfig returns console logging at info level on stderr.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:  "info",
		Format: "console",
		Output: "stderr",
	}
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	// Enabled turns metric collection on.
	Enabled bool `yaml:"enabled"`

	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace"`

	// Listen is the address the /metrics endpoint binds to, used by
	// long-lived commands such as watch.
	Listen string `yaml:"listen" validate:"omitempty,hostname_port"`
}

// DefaultMetricsConfig returns disabled metrics under the quantpipe
// namespace.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "quantpipe",
		Listen:    "127.0.0.1:9464",
	}
}

// TracingConfig configures span export.
type TracingConfig struct {
	// Enabled turns tracing on.
	Enabled bool `yaml:"enabled"`

	// Exporter is stdout, otlp or none.
	Exporter string `yaml:"exporter" validate:"omitempty,oneof=stdout otlp none"`

	// Endpoint is the OTLP collector address for the otlp exporter.
	Endpoint string `yaml:"endpoint"`

	// SamplingRate is the fraction of runs traced, 0 to 1.
	SamplingRate float64 `yaml:"sampling_rate" validate:"gte=0,lte=1"`

	// ExportTimeout bounds a batch export.
	ExportTimeout time.Duration `yaml:"export_timeout"`
}

// DefaultTracingConfig returns disabled tracing with the stdout exporter.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		Exporter:      "stdout",
		SamplingRate:  1.0,
		ExportTimeout: 30 * time.Second,
	}
}
