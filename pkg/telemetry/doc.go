// Package telemetry provides structured logging, Prometheus metrics and
// OpenTelemetry tracing for the pipeline. Loggers travel through
// context.Context so library code never holds global state.
package telemetry
