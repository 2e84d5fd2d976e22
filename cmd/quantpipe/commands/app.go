package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/quantpipe/quantpipe/pkg/appconfig"
	"github.com/quantpipe/quantpipe/pkg/plugins"
	"github.com/quantpipe/quantpipe/pkg/schema"
	"github.com/quantpipe/quantpipe/pkg/stores"
	"github.com/quantpipe/quantpipe/pkg/telemetry"
)

// app bundles the configured tool services a command needs.
type app struct {
	cfg     appconfig.Config
	log     *telemetry.Logger
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer
}

// newApp loads the tool configuration and brings up logging, metrics and
// tracing.
func newApp() (*app, error) {
	cfg, err := appconfig.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	log, err := telemetry.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	tracer, err := telemetry.NewTracer(cfg.Tracing, "quantpipe", appVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}
	return &app{
		cfg:     cfg,
		log:     log,
		metrics: telemetry.NewMetrics(cfg.Metrics),
		tracer:  tracer,
	}, nil
}

// shutdown flushes pending telemetry.
func (a *app) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tracer.Shutdown(ctx); err != nil {
		a.log.WithError(err).Warn("tracer shutdown failed")
	}
}

// openStore opens the run-history store when the configuration enables it.
// A nil store with a nil error means history is off.
func (a *app) openStore(ctx context.Context) (*stores.SQLiteStore, error) {
	if !a.cfg.History.Enabled {
		return nil, nil
	}
	store, err := stores.NewSQLiteStore(a.cfg.History.Path)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// newRegistry builds the frozen component registry every resolution runs
// against.
func newRegistry() (*schema.Registry, error) {
	reg := schema.NewRegistry()
	if err := plugins.RegisterBuiltins(reg); err != nil {
		return nil, err
	}
	reg.Freeze()
	return reg, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
