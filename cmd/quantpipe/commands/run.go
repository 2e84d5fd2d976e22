package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/quantpipe/quantpipe/pkg/input"
	"github.com/quantpipe/quantpipe/pkg/pipeline"
	"github.com/quantpipe/quantpipe/pkg/resolve"
	"github.com/quantpipe/quantpipe/pkg/schema"
	"github.com/quantpipe/quantpipe/pkg/stores"
	"github.com/quantpipe/quantpipe/pkg/telemetry"
	"github.com/quantpipe/quantpipe/pkg/validate"
)

func newRunCommand() *cobra.Command {
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "run <input-file>",
		Short: "Resolve, validate and execute a pipeline input file",
		Long: `Run the full pipeline on one input file.

The file is parsed, resolved against the registered component schemas,
validated in total, and only then dispatched to the selected algorithm.
Validation failures stop the run before any component executes.`,
		Example: `  # Run a calculation
  quantpipe run examples/h2_hdf5.qp

  # Run with JSON result output
  quantpipe run --json examples/h2_exact.qp

  # Run without journaling to the history store
  quantpipe run --no-history examples/lih_inline.qp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.shutdown()

			runID := uuid.New().String()
			log := a.log.WithRunID(runID).WithField("input", path)
			ctx := log.WithContext(cmd.Context())
			ctx, span := a.tracer.StartRunSpan(ctx, runID, path)
			defer span.End()

			a.metrics.RunStarted()
			log.Info("starting run")

			reg, err := newRegistry()
			if err != nil {
				return err
			}

			res, err := resolveAndValidate(ctx, a, reg, path)
			if err != nil {
				telemetry.RecordError(span, err)
				a.metrics.RunCompleted("failed", "")
				return err
			}

			var store *stores.SQLiteStore
			if !noHistory {
				store, err = a.openStore(ctx)
				if err != nil {
					return err
				}
				if store != nil {
					defer store.Close()
				}
			}
			started := time.Now()
			if store != nil {
				err := store.CreateRun(ctx, &stores.Run{
					ID:        runID,
					InputPath: path,
					Problem:   res.Problem,
					Algorithm: res.Algorithm,
					Driver:    res.Driver,
					Backend:   res.Backend,
					Status:    stores.RunStatusRunning,
					StartedAt: started,
				})
				if err != nil {
					log.WithError(err).Warn("failed to journal run start")
					store = nil
				}
			}

			invokeCtx, invokeSpan := a.tracer.StartStageSpan(ctx, telemetry.StageInvoke)
			provider := metricProvider{ComponentProvider: reg, metrics: a.metrics}
			result, err := pipeline.NewInvoker(provider).Invoke(invokeCtx, res)
			a.metrics.ObserveStage(telemetry.StageInvoke, time.Since(started))
			if err != nil {
				telemetry.RecordError(invokeSpan, err)
				invokeSpan.End()
				telemetry.RecordError(span, err)
				a.metrics.RunCompleted("failed", res.Algorithm)
				if store != nil {
					msg := err.Error()
					if herr := store.FinishRun(ctx, runID, stores.RunStatusFailed, nil, &msg); herr != nil {
						log.WithError(herr).Warn("failed to journal run failure")
					}
				}
				return err
			}
			telemetry.RecordSuccess(invokeSpan)
			invokeSpan.End()
			telemetry.RecordSuccess(span)
			a.metrics.RunCompleted("completed", res.Algorithm)

			if store != nil {
				var energy *float64
				if e, ok := result["energy"].(float64); ok {
					energy = &e
				}
				if herr := store.FinishRun(ctx, runID, stores.RunStatusCompleted, energy, nil); herr != nil {
					log.WithError(herr).Warn("failed to journal run completion")
				}
			}

			log.WithField("duration", time.Since(started).String()).Info("run completed")
			return printResult(runID, result)
		},
	}

	cmd.Flags().BoolVar(&noHistory, "no-history", false, "skip the run-history store for this run")

	return cmd
}

// metricProvider counts component constructions on top of the registry.
type metricProvider struct {
	pipeline.ComponentProvider
	metrics *telemetry.Metrics
}

func (p metricProvider) Construct(kind pipeline.Kind, name string, params *input.Section) (pipeline.Component, error) {
	comp, err := p.ComponentProvider.Construct(kind, name, params)
	if err == nil {
		p.metrics.ComponentBuilt(string(kind))
	}
	return comp, err
}

// resolveAndValidate runs the parse, resolve and validate stages, printing
// every validation error before failing.
func resolveAndValidate(ctx context.Context, a *app, reg *schema.Registry, path string) (*pipeline.Resolved, error) {
	log := telemetry.FromContext(ctx)

	start := time.Now()
	_, parseSpan := a.tracer.StartStageSpan(ctx, telemetry.StageParse)
	doc, err := input.ParseFile(path)
	a.metrics.ObserveStage(telemetry.StageParse, time.Since(start))
	if err != nil {
		telemetry.RecordError(parseSpan, err)
		parseSpan.End()
		return nil, err
	}
	telemetry.RecordSuccess(parseSpan)
	parseSpan.End()

	start = time.Now()
	_, resolveSpan := a.tracer.StartStageSpan(ctx, telemetry.StageResolve)
	res, err := resolve.New(reg).Resolve(doc)
	a.metrics.ObserveStage(telemetry.StageResolve, time.Since(start))
	if err != nil {
		telemetry.RecordError(resolveSpan, err)
		resolveSpan.End()
		return nil, err
	}
	telemetry.RecordSuccess(resolveSpan)
	resolveSpan.End()

	start = time.Now()
	_, validateSpan := a.tracer.StartStageSpan(ctx, telemetry.StageValidate)
	verrs := validate.New(reg).Validate(res)
	a.metrics.ObserveStage(telemetry.StageValidate, time.Since(start))
	if len(verrs) > 0 {
		a.metrics.ValidationErrors(len(verrs))
		for _, ve := range verrs {
			log.WithSection(ve.Section).Error(ve.Error())
		}
		err := pipeline.NewConfigError(pipeline.CodeValidation,
			fmt.Sprintf("configuration invalid: %d validation error(s)", len(verrs)), nil)
		telemetry.RecordError(validateSpan, err)
		validateSpan.End()
		return nil, err
	}
	telemetry.RecordSuccess(validateSpan)
	validateSpan.End()
	return res, nil
}

func printResult(runID string, result pipeline.Result) error {
	if jsonOutput {
		out := map[string]any{"run_id": runID}
		for k, v := range result {
			out[k] = v
		}
		return printJSON(out)
	}
	fmt.Printf("run %s\n", runID)
	keys := make([]string, 0, len(result))
	for k := range result {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-18s %v\n", k, result[k])
	}
	return nil
}
