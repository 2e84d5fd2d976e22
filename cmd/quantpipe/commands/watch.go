package commands

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/quantpipe/quantpipe/pkg/input"
	"github.com/quantpipe/quantpipe/pkg/resolve"
	"github.com/quantpipe/quantpipe/pkg/schema"
	"github.com/quantpipe/quantpipe/pkg/telemetry"
	"github.com/quantpipe/quantpipe/pkg/validate"
)

func newWatchCommand() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <input-file>",
		Short: "Re-validate an input file whenever it changes",
		Long: `Watch one input file and re-run parse, resolve and validate on every
change. Intended for editing input files with fast feedback; nothing is
ever executed. When metrics are enabled the /metrics endpoint is served
for the lifetime of the watch.`,
		Example: `  # Watch a file while editing it
  quantpipe watch examples/h2_hdf5.qp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.shutdown()

			reg, err := newRegistry()
			if err != nil {
				return err
			}

			// Watch the directory: editors replace files on save, which
			// drops a watch placed on the file itself.
			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer watcher.Close()
			dir := filepath.Dir(path)
			if err := watcher.Add(dir); err != nil {
				return err
			}

			if a.cfg.Metrics.Enabled {
				go serveMetrics(a)
			}

			log := a.log.WithField("input", path)
			ctx := cmd.Context()
			checkOnce(a, reg, path)

			target := filepath.Clean(path)
			var timer *time.Timer
			pending := make(chan struct{}, 1)
			for {
				select {
				case <-ctx.Done():
					log.Info("watch stopped")
					return nil
				case ev, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if filepath.Clean(ev.Name) != target {
						continue
					}
					if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
						continue
					}
					// Coalesce bursts of events from a single save.
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(debounce, func() {
						select {
						case pending <- struct{}{}:
						default:
						}
					})
				case <-pending:
					checkOnce(a, reg, path)
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					log.WithError(err).Warn("watcher error")
				}
			}
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "delay before re-checking after a change")

	return cmd
}

// checkOnce runs parse, resolve and validate on the file and logs the
// outcome.
func checkOnce(a *app, reg *schema.Registry, path string) {
	log := a.log.WithField("input", path)

	start := time.Now()
	doc, err := input.ParseFile(path)
	a.metrics.ObserveStage(telemetry.StageParse, time.Since(start))
	if err != nil {
		log.WithError(err).Error("parse failed")
		return
	}

	start = time.Now()
	res, err := resolve.New(reg).Resolve(doc)
	a.metrics.ObserveStage(telemetry.StageResolve, time.Since(start))
	if err != nil {
		log.WithError(err).Error("resolution failed")
		return
	}

	start = time.Now()
	verrs := validate.New(reg).Validate(res)
	a.metrics.ObserveStage(telemetry.StageValidate, time.Since(start))
	if len(verrs) > 0 {
		a.metrics.ValidationErrors(len(verrs))
		for _, ve := range verrs {
			log.WithSection(ve.Section).Error(ve.Error())
		}
		log.Errorf("configuration invalid: %d validation error(s)", len(verrs))
		return
	}
	log.WithField("algorithm", res.Algorithm).
		WithField("driver", res.Driver).
		WithField("backend", res.Backend).
		Info("configuration valid")
}

func serveMetrics(a *app) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	srv := &http.Server{
		Addr:              a.cfg.Metrics.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		a.log.WithError(err).Warn("metrics endpoint failed")
	}
}
