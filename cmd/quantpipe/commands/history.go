package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantpipe/quantpipe/pkg/stores"
)

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the run-history store",
		Long: `Query past pipeline runs from the history store. The store must be
enabled in the tool configuration.`,
	}

	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryShowCommand())
	cmd.AddCommand(newHistoryDeleteCommand())

	return cmd
}

// withStore opens the configured history store and hands it to fn.
func withStore(cmd *cobra.Command, fn func(*stores.SQLiteStore) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.shutdown()

	store, err := a.openStore(cmd.Context())
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("run history is disabled; enable it in the config file")
	}
	defer store.Close()
	return fn(store)
}

func newHistoryListCommand() *cobra.Command {
	var (
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List past runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *stores.SQLiteStore) error {
				runs, err := store.ListRuns(cmd.Context(), limit, offset)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(runs)
				}
				for _, run := range runs {
					energy := "-"
					if run.Energy != nil {
						energy = fmt.Sprintf("%.10f", *run.Energy)
					}
					fmt.Printf("%s  %-9s  %-18s  %-28s  %s\n",
						run.ID, run.Status, run.Algorithm, run.Backend, energy)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "runs to skip")

	return cmd
}

func newHistoryShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *stores.SQLiteStore) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(run)
			})
		},
	}

	return cmd
}

func newHistoryDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete one run from the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *stores.SQLiteStore) error {
				return store.DeleteRun(cmd.Context(), args[0])
			})
		},
	}

	return cmd
}
