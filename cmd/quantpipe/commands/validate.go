package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quantpipe/quantpipe/pkg/input"
	"github.com/quantpipe/quantpipe/pkg/pipeline"
	"github.com/quantpipe/quantpipe/pkg/resolve"
	"github.com/quantpipe/quantpipe/pkg/validate"
)

func newValidateCommand() *cobra.Command {
	var showResolved bool

	cmd := &cobra.Command{
		Use:   "validate <input-file>",
		Short: "Resolve and validate a pipeline input file without running it",
		Long: `Validate one input file against the registered component schemas.

The file is parsed and resolved exactly as a run would, then every
section is checked for unknown keys, type mismatches and out-of-range
values. All violations are reported together.`,
		Example: `  # Validate an input file
  quantpipe validate examples/h2_hdf5.qp

  # Show the fully resolved configuration
  quantpipe validate --resolved examples/h2_hdf5.qp`,
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

			doc, err := input.ParseFile(path)
			if err != nil {
				return err
			}
			res, err := resolve.New(reg).Resolve(doc)
			if err != nil {
				return err
			}

			verrs := validate.New(reg).Validate(res)
			if showResolved {
				if err := input.Write(os.Stdout, res.Doc); err != nil {
					return err
				}
			}
			if len(verrs) > 0 {
				for _, ve := range verrs {
					fmt.Fprintf(os.Stderr, "error: %s\n", ve.Error())
				}
				return pipeline.NewConfigError(pipeline.CodeValidation,
					fmt.Sprintf("configuration invalid: %d validation error(s)", len(verrs)), nil)
			}

			a.log.WithField("input", path).
				WithField("algorithm", res.Algorithm).
				WithField("driver", res.Driver).
				WithField("backend", res.Backend).
				Info("configuration valid")
			return nil
		},
	}

	cmd.Flags().BoolVar(&showResolved, "resolved", false, "print the fully resolved configuration")

	return cmd
}
