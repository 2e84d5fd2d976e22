package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/quantpipe/quantpipe/pkg/input"
)

func newParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <input-file>",
		Short: "Parse an input file and print its canonical form",
		Long: `Parse one input file and print the sections the parser saw, without
resolving or validating anything. Useful for checking syntax and for
seeing how values were typed.`,
		Example: `  # Print the canonical form
  quantpipe parse examples/h2_hdf5.qp

  # Print the parsed sections as JSON
  quantpipe parse --json examples/h2_hdf5.qp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := input.ParseFile(args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				type keyValue struct {
					Key   string `json:"key"`
					Value any    `json:"value"`
					Type  string `json:"type"`
				}
				type section struct {
					Name string     `json:"name"`
					Line int        `json:"line"`
					Keys []keyValue `json:"keys"`
				}
				out := make([]section, 0, doc.Len())
				for _, sec := range doc.Sections() {
					s := section{Name: sec.Name, Line: sec.Line}
					for _, key := range sec.Keys() {
						v, _ := sec.Get(key)
						s.Keys = append(s.Keys, keyValue{
							Key:   key,
							Value: v,
							Type:  input.TypeOf(v).String(),
						})
					}
					out = append(out, s)
				}
				return printJSON(out)
			}
			return input.Write(os.Stdout, doc)
		},
	}

	return cmd
}
