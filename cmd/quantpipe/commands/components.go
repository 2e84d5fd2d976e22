package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantpipe/quantpipe/pkg/input"
	"github.com/quantpipe/quantpipe/pkg/schema"
)

func newComponentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "components",
		Short: "List the registered component implementations",
		Long: `List every registered implementation, grouped by component kind, with
the per-kind default marked. With --verbose, each implementation's
options are listed with their types, defaults and allowed values.`,
		Example: `  # List implementations per kind
  quantpipe components

  # Include every option schema
  quantpipe components --verbose

  # Machine-readable listing
  quantpipe components --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := newRegistry()
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(componentListing(reg))
			}

			for _, kind := range reg.Kinds() {
				def, _ := reg.DefaultFor(kind)
				fmt.Printf("%s\n", kind)
				for _, name := range reg.Names(kind) {
					marker := " "
					if name == def {
						marker = "*"
					}
					fmt.Printf("  %s %s\n", marker, name)
					if !verbose {
						continue
					}
					sch, err := reg.Lookup(kind, name)
					if err != nil {
						return err
					}
					for _, opt := range sch.Options {
						line := fmt.Sprintf("      %-22s %s", opt.Name, opt.Type)
						if opt.Default != nil {
							line += fmt.Sprintf("  default=%s", input.FormatValue(opt.Default))
						}
						if len(opt.Allowed) > 0 {
							line += fmt.Sprintf("  allowed=%s", input.FormatValue(opt.Allowed))
						}
						fmt.Println(line)
					}
					for _, req := range sch.Requires {
						fmt.Printf("      requires %s\n", req)
					}
				}
			}
			return nil
		},
	}

	return cmd
}

type optionListing struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default any    `json:"default,omitempty"`
	Allowed []any  `json:"allowed,omitempty"`
}

type implementationListing struct {
	Name     string          `json:"name"`
	Default  bool            `json:"default,omitempty"`
	Options  []optionListing `json:"options,omitempty"`
	Requires []string        `json:"requires,omitempty"`
}

type kindListing struct {
	Kind            string                  `json:"kind"`
	Implementations []implementationListing `json:"implementations"`
}

func componentListing(reg *schema.Registry) []kindListing {
	var out []kindListing
	for _, kind := range reg.Kinds() {
		def, _ := reg.DefaultFor(kind)
		kl := kindListing{Kind: string(kind)}
		for _, name := range reg.Names(kind) {
			sch, err := reg.Lookup(kind, name)
			if err != nil {
				continue
			}
			il := implementationListing{Name: name, Default: name == def}
			for _, opt := range sch.Options {
				il.Options = append(il.Options, optionListing{
					Name:    opt.Name,
					Type:    opt.Type.String(),
					Default: opt.Default,
					Allowed: opt.Allowed,
				})
			}
			for _, req := range sch.Requires {
				il.Requires = append(il.Requires, string(req))
			}
			kl.Implementations = append(kl.Implementations, il)
		}
		out = append(out, kl)
	}
	return out
}
