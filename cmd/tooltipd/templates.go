package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tooltip/internal/errors"
)

func templatesCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the available templates",
		Long: `List every template the server would load, with the source it
came from. Later sources override earlier ones: built-in templates,
then the configured YAML globs in order, then the S3 bucket.

Examples:
  tooltipd templates
  tooltipd templates --name card`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, sources, err := loadTemplates(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if name != "" {
				tmpl, ok := store.Lookup(name)
				if !ok {
					return errors.New(errors.CodeTemplateNotFound).
						WithDetailf("no template named %q", name)
				}
				fmt.Fprintln(out, tmpl)
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSOURCE")
			for _, s := range sources {
				fmt.Fprintf(w, "%s\t%s\n", s.name, s.origin)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Print the source of one template")

	return cmd
}
