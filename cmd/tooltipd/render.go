package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tooltip/pkg/host"
)

func renderCmd() *cobra.Command {
	var (
		show []string
		all  bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the page body with tooltips mounted",
		Long: `Mount the configured tooltips on the page body and print the result.

Tooltips named with --show (by trigger ID) are shown with their
transition settled, so the output is what a browser displays once
the panel is visible.

Examples:
  tooltipd render
  tooltipd render --show save --show help
  tooltipd render --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			hcfg, err := hostConfig(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			srv, err := host.New(hcfg, host.WithLogger(newLogger()))
			if err != nil {
				return err
			}

			if all {
				show = []string{"*"}
			}
			body, err := srv.Snapshot(show)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), body)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&show, "show", nil, "Trigger IDs whose tooltips are shown")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Show every tooltip")

	return cmd
}
