package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactive/internal/demo"
	"github.com/vango-dev/reactive/pkg/reactive"
)

func demoCmd(g *globals) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "demo [scenario...]",
		Short: "Run the sample scenarios",
		Long: `Run the sample scenarios, or only the named ones.

Each scenario builds a small graph on its own runtime and prints what
happens as its values change.

Examples:
  reactive demo
  reactive demo counter memo
  reactive demo --list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if list {
				for _, s := range demo.Scenarios() {
					info(w, "%-12s %s", s.Name, s.Title)
				}
				return nil
			}

			if err := demo.Run(w, args,
				reactive.WithLogger(g.logger),
				reactive.WithMaxEffectRuns(g.cfg.Runtime.MaxEffectRuns),
			); err != nil {
				return err
			}
			fmt.Fprintln(w)
			success(w, "All examples completed!")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List the available scenarios")

	return cmd
}
