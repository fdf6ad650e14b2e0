package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactive/internal/errors"
)

func explainCmd() *cobra.Command {
	var (
		list   bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "explain <code>",
		Short: "Describe an error code",
		Long: `Print the explanation and fix hint registered for an error code.

Examples:
  reactive explain R001
  reactive explain --list`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if list {
				for _, code := range errors.GetAllCodes() {
					tmpl, _ := errors.GetTemplate(code)
					info(w, "%s  %-8s %s", code, tmpl.Category, tmpl.Message)
				}
				return nil
			}

			e, err := errors.Explain(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				fmt.Fprintln(w, e.FormatJSON())
				return nil
			}
			fmt.Fprint(w, e.Format())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List every registered code")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the explanation as JSON")

	return cmd
}
