package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLintCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lint [collection...]",
		Short: "Validate front-matter against the collection schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := opts.module()
			if err != nil {
				return err
			}
			report, err := module.Lint(cmd.Context(), args...)
			if report != nil {
				for _, problem := range report.Problems {
					fmt.Fprintln(opts.out, problem.String())
				}
				fmt.Fprintf(opts.out, "%d file(s) checked, %d problem(s)\n", report.Files, len(report.Problems))
			}
			return err
		},
	}
}
