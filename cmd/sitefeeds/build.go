package main

import (
	"fmt"

	"github.com/spf13/cobra"

	sitefeeds "github.com/goliatone/go-site-feeds"
)

func newBuildCommand(opts *rootOptions) *cobra.Command {
	var (
		feeds  []string
		dryRun bool
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write feeds, sitemap and robots.txt to generator.output_dir",
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := opts.module()
			if err != nil {
				return err
			}
			result, buildErr := module.Build(cmd.Context(), sitefeeds.BuildOptions{
				Feeds:  feeds,
				DryRun: dryRun,
				Force:  force,
			})
			if result != nil {
				printBuildResult(opts, module.Config().Generator.OutputDir, result)
			}
			return buildErr
		},
	}
	cmd.Flags().StringSliceVar(&feeds, "feed", nil, "limit the build to the named feeds (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "render without writing files")
	cmd.Flags().BoolVar(&force, "force", false, "rewrite files the manifest reports as unchanged")
	return cmd
}

func printBuildResult(opts *rootOptions, outputDir string, result *sitefeeds.BuildResult) {
	mode := "wrote"
	if result.DryRun {
		mode = "would write"
	}
	for _, artifact := range result.Written {
		fmt.Fprintf(opts.out, "%s %s (%d items, %d bytes)\n", mode, artifact.Output, artifact.Items, artifact.Size)
	}
	for _, artifact := range result.Skipped {
		fmt.Fprintf(opts.out, "unchanged %s\n", artifact.Output)
	}
	fmt.Fprintf(opts.out, "%d written, %d unchanged in %s (%s)\n", len(result.Written), len(result.Skipped), outputDir, result.Duration)
}
