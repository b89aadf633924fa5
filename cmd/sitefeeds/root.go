package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	sitefeeds "github.com/goliatone/go-site-feeds"
	"github.com/goliatone/go-site-feeds/cmd/sitefeeds/internal/bootstrap"
)

var moduleBuilder = bootstrap.BuildModule

type rootOptions struct {
	configFile string
	contentDir string
	out        io.Writer
}

func (o *rootOptions) module() (*sitefeeds.Module, error) {
	module, err := moduleBuilder(bootstrap.Options{
		ConfigFile: o.configFile,
		ContentDir: o.contentDir,
	})
	if err != nil {
		return nil, fmt.Errorf("bootstrap module: %w", err)
	}
	return module, nil
}

func newRootCommand(out io.Writer) *cobra.Command {
	opts := &rootOptions{out: out}
	root := &cobra.Command{
		Use:   "sitefeeds",
		Short: "Serve and build RSS feeds from markdown content",
		Long: `sitefeeds reads markdown collections with YAML front-matter and publishes
RSS 2.0 feeds and a sitemap, either over HTTP or as static files.

Configuration is read from ./sitefeeds.yaml (or --config) and SITEFEEDS_
environment variables, e.g. SITEFEEDS_SITE_BASE_URL.`,
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is ./sitefeeds.yaml)")
	root.PersistentFlags().StringVar(&opts.contentDir, "content-dir", "", "override content.dir")

	root.AddCommand(
		newServeCommand(opts),
		newBuildCommand(opts),
		newLintCommand(opts),
		newPreviewCommand(opts),
	)
	return root
}
