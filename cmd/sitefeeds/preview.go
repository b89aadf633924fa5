package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newPreviewCommand(opts *rootOptions) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "preview <path below content.dir>",
		Short: "Render one markdown file with the configured engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := opts.module()
			if err != nil {
				return err
			}
			doc, html, err := module.Preview(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(opts.out, "Path: %s\nChecksum: %x\n\n", doc.Path, doc.Checksum)
			if len(doc.Metadata) > 0 {
				if frontmatter, err := json.MarshalIndent(doc.Metadata, "", "  "); err == nil {
					fmt.Fprintf(opts.out, "Frontmatter:\n%s\n\n", frontmatter)
				}
			}
			if raw {
				fmt.Fprintf(opts.out, "Markdown Body:\n%s\n", doc.Body)
				return nil
			}
			fmt.Fprintf(opts.out, "Rendered HTML:\n%s\n", html)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the markdown body instead of HTML")
	return cmd
}
