package main

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/pthm/compmeta/lib/docs"
)

var (
	docsOutput string
	docsTitle  string
)

func init() {
	docsCmd.Flags().StringVarP(&docsOutput, "output", "o", "", "write HTML to this file (default: stdout)")
	docsCmd.Flags().StringVar(&docsTitle, "title", "Component events", "page title")
}

var docsCmd = &cobra.Command{
	Use:   "docs [packages]",
	Short: "Render an HTML reference of components and their events",
	RunE: func(cmd *cobra.Command, args []string) error {
		comps, err := newGenerator().Discover(patterns(args)...)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if docsOutput != "" {
			if flagDryRun {
				printPath(cmd.OutOrStdout(), syncedColor, "✓", "docs", docsOutput)
				return nil
			}
			f, err := os.Create(docsOutput)
			if err != nil {
				return errors.Wrapf(err, "create %s", docsOutput)
			}
			defer f.Close()
			w = f
		}

		page := docs.Page(docsTitle, docs.FromComponents(comps))
		if err := page.Render(cmd.Context(), w); err != nil {
			return errors.Wrap(err, "render docs")
		}
		if docsOutput != "" {
			printPath(cmd.OutOrStdout(), syncedColor, "✓", "docs", docsOutput)
		}
		return nil
	},
}
