package main

import (
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [packages]",
	Short: "Generate typed listener methods (*_events.go)",
	Long: `Generate writes <file>_events.go beside each component's source with one
method per supported event, e.g.

  func (c *Widget) Click(fn compmeta.HandlerFunc, opts ...compmeta.ListenOption) *compmeta.Dependency

The component type must embed *compmeta.Block.`,
	Example: `  compmeta generate ./...
  compmeta generate --dry-run ./components/fileviewer`,
	RunE: func(cmd *cobra.Command, args []string) error {
		written, err := newGenerator().Generate(patterns(args)...)
		if err != nil {
			return err
		}
		for _, path := range written {
			printPath(cmd.OutOrStdout(), syncedColor, "✓", "generated", path)
		}
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean [packages]",
	Short: "Remove generated files (*_events.go)",
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := newGenerator().Clean(patterns(args)...)
		for _, path := range removed {
			printPath(cmd.OutOrStdout(), unchangedColor, "-", "removed", path)
		}
		return err
	},
}
