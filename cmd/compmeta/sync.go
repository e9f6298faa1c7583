package main

import (
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync [packages]",
	Short: "Synchronize stub files with component event declarations",
	Long: `Sync finds compmeta.Define and compmeta.MustDefine calls with literal
ClassSpecs and updates the stub file beside each component's source. A
missing stub is created as a copy of the source first. Only the component's
own span in the stub is rewritten; running sync twice changes nothing.`,
	Example: `  compmeta sync ./...
  compmeta sync --dry-run ./components/...`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	results, err := newGenerator().Sync(patterns(args)...)
	for _, r := range results {
		printSync(out, r)
	}
	if err != nil {
		return err
	}
	if len(results) == 0 {
		warnColor.Fprintln(out, "no components found")
	}
	return nil
}
