package main

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// version can be overridden at build time via -ldflags.
var version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the compmeta version",
	Run: func(cmd *cobra.Command, args []string) {
		name := color.New(color.FgGreen, color.Bold).Sprint("compmeta")
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", name, version, runtime.Version())
	},
}
