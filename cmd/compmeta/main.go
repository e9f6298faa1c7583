package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/pthm/compmeta/lib/config"
	"github.com/pthm/compmeta/lib/generator"
	"github.com/pthm/compmeta/lib/logger"
)

var (
	flagConfig  string
	flagJSON    bool
	flagVerbose int
	flagDryRun  bool

	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "compmeta",
	Short: "Component class stubs and typed event listeners",
	Long: `compmeta keeps a stub file (.goi) beside each component source listing the
component's public interface, including one declaration per supported event.
It can also generate typed listener methods and an HTML event reference.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConfig, "config", "", "path to "+config.FileName+" (default: search upwards from the working directory)")
	flags.BoolVar(&flagJSON, "json", false, "write logs as JSON")
	flags.CountVarP(&flagVerbose, "verbose", "v", "log verbosity (-v info, -vv debug)")
	flags.BoolVar(&flagDryRun, "dry-run", false, "report changes without writing files")
}

func main() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

// setup loads the configuration and initializes logging. Flags override
// values from the file.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(flagConfig, ".")
	if err != nil {
		return err
	}
	cfg = loaded

	verbosity := cfg.Verbosity
	if cmd.Flags().Changed("verbose") {
		verbosity = flagVerbose
	}
	if err := logger.Initialize(cfg.Log.JSON || flagJSON, verbosity); err != nil {
		return errors.Wrap(err, "initialize logger")
	}
	if cfg.Path != "" {
		logger.Logger.Debugw("loaded config", logger.FieldFile, cfg.Path)
	}
	return nil
}

// patterns returns the package patterns from args or the configuration.
func patterns(args []string) []string {
	if len(args) == 0 {
		return cfg.Packages
	}
	return args
}

func newGenerator() *generator.Generator {
	return generator.New(generator.Options{
		DryRun:     flagDryRun,
		StubSuffix: cfg.StubSuffix,
	})
}

func printError(err error) {
	errorColor.Fprintf(os.Stderr, "error: ")
	fmt.Fprintln(os.Stderr, err)
	for _, hint := range errors.GetAllHints(err) {
		hintColor.Fprintf(os.Stderr, "hint: ")
		fmt.Fprintln(os.Stderr, hint)
	}
}
