package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pthm/compmeta/lib/logger"
	"github.com/pthm/compmeta/lib/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [packages]",
	Short: "Re-sync stubs whenever component sources change",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	gen := newGenerator()

	dirs, err := gen.Packages(patterns(args)...)
	if err != nil {
		return err
	}

	// Bring everything up to date before waiting for changes.
	if err := runSync(cmd, args); err != nil {
		return err
	}

	w, err := watch.New(dirs, cfg.Watch.Debounce.Duration, func(dir string) error {
		results, err := gen.Sync(dir)
		for _, r := range results {
			printSync(out, r)
		}
		return err
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Logger.Infow("watching", "dirs", len(dirs))
	unchangedColor.Fprintf(out, "watching %d package(s), Ctrl-C to stop\n", len(dirs))
	return w.Run(ctx)
}
