package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/pthm/compmeta/lib/generator"
	"github.com/pthm/compmeta/lib/stubsync"
)

var (
	syncedColor    = color.New(color.FgGreen)
	appendedColor  = color.New(color.FgCyan)
	unchangedColor = color.New(color.Faint)
	warnColor      = color.New(color.FgYellow)
	errorColor     = color.New(color.FgRed, color.Bold)
	hintColor      = color.New(color.FgBlue)
)

// printSync prints one status line for a stub sync.
func printSync(w io.Writer, r generator.SyncResult) {
	var mark, verb string
	var c *color.Color
	switch r.Outcome {
	case stubsync.Replaced:
		mark, verb, c = "✓", "synced", syncedColor
	case stubsync.Appended:
		mark, verb, c = "+", "appended", appendedColor
	default:
		mark, verb, c = "=", "unchanged", unchangedColor
	}

	line := fmt.Sprintf("%s %-9s %s → %s", mark, verb, r.Component.Name, relPath(r.StubPath))
	if r.Created {
		line += " (created)"
	}
	if flagDryRun {
		line += " [dry run]"
	}
	c.Fprintln(w, line)

	if len(r.Component.Dynamic) > 0 {
		warnColor.Fprintf(w, "  ! %d event(s) not listed: not literals\n", len(r.Component.Dynamic))
	}
}

// printPath prints a status line naming a file.
func printPath(w io.Writer, c *color.Color, mark, verb, path string) {
	line := fmt.Sprintf("%s %-9s %s", mark, verb, relPath(path))
	if flagDryRun {
		line += " [dry run]"
	}
	c.Fprintln(w, line)
}

// relPath shortens path relative to the working directory when possible.
func relPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || filepath.IsAbs(rel) || len(rel) >= len(path) {
		return path
	}
	return rel
}
