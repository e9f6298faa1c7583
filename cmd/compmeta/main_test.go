package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const counterSource = `package ui

import "github.com/pthm/compmeta"

type Counter struct {
	*compmeta.Block
}

var CounterClass = compmeta.MustDefine(compmeta.ClassSpec{
	Type:   (*Counter)(nil),
	Events: []any{"increment", compmeta.EventListener{Name: "reset", Doc: "Back to zero."}},
})
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagDryRun, flagVerbose, flagJSON, flagConfig = false, 0, false, ""
	docsOutput = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSyncCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "counter.go"), []byte(counterSource), 0644))

	out, err := execute(t, "sync", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "synced")
	assert.Contains(t, out, "Counter")
	assert.Contains(t, out, "(created)")

	stub, err := os.ReadFile(filepath.Join(dir, "counter.goi"))
	require.NoError(t, err)
	assert.Contains(t, string(stub), "func (c *Counter) Increment(")

	out, err = execute(t, "sync", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "unchanged")
}

func TestSyncCommandDryRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "counter.go"), []byte(counterSource), 0644))

	out, err := execute(t, "sync", "--dry-run", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "[dry run]")
	assert.NoFileExists(t, filepath.Join(dir, "counter.goi"))
}

func TestGenerateAndCleanCommands(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "counter.go"), []byte(counterSource), 0644))

	out, err := execute(t, "generate", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "counter_events.go")
	assert.FileExists(t, filepath.Join(dir, "counter_events.go"))

	out, err = execute(t, "clean", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "removed")
	assert.NoFileExists(t, filepath.Join(dir, "counter_events.go"))
}

func TestDocsCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "counter.go"), []byte(counterSource), 0644))
	html := filepath.Join(dir, "events.html")

	_, err := execute(t, "docs", dir, "-o", html)
	require.NoError(t, err)

	page, err := os.ReadFile(html)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<h2>Counter</h2>")
	assert.Contains(t, string(page), "Back to zero.")
}

func TestConfigErrorsSurface(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compmeta.toml")
	require.NoError(t, os.WriteFile(path, []byte("stub_suffix = \".go\"\n"), 0644))

	_, err := execute(t, "sync", "--config", path, t.TempDir())
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}
