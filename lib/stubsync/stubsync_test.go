package stubsync

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/compmeta/lib/extract"
	"github.com/pthm/compmeta/lib/render"
	"github.com/pthm/compmeta/lib/source"
)

const widgetSource = `package ui

import "github.com/pthm/compmeta"

// Widget is a clickable box.
type Widget struct {
	*compmeta.Block
	Label string
}

func (w *Widget) Postprocess(v any) (any, error) {
	return v, nil
}

// NewWidget creates a widget.
func NewWidget(label string) *Widget {
	return &Widget{Label: label}
}
`

func writeImpl(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "foo.go")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func target(path string, events ...string) Target {
	return Target{Name: "Widget", Ref: source.Ref{Name: "Widget", File: path}, Events: events}
}

func TestPipelineBootstrap(t *testing.T) {
	impl := writeImpl(t, widgetSource)
	p := NewPipeline(nil, Options{})

	res, err := p.Run(target(impl, "click"))
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, Replaced, res.Outcome)
	assert.Equal(t, strings.TrimSuffix(impl, ".go")+".goi", res.StubPath)

	span, found, err := extract.Extract(widgetSource, "Widget")
	require.NoError(t, err)
	require.True(t, found)
	block, err := render.Render(render.Input{Receiver: "*Widget", Contents: span.Text, Events: []string{"click"}})
	require.NoError(t, err)

	want := widgetSource[:span.Start] + strings.TrimSpace(block) + widgetSource[span.End:]
	assert.Equal(t, want, readFile(t, res.StubPath))
	assert.Contains(t, want, "func (c *Widget) Click(fn compmeta.HandlerFunc, opts ...compmeta.ListenOption) *compmeta.Dependency\n\n// NewWidget")

	// The implementation is never touched.
	assert.Equal(t, widgetSource, readFile(t, impl))
}

func TestPipelineIdempotent(t *testing.T) {
	impl := writeImpl(t, widgetSource)
	p := NewPipeline(nil, Options{})

	first, err := p.Run(target(impl, "click", "hover"))
	require.NoError(t, err)
	after1 := readFile(t, first.StubPath)

	second, err := p.Run(target(impl, "click", "hover"))
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, Unchanged, second.Outcome)
	assert.Equal(t, after1, readFile(t, second.StubPath))
}

func TestPipelineIncrementalUpdate(t *testing.T) {
	impl := writeImpl(t, widgetSource)
	p := NewPipeline(nil, Options{})

	res, err := p.Run(target(impl, "click"))
	require.NoError(t, err)

	// Hand edits outside the class span must survive.
	edited := "// Hand-maintained header.\n" + readFile(t, res.StubPath) + "\n// Trailing note.\n"
	require.NoError(t, os.WriteFile(res.StubPath, []byte(edited), 0644))
	before, _, err := extract.Extract(edited, "Widget")
	require.NoError(t, err)

	res, err = p.Run(target(impl, "click", "hover"))
	require.NoError(t, err)
	assert.Equal(t, Replaced, res.Outcome)

	updated := readFile(t, res.StubPath)
	after, found, err := extract.Extract(updated, "Widget")
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, edited[:before.Start], updated[:after.Start])
	assert.Equal(t, edited[before.End:], updated[after.End:])
	assert.Contains(t, after.Text, "func (c *Widget) Click(")
	assert.Contains(t, after.Text, "func (c *Widget) Hover(")
	assert.Equal(t, 1, strings.Count(updated, ") Click("))
	assert.Less(t, strings.Index(after.Text, ") Click("), strings.Index(after.Text, ") Hover("))
}

func TestPipelineShrinkingEvents(t *testing.T) {
	impl := writeImpl(t, widgetSource)
	p := NewPipeline(nil, Options{})

	res, err := p.Run(target(impl, "click", "hover"))
	require.NoError(t, err)

	_, err = p.Run(target(impl, "click"))
	require.NoError(t, err)
	stub := readFile(t, res.StubPath)
	assert.Contains(t, stub, ") Click(")
	assert.NotContains(t, stub, ") Hover(")
}

func TestSyncAppendsMissingClass(t *testing.T) {
	impl := writeImpl(t, widgetSource)
	s := New(Options{})
	stubPath := s.StubPath(impl)
	existing := "package ui\n\ntype Other struct{}\n"
	require.NoError(t, os.WriteFile(stubPath, []byte(existing), 0644))

	block := "\ntype Widget struct{}\n"
	res, err := s.Sync(Request{ImplPath: impl, Source: widgetSource, ClassName: "Widget", Block: block})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, Appended, res.Outcome)
	assert.Equal(t, existing+block, readFile(t, stubPath))

	res, err = s.Sync(Request{ImplPath: impl, Source: widgetSource, ClassName: "Widget", Block: block})
	require.NoError(t, err)
	assert.Equal(t, Unchanged, res.Outcome)
}

func TestSyncDryRun(t *testing.T) {
	impl := writeImpl(t, widgetSource)
	s := New(Options{DryRun: true})

	res, err := s.Sync(Request{ImplPath: impl, Source: widgetSource, ClassName: "Widget", Block: "type Widget struct{}"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, Replaced, res.Outcome)

	_, err = os.Stat(res.StubPath)
	assert.True(t, os.IsNotExist(err))
}

func TestSyncCustomSuffix(t *testing.T) {
	s := New(Options{Suffix: ".stub"})
	assert.Equal(t, "/tmp/ui/widget.stub", s.StubPath("/tmp/ui/widget.go"))
}

func TestSyncUnreadableStub(t *testing.T) {
	impl := writeImpl(t, widgetSource)
	s := New(Options{})
	require.NoError(t, os.Mkdir(s.StubPath(impl), 0755))

	_, err := s.Sync(Request{ImplPath: impl, Source: widgetSource, ClassName: "Widget", Block: "x"})
	require.Error(t, err)
}

func TestPipelineClassNotInSource(t *testing.T) {
	impl := writeImpl(t, "package ui\n\ntype Other struct{}\n")
	p := NewPipeline(nil, Options{})

	_, err := p.Run(target(impl, "click"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClassNotInSource))
	assert.NotEmpty(t, errors.GetAllHints(err))

	_, err = os.Stat(strings.TrimSuffix(impl, ".go") + ".goi")
	assert.True(t, os.IsNotExist(err))
}

func TestPipelineNoSource(t *testing.T) {
	p := NewPipeline(nil, Options{})
	_, err := p.Run(Target{Name: "Widget", Ref: source.Ref{Name: "Widget"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, source.ErrNoSource))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "unchanged", Unchanged.String())
	assert.Equal(t, "appended", Appended.String())
	assert.Equal(t, "replaced", Replaced.String())
}
