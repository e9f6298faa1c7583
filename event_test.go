package compmeta

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBlock(t *testing.T, events ...any) *Block {
	t.Helper()
	c, err := NewRegistry().Define(ClassSpec{Name: "Widget", Events: events})
	require.NoError(t, err)
	return NewBlock(c)
}

func TestListenerDefaults(t *testing.T) {
	b := newTestBlock(t, "click")

	dep, err := b.On("click", noop)
	require.NoError(t, err)
	assert.NotEmpty(t, dep.ID)
	assert.Equal(t, "click", dep.Event)
	assert.Equal(t, DefaultListenConfig(), dep.Config)
	assert.True(t, dep.Exposed())
	assert.True(t, dep.Queued(true))
	assert.False(t, dep.Queued(false))
}

func TestListenerOptions(t *testing.T) {
	b := newTestBlock(t, "click", "change")
	earlier := b.MustOn("change", noop)

	dep, err := b.On("click", noop,
		WithInputs("in"),
		WithOutputs("out1", "out2"),
		WithAPIName("predict"),
		WithScrollToOutput(),
		WithShowProgress(ProgressMinimal),
		WithQueue(false),
		WithBatch(),
		WithMaxBatchSize(16),
		WithPreprocess(false),
		WithPostprocess(false),
		WithCancels(earlier),
		WithEvery(2*time.Second),
		WithJS("() => 1"),
	)
	require.NoError(t, err)

	cfg := dep.Config
	assert.Equal(t, []any{"in"}, cfg.Inputs)
	assert.Equal(t, []any{"out1", "out2"}, cfg.Outputs)
	assert.Equal(t, "predict", cfg.APIName)
	assert.True(t, cfg.ScrollToOutput)
	assert.Equal(t, ProgressMinimal, cfg.ShowProgress)
	assert.False(t, dep.Queued(true))
	assert.True(t, cfg.Batch)
	assert.Equal(t, 16, cfg.MaxBatchSize)
	assert.False(t, cfg.Preprocess)
	assert.False(t, cfg.Postprocess)
	assert.Equal(t, []string{earlier.ID}, dep.CancelIDs())
	assert.Equal(t, 2*time.Second, cfg.Every)
	assert.Equal(t, "() => 1", cfg.JS)
	assert.NotEqual(t, earlier.ID, dep.ID)
}

func TestListenerHideAPI(t *testing.T) {
	b := newTestBlock(t, "click")
	dep := b.MustOn("click", noop, WithAPIName("x"), WithoutAPI())
	assert.False(t, dep.Exposed())
	assert.Empty(t, dep.Config.APIName)
}

func TestListenerValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []ListenOption
	}{
		{"bad progress", []ListenOption{WithShowProgress("loud")}},
		{"zero batch", []ListenOption{WithBatch(), WithMaxBatchSize(0)}},
		{"negative every", []ListenOption{WithEvery(-time.Second)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBlock(t, "click")
			_, err := b.On("click", noop, tt.opts...)
			require.Error(t, err)
			assert.Empty(t, b.Dependencies())
		})
	}

	b := newTestBlock(t, "click")
	_, err := b.On("click", nil)
	require.Error(t, err)
}

func TestListenerDescriptorDefaults(t *testing.T) {
	var callbacks int
	b := newTestBlock(t, EventListener{
		Name:         "upload",
		ShowProgress: ProgressHidden,
		Callback:     func(*Block) { callbacks++ },
	})

	dep := b.MustOn("upload", noop)
	assert.Equal(t, ProgressHidden, dep.Config.ShowProgress)
	b.MustOn("upload", noop)
	assert.Equal(t, 1, callbacks)
}

func TestBlockUnknownEvent(t *testing.T) {
	b := newTestBlock(t, "click")
	_, err := b.On("hover", noop)
	require.Error(t, err)
	assert.True(t, IsUnknownEvent(err))
	assert.Contains(t, err.Error(), "Widget")

	assert.Panics(t, func() { b.MustOn("hover", noop) })
}

func TestBlockAsComponent(t *testing.T) {
	b := newTestBlock(t, "click", "hover")
	var c Component = b

	for _, event := range c.Class().AllEvents() {
		_, err := c.On(event, func(ctx context.Context, inputs ...any) ([]any, error) {
			return inputs, nil
		})
		require.NoError(t, err)
	}
	deps := c.Dependencies()
	require.Len(t, deps, 2)
	assert.Equal(t, "click", deps[0].Event)
	assert.Equal(t, "hover", deps[1].Event)

	out, err := deps[0].Fn(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, out)
}
