package compmeta

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type labelModel struct {
	FieldModel
	Text string `json:"text"`
}

func TestTrigger(t *testing.T) {
	reg := NewRegistry()
	labelClass := reg.MustDefine(ClassSpec{
		Name:   "Label",
		Events: []any{},
		Postprocess: func(v any) (any, error) {
			return labelModel{Text: v.(string)}, nil
		},
	})
	buttonClass := reg.MustDefine(ClassSpec{Name: "Button", Events: []any{"click", "hover"}})

	label := NewBlock(labelClass)
	button := NewBlock(buttonClass)

	first := &MockHandler{Outputs: []any{"clicked", "extra"}}
	second := &MockHandler{Outputs: []any{"raw"}}
	hover := &MockHandler{}
	button.MustOn("click", first.Handle, WithOutputs(label))
	button.MustOn("click", second.Handle, WithOutputs(label), WithPostprocess(false))
	button.MustOn("hover", hover.Handle)

	result, err := Trigger(context.Background(), button, "click", 1, "two")
	require.NoError(t, err)
	assert.Equal(t, "click", result.Event)
	assert.Equal(t, 2, result.Fired)
	assert.Equal(t, []any{map[string]any{"text": "clicked"}, "extra", "raw"}, result.Outputs)
	assert.Equal(t, "extra", result.Output(1))
	assert.Nil(t, result.Output(5))

	assert.Equal(t, [][]any{{1, "two"}}, first.Calls())
	assert.Equal(t, 1, second.CallCount())
	assert.Equal(t, 0, hover.CallCount())
}

func TestTriggerUnknownEvent(t *testing.T) {
	c := NewRegistry().MustDefine(ClassSpec{Name: "Button", Events: []any{"click"}})
	_, err := Trigger(context.Background(), NewBlock(c), "scroll")
	assert.True(t, IsUnknownEvent(err))
}

func TestTriggerNoHandlers(t *testing.T) {
	c := NewRegistry().MustDefine(ClassSpec{Name: "Button", Events: []any{"click"}})
	result, err := Trigger(context.Background(), NewBlock(c), "click")
	require.NoError(t, err)
	assert.Zero(t, result.Fired)
	assert.Empty(t, result.Outputs)
}

func TestTriggerHandlerError(t *testing.T) {
	boom := errors.New("boom")
	c := NewRegistry().MustDefine(ClassSpec{Name: "Button", Events: []any{"click"}})
	b := NewBlock(c)
	b.MustOn("click", (&MockHandler{Err: boom}).Handle)

	result, err := Trigger(context.Background(), b, "click")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "Button.click")
	assert.Equal(t, 1, result.Fired)
}
