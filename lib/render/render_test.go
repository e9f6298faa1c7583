package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetBody = "type Widget struct {\n\tLabel string\n}"

func TestRenderOrderAndDeterminism(t *testing.T) {
	in := Input{
		Receiver: "*Widget",
		Contents: widgetBody,
		Events:   []string{"hover", "click", "key_up"},
	}

	r := New()
	first, err := r.Render(in)
	require.NoError(t, err)
	second, err := r.Render(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	hover := strings.Index(first, "func (c *Widget) Hover(")
	click := strings.Index(first, "func (c *Widget) Click(")
	keyUp := strings.Index(first, "func (c *Widget) KeyUp(")
	require.NotEqual(t, -1, hover)
	require.NotEqual(t, -1, click)
	require.NotEqual(t, -1, keyUp)
	assert.Less(t, hover, click)
	assert.Less(t, click, keyUp)

	assert.Equal(t, 3, strings.Count(first, "*compmeta.Dependency"))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(first), widgetBody))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(first), "*compmeta.Dependency"))
}

func TestRenderDocumentsEveryOption(t *testing.T) {
	out, err := Render(Input{Receiver: "*Widget", Contents: widgetBody, Events: []string{"click"}})
	require.NoError(t, err)

	for _, opt := range []string{
		"fn:", "WithInputs", "WithOutputs", "WithAPIName", "WithScrollToOutput",
		"WithShowProgress", "WithQueue", "WithBatch", "WithMaxBatchSize",
		"WithPreprocess", "WithPostprocess", "WithCancels", "WithEvery", "WithJS",
	} {
		assert.Contains(t, out, opt)
	}
	assert.Contains(t, out, `the "click" event fires`)
}

func TestRenderNoEvents(t *testing.T) {
	out, err := Render(Input{Receiver: "*Widget", Contents: widgetBody})
	require.NoError(t, err)
	assert.Equal(t, widgetBody, strings.TrimSpace(out))
}

func TestRenderRequiresReceiver(t *testing.T) {
	_, err := Render(Input{Contents: widgetBody, Events: []string{"click"}})
	require.Error(t, err)
}

func TestRenderCustomTemplate(t *testing.T) {
	r, err := NewWithTemplate(`{{ .contents }}{{ range .events }}|{{ method . }}{{ end }}`)
	require.NoError(t, err)

	out, err := r.Render(Input{Receiver: "*W", Contents: "type W int", Events: []string{"a", "b_c"}})
	require.NoError(t, err)
	assert.Equal(t, "type W int|A|BC", out)

	_, err = NewWithTemplate("{{ .contents")
	require.Error(t, err)
}

func TestMethodName(t *testing.T) {
	tests := []struct {
		event string
		want  string
	}{
		{"click", "Click"},
		{"double_click", "DoubleClick"},
		{"start-recording", "StartRecording"},
		{"keyUp", "KeyUp"},
		{"404", "On404"},
		{"", "On"},
	}

	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			assert.Equal(t, tt.want, MethodName(tt.event))
		})
	}
}
