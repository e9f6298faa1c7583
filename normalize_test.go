package compmeta

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fileData struct {
	FieldModel
	Path     string            `json:"path"`
	URL      string            `json:"url,omitempty"`
	Size     int               `json:"size"`
	Meta     map[string]string `json:"meta"`
	internal string
}

type labels = RootModel[[]string]

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want ResultKind
	}{
		{"field model", fileData{}, KindFieldModel},
		{"field model pointer", &fileData{}, KindFieldModel},
		{"root model", labels{Root: []string{"a"}}, KindRootModel},
		{"string", "hello", KindPlain},
		{"map", map[string]any{"a": 1}, KindPlain},
		{"nil", nil, KindPlain},
		{"plain struct", struct{ A int }{1}, KindPlain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.v))
		})
	}
}

func TestNormalizeFieldModel(t *testing.T) {
	out, err := Normalize(fileData{
		Path:     "/tmp/a.png",
		Size:     12,
		Meta:     map[string]string{"alt": "cat"},
		internal: "hidden",
	})
	require.NoError(t, err)

	m, ok := out.(map[string]any)
	require.True(t, ok, "got %T", out)
	assert.Equal(t, "/tmp/a.png", m["path"])
	assert.EqualValues(t, 12, m["size"])
	assert.Equal(t, map[string]any{"alt": "cat"}, m["meta"])
	assert.NotContains(t, m, "url")
	assert.NotContains(t, m, "internal")
}

func TestNormalizeRootModel(t *testing.T) {
	out, err := Normalize(labels{Root: []string{"cat", "dog"}})
	require.NoError(t, err)
	assert.Equal(t, []any{"cat", "dog"}, out)

	out, err = Normalize(RootModel[fileData]{Root: fileData{Path: "p"}})
	require.NoError(t, err)
	m, ok := out.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "p", m["path"])
}

func TestNormalizePlainUnchanged(t *testing.T) {
	plain := map[string]any{"a": 1}
	out, err := Normalize(plain)
	require.NoError(t, err)
	assert.Equal(t, plain, out)

	type point struct{ X, Y int }
	out, err = Normalize(point{1, 2})
	require.NoError(t, err)
	assert.Equal(t, point{1, 2}, out)
}

func TestSerializes(t *testing.T) {
	wrapped := Serializes(func(v any) (any, error) {
		if v == "model" {
			return fileData{Path: "x"}, nil
		}
		return v, nil
	})

	out, err := wrapped("model")
	require.NoError(t, err)
	assert.Equal(t, "x", out.(map[string]any)["path"])

	out, err = wrapped("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", out)

	boom := errors.New("boom")
	failing := Serializes(func(any) (any, error) { return fileData{}, boom })
	_, err = failing(nil)
	assert.ErrorIs(t, err, boom)
}

func TestResultKindString(t *testing.T) {
	assert.Equal(t, "plain", KindPlain.String())
	assert.Equal(t, "field-model", KindFieldModel.String())
	assert.Equal(t, "root-model", KindRootModel.String())
}
