package components

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/compmeta"
)

func TestAddTodoInheritsFormEvents(t *testing.T) {
	assert.Equal(t, []string{"submit"}, AddTodoClass.Events())
	assert.Equal(t, []string{"submit", "change", "blur"}, AddTodoClass.AllEvents())

	add := NewAddTodo()
	dep, err := add.On("submit", func(ctx context.Context, inputs ...any) ([]any, error) { return nil, nil })
	require.NoError(t, err)
	assert.Equal(t, compmeta.ProgressMinimal, dep.Config.ShowProgress)

	_, err = add.On("select", func(ctx context.Context, inputs ...any) ([]any, error) { return nil, nil })
	assert.True(t, compmeta.IsUnknownEvent(err))
}

func TestTodoListNormalizesOutput(t *testing.T) {
	list := NewTodoList()
	out, err := list.Postprocess([]*Todo{{ID: "todo-1", Title: "Ship", Status: StatusPending}})
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[string]any{"id": "todo-1", "title": "Ship", "status": "pending"},
	}, out)

	_, err = list.Postprocess("nope")
	assert.Error(t, err)
}
