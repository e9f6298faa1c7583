package components

import (
	"github.com/cockroachdb/errors"

	"github.com/pthm/compmeta"
)

// TodoList displays todos. Its output is the list itself.
type TodoList struct {
	*compmeta.Block
	Filter *Status
}

// Visible returns the todos matching the list's filter.
func (c *TodoList) Visible(store TodoStore) []*Todo {
	return store.List(c.Filter)
}

var TodoListClass = compmeta.MustDefine(compmeta.ClassSpec{
	Type: (*TodoList)(nil),
	Events: []any{
		"select",
		"toggle",
		compmeta.EventListener{Name: "delete", Doc: "A todo's delete button was clicked."},
	},
	Postprocess: func(value any) (any, error) {
		todos, ok := value.([]*Todo)
		if !ok {
			return nil, errors.Newf("todo list: unexpected value %T", value)
		}
		return compmeta.RootModel[[]*Todo]{Root: todos}, nil
	},
})

// NewTodoList creates a list showing every todo.
func NewTodoList() *TodoList {
	return &TodoList{Block: compmeta.NewBlock(TodoListClass)}
}
