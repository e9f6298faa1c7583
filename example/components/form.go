package components

import "github.com/pthm/compmeta"

// FormComponent is the base class of components holding user input.
type FormComponent struct {
	*compmeta.Block
}

var FormClass = compmeta.MustDefine(compmeta.ClassSpec{
	Type: (*FormComponent)(nil),
	Events: []any{
		compmeta.EventListener{Name: "change", Doc: "The value changed."},
		compmeta.EventListener{Name: "blur", Doc: "Focus left the component."},
	},
})

// AddTodo is a single-line input that creates todos.
type AddTodo struct {
	*compmeta.Block
	Placeholder string
}

var AddTodoClass = compmeta.MustDefine(compmeta.ClassSpec{
	Type:  (*AddTodo)(nil),
	Bases: []*compmeta.Class{FormClass},
	Events: []any{
		compmeta.EventListener{
			Name:         "submit",
			Doc:          "Enter was pressed.",
			ShowProgress: compmeta.ProgressMinimal,
		},
	},
})

// NewAddTodo creates an AddTodo input.
func NewAddTodo() *AddTodo {
	return &AddTodo{
		Block:       compmeta.NewBlock(AddTodoClass),
		Placeholder: "What needs doing?",
	}
}
