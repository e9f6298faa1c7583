package components

import (
	"time"

	"github.com/pthm/compmeta"
)

// Status is a todo's completion state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Todo is a todo item. It is a field model, so component outputs carrying
// it are normalized to plain maps.
type Todo struct {
	compmeta.FieldModel
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"-"`
}

// TodoStore is the data access the components need.
type TodoStore interface {
	Add(title string) string
	Toggle(id string) bool
	Delete(id string) bool
	List(status *Status) []*Todo
}
