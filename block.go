package compmeta

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// Block is a component instance. Component types embed *Block to gain
// event registration through their class's capability table:
//
//	type Widget struct {
//	    *compmeta.Block
//	    Label string
//	}
//
//	w := &Widget{Block: compmeta.NewBlock(WidgetClass)}
//	w.On("click", handler, compmeta.WithOutputs(out))
//
// The generate command writes typed wrappers (w.Click(handler, ...)) that
// delegate to MustOn.
type Block struct {
	class *Class

	mu   sync.Mutex
	deps []*Dependency
}

// NewBlock creates an instance of class c.
func NewBlock(c *Class) *Block {
	return &Block{class: c}
}

// Class returns the block's class.
func (b *Block) Class() *Class {
	return b.class
}

// On registers fn for event. The event must be supported by the block's
// class or one of its bases.
func (b *Block) On(event string, fn HandlerFunc, opts ...ListenOption) (*Dependency, error) {
	if b == nil || b.class == nil {
		return nil, errors.Wrapf(ErrUnknownEvent, "%q on a block without a class", event)
	}
	listener, ok := b.class.Listener(event)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownEvent, "%s has no %q event", b.class.Name(), event)
	}
	return listener(b, fn, opts...)
}

// MustOn is like On but panics on error. Generated listener methods use it,
// so an error here means the generated code is out of date.
func (b *Block) MustOn(event string, fn HandlerFunc, opts ...ListenOption) *Dependency {
	dep, err := b.On(event, fn, opts...)
	if err != nil {
		panic(err)
	}
	return dep
}

// Dependencies returns the registrations made on this block, oldest first.
func (b *Block) Dependencies() []*Dependency {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Dependency(nil), b.deps...)
}

// Postprocess converts a value with the class's output method.
func (b *Block) Postprocess(value any) (any, error) {
	return b.class.Postprocess(value)
}

// addDependency records dep and reports whether it is the first
// registration for its event on this block.
func (b *Block) addDependency(dep *Dependency) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	first := true
	for _, d := range b.deps {
		if d.Event == dep.Event {
			first = false
			break
		}
	}
	b.deps = append(b.deps, dep)
	return first
}
