package compmeta

import (
	"github.com/pthm/compmeta/lib/source"
)

// ClassSpec declares a component class.
//
// Events is the event list. A nil slice means "not declared here" and the
// class must inherit events from one of its Bases; an empty non-nil slice
// declares that the class supports no events. Entries are event names
// (string) or descriptors (EventListener or *EventListener).
//
//	var WidgetClass = compmeta.MustDefine(compmeta.ClassSpec{
//	    Type:   (*Widget)(nil),
//	    Events: []any{"click", compmeta.EventListener{Name: "hover"}},
//	    Postprocess: func(v any) (any, error) {
//	        return WidgetValue{Label: v.(string)}, nil
//	    },
//	})
type ClassSpec struct {
	// Name of the component type. Defaults to the name of Type.
	Name string
	// Type is a value of the component type, e.g. (*Widget)(nil). Used for
	// the name and package path when those are not given.
	Type any

	Bases  []*Class
	Events []any

	// Postprocess produces the component's output value. It is wrapped so
	// structured model results leave the component as plain data.
	Postprocess func(value any) (any, error)

	// SourceFile overrides source discovery for stub synchronization.
	SourceFile string
	// PkgPath is the import path of the package declaring the type.
	PkgPath string
}

// Class is a defined component class. Classes are immutable once Define
// returns them.
type Class struct {
	name     string
	typeName string
	bases    []*Class
	declared bool // Events was declared locally, possibly empty

	events      []string // local, resolved, first-occurrence order
	listeners   map[string]ListenerFunc
	descriptors map[string]EventListener

	postprocess func(any) (any, error)
	ref         source.Ref
}

// Name returns the class name.
func (c *Class) Name() string {
	return c.name
}

// TypeName returns the name of the Go type declaring the class. It differs
// from Name when ClassSpec.Name overrides the type's name.
func (c *Class) TypeName() string {
	return c.typeName
}

// Bases returns the base classes in resolution order.
func (c *Class) Bases() []*Class {
	return append([]*Class(nil), c.bases...)
}

// Events returns the names of the events declared on this class, in
// declaration order.
func (c *Class) Events() []string {
	return append([]string(nil), c.events...)
}

// AllEvents returns local events followed by inherited ones, without
// duplicates.
func (c *Class) AllEvents() []string {
	seen := make(map[string]bool)
	var out []string
	c.walk(func(k *Class) bool {
		for _, e := range k.events {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
		return true
	})
	return out
}

// Listener looks up the trigger for an event, searching this class before
// its bases.
func (c *Class) Listener(event string) (ListenerFunc, bool) {
	var found ListenerFunc
	c.walk(func(k *Class) bool {
		if l, ok := k.listeners[event]; ok {
			found = l
			return false
		}
		return true
	})
	return found, found != nil
}

// Event returns the resolved descriptor for an event.
func (c *Class) Event(event string) (EventListener, bool) {
	var (
		found EventListener
		ok    bool
	)
	c.walk(func(k *Class) bool {
		found, ok = k.descriptors[event]
		return !ok
	})
	return found, ok
}

// Postprocess runs the class's wrapped output method, or the nearest base's.
// Without one anywhere the value is returned unchanged.
func (c *Class) Postprocess(value any) (any, error) {
	var fn func(any) (any, error)
	c.walk(func(k *Class) bool {
		fn = k.postprocess
		return fn == nil
	})
	if fn == nil {
		return value, nil
	}
	return fn(value)
}

// Source returns the reference used to find the class's source file.
func (c *Class) Source() source.Ref {
	return c.ref
}

// hasEvents reports whether the class or an ancestor declares events.
func (c *Class) hasEvents() bool {
	found := false
	c.walk(func(k *Class) bool {
		found = k.declared
		return !found
	})
	return found
}

// walk visits c and then its bases depth-first, left to right, stopping
// when visit returns false.
func (c *Class) walk(visit func(*Class) bool) bool {
	if c == nil {
		return true
	}
	if !visit(c) {
		return false
	}
	for _, b := range c.bases {
		if !b.walk(visit) {
			return false
		}
	}
	return true
}
