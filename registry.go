package compmeta

import (
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/pthm/compmeta/lib/logger"
	"github.com/pthm/compmeta/lib/source"
	"github.com/pthm/compmeta/lib/stubsync"
)

// DefineHook is notified after a class is constructed. A hook error aborts
// Define: the class is not registered and the error is returned to the
// caller unchanged.
type DefineHook func(c *Class) error

// Option configures a Registry.
type Option func(*Registry)

// WithHook adds a define hook.
func WithHook(h DefineHook) Option {
	return func(r *Registry) { r.hooks = append(r.hooks, h) }
}

// WithStubSync synchronizes each class's stub file as it is defined.
func WithStubSync(opts stubsync.Options) Option {
	return WithHook(StubSyncHook(nil, opts))
}

// StubSyncHook returns a hook running the stub pipeline for each defined
// class. A nil locator searches the registering file's package directory,
// falling back to go/packages when the class has a package path.
func StubSyncHook(loc source.Locator, opts stubsync.Options) DefineHook {
	if loc == nil {
		loc = source.ChainLocator{source.DirLocator{}, source.PackagesLocator{}}
	}
	p := stubsync.NewPipeline(loc, opts)
	return func(c *Class) error {
		_, err := p.Run(stubsync.Target{
			Name:   c.TypeName(),
			Class:  c.Name(),
			Ref:    c.Source(),
			Events: c.Events(),
		})
		return err
	}
}

// Registry validates and records component classes.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*Class
	hooks   []DefineHook
}

// NewRegistry creates a registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{classes: make(map[string]*Class)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Default is the registry used by the package-level Define functions. It
// has no hooks until OnDefine is called.
var Default = NewRegistry()

// Define validates spec and constructs its class using the default
// registry.
func Define(spec ClassSpec) (*Class, error) {
	return Default.define(spec, source.Caller(1))
}

// MustDefine is like Define but panics on error. Use it for package-level
// class variables.
func MustDefine(spec ClassSpec) *Class {
	c, err := Default.define(spec, source.Caller(1))
	if err != nil {
		panic(err)
	}
	return c
}

// OnDefine appends a define hook.
func (r *Registry) OnDefine(h DefineHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, h)
}

// Replay runs h over the classes already registered, sorted by name, and
// stops at the first error. Classes defined at package init are registered
// before any hook can be attached to Default; replay one there to catch up:
//
//	if err := compmeta.Default.Replay(compmeta.StubSyncHook(nil, opts)); err != nil {
//	    log.Fatal(err)
//	}
func (r *Registry) Replay(h DefineHook) error {
	for _, c := range r.Classes() {
		if err := h(c); err != nil {
			return err
		}
	}
	return nil
}

// Define validates spec and constructs its class. Defining a name again
// replaces the previous class.
func (r *Registry) Define(spec ClassSpec) (*Class, error) {
	return r.define(spec, source.Caller(1))
}

// MustDefine is like Define but panics on error.
func (r *Registry) MustDefine(spec ClassSpec) *Class {
	c, err := r.define(spec, source.Caller(1))
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the class registered under name.
func (r *Registry) Lookup(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[name]
	return c, ok
}

// Classes returns all registered classes sorted by name.
func (r *Registry) Classes() []*Class {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Class, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func (r *Registry) define(spec ClassSpec, callerFile string) (*Class, error) {
	var typeName string
	pkgPath := spec.PkgPath
	if t := reflect.TypeOf(spec.Type); t != nil {
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		typeName = t.Name()
		if pkgPath == "" {
			pkgPath = t.PkgPath()
		}
	}
	name := spec.Name
	if name == "" {
		name = typeName
	}
	if typeName == "" {
		typeName = name
	}
	if name == "" {
		return nil, definitionError("<unnamed>", RuleName, "set Name or Type",
			"class has no name")
	}

	c := &Class{
		name:        name,
		typeName:    typeName,
		bases:       append([]*Class(nil), spec.Bases...),
		declared:    spec.Events != nil,
		listeners:   make(map[string]ListenerFunc),
		descriptors: make(map[string]EventListener),
		ref: source.Ref{
			Name:       typeName,
			PkgPath:    pkgPath,
			File:       spec.SourceFile,
			CallerFile: callerFile,
		},
	}

	if !c.hasEvents() {
		return nil, definitionError(name, RuleMissingEvents,
			"If no events are supported, set Events to an empty slice.",
			"%s or its base classes must declare Events", name)
	}

	events, err := resolveEvents(name, spec.Events)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		if _, dup := c.listeners[e.Name]; !dup {
			c.events = append(c.events, e.Name)
		}
		c.listeners[e.Name] = e.Listener()
		c.descriptors[e.Name] = e
	}

	if spec.Postprocess != nil {
		c.postprocess = Serializes(spec.Postprocess)
	}

	r.mu.RLock()
	hooks := append([]DefineHook(nil), r.hooks...)
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := h(c); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	_, redefined := r.classes[name]
	r.classes[name] = c
	r.mu.Unlock()

	logger.Logger.Debugw("defined class",
		logger.FieldClass, name,
		"events", c.events,
		"redefined", redefined)
	return c, nil
}

// resolveEvents promotes every entry to a full descriptor.
func resolveEvents(class string, entries []any) ([]EventListener, error) {
	out := make([]EventListener, 0, len(entries))
	for i, entry := range entries {
		var e EventListener
		switch v := entry.(type) {
		case string:
			e = NewEvent(v)
		case EventListener:
			e = v
		case *EventListener:
			if v == nil {
				return nil, definitionError(class, RuleEventType, "",
					"event %d of %s is a nil *EventListener", i, class)
			}
			e = *v
		default:
			return nil, definitionError(class, RuleEventType, "",
				"all events for %s must be a string or an EventListener, event %d is %T", class, i, entry)
		}
		if e.Name == "" {
			return nil, definitionError(class, RuleEventType, "",
				"event %d of %s has an empty name", i, class)
		}
		if strings.IndexFunc(e.Name, unicode.IsControl) >= 0 {
			return nil, definitionError(class, RuleEventType, "",
				"event %d of %s has control characters in its name %q", i, class, e.Name)
		}
		out = append(out, e)
	}
	return out, nil
}
