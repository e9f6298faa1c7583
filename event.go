package compmeta

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// HandlerFunc is the function run when an event fires. It receives one
// value per input component and returns one value per output component.
type HandlerFunc func(ctx context.Context, inputs ...any) ([]any, error)

// ListenerFunc registers a handler for one event on a block. Each event a
// class supports is bound to one ListenerFunc in the class's capability
// table.
type ListenerFunc func(b *Block, fn HandlerFunc, opts ...ListenOption) (*Dependency, error)

// Progress selects the progress animation shown while an event is pending.
type Progress string

const (
	ProgressFull    Progress = "full"
	ProgressMinimal Progress = "minimal"
	ProgressHidden  Progress = "hidden"
)

// EventListener is the full event descriptor. A bare event name in
// ClassSpec.Events is promoted to an EventListener carrying only that name.
//
//	compmeta.ClassSpec{
//	    Name:   "Textbox",
//	    Events: []any{"change", compmeta.EventListener{Name: "submit", Doc: "Enter pressed"}},
//	}
type EventListener struct {
	Name string
	Doc  string

	// ShowProgress is the default progress mode for registrations of this
	// event. Empty means ProgressFull.
	ShowProgress Progress

	// Callback runs against a block the first time a handler is
	// registered for this event on it.
	Callback func(b *Block)
}

// NewEvent creates a descriptor for a bare event name.
func NewEvent(name string) EventListener {
	return EventListener{Name: name}
}

// Listener returns the trigger bound onto classes supporting this event.
func (e EventListener) Listener() ListenerFunc {
	return func(b *Block, fn HandlerFunc, opts ...ListenOption) (*Dependency, error) {
		if fn == nil {
			return nil, errors.Newf("compmeta: %s: nil handler", e.Name)
		}

		cfg := DefaultListenConfig()
		if e.ShowProgress != "" {
			cfg.ShowProgress = e.ShowProgress
		}
		for _, opt := range opts {
			opt(&cfg)
		}
		if err := cfg.validate(); err != nil {
			return nil, errors.Wrapf(err, "compmeta: %s", e.Name)
		}

		dep := &Dependency{
			ID:     uuid.NewString(),
			Event:  e.Name,
			Fn:     fn,
			Config: cfg,
		}
		if b.addDependency(dep) && e.Callback != nil {
			e.Callback(b)
		}
		return dep, nil
	}
}

// ListenConfig holds the options of one listener registration.
type ListenConfig struct {
	Inputs         []any
	Outputs        []any
	APIName        string
	HideAPI        bool
	ScrollToOutput bool
	ShowProgress   Progress
	Queue          *bool
	Batch          bool
	MaxBatchSize   int
	Preprocess     bool
	Postprocess    bool
	Cancels        []*Dependency
	Every          time.Duration
	JS             string
}

// DefaultListenConfig returns the defaults applied before options.
func DefaultListenConfig() ListenConfig {
	return ListenConfig{
		ShowProgress: ProgressFull,
		MaxBatchSize: 4,
		Preprocess:   true,
		Postprocess:  true,
	}
}

func (c ListenConfig) validate() error {
	switch c.ShowProgress {
	case ProgressFull, ProgressMinimal, ProgressHidden:
	default:
		return errors.Newf("invalid progress mode %q", c.ShowProgress)
	}
	if c.Batch && c.MaxBatchSize < 1 {
		return errors.Newf("max batch size must be positive, got %d", c.MaxBatchSize)
	}
	if c.Every < 0 {
		return errors.Newf("negative interval %s", c.Every)
	}
	return nil
}

// ListenOption configures a listener registration.
type ListenOption func(*ListenConfig)

// WithInputs sets the components whose values are passed to the handler.
func WithInputs(inputs ...any) ListenOption {
	return func(c *ListenConfig) { c.Inputs = inputs }
}

// WithOutputs sets the components that receive the handler's results.
func WithOutputs(outputs ...any) ListenOption {
	return func(c *ListenConfig) { c.Outputs = outputs }
}

// WithAPIName exposes the endpoint in the API docs under name.
func WithAPIName(name string) ListenOption {
	return func(c *ListenConfig) {
		c.APIName = name
		c.HideAPI = false
	}
}

// WithoutAPI hides the endpoint from the API docs.
func WithoutAPI() ListenOption {
	return func(c *ListenConfig) {
		c.APIName = ""
		c.HideAPI = true
	}
}

// WithScrollToOutput scrolls to the output component on completion.
func WithScrollToOutput() ListenOption {
	return func(c *ListenConfig) { c.ScrollToOutput = true }
}

// WithShowProgress selects the progress animation.
func WithShowProgress(p Progress) ListenOption {
	return func(c *ListenConfig) { c.ShowProgress = p }
}

// WithQueue forces the request on or off the queue.
func WithQueue(queue bool) ListenOption {
	return func(c *ListenConfig) { c.Queue = &queue }
}

// WithBatch marks the handler as processing batches of inputs.
func WithBatch() ListenOption {
	return func(c *ListenConfig) { c.Batch = true }
}

// WithMaxBatchSize bounds how many inputs are batched together.
func WithMaxBatchSize(n int) ListenOption {
	return func(c *ListenConfig) { c.MaxBatchSize = n }
}

// WithPreprocess toggles preprocessing of component data.
func WithPreprocess(enabled bool) ListenOption {
	return func(c *ListenConfig) { c.Preprocess = enabled }
}

// WithPostprocess toggles postprocessing of handler output.
func WithPostprocess(enabled bool) ListenOption {
	return func(c *ListenConfig) { c.Postprocess = enabled }
}

// WithCancels cancels the given registrations when this listener triggers.
func WithCancels(deps ...*Dependency) ListenOption {
	return func(c *ListenConfig) { c.Cancels = append(c.Cancels, deps...) }
}

// WithEvery reruns the event at the given interval while connected.
func WithEvery(d time.Duration) ListenOption {
	return func(c *ListenConfig) { c.Every = d }
}

// WithJS runs client-side code before the handler.
func WithJS(js string) ListenOption {
	return func(c *ListenConfig) { c.JS = js }
}
