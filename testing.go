package compmeta

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
)

// TriggerResult holds the outcome of firing an event outside a running UI.
type TriggerResult struct {
	Event string
	// Fired is the number of handlers that ran.
	Fired int
	// Outputs are the handler results in registration order, each passed
	// through the Postprocess of the output component it targets.
	Outputs []any
}

// Output returns the i-th output, or nil when there is none.
func (r *TriggerResult) Output(i int) any {
	if i < 0 || i >= len(r.Outputs) {
		return nil
	}
	return r.Outputs[i]
}

// Trigger fires event on c: every handler registered for it runs with
// inputs, in registration order. Use it in tests and examples to exercise
// handlers without a UI:
//
//	result, err := compmeta.Trigger(ctx, add, "submit", "Buy milk")
//	if result.Fired != 1 {
//	    t.Fatal("submit handler not registered")
//	}
//
// Outputs returned beyond the registration's Outputs are kept as is. A
// handler error stops the run and is returned with the event name.
func Trigger(ctx context.Context, c Component, event string, inputs ...any) (*TriggerResult, error) {
	if _, ok := c.Class().Listener(event); !ok {
		return nil, errors.Wrapf(ErrUnknownEvent, "%s has no event %q", c.Class().Name(), event)
	}

	result := &TriggerResult{Event: event}
	for _, dep := range c.Dependencies() {
		if dep.Event != event {
			continue
		}
		result.Fired++

		values, err := dep.Fn(ctx, inputs...)
		if err != nil {
			return result, errors.Wrapf(err, "%s.%s", c.Class().Name(), event)
		}

		for i, v := range values {
			if i < len(dep.Config.Outputs) && dep.Config.Postprocess {
				if p, ok := dep.Config.Outputs[i].(Postprocessor); ok {
					if v, err = p.Postprocess(v); err != nil {
						return result, errors.Wrapf(err, "%s.%s: output %d", c.Class().Name(), event, i)
					}
				}
			}
			result.Outputs = append(result.Outputs, v)
		}
	}
	return result, nil
}

// MockHandler is a HandlerFunc stand-in that records its calls.
//
//	mock := &compmeta.MockHandler{Outputs: []any{"ok"}}
//	widget.MustOn("click", mock.Handle)
type MockHandler struct {
	Outputs []any
	Err     error

	mu    sync.Mutex
	calls [][]any
}

// Handle records inputs and returns the configured outputs and error.
func (m *MockHandler) Handle(ctx context.Context, inputs ...any) ([]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, append([]any(nil), inputs...))
	return m.Outputs, m.Err
}

// Calls returns the inputs of every call so far.
func (m *MockHandler) Calls() [][]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]any(nil), m.calls...)
}

// CallCount returns the number of calls so far.
func (m *MockHandler) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
