// Package render produces the interface block written into stub files: a
// component's class body followed by one declaration per supported event.
package render

import (
	"bytes"
	"strings"
	"text/template"
	"unicode"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Input holds the template bindings.
type Input struct {
	Receiver string   // e.g. "*Widget"
	Contents string   // extracted class body
	Events   []string // plain event names, in declaration order
}

// Renderer renders interface blocks from a template.
type Renderer struct {
	tmpl *template.Template
}

// New creates a renderer using the default interface template.
func New() *Renderer {
	r, err := NewWithTemplate(InterfaceTemplate)
	if err != nil {
		panic(err)
	}
	return r
}

// NewWithTemplate creates a renderer from a custom template. The template
// receives the bindings "contents", "events" and "receiver", and the
// function "method" mapping an event name to its method name.
func NewWithTemplate(text string) (*Renderer, error) {
	tmpl, err := template.New("interface").Funcs(template.FuncMap{
		"method": MethodName,
	}).Parse(text)
	if err != nil {
		return nil, errors.Wrap(err, "parse interface template")
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render substitutes in into the template. Output order follows in.Events.
func (r *Renderer) Render(in Input) (string, error) {
	if in.Receiver == "" {
		return "", errors.New("render: receiver is required")
	}

	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, map[string]any{
		"contents": in.Contents,
		"events":   in.Events,
		"receiver": in.Receiver,
	})
	if err != nil {
		return "", errors.Wrap(err, "render interface template")
	}
	return buf.String(), nil
}

// Render renders in with the default template.
func Render(in Input) (string, error) {
	return defaultRenderer.Render(in)
}

var defaultRenderer = New()

// MethodName converts an event name to an exported Go method name:
// "click" becomes "Click", "key_up" becomes "KeyUp".
func MethodName(event string) string {
	parts := strings.FieldsFunc(event, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	// Casers are stateful and must not be shared.
	titler := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(titler.String(p))
	}
	name := b.String()
	if name == "" || !unicode.IsLetter([]rune(name)[0]) {
		name = "On" + name
	}
	return name
}

// InterfaceTemplate is the default stub template. Each event becomes a
// body-less method declaration: the signature documents the listener, the
// missing body marks it as declaration only.
const InterfaceTemplate = `
{{ .contents }}
{{- range .events }}

// {{ method . }} registers fn to run when the "{{ . }}" event fires.
//
// Parameters:
//   - fn: the function to call when this event is triggered. Each input
//     component supplies one argument and each returned value is assigned
//     to one output component.
//
// Options:
//   - WithInputs: components whose values are passed to fn. Leave empty if
//     fn takes no inputs.
//   - WithOutputs: components that receive the values returned by fn. Leave
//     empty if fn returns nothing.
//   - WithAPIName: how the endpoint appears in the API docs. By default the
//     endpoint is exposed unnamed; WithoutAPI hides it from the API docs.
//   - WithScrollToOutput: scroll to the output component on completion.
//   - WithShowProgress: progress animation while pending: "full" (default),
//     "minimal" or "hidden".
//   - WithQueue: place the request on the queue when the queue is enabled.
//     Unset uses the application's queue setting.
//   - WithBatch: fn processes a batch of inputs and must return one slice
//     per output component.
//   - WithMaxBatchSize: maximum number of inputs batched together when
//     called from the queue (default 4, only relevant with WithBatch).
//   - WithPreprocess: when false, component data is passed to fn without
//     preprocessing (default true).
//   - WithPostprocess: when false, fn output is returned without
//     postprocessing (default true).
//   - WithCancels: other registrations to cancel when this listener
//     triggers. Pending runs are cancelled; running ones finish.
//   - WithEvery: run this event every interval while the client connection
//     is open. Requires the queue.
//   - WithJS: client-side code to run before fn.
func (c {{ $.receiver }}) {{ method . }}(fn compmeta.HandlerFunc, opts ...compmeta.ListenOption) *compmeta.Dependency
{{- end }}
`
