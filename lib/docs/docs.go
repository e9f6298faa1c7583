// Package docs renders an HTML reference of component classes and the
// events they support.
package docs

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"

	"github.com/pthm/compmeta"
	"github.com/pthm/compmeta/lib/generator"
	"github.com/pthm/compmeta/lib/render"
)

// Event is one documented event.
type Event struct {
	Name   string
	Method string // typed listener method, e.g. "KeyUp"
	Doc    string
	From   string // declaring class when inherited
}

// Class is one documented component class.
type Class struct {
	Name   string
	Source string
	Events []Event
}

// FromRegistry documents every class in reg.
func FromRegistry(reg *compmeta.Registry) []Class {
	var out []Class
	for _, c := range reg.Classes() {
		doc := Class{Name: c.Name(), Source: c.Source().File}
		if doc.Source == "" {
			doc.Source = c.Source().CallerFile
		}
		for _, name := range c.AllEvents() {
			e, _ := c.Event(name)
			ev := Event{Name: name, Method: render.MethodName(name), Doc: e.Doc}
			if owner := declaringClass(c, name); owner != c {
				ev.From = owner.Name()
			}
			doc.Events = append(doc.Events, ev)
		}
		out = append(out, doc)
	}
	return out
}

// declaringClass finds the nearest class in c's hierarchy that declares
// event locally.
func declaringClass(c *compmeta.Class, event string) *compmeta.Class {
	for _, e := range c.Events() {
		if e == event {
			return c
		}
	}
	for _, b := range c.Bases() {
		if b == nil {
			continue
		}
		if owner := declaringClass(b, event); owner != nil {
			return owner
		}
	}
	return nil
}

// FromComponents documents statically discovered components.
func FromComponents(comps []*generator.ComponentInfo) []Class {
	out := make([]Class, 0, len(comps))
	for _, comp := range comps {
		doc := Class{Name: comp.Name, Source: comp.SourceFile}
		local := make(map[string]bool)
		for _, name := range comp.Events {
			local[name] = true
			doc.Events = append(doc.Events, Event{Name: name, Method: render.MethodName(name), Doc: comp.Docs[name]})
		}
		for _, name := range comp.AllEvents() {
			if !local[name] {
				doc.Events = append(doc.Events, Event{Name: name, Method: render.MethodName(name), From: "base"})
			}
		}
		out = append(out, doc)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Page renders a standalone HTML page listing classes.
func Page(title string, classes []Class) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>")
		sb.WriteString(templ.EscapeString(title))
		sb.WriteString("</title></head>\n<body>\n<h1>")
		sb.WriteString(templ.EscapeString(title))
		sb.WriteString("</h1>\n")
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}

		for _, c := range classes {
			if err := ClassSection(c).Render(ctx, w); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</body></html>\n")
		return err
	})
}

// ClassSection renders one class as a section with an event table.
func ClassSection(c Class) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<section id="`)
		sb.WriteString(templ.EscapeString(strings.ToLower(c.Name)))
		sb.WriteString(`"><h2>`)
		sb.WriteString(templ.EscapeString(c.Name))
		sb.WriteString("</h2>\n")
		if c.Source != "" {
			sb.WriteString(`<p class="source"><code>`)
			sb.WriteString(templ.EscapeString(c.Source))
			sb.WriteString("</code></p>\n")
		}

		if len(c.Events) == 0 {
			sb.WriteString("<p>No events.</p>\n</section>\n")
			_, err := io.WriteString(w, sb.String())
			return err
		}

		sb.WriteString("<table>\n<tr><th>Event</th><th>Method</th><th>Description</th></tr>\n")
		for _, e := range c.Events {
			sb.WriteString("<tr><td><code>")
			sb.WriteString(templ.EscapeString(e.Name))
			sb.WriteString("</code></td><td><code>")
			sb.WriteString(templ.EscapeString(e.Method))
			sb.WriteString("</code></td><td>")
			sb.WriteString(templ.EscapeString(e.Doc))
			if e.From != "" {
				sb.WriteString(` <em>(inherited from `)
				sb.WriteString(templ.EscapeString(e.From))
				sb.WriteString(")</em>")
			}
			sb.WriteString("</td></tr>\n")
		}
		sb.WriteString("</table>\n</section>\n")

		_, err := io.WriteString(w, sb.String())
		return err
	})
}
