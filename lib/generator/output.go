package generator

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"

	"github.com/pthm/compmeta/lib/extract"
	"github.com/pthm/compmeta/lib/logger"
	"github.com/pthm/compmeta/lib/render"
	"github.com/pthm/compmeta/lib/source"
	"github.com/pthm/compmeta/lib/stubsync"
)

// blockMethods are promoted from *compmeta.Block and cannot be generated.
var blockMethods = map[string]bool{
	"Class":        true,
	"On":           true,
	"MustOn":       true,
	"Dependencies": true,
	"Postprocess":  true,
}

// SyncResult pairs a component with what happened to its stub.
type SyncResult struct {
	Component *ComponentInfo
	stubsync.Result
}

// Sync synchronizes the stub of every component found in patterns. It
// stops at the first failure.
func (g *Generator) Sync(patterns ...string) ([]SyncResult, error) {
	comps, err := g.Discover(patterns...)
	if err != nil {
		return nil, err
	}

	p := stubsync.NewPipeline(source.DirLocator{}, stubsync.Options{
		Suffix: g.opts.StubSuffix,
		DryRun: g.opts.DryRun,
	})

	results := make([]SyncResult, 0, len(comps))
	for _, comp := range comps {
		res, err := p.Run(stubsync.Target{
			Name:   comp.TypeName,
			Class:  comp.Name,
			Ref:    comp.Ref(),
			Events: comp.Events,
		})
		if err != nil {
			return results, errors.Wrapf(err, "sync %s", comp.Name)
		}
		results = append(results, SyncResult{Component: comp, Result: res})
	}
	return results, nil
}

// eventsFile is one generated file and the components it covers.
type eventsFile struct {
	Path       string
	Source     string
	Package    string
	Components []*eventsComponent
}

type eventsComponent struct {
	TypeName string
	Receiver string
	Generic  bool
	Events   []string
}

// Generate writes typed listener methods to <base>_events.go beside the
// file declaring each component type. It returns the files written.
func (g *Generator) Generate(patterns ...string) ([]string, error) {
	comps, err := g.Discover(patterns...)
	if err != nil {
		return nil, err
	}

	files := make(map[string]*eventsFile)
	for _, comp := range comps {
		declPath, err := source.DirLocator{}.Locate(source.Ref{
			Name:       comp.TypeName,
			File:       comp.DeclFile,
			CallerFile: comp.SourceFile,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "generate %s", comp.Name)
		}

		ec, pkg, err := g.describe(declPath, comp)
		if err != nil {
			return nil, errors.Wrapf(err, "generate %s", comp.Name)
		}
		if ec == nil {
			continue
		}

		out := strings.TrimSuffix(declPath, ".go") + source.GeneratedSuffix
		f, ok := files[out]
		if !ok {
			f = &eventsFile{Path: out, Source: filepath.Base(declPath), Package: pkg}
			files[out] = f
		}
		f.Components = append(f.Components, ec)
	}

	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := g.writeEvents(files[path]); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// describe collects what the template needs for one component. It returns
// nil when the component cannot carry generated methods.
func (g *Generator) describe(declPath string, comp *ComponentInfo) (*eventsComponent, string, error) {
	src, err := source.Read(declPath)
	if err != nil {
		return nil, "", err
	}
	file, err := parser.ParseFile(g.fset, declPath, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, "", err
	}
	if file.Name.Name == "compmeta" {
		return nil, "", nil
	}

	span, found, err := extract.Extract(src, comp.TypeName)
	if err != nil {
		return nil, "", err
	}
	if !found {
		return nil, "", errors.Wrapf(stubsync.ErrClassNotInSource, "%s in %s", comp.TypeName, declPath)
	}

	if !embedsBlock(file, comp.TypeName) {
		logger.Logger.Warnw("type does not embed *compmeta.Block; no listener methods generated",
			logger.FieldClass, comp.Name, logger.FieldFile, declPath)
		return nil, "", nil
	}

	existing, err := g.methodsOf(filepath.Dir(declPath), comp.TypeName)
	if err != nil {
		return nil, "", err
	}

	ec := &eventsComponent{
		TypeName: comp.TypeName,
		Receiver: span.Receiver,
		Generic:  strings.Contains(span.Receiver, "["),
	}
	taken := make(map[string]string)
	for _, event := range comp.AllEvents() {
		method := render.MethodName(event)
		switch {
		case blockMethods[method], existing[method]:
			logger.Logger.Warnw("event method name is taken; use On instead",
				logger.FieldClass, comp.Name, "event", event, "method", method)
			continue
		case taken[method] != "":
			logger.Logger.Warnw("events map to the same method name",
				logger.FieldClass, comp.Name, "event", event, "other", taken[method])
			continue
		}
		taken[method] = event
		ec.Events = append(ec.Events, event)
	}
	if len(ec.Events) == 0 {
		return nil, "", nil
	}
	return ec, file.Name.Name, nil
}

// embedsBlock reports whether the struct type name embeds *Block directly.
func embedsBlock(file *ast.File, name string) bool {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec := spec.(*ast.TypeSpec)
			if typeSpec.Name.Name != name {
				continue
			}
			structType, ok := typeSpec.Type.(*ast.StructType)
			if !ok {
				return false
			}
			for _, field := range structType.Fields.List {
				if len(field.Names) > 0 {
					continue
				}
				if star, ok := field.Type.(*ast.StarExpr); ok && typeName(star.X) == "Block" {
					return true
				}
			}
			return false
		}
	}
	return false
}

// methodsOf lists hand-written methods declared on typeName in dir.
func (g *Generator) methodsOf(dir, typeName string) (map[string]bool, error) {
	files, err := g.parsePackage(dir)
	if err != nil {
		return nil, err
	}
	methods := make(map[string]bool)
	for _, file := range files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 {
				continue
			}
			if extract.ReceiverBase(fn.Recv.List[0].Type) == typeName {
				methods[fn.Name.Name] = true
			}
		}
	}
	return methods, nil
}

// writeEvents renders, formats and writes one generated file. Unchanged
// files are not rewritten.
func (g *Generator) writeEvents(f *eventsFile) error {
	code, err := g.renderTemplate(f)
	if err != nil {
		return errors.Wrap(err, "render template")
	}

	formatted, err := format.Source(code)
	if err != nil {
		return errors.Wrapf(err, "format %s", f.Path)
	}

	if current, err := os.ReadFile(f.Path); err == nil && bytes.Equal(current, formatted) {
		logger.Logger.Debugw("generated file up to date", logger.FieldFile, f.Path)
		return nil
	}

	logger.Logger.Infow("generating", logger.FieldFile, f.Path)
	if g.opts.DryRun {
		return nil
	}
	return errors.Wrapf(os.WriteFile(f.Path, formatted, 0644), "write %s", f.Path)
}

// renderTemplate renders the generated code template.
func (g *Generator) renderTemplate(f *eventsFile) ([]byte, error) {
	tmpl, err := template.New("events").Funcs(template.FuncMap{
		"method": render.MethodName,
	}).Parse(eventsTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Clean removes generated files from the packages in patterns and returns
// the paths removed.
func (g *Generator) Clean(patterns ...string) ([]string, error) {
	packages, err := g.findPackages(patterns)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, dir := range packages {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+source.GeneratedSuffix))
		if err != nil {
			return removed, err
		}
		for _, path := range matches {
			logger.Logger.Infow("removing", logger.FieldFile, path)
			if !g.opts.DryRun {
				if err := os.Remove(path); err != nil {
					return removed, errors.Wrapf(err, "remove %s", path)
				}
			}
			removed = append(removed, path)
		}
	}
	return removed, nil
}

const eventsTemplate = `// Code generated by compmeta. DO NOT EDIT.
// Source: {{.Source}}

package {{.Package}}

import "github.com/pthm/compmeta"
{{range .Components}}{{$c := .}}
{{- if not .Generic}}
var _ compmeta.Component = (*{{.TypeName}})(nil)
{{end}}
{{- range .Events}}
// {{method .}} registers fn as a listener for the "{{.}}" event.
func (c {{$c.Receiver}}) {{method .}}(fn compmeta.HandlerFunc, opts ...compmeta.ListenOption) *compmeta.Dependency {
	return c.MustOn({{printf "%q" .}}, fn, opts...)
}
{{end}}{{end}}`
