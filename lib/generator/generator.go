// Package generator discovers component classes in Go source without
// running it and drives the build-time side of compmeta: stub
// synchronization, typed listener generation and cleanup.
//
// Discovery is static. It finds calls of the form
//
//	compmeta.MustDefine(compmeta.ClassSpec{Type: (*Widget)(nil), Events: []any{"click"}})
//
// and reads the class name and the event names from literals. Event entries
// that are not literals are reported in ComponentInfo.Dynamic and skipped.
package generator

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/pthm/compmeta/lib/logger"
	"github.com/pthm/compmeta/lib/source"
)

// Options configures the generator.
type Options struct {
	DryRun     bool
	StubSuffix string
}

// Generator generates compmeta code and stubs.
type Generator struct {
	opts Options
	fset *token.FileSet
}

// New creates a new generator.
func New(opts Options) *Generator {
	return &Generator{
		opts: opts,
		fset: token.NewFileSet(),
	}
}

// ComponentInfo holds information about a discovered component class.
type ComponentInfo struct {
	SourceFile string            // file containing the Define call
	DeclFile   string            // explicit SourceFile of the ClassSpec, if any
	Package    string            // Go package name
	VarName    string            // variable holding the class, if any
	Name       string            // class name, e.g. "Widget"
	TypeName   string            // Go type, when given; defaults to Name
	Events     []string          // literal event names, declaration order
	Declared   bool              // Events present in the ClassSpec
	Bases      []string          // base class variable names
	Dynamic    []string          // event entries that could not be read statically
	Docs       map[string]string // literal EventListener.Doc per event

	bases []*ComponentInfo
}

// AllEvents returns local events followed by those of resolved bases,
// without duplicates.
func (c *ComponentInfo) AllEvents() []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(*ComponentInfo)
	walk = func(k *ComponentInfo) {
		for _, e := range k.Events {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
		for _, b := range k.bases {
			walk(b)
		}
	}
	walk(c)
	return out
}

// Ref returns the source reference used to locate the component's type.
func (c *ComponentInfo) Ref() source.Ref {
	return source.Ref{Name: c.TypeName, File: c.DeclFile, CallerFile: c.SourceFile}
}

// Discover finds component classes in the given package patterns.
func (g *Generator) Discover(patterns ...string) ([]*ComponentInfo, error) {
	packages, err := g.findPackages(patterns)
	if err != nil {
		return nil, err
	}

	var all []*ComponentInfo
	for _, pkg := range packages {
		comps, err := g.discoverPackage(pkg)
		if err != nil {
			return nil, errors.Wrapf(err, "package %s", pkg)
		}
		all = append(all, comps...)
	}
	return all, nil
}

// Packages resolves package patterns to the directories holding component
// sources.
func (g *Generator) Packages(patterns ...string) ([]string, error) {
	return g.findPackages(patterns)
}

// findPackages resolves package patterns to directory paths.
func (g *Generator) findPackages(patterns []string) ([]string, error) {
	var packages []string

	for _, pattern := range patterns {
		if !strings.HasSuffix(pattern, "/...") && pattern != "..." {
			packages = append(packages, pattern)
			continue
		}

		root := strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
		if root == "" {
			root = "."
		}

		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			// Skip hidden directories, vendor and testdata
			base := filepath.Base(path)
			if path != root && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") || base == "vendor" || base == "testdata") {
				return filepath.SkipDir
			}

			entries, err := os.ReadDir(path)
			if err != nil {
				return nil
			}
			for _, entry := range entries {
				if !entry.IsDir() && source.IsComponentSource(entry.Name()) {
					packages = append(packages, path)
					break
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return packages, nil
}

// parsePackage parses the hand-written Go files of a directory.
func (g *Generator) parsePackage(dir string) (map[string]*ast.File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make(map[string]*ast.File)
	for _, entry := range entries {
		if entry.IsDir() || !source.IsComponentSource(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		file, err := parser.ParseFile(g.fset, path, nil, parser.ParseComments|parser.SkipObjectResolution)
		if err != nil {
			return nil, err
		}
		files[path] = file
	}
	return files, nil
}

// discoverPackage finds components in one package directory and resolves
// base references between them.
func (g *Generator) discoverPackage(dir string) ([]*ComponentInfo, error) {
	files, err := g.parsePackage(dir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var comps []*ComponentInfo
	byVar := make(map[string]*ComponentInfo)
	for _, path := range paths {
		for _, comp := range g.findComponents(path, files[path]) {
			comps = append(comps, comp)
			if comp.VarName != "" {
				byVar[comp.VarName] = comp
			}
		}
	}

	for _, comp := range comps {
		for _, name := range comp.Bases {
			if base, ok := byVar[name]; ok {
				comp.bases = append(comp.bases, base)
			} else {
				logger.Logger.Warnw("base class not found in package",
					logger.FieldClass, comp.Name, "base", name)
			}
		}
	}
	return comps, nil
}

// findComponents finds all Define calls in a file.
func (g *Generator) findComponents(path string, file *ast.File) []*ComponentInfo {
	// Map calls used as package-level variable values to their names.
	varNames := make(map[*ast.CallExpr]string)
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.VAR {
			continue
		}
		for _, spec := range genDecl.Specs {
			valueSpec := spec.(*ast.ValueSpec)
			for i, value := range valueSpec.Values {
				if call, ok := value.(*ast.CallExpr); ok && i < len(valueSpec.Names) {
					varNames[call] = valueSpec.Names[i].Name
				}
			}
		}
	}

	var components []*ComponentInfo
	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok || !isDefineCall(call) || len(call.Args) != 1 {
			return true
		}

		lit, ok := call.Args[0].(*ast.CompositeLit)
		if !ok || typeName(lit.Type) != "ClassSpec" {
			return true
		}

		comp := g.parseClassSpec(lit)
		comp.SourceFile = path
		comp.Package = file.Name.Name
		comp.VarName = varNames[call]
		if comp.DeclFile != "" && !filepath.IsAbs(comp.DeclFile) {
			comp.DeclFile = filepath.Join(filepath.Dir(path), comp.DeclFile)
		}

		if comp.Name == "" {
			logger.Logger.Warnw("skipping class without a literal name",
				logger.FieldFile, g.fset.Position(call.Pos()).String())
			return true
		}
		for _, d := range comp.Dynamic {
			logger.Logger.Warnw("event entry is not a literal; it is left out of generated code",
				logger.FieldClass, comp.Name, "entry", d)
		}

		components = append(components, comp)
		return true
	})

	return components
}

// parseClassSpec reads the literal parts of a ClassSpec composite literal.
func (g *Generator) parseClassSpec(lit *ast.CompositeLit) *ComponentInfo {
	comp := &ComponentInfo{}
	var name, typ string

	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			continue
		}

		switch key.Name {
		case "Name":
			name = stringLit(kv.Value)
		case "Type":
			typ = typeOfValue(kv.Value)
		case "SourceFile":
			comp.DeclFile = stringLit(kv.Value)
		case "Events":
			comp.Declared = true
			events, ok := kv.Value.(*ast.CompositeLit)
			if !ok {
				comp.Dynamic = append(comp.Dynamic, g.typeToString(kv.Value))
				continue
			}
			for _, e := range events.Elts {
				if event, doc := eventName(e); event != "" {
					comp.Events = appendUnique(comp.Events, event)
					if doc != "" {
						if comp.Docs == nil {
							comp.Docs = make(map[string]string)
						}
						comp.Docs[event] = doc
					}
				} else {
					comp.Dynamic = append(comp.Dynamic, g.typeToString(e))
				}
			}
		case "Bases":
			bases, ok := kv.Value.(*ast.CompositeLit)
			if !ok {
				continue
			}
			for _, b := range bases.Elts {
				if ident, ok := b.(*ast.Ident); ok {
					comp.Bases = append(comp.Bases, ident.Name)
				}
			}
		}
	}

	comp.Name, comp.TypeName = name, typ
	if comp.Name == "" {
		comp.Name = typ
	}
	if comp.TypeName == "" {
		comp.TypeName = name
	}
	return comp
}

// isDefineCall checks for Define or MustDefine, qualified or not.
func isDefineCall(call *ast.CallExpr) bool {
	var name string
	switch fn := call.Fun.(type) {
	case *ast.SelectorExpr:
		name = fn.Sel.Name
	case *ast.Ident:
		name = fn.Name
	}
	return name == "Define" || name == "MustDefine"
}

// eventName returns the literal name and doc of an event entry: "click",
// EventListener{Name: "click"}, &EventListener{...} or NewEvent("click").
func eventName(expr ast.Expr) (name, doc string) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		return stringLit(e), ""
	case *ast.UnaryExpr:
		if e.Op == token.AND {
			return eventName(e.X)
		}
	case *ast.CompositeLit:
		if typeName(e.Type) != "EventListener" {
			return "", ""
		}
		for _, elt := range e.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				continue
			}
			key, ok := kv.Key.(*ast.Ident)
			if !ok {
				continue
			}
			switch key.Name {
			case "Name":
				name = stringLit(kv.Value)
			case "Doc":
				doc = stringLit(kv.Value)
			}
		}
		return name, doc
	case *ast.CallExpr:
		if typeName(e.Fun) == "NewEvent" && len(e.Args) == 1 {
			return stringLit(e.Args[0]), ""
		}
	}
	return "", ""
}

// typeOfValue extracts the type name from (*T)(nil), &T{}, T{} or new(T).
func typeOfValue(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.CallExpr:
		if ident, ok := e.Fun.(*ast.Ident); ok && ident.Name == "new" && len(e.Args) == 1 {
			return typeName(e.Args[0])
		}
		return typeName(e.Fun)
	case *ast.UnaryExpr:
		return typeOfValue(e.X)
	case *ast.CompositeLit:
		return typeName(e.Type)
	}
	return ""
}

// typeName returns the bare name of a type expression, unwrapping
// pointers, parens, qualifiers and type arguments.
func typeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.StarExpr:
		return typeName(t.X)
	case *ast.ParenExpr:
		return typeName(t.X)
	case *ast.IndexExpr:
		return typeName(t.X)
	case *ast.IndexListExpr:
		return typeName(t.X)
	}
	return ""
}

func stringLit(expr ast.Expr) string {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return ""
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return ""
	}
	return s
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

// typeToString converts an AST expression to a short description for
// diagnostics.
func (g *Generator) typeToString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + g.typeToString(t.X)
	case *ast.SelectorExpr:
		return g.typeToString(t.X) + "." + t.Sel.Name
	case *ast.CallExpr:
		return g.typeToString(t.Fun) + "(...)"
	case *ast.CompositeLit:
		return g.typeToString(t.Type) + "{...}"
	case *ast.BasicLit:
		return t.Value
	default:
		return g.fset.Position(expr.Pos()).String()
	}
}
