// Package source finds and reads the file that declares a component type.
package source

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"

	"github.com/pthm/compmeta/lib/extract"
)

// ErrNoSource indicates a component type has no discoverable source file.
var ErrNoSource = errors.New("source: no source file for class")

// Ref identifies a component type for lookup.
type Ref struct {
	Name       string // type name
	PkgPath    string // import path, used by PackagesLocator
	File       string // explicit source file; wins over everything else
	CallerFile string // file that registered the component
}

// Locator resolves a Ref to the path of the file declaring the type.
type Locator interface {
	Locate(ref Ref) (string, error)
}

// Caller returns the file of the caller skip frames above Caller's caller,
// or "" when the runtime cannot tell.
func Caller(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 1)
	if !ok {
		return ""
	}
	return file
}

// Read returns the full text of path.
func Read(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}
	return string(b), nil
}

// DirLocator finds a type in the registering file or its package
// directory.
type DirLocator struct{}

// Locate implements Locator.
func (DirLocator) Locate(ref Ref) (string, error) {
	if ref.File != "" {
		if _, err := os.Stat(ref.File); err != nil {
			return "", errors.Wrapf(ErrNoSource, "%s: %v", ref.Name, err)
		}
		return ref.File, nil
	}
	if ref.CallerFile == "" {
		return "", errors.Wrapf(ErrNoSource, "%s: registered without a caller file", ref.Name)
	}

	if declaresIn(ref.CallerFile, ref.Name) {
		return ref.CallerFile, nil
	}

	dir := filepath.Dir(ref.CallerFile)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.Wrapf(ErrNoSource, "%s: %v", ref.Name, err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !IsComponentSource(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		if path != ref.CallerFile && declaresIn(path, ref.Name) {
			return path, nil
		}
	}

	return "", errors.Wrapf(ErrNoSource, "%s: not declared in %s", ref.Name, dir)
}

// IsComponentSource reports whether a file name is a hand-written,
// non-test Go source file.
func IsComponentSource(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasSuffix(name, GeneratedSuffix)
}

// GeneratedSuffix marks files written by the generate command.
const GeneratedSuffix = "_events.go"

func declaresIn(path, name string) bool {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		return false
	}
	return extract.Declares(file, name)
}

// PackagesLocator finds a type by loading its package with go/packages.
type PackagesLocator struct {
	Dir string   // working directory for the loader
	Env []string // loader environment; nil uses the current one
}

// Locate implements Locator.
func (l PackagesLocator) Locate(ref Ref) (string, error) {
	if ref.File != "" {
		return DirLocator{}.Locate(ref)
	}
	if ref.PkgPath == "" {
		return "", errors.Wrapf(ErrNoSource, "%s: no package path", ref.Name)
	}

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedSyntax,
		Dir:  l.Dir,
		Env:  l.Env,
	}
	pkgs, err := packages.Load(cfg, ref.PkgPath)
	if err != nil {
		return "", errors.Wrapf(err, "load %s", ref.PkgPath)
	}

	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return "", errors.Newf("load %s: %v", ref.PkgPath, pkg.Errors[0])
		}
		for i, file := range pkg.Syntax {
			if i < len(pkg.CompiledGoFiles) && extract.Declares(file, ref.Name) {
				return pkg.CompiledGoFiles[i], nil
			}
		}
	}

	return "", errors.Wrapf(ErrNoSource, "%s: not declared in %s", ref.Name, ref.PkgPath)
}

// ChainLocator tries each locator in order and returns the first hit.
type ChainLocator []Locator

// Locate implements Locator.
func (c ChainLocator) Locate(ref Ref) (string, error) {
	err := errors.Wrapf(ErrNoSource, "%s: no locators", ref.Name)
	for _, l := range c {
		var path string
		path, err = l.Locate(ref)
		if err == nil {
			return path, nil
		}
	}
	return "", err
}
