// Package extract isolates the source text of a component type.
//
// A component's "class body" is its top-level type declaration together
// with the methods declared on it that directly follow the declaration.
// Boundaries come from the parsed syntax tree, never from text search, so
// nested struct types, local types inside methods and trailing sibling
// declarations are all handled structurally.
package extract

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrGroupedDecl is returned when the type is declared inside a
// parenthesized type group. Generated methods cannot be placed inside such
// a group, so the declaration must stand on its own.
var ErrGroupedDecl = errors.New("extract: type declared in a grouped declaration")

// Span is a contiguous region of source text holding one class body.
type Span struct {
	Start int // byte offset of the type keyword
	End   int // byte offset just past the last adjacent method
	Text  string

	// Receiver is the pointer receiver expression for generated methods,
	// e.g. "*Widget" or "*List[T]".
	Receiver string
}

// Extract returns the class body for the named type in src.
//
// found is false when no top-level type with that exact name exists. A
// parse failure is returned as an error. The same input always yields the
// same span.
func Extract(src, name string) (span Span, found bool, err error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return Span{}, false, errors.Wrap(err, "parse source")
	}

	tf := fset.File(file.Pos())

	for i, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok || typeSpec.Name.Name != name {
				continue
			}
			if genDecl.Lparen.IsValid() {
				return Span{}, false, errors.Wrapf(ErrGroupedDecl, "type %s", name)
			}

			end := adjacentMethodsEnd(file.Decls[i+1:], name, genDecl.End())
			start := tf.Offset(genDecl.Pos())
			stop := tf.Offset(end)
			return Span{
				Start:    start,
				End:      stop,
				Text:     src[start:stop],
				Receiver: receiverFor(typeSpec),
			}, true, nil
		}
	}

	return Span{}, false, nil
}

// Declares reports whether file declares a top-level type with the given
// name.
func Declares(file *ast.File, name string) bool {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			if typeSpec, ok := spec.(*ast.TypeSpec); ok && typeSpec.Name.Name == name {
				return true
			}
		}
	}
	return false
}

// adjacentMethodsEnd walks the declarations following a type and returns
// the end of the last consecutive method declared on it.
func adjacentMethodsEnd(decls []ast.Decl, name string, end token.Pos) token.Pos {
	for _, decl := range decls {
		funcDecl, ok := decl.(*ast.FuncDecl)
		if !ok || funcDecl.Recv == nil || len(funcDecl.Recv.List) == 0 {
			break
		}
		if ReceiverBase(funcDecl.Recv.List[0].Type) != name {
			break
		}
		// Body-less declarations end at their signature.
		if funcDecl.Body != nil {
			end = funcDecl.Body.End()
		} else {
			end = funcDecl.Type.End()
		}
	}
	return end
}

// ReceiverBase returns the base type name of a receiver expression:
// "*List[T]" yields "List".
func ReceiverBase(expr ast.Expr) string {
	for {
		switch t := expr.(type) {
		case *ast.StarExpr:
			expr = t.X
		case *ast.ParenExpr:
			expr = t.X
		case *ast.IndexExpr:
			expr = t.X
		case *ast.IndexListExpr:
			expr = t.X
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}

func receiverFor(typeSpec *ast.TypeSpec) string {
	if typeSpec.TypeParams == nil || len(typeSpec.TypeParams.List) == 0 {
		return "*" + typeSpec.Name.Name
	}
	var params []string
	for _, field := range typeSpec.TypeParams.List {
		for _, n := range field.Names {
			params = append(params, n.Name)
		}
	}
	return "*" + typeSpec.Name.Name + "[" + strings.Join(params, ", ") + "]"
}
