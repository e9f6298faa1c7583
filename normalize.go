package compmeta

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// ResultKind classifies a value returned from an output method.
type ResultKind int

const (
	KindPlain ResultKind = iota
	KindFieldModel
	KindRootModel
)

func (k ResultKind) String() string {
	switch k {
	case KindFieldModel:
		return "field-model"
	case KindRootModel:
		return "root-model"
	default:
		return "plain"
	}
}

// FieldModel marks a struct as a field-mapping model. Embed it:
//
//	type ImageData struct {
//	    compmeta.FieldModel
//	    Path string `json:"path"`
//	    URL  string `json:"url,omitempty"`
//	}
//
// Field models leave components as map[string]any keyed by json tag.
type FieldModel struct{}

func (FieldModel) isFieldModel() {}

type fieldModel interface{ isFieldModel() }

// RootModel is a single-root-value model. It leaves components as the plain
// form of Root.
type RootModel[T any] struct {
	Root T
}

func (m RootModel[T]) rootValue() any { return m.Root }

type rootModel interface{ rootValue() any }

// Classify returns the kind of v.
func Classify(v any) ResultKind {
	switch v.(type) {
	case fieldModel:
		return KindFieldModel
	case rootModel:
		return KindRootModel
	default:
		return KindPlain
	}
}

// Normalize converts model values to plain data and returns anything else
// unchanged.
func Normalize(v any) (any, error) {
	switch m := v.(type) {
	case fieldModel:
		return dump(m)
	case rootModel:
		return dump(m.rootValue())
	default:
		return v, nil
	}
}

// Serializes wraps an output method so its result is normalized before it
// is returned. Errors from f pass through untouched.
func Serializes(f func(any) (any, error)) func(any) (any, error) {
	return func(value any) (any, error) {
		out, err := f(value)
		if err != nil {
			return nil, err
		}
		return Normalize(out)
	}
}

// dump round-trips v through msgpack, honoring json struct tags, to get
// maps, slices and scalars only. Integers come back as int64 or uint64 and
// floats as float64.
func dump(v any) (any, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrapf(err, "compmeta: dump %T", v)
	}

	dec := msgpack.NewDecoder(&buf)
	dec.SetCustomStructTag("json")
	dec.UseLooseInterfaceDecoding(true)
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, errors.Wrapf(err, "compmeta: load %T", v)
	}
	return out, nil
}
