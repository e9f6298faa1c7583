// Package compmeta defines UI component classes from a declarative list of
// supported events and keeps a stub file describing each class's public
// interface in step with its implementation.
//
// # Defining classes
//
// A component is a Go type embedding *Block. Its class is declared once,
// usually as a package-level variable:
//
//	type Textbox struct {
//	    *compmeta.Block
//	    Value string
//	}
//
//	var TextboxClass = compmeta.MustDefine(compmeta.ClassSpec{
//	    Type:   (*Textbox)(nil),
//	    Events: []any{"change", "input", compmeta.EventListener{Name: "submit"}},
//	})
//
// Define validates the event list (declared locally or inherited from a
// base, every entry a name or an EventListener), binds one listener per
// event into the class's capability table and wraps the class's
// Postprocess method. Validation failures are DefinitionErrors naming the
// class; no class is produced.
//
// # Events
//
// Instances register handlers by event name:
//
//	tb := &Textbox{Block: compmeta.NewBlock(TextboxClass)}
//	dep, err := tb.On("submit", handler, compmeta.WithOutputs(result))
//
// The generate command writes typed wrappers (tb.Submit(handler, ...)) for
// every event so typos fail at compile time.
//
// # Output normalization
//
// Postprocess results that are models (structs embedding FieldModel, or
// RootModel values) are converted to plain maps, slices and scalars before
// they leave the component. Other values pass through untouched.
//
// # Stub files
//
// Each implementation file widget.go may have a stub widget.goi beside it:
// a copy of the implementation in which every tracked class body is
// followed by a body-less declaration per event. Stubs are created on first
// synchronization and afterwards only the class's own span is replaced, so
// the rest of the stub is left alone and repeated runs are byte-identical.
//
// Synchronization runs as a define hook:
//
//	reg := compmeta.NewRegistry(compmeta.WithStubSync(stubsync.Options{}))
//
// The Default registry has no hooks, since deployed binaries rarely ship
// their sources. Classes it defined at package init can be synchronized
// later with Replay:
//
//	err := compmeta.Default.Replay(compmeta.StubSyncHook(nil, stubsync.Options{}))
//
// or at build time with the CLI:
//
//	compmeta sync ./...
package compmeta
