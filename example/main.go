package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pthm/compmeta"
	"github.com/pthm/compmeta/example/components"
	"github.com/pthm/compmeta/lib/logger"
	"github.com/pthm/compmeta/lib/stubsync"
)

func main() {
	syncStubs := flag.Bool("sync-stubs", false, "write .goi stubs beside the component sources")
	verbose := flag.Int("v", 0, "log verbosity")
	flag.Parse()

	if err := logger.Initialize(false, *verbose); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	// Classes are defined at package init, before any hook could be
	// attached to the default registry.
	if *syncStubs {
		if err := compmeta.Default.Replay(compmeta.StubSyncHook(nil, stubsync.Options{})); err != nil {
			log.Fatal(err)
		}
	}

	store := NewStore()
	add := components.NewAddTodo()
	list := components.NewTodoList()

	add.MustOn("submit", func(ctx context.Context, inputs ...any) ([]any, error) {
		store.Add(inputs[0].(string))
		return []any{list.Visible(store)}, nil
	}, compmeta.WithInputs(add), compmeta.WithOutputs(list))

	list.MustOn("toggle", func(ctx context.Context, inputs ...any) ([]any, error) {
		store.Toggle(inputs[0].(string))
		return []any{list.Visible(store)}, nil
	}, compmeta.WithOutputs(list), compmeta.WithQueue(false))

	// "blur" is inherited from FormComponent.
	add.MustOn("blur", func(ctx context.Context, inputs ...any) ([]any, error) {
		return nil, nil
	}, compmeta.WithoutAPI())

	ctx := context.Background()
	steps := []struct {
		target compmeta.Component
		event  string
		input  any
	}{
		{add, "submit", "Write documentation"},
		{list, "toggle", "todo-1"},
	}
	for _, step := range steps {
		result, err := compmeta.Trigger(ctx, step.target, step.event, step.input)
		if err != nil {
			log.Fatal(err)
		}
		b, err := json.MarshalIndent(result.Outputs, "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Fprintf(os.Stdout, "%s.%s -> %s\n", step.target.Class().Name(), step.event, b)
	}
}
