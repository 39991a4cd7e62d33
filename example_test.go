package gonext_test

import (
	"context"
	"fmt"

	"github.com/aymeric-guth/obsidian-gonext-sub000"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/adapters/memory"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
)

func Example() {
	store := memory.New(
		&core.Note{ID: "Tasks/a", UUID: "a", Type: core.TypeTask, Status: core.StatusTodo, Needs: []string{"b"}},
		&core.Note{ID: "Tasks/b", UUID: "b", Type: core.TypeTask, Status: core.StatusTodo},
		&core.Note{ID: "Tasks/c", UUID: "c", Type: core.TypeTask, Status: core.StatusDone},
	)

	v, err := gonext.New("", gonext.WithStore(store), gonext.WithConfig(gonext.DefaultConfig()))
	if err != nil {
		panic(err)
	}
	defer v.Close()

	ins, err := v.Generate(context.Background(), "doable", gonext.ReportContext{})
	if err != nil {
		panic(err)
	}
	for _, i := range ins {
		if s, ok := i.(core.Stat); ok {
			fmt.Printf("%s: %v\n", s.Name, s.Value)
		}
	}
	// Output:
	// doable: 1
	// blocked: 1
}
