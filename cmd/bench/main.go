package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aymeric-guth/obsidian-gonext-sub000/internal/platform"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/report"
)

func main() {
	count := flag.Int("count", 1000, "Number of tasks to generate")
	keep := flag.Bool("keep", false, "Keep the benchmark vault after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "gonext_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	fmt.Printf("Generating %d tasks in %s...\n", *count, benchDir)
	startGen := time.Now()
	tasks := filepath.Join(benchDir, "Tasks")
	if err := os.MkdirAll(tasks, 0o755); err != nil {
		panic(err)
	}
	areas := []string{"area/work", "area/home", "area/default"}
	for i := 0; i < *count; i++ {
		needs := ""
		if i > 0 && i%3 == 0 {
			needs = fmt.Sprintf("needs: [t%d]\n", i-1)
		}
		content := fmt.Sprintf("---\nuuid: t%d\ntype: task\nstatus: todo\npriority: %d\ntags: [%s, domain/bench]\n%s---\n# Task %d\n",
			i, i%5, areas[i%len(areas)], needs, i)
		if err := os.WriteFile(filepath.Join(tasks, fmt.Sprintf("t%d.md", i)), []byte(content), 0o644); err != nil {
			panic(err)
		}
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := context.Background()

	// Each run opens the vault anew, like a CLI invocation; the second one
	// reads frontmatter from the persisted cache.
	run := func(label string) time.Duration {
		v, err := platform.New(benchDir, platform.WithLogger(logger))
		if err != nil {
			panic(err)
		}
		defer v.Close()

		fmt.Printf("Running doable (%s)...\n", label)
		start := time.Now()
		ins, err := v.Generate(ctx, "doable", report.ReportContext{})
		if err != nil {
			panic(err)
		}
		d := time.Since(start)
		fmt.Printf("%s: %v (instructions: %d)\n", label, d, len(ins))
		return d
	}

	cold := run("cold")
	warm := run("warm")

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d tasks):\n", *count)
	fmt.Printf("  Cold: %v\n", cold)
	fmt.Printf("  Warm: %v\n", warm)
	fmt.Printf("--------------------------------------------------\n")
}
