package main

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/alnah/go-editorjs"
)

// Renderer decodes and renders documents. *editorjs.Registry is safe for
// concurrent use, so every worker shares one.
type Renderer interface {
	Decode(tools []string, p []byte) (*editorjs.Document, error)
	Render(ctx context.Context, tools []string, doc *editorjs.Document, opts ...editorjs.RenderOption) (string, error)
}

// Compile-time interface implementation check.
var _ Renderer = (*editorjs.Registry)(nil)

// RenderResult holds the outcome of a single render.
type RenderResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// renderJob is everything a worker needs besides the file.
type renderJob struct {
	renderer Renderer
	tools    []string
	opts     []editorjs.RenderOption
	timeout  time.Duration
}

// renderBatch processes files concurrently with at most workers goroutines.
// Results keep the order of files.
func renderBatch(ctx context.Context, job renderJob, files []FileToRender, workers int) []RenderResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(workers, len(files))
	results := make([]RenderResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = RenderResult{InputPath: files[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = renderFile(ctx, job, files[idx])
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// resolvePoolSize determines the worker count.
// Priority: explicit flag > config > GOMAXPROCS.
func resolvePoolSize(flagWorkers, configWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	if configWorkers > 0 {
		return configWorkers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
