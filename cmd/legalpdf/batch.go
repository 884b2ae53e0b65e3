package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	legalpdf "github.com/casekit/go-legalpdf"
)

// dirPermissions for created output directories: owner full, group
// read+execute.
const dirPermissions = 0o750

// exportJob is one input/output pair to process.
type exportJob struct {
	InputPath  string
	OutputPath string
}

// exportResult holds the outcome of a single export.
type exportResult struct {
	InputPath       string
	OutputPath      string
	PageCount       int
	SignatureBlocks int
	Warnings        []string
	Err             error
	Duration        time.Duration
}

// exportBatch processes jobs concurrently. The exporter is safe for
// concurrent use, so workers share one instance.
func exportBatch(ctx context.Context, exp *legalpdf.Exporter, jobs []exportJob, docType string, opts *legalpdf.Options, workers int) []exportResult {
	if len(jobs) == 0 {
		return nil
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	results := make([]exportResult, len(jobs))
	queue := make(chan int, len(jobs))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				if err := ctx.Err(); err != nil {
					results[idx] = exportResult{InputPath: jobs[idx].InputPath, Err: err}
					continue
				}
				results[idx] = exportFile(ctx, exp, jobs[idx], docType, opts)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// exportFile processes a single document and returns the result.
func exportFile(ctx context.Context, exp *legalpdf.Exporter, job exportJob, docType string, opts *legalpdf.Options) exportResult {
	start := time.Now()
	result := exportResult{
		InputPath:  job.InputPath,
		OutputPath: job.OutputPath,
	}

	content, err := os.ReadFile(job.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadInput, err)
		result.Duration = time.Since(start)
		return result
	}

	if dir := filepath.Dir(job.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			result.Err = fmt.Errorf("creating output directory: %w", err)
			result.Duration = time.Since(start)
			return result
		}
	}

	res, err := exp.Export(ctx, legalpdf.Request{
		Text:         string(content),
		DocumentType: docType,
		Options:      opts,
		OutputPath:   job.OutputPath,
	})
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	result.PageCount = res.PageCount
	result.SignatureBlocks = res.SignatureBlockCount
	result.Warnings = res.Warnings
	result.Duration = time.Since(start)
	return result
}

// resolvePoolSize determines the worker count.
// Priority: explicit flag > GOMAXPROCS-based calculation.
func resolvePoolSize(flagWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}

	// GOMAXPROCS is container-aware here thanks to automaxprocs.
	available := runtime.GOMAXPROCS(0)
	n := available / 2

	if n < 1 {
		return 1
	}
	if n > 8 {
		return 8
	}
	return n
}
