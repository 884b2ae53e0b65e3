package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	legalpdf "github.com/casekit/go-legalpdf"
	"github.com/casekit/go-legalpdf/internal/audit"
	"github.com/casekit/go-legalpdf/internal/config"
	"github.com/casekit/go-legalpdf/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadInput          = errors.New("failed to read document file")
	ErrInvalidExtension   = errors.New("file must have a .txt, .md, or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrAmbiguousOutput    = errors.New("a .pdf output path needs exactly one input")
)

// Environment groups the writers the CLI talks to, for testability.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer
}

// run orchestrates the export process.
func run(ctx context.Context, flags *cliFlags, args []string, env *Environment) error {
	if flags.workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkerCount, flags.workers)
	}

	// Load configuration.
	cfg := config.Default()
	var err error
	if flags.config != "" {
		cfg, err = config.Load(flags.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	// Merge CLI flags into config (CLI wins).
	mergeFlags(flags, cfg)

	if flags.auditRecent > 0 {
		return printAuditRecent(ctx, cfg.Audit.Path, flags.auditRecent, env.Stdout)
	}

	opts := buildOptions(cfg)
	if err := opts.Validate(); err != nil {
		return err
	}

	jobs, err := discoverJobs(args, flags.output, cfg.Output.DefaultDir)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return ErrNoInput
	}

	exporter := legalpdf.NewExporter(legalpdf.WithLogger(newLogger(flags, env.Stderr)))

	var recorder *audit.Recorder
	if cfg.Audit.Enabled {
		recorder, err = audit.Open(cfg.Audit.Path)
		if err != nil {
			return err
		}
		defer func() { _ = recorder.Close() }()
	}

	workers := resolvePoolSize(flags.workers)
	if flags.verbose {
		fmt.Fprintf(env.Stderr, "Workers: %d\n", workers)
	}

	results := exportBatch(ctx, exporter, jobs, cfg.Document.Type, opts, workers)

	if recorder != nil {
		recordResults(ctx, recorder, cfg.Document.Type, results, env.Stderr)
	}

	failed := printResults(results, flags.quiet, flags.verbose, env)
	if failed > 0 {
		if len(results) == 1 {
			return results[0].Err
		}
		return fmt.Errorf("%d of %d exports failed", failed, len(results))
	}
	return nil
}

// mergeFlags overlays explicitly-set CLI flags onto the config.
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	if flags.docType != "" {
		cfg.Document.Type = flags.docType
	}
	if flags.pageSize != "" {
		cfg.Document.PageSize = flags.pageSize
	}
	if flags.fontSize != 0 {
		cfg.Document.FontSize = flags.fontSize
	}
	if flags.lineSpacing != "" {
		cfg.Document.LineSpacing = flags.lineSpacing
	}
	if flags.margin != marginSentinel {
		cfg.Margins = &config.MarginsConfig{
			Top: flags.margin, Bottom: flags.margin,
			Left: flags.margin, Right: flags.margin,
		}
	}

	numberingFlagged := flags.noPageNumbers || flags.numberPosition != "" ||
		flags.numberFormat != "" || flags.numberPrefix != "" || flags.numberSuffix != ""
	if numberingFlagged {
		n := cfg.Numbering
		if n == nil {
			n = &config.NumberingConfig{Enabled: true}
			cfg.Numbering = n
		}
		if flags.noPageNumbers {
			n.Enabled = false
		}
		if flags.numberPosition != "" {
			n.Position = flags.numberPosition
		}
		if flags.numberFormat != "" {
			n.Format = flags.numberFormat
		}
		if flags.numberPrefix != "" {
			n.Prefix = flags.numberPrefix
		}
		if flags.numberSuffix != "" {
			n.Suffix = flags.numberSuffix
		}
	}

	if flags.audit {
		cfg.Audit.Enabled = true
	}
	if flags.auditDB != "" {
		cfg.Audit.Path = flags.auditDB
	}
}

// buildOptions maps the merged config onto export options.
func buildOptions(cfg *config.Config) *legalpdf.Options {
	opts := &legalpdf.Options{
		PageSize:    cfg.Document.PageSize,
		FontSize:    cfg.Document.FontSize,
		LineSpacing: cfg.Document.LineSpacing,
	}
	if cfg.Margins != nil {
		opts.Margins = &legalpdf.Margins{
			Top:    cfg.Margins.Top,
			Bottom: cfg.Margins.Bottom,
			Left:   cfg.Margins.Left,
			Right:  cfg.Margins.Right,
		}
	}
	if cfg.Numbering != nil {
		opts.PageNumbers = &legalpdf.PageNumbers{
			Enabled:  cfg.Numbering.Enabled,
			Position: cfg.Numbering.Position,
			Format:   cfg.Numbering.Format,
			Prefix:   cfg.Numbering.Prefix,
			Suffix:   cfg.Numbering.Suffix,
		}
	}
	return opts
}

// discoverJobs expands the positional arguments into input/output pairs.
// Directories contribute every document file they directly contain. An
// output path ending in .pdf binds to a single input; otherwise the output
// flag (or config default) names a directory.
func discoverJobs(args []string, outputFlag, defaultDir string) ([]exportJob, error) {
	explicitFile := strings.EqualFold(filepath.Ext(outputFlag), ".pdf")
	outputDir := outputFlag
	if explicitFile {
		outputDir = ""
	}
	if outputDir == "" {
		outputDir = defaultDir
	}

	var jobs []exportJob
	for _, arg := range args {
		switch {
		case fileutil.DirExists(arg):
			entries, err := os.ReadDir(arg)
			if err != nil {
				return nil, fmt.Errorf("reading directory %q: %w", arg, err)
			}
			for _, entry := range entries {
				if entry.IsDir() || !fileutil.IsInputFile(entry.Name()) {
					continue
				}
				input := filepath.Join(arg, entry.Name())
				jobs = append(jobs, exportJob{
					InputPath:  input,
					OutputPath: fileutil.PDFPath(input, outputDir),
				})
			}
		case fileutil.FileExists(arg):
			if !fileutil.IsInputFile(arg) {
				return nil, fmt.Errorf("%w: %s", ErrInvalidExtension, arg)
			}
			jobs = append(jobs, exportJob{
				InputPath:  arg,
				OutputPath: fileutil.PDFPath(arg, outputDir),
			})
		default:
			return nil, fmt.Errorf("%w: %s", os.ErrNotExist, arg)
		}
	}

	if explicitFile {
		if len(jobs) != 1 {
			return nil, fmt.Errorf("%w: got %d inputs", ErrAmbiguousOutput, len(jobs))
		}
		jobs[0].OutputPath = outputFlag
	}
	return jobs, nil
}

// newLogger builds the exporter logger: debug records with --verbose,
// nothing otherwise.
func newLogger(flags *cliFlags, stderr io.Writer) *slog.Logger {
	if !flags.verbose || flags.quiet {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// printAuditRecent lists the newest ledger entries, one per line.
func printAuditRecent(ctx context.Context, path string, limit int, stdout io.Writer) error {
	recorder, err := audit.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = recorder.Close() }()

	entries, err := recorder.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(stdout, "audit ledger is empty")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(stdout, "%s  %s -> %s (%s, %d pages, %d signature blocks, %v)\n",
			e.CreatedAt.Format(time.RFC3339), e.InputPath, e.OutputPath,
			e.DocumentType, e.PageCount, e.SignatureBlocks,
			e.Duration.Round(time.Millisecond))
	}
	return nil
}

// recordResults appends successful exports to the audit ledger. Ledger
// failures are reported but never fail the run.
func recordResults(ctx context.Context, rec *audit.Recorder, docType string, results []exportResult, stderr io.Writer) {
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		entry := audit.Entry{
			InputPath:       r.InputPath,
			OutputPath:      r.OutputPath,
			DocumentType:    docType,
			PageCount:       r.PageCount,
			SignatureBlocks: r.SignatureBlocks,
			Warnings:        r.Warnings,
			Duration:        r.Duration,
		}
		if err := rec.Record(ctx, entry); err != nil {
			fmt.Fprintf(stderr, "audit: %v\n", err)
		}
	}
}

// printResults reports per-file outcomes and returns the failure count.
func printResults(results []exportResult, quiet, verbose bool, env *Environment) int {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		for _, w := range r.Warnings {
			fmt.Fprintf(env.Stderr, "WARNING %s: %s\n", r.InputPath, w)
		}
		if quiet {
			continue
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d pages, %d signature blocks, %v)\n",
				r.InputPath, r.OutputPath, r.PageCount, r.SignatureBlocks,
				r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}
	return failed
}
