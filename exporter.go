package legalpdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/casekit/go-legalpdf/internal/layout"
	"github.com/casekit/go-legalpdf/internal/markers"
	"github.com/casekit/go-legalpdf/internal/pagewriter"
)

// producer is embedded in the PDF metadata of every export.
const producer = "go-legalpdf"

// Exporter turns document text into finalized PDFs. It is stateless across
// exports and safe for concurrent use; each export runs its own writer
// session.
type Exporter struct {
	log       *slog.Logger
	newEngine func(pageSize string) pagewriter.Engine
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger for debug records (marker anomalies, engine
// pagination divergence). The default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(e *Exporter) {
		if log != nil {
			e.log = log
		}
	}
}

// WithEngineFactory overrides the drawing engine constructor, e.g. to inject
// a fake in tests.
func WithEngineFactory(factory func(pageSize string) pagewriter.Engine) Option {
	return func(e *Exporter) {
		if factory != nil {
			e.newEngine = factory
		}
	}
}

// NewExporter creates an Exporter with default configuration.
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		newEngine: pagewriter.NewFpdfEngine,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export runs the full pipeline: normalize text, extract signature blocks,
// lay out, render, and finalize to the requested destination.
//
// Cancellation is checked between stages; an aborted or failed export leaves
// no partial file behind. Malformed marker tokens never fail an export; they
// are logged and the document renders without the affected block.
func (e *Exporter) Export(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	rep := newProgressReporter(req.OnProgress)

	rep.report(StageInitializing, 0)
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyDocument
	}
	if err := req.Options.Validate(); err != nil {
		return nil, err
	}
	cfg := req.Options.config()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep.report(StageFormatting, 10)
	text := normalizeText(req.Text)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep.report(StageParsing, 25)
	pr, anomalies := markers.Parse(text)
	for _, a := range anomalies {
		e.log.Debug("skipping malformed marker",
			"line", a.Line, "token", a.Token, "reason", a.Reason)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep.report(StageLayout, 40)
	doc := layout.Build(pr, req.DocumentType)

	var buf *pagewriter.BufferDestination
	var dest pagewriter.Destination
	if req.OutputPath != "" {
		dest = &pagewriter.FileDestination{Path: req.OutputPath}
	} else {
		buf = &pagewriter.BufferDestination{}
		dest = buf
	}

	writer := pagewriter.New(e.newEngine(cfg.PageSize), dest, cfg, e.log)
	if err := writer.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutput, err)
	}
	writer.SetDocumentInfo(req.DocumentType, producer)

	engine := layout.NewEngine(writer, e.log)
	predicted := engine.Predict(doc)
	if err := ctx.Err(); err != nil {
		_ = writer.Abort()
		return nil, err
	}

	rep.report(StageRendering, 55)
	if total := len(doc.Ops); total > 0 {
		engine.Progress = func(done, _ int) {
			rep.report(StageRendering, 55+40*done/total)
		}
	}
	if err := engine.Render(ctx, doc); err != nil {
		_ = writer.Abort()
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	rep.report(StageFinalizing, 95)
	if err := ctx.Err(); err != nil {
		_ = writer.Abort()
		return nil, err
	}
	if err := writer.Finalize(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutput, err)
	}

	warnings := append([]string(nil), writer.Warnings()...)
	if actual := writer.PageCount(); actual > predicted {
		w := fmt.Sprintf("rendered %d pages where layout predicted %d; measurement and engine wrapping disagree", actual, predicted)
		warnings = append(warnings, w)
		e.log.Debug("page count exceeded prediction", "predicted", predicted, "actual", actual)
	}

	res := &Result{
		PageCount:           writer.PageCount(),
		SignatureBlockCount: len(pr.SignatureBlocks),
		Warnings:            warnings,
		Duration:            time.Since(start),
	}
	if buf != nil {
		res.Buffer = append([]byte(nil), buf.Bytes()...)
	} else {
		res.FilePath = req.OutputPath
	}

	rep.report(StageFinalizing, 100)
	return res, nil
}
