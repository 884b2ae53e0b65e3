package legalpdf

// Export stages, in execution order.
const (
	StageInitializing = "initializing"
	StageFormatting   = "formatting"
	StageParsing      = "parsing signatures"
	StageLayout       = "layout"
	StageRendering    = "rendering"
	StageFinalizing   = "finalizing"
)

// Progress is one stage update delivered to Request.OnProgress.
type Progress struct {
	Stage   string
	Percent int // 0-100, never decreasing across a single export
}

// progressReporter delivers stage updates, clamping percentages so they
// never go backward even when a stage reports out of order.
type progressReporter struct {
	fn   func(Progress)
	last int
}

func newProgressReporter(fn func(Progress)) *progressReporter {
	return &progressReporter{fn: fn}
}

func (r *progressReporter) report(stage string, percent int) {
	if percent < r.last {
		percent = r.last
	}
	if percent > 100 {
		percent = 100
	}
	r.last = percent
	if r.fn != nil {
		r.fn(Progress{Stage: stage, Percent: percent})
	}
}
