package report

import (
	"encoding/base64"
	"sync"
	"time"

	"github.com/enpal-growth/landing-insights/internal/compare"
)

const timestampLayout = "2006-01-02 15:04:05"

// Analysis is one saved comparison inside a cumulative report. IDs are
// 1-based and assigned in insertion order; clearing the report restarts the
// sequence.
type Analysis struct {
	ID        int             `json:"id"`
	Timestamp string          `json:"timestamp"`
	Name      string          `json:"analysis_name"`
	DateRange string          `json:"date_range"`
	Summary   compare.Summary `json:"summary"`
	Filters   map[string]any  `json:"filters"`
	Chart     string          `json:"chart,omitempty"`
}

// Accumulator collects analyses for one report session. Safe for concurrent
// use.
type Accumulator struct {
	mu        sync.Mutex
	analyses  []Analysis
	createdAt time.Time
	now       func() time.Time
}

// NewAccumulator returns an empty report.
func NewAccumulator() *Accumulator {
	return newAccumulator(time.Now)
}

func newAccumulator(now func() time.Time) *Accumulator {
	return &Accumulator{createdAt: now(), now: now}
}

// Add appends an analysis built from the given summary and returns its
// assigned ID, which also equals the new report length. The chart PNG may be
// nil; it is stored base64-encoded for inline embedding.
func (a *Accumulator) Add(name string, summary compare.Summary, filters map[string]any, chartPNG []byte) int {
	if filters == nil {
		filters = map[string]any{}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	entry := Analysis{
		ID:        len(a.analyses) + 1,
		Timestamp: a.now().Format(timestampLayout),
		Name:      name,
		DateRange: summary.DateRange,
		Summary:   summary,
		Filters:   filters,
	}
	if len(chartPNG) > 0 {
		entry.Chart = base64.StdEncoding.EncodeToString(chartPNG)
	}

	a.analyses = append(a.analyses, entry)
	return len(a.analyses)
}

// Analyses returns a snapshot of the accumulated entries.
func (a *Accumulator) Analyses() []Analysis {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Analysis, len(a.analyses))
	copy(out, a.analyses)
	return out
}

// Len reports how many analyses the report holds.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.analyses)
}

// CreatedAt is when this report session started, reset on Clear.
func (a *Accumulator) CreatedAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.createdAt
}

// Clear drops every analysis and restarts the ID sequence.
func (a *Accumulator) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.analyses = nil
	a.createdAt = a.now()
}
