package funnel

import "github.com/enpal-growth/landing-insights/internal/events"

// StepMetric is one step of the fixed funnel walk with its loss versus the
// preceding step.
type StepMetric struct {
	Label      string  `json:"step"`
	Action     string  `json:"event"`
	Count      int64   `json:"count"`
	DropOff    int64   `json:"drop_off"`
	DropOffPct float64 `json:"drop_off_pct"`
}

// DropOff walks the fixed funnel sequence and computes per-step counts and
// losses. A step enters the output once the first non-zero count has been
// seen in the sequence, so a cohort that collapses to zero mid-funnel still
// shows its dead steps. Table actions are normalized at build time, so a
// plain count lookup is exact.
func DropOff(table events.Table, steps []Step) []StepMetric {
	if len(table) == 0 {
		return []StepMetric{}
	}

	metrics := make([]StepMetric, 0, len(steps))
	var prev *int64

	for _, step := range steps {
		count := table.ActionCount(step.Action)

		if count == 0 && prev == nil {
			continue
		}

		var drop int64
		var dropPct float64
		if prev != nil && *prev > 0 {
			drop = *prev - count
			dropPct = float64(drop) / float64(*prev) * 100
		}

		metrics = append(metrics, StepMetric{
			Label:      step.Label,
			Action:     step.Action,
			Count:      count,
			DropOff:    drop,
			DropOffPct: dropPct,
		})
		c := count
		prev = &c
	}

	return metrics
}
