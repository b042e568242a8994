package funnel

import (
	"fmt"
	"sort"

	"github.com/enpal-growth/landing-insights/internal/events"
)

// MaxRankedEvents caps the ranked aggregation. The cap is a display limit:
// KPI math always reads the full table, never this list.
const MaxRankedEvents = 36

// CascadeNA is the ratio sentinel used when the preceding ranked event has a
// zero count.
const CascadeNA = "N/A"

// RankedEvent is one row of the per-action aggregation.
type RankedEvent struct {
	Action     string `json:"event_action"`
	TotalCount int64  `json:"total_count"`
	// Ratio relates this row's count to the immediately preceding ranked
	// row, not to any funnel baseline.
	Ratio string `json:"ratio"`
}

// AggregateByAction groups the table by event action, sums counts, and ranks
// the result by total count descending, truncated to MaxRankedEvents. Ties
// keep the first-seen order of the actions in the table (stable sort). The
// cascade ratio of the first row is always "100%"; each later row is its
// count as a percentage of the previous ranked row, one decimal, or "N/A"
// when the previous count is zero.
func AggregateByAction(table events.Table) []RankedEvent {
	if len(table) == 0 {
		return []RankedEvent{}
	}

	order, totals := table.SumByAction()

	ranked := make([]RankedEvent, 0, len(order))
	for _, action := range order {
		ranked = append(ranked, RankedEvent{Action: action, TotalCount: totals[action]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalCount > ranked[j].TotalCount
	})

	if len(ranked) > MaxRankedEvents {
		ranked = ranked[:MaxRankedEvents]
	}

	for i := range ranked {
		if i == 0 {
			ranked[i].Ratio = "100%"
			continue
		}
		prev := ranked[i-1].TotalCount
		if prev > 0 {
			ranked[i].Ratio = fmt.Sprintf("%.1f%%", float64(ranked[i].TotalCount)/float64(prev)*100)
		} else {
			ranked[i].Ratio = CascadeNA
		}
	}

	return ranked
}
