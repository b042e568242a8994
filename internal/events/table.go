package events

import (
	"sort"
	"strings"
	"time"
)

// NotSet is the GA4 sentinel for an absent dimension value.
const NotSet = "(not set)"

// Row is one ingested analytics record: an event action observed on a date,
// attributed to a campaign/channel/landing page, carrying the number of GA4
// events aggregated into it by the source API.
type Row struct {
	Date     time.Time `json:"date"`
	Action   string    `json:"event_action"`
	Campaign string    `json:"campaign"`
	Channel  string    `json:"channel"`
	URL      string    `json:"url"`
	Count    int64     `json:"count"`
}

// Table is an ordered collection of rows. Components treat a received table
// as read-only; derived tables are always fresh slices.
type Table []Row

// DimensionCount pairs a dimension value with its summed event count.
type DimensionCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// NewTable builds a table from raw rows, normalizing each row once:
// event actions are whitespace-stripped so every downstream comparison is a
// plain equality check, absent dimensions get the (not set) sentinel, and
// negative counts are clamped to zero.
func NewTable(rows []Row) Table {
	if len(rows) == 0 {
		return Table{}
	}
	table := make(Table, 0, len(rows))
	for _, row := range rows {
		row.Action = strings.TrimSpace(row.Action)
		row.Campaign = orNotSet(row.Campaign)
		row.Channel = orNotSet(row.Channel)
		row.URL = orNotSet(row.URL)
		if row.Count < 0 {
			row.Count = 0
		}
		table = append(table, row)
	}
	return table
}

func orNotSet(value string) string {
	if strings.TrimSpace(value) == "" {
		return NotSet
	}
	return value
}

// TotalCount sums the count column.
func (t Table) TotalCount() int64 {
	var total int64
	for _, row := range t {
		total += row.Count
	}
	return total
}

// ActionCount sums the count column for rows matching the action. The lookup
// strips the argument so callers may pass unnormalized business constants.
func (t Table) ActionCount(action string) int64 {
	action = strings.TrimSpace(action)
	var total int64
	for _, row := range t {
		if row.Action == action {
			total += row.Count
		}
	}
	return total
}

// SumByAction groups rows by action and sums counts, preserving first-seen
// order in the returned keys.
func (t Table) SumByAction() ([]string, map[string]int64) {
	totals := make(map[string]int64, len(t))
	order := make([]string, 0, len(t))
	for _, row := range t {
		if _, seen := totals[row.Action]; !seen {
			order = append(order, row.Action)
		}
		totals[row.Action] += row.Count
	}
	return order, totals
}

// Campaigns lists unique campaigns with summed counts, descending.
func (t Table) Campaigns() []DimensionCount {
	return t.dimensionCounts(func(r Row) string { return r.Campaign })
}

// Channels lists unique channels with summed counts, descending.
func (t Table) Channels() []DimensionCount {
	return t.dimensionCounts(func(r Row) string { return r.Channel })
}

// URLs lists unique landing pages with summed counts, descending.
func (t Table) URLs() []DimensionCount {
	return t.dimensionCounts(func(r Row) string { return r.URL })
}

func (t Table) dimensionCounts(value func(Row) string) []DimensionCount {
	totals := make(map[string]int64)
	order := make([]string, 0)
	for _, row := range t {
		v := value(row)
		if _, seen := totals[v]; !seen {
			order = append(order, v)
		}
		totals[v] += row.Count
	}
	counts := make([]DimensionCount, 0, len(order))
	for _, v := range order {
		counts = append(counts, DimensionCount{Value: v, Count: totals[v]})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// DateBounds returns the earliest and latest row dates, with ok=false on an
// empty table.
func (t Table) DateBounds() (min, max time.Time, ok bool) {
	if len(t) == 0 {
		return time.Time{}, time.Time{}, false
	}
	min, max = t[0].Date, t[0].Date
	for _, row := range t[1:] {
		if row.Date.Before(min) {
			min = row.Date
		}
		if row.Date.After(max) {
			max = row.Date
		}
	}
	return min, max, true
}
