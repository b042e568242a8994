package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/enpal-growth/landing-insights/api/validators"
	"github.com/enpal-growth/landing-insights/internal/events"
)

const dateFormat = "2006-01-02"

func parseDate(raw string) (time.Time, error) {
	return time.Parse(dateFormat, raw)
}

// cohortFilter is the shared query-parameter filter every read endpoint
// accepts: an inclusive date window plus campaign/channel/url sets.
type cohortFilter struct {
	Start     time.Time
	End       time.Time
	Campaigns []string
	Channels  []string
	URLs      []string
}

func parseCohortFilter(r *http.Request) (cohortFilter, error) {
	var f cohortFilter
	var err error

	if f.Start, err = validators.ParseQueryDate(r, "start_date"); err != nil {
		return f, err
	}
	if f.End, err = validators.ParseQueryDate(r, "end_date"); err != nil {
		return f, err
	}
	f.Campaigns = validators.ParseQueryList(r, "campaigns")
	f.Channels = validators.ParseQueryList(r, "channels")
	f.URLs = validators.ParseQueryList(r, "urls")
	return f, nil
}

// apply narrows the table. Open window ends fall back to the table's own
// date bounds so a missing parameter never filters everything out.
func (f cohortFilter) apply(table events.Table) events.Table {
	start, end := f.Start, f.End
	if start.IsZero() || end.IsZero() {
		min, max, ok := table.DateBounds()
		if !ok {
			return events.Table{}
		}
		if start.IsZero() {
			start = min
		}
		if end.IsZero() {
			end = max
		}
	}
	return table.Filter(start, end, f.Campaigns, f.Channels, f.URLs)
}

// label renders the analysis period for summaries, preferring the explicit
// window and falling back to what the data covers.
func (f cohortFilter) label(table events.Table) string {
	start, end := f.Start, f.End
	if start.IsZero() || end.IsZero() {
		min, max, ok := table.DateBounds()
		if ok {
			if start.IsZero() {
				start = min
			}
			if end.IsZero() {
				end = max
			}
		}
	}
	if start.IsZero() && end.IsZero() {
		return "no data"
	}
	return fmt.Sprintf("%s - %s", start.Format(dateFormat), end.Format(dateFormat))
}
