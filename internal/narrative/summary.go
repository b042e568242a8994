package narrative

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/enpal-growth/landing-insights/internal/events"
	"github.com/enpal-growth/landing-insights/internal/kpi"
)

// StepRatio is one event with its share of funnel entries.
type StepRatio struct {
	Event        string  `json:"event"`
	Count        int64   `json:"count"`
	RatioVsStart float64 `json:"ratio_vs_start"`
}

// DataSummary is the compact cohort digest fed to the analyst prompt. It is
// also returned as-is to API clients who want the raw numbers.
type DataSummary struct {
	LandingType      string      `json:"landing_type"`
	HasData          bool        `json:"has_data"`
	TotalEvents      int64       `json:"total_events"`
	UniqueCampaigns  int         `json:"unique_campaigns"`
	UniqueChannels   int         `json:"unique_channels"`
	Leads            int64       `json:"leads"`
	StartRate        float64     `json:"start_rate"`
	EndRate          float64     `json:"end_rate"`
	CAPSuccess       float64     `json:"cap_success"`
	RegistrationRate float64     `json:"registration_rate"`
	StepRatios       []StepRatio `json:"step_ratios,omitempty"`
}

var grouped = message.NewPrinter(language.English)

// BuildDataSummary digests one cohort table. Step ratios relate every event
// to the funnel anchor and are listed by descending count; without anchor
// traffic no ratios are emitted.
func BuildDataSummary(table events.Table, landingType string) DataSummary {
	if len(table) == 0 {
		return DataSummary{LandingType: landingType}
	}

	s := DataSummary{
		LandingType:      landingType,
		HasData:          true,
		TotalEvents:      table.TotalCount(),
		UniqueCampaigns:  len(table.Campaigns()),
		UniqueChannels:   len(table.Channels()),
		Leads:            kpi.Leads(table),
		StartRate:        kpi.StartRate(table),
		EndRate:          kpi.EndRate(table),
		CAPSuccess:       kpi.CAPSuccess(table),
		RegistrationRate: kpi.RegistrationRate(table),
	}

	anchor := table.ActionCount(kpi.AnchorEvent)
	if anchor > 0 {
		actions, totals := table.SumByAction()
		ratios := make([]StepRatio, 0, len(actions))
		for _, action := range actions {
			ratios = append(ratios, StepRatio{
				Event:        action,
				Count:        totals[action],
				RatioVsStart: float64(totals[action]) / float64(anchor) * 100,
			})
		}
		sort.SliceStable(ratios, func(i, j int) bool {
			return ratios[i].Count > ratios[j].Count
		})
		s.StepRatios = ratios
	}

	return s
}

// Format renders the summary as the plain-text block embedded in the prompt.
func (s DataSummary) Format() string {
	if !s.HasData {
		return s.LandingType + ": No data available"
	}

	var b strings.Builder
	grouped.Fprintf(&b, "Landing Type: %s\n", s.LandingType)
	grouped.Fprintf(&b, "Total Events: %d\n", s.TotalEvents)
	grouped.Fprintf(&b, "Leads (slider-success): %d\n", s.Leads)
	grouped.Fprintf(&b, "Start Rate: %.2f%%\n", s.StartRate)
	grouped.Fprintf(&b, "End Rate: %.2f%%\n", s.EndRate)
	grouped.Fprintf(&b, "CAP Success: %.2f%%\n", s.CAPSuccess)
	grouped.Fprintf(&b, "Registration Rate: %.2f%%\n", s.RegistrationRate)
	grouped.Fprintf(&b, "Unique Campaigns: %d\n", s.UniqueCampaigns)
	grouped.Fprintf(&b, "Unique Channels: %d", s.UniqueChannels)

	if len(s.StepRatios) > 0 {
		b.WriteString("\n\nComplete Event Breakdown (with ratios vs Enpal Source Cookie):")
		for _, r := range s.StepRatios {
			grouped.Fprintf(&b, "\n  - %s: %d (ratio: %.2f%%)", r.Event, r.Count, r.RatioVsStart)
		}
	}

	return b.String()
}
