package kpi

import (
	"math"

	"github.com/enpal-growth/landing-insights/internal/events"
)

// Fixed business event constants backing the named KPIs. Runtime behavior
// never varies these.
const (
	AnchorEvent       = "Enpal Source Cookie"
	LastQuestionEvent = "Per quale prodotto vuoi scoprire i bonus?"
	BuildingTypeEvent = "Per quale tipo di edificio vuoi scoprire i bonus?"
	LeadEvent         = "slider-success"
)

// Set is the derived KPI snapshot for one cohort. Recomputed on every filter
// change; persisted only inside a comparison snapshot.
type Set struct {
	Leads            int64   `json:"leads"`
	StartRate        float64 `json:"start_rate"`
	EndRate          float64 `json:"end_rate"`
	CAPSuccess       float64 `json:"cap_success"`
	RegistrationRate float64 `json:"reg_rate"`
	Volume           int64   `json:"volume"`
}

// Ratio divides the summed count of the numerator event by the summed count
// of the denominator event, times 100. Zero denominators and empty tables
// yield 0.0, never a fault.
func Ratio(table events.Table, numerator, denominator string) float64 {
	if len(table) == 0 {
		return 0.0
	}
	den := table.ActionCount(denominator)
	if den == 0 {
		return 0.0
	}
	return float64(table.ActionCount(numerator)) / float64(den) * 100
}

// Leads counts completed funnel runs.
func Leads(table events.Table) int64 {
	return table.ActionCount(LeadEvent)
}

// StartRate relates users reaching the last question to funnel entries.
func StartRate(table events.Table) float64 {
	return Ratio(table, LastQuestionEvent, AnchorEvent)
}

// EndRate relates completed leads to users reaching the last question.
func EndRate(table events.Table) float64 {
	return Ratio(table, LeadEvent, LastQuestionEvent)
}

// RegistrationRate relates completed leads to funnel entries.
func RegistrationRate(table events.Table) float64 {
	return Ratio(table, LeadEvent, AnchorEvent)
}

// CAPSuccess relates completed leads to users answering the building-type
// question.
func CAPSuccess(table events.Table) float64 {
	return Ratio(table, LeadEvent, BuildingTypeEvent)
}

// Compute derives the full KPI set for one cohort. Rates carry two decimals,
// matching the executive-summary presentation; Volume is the anchor event
// count.
func Compute(table events.Table) Set {
	return Set{
		Leads:            Leads(table),
		StartRate:        round2(StartRate(table)),
		EndRate:          round2(EndRate(table)),
		CAPSuccess:       round2(CAPSuccess(table)),
		RegistrationRate: round2(RegistrationRate(table)),
		Volume:           table.ActionCount(AnchorEvent),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
