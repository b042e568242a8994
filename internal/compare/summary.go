package compare

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/enpal-growth/landing-insights/internal/events"
	"github.com/enpal-growth/landing-insights/internal/funnel"
	"github.com/enpal-growth/landing-insights/internal/kpi"
)

// Threshold constants for the explanation clauses. A clause only enters the
// winner explanation when the gap is wide enough to be worth saying out loud.
const (
	regRateClausePP  = 0.5
	endRateClausePP  = 5.0
	capClausePP      = 5.0
	volumeClauseMult = 1.5

	funnelGapPP    = 10.0
	problemGapPP   = 5.0
	highImpactDrop = 50.0

	maxCriticalSteps = 3
)

// Impact levels attached to identified funnel problems.
const (
	ImpactHigh   = "alto"
	ImpactMedium = "medio"
	ImpactLow    = "basso"
)

// CriticalStep is one shared funnel step ranked by how badly either cohort
// bleeds users there. Difference is old minus new, so positive means OLD is
// worse.
type CriticalStep struct {
	Step       string  `json:"step"`
	OldDropOff float64 `json:"old_drop_off"`
	NewDropOff float64 `json:"new_drop_off"`
	Difference float64 `json:"difference"`
	Severity   float64 `json:"severity"`
}

// Problem is the reader-facing rendering of a critical step.
type Problem struct {
	Step   string `json:"step"`
	Issue  string `json:"issue"`
	Impact string `json:"impact"`
}

// Score holds the weighted points each side collected.
type ScorePair struct {
	Old int `json:"old"`
	New int `json:"new"`
}

// Summary is the full executive comparison between two landing cohorts.
type Summary struct {
	DateRange         string              `json:"date_range"`
	OldName           string              `json:"old_name"`
	NewName           string              `json:"new_name"`
	Winner            string              `json:"winner"`
	WinnerName        string              `json:"winner_name"`
	LoserName         string              `json:"loser_name"`
	Score             ScorePair           `json:"score"`
	OldKPIs           kpi.Set             `json:"old_kpis"`
	NewKPIs           kpi.Set             `json:"new_kpis"`
	LeadsDiff         int64               `json:"leads_diff"`
	LeadsPct          float64             `json:"leads_pct"`
	RegRateDiff       float64             `json:"reg_rate_diff"`
	Reasons           []string            `json:"reasons"`
	CriticalSteps     []CriticalStep      `json:"critical_steps"`
	Problems          []Problem           `json:"problems"`
	OldFunnel         []funnel.StepMetric `json:"old_funnel"`
	NewFunnel         []funnel.StepMetric `json:"new_funnel"`
	WinnerExplanation string              `json:"winner_explanation"`
	FunnelExplanation string              `json:"funnel_explanation"`
	Recommendation    string              `json:"recommendation"`
}

// grouped renders integers with thousands separators for the narrative
// fragments.
var grouped = message.NewPrinter(language.English)

// CriticalSteps ranks the funnel steps shared by both cohorts, entry
// excluded, by the worse of the two drop-off percentages. Ties keep the
// funnel walk order. At most three steps are returned.
func CriticalSteps(oldFunnel, newFunnel []funnel.StepMetric) []CriticalStep {
	byLabel := make(map[string]funnel.StepMetric, len(newFunnel))
	for _, m := range newFunnel {
		byLabel[m.Label] = m
	}

	steps := make([]CriticalStep, 0, len(oldFunnel))
	for _, om := range oldFunnel {
		if om.Label == funnel.EntryLabel {
			continue
		}
		nm, ok := byLabel[om.Label]
		if !ok {
			continue
		}
		oldDrop := om.DropOffPct
		newDrop := nm.DropOffPct
		steps = append(steps, CriticalStep{
			Step:       om.Label,
			OldDropOff: oldDrop,
			NewDropOff: newDrop,
			Difference: oldDrop - newDrop,
			Severity:   maxFloat(oldDrop, newDrop),
		})
	}

	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Severity > steps[j].Severity
	})
	if len(steps) > maxCriticalSteps {
		steps = steps[:maxCriticalSteps]
	}
	return steps
}

// BuildSummary compares the two cohorts end to end: KPIs, funnel walks,
// critical steps, weighted verdict, and the narrative fragments around it.
func BuildSummary(oldTable, newTable events.Table, oldName, newName, dateRange string) Summary {
	oldKPIs := kpi.Compute(oldTable)
	newKPIs := kpi.Compute(newTable)

	steps := funnel.Steps()
	oldFunnel := funnel.DropOff(oldTable, steps)
	newFunnel := funnel.DropOff(newTable, steps)
	criticalSteps := CriticalSteps(oldFunnel, newFunnel)

	scoreOld, scoreNew := Score(oldKPIs, newKPIs)
	winner := Winner(scoreOld, scoreNew)
	winnerName, loserName := newName, oldName
	if winner == WinnerOld {
		winnerName, loserName = oldName, newName
	}

	leadsDiff := newKPIs.Leads - oldKPIs.Leads
	var leadsPct float64
	if oldKPIs.Leads > 0 {
		leadsPct = (float64(newKPIs.Leads)/float64(oldKPIs.Leads) - 1) * 100
	}
	regRateDiff := newKPIs.RegistrationRate - oldKPIs.RegistrationRate

	return Summary{
		DateRange:         dateRange,
		OldName:           oldName,
		NewName:           newName,
		Winner:            winner,
		WinnerName:        winnerName,
		LoserName:         loserName,
		Score:             ScorePair{Old: scoreOld, New: scoreNew},
		OldKPIs:           oldKPIs,
		NewKPIs:           newKPIs,
		LeadsDiff:         leadsDiff,
		LeadsPct:          leadsPct,
		RegRateDiff:       regRateDiff,
		Reasons:           reasons(winner, oldKPIs, newKPIs, leadsDiff, leadsPct, regRateDiff),
		CriticalSteps:     criticalSteps,
		Problems:          problems(criticalSteps),
		OldFunnel:         oldFunnel,
		NewFunnel:         newFunnel,
		WinnerExplanation: winnerExplanation(winner, oldKPIs, newKPIs, leadsDiff, regRateDiff),
		FunnelExplanation: funnelExplanation(criticalSteps),
		Recommendation:    Recommendation(winner, scoreOld, scoreNew),
	}
}

// reasons produces the short bullet fragments for the verdict. The OLD side
// intentionally lists fewer reasons than the NEW side.
func reasons(winner string, oldKPIs, newKPIs kpi.Set, leadsDiff int64, leadsPct, regRateDiff float64) []string {
	out := []string{}
	if winner == WinnerNew {
		if leadsDiff > 0 {
			out = append(out, grouped.Sprintf("+%d leads (%+.1f%%)", leadsDiff, leadsPct))
		}
		if regRateDiff > 0 {
			out = append(out, fmt.Sprintf("Registration rate +%.2fpp", regRateDiff))
		}
		if newKPIs.EndRate > oldKPIs.EndRate {
			out = append(out, fmt.Sprintf("Migliore End Rate (%.1f%% vs %.1f%%)", newKPIs.EndRate, oldKPIs.EndRate))
		}
		return out
	}
	if leadsDiff < 0 {
		out = append(out, grouped.Sprintf("+%d leads", -leadsDiff))
	}
	if regRateDiff < 0 {
		out = append(out, fmt.Sprintf("Registration rate +%.2fpp", -regRateDiff))
	}
	return out
}

// winnerExplanation assembles the long-form reason sentence. Clauses are
// gated on meaningful gaps; the CAP and traffic-volume clauses only ever
// argue for the NEW side.
func winnerExplanation(winner string, oldKPIs, newKPIs kpi.Set, leadsDiff int64, regRateDiff float64) string {
	parts := []string{}

	if winner == WinnerNew {
		if leadsDiff > 0 {
			parts = append(parts, grouped.Sprintf("ha generato %d leads in più (%d vs %d)", leadsDiff, newKPIs.Leads, oldKPIs.Leads))
		}
		if regRateDiff > regRateClausePP {
			parts = append(parts, fmt.Sprintf("ha un tasso di conversione superiore (%.2f%% vs %.2f%%)", newKPIs.RegistrationRate, oldKPIs.RegistrationRate))
		}
		if newKPIs.EndRate > oldKPIs.EndRate+endRateClausePP {
			parts = append(parts, fmt.Sprintf("converte meglio gli utenti che iniziano il funnel (End Rate: %.1f%% vs %.1f%%)", newKPIs.EndRate, oldKPIs.EndRate))
		}
		if newKPIs.CAPSuccess > oldKPIs.CAPSuccess+capClausePP {
			parts = append(parts, fmt.Sprintf("ha un CAP Success migliore (%.1f%% vs %.1f%%)", newKPIs.CAPSuccess, oldKPIs.CAPSuccess))
		}
		if float64(oldKPIs.Volume) > float64(newKPIs.Volume)*volumeClauseMult {
			parts = append(parts, grouped.Sprintf("nonostante abbia ricevuto meno traffico (%d vs %d visite)", newKPIs.Volume, oldKPIs.Volume))
		}
		if len(parts) == 0 {
			return "La landing NEW ha mostrato performance complessive migliori."
		}
		return fmt.Sprintf("La landing NEW ha performato meglio perché %s.", strings.Join(parts, ", "))
	}

	if leadsDiff < 0 {
		parts = append(parts, grouped.Sprintf("ha generato %d leads in più (%d vs %d)", -leadsDiff, oldKPIs.Leads, newKPIs.Leads))
	}
	if regRateDiff < -regRateClausePP {
		parts = append(parts, fmt.Sprintf("ha un tasso di conversione superiore (%.2f%% vs %.2f%%)", oldKPIs.RegistrationRate, newKPIs.RegistrationRate))
	}
	if oldKPIs.EndRate > newKPIs.EndRate+endRateClausePP {
		parts = append(parts, fmt.Sprintf("converte meglio gli utenti che iniziano il funnel (End Rate: %.1f%% vs %.1f%%)", oldKPIs.EndRate, newKPIs.EndRate))
	}
	if len(parts) == 0 {
		return "La landing OLD ha mostrato performance complessive migliori."
	}
	return fmt.Sprintf("La landing OLD ha performato meglio perché %s.", strings.Join(parts, ", "))
}

// funnelExplanation names the worst shared step and who owns the problem.
func funnelExplanation(criticalSteps []CriticalStep) string {
	if len(criticalSteps) == 0 {
		return ""
	}
	worst := criticalSteps[0]
	switch {
	case worst.OldDropOff > worst.NewDropOff+funnelGapPP:
		return fmt.Sprintf("Il problema principale della OLD è nello step '%s' dove perde il %.1f%% degli utenti (vs %.1f%% della NEW).",
			worst.Step, worst.OldDropOff, worst.NewDropOff)
	case worst.NewDropOff > worst.OldDropOff+funnelGapPP:
		return fmt.Sprintf("Il problema principale della NEW è nello step '%s' dove perde il %.1f%% degli utenti (vs %.1f%% della OLD).",
			worst.Step, worst.NewDropOff, worst.OldDropOff)
	default:
		return fmt.Sprintf("Entrambe le landing hanno drop-off significativi nello step '%s' (OLD: %.1f%%, NEW: %.1f%%).",
			worst.Step, worst.OldDropOff, worst.NewDropOff)
	}
}

// problems renders every critical step into a sided issue, or a low-impact
// "similar" note when neither side is clearly worse.
func problems(criticalSteps []CriticalStep) []Problem {
	out := make([]Problem, 0, len(criticalSteps))
	for _, cs := range criticalSteps {
		switch {
		case cs.OldDropOff > cs.NewDropOff && cs.Difference > problemGapPP:
			out = append(out, Problem{
				Step:   cs.Step,
				Issue:  fmt.Sprintf("OLD perde %.1f%% degli utenti vs %.1f%% di NEW", cs.OldDropOff, cs.NewDropOff),
				Impact: impactLevel(cs.OldDropOff),
			})
		case cs.NewDropOff > cs.OldDropOff && cs.Difference < -problemGapPP:
			out = append(out, Problem{
				Step:   cs.Step,
				Issue:  fmt.Sprintf("NEW perde %.1f%% degli utenti vs %.1f%% di OLD", cs.NewDropOff, cs.OldDropOff),
				Impact: impactLevel(cs.NewDropOff),
			})
		default:
			out = append(out, Problem{
				Step:   cs.Step,
				Issue:  fmt.Sprintf("Drop-off simile: OLD %.1f%% vs NEW %.1f%%", cs.OldDropOff, cs.NewDropOff),
				Impact: ImpactLow,
			})
		}
	}
	return out
}

func impactLevel(drop float64) string {
	if drop > highImpactDrop {
		return ImpactHigh
	}
	return ImpactMedium
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
