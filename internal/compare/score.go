package compare

import "github.com/enpal-growth/landing-insights/internal/kpi"

// Scoring weights. Business rules carried over verbatim: leads dominate,
// registration rate is second, end rate and CAP success break near-ties.
const (
	leadsWeight            = 3
	registrationRateWeight = 2
	endRateWeight          = 1
	capSuccessWeight       = 1

	// MinScoreGap is the score distance below which no side is trusted
	// enough for a maintain recommendation.
	MinScoreGap = 2
)

const (
	WinnerOld = "OLD"
	WinnerNew = "NEW"
)

// Score awards the weighted points between the two KPI sets. Every weight
// goes to NEW only on a strictly higher metric; ties award OLD, so identical
// sets score OLD as the full winner.
func Score(old, new kpi.Set) (scoreOld, scoreNew int) {
	if new.Leads > old.Leads {
		scoreNew += leadsWeight
	} else {
		scoreOld += leadsWeight
	}

	if new.RegistrationRate > old.RegistrationRate {
		scoreNew += registrationRateWeight
	} else {
		scoreOld += registrationRateWeight
	}

	if new.EndRate > old.EndRate {
		scoreNew += endRateWeight
	} else {
		scoreOld += endRateWeight
	}

	if new.CAPSuccess > old.CAPSuccess {
		scoreNew += capSuccessWeight
	} else {
		scoreOld += capSuccessWeight
	}

	return scoreOld, scoreNew
}

// Winner resolves the verdict from the two scores; a tie keeps OLD.
func Winner(scoreOld, scoreNew int) string {
	if scoreNew > scoreOld {
		return WinnerNew
	}
	return WinnerOld
}

// Recommendation maps the score gap to the final action text.
func Recommendation(winner string, scoreOld, scoreNew int) string {
	gap := scoreNew - scoreOld
	if gap < 0 {
		gap = -gap
	}
	if gap >= MinScoreGap {
		return "MAINTAIN " + winner + " LANDING"
	}
	return "REQUIRES FURTHER ANALYSIS"
}
