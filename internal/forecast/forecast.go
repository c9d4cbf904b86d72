// Package forecast derives weighted pipeline revenue projections from
// lead state, score, and deal value.
package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/clientry/leadintel/internal/model"
)

// stageProbability is the assumed likelihood that a lead in a given
// status converts to a won deal.
var stageProbability = map[model.LeadStatus]float64{
	model.StatusNew:       0.10,
	model.StatusContacted: 0.25,
	model.StatusQualified: 0.50,
	model.StatusWon:       1.00,
	model.StatusLost:      0.00,
}

// StageProbability returns the conversion probability for a status.
// Unknown statuses convert at zero.
func StageProbability(s model.LeadStatus) float64 {
	return stageProbability[s]
}

// Summary holds the aggregated projection for a lead collection.
type Summary struct {
	WeightedTotal        float64                  `json:"weighted_total"`
	BestCase             float64                  `json:"best_case"`
	WorstCase            float64                  `json:"worst_case"`
	WonRevenue           float64                  `json:"won_revenue"`
	ProjectedTotal       float64                  `json:"projected_total"`
	TargetProgressPct    int                      `json:"target_progress_pct"`
	ByStage              map[model.LeadStatus]int `json:"by_stage"`
	PredictedConversions int                      `json:"predicted_conversions"`
}

// Project aggregates pipeline revenue for the calendar month containing
// now. Leads without a valid positive expected value contribute zero to
// every revenue figure; no input can propagate NaN or Inf into the
// totals.
func Project(leads []model.Lead, monthlyTarget float64, now time.Time) Summary {
	s := Summary{ByStage: make(map[model.LeadStatus]int)}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var expectedConversions float64
	for _, lead := range leads {
		s.ByStage[lead.Status]++

		value := safeValue(lead.ExpectedValue)

		if lead.Status == model.StatusWon {
			won := lead.WonDate.Time
			if value > 0 && lead.WonDate.IsSet() && !won.Before(monthStart) && won.Before(monthEnd) {
				s.WonRevenue += value
			}
			continue
		}
		if lead.Status == model.StatusLost {
			continue
		}

		prob := StageProbability(lead.Status)
		confidence := prob * (0.5 + 0.5*lead.ScoreOrDefault()/100)
		expectedConversions += confidence

		if value > 0 {
			s.WeightedTotal += value * confidence
			s.BestCase += value
			if prob >= 0.5 {
				s.WorstCase += value * prob
			}
		}
	}

	s.WeightedTotal = round2(s.WeightedTotal)
	s.BestCase = round2(s.BestCase)
	s.WorstCase = round2(s.WorstCase)
	s.WonRevenue = round2(s.WonRevenue)
	s.ProjectedTotal = round2(s.WonRevenue + s.WeightedTotal)
	s.PredictedConversions = int(math.Round(expectedConversions))

	if monthlyTarget > 0 && !math.IsNaN(monthlyTarget) && !math.IsInf(monthlyTarget, 0) {
		pct := math.Round(s.ProjectedTotal / monthlyTarget * 100)
		s.TargetProgressPct = int(math.Min(100, math.Max(0, pct)))
	}

	return s
}

// safeValue guards every expected-value dereference: nil, NaN, Inf, and
// non-positive values all contribute zero.
func safeValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || *v <= 0 {
		return 0
	}
	return *v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatMoney formats a revenue amount in human-readable form.
func FormatMoney(amount float64) string {
	switch {
	case amount >= 1_000_000_000:
		return fmt.Sprintf("$%.1fB", amount/1_000_000_000)
	case amount >= 1_000_000:
		return fmt.Sprintf("$%.1fM", amount/1_000_000)
	case amount >= 1_000:
		return fmt.Sprintf("$%.0fK", amount/1_000)
	default:
		return fmt.Sprintf("$%.0f", amount)
	}
}
