// Package scoring computes 0-100 lead scores and hot/warm/cold
// temperature classifications from lead attributes.
package scoring

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/clientry/leadintel/internal/config"
	"github.com/clientry/leadintel/internal/model"
)

// Temperature thresholds. A score at or above HotThreshold is hot, at or
// above WarmThreshold is warm, everything below is cold.
const (
	HotThreshold  = 70
	WarmThreshold = 40
)

// Factor is one independent contribution to a lead's score.
type Factor struct {
	Name      string  `json:"name"`
	Points    float64 `json:"points"`
	MaxPoints float64 `json:"max_points"`
}

// Result holds the scoring outcome for a single lead.
type Result struct {
	Total       float64           `json:"total"`
	Temperature model.Temperature `json:"temperature"`
	Factors     []Factor          `json:"factors"`
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Score computes a lead's score as the sum of independent capped factor
// contributions. It is a pure function of the lead's fields and the
// given reference time; missing fields contribute zero.
func Score(lead model.Lead, now time.Time, cfg config.ScoringConfig) Result {
	cfg = ConfigOrDefault(cfg)

	factors := []Factor{
		profileFactor(lead, cfg),
		recencyFactor(lead, now, cfg),
		sourceFactor(lead, cfg),
		statusFactor(lead, cfg),
	}

	var total float64
	for _, f := range factors {
		total += f.Points
	}
	total = math.Min(100, math.Max(0, total))
	total = math.Round(total*100) / 100

	return Result{
		Total:       total,
		Temperature: TemperatureFor(total),
		Factors:     factors,
	}
}

// TemperatureFor maps a score to its temperature band.
func TemperatureFor(score float64) model.Temperature {
	switch {
	case score >= HotThreshold:
		return model.TemperatureHot
	case score >= WarmThreshold:
		return model.TemperatureWarm
	default:
		return model.TemperatureCold
	}
}

// profileFactor rewards contact completeness: a valid email, a phone
// number, and a known company.
func profileFactor(lead model.Lead, cfg config.ScoringConfig) Factor {
	var share float64
	if emailPattern.MatchString(strings.TrimSpace(lead.Email)) {
		share += 0.4
	}
	if strings.TrimSpace(lead.Phone) != "" {
		share += 0.3
	}
	if strings.TrimSpace(lead.Company()) != "" {
		share += 0.3
	}
	return Factor{
		Name:      "profile_completeness",
		Points:    round2(share * cfg.ProfileMax),
		MaxPoints: cfg.ProfileMax,
	}
}

// recencyFactor decays with days since last contact. A lead never
// contacted gets the minimum, not an error.
func recencyFactor(lead model.Lead, now time.Time, cfg config.ScoringConfig) Factor {
	f := Factor{Name: "engagement_recency", MaxPoints: cfg.RecencyMax}
	if !lead.LastContacted.IsSet() {
		return f
	}

	days := now.Sub(lead.LastContacted.Time).Hours() / 24
	var share float64
	switch {
	case days < 0:
		share = 1.0 // future timestamp, treat as just contacted
	case days <= 1:
		share = 1.0
	case days <= 3:
		share = 0.8
	case days <= 7:
		share = 0.6
	case days <= 14:
		share = 0.4
	case days <= 30:
		share = 0.2
	default:
		share = 0
	}
	f.Points = round2(share * cfg.RecencyMax)
	return f
}

// sourceFactor rewards higher-quality acquisition channels.
func sourceFactor(lead model.Lead, cfg config.ScoringConfig) Factor {
	f := Factor{Name: "source_quality", MaxPoints: cfg.SourceMax}
	source := strings.ToLower(strings.TrimSpace(lead.Source))
	if source == "" {
		return f
	}

	quality, ok := cfg.SourceQuality[source]
	if !ok {
		quality = cfg.UnknownSourceQuality
	}
	f.Points = round2(math.Min(1, math.Max(0, quality)) * cfg.SourceMax)
	return f
}

// statusFactor rewards pipeline progression: new < contacted < qualified.
func statusFactor(lead model.Lead, cfg config.ScoringConfig) Factor {
	var share float64
	switch lead.Status {
	case model.StatusNew:
		share = 0.2
	case model.StatusContacted:
		share = 0.6
	case model.StatusQualified, model.StatusWon:
		share = 1.0
	case model.StatusLost:
		share = 0
	}
	return Factor{
		Name:      "status_progression",
		Points:    round2(share * cfg.StatusMax),
		MaxPoints: cfg.StatusMax,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
