package scoring

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/clientry/leadintel/internal/config"
)

// DefaultConfig returns a config.ScoringConfig with the stock weights.
// Factor maxima sum to 100.
func DefaultConfig() config.ScoringConfig {
	return config.ScoringConfig{
		ProfileMax: 25,
		RecencyMax: 30,
		SourceMax:  20,
		StatusMax:  25,

		SourceQuality: map[string]float64{
			"referral":      1.0,
			"website":       0.7,
			"linkedin":      0.6,
			"event":         0.6,
			"advertisement": 0.5,
			"cold_outreach": 0.2,
		},
		UnknownSourceQuality: 0.4,
	}
}

// ConfigOrDefault fills a zero-valued scoring config with defaults.
// A config with any factor maximum set is used as-is.
func ConfigOrDefault(cfg config.ScoringConfig) config.ScoringConfig {
	if cfg.ProfileMax == 0 && cfg.RecencyMax == 0 && cfg.SourceMax == 0 && cfg.StatusMax == 0 {
		return DefaultConfig()
	}
	if cfg.SourceQuality == nil {
		cfg.SourceQuality = DefaultConfig().SourceQuality
	}
	return cfg
}

// WeightSum returns the sum of all factor maxima.
func WeightSum(c config.ScoringConfig) float64 {
	return c.ProfileMax + c.RecencyMax + c.SourceMax + c.StatusMax
}

// ValidateConfig checks that a ScoringConfig is internally consistent.
func ValidateConfig(c config.ScoringConfig) error {
	var errs []string

	maxima := map[string]float64{
		"profile_max": c.ProfileMax,
		"recency_max": c.RecencyMax,
		"source_max":  c.SourceMax,
		"status_max":  c.StatusMax,
	}
	for name, m := range maxima {
		if m < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	sum := WeightSum(c)
	if sum <= 0 {
		errs = append(errs, "factor maxima must sum to > 0")
	}
	if sum > 100 {
		errs = append(errs, fmt.Sprintf("factor maxima should sum to at most 100, got %.1f", sum))
	}

	for source, q := range c.SourceQuality {
		if q < 0 || q > 1 {
			errs = append(errs, fmt.Sprintf("source_quality[%s] must be between 0 and 1", source))
		}
	}
	if c.UnknownSourceQuality < 0 || c.UnknownSourceQuality > 1 {
		errs = append(errs, "unknown_source_quality must be between 0 and 1")
	}

	if len(errs) > 0 {
		return eris.Errorf("scoring: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
