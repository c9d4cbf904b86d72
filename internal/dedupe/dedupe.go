// Package dedupe finds probable duplicate leads by combining identity
// signals into a single confidence estimate.
package dedupe

import (
	"math"
	"sort"
	"strings"

	"github.com/clientry/leadintel/internal/config"
	"github.com/clientry/leadintel/internal/model"
)

// Match pairs a candidate lead with an existing lead it probably
// duplicates. Matches are ephemeral; they are recomputed per check and
// never persisted.
type Match struct {
	Lead          model.Lead `json:"lead"`
	Confidence    float64    `json:"confidence"` // 0-100
	MatchedFields []string   `json:"matched_fields"`
}

// FindDuplicates checks candidate against every existing lead and
// returns probable duplicates ordered by descending confidence, ties
// broken by most recently created existing lead. A lead being edited
// never matches itself (same ID). An empty collection yields an empty
// result.
func FindDuplicates(candidate model.Lead, existing []model.Lead, cfg config.DedupeConfig) []Match {
	var matches []Match
	for _, lead := range existing {
		if candidate.ID != "" && lead.ID == candidate.ID {
			continue
		}
		if m, ok := compare(candidate, lead, cfg); ok {
			matches = append(matches, m)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		return matches[i].Lead.CreatedAt.Time.After(matches[j].Lead.CreatedAt.Time)
	})

	return matches
}

// compare evaluates every matching signal between two leads and
// combines the triggered ones. Signals combine via probabilistic OR
// (1 - product of miss probabilities) so simultaneous signals raise
// confidence without ever exceeding 100.
func compare(candidate, lead model.Lead, cfg config.DedupeConfig) (Match, bool) {
	var probs []float64
	var fields []string

	candEmail := strings.ToLower(strings.TrimSpace(candidate.Email))
	leadEmail := strings.ToLower(strings.TrimSpace(lead.Email))
	emailMatch := candEmail != "" && candEmail == leadEmail
	if emailMatch {
		probs = append(probs, cfg.EmailProb)
		fields = append(fields, "email")
	}

	candPhone := NormalizePhone(candidate.Phone, cfg.PhoneRegion)
	if candPhone != "" && candPhone == NormalizePhone(lead.Phone, cfg.PhoneRegion) {
		probs = append(probs, cfg.PhoneProb)
		fields = append(fields, "phone")
	}

	// Domain is a weak signal on its own; skip it when the full email
	// already matched.
	if !emailMatch {
		candDomain := emailDomain(candidate.Email)
		if candDomain != "" && candDomain == emailDomain(lead.Email) {
			probs = append(probs, cfg.DomainProb)
			fields = append(fields, "email_domain")
		}
	}

	if sim := NameSimilarity(candidate.Name, lead.Name); sim >= cfg.NameSimilarityMin {
		probs = append(probs, cfg.NameProbMax*sim)
		fields = append(fields, "name")
	}

	if len(probs) == 0 {
		return Match{}, false
	}

	confidence := math.Round(combine(probs)*100*100) / 100
	if confidence < cfg.MinConfidence {
		return Match{}, false
	}

	return Match{Lead: lead, Confidence: confidence, MatchedFields: fields}, true
}

// combine folds signal probabilities with probabilistic OR.
func combine(probs []float64) float64 {
	miss := 1.0
	for _, p := range probs {
		miss *= 1 - math.Min(1, math.Max(0, p))
	}
	return 1 - miss
}
