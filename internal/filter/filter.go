// Package filter narrows a lead collection to the subset matching a
// structured filter specification.
package filter

import (
	"strings"
	"time"

	"github.com/clientry/leadintel/internal/model"
)

// Sentinel values for Spec fields. An empty string behaves like All.
const (
	All        = "all"
	Unassigned = "unassigned"
)

// Spec describes the active predicate. Every field at its zero or "all"
// value imposes no constraint; a Spec never matches nothing by default.
type Spec struct {
	Search      string     `json:"search,omitempty"`
	Status      string     `json:"status,omitempty"`
	Source      string     `json:"source,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"` // All, Unassigned, or an owner id
	Temperature string     `json:"temperature,omitempty"`
	Tags        []string   `json:"tags,omitempty"` // any-of; empty = no constraint
	ScoreMin    *float64   `json:"score_min,omitempty"`
	ScoreMax    *float64   `json:"score_max,omitempty"`
	CreatedFrom *time.Time `json:"created_from,omitempty"`
	CreatedTo   *time.Time `json:"created_to,omitempty"`
}

// predicates are evaluated as a conjunction; each one is a no-op at its
// no-constraint value.
var predicates = []func(model.Lead, Spec) bool{
	matchesSearch,
	matchesStatus,
	matchesSource,
	matchesAssignee,
	matchesTemperature,
	matchesTags,
	matchesScore,
	matchesDates,
}

// Apply returns the leads matching spec, preserving input order. The
// input slice is never mutated.
func Apply(leads []model.Lead, spec Spec) []model.Lead {
	out := make([]model.Lead, 0, len(leads))
	for _, lead := range leads {
		if Matches(lead, spec) {
			out = append(out, lead)
		}
	}
	return out
}

// Matches reports whether a single lead satisfies every predicate.
func Matches(lead model.Lead, spec Spec) bool {
	for _, pred := range predicates {
		if !pred(lead, spec) {
			return false
		}
	}
	return true
}

// matchesSearch does a case-insensitive substring match against name,
// email, phone, and the company attribute; ANY hit matches.
func matchesSearch(lead model.Lead, spec Spec) bool {
	term := strings.ToLower(strings.TrimSpace(spec.Search))
	if term == "" {
		return true
	}
	for _, field := range []string{lead.Name, lead.Email, lead.Phone, lead.Company()} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func matchesStatus(lead model.Lead, spec Spec) bool {
	if noConstraint(spec.Status) {
		return true
	}
	return strings.EqualFold(string(lead.Status), spec.Status)
}

func matchesSource(lead model.Lead, spec Spec) bool {
	if noConstraint(spec.Source) {
		return true
	}
	return strings.EqualFold(lead.Source, spec.Source)
}

// matchesAssignee treats Unassigned as "no owner set" and any other
// non-All value as an exact owner id match.
func matchesAssignee(lead model.Lead, spec Spec) bool {
	switch {
	case noConstraint(spec.AssignedTo):
		return true
	case strings.EqualFold(spec.AssignedTo, Unassigned):
		return lead.AssignedTo == ""
	default:
		return lead.AssignedTo == spec.AssignedTo
	}
}

func matchesTemperature(lead model.Lead, spec Spec) bool {
	if noConstraint(spec.Temperature) {
		return true
	}
	return strings.EqualFold(string(lead.Temperature), spec.Temperature)
}

// matchesTags uses OR semantics: any shared tag matches.
func matchesTags(lead model.Lead, spec Spec) bool {
	if len(spec.Tags) == 0 {
		return true
	}
	for _, want := range spec.Tags {
		for _, have := range lead.Tags {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

// matchesScore applies inclusive bounds. A nil bound is unbounded on
// that side; a lead without a score counts as 0.
func matchesScore(lead model.Lead, spec Spec) bool {
	if spec.ScoreMin == nil && spec.ScoreMax == nil {
		return true
	}
	score := 0.0
	if lead.Score != nil {
		score = *lead.Score
	}
	if spec.ScoreMin != nil && score < *spec.ScoreMin {
		return false
	}
	if spec.ScoreMax != nil && score > *spec.ScoreMax {
		return false
	}
	return true
}

// matchesDates applies inclusive bounds against CreatedAt. A lead with
// no creation timestamp is excluded once either bound is set.
func matchesDates(lead model.Lead, spec Spec) bool {
	if spec.CreatedFrom == nil && spec.CreatedTo == nil {
		return true
	}
	if !lead.CreatedAt.IsSet() {
		return false
	}
	created := lead.CreatedAt.Time
	if spec.CreatedFrom != nil && created.Before(*spec.CreatedFrom) {
		return false
	}
	if spec.CreatedTo != nil && created.After(*spec.CreatedTo) {
		return false
	}
	return true
}

func noConstraint(v string) bool {
	return v == "" || strings.EqualFold(v, All)
}
