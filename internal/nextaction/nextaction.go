// Package nextaction derives prioritized outreach suggestions from the
// lead pipeline using temporal and state heuristics.
package nextaction

import (
	"fmt"
	"sort"
	"time"

	"github.com/clientry/leadintel/internal/model"
	"github.com/clientry/leadintel/internal/scoring"
)

// ActionKind is the recommended outreach channel.
type ActionKind string

const (
	ActionCall     ActionKind = "call"
	ActionEmail    ActionKind = "email"
	ActionWhatsApp ActionKind = "whatsapp"
	ActionMeeting  ActionKind = "meeting"
	ActionTask     ActionKind = "task"
)

// Priority is the urgency tier of a suggestion.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

// priorityRank orders tiers for sorting; lower rank sorts first.
var priorityRank = map[Priority]int{
	PriorityUrgent: 0,
	PriorityHigh:   1,
	PriorityMedium: 2,
}

// MaxSuggestions caps the ranked output.
const MaxSuggestions = 5

// neverContactedDays stands in for "never contacted" so threshold rules
// trivially trigger for leads without a contact timestamp.
const neverContactedDays = 1 << 20

// Suggestion pairs a lead with its single recommended next action.
// Suggestions are derived per invocation and never persisted.
type Suggestion struct {
	Lead     model.Lead `json:"lead"`
	Action   ActionKind `json:"action"`
	Reason   string     `json:"reason"`
	Priority Priority   `json:"priority"`
}

// Rank produces at most MaxSuggestions suggestions, highest priority
// first. Leads in terminal states are skipped, each remaining lead
// yields at most one suggestion, and relative input order is preserved
// within a priority tier.
func Rank(leads []model.Lead, now time.Time) []Suggestion {
	var out []Suggestion
	for _, lead := range leads {
		if lead.Status.Terminal() {
			continue
		}
		if s, ok := suggest(lead, now); ok {
			out = append(out, s)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return priorityRank[out[i].Priority] < priorityRank[out[j].Priority]
	})

	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

// suggest evaluates the priority rules in order; the first matching
// rule wins.
func suggest(lead model.Lead, now time.Time) (Suggestion, bool) {
	days := daysSinceContact(lead, now)
	score := lead.ScoreOrDefault()
	temp := lead.Temperature
	if temp == "" {
		temp = scoring.TemperatureFor(score)
	}

	switch {
	case temp == model.TemperatureHot && days >= 3:
		return Suggestion{
			Lead:     lead,
			Action:   ActionCall,
			Reason:   fmt.Sprintf("hot lead %s", sinceContact(days)),
			Priority: PriorityUrgent,
		}, true

	case score >= 70 && days >= 7:
		return Suggestion{
			Lead:     lead,
			Action:   ActionCall,
			Reason:   fmt.Sprintf("high-score lead (%.0f) %s", score, sinceContact(days)),
			Priority: PriorityUrgent,
		}, true

	case lead.Status == model.StatusNew && days > 1:
		action := ActionEmail
		if lead.Phone != "" {
			action = ActionWhatsApp
		}
		return Suggestion{
			Lead:     lead,
			Action:   action,
			Reason:   "new lead awaiting first outreach",
			Priority: PriorityHigh,
		}, true

	case lead.Status == model.StatusQualified && days >= 5:
		return Suggestion{
			Lead:     lead,
			Action:   ActionMeeting,
			Reason:   fmt.Sprintf("qualified lead %s, propose a meeting", sinceContact(days)),
			Priority: PriorityHigh,
		}, true

	case lead.Status == model.StatusContacted && days >= 7:
		return Suggestion{
			Lead:     lead,
			Action:   ActionEmail,
			Reason:   fmt.Sprintf("contacted lead going stale, %s", sinceContact(days)),
			Priority: PriorityMedium,
		}, true

	case temp == model.TemperatureCold && days >= 14 && score >= 30:
		return Suggestion{
			Lead:     lead,
			Action:   ActionWhatsApp,
			Reason:   "cold lead worth a re-engagement nudge",
			Priority: PriorityMedium,
		}, true
	}

	return Suggestion{}, false
}

// daysSinceContact returns whole days since last contact, or a large
// sentinel when the lead was never contacted.
func daysSinceContact(lead model.Lead, now time.Time) int {
	if !lead.LastContacted.IsSet() {
		return neverContactedDays
	}
	days := int(now.Sub(lead.LastContacted.Time).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func sinceContact(days int) string {
	if days >= neverContactedDays {
		return "never contacted"
	}
	return fmt.Sprintf("not contacted in %d days", days)
}
