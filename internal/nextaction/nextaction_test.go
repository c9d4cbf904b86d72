package nextaction

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientry/leadintel/internal/model"
)

var testNow = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

func ptr(v float64) *float64 { return &v }

func contacted(daysAgo int) model.Timestamp {
	return model.NewTimestamp(testNow.AddDate(0, 0, -daysAgo))
}

func TestRankHotLeadGetsUrgentCall(t *testing.T) {
	leads := []model.Lead{{
		ID:            "1",
		Status:        model.StatusContacted,
		Temperature:   model.TemperatureHot,
		LastContacted: contacted(4),
	}}

	got := Rank(leads, testNow)

	require.Len(t, got, 1)
	assert.Equal(t, ActionCall, got[0].Action)
	assert.Equal(t, PriorityUrgent, got[0].Priority)
	assert.Contains(t, got[0].Reason, "hot lead")
}

func TestRankHighScoreWithoutTemperature(t *testing.T) {
	// No stored temperature; the score alone drives the urgent rule.
	leads := []model.Lead{{
		ID:            "1",
		Status:        model.StatusContacted,
		Score:         ptr(85),
		LastContacted: contacted(10),
	}}

	got := Rank(leads, testNow)

	require.Len(t, got, 1)
	assert.Equal(t, PriorityUrgent, got[0].Priority)
	assert.Equal(t, ActionCall, got[0].Action)
}

func TestRankNewLeadChannelDependsOnPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  ActionKind
	}{
		{"with phone", "+1 650 253 0000", ActionWhatsApp},
		{"without phone", "", ActionEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leads := []model.Lead{{
				ID:     "1",
				Status: model.StatusNew,
				Score:  ptr(20),
				Phone:  tt.phone,
			}}

			got := Rank(leads, testNow)

			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Action)
			assert.Equal(t, PriorityHigh, got[0].Priority)
		})
	}
}

func TestRankQualifiedLeadGetsMeeting(t *testing.T) {
	leads := []model.Lead{{
		ID:            "1",
		Status:        model.StatusQualified,
		Score:         ptr(55),
		LastContacted: contacted(6),
	}}

	got := Rank(leads, testNow)

	require.Len(t, got, 1)
	assert.Equal(t, ActionMeeting, got[0].Action)
	assert.Equal(t, PriorityHigh, got[0].Priority)
}

func TestRankStaleContactedLead(t *testing.T) {
	leads := []model.Lead{{
		ID:            "1",
		Status:        model.StatusContacted,
		Score:         ptr(50),
		LastContacted: contacted(9),
	}}

	got := Rank(leads, testNow)

	require.Len(t, got, 1)
	assert.Equal(t, ActionEmail, got[0].Action)
	assert.Equal(t, PriorityMedium, got[0].Priority)
}

func TestRankColdReengagement(t *testing.T) {
	// No pipeline status set, so none of the status rules apply and the
	// cold re-engagement rule is the one that fires.
	leads := []model.Lead{{
		ID:            "1",
		Temperature:   model.TemperatureCold,
		Score:         ptr(35),
		LastContacted: contacted(20),
	}}

	got := Rank(leads, testNow)

	require.Len(t, got, 1)
	assert.Equal(t, ActionWhatsApp, got[0].Action)
	assert.Equal(t, PriorityMedium, got[0].Priority)
}

func TestRankColdLowScoreSkipped(t *testing.T) {
	leads := []model.Lead{{
		ID:            "1",
		Temperature:   model.TemperatureCold,
		Score:         ptr(20),
		LastContacted: contacted(20),
	}}

	assert.Empty(t, Rank(leads, testNow))
}

func TestRankTerminalLeadsSkipped(t *testing.T) {
	leads := []model.Lead{
		{ID: "1", Status: model.StatusWon, Temperature: model.TemperatureHot},
		{ID: "2", Status: model.StatusLost, Temperature: model.TemperatureHot},
	}

	assert.Empty(t, Rank(leads, testNow))
}

func TestRankRecentlyTouchedLeadSkipped(t *testing.T) {
	leads := []model.Lead{{
		ID:            "1",
		Status:        model.StatusContacted,
		Temperature:   model.TemperatureHot,
		Score:         ptr(90),
		LastContacted: contacted(1),
	}}

	assert.Empty(t, Rank(leads, testNow))
}

func TestRankFirstMatchingRuleWins(t *testing.T) {
	// Hot and qualified and stale: the hot rule fires, not the meeting
	// rule further down.
	leads := []model.Lead{{
		ID:            "1",
		Status:        model.StatusQualified,
		Temperature:   model.TemperatureHot,
		LastContacted: contacted(8),
	}}

	got := Rank(leads, testNow)

	require.Len(t, got, 1)
	assert.Equal(t, ActionCall, got[0].Action)
	assert.Equal(t, PriorityUrgent, got[0].Priority)
}

func TestRankNeverContactedTriggersThresholds(t *testing.T) {
	leads := []model.Lead{{
		ID:          "1",
		Status:      model.StatusContacted,
		Temperature: model.TemperatureHot,
	}}

	got := Rank(leads, testNow)

	require.Len(t, got, 1)
	assert.Contains(t, got[0].Reason, "never contacted")
}

func TestRankOrdersByPriorityAndCaps(t *testing.T) {
	var leads []model.Lead
	// Three medium suggestions first, then three urgent ones.
	for i := 0; i < 3; i++ {
		leads = append(leads, model.Lead{
			ID:            fmt.Sprintf("medium-%d", i),
			Status:        model.StatusContacted,
			Score:         ptr(50),
			LastContacted: contacted(9),
		})
	}
	for i := 0; i < 3; i++ {
		leads = append(leads, model.Lead{
			ID:            fmt.Sprintf("urgent-%d", i),
			Status:        model.StatusContacted,
			Temperature:   model.TemperatureHot,
			LastContacted: contacted(5),
		})
	}

	got := Rank(leads, testNow)

	require.Len(t, got, MaxSuggestions)
	assert.Equal(t, "urgent-0", got[0].Lead.ID)
	assert.Equal(t, "urgent-1", got[1].Lead.ID)
	assert.Equal(t, "urgent-2", got[2].Lead.ID)
	// Within a tier, input order is preserved.
	assert.Equal(t, "medium-0", got[3].Lead.ID)
	assert.Equal(t, "medium-1", got[4].Lead.ID)
}
