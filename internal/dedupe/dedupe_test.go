package dedupe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientry/leadintel/internal/config"
	"github.com/clientry/leadintel/internal/model"
)

func testConfig() config.DedupeConfig {
	return config.DedupeConfig{
		EmailProb:         0.97,
		PhoneProb:         0.85,
		DomainProb:        0.30,
		NameProbMax:       0.60,
		NameSimilarityMin: 0.82,
		MinConfidence:     30,
		PhoneRegion:       "US",
	}
}

func created(year, month, day int) model.Timestamp {
	return model.NewTimestamp(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC))
}

func TestFindDuplicatesEmailMatch(t *testing.T) {
	candidate := model.Lead{Name: "Jane Smith", Email: "Jane@Acme.com"}
	existing := []model.Lead{
		{ID: "a", Name: "J. Smith", Email: "jane@acme.com"},
	}

	matches := FindDuplicates(candidate, existing, testConfig())

	require.Len(t, matches, 1)
	assert.GreaterOrEqual(t, matches[0].Confidence, 95.0)
	assert.Contains(t, matches[0].MatchedFields, "email")
}

func TestFindDuplicatesSelfExcluded(t *testing.T) {
	lead := model.Lead{ID: "a", Name: "Jane Smith", Email: "jane@acme.com"}
	matches := FindDuplicates(lead, []model.Lead{lead}, testConfig())
	assert.Empty(t, matches)
}

func TestFindDuplicatesEmptyCollection(t *testing.T) {
	candidate := model.Lead{Name: "Jane Smith", Email: "jane@acme.com"}
	assert.Empty(t, FindDuplicates(candidate, nil, testConfig()))
}

func TestFindDuplicatesCombinedSignals(t *testing.T) {
	candidate := model.Lead{
		Name:  "Jane Smith",
		Email: "jane@acme.com",
		Phone: "+1 650 253 0000",
	}
	existing := []model.Lead{{
		ID:    "a",
		Name:  "Jane Smith",
		Email: "jane@acme.com",
		Phone: "(650) 253-0000",
	}}

	matches := FindDuplicates(candidate, existing, testConfig())

	require.Len(t, matches, 1)
	m := matches[0]
	assert.ElementsMatch(t, []string{"email", "phone", "name"}, m.MatchedFields)
	// Every signal firing must raise confidence above any single signal
	// without exceeding 100.
	assert.Greater(t, m.Confidence, 97.0)
	assert.LessOrEqual(t, m.Confidence, 100.0)
}

func TestFindDuplicatesDomainOnly(t *testing.T) {
	candidate := model.Lead{Name: "Priya Nair", Email: "priya@acme.com"}
	existing := []model.Lead{
		{ID: "a", Name: "Tom Becker", Email: "tom@acme.com"},
	}

	matches := FindDuplicates(candidate, existing, testConfig())

	require.Len(t, matches, 1)
	assert.Equal(t, []string{"email_domain"}, matches[0].MatchedFields)
	assert.InDelta(t, 30, matches[0].Confidence, 0.01)
}

func TestFindDuplicatesDomainSkippedOnEmailMatch(t *testing.T) {
	candidate := model.Lead{Email: "jane@acme.com"}
	existing := []model.Lead{{ID: "a", Email: "jane@acme.com"}}

	matches := FindDuplicates(candidate, existing, testConfig())

	require.Len(t, matches, 1)
	assert.NotContains(t, matches[0].MatchedFields, "email_domain")
}

func TestFindDuplicatesNameBelowSimilarityFloor(t *testing.T) {
	candidate := model.Lead{Name: "Jane Smith"}
	existing := []model.Lead{{ID: "a", Name: "Carlos Mendez"}}

	assert.Empty(t, FindDuplicates(candidate, existing, testConfig()))
}

func TestFindDuplicatesBelowMinConfidenceDropped(t *testing.T) {
	cfg := testConfig()
	cfg.MinConfidence = 70

	candidate := model.Lead{Name: "Jane Smith"}
	existing := []model.Lead{{ID: "a", Name: "Jane Smith"}}

	// Exact name alone scores NameProbMax, well under the raised floor.
	assert.Empty(t, FindDuplicates(candidate, existing, cfg))
}

func TestFindDuplicatesOrdering(t *testing.T) {
	candidate := model.Lead{Name: "Jane Smith", Email: "jane@acme.com", Phone: "+1 650 253 0000"}
	existing := []model.Lead{
		{ID: "weak", Name: "Jane Smith", CreatedAt: created(2026, 1, 1)},
		{ID: "strong", Email: "jane@acme.com", Phone: "650 253 0000", CreatedAt: created(2025, 6, 1)},
		{ID: "old-tie", Name: "Jane Smith", CreatedAt: created(2024, 3, 1)},
	}

	matches := FindDuplicates(candidate, existing, testConfig())

	require.Len(t, matches, 3)
	assert.Equal(t, "strong", matches[0].Lead.ID)
	// Equal-confidence matches order by most recently created lead.
	assert.Equal(t, "weak", matches[1].Lead.ID)
	assert.Equal(t, "old-tie", matches[2].Lead.ID)
}

func TestCombine(t *testing.T) {
	assert.InDelta(t, 0.97, combine([]float64{0.97}), 0.0001)
	assert.InDelta(t, 0.9955, combine([]float64{0.97, 0.85}), 0.0001)
	assert.LessOrEqual(t, combine([]float64{1.0, 0.85}), 1.0)
	assert.Zero(t, combine(nil))
}
