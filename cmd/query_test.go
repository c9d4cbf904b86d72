package main

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterSpecFromQuery(t *testing.T) {
	q := url.Values{}
	q.Set("search", "acme")
	q.Set("status", "qualified")
	q.Set("assigned", "unassigned")
	q.Set("tags", "enterprise,emea")
	q.Set("min_score", "40")
	q.Set("max_score", "70")
	q.Set("from", "2026-01-01")
	q.Set("to", "2026-06-30")

	spec, err := filterSpecFromQuery(q)
	require.NoError(t, err)

	assert.Equal(t, "acme", spec.Search)
	assert.Equal(t, "qualified", spec.Status)
	assert.Equal(t, "unassigned", spec.AssignedTo)
	assert.Equal(t, []string{"enterprise", "emea"}, spec.Tags)
	require.NotNil(t, spec.ScoreMin)
	assert.InDelta(t, 40, *spec.ScoreMin, 0.01)
	require.NotNil(t, spec.ScoreMax)
	assert.InDelta(t, 70, *spec.ScoreMax, 0.01)
	require.NotNil(t, spec.CreatedFrom)
	assert.Equal(t, time.January, spec.CreatedFrom.Month())
	require.NotNil(t, spec.CreatedTo)
	assert.Equal(t, time.June, spec.CreatedTo.Month())
}

func TestFilterSpecFromQueryEmpty(t *testing.T) {
	spec, err := filterSpecFromQuery(url.Values{})
	require.NoError(t, err)

	assert.Empty(t, spec.Search)
	assert.Nil(t, spec.ScoreMin)
	assert.Nil(t, spec.CreatedFrom)
	assert.Empty(t, spec.Tags)
}

func TestFilterSpecFromQueryInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad min score", "min_score", "forty"},
		{"bad max score", "max_score", "++"},
		{"bad from date", "from", "last week"},
		{"bad to date", "to", "2026-13-99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := url.Values{}
			q.Set(tt.key, tt.value)
			_, err := filterSpecFromQuery(q)
			assert.Error(t, err)
		})
	}
}
