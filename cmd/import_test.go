package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientry/leadintel/internal/model"
)

func TestHeaderIndex(t *testing.T) {
	columns := headerIndex([]string{"Name", " EMAIL ", "lead_score"})

	assert.Equal(t, 0, columns["name"])
	assert.Equal(t, 1, columns["email"])
	assert.Equal(t, 2, columns["lead_score"])
}

func TestLeadFromRecord(t *testing.T) {
	columns := headerIndex([]string{
		"name", "email", "phone", "status", "source", "assigned_to",
		"lead_score", "tags", "created_at", "expected_value", "company",
	})

	lead, err := leadFromRecord(columns, []string{
		"Jane Smith", "jane@acme.com", "+1 650 253 0000", "qualified",
		"referral", "alice", "72.5", "enterprise; emea", "2026-03-01",
		"10000", "Acme Corp",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane Smith", lead.Name)
	assert.Equal(t, "jane@acme.com", lead.Email)
	assert.Equal(t, model.StatusQualified, lead.Status)
	assert.Equal(t, "referral", lead.Source)
	assert.Equal(t, "alice", lead.AssignedTo)
	require.NotNil(t, lead.Score)
	assert.InDelta(t, 72.5, *lead.Score, 0.01)
	assert.Equal(t, []string{"enterprise", "emea"}, lead.Tags)
	assert.Equal(t, 2026, lead.CreatedAt.Time.Year())
	require.NotNil(t, lead.ExpectedValue)
	assert.InDelta(t, 10000, *lead.ExpectedValue, 0.01)
	assert.Equal(t, "Acme Corp", lead.Company())
}

func TestLeadFromRecordDefaults(t *testing.T) {
	columns := headerIndex([]string{"name"})

	lead, err := leadFromRecord(columns, []string{"Jane Smith"})
	require.NoError(t, err)

	assert.Equal(t, model.StatusNew, lead.Status)
	assert.Nil(t, lead.Score)
	assert.Nil(t, lead.ExpectedValue)
	assert.False(t, lead.CreatedAt.IsSet())
	assert.Empty(t, lead.Tags)
}

func TestLeadFromRecordErrors(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		record []string
	}{
		{"invalid status", []string{"name", "status"}, []string{"x", "maybe"}},
		{"bad score", []string{"name", "lead_score"}, []string{"x", "high"}},
		{"bad value", []string{"name", "expected_value"}, []string{"x", "1k"}},
		{"bad timestamp", []string{"name", "created_at"}, []string{"x", "yesterday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := leadFromRecord(headerIndex(tt.header), tt.record)
			assert.Error(t, err)
		})
	}
}

func TestLeadFromRecordShortRow(t *testing.T) {
	columns := headerIndex([]string{"name", "email", "phone"})

	// Row shorter than the header leaves trailing fields unset.
	lead, err := leadFromRecord(columns, []string{"Jane Smith"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", lead.Name)
	assert.Empty(t, lead.Email)
}
