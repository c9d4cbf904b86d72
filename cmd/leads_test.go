package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clientry/leadintel/internal/model"
)

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single", "enterprise", []string{"enterprise"}},
		{"multiple", "enterprise,emea", []string{"enterprise", "emea"}},
		{"whitespace trimmed", " enterprise , emea ", []string{"enterprise", "emea"}},
		{"empty segments dropped", "a,,b,", []string{"a", "b"}},
		{"empty input", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitTags(tt.in))
		})
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "828aa318", shortID("828aa318-41d4-4a52-9b74-97f3a7a0f2d1"))
	assert.Equal(t, "lead-42", shortID("lead-42"))
	assert.Equal(t, "", shortID(""))
}

func TestPrintLeadTable(t *testing.T) {
	score := 72.5
	var buf bytes.Buffer
	printLeadTable(&buf, []model.Lead{{
		ID:     "828aa318-41d4-4a52-9b74-97f3a7a0f2d1",
		Name:   "Jane Smith",
		Email:  "jane@acme.com",
		Status: model.StatusQualified,
		Score:  &score,
	}})

	out := buf.String()
	assert.Contains(t, out, "828aa318")
	assert.NotContains(t, out, "828aa318-41d4")
	assert.Contains(t, out, "Jane Smith")
	assert.Contains(t, out, "qualified")
}
