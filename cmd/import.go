package main

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clientry/leadintel/internal/model"
)

var importCSVPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import leads from CSV into the store",
	Long: `Import leads from a CSV file with a header row. Recognized
columns: name, email, phone, status, source, assigned_to, temperature,
lead_score, tags (semicolon-separated), created_at, last_contacted,
expected_value, company. Unknown columns are ignored.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		f, err := os.Open(importCSVPath)
		if err != nil {
			return eris.Wrap(err, "import: open csv")
		}
		defer f.Close()

		r := csv.NewReader(f)
		header, err := r.Read()
		if err != nil {
			return eris.Wrap(err, "import: read header")
		}
		columns := headerIndex(header)

		var created int
		for {
			record, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return eris.Wrap(err, "import: read row")
			}

			lead, err := leadFromRecord(columns, record)
			if err != nil {
				return eris.Wrapf(err, "import: row %d", created+2)
			}
			if _, err := st.CreateLead(ctx, lead); err != nil {
				return eris.Wrapf(err, "import: create lead %q", lead.Email)
			}
			created++
		}

		zap.L().Info("import complete",
			zap.Int("created", created),
			zap.String("csv", importCSVPath),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importCSVPath, "csv", "", "path to CSV file (required)")
	_ = importCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(importCmd)
}

// headerIndex maps lowercased column names to their positions.
func headerIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return columns
}

// leadFromRecord builds a Lead from one CSV row. Missing and blank
// cells leave the corresponding field unset.
func leadFromRecord(columns map[string]int, record []string) (model.Lead, error) {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	lead := model.Lead{
		Name:       cell("name"),
		Email:      cell("email"),
		Phone:      cell("phone"),
		Source:     cell("source"),
		AssignedTo: cell("assigned_to"),
		Status:     model.StatusNew,
	}

	if status := strings.ToLower(cell("status")); status != "" {
		s := model.LeadStatus(status)
		if !s.Valid() {
			return model.Lead{}, eris.Errorf("invalid status %q", status)
		}
		lead.Status = s
	}

	if temp := strings.ToLower(cell("temperature")); temp != "" {
		lead.Temperature = model.Temperature(temp)
	}

	if raw := cell("lead_score"); raw != "" {
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Lead{}, eris.Wrap(err, "parse lead_score")
		}
		lead.Score = &score
	}

	if raw := cell("expected_value"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Lead{}, eris.Wrap(err, "parse expected_value")
		}
		lead.ExpectedValue = &value
	}

	if tags := cell("tags"); tags != "" {
		for _, t := range strings.Split(tags, ";") {
			if t = strings.TrimSpace(t); t != "" {
				lead.Tags = append(lead.Tags, t)
			}
		}
	}

	for column, field := range map[string]*model.Timestamp{
		"created_at":     &lead.CreatedAt,
		"last_contacted": &lead.LastContacted,
		"won_date":       &lead.WonDate,
	} {
		if raw := cell(column); raw != "" {
			ts, err := model.ParseTimestamp(raw)
			if err != nil {
				return model.Lead{}, eris.Wrapf(err, "parse %s", column)
			}
			*field = ts
		}
	}

	if company := cell("company"); company != "" {
		lead.Attributes = map[string]string{model.AttrCompany: company}
	}

	return lead, nil
}
