package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clientry/leadintel/internal/filter"
	"github.com/clientry/leadintel/internal/model"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List leads with composable filters",
	Long: `List leads from the store, narrowed by any combination of filters.

Every filter defaults to "no constraint": omitting a flag (or passing
"all") never excludes anything.

Examples:
  # All new website leads
  leads --status new --source website

  # Unassigned hot leads tagged enterprise or priority
  leads --assigned unassigned --temperature hot --tags enterprise,priority

  # Mid-score band created this year
  leads --min-score 40 --max-score 70 --from 2026-01-01`,
	RunE: runLeads,
}

func init() {
	f := leadsCmd.Flags()
	f.String("search", "", "case-insensitive search over name, email, phone, company")
	f.String("status", filter.All, "pipeline status (new|contacted|qualified|won|lost|all)")
	f.String("source", filter.All, "acquisition channel or 'all'")
	f.String("assigned", filter.All, "owner id, 'unassigned', or 'all'")
	f.String("temperature", filter.All, "hot|warm|cold|all")
	f.String("tags", "", "comma-separated tags (any-of)")
	f.Float64("min-score", 0, "minimum lead score (inclusive)")
	f.Float64("max-score", 0, "maximum lead score (inclusive)")
	f.String("from", "", "created on or after (ISO date)")
	f.String("to", "", "created on or before (ISO date)")
	f.String("format", "table", "output format (table|json)")
	rootCmd.AddCommand(leadsCmd)
}

func runLeads(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	spec, err := filterSpecFromFlags(cmd)
	if err != nil {
		return err
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	leads, err := st.ListLeads(ctx)
	if err != nil {
		return err
	}

	matched := filter.Apply(leads, spec)
	zap.L().Debug("leads filtered",
		zap.Int("total", len(leads)),
		zap.Int("matched", len(matched)),
	)

	format, _ := cmd.Flags().GetString("format")
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(matched), "leads: encode json")
	}

	printLeadTable(os.Stdout, matched)
	return nil
}

// filterSpecFromFlags translates the leads flag set into a filter.Spec.
// Score bounds are only constrained when their flag was passed.
func filterSpecFromFlags(cmd *cobra.Command) (filter.Spec, error) {
	f := cmd.Flags()

	spec := filter.Spec{}
	spec.Search, _ = f.GetString("search")
	spec.Status, _ = f.GetString("status")
	spec.Source, _ = f.GetString("source")
	spec.AssignedTo, _ = f.GetString("assigned")
	spec.Temperature, _ = f.GetString("temperature")

	if tags, _ := f.GetString("tags"); tags != "" {
		spec.Tags = splitTags(tags)
	}

	if f.Changed("min-score") {
		v, _ := f.GetFloat64("min-score")
		spec.ScoreMin = &v
	}
	if f.Changed("max-score") {
		v, _ := f.GetFloat64("max-score")
		spec.ScoreMax = &v
	}

	if from, _ := f.GetString("from"); from != "" {
		ts, err := model.ParseTimestamp(from)
		if err != nil {
			return filter.Spec{}, eris.Wrap(err, "leads: parse --from")
		}
		spec.CreatedFrom = &ts.Time
	}
	if to, _ := f.GetString("to"); to != "" {
		ts, err := model.ParseTimestamp(to)
		if err != nil {
			return filter.Spec{}, eris.Wrap(err, "leads: parse --to")
		}
		spec.CreatedTo = &ts.Time
	}

	return spec, nil
}

// splitTags parses a comma-separated tag list, dropping blanks.
func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func printLeadTable(out io.Writer, leads []model.Lead) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSTATUS\tSOURCE\tSCORE\tTEMP\tASSIGNED")
	for _, l := range leads {
		score := "-"
		if l.Score != nil {
			score = fmt.Sprintf("%.0f", *l.Score)
		}
		assigned := l.AssignedTo
		if assigned == "" {
			assigned = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(l.ID), l.Name, l.Email, l.Status, l.Source, score, l.Temperature, assigned)
	}
	_ = w.Flush()
	_, _ = fmt.Fprintf(out, "\n%d lead(s)\n", len(leads))
}

// shortID truncates UUIDs for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
