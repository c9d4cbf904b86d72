package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/clientry/leadintel/internal/filter"
	"github.com/clientry/leadintel/internal/nextaction"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "Suggest the next best outreach actions",
	Long: `Rank the pipeline and suggest the top outreach actions, most
urgent first. Won and lost leads are skipped; at most five suggestions
are produced per run.

The same filter flags as 'leads' narrow the pipeline before ranking,
e.g. 'actions --assigned rep-42'.`,
	RunE: runActions,
}

func init() {
	f := actionsCmd.Flags()
	f.String("search", "", "case-insensitive search over name, email, phone, company")
	f.String("status", filter.All, "pipeline status or 'all'")
	f.String("source", filter.All, "acquisition channel or 'all'")
	f.String("assigned", filter.All, "owner id, 'unassigned', or 'all'")
	f.String("temperature", filter.All, "hot|warm|cold|all")
	f.String("tags", "", "comma-separated tags (any-of)")
	f.Float64("min-score", 0, "minimum lead score (inclusive)")
	f.Float64("max-score", 0, "maximum lead score (inclusive)")
	f.String("from", "", "created on or after (ISO date)")
	f.String("to", "", "created on or before (ISO date)")
	f.String("format", "table", "output format (table|json)")
	rootCmd.AddCommand(actionsCmd)
}

func runActions(cmd *cobra.Command, _ []string) error {
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

	suggestions := nextaction.Rank(filter.Apply(leads, spec), time.Now())

	format, _ := cmd.Flags().GetString("format")
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(suggestions), "actions: encode json")
	}

	printActionTable(os.Stdout, suggestions)
	return nil
}

func printActionTable(out io.Writer, suggestions []nextaction.Suggestion) {
	if len(suggestions) == 0 {
		_, _ = fmt.Fprintln(out, "nothing to suggest, pipeline looks covered")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PRIORITY\tACTION\tLEAD\tREASON")
	for _, s := range suggestions {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			s.Priority, s.Action, s.Lead.Name, s.Reason)
	}
	_ = w.Flush()
}
