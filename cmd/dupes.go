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

	"github.com/clientry/leadintel/internal/dedupe"
	"github.com/clientry/leadintel/internal/model"
)

var dupesCmd = &cobra.Command{
	Use:   "dupes",
	Short: "Find probable duplicates of a lead",
	Long: `Check a candidate lead against the store and report probable
duplicates with confidence percentages and the matched fields.

The candidate is either an existing lead (--id, which never matches
itself) or an ad-hoc contact given with --email/--name/--phone.

Examples:
  # Would this signup collide with an existing lead?
  dupes --email jane@acme.com --name "Jane Smith"

  # Re-check an existing lead after an edit
  dupes --id 4f7c2a`,
	RunE: runDupes,
}

func init() {
	f := dupesCmd.Flags()
	f.String("id", "", "existing lead id to check")
	f.String("email", "", "candidate email")
	f.String("name", "", "candidate name")
	f.String("phone", "", "candidate phone")
	f.String("format", "table", "output format (table|json)")
	rootCmd.AddCommand(dupesCmd)
}

func runDupes(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	f := cmd.Flags()

	id, _ := f.GetString("id")
	email, _ := f.GetString("email")
	name, _ := f.GetString("name")
	phone, _ := f.GetString("phone")

	if id == "" && email == "" && name == "" && phone == "" {
		return eris.New("dupes: pass --id or at least one of --email/--name/--phone")
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	var candidate model.Lead
	if id != "" {
		lead, err := st.GetLead(ctx, id)
		if err != nil {
			return err
		}
		candidate = *lead
	} else {
		candidate = model.Lead{Email: email, Name: name, Phone: phone}
	}

	existing, err := st.ListLeads(ctx)
	if err != nil {
		return err
	}

	matches := dedupe.FindDuplicates(candidate, existing, cfg.Dedupe)
	zap.L().Info("duplicate check complete",
		zap.String("candidate", candidate.ID),
		zap.Int("checked", len(existing)),
		zap.Int("matches", len(matches)),
	)

	format, _ := f.GetString("format")
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(matches), "dupes: encode json")
	}

	printMatchTable(os.Stdout, matches)
	return nil
}

func printMatchTable(out io.Writer, matches []dedupe.Match) {
	if len(matches) == 0 {
		_, _ = fmt.Fprintln(out, "no probable duplicates")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCONFIDENCE\tMATCHED")
	for _, m := range matches {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%.0f%%\t%s\n",
			shortID(m.Lead.ID), m.Lead.Name, m.Lead.Email,
			m.Confidence, strings.Join(m.MatchedFields, ","))
	}
	_ = w.Flush()
}
