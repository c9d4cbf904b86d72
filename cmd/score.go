package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/clientry/leadintel/internal/model"
	"github.com/clientry/leadintel/internal/scoring"
	"github.com/clientry/leadintel/internal/store"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score leads and classify temperature",
	Long: `Compute 0-100 lead scores from profile completeness, engagement
recency, source quality, and pipeline progression.

Examples:
  # Score one lead with the factor breakdown
  score --id 4f7c2a

  # Score every lead
  score --all

  # Rescore the whole store and persist scores + temperatures
  score --all --persist`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.String("id", "", "score a single lead by id")
	f.Bool("all", false, "score every lead in the store")
	f.Bool("persist", false, "write computed scores back to the store")
	f.Int("concurrency", 4, "persist workers when rescoring in bulk")
	f.String("format", "table", "output format (table|json)")
	rootCmd.AddCommand(scoreCmd)
}

// scoredLead pairs a lead with its scoring result for output.
type scoredLead struct {
	Lead   model.Lead     `json:"lead"`
	Result scoring.Result `json:"result"`
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	id, _ := cmd.Flags().GetString("id")
	all, _ := cmd.Flags().GetBool("all")
	if id == "" && !all {
		return eris.New("score: pass --id or --all")
	}

	if err := scoring.ValidateConfig(scoring.ConfigOrDefault(cfg.Scoring)); err != nil {
		return err
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	var leads []model.Lead
	if id != "" {
		lead, err := st.GetLead(ctx, id)
		if err != nil {
			return err
		}
		leads = []model.Lead{*lead}
	} else {
		if leads, err = st.ListLeads(ctx); err != nil {
			return err
		}
	}

	now := time.Now()
	scored := make([]scoredLead, len(leads))
	for i, lead := range leads {
		scored[i] = scoredLead{Lead: lead, Result: scoring.Score(lead, now, cfg.Scoring)}
	}

	if persist, _ := cmd.Flags().GetBool("persist"); persist {
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		if err := persistScores(ctx, st, scored, concurrency); err != nil {
			return err
		}
	}

	zap.L().Info("scoring complete", zap.Int("leads", len(scored)))

	format, _ := cmd.Flags().GetString("format")
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(scored), "score: encode json")
	}

	printScoreTable(os.Stdout, scored, id != "")
	return nil
}

// persistScores writes computed scores and temperatures back to the
// store with bounded concurrency.
func persistScores(ctx context.Context, st store.Store, scored []scoredLead, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range scored {
		s := scored[i]
		g.Go(func() error {
			lead := s.Lead
			total := s.Result.Total
			lead.Score = &total
			lead.Temperature = s.Result.Temperature
			if err := st.UpdateLead(ctx, lead); err != nil {
				return eris.Wrapf(err, "score: persist lead %s", lead.ID)
			}
			return nil
		})
	}
	return g.Wait()
}

func printScoreTable(out io.Writer, scored []scoredLead, withFactors bool) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tSCORE\tTEMP")
	for _, s := range scored {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.1f\t%s\n",
			shortID(s.Lead.ID), s.Lead.Name, s.Result.Total, s.Result.Temperature)
	}
	_ = w.Flush()

	if withFactors {
		for _, s := range scored {
			_, _ = fmt.Fprintln(out)
			fw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, f := range s.Result.Factors {
				_, _ = fmt.Fprintf(fw, "  %s\t%.1f / %.0f\n", f.Name, f.Points, f.MaxPoints)
			}
			_ = fw.Flush()
		}
	}
}
