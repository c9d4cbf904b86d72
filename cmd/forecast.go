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

	"github.com/clientry/leadintel/internal/forecast"
	"github.com/clientry/leadintel/internal/model"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project pipeline revenue for the current month",
	Long: `Aggregate expected deal values into a weighted revenue
projection, with best/worst cases and progress against the monthly
target.

Examples:
  forecast --target 250000
  forecast --format json`,
	RunE: runForecast,
}

func init() {
	f := forecastCmd.Flags()
	f.Float64("target", 0, "monthly revenue target (default from config)")
	f.String("format", "table", "output format (table|json)")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	leads, err := st.ListLeads(ctx)
	if err != nil {
		return err
	}

	target, _ := cmd.Flags().GetFloat64("target")
	if target == 0 {
		target = cfg.Forecast.MonthlyTarget
	}

	summary := forecast.Project(leads, target, time.Now())

	format, _ := cmd.Flags().GetString("format")
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(summary), "forecast: encode json")
	}

	printForecast(os.Stdout, summary, target)
	return nil
}

func printForecast(out io.Writer, s forecast.Summary, target float64) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Weighted pipeline:\t%s\n", forecast.FormatMoney(s.WeightedTotal))
	_, _ = fmt.Fprintf(w, "Best case:\t%s\n", forecast.FormatMoney(s.BestCase))
	_, _ = fmt.Fprintf(w, "Worst case:\t%s\n", forecast.FormatMoney(s.WorstCase))
	_, _ = fmt.Fprintf(w, "Won this month:\t%s\n", forecast.FormatMoney(s.WonRevenue))
	_, _ = fmt.Fprintf(w, "Projected total:\t%s\n", forecast.FormatMoney(s.ProjectedTotal))
	if target > 0 {
		_, _ = fmt.Fprintf(w, "Target progress:\t%d%% of %s\n", s.TargetProgressPct, forecast.FormatMoney(target))
	}
	_, _ = fmt.Fprintf(w, "Predicted conversions:\t%d\n", s.PredictedConversions)
	_ = w.Flush()

	_, _ = fmt.Fprintln(out, "\nBy stage:")
	sw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, stage := range []model.LeadStatus{
		model.StatusNew, model.StatusContacted, model.StatusQualified,
		model.StatusWon, model.StatusLost,
	} {
		_, _ = fmt.Fprintf(sw, "  %s:\t%d\n", stage, s.ByStage[stage])
	}
	_ = sw.Flush()
}
