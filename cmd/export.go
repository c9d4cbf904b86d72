package main

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/clientry/leadintel/internal/scoring"
)

var exportOutputPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export scored leads to an XLSX workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
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

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Leads")
		if err != nil {
			return eris.Wrap(err, "export: add sheet")
		}

		header := sheet.AddRow()
		for _, h := range []string{
			"ID", "Name", "Email", "Phone", "Company", "Status", "Source",
			"Assigned To", "Score", "Temperature", "Tags", "Created At",
		} {
			header.AddCell().Value = h
		}

		now := time.Now()
		for _, lead := range leads {
			result := scoring.Score(lead, now, cfg.Scoring)

			row := sheet.AddRow()
			row.AddCell().Value = lead.ID
			row.AddCell().Value = lead.Name
			row.AddCell().Value = lead.Email
			row.AddCell().Value = lead.Phone
			row.AddCell().Value = lead.Company()
			row.AddCell().Value = string(lead.Status)
			row.AddCell().Value = lead.Source
			row.AddCell().Value = lead.AssignedTo
			row.AddCell().SetFloat(result.Total)
			row.AddCell().Value = string(result.Temperature)
			row.AddCell().Value = strings.Join(lead.Tags, ";")
			if lead.CreatedAt.IsSet() {
				row.AddCell().Value = lead.CreatedAt.Time.UTC().Format(time.RFC3339)
			} else {
				row.AddCell().Value = ""
			}
		}

		if err := file.Save(exportOutputPath); err != nil {
			return eris.Wrap(err, "export: save workbook")
		}

		zap.L().Info("export complete",
			zap.Int("leads", len(leads)),
			zap.String("output", exportOutputPath),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOutputPath, "output", "leads.xlsx", "path to output workbook")
	rootCmd.AddCommand(exportCmd)
}
