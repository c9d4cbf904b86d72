package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/clientry/leadintel/internal/scoring"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, _ []string) error {
		effective := *cfg
		effective.Scoring = scoring.ConfigOrDefault(effective.Scoring)

		out, err := yaml.Marshal(effective)
		if err != nil {
			return eris.Wrap(err, "config: marshal yaml")
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
