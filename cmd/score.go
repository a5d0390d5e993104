package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spigell/resume-tuner/internal/logger"
	"github.com/spigell/resume-tuner/internal/scoring"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var scoreCmd = &cobra.Command{
	Use:   "score <file.tex>",
	Short: "Grade an existing LaTeX résumé and print the report as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			return fmt.Errorf("creating a logger: %w", err)
		}

		doc, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading document: %w", err)
		}

		report := scoring.NewAnalyzer(log).AnalyzeComprehensive(string(doc))

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
