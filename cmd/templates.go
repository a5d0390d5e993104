package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spigell/resume-tuner/internal/render"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available LaTeX templates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, info := range render.NewRegistry().List() {
			marker := ""
			if info.Name == render.DefaultTemplate {
				marker = " (default)"
			}
			fmt.Fprintf(w, "%s%s\t%s\n", info.Name, marker, info.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
