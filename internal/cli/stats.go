package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics over the announcement index",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, shutdown, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()

		st := app.index.Stats()
		fmt.Printf("Announcements: %d\n", st.Total)
		fmt.Printf("  analyzed:    %d\n", st.Analyzed)
		fmt.Printf("  pending:     %d\n", st.Pending)
		fmt.Printf("  failed:      %d\n", st.Failed)
		fmt.Printf("Companies:     %d\n", st.TotalCompanies)
		if st.Analyzed > 0 {
			fmt.Printf("Average score: %.2f\n", st.AverageCredibilityScore)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
