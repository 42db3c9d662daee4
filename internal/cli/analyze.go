package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/credlens/credlens/internal/index"
	"github.com/credlens/credlens/internal/model"
)

var analyzeAll bool

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [id]",
	Short: "Run credibility analysis on stored announcements",
	Long: `Analyze extracts claims from a stored announcement, detects red flags,
scores sentiment, checks figures against the company's financial baseline
and writes the resulting credibility score back to the index.

Example:
  credlens analyze 42
  credlens analyze --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeAll, "all", false, "analyze every pending announcement")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeAll == (len(args) == 1) {
		return fmt.Errorf("provide exactly one of <id> or --all")
	}

	app, shutdown, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer shutdown()

	var ids []int64
	if analyzeAll {
		for _, a := range app.index.List(index.ListFilter{Status: model.StatusPending}) {
			ids = append(ids, a.ID)
		}
		if len(ids) == 0 {
			fmt.Println("No pending announcements.")
			return nil
		}
	} else {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid announcement id %q", args[0])
		}
		ids = []int64{id}
	}

	results := app.pool.RunBatch(cmd.Context(), ids)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ announcement %d: %v\n", r.AnnouncementID, r.Err)
			continue
		}
		fmt.Printf("✓ announcement %d: score %.1f", r.AnnouncementID, r.Summary.CredibilityScore)
		if n := len(r.Summary.RedFlags); n > 0 {
			fmt.Printf(", %d red flag(s)", n)
		}
		if n := len(r.Summary.Anomalies); n > 0 {
			fmt.Printf(", %d anomaly finding(s)", n)
		}
		fmt.Println()

		if verbose {
			for _, d := range r.Summary.Deductions {
				fmt.Printf("    -%.2f %s\n", d.Points, d.Detail)
			}
			for _, rec := range r.Summary.Recommendations {
				fmt.Printf("    • %s\n", rec)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d analyses failed", failed, len(results))
	}
	return nil
}
