package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/credlens/credlens/internal/factcheck"
)

var (
	factcheckText string
	factcheckFile string
	factcheckJSON bool
)

// factcheckCmd represents the factcheck command
var factcheckCmd = &cobra.Command{
	Use:   "factcheck",
	Short: "Verify content against the indexed announcements",
	Long: `Factcheck matches pasted text or a document against the official
announcements in the index and reports a verification verdict with
supporting evidence and anomaly findings.

Example:
  credlens factcheck --text "RELIANCE reported revenue of 1500 crore"
  credlens factcheck --file announcement.txt --json`,
	RunE: runFactcheck,
}

func init() {
	rootCmd.AddCommand(factcheckCmd)

	factcheckCmd.Flags().StringVar(&factcheckText, "text", "", "text content to verify")
	factcheckCmd.Flags().StringVar(&factcheckFile, "file", "", "document to verify (.txt, .md, .html)")
	factcheckCmd.Flags().BoolVar(&factcheckJSON, "json", false, "print the full result as JSON")
}

func runFactcheck(cmd *cobra.Command, args []string) error {
	if factcheckText == "" && factcheckFile == "" {
		return fmt.Errorf("provide --text or --file")
	}

	app, shutdown, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer shutdown()

	req := factcheck.Request{Text: factcheckText}
	if factcheckFile != "" {
		data, err := os.ReadFile(factcheckFile)
		if err != nil {
			return fmt.Errorf("read %s: %w", factcheckFile, err)
		}
		req.FileName = filepath.Base(factcheckFile)
		req.FileBytes = data
	}

	resp, err := app.checker.Check(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("fact-check: %w", err)
	}

	if factcheckJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Printf("Verdict:    %s\n", resp.Status)
	fmt.Printf("Confidence: %.2f\n", resp.ConfidenceScore)
	fmt.Printf("Claims:     %d\n", resp.TotalClaims)

	if len(resp.Evidence) > 0 {
		fmt.Println("\nEvidence:")
		for _, e := range resp.Evidence {
			fmt.Printf("  %.2f  %s (%s) %s\n",
				e.Similarity, e.Title, e.CompanySymbol, e.AnnouncementDate.Format("2006-01-02"))
		}
	}
	if len(resp.Anomalies) > 0 {
		fmt.Println("\nAnomalies:")
		for _, a := range resp.Anomalies {
			fmt.Printf("  %s deviates %.0f%% from baseline\n", a.Claim.Span, a.DeviationRatio*100)
		}
	}
	fmt.Println("\nRecommendations:")
	for _, r := range resp.Recommendations {
		fmt.Printf("  • %s\n", r)
	}
	return nil
}
