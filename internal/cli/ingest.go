package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/credlens/credlens/internal/model"
	"github.com/credlens/credlens/internal/storage"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Load announcements and financial baselines into the index",
	Long: `Ingest reads a YAML or JSON fixture of announcements, company financial
baselines and symbol-table entries and upserts them into the index.
Announcements with a known identity (PDF URL or content hash) supersede
the previous version instead of duplicating it.

Example:
  credlens ingest announcements.yaml
  credlens ingest corpus.json`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

// ingestFixture is the on-disk ingest format
type ingestFixture struct {
	Announcements []model.Announcement     `yaml:"announcements" json:"announcements"`
	Financials    []model.CompanyFinancial `yaml:"financials" json:"financials"`
	Symbols       map[string]string        `yaml:"symbols" json:"symbols"` // company name -> symbol
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var fixture ingestFixture
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &fixture)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fixture)
	default:
		return fmt.Errorf("%w: unsupported fixture format %q", model.ErrInvalidInput, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	app, shutdown, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer shutdown()

	for name, symbol := range fixture.Symbols {
		app.symbols.Add(name, symbol)
	}

	for i := range fixture.Announcements {
		a := &fixture.Announcements[i]
		// Derive the content identity for announcements without a PDF URL
		if a.PDFURL == "" && a.ContentHash == "" && a.FullText != "" {
			hash, err := app.blobs.Store([]byte(a.FullText))
			if err != nil {
				return fmt.Errorf("store announcement %d: %w", i, err)
			}
			a.ContentHash = hash
			a.StoragePath = app.blobs.Path(hash)
		} else if a.ContentHash == "" && a.FullText != "" {
			a.ContentHash = storage.Hash([]byte(a.FullText))
		}

		if _, err := app.index.Upsert(*a); err != nil {
			return fmt.Errorf("ingest announcement %d: %w", i, err)
		}
	}

	for _, f := range fixture.Financials {
		if err := app.index.PutFinancial(f); err != nil {
			return fmt.Errorf("ingest financial %s: %w", f.CompanySymbol, err)
		}
	}

	fmt.Printf("✓ Ingested %d announcements, %d financial baselines, %d symbols\n",
		len(fixture.Announcements), len(fixture.Financials), len(fixture.Symbols))
	return nil
}
