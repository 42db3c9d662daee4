package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/credlens/credlens/internal/analyze"
	"github.com/credlens/credlens/internal/anomaly"
	"github.com/credlens/credlens/internal/cache"
	"github.com/credlens/credlens/internal/extract"
	"github.com/credlens/credlens/internal/factcheck"
	"github.com/credlens/credlens/internal/index"
	"github.com/credlens/credlens/internal/ml"
	"github.com/credlens/credlens/internal/model"
	"github.com/credlens/credlens/internal/storage"
	"github.com/credlens/credlens/internal/worker"
)

// app holds the wired components shared by the subcommands
type app struct {
	cfg      *model.Config
	index    *index.Index
	symbols  *extract.SymbolTable
	analyzer *analyze.Analyzer
	checker  *factcheck.Checker
	pool     *worker.Pool
	blobs    *storage.BlobStore
}

// loadConfig layers the config file and environment over the defaults.
// Viper discovers the file; the file itself is plain YAML over the
// model.Config shape.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read configuration: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse configuration %s: %w", path, err)
		}
	}
	cfg.Verbose = cfg.Verbose || verbose || viper.GetBool("verbose")

	// The OpenAI key is only read from the environment, never from disk
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.ML.APIKey == "" {
		cfg.ML.APIKey = key
	}
	return cfg, nil
}

// newApp builds the component graph and starts the worker pool. The
// returned shutdown function stops the pool and closes the store.
func newApp(ctx context.Context) (*app, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	var ix *index.Index
	if cfg.Database.Path != "" {
		ix, err = index.Open(cfg.Database.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open index: %w", err)
		}
	} else {
		ix = index.NewInMemory()
	}

	var memo cache.Cache
	if cfg.Cache.Enabled {
		memo = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}
	providers := ml.NewProviders(ctx, cfg.ML, memo, cfg.Cache.TTL)

	symbols := extract.DefaultSymbolTable()
	analyzer := analyze.NewAnalyzer(ix, providers, symbols, cfg.Scoring)
	checker := factcheck.NewChecker(
		extract.NewClaimExtractor(symbols),
		ix,
		anomaly.NewDetector(cfg.Scoring.AnomalyThreshold),
	)

	pool := worker.NewPool(cfg.Concurrency.AnalysisWorkers, analyzer.Analyze)
	pool.Start()

	a := &app{
		cfg:      cfg,
		index:    ix,
		symbols:  symbols,
		analyzer: analyzer,
		checker:  checker,
		pool:     pool,
		blobs:    storage.NewBlobStore(cfg.Storage.Dir),
	}
	shutdown := func() {
		pool.Shutdown()
		if err := ix.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: closing index: %v\n", err)
		}
	}
	return a, shutdown, nil
}
