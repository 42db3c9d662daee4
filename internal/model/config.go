package model

import "time"

// Config is the complete runtime configuration, assembled from defaults,
// config file, environment and flags (highest wins).
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Storage     StorageConfig     `yaml:"storage"`
	ML          MLConfig          `yaml:"ml"`
	Cache       CacheConfig       `yaml:"cache"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Verbose     bool              `yaml:"verbose"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// AnalyzeWait bounds how long a synchronous analyze request waits before
	// answering with status "analyzing" instead of a result.
	AnalyzeWait time.Duration `yaml:"analyze_wait"`
	Debug       bool          `yaml:"debug"`
}

// DatabaseConfig controls sqlite persistence. An empty path keeps the
// announcement index purely in memory.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// StorageConfig controls the content-addressed blob store
type StorageConfig struct {
	Dir string `yaml:"dir"`
}

// MLConfig selects and tunes the classification/sentiment providers.
// An empty provider name selects the deterministic rule providers.
type MLConfig struct {
	Provider          string        `yaml:"provider"` // "openai" or "" (rules only)
	Model             string        `yaml:"model"`
	APIKey            string        `yaml:"api_key,omitempty"`
	BaseURL           string        `yaml:"base_url,omitempty"`
	Timeout           time.Duration `yaml:"timeout"` // Per-call bound before fallback
	MaxTokens         int           `yaml:"max_tokens"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// CacheConfig controls memoization of provider verdicts
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// ScoringConfig holds the deterministic scoring constants
type ScoringConfig struct {
	FlagThreshold       float64 `yaml:"flag_threshold"` // Per-kind inclusion threshold
	FlagPenalty         float64 `yaml:"flag_penalty"`   // Points per fired flag
	MaxSentimentPenalty float64 `yaml:"max_sentiment_penalty"`
	AnomalyThreshold    float64 `yaml:"anomaly_threshold"` // Strict deviation-ratio bound
	AnomalyPenalty      float64 `yaml:"anomaly_penalty"`   // Points per counted anomaly
	MaxAnomalyCount     int     `yaml:"max_anomaly_count"` // Cap on counted anomalies
}

// ConcurrencyConfig sizes the analysis worker pool
type ConcurrencyConfig struct {
	AnalysisWorkers int `yaml:"analysis_workers"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			AnalyzeWait: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "credlens.db",
		},
		Storage: StorageConfig{
			Dir: "blobs",
		},
		ML: MLConfig{
			Provider:          "",
			Model:             "gpt-4o-mini",
			Timeout:           5 * time.Second,
			MaxTokens:         256,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             30 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
		Scoring: ScoringConfig{
			FlagThreshold:       0.5,
			FlagPenalty:         1.5,
			MaxSentimentPenalty: 2.0,
			AnomalyThreshold:    0.5,
			AnomalyPenalty:      1.0,
			MaxAnomalyCount:     5,
		},
		Concurrency: ConcurrencyConfig{
			AnalysisWorkers: 4,
		},
	}
}
