package ml

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/credlens/credlens/internal/cache"
	"github.com/credlens/credlens/internal/model"
)

// Providers bundles the selected classification and sentiment providers.
// It is constructed once at startup and passed explicitly to everything
// that needs it.
type Providers struct {
	Classifier ClassificationProvider
	Sentiment  SentimentProvider
}

// NewProviders selects providers by configuration and a runtime
// availability check. Any failure to stand up the model-backed provider
// degrades to the deterministic rule providers instead of erroring: model
// unavailability is never a failure of the analysis.
func NewProviders(ctx context.Context, cfg model.MLConfig, memo cache.Cache, memoTTL time.Duration) Providers {
	rules := Providers{
		Classifier: NewRuleClassifier(),
		Sentiment:  NewRuleSentiment(),
	}

	switch strings.ToLower(cfg.Provider) {
	case "":
		return rules

	case "openai":
		p, err := NewOpenAIProvider(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: model provider unavailable (%v), using rule providers\n", err)
			return rules
		}
		if !p.IsAvailable(ctx) {
			fmt.Fprintf(os.Stderr, "Warning: model provider failed availability check, using rule providers\n")
			return rules
		}
		selected := Providers{Classifier: p, Sentiment: p}
		if memo != nil {
			selected.Classifier = NewMemoizedClassifier(selected.Classifier, memo, memoTTL)
			selected.Sentiment = NewMemoizedSentiment(selected.Sentiment, memo, memoTTL)
		}
		return selected

	default:
		fmt.Fprintf(os.Stderr, "Warning: unknown ML provider %q, using rule providers\n", cfg.Provider)
		return rules
	}
}
