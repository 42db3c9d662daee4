package ml

import (
	"context"

	"github.com/credlens/credlens/internal/model"
)

// ClassificationProvider scores text against a set of labels, each in [0,1].
// Implementations: a model-backed provider and a deterministic rule set.
// The selection happens once at construction via an availability check,
// never by inheritance or hidden globals.
type ClassificationProvider interface {
	// Name returns the provider name
	Name() string

	// Scores rates how strongly the text matches each label.
	// Every requested label appears in the result, absent ones as 0.
	Scores(ctx context.Context, text string, labels []string) (map[string]float64, error)
}

// SentimentProvider produces a polarity and a confidence in [0,1]
type SentimentProvider interface {
	// Name returns the provider name
	Name() string

	// Analyze returns the dominant polarity of the text and the
	// provider's confidence in it
	Analyze(ctx context.Context, text string) (model.Polarity, float64, error)
}

// Availability is implemented by providers that can probe their backing
// service before being selected
type Availability interface {
	IsAvailable(ctx context.Context) bool
}
