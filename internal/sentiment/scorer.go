package sentiment

import (
	"context"

	"github.com/credlens/credlens/internal/ml"
	"github.com/credlens/credlens/internal/model"
)

// Scorer turns announcement text into a polarity signal and the score
// penalty derived from it. On provider failure it degrades to the
// deterministic lexicon rules, whose neutral default carries no penalty.
type Scorer struct {
	primary    ml.SentimentProvider
	fallback   ml.SentimentProvider
	maxPenalty float64
}

// Penalty scaling starts at this confidence; below it negative sentiment
// is treated as noise.
const penaltyFloor = 0.6

// NewScorer creates a scorer over the given provider
func NewScorer(primary ml.SentimentProvider, maxPenalty float64) *Scorer {
	if maxPenalty <= 0 {
		maxPenalty = 2.0
	}
	return &Scorer{
		primary:    primary,
		fallback:   ml.NewRuleSentiment(),
		maxPenalty: maxPenalty,
	}
}

// Score analyzes the text and derives the sentiment penalty
func (s *Scorer) Score(ctx context.Context, text string) model.SentimentResult {
	usedFallback := false
	polarity, confidence, err := s.primary.Analyze(ctx, text)
	if err != nil {
		polarity, confidence, _ = s.fallback.Analyze(ctx, text)
		usedFallback = true
	}

	return model.SentimentResult{
		Polarity:   polarity,
		Confidence: confidence,
		Penalty:    s.penalty(polarity, confidence),
		Fallback:   usedFallback,
	}
}

// penalty scales linearly from 0 to maxPenalty as confidence rises from
// 0.6 to 1.0, and applies only to negative polarity
func (s *Scorer) penalty(polarity model.Polarity, confidence float64) float64 {
	if polarity != model.PolarityNegative || confidence < penaltyFloor {
		return 0
	}
	p := s.maxPenalty * (confidence - penaltyFloor) / (1 - penaltyFloor)
	if p > s.maxPenalty {
		p = s.maxPenalty
	}
	return p
}
