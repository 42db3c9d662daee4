package sentiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/credlens/credlens/internal/model"
)

type scriptedSentiment struct {
	polarity   model.Polarity
	confidence float64
	err        error
}

func (s *scriptedSentiment) Name() string { return "scripted" }

func (s *scriptedSentiment) Analyze(_ context.Context, _ string) (model.Polarity, float64, error) {
	return s.polarity, s.confidence, s.err
}

func TestScorer_PenaltyCurve(t *testing.T) {
	cases := []struct {
		name       string
		polarity   model.Polarity
		confidence float64
		want       float64
	}{
		{"negative below floor", model.PolarityNegative, 0.59, 0},
		{"negative at floor", model.PolarityNegative, 0.6, 0},
		{"negative midway", model.PolarityNegative, 0.8, 1.0},
		{"negative full confidence", model.PolarityNegative, 1.0, 2.0},
		{"positive high confidence", model.PolarityPositive, 0.95, 0},
		{"neutral high confidence", model.PolarityNeutral, 0.95, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewScorer(&scriptedSentiment{polarity: tc.polarity, confidence: tc.confidence}, 2.0)
			result := s.Score(context.Background(), "text")
			if math.Abs(result.Penalty-tc.want) > 1e-9 {
				t.Errorf("Expected penalty %f, got %f", tc.want, result.Penalty)
			}
		})
	}
}

func TestScorer_FallbackNeutralDefault(t *testing.T) {
	s := NewScorer(&scriptedSentiment{err: errors.New("model timeout")}, 2.0)

	result := s.Score(context.Background(), "The meeting is scheduled for Tuesday.")
	if !result.Fallback {
		t.Error("Expected fallback path")
	}
	if result.Polarity != model.PolarityNeutral {
		t.Errorf("Expected neutral fallback, got %s", result.Polarity)
	}
	if result.Penalty != 0 {
		t.Errorf("Expected zero penalty from neutral fallback, got %f", result.Penalty)
	}
}

func TestScorer_FallbackStillDetectsNegative(t *testing.T) {
	s := NewScorer(&scriptedSentiment{err: errors.New("model timeout")}, 2.0)

	result := s.Score(context.Background(), "Heavy losses, fraud investigation, credit downgrade and a penalty.")
	if result.Polarity != model.PolarityNegative {
		t.Errorf("Expected lexicon rules to detect negative text, got %s", result.Polarity)
	}
}
