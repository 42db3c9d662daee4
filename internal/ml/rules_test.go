package ml

import (
	"context"
	"testing"

	"github.com/credlens/credlens/internal/model"
)

func allFlagLabels() []string {
	labels := make([]string, 0, len(model.AllRedFlags))
	for _, f := range model.AllRedFlags {
		labels = append(labels, string(f))
	}
	return labels
}

func TestRuleClassifier_PromotionalHype(t *testing.T) {
	c := NewRuleClassifier()

	scores, err := c.Scores(context.Background(), "This revolutionary product is guaranteed to deliver returns.", allFlagLabels())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if scores[string(model.FlagPromotionalHype)] != 1 {
		t.Error("Expected promotional_hype to fire")
	}
	if scores[string(model.FlagSuspiciousTiming)] != 0 {
		t.Error("Expected suspicious_timing to stay 0")
	}
}

func TestRuleClassifier_UnrealisticProjection(t *testing.T) {
	c := NewRuleClassifier()

	scores, err := c.Scores(context.Background(), "We will double revenue within six months, a 400% jump.", allFlagLabels())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if scores[string(model.FlagUnrealisticProjection)] != 1 {
		t.Error("Expected unrealistic_projection to fire")
	}
}

func TestRuleClassifier_CleanText(t *testing.T) {
	c := NewRuleClassifier()

	scores, err := c.Scores(context.Background(), "The board met on Monday and approved the audited statements.", allFlagLabels())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for label, s := range scores {
		if s != 0 {
			t.Errorf("Expected no flags for clean text, %s scored %f", label, s)
		}
	}
	if len(scores) != len(model.AllRedFlags) {
		t.Errorf("Expected every requested label in result, got %d", len(scores))
	}
}

func TestRuleSentiment_Negative(t *testing.T) {
	s := NewRuleSentiment()

	polarity, confidence, err := s.Analyze(context.Background(), "The company reported losses amid a fraud investigation and a credit downgrade.")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if polarity != model.PolarityNegative {
		t.Errorf("Expected negative polarity, got %s", polarity)
	}
	if confidence <= 0.5 || confidence > 1.0 {
		t.Errorf("Expected confidence in (0.5, 1.0], got %f", confidence)
	}
}

func TestRuleSentiment_NeutralDefault(t *testing.T) {
	s := NewRuleSentiment()

	polarity, confidence, err := s.Analyze(context.Background(), "The meeting is scheduled for Tuesday.")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if polarity != model.PolarityNeutral {
		t.Errorf("Expected neutral default, got %s", polarity)
	}
	if confidence != 0.5 {
		t.Errorf("Expected confidence 0.5, got %f", confidence)
	}
}

func TestRuleSentiment_Deterministic(t *testing.T) {
	s := NewRuleSentiment()
	text := "Record profit and strong growth, but a pending lawsuit."

	p1, c1, _ := s.Analyze(context.Background(), text)
	p2, c2, _ := s.Analyze(context.Background(), text)
	if p1 != p2 || c1 != c2 {
		t.Errorf("Expected deterministic output, got (%s,%f) then (%s,%f)", p1, c1, p2, c2)
	}
}
