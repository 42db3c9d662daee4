package ml

import (
	"context"
	"regexp"
	"strings"

	"github.com/credlens/credlens/internal/model"
)

// RuleClassifier is the deterministic fallback classification provider.
// Each label carries a fixed set of patterns; a match scores 1, otherwise 0.
type RuleClassifier struct {
	patterns map[string][]*regexp.Regexp
}

// NewRuleClassifier creates the rule set for the red-flag catalogue
func NewRuleClassifier() *RuleClassifier {
	compile := func(exprs ...string) []*regexp.Regexp {
		out := make([]*regexp.Regexp, 0, len(exprs))
		for _, e := range exprs {
			out = append(out, regexp.MustCompile(e))
		}
		return out
	}

	return &RuleClassifier{
		patterns: map[string][]*regexp.Regexp{
			string(model.FlagPromotionalHype): compile(
				`\b(guaranteed|guarantee|promise|assure|certain|definite)\b`,
				`\b(revolutionary|breakthrough|game-changing|unprecedented)\b`,
				`\b(limited time|act now|don't miss|exclusive)\b`,
			),
			string(model.FlagUnrealisticProjection): compile(
				`\b\d{3,}\s*(?:%|percent)`,
				`\b(tenfold|hundredfold|multifold|exponential growth)\b`,
				`\b(double|triple)\b.{0,30}\b(within|in just)\b`,
			),
			string(model.FlagVagueLanguage): compile(
				`\b(significant|substantial|considerable|major)\s+(increase|growth|improvement)\b`,
				`\b(we expect|anticipated|projected|forecasted)\b`,
				`\b(approximately|around|about|roughly)\b`,
			),
			string(model.FlagConflictingInformation): compile(
				`\b(contrary to|contradict(?:s|ing)?|restated|retracted)\b`,
				`\bhowever\b.{0,60}\bpreviously\b`,
			),
			string(model.FlagSuspiciousTiming): compile(
				`\b(after market hours|post market close)\b`,
				`\b(eve of|just before)\b.{0,30}\b(weekend|holiday|results|expiry)\b`,
				`\blate (evening|night) (filing|announcement)\b`,
			),
		},
	}
}

// Name returns the provider name
func (c *RuleClassifier) Name() string {
	return "rules"
}

// Scores matches each label's patterns against the lowercased text.
// First pattern hit wins the label; unrequested labels score 0.
func (c *RuleClassifier) Scores(_ context.Context, text string, labels []string) (map[string]float64, error) {
	lower := strings.ToLower(text)
	scores := make(map[string]float64, len(labels))
	for _, label := range labels {
		scores[label] = 0
		for _, re := range c.patterns[label] {
			if re.MatchString(lower) {
				scores[label] = 1
				break
			}
		}
	}
	return scores, nil
}

// RuleSentiment is the deterministic fallback sentiment provider: a small
// polarity lexicon with confidence from the word-count margin. Unknown
// content defaults to neutral, which keeps the derived penalty at 0.
type RuleSentiment struct {
	positive map[string]bool
	negative map[string]bool
}

// NewRuleSentiment creates the lexicon provider
func NewRuleSentiment() *RuleSentiment {
	toSet := func(words ...string) map[string]bool {
		m := make(map[string]bool, len(words))
		for _, w := range words {
			m[w] = true
		}
		return m
	}
	return &RuleSentiment{
		positive: toSet(
			"growth", "profit", "record", "strong", "improved", "exceeded",
			"expansion", "dividend", "gain", "robust", "healthy", "upgraded",
		),
		negative: toSet(
			"loss", "losses", "decline", "fraud", "default", "downgrade",
			"lawsuit", "penalty", "resigned", "impairment", "writedown",
			"shortfall", "delayed", "investigation", "weak",
		),
	}
}

// Name returns the provider name
func (s *RuleSentiment) Name() string {
	return "rules"
}

// Analyze counts lexicon hits and derives polarity and confidence
func (s *RuleSentiment) Analyze(_ context.Context, text string) (model.Polarity, float64, error) {
	pos, neg := 0, 0
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,;:!?()\"'")
		if s.positive[w] {
			pos++
		}
		if s.negative[w] {
			neg++
		}
	}

	total := pos + neg
	if total == 0 {
		return model.PolarityNeutral, 0.5, nil
	}

	margin := float64(abs(pos-neg)) / float64(total)
	confidence := 0.5 + margin/2 // [0.5, 1.0]

	switch {
	case neg > pos:
		return model.PolarityNegative, confidence, nil
	case pos > neg:
		return model.PolarityPositive, confidence, nil
	default:
		return model.PolarityNeutral, 0.5, nil
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
