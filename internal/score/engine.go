package score

import (
	"fmt"
	"time"

	"github.com/credlens/credlens/internal/model"
)

// Engine aggregates red-flag, sentiment and anomaly signals into one 0-10
// credibility score. The aggregation is deterministic and every deducted
// point is attributed in the breakdown: a score never leaves this package
// without the deductions that explain it.
type Engine struct {
	flagPenalty     float64
	anomalyPenalty  float64
	maxAnomalyCount int
}

// NewEngine creates an engine with the given scoring constants
func NewEngine(cfg model.ScoringConfig) *Engine {
	flagPenalty := cfg.FlagPenalty
	if flagPenalty <= 0 {
		flagPenalty = 1.5
	}
	anomalyPenalty := cfg.AnomalyPenalty
	if anomalyPenalty <= 0 {
		anomalyPenalty = 1.0
	}
	maxAnomalyCount := cfg.MaxAnomalyCount
	if maxAnomalyCount <= 0 {
		maxAnomalyCount = 5
	}
	return &Engine{
		flagPenalty:     flagPenalty,
		anomalyPenalty:  anomalyPenalty,
		maxAnomalyCount: maxAnomalyCount,
	}
}

// Score combines the three signal sets into the final summary
func (e *Engine) Score(redFlags []model.RedFlag, flagsFallback bool, sentiment model.SentimentResult, anomalies []model.AnomalyFinding) model.AnalysisSummary {
	score := 10.0
	var deductions []model.Deduction

	for _, flag := range redFlags {
		score -= e.flagPenalty
		deductions = append(deductions, model.Deduction{
			Kind:   model.DeductionRedFlag,
			Points: e.flagPenalty,
			Detail: fmt.Sprintf("red flag: %s", flag),
		})
	}

	if sentiment.Penalty > 0 {
		score -= sentiment.Penalty
		deductions = append(deductions, model.Deduction{
			Kind:   model.DeductionSentiment,
			Points: sentiment.Penalty,
			Detail: fmt.Sprintf("%s sentiment at confidence %.2f", sentiment.Polarity, sentiment.Confidence),
		})
	}

	// Anomaly contribution is capped; findings beyond the cap stay in the
	// summary for attribution but deduct nothing.
	counted := len(anomalies)
	if counted > e.maxAnomalyCount {
		counted = e.maxAnomalyCount
	}
	for i := 0; i < counted; i++ {
		score -= e.anomalyPenalty
		deductions = append(deductions, model.Deduction{
			Kind:   model.DeductionAnomaly,
			Points: e.anomalyPenalty,
			Detail: fmt.Sprintf("%s claim %q deviates %.1fx from baseline", anomalies[i].Claim.Metric, anomalies[i].Claim.Span, anomalies[i].DeviationRatio),
		})
	}

	score = clamp(score, 0.0, 10.0)

	return model.AnalysisSummary{
		CredibilityScore: score,
		RedFlags:         redFlags,
		FlagsFallback:    flagsFallback,
		Sentiment:        sentiment,
		Anomalies:        anomalies,
		Deductions:       deductions,
		Recommendations:  recommendations(score, redFlags, anomalies),
		AnalyzedAt:       time.Now().UTC(),
	}
}

// recommendations derives fixed guidance strings from the outcome
func recommendations(score float64, redFlags []model.RedFlag, anomalies []model.AnomalyFinding) []string {
	var recs []string
	if len(redFlags) > 0 {
		recs = append(recs, "Review flagged content for promotional or misleading language")
	}
	if len(anomalies) > 0 {
		recs = append(recs, "Verify financial claims against historical data")
	}
	switch {
	case score < 5.0:
		recs = append(recs, "High risk: consider additional verification")
	case score < 7.0:
		recs = append(recs, "Medium risk: review flagged issues")
	default:
		recs = append(recs, "Low risk: content appears credible")
	}
	return recs
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
