package analyze

import (
	"context"
	"fmt"
	"time"

	"github.com/credlens/credlens/internal/anomaly"
	"github.com/credlens/credlens/internal/extract"
	"github.com/credlens/credlens/internal/flags"
	"github.com/credlens/credlens/internal/index"
	"github.com/credlens/credlens/internal/ml"
	"github.com/credlens/credlens/internal/model"
	"github.com/credlens/credlens/internal/score"
	"github.com/credlens/credlens/internal/sentiment"
)

// Analyzer orchestrates the credibility analysis of a stored announcement:
// claim extraction, red-flag detection, sentiment scoring and the historical
// anomaly check feed the scoring engine, and the result lands on the index
// in one atomic update.
type Analyzer struct {
	index     *index.Index
	extractor *extract.ClaimExtractor
	flags     *flags.Detector
	sentiment *sentiment.Scorer
	anomalies *anomaly.Detector
	engine    *score.Engine
}

// NewAnalyzer wires an analyzer from the shared providers and config
func NewAnalyzer(ix *index.Index, providers ml.Providers, symbols *extract.SymbolTable, cfg model.ScoringConfig) *Analyzer {
	return &Analyzer{
		index:     ix,
		extractor: extract.NewClaimExtractor(symbols),
		flags:     flags.NewDetector(providers.Classifier, cfg.FlagThreshold),
		sentiment: sentiment.NewScorer(providers.Sentiment, cfg.MaxSentimentPenalty),
		anomalies: anomaly.NewDetector(cfg.AnomalyThreshold),
		engine:    score.NewEngine(cfg),
	}
}

// Analyze runs the full pipeline for one announcement. Provider failures
// degrade to rule fallbacks inside the detectors and still yield a score;
// only a missing announcement or caller cancellation fails the run, and
// then the announcement is marked failed with its previous score intact.
func (a *Analyzer) Analyze(ctx context.Context, id int64) (model.AnalysisSummary, error) {
	ann, err := a.index.Get(id)
	if err != nil {
		return model.AnalysisSummary{}, err
	}
	if err := a.index.MarkAnalyzing(id); err != nil {
		return model.AnalysisSummary{}, err
	}

	summary, err := a.analyze(ctx, ann)
	if err != nil {
		if markErr := a.index.MarkFailed(id); markErr != nil {
			return model.AnalysisSummary{}, fmt.Errorf("analyze: %w (mark failed: %v)", err, markErr)
		}
		return model.AnalysisSummary{}, fmt.Errorf("analyze announcement %d: %w", id, err)
	}

	if err := a.index.ApplyAnalysis(id, summary); err != nil {
		return model.AnalysisSummary{}, err
	}
	return summary, nil
}

func (a *Analyzer) analyze(ctx context.Context, ann model.Announcement) (model.AnalysisSummary, error) {
	text := ann.FullText
	if text == "" {
		text = ann.Title
	}

	claims := a.extractor.FromText(text)

	redFlags, flagsFallback := a.flags.Detect(ctx, text)
	if err := ctx.Err(); err != nil {
		return model.AnalysisSummary{}, err
	}

	sent := a.sentiment.Score(ctx, text)
	if err := ctx.Err(); err != nil {
		return model.AnalysisSummary{}, err
	}

	findings := a.anomalies.Detect(claims, a.baseline(ann, claims))

	summary := a.engine.Score(redFlags, flagsFallback, sent, findings)
	summary.AnalyzedAt = time.Now().UTC()
	return summary, nil
}

// baseline picks the financial baseline for the announcement's company,
// falling back to the first symbol mentioned in the text when the
// announcement itself carries none
func (a *Analyzer) baseline(ann model.Announcement, claims model.ClaimSet) *model.CompanyFinancial {
	symbol := ann.CompanySymbol
	if symbol == "" {
		if symbols := claims.Symbols(); len(symbols) > 0 {
			symbol = symbols[0]
		}
	}
	if symbol == "" {
		return nil
	}
	if fin, ok := a.index.Financial(symbol); ok {
		return &fin
	}
	return nil
}
