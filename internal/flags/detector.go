package flags

import (
	"context"

	"github.com/credlens/credlens/internal/ml"
	"github.com/credlens/credlens/internal/model"
)

// Detector classifies announcement text against the fixed red-flag
// catalogue. Each kind is scored independently; a kind fires when its score
// exceeds the per-kind threshold. When the primary provider fails the
// deterministic rule set takes over, so red-flag detection never fails the
// surrounding analysis.
type Detector struct {
	primary    ml.ClassificationProvider
	fallback   ml.ClassificationProvider
	thresholds map[model.RedFlag]float64
}

// NewDetector creates a detector over the given provider. The threshold
// applies to every kind until overridden with SetThreshold.
func NewDetector(primary ml.ClassificationProvider, threshold float64) *Detector {
	if threshold <= 0 {
		threshold = 0.5
	}
	thresholds := make(map[model.RedFlag]float64, len(model.AllRedFlags))
	for _, f := range model.AllRedFlags {
		thresholds[f] = threshold
	}
	return &Detector{
		primary:    primary,
		fallback:   ml.NewRuleClassifier(),
		thresholds: thresholds,
	}
}

// SetThreshold overrides the firing threshold for one kind
func (d *Detector) SetThreshold(kind model.RedFlag, threshold float64) {
	d.thresholds[kind] = threshold
}

// Detect returns the fired flags in catalogue order and whether the rule
// fallback produced them
func (d *Detector) Detect(ctx context.Context, text string) ([]model.RedFlag, bool) {
	labels := make([]string, 0, len(model.AllRedFlags))
	for _, f := range model.AllRedFlags {
		labels = append(labels, string(f))
	}

	usedFallback := false
	scores, err := d.primary.Scores(ctx, text, labels)
	if err != nil {
		// Model load failure or timeout: degrade, don't fail
		scores, _ = d.fallback.Scores(ctx, text, labels)
		usedFallback = true
	}

	var fired []model.RedFlag
	for _, f := range model.AllRedFlags {
		if scores[string(f)] > d.thresholds[f] {
			fired = append(fired, f)
		}
	}
	return fired, usedFallback
}
