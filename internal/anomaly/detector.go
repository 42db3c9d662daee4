package anomaly

import (
	"math"
	"sort"

	"github.com/credlens/credlens/internal/model"
)

// Detector compares numeric financial claims against a company's last-known
// baseline. Absence of history is not evidence of anomaly: no baseline, or
// no comparable metric, yields an empty result.
type Detector struct {
	threshold float64
}

// epsilon guards the division for near-zero baselines
const epsilon = 1e-9

// NewDetector creates a detector with the given deviation-ratio threshold.
// The threshold is strict: a deviation exactly at it does not flag.
func NewDetector(threshold float64) *Detector {
	if threshold <= 0 {
		threshold = 0.5
	}
	return &Detector{threshold: threshold}
}

// Detect returns the anomalous claims ordered by deviation ratio,
// largest first
func (d *Detector) Detect(claims model.ClaimSet, baseline *model.CompanyFinancial) []model.AnomalyFinding {
	if baseline == nil {
		return nil
	}

	var findings []model.AnomalyFinding
	for _, claim := range claims.Financial() {
		ref, ok := baselineFor(claim, baseline)
		if !ok {
			continue
		}
		ratio := math.Abs(claim.Value-ref) / math.Max(ref, epsilon)
		if ratio > d.threshold {
			findings = append(findings, model.AnomalyFinding{
				Claim:          claim,
				Baseline:       ref,
				DeviationRatio: ratio,
			})
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		return findings[i].DeviationRatio > findings[j].DeviationRatio
	})
	return findings
}

// baselineFor picks the baseline figure a claim compares against. Monetary
// claims are normalized to base currency units, so stored crore figures
// scale up to match.
func baselineFor(claim model.Claim, baseline *model.CompanyFinancial) (float64, bool) {
	const crore = 1e7

	// A percent claim states a rate, not an amount. Only growth rates have a
	// percent baseline to compare against; "profit grew 25%" must never be
	// measured against rupees.
	if claim.Unit == "percent" && claim.Metric != model.MetricGrowth {
		return 0, false
	}

	switch claim.Metric {
	case model.MetricRevenue:
		if claim.Unit == "inr" && baseline.RevenueCr != nil {
			return *baseline.RevenueCr * crore, true
		}
	case model.MetricProfit:
		if claim.Unit == "inr" && baseline.ProfitCr != nil {
			return *baseline.ProfitCr * crore, true
		}
	case model.MetricMarketCap:
		if claim.Unit == "inr" && baseline.MarketCapCr != nil {
			return *baseline.MarketCapCr * crore, true
		}
	case model.MetricGrowth:
		if claim.Unit == "percent" && baseline.RevenueGrowthPct != nil {
			return *baseline.RevenueGrowthPct, true
		}
	}
	return 0, false
}
