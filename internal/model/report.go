package model

import "time"

// RedFlag is a detected linguistic risk pattern in announcement text
type RedFlag string

const (
	FlagPromotionalHype        RedFlag = "promotional_hype"
	FlagUnrealisticProjection  RedFlag = "unrealistic_projection"
	FlagVagueLanguage          RedFlag = "vague_language"
	FlagConflictingInformation RedFlag = "conflicting_information"
	FlagSuspiciousTiming       RedFlag = "suspicious_timing"
)

// AllRedFlags is the fixed catalogue of flag kinds, in stable order
var AllRedFlags = []RedFlag{
	FlagPromotionalHype,
	FlagUnrealisticProjection,
	FlagVagueLanguage,
	FlagConflictingInformation,
	FlagSuspiciousTiming,
}

// Polarity classifies sentiment direction
type Polarity string

const (
	PolarityNegative Polarity = "negative"
	PolarityNeutral  Polarity = "neutral"
	PolarityPositive Polarity = "positive"
)

// SentimentResult is the sentiment scorer output
type SentimentResult struct {
	Polarity   Polarity `json:"polarity"`
	Confidence float64  `json:"confidence"` // [0,1]
	Penalty    float64  `json:"penalty"`    // Derived score deduction, [0,2]
	Fallback   bool     `json:"fallback"`   // True when the rule-based path produced this
}

// AnomalyFinding records one numeric claim deviating from the company baseline
type AnomalyFinding struct {
	Claim          Claim   `json:"claim"`
	Baseline       float64 `json:"baseline"`
	DeviationRatio float64 `json:"deviation_ratio"`
}

// DeductionKind identifies which signal class produced a deduction
type DeductionKind string

const (
	DeductionRedFlag   DeductionKind = "red_flag"
	DeductionSentiment DeductionKind = "sentiment"
	DeductionAnomaly   DeductionKind = "anomaly"
)

// Deduction is one line of the scoring breakdown. The breakdown is mandatory
// output: a score is never reported without the deductions that produced it.
type Deduction struct {
	Kind   DeductionKind `json:"kind"`
	Points float64       `json:"points"`
	Detail string        `json:"detail"`
}

// AnalysisSummary is the full attribution record stored alongside a score
type AnalysisSummary struct {
	CredibilityScore float64          `json:"credibility_score"`
	RedFlags         []RedFlag        `json:"red_flags"`
	FlagsFallback    bool             `json:"flags_fallback,omitempty"`
	Sentiment        SentimentResult  `json:"sentiment"`
	Anomalies        []AnomalyFinding `json:"anomalies"`
	Deductions       []Deduction      `json:"deductions"`
	Recommendations  []string         `json:"recommendations"`
	AnalyzedAt       time.Time        `json:"analyzed_at"`
}

// VerificationStatus is the fact-check verdict
type VerificationStatus string

const (
	VerifiedAuthentic     VerificationStatus = "verified_authentic"
	PartiallyVerified     VerificationStatus = "partially_verified"
	PotentiallyMisleading VerificationStatus = "potentially_misleading"
	Unverified            VerificationStatus = "unverified"
)

// EvidenceRef points at an indexed announcement supporting a fact-check verdict
type EvidenceRef struct {
	AnnouncementID   int64     `json:"announcement_id"`
	CompanyName      string    `json:"company_name"`
	CompanySymbol    string    `json:"company_symbol"`
	Title            string    `json:"title"`
	AnnouncementDate time.Time `json:"announcement_date"`
	Similarity       float64   `json:"similarity"`
}

// FactCheckResult is returned directly to the caller and never persisted
type FactCheckResult struct {
	Status          VerificationStatus `json:"verification_status"`
	ConfidenceScore float64            `json:"confidence_score"` // Best evidence similarity, 0 when unverified
	Evidence        []EvidenceRef      `json:"evidence"`         // Descending relevance, at most 5
	Anomalies       []AnomalyFinding   `json:"anomalies"`        // Content-vs-history check, independent of Status
	TotalClaims     int                `json:"total_claims"`
	Recommendations []string           `json:"recommendations"`
}
