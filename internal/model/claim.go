package model

import "time"

// ClaimKind categorizes the nature of an extracted claim
type ClaimKind string

const (
	ClaimFinancial ClaimKind = "financial_figure" // Monetary amounts, percentages, counts
	ClaimDate      ClaimKind = "date"             // Date mentions
	ClaimEntity    ClaimKind = "entity"           // Company name or symbol references
)

// Metric identifies which financial baseline a numeric claim compares against
type Metric string

const (
	MetricRevenue   Metric = "revenue"
	MetricProfit    Metric = "profit"
	MetricMarketCap Metric = "market_cap"
	MetricGrowth    Metric = "growth" // Percentage growth figures
	MetricUnknown   Metric = "unknown"
)

// Claim represents a verifiable assertion extracted from content.
// Claims are ephemeral: extracted per request and never persisted.
type Claim struct {
	Kind   ClaimKind  `json:"kind"`
	Metric Metric     `json:"metric,omitempty"` // Financial claims only
	Value  float64    `json:"value,omitempty"`  // Normalized to base units (percent for growth)
	Unit   string     `json:"unit,omitempty"`   // "inr", "percent", "count"
	Symbol string     `json:"symbol,omitempty"` // Resolved company symbol, empty if unresolved
	Name   string     `json:"name,omitempty"`   // Raw entity name as written
	Date   *time.Time `json:"date,omitempty"`   // Date claims only, nil otherwise
	Span   string     `json:"span"`             // Matched source text
}

// ClaimSet is the output of one extraction pass
type ClaimSet struct {
	Claims []Claim `json:"claims"`
}

// Financial returns the numeric financial claims
func (s ClaimSet) Financial() []Claim {
	var out []Claim
	for _, c := range s.Claims {
		if c.Kind == ClaimFinancial {
			out = append(out, c)
		}
	}
	return out
}

// Symbols returns the distinct resolved company symbols, in first-seen order
func (s ClaimSet) Symbols() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range s.Claims {
		if c.Kind == ClaimEntity && c.Symbol != "" && !seen[c.Symbol] {
			seen[c.Symbol] = true
			out = append(out, c.Symbol)
		}
	}
	return out
}
