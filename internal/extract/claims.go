package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/credlens/credlens/internal/model"
)

// ClaimExtractor parses free-text content into structured claims: financial
// figures, date mentions and company references. A content with no
// recognizable claims yields an empty set, not an error.
type ClaimExtractor struct {
	symbols *SymbolTable
}

// NewClaimExtractor creates an extractor backed by the given symbol table
func NewClaimExtractor(symbols *SymbolTable) *ClaimExtractor {
	if symbols == nil {
		symbols = DefaultSymbolTable()
	}
	return &ClaimExtractor{symbols: symbols}
}

var (
	currencyRe = regexp.MustCompile(`(?i)(?:₹|rs\.?|inr|\$|usd)?\s*(\d+(?:,\d+)*(?:\.\d+)?)\s*(crores?|lakhs?|millions?|billions?|cr|mn|bn)\b`)
	percentRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:%|percent|per cent)`)
	countRe    = regexp.MustCompile(`(?i)(\d+(?:,\d+)*)\s+(units|orders|stores|customers|employees|subscribers)\b`)
	companyRe  = regexp.MustCompile(`\b([A-Z][A-Za-z&.]*(?:\s+[A-Z][A-Za-z&.]*)*)\s+(?:Limited|Ltd\.?|Corporation|Corp\.?|Inc\.?)\b`)
	tickerRe   = regexp.MustCompile(`\b[A-Z]{2,10}\b`)

	numericDateRe = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
	writtenDateRe = regexp.MustCompile(`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}\b`)
	isoDateRe     = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
)

var scaleWords = map[string]float64{
	"crore": 1e7, "crores": 1e7, "cr": 1e7,
	"lakh": 1e5, "lakhs": 1e5,
	"million": 1e6, "millions": 1e6, "mn": 1e6,
	"billion": 1e9, "billions": 1e9, "bn": 1e9,
}

// FromText extracts all claims from plain text
func (e *ClaimExtractor) FromText(text string) model.ClaimSet {
	var claims []model.Claim
	claims = append(claims, e.financialClaims(text)...)
	claims = append(claims, e.dateClaims(text)...)
	claims = append(claims, e.entityClaims(text)...)
	return model.ClaimSet{Claims: dedupeClaims(claims)}
}

func (e *ClaimExtractor) financialClaims(text string) []model.Claim {
	var claims []model.Claim

	for _, m := range currencyRe.FindAllStringSubmatchIndex(text, -1) {
		span := text[m[0]:m[1]]
		num := parseNumber(text[m[2]:m[3]])
		scale := scaleWords[strings.ToLower(text[m[4]:m[5]])]
		claims = append(claims, model.Claim{
			Kind:   model.ClaimFinancial,
			Metric: metricAt(text, m[0], m[1], false),
			Value:  num * scale,
			Unit:   "inr",
			Span:   strings.TrimSpace(span),
		})
	}

	for _, m := range percentRe.FindAllStringSubmatchIndex(text, -1) {
		span := text[m[0]:m[1]]
		claims = append(claims, model.Claim{
			Kind:   model.ClaimFinancial,
			Metric: metricAt(text, m[0], m[1], true),
			Value:  parseNumber(text[m[2]:m[3]]),
			Unit:   "percent",
			Span:   strings.TrimSpace(span),
		})
	}

	for _, m := range countRe.FindAllStringSubmatchIndex(text, -1) {
		span := text[m[0]:m[1]]
		claims = append(claims, model.Claim{
			Kind:   model.ClaimFinancial,
			Metric: model.MetricUnknown,
			Value:  parseNumber(text[m[2]:m[3]]),
			Unit:   "count",
			Span:   strings.TrimSpace(span),
		})
	}

	return claims
}

// metricAt infers which baseline metric a figure refers to from the words
// around it. The words before the figure win; the trailing window is only
// consulted when the leading one says nothing, so adjacent clauses like
// "revenue of X and profit of Y" attribute each figure correctly.
// Percentages near revenue wording read as growth figures.
func metricAt(text string, start, end int, percent bool) model.Metric {
	lo := start - 60
	if lo < 0 {
		lo = 0
	}
	if m := metricInWindow(strings.ToLower(text[lo:start]), percent); m != model.MetricUnknown {
		return m
	}
	hi := end + 30
	if hi > len(text) {
		hi = len(text)
	}
	return metricInWindow(strings.ToLower(text[end:hi]), percent)
}

func metricInWindow(window string, percent bool) model.Metric {
	switch {
	case strings.Contains(window, "market cap"):
		return model.MetricMarketCap
	case strings.Contains(window, "profit") || strings.Contains(window, "earnings"):
		return model.MetricProfit
	case strings.Contains(window, "revenue") || strings.Contains(window, "turnover") || strings.Contains(window, "sales"):
		if percent {
			return model.MetricGrowth
		}
		return model.MetricRevenue
	case percent && (strings.Contains(window, "growth") || strings.Contains(window, "rose") || strings.Contains(window, "grew")):
		return model.MetricGrowth
	default:
		return model.MetricUnknown
	}
}

var dateLayouts = []string{
	"02/01/2006", "2/1/2006", "02/01/06",
	"02-01-2006", "2-1-2006", "02-01-06",
	"January 2, 2006", "January 2 2006",
	"2006-01-02",
}

func (e *ClaimExtractor) dateClaims(text string) []model.Claim {
	var claims []model.Claim
	for _, re := range []*regexp.Regexp{numericDateRe, writtenDateRe, isoDateRe} {
		for _, span := range re.FindAllString(text, -1) {
			if d, ok := parseDate(span); ok {
				claims = append(claims, model.Claim{
					Kind: model.ClaimDate,
					Date: &d,
					Span: span,
				})
			}
			// Unparseable dates are dropped silently
		}
	}
	return claims
}

func parseDate(span string) (time.Time, bool) {
	normalized := capitalizeWords(span)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, normalized); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// capitalizeWords uppercases the first letter of each word so that month
// names in any case match the time layouts
func capitalizeWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func (e *ClaimExtractor) entityClaims(text string) []model.Claim {
	var claims []model.Claim

	for _, m := range companyRe.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		claims = append(claims, model.Claim{
			Kind:   model.ClaimEntity,
			Symbol: e.symbols.Resolve(name),
			Name:   name,
			Span:   strings.TrimSpace(m[0]),
		})
	}

	// Bare uppercase tokens count only when they are known symbols,
	// otherwise every acronym in the text would become an entity.
	for _, token := range tickerRe.FindAllString(text, -1) {
		if e.symbols.IsSymbol(token) {
			claims = append(claims, model.Claim{
				Kind:   model.ClaimEntity,
				Symbol: strings.ToUpper(token),
				Name:   token,
				Span:   token,
			})
		}
	}

	return claims
}

func parseNumber(s string) float64 {
	v, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return v
}

func dedupeClaims(claims []model.Claim) []model.Claim {
	seen := make(map[string]bool)
	var unique []model.Claim
	for _, c := range claims {
		key := string(c.Kind) + "|" + strings.ToLower(c.Span)
		if !seen[key] {
			seen[key] = true
			unique = append(unique, c)
		}
	}
	return unique
}
