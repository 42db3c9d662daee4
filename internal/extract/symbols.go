package extract

import "strings"

// SymbolTable maps free-text company names to exchange symbols. Unmapped
// names stay in the claim set as unresolved mentions rather than being
// discarded; they still drive evidence search, just without symbol filtering.
type SymbolTable struct {
	byName   map[string]string
	bySymbol map[string]string // symbol -> canonical name
}

// NewSymbolTable creates a table seeded with the given name -> symbol entries
func NewSymbolTable(entries map[string]string) *SymbolTable {
	t := &SymbolTable{
		byName:   make(map[string]string),
		bySymbol: make(map[string]string),
	}
	for name, symbol := range entries {
		t.Add(name, symbol)
	}
	return t
}

// DefaultSymbolTable returns a table of NSE majors
func DefaultSymbolTable() *SymbolTable {
	return NewSymbolTable(map[string]string{
		"Reliance Industries":       "RELIANCE",
		"Tata Consultancy Services": "TCS",
		"Infosys":                   "INFY",
		"HDFC Bank":                 "HDFCBANK",
		"ICICI Bank":                "ICICIBANK",
		"Bharti Airtel":             "BHARTIARTL",
		"ITC":                       "ITC",
		"Kotak Mahindra Bank":       "KOTAKBANK",
		"Larsen & Toubro":           "LT",
		"State Bank of India":       "SBIN",
	})
}

// Add registers a company name and its symbol
func (t *SymbolTable) Add(name, symbol string) {
	t.byName[normalizeName(name)] = symbol
	t.bySymbol[strings.ToUpper(symbol)] = name
}

// Resolve maps a free-text company name to a symbol. The empty string
// means unresolved.
func (t *SymbolTable) Resolve(name string) string {
	key := normalizeName(name)
	if symbol, ok := t.byName[key]; ok {
		return symbol
	}
	// Substring match either way: "Reliance Industries Limited" resolves,
	// as does the bare "Infosys" inside a longer mention.
	for known, symbol := range t.byName {
		if strings.Contains(key, known) || strings.Contains(known, key) {
			return symbol
		}
	}
	return ""
}

// IsSymbol reports whether the token is a known exchange symbol
func (t *SymbolTable) IsSymbol(token string) bool {
	_, ok := t.bySymbol[strings.ToUpper(token)]
	return ok
}

// Len returns the number of known companies
func (t *SymbolTable) Len() int {
	return len(t.byName)
}

func normalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	for _, suffix := range []string{" limited", " ltd.", " ltd", " corporation", " corp.", " corp", " inc.", " inc"} {
		s = strings.TrimSuffix(s, suffix)
	}
	return strings.TrimSpace(s)
}
