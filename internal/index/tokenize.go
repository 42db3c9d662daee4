package index

import "strings"

// tokenize lowercases text and splits it into a set of word tokens.
// Single-character tokens carry no signal and are dropped.
func tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isAlnum(r)
	})
	for _, f := range fields {
		if len(f) > 1 {
			tokens[f] = struct{}{}
		}
	}
	return tokens
}

func isAlnum(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

// jaccard is token-set intersection over union, bounded in [0,1]
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	inter := 0
	for t := range small {
		if _, ok := large[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
