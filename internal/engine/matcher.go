package engine

import "github.com/agnivade/levenshtein"

// Resolve finds the line a scanned code belongs to. A line matches on
// its non-empty bar code or its non-empty SKU; the first match in line
// order wins when duplicates exist. An empty code never matches.
// Pure lookup, no side effects.
func Resolve(code string, lines []*Line) (*Line, bool) {
	if code == "" {
		return nil, false
	}
	for _, l := range lines {
		if l.BarCode != "" && code == l.BarCode {
			return l, true
		}
		if l.SKU != "" && code == l.SKU {
			return l, true
		}
	}
	return nil, false
}

// Suggest returns the SKU closest to a code that failed to resolve, for
// operator feedback only. Matching itself stays strict; a suggestion is
// never auto-applied. Returns "" when nothing is reasonably close.
func Suggest(code string, lines []*Line) string {
	if code == "" {
		return ""
	}
	best := ""
	bestDist := len(code)/2 + 1 // anything further is noise
	for _, l := range lines {
		for _, cand := range []string{l.SKU, l.BarCode} {
			if cand == "" {
				continue
			}
			if d := levenshtein.ComputeDistance(code, cand); d < bestDist {
				best = cand
				bestDist = d
			}
		}
	}
	return best
}
