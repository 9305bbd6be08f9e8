package analyzer

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxTypoDistance bounds the edit distance of a "did you mean" suggestion.
// Subsequence matches are held to it too, so a short name does not suggest
// every longer name that happens to contain its letters.
const maxTypoDistance = 2

// findClosestMatch picks the best candidate for a misspelt name, or "".
func findClosestMatch(target string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindFold(target, candidates)
	sort.Sort(ranks)
	for _, r := range ranks {
		if r.Distance <= maxTypoDistance {
			return r.Target
		}
	}

	best, bestDist := "", maxTypoDistance+1
	for _, c := range candidates {
		// a one-letter name is one edit away from every other one-letter name
		if d := fuzzy.LevenshteinDistance(target, c); d < bestDist && d < len(target) {
			best, bestDist = c, d
		}
	}
	return best
}

func formatHint(match string) string {
	if match == "" {
		return ""
	}
	return "; did you mean '" + match + "'?"
}

// hint suggests a visible name close to an undeclared one.
func (w *walker) hint(name string) string {
	return formatHint(findClosestMatch(name, w.symbolTable.VisibleNames()))
}

// functionHint only suggests names that are functions.
func (w *walker) functionHint(name string) string {
	var funcs []string
	for _, candidate := range w.symbolTable.VisibleNames() {
		if sym, ok := w.symbolTable.Find(candidate); ok && sym.IsFunction() {
			funcs = append(funcs, candidate)
		}
	}
	return formatHint(findClosestMatch(name, funcs))
}
