package nlu

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	overlapWeight        = 0.8
	forwardContainment   = 0.9
	reverseContainment   = 0.7
	substringWordCredit  = 0.5
	similarWordCredit    = 0.7
	similarWordThreshold = 0.8
	minSignificantRunes  = 3
)

// SequenceRatio returns 2*M/T where M is the number of runes in the matching
// blocks of a and b and T is their combined rune length. Two empty strings
// are identical and score 1.
func SequenceRatio(a, b string) float64 {
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func significantWords(ws []string, stopWords map[string]struct{}) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		if _, stop := stopWords[w]; stop {
			continue
		}
		if utf8.RuneCountInString(w) < minSignificantRunes {
			continue
		}
		out = append(out, w)
	}
	return out
}

// overlapScore rewards shared significant words, normalised by the number of
// significant pattern words. Partial credits accumulate per word pair, so the
// result is deliberately left unclamped and can exceed 1 for short patterns.
func overlapScore(userSig, patternSig []string) float64 {
	if len(patternSig) == 0 {
		return 0
	}

	inPattern := make(map[string]struct{}, len(patternSig))
	for _, p := range patternSig {
		inPattern[p] = struct{}{}
	}

	total := 0.0
	for _, u := range userSig {
		if _, ok := inPattern[u]; ok {
			total += 1.0
		}
	}
	for _, u := range userSig {
		for _, p := range patternSig {
			if u == p {
				continue
			}
			if strings.Contains(p, u) || strings.Contains(u, p) {
				total += substringWordCredit
			} else if SequenceRatio(u, p) > similarWordThreshold {
				total += similarWordCredit
			}
		}
	}
	return total / float64(len(patternSig))
}

func containmentScore(utterance, pattern string) float64 {
	switch {
	case strings.Contains(utterance, pattern):
		return forwardContainment
	case strings.Contains(pattern, utterance):
		return reverseContainment
	default:
		return 0
	}
}

func combinedScore(sim, overlap, containment float64) float64 {
	return math.Max(sim, math.Max(overlap*overlapWeight, containment))
}
