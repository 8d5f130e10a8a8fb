// Package namematch implements fuzzy name similarity for entity resolution.
// Four complementary metrics cover the ways supplier name variants fail to
// match exactly (edits, reordering, abbreviation, truncation); callers reduce
// them through Score, which takes the maximum.  All scores are in [0,100].
//
// Inputs are expected to be normalized name keys; the metrics themselves do
// no case folding or punctuation handling.
package namematch

import (
	"sort"
	"strings"
)

// Ratio is the full-sequence edit-based similarity: 100 times the normalized
// indel similarity of the two strings.  Identical strings score 100, fully
// disjoint strings 0.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	dist := indelDistance(ra, rb)
	return (1 - float64(dist)/float64(total)) * 100
}

// TokenSortRatio sorts the tokens of both strings before applying Ratio,
// making the comparison insensitive to word order ("industries acme" vs
// "acme industries").
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortTokens(a), sortTokens(b))
}

// TokenSetRatio compares the token intersection against each side's
// remainder, scoring highly when one name's tokens are a subset of the
// other's regardless of extra tokens on either side.
func TokenSetRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	// With an empty side the intersection comparisons degenerate to "" vs ""
	// and would score 100; fall back to Ratio so emptiness scores as it does
	// everywhere else.
	if len(ta) == 0 || len(tb) == 0 {
		return Ratio(a, b)
	}

	var inter, diffA, diffB []string
	for tok := range ta {
		if tb[tok] {
			inter = append(inter, tok)
		} else {
			diffA = append(diffA, tok)
		}
	}
	for tok := range tb {
		if !ta[tok] {
			diffB = append(diffB, tok)
		}
	}
	sort.Strings(inter)
	sort.Strings(diffA)
	sort.Strings(diffB)

	sect := strings.Join(inter, " ")
	combA := joinNonEmpty(sect, strings.Join(diffA, " "))
	combB := joinNonEmpty(sect, strings.Join(diffB, " "))

	best := Ratio(sect, combA)
	if r := Ratio(sect, combB); r > best {
		best = r
	}
	if r := Ratio(combA, combB); r > best {
		best = r
	}
	return best
}

// PartialRatio slides the shorter string over the longer and returns the best
// window Ratio, so that "acme" scores highly against "acme holdings
// international".  Direction-sensitive by design: the shorter argument is the
// one aligned.
func PartialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 100
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	short, long := ra, rb
	if len(short) > len(long) {
		short, long = long, short
	}

	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		window := long[i : i+len(short)]
		r := Ratio(string(short), string(window))
		if r > best {
			best = r
		}
		if best == 100 {
			break
		}
	}
	return best
}

// Score reduces all four metrics to a single similarity via maximum.
// Maximizing recall is deliberate; the resolver's acceptance threshold
// controls precision.
func Score(a, b string) float64 {
	best := Ratio(a, b)
	if r := TokenSortRatio(a, b); r > best {
		best = r
	}
	if r := TokenSetRatio(a, b); r > best {
		best = r
	}
	if r := PartialRatio(a, b); r > best {
		best = r
	}
	return best
}

// indelDistance is the edit distance restricted to insertions and deletions
// (substitution counts as both), computed with a two-row DP.
func indelDistance(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1]
			} else {
				del := prev[j] + 1
				ins := curr[j-1] + 1
				if del < ins {
					curr[j] = del
				} else {
					curr[j] = ins
				}
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
