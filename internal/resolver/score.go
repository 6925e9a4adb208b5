package resolver

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// DefaultThreshold is the minimum similarity a candidate must reach
// before it is considered for ranking.
const DefaultThreshold = 0.6

// tokenSetScale keeps token-set scores strictly below 1.0 so a
// verbatim title match always outranks a subset or reordered one
// ("Sonic the Hedgehog" must not tie "Sonic the Hedgehog 2" when the
// latter is requested).
const tokenSetScale = 0.95

var scorePunctReplacer = strings.NewReplacer(
	",", " ",
	":", " ",
	";", " ",
	"-", " ",
	"_", " ",
	".", " ",
	"/", " ",
	"'", "",
	"!", "",
	"?", "",
)

// Score computes the similarity of a requested title against a
// candidate's clean title, in [0,1]. Both sides are case-folded and
// punctuation-normalized first. The result is the best of a direct
// edit-distance comparison and a token-set comparison, so reordered or
// suffixed words ("Zelda II" vs "Zelda II, The") still score high.
// Only an exactly equal normalized pair scores 1.0.
// Deterministic: no state, no randomness.
func Score(requested, candidate string) float64 {
	a := normalizeForScore(requested)
	b := normalizeForScore(candidate)
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0
	}

	score := editSimilarity(a, b)
	if ts := tokenSetSimilarity(a, b); ts > score {
		score = ts
	}
	return score
}

func normalizeForScore(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", " and ")
	s = scorePunctReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// editSimilarity is a normalized Levenshtein ratio: 1.0 for equal
// strings, degrading with edit distance relative to the longer string.
func editSimilarity(a, b string) float64 {
	dist := edlib.LevenshteinDistance(a, b)
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1.0
	}
	sim := 1.0 - float64(dist)/float64(longest)
	if sim < 0 {
		return 0
	}
	return sim
}

// tokenSetSimilarity compares the sorted token intersection against
// each side's full sorted token string and returns the best ratio,
// scaled by tokenSetScale. A title whose words are a superset of the
// query's words scores tokenSetScale, which is what makes trailing
// articles and subtitles cheap without ever tying a verbatim match.
func tokenSetSimilarity(a, b string) float64 {
	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)

	setA := make(map[string]bool, len(tokensA))
	for _, t := range tokensA {
		setA[t] = true
	}
	setB := make(map[string]bool, len(tokensB))
	for _, t := range tokensB {
		setB[t] = true
	}

	var inter, onlyA, onlyB []string
	for t := range setA {
		if setB[t] {
			inter = append(inter, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if !setA[t] {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(inter)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(inter, " ")
	full1 := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	full2 := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	if base == "" {
		return tokenSetScale * editSimilarity(full1, full2)
	}

	best := editSimilarity(base, full1)
	if s := editSimilarity(base, full2); s > best {
		best = s
	}
	if s := editSimilarity(full1, full2); s > best {
		best = s
	}
	return tokenSetScale * best
}
