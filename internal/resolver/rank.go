package resolver

import (
	"sort"
	"strings"
)

// ScoredCandidate pairs a catalog entry with its parsed name and the
// similarity score it achieved against a requested title.
type ScoredCandidate struct {
	Entry  CatalogEntry
	Parsed ParsedName
	Score  float64
}

// Rank selects the single best candidate. Selection is a strict
// filter-then-sort pipeline; whenever a stage would eliminate every
// remaining candidate it falls back to the stage's input instead:
//
//  1. drop verified-bad dumps
//  2. prefer official releases over beta/proto/demo
//  3. prefer the requested region (advisory: a game never released
//     there still resolves)
//  4. sort by score, then revision, then shortest display name, then
//     catalog order
//
// Candidates must be passed in catalog order. Returns false only when
// the candidate list is empty.
func Rank(candidates []ScoredCandidate, preferredRegion string) (CatalogEntry, bool) {
	if len(candidates) == 0 {
		return CatalogEntry{}, false
	}

	// Work on a copy so the final sort never reorders the caller's slice.
	pool := append([]ScoredCandidate(nil), candidates...)
	pool = filterWithFallback(pool, func(c ScoredCandidate) bool {
		return !c.Parsed.Tags.BadDump
	})
	pool = filterWithFallback(pool, func(c ScoredCandidate) bool {
		return c.Parsed.Tags.Official
	})

	if region := strings.ToUpper(strings.TrimSpace(preferredRegion)); region != "" {
		pool = filterWithFallback(pool, func(c ScoredCandidate) bool {
			return c.Parsed.Tags.Regions[region]
		})
	}

	// Stable sort keeps catalog order as the final tie-break.
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].Score != pool[j].Score {
			return pool[i].Score > pool[j].Score
		}
		if pool[i].Parsed.Tags.Revision != pool[j].Parsed.Tags.Revision {
			return pool[i].Parsed.Tags.Revision > pool[j].Parsed.Tags.Revision
		}
		return len(pool[i].Entry.DisplayName) < len(pool[j].Entry.DisplayName)
	})

	return pool[0].Entry, true
}

// filterWithFallback keeps candidates passing the predicate, returning
// the input unchanged when nothing would survive.
func filterWithFallback(in []ScoredCandidate, keep func(ScoredCandidate) bool) []ScoredCandidate {
	out := make([]ScoredCandidate, 0, len(in))
	for _, c := range in {
		if keep(c) {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return in
	}
	return out
}
