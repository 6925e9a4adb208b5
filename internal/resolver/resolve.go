package resolver

import (
	"github.com/rs/zerolog/log"
)

// Options configures one resolution run. The zero value means the
// default region preference ("USA") and acceptance threshold.
type Options struct {
	// PreferredRegion is matched case-insensitively against each
	// candidate's region tags. Advisory, never eliminating.
	PreferredRegion string
	// Threshold is the minimum similarity score for a candidate.
	// Values outside (0,1] fall back to DefaultThreshold.
	Threshold float64
}

// DefaultRegion is the region preferred when none is configured.
const DefaultRegion = "USA"

// Unmatched reasons recorded in Resolution.Reason.
const (
	ReasonEmptyCatalog   = "catalog is empty"
	ReasonBelowThreshold = "no candidate above similarity threshold"
)

// Resolution is the outcome for a single requested title.
type Resolution struct {
	RequestedTitle string
	// MatchedURL is empty when the title went unmatched.
	MatchedURL  string
	MatchedName string
	// Reason explains an unmatched title; empty on success.
	Reason string
}

// Matched reports whether the title resolved to a catalog entry.
func (r Resolution) Matched() bool {
	return r.MatchedURL != ""
}

// Resolve matches each requested title against the catalog and picks
// one winner per title, preserving input order. Titles resolve
// independently: the same catalog entry may win for two different
// titles, and one miss never affects the others. Resolve is total over
// its inputs; degradations are reported through Resolution.Reason.
func Resolve(titles []string, catalog []CatalogEntry, opts Options) []Resolution {
	region := opts.PreferredRegion
	if region == "" {
		region = DefaultRegion
	}
	threshold := opts.Threshold
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}

	// The catalog is fixed for the run; parse each entry once.
	parsed := make([]ParsedName, len(catalog))
	for i, entry := range catalog {
		parsed[i] = Normalize(entry.DisplayName)
	}

	results := make([]Resolution, 0, len(titles))
	for _, title := range titles {
		results = append(results, resolveOne(title, catalog, parsed, region, threshold))
	}
	return results
}

func resolveOne(title string, catalog []CatalogEntry, parsed []ParsedName, region string, threshold float64) Resolution {
	res := Resolution{RequestedTitle: title}
	if len(catalog) == 0 {
		res.Reason = ReasonEmptyCatalog
		return res
	}

	var candidates []ScoredCandidate
	for i, entry := range catalog {
		score := Score(title, parsed[i].CleanTitle)
		if score > 0.5 {
			log.Debug().
				Str("title", title).
				Str("candidate", entry.DisplayName).
				Float64("score", score).
				Msg("fuzzy match candidate")
		}
		if score < threshold {
			continue
		}
		candidates = append(candidates, ScoredCandidate{
			Entry:  entry,
			Parsed: parsed[i],
			Score:  score,
		})
	}

	winner, ok := Rank(candidates, region)
	if !ok {
		res.Reason = ReasonBelowThreshold
		return res
	}
	res.MatchedURL = winner.URL
	res.MatchedName = winner.DisplayName
	return res
}
