package resolver

import "testing"

func candidate(name, url string, score float64) ScoredCandidate {
	return ScoredCandidate{
		Entry:  CatalogEntry{DisplayName: name, URL: url},
		Parsed: Normalize(name),
		Score:  score,
	}
}

func TestRank_Empty(t *testing.T) {
	if _, ok := Rank(nil, "USA"); ok {
		t.Fatal("Rank(nil) returned a winner")
	}
}

func TestRank_PrefersOfficialOverBeta(t *testing.T) {
	cands := []ScoredCandidate{
		candidate("Sonic the Hedgehog 2 (Beta) (USA).zip", "u/beta", 1.0),
		candidate("Sonic the Hedgehog 2 (USA, Europe).zip", "u/retail", 1.0),
	}
	winner, ok := Rank(cands, "USA")
	if !ok || winner.URL != "u/retail" {
		t.Fatalf("winner = %+v, want retail release", winner)
	}
}

func TestRank_BetaWinsWhenOnlyCandidate(t *testing.T) {
	cands := []ScoredCandidate{
		candidate("Sonic the Hedgehog 2 (Beta) (USA).zip", "u/beta", 1.0),
	}
	winner, ok := Rank(cands, "USA")
	if !ok || winner.URL != "u/beta" {
		t.Fatalf("winner = %+v, want the sole beta candidate", winner)
	}
}

func TestRank_RejectsBadDumps(t *testing.T) {
	cands := []ScoredCandidate{
		candidate("Some Game (USA) [b].zip", "u/bad", 1.0),
		candidate("Some Game (USA).zip", "u/good", 1.0),
	}
	winner, ok := Rank(cands, "USA")
	if !ok || winner.URL != "u/good" {
		t.Fatalf("winner = %+v, want the verified dump", winner)
	}

	// All bad: fall back rather than return nothing.
	onlyBad := []ScoredCandidate{
		candidate("Some Game (USA) [b].zip", "u/bad", 1.0),
	}
	winner, ok = Rank(onlyBad, "USA")
	if !ok || winner.URL != "u/bad" {
		t.Fatalf("winner = %+v, want fallback to bad dump", winner)
	}
}

func TestRank_PrefersHigherRevision(t *testing.T) {
	cands := []ScoredCandidate{
		candidate("Some Game (USA).zip", "u/rev0", 1.0),
		candidate("Some Game (USA) (Rev 1).zip", "u/rev1", 1.0),
	}
	winner, ok := Rank(cands, "USA")
	if !ok || winner.URL != "u/rev1" {
		t.Fatalf("winner = %+v, want Rev 1", winner)
	}
}

func TestRank_RegionIsAdvisory(t *testing.T) {
	cands := []ScoredCandidate{
		candidate("Import Only Game (Japan).zip", "u/jp", 1.0),
	}
	winner, ok := Rank(cands, "USA")
	if !ok || winner.URL != "u/jp" {
		t.Fatalf("winner = %+v, want the Japan release despite USA preference", winner)
	}
}

func TestRank_RegionPreferredWhenAvailable(t *testing.T) {
	cands := []ScoredCandidate{
		candidate("Some Game (Japan).zip", "u/jp", 1.0),
		candidate("Some Game (USA).zip", "u/us", 1.0),
	}
	winner, ok := Rank(cands, "usa")
	if !ok || winner.URL != "u/us" {
		t.Fatalf("winner = %+v, want the USA release (case-insensitive preference)", winner)
	}
}

func TestRank_ScoreBeatsRevision(t *testing.T) {
	cands := []ScoredCandidate{
		candidate("Some Game Deluxe (USA) (Rev 2).zip", "u/deluxe", 0.8),
		candidate("Some Game (USA).zip", "u/plain", 0.95),
	}
	winner, ok := Rank(cands, "USA")
	if !ok || winner.URL != "u/plain" {
		t.Fatalf("winner = %+v, want higher-scoring candidate over higher revision", winner)
	}
}

func TestRank_ShortestNameBreaksTies(t *testing.T) {
	cands := []ScoredCandidate{
		candidate("Some Game (USA) (Promotional Reprint Extra).zip", "u/long", 1.0),
		candidate("Some Game (USA).zip", "u/short", 1.0),
	}
	winner, ok := Rank(cands, "USA")
	if !ok || winner.URL != "u/short" {
		t.Fatalf("winner = %+v, want least-decorated name", winner)
	}
}

func TestRank_StableOnFullTie(t *testing.T) {
	cands := []ScoredCandidate{
		candidate("Some Game A (USA).zip", "u/first", 1.0),
		candidate("Some Game B (USA).zip", "u/second", 1.0),
	}
	winner, ok := Rank(cands, "USA")
	if !ok || winner.URL != "u/first" {
		t.Fatalf("winner = %+v, want first-encountered on full tie", winner)
	}
}
