package resolver

import "testing"

func TestScore_ExactMatch(t *testing.T) {
	if s := Score("Sonic the Hedgehog 2", "Sonic the Hedgehog 2"); s != 1.0 {
		t.Fatalf("exact match score = %v, want 1.0", s)
	}
}

func TestScore_CaseAndPunctuationInsensitive(t *testing.T) {
	if s := Score("sonic the hedgehog 2", "Sonic: The Hedgehog-2"); s != 1.0 {
		t.Fatalf("normalized match score = %v, want 1.0", s)
	}
	if s := Score("Sonic & Knuckles", "Sonic and Knuckles"); s != 1.0 {
		t.Fatalf("ampersand match score = %v, want 1.0", s)
	}
}

func TestScore_TrailingArticleScoresHigh(t *testing.T) {
	if s := Score("Zelda II", "Zelda II, The"); s < 0.9 {
		t.Fatalf("Score(Zelda II, Zelda II, The) = %v, want >= 0.9", s)
	}
	if s := Score("Legend of Zelda", "Legend of Zelda, The"); s < 0.9 {
		t.Fatalf("article-suffixed score = %v, want >= 0.9", s)
	}
}

func TestScore_ExactBeatsSubsetTitle(t *testing.T) {
	exact := Score("Sonic the Hedgehog 2", "Sonic the Hedgehog 2")
	subset := Score("Sonic the Hedgehog 2", "Sonic the Hedgehog")
	if subset >= 1.0 {
		t.Fatalf("subset title score = %v, want < 1.0", subset)
	}
	if subset >= exact {
		t.Fatalf("subset score %v >= exact score %v, want exact to outrank", subset, exact)
	}
}

func TestScore_UnrelatedTitlesScoreLow(t *testing.T) {
	pairs := [][2]string{
		{"Sonic the Hedgehog 2", "Streets of Rage"},
		{"Legend of Zelda", "Metroid"},
	}
	for _, p := range pairs {
		if s := Score(p[0], p[1]); s >= DefaultThreshold {
			t.Errorf("Score(%q, %q) = %v, want < %v", p[0], p[1], s, DefaultThreshold)
		}
	}
}

func TestScore_EmptyInput(t *testing.T) {
	if s := Score("", "Something"); s != 0 {
		t.Fatalf("empty requested title score = %v, want 0", s)
	}
	if s := Score("", ""); s != 1.0 {
		t.Fatalf("two empty strings score = %v, want 1.0", s)
	}
}

func TestScore_Deterministic(t *testing.T) {
	first := Score("Super Mario World", "Super Mario World 2 (USA)")
	for i := 0; i < 10; i++ {
		if s := Score("Super Mario World", "Super Mario World 2 (USA)"); s != first {
			t.Fatalf("score changed between calls: %v != %v", s, first)
		}
	}
}
