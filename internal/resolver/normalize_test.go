package resolver

import (
	"strings"
	"testing"
)

func TestNormalize_CleanTitleHasNoBrackets(t *testing.T) {
	names := []string{
		"Sonic the Hedgehog 2 (USA, Europe).zip",
		"Legend of Zelda, The (USA) (Rev 1).zip",
		"Mega Man X [b] (USA).zip",
		"Plain Title.zip",
		"Tag Soup (USA) [b1] (Beta 3) (Unl).zip",
	}
	for _, name := range names {
		p := Normalize(name)
		if strings.ContainsAny(p.CleanTitle, "()[]") {
			t.Errorf("Normalize(%q).CleanTitle = %q, contains brackets", name, p.CleanTitle)
		}
	}
}

func TestNormalize_Tags(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		regions  []string
		revision int
		official bool
		badDump  bool
	}{
		{
			name:     "Sonic the Hedgehog 2 (USA, Europe).zip",
			title:    "Sonic the Hedgehog 2",
			regions:  []string{"USA", "EUROPE"},
			official: true,
		},
		{
			name:     "Legend of Zelda, The (USA) (Rev 1).zip",
			title:    "Legend of Zelda, The",
			regions:  []string{"USA"},
			revision: 1,
			official: true,
		},
		{
			name:     "Super Game (Japan) (Rev B).zip",
			title:    "Super Game",
			regions:  []string{"JAPAN"},
			revision: 2,
			official: true,
		},
		{
			name:     "Test Title (USA) (Beta 3).zip",
			title:    "Test Title",
			regions:  []string{"USA"},
			revision: 3,
			official: false,
		},
		{
			name:     "Some Game (Proto).zip",
			title:    "Some Game",
			official: false,
		},
		{
			name:     "Broken Dump (USA) [b].zip",
			title:    "Broken Dump",
			regions:  []string{"USA"},
			official: true,
			badDump:  true,
		},
		{
			name:     "Old Dump [b2].zip",
			title:    "Old Dump",
			official: true,
			badDump:  true,
		},
		{
			name:     "Homebrew Thing (World) (Aftermarket) (Unl).zip",
			title:    "Homebrew Thing",
			regions:  []string{"WORLD"},
			official: false,
		},
		{
			// Dump-group hashes and language codes are not requested
			// vocabularies and must be ignored entirely.
			name:     "Some Game (USA) (En,Fr,De) [hI1234].zip",
			title:    "Some Game",
			regions:  []string{"USA"},
			official: true,
		},
	}

	for _, tt := range tests {
		p := Normalize(tt.name)
		if p.CleanTitle != tt.title {
			t.Errorf("Normalize(%q).CleanTitle = %q, want %q", tt.name, p.CleanTitle, tt.title)
		}
		if len(p.Tags.Regions) != len(tt.regions) {
			t.Errorf("Normalize(%q).Regions = %v, want %v", tt.name, p.Tags.Regions, tt.regions)
		}
		for _, r := range tt.regions {
			if !p.Tags.Regions[r] {
				t.Errorf("Normalize(%q).Regions missing %q", tt.name, r)
			}
		}
		if p.Tags.Revision != tt.revision {
			t.Errorf("Normalize(%q).Revision = %d, want %d", tt.name, p.Tags.Revision, tt.revision)
		}
		if p.Tags.Official != tt.official {
			t.Errorf("Normalize(%q).Official = %v, want %v", tt.name, p.Tags.Official, tt.official)
		}
		if p.Tags.BadDump != tt.badDump {
			t.Errorf("Normalize(%q).BadDump = %v, want %v", tt.name, p.Tags.BadDump, tt.badDump)
		}
	}
}

func TestNormalize_NoBracketGroups(t *testing.T) {
	p := Normalize("Bare Title.zip")
	if p.CleanTitle != "Bare Title" {
		t.Fatalf("CleanTitle = %q, want %q", p.CleanTitle, "Bare Title")
	}
	if len(p.Tags.Regions) != 0 || p.Tags.Revision != 0 || !p.Tags.Official || p.Tags.BadDump {
		t.Fatalf("expected default tags, got %+v", p.Tags)
	}
}

func TestNormalize_UnbalancedBrackets(t *testing.T) {
	p := Normalize("Broken (USA Title.zip")
	if p.CleanTitle != "Broken (USA Title" {
		t.Fatalf("CleanTitle = %q, want unparseable remainder kept as title", p.CleanTitle)
	}
	if !p.Tags.Official || p.Tags.BadDump {
		t.Fatalf("expected default tags for unbalanced name, got %+v", p.Tags)
	}
}

func TestNormalize_HighestRevisionWins(t *testing.T) {
	p := Normalize("Many Revs (Rev 1) (Rev 3) (Rev 2).zip")
	if p.Tags.Revision != 3 {
		t.Fatalf("Revision = %d, want 3", p.Tags.Revision)
	}
}
