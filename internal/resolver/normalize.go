package resolver

import (
	"regexp"
	"strings"
)

// CatalogEntry is one downloadable file from the remote archive listing.
type CatalogEntry struct {
	DisplayName string
	URL         string
}

// TagSet holds the structured facts parsed out of a display name's
// bracketed metadata groups.
type TagSet struct {
	// Regions is the set of release regions, keyed by canonical
	// uppercase name (e.g. "USA", "EUROPE").
	Regions map[string]bool
	// Revision is the release revision number, 0 for the unrevised
	// baseline. Letter revisions map to their alphabet position.
	Revision int
	// Official is false for beta/proto/demo/unlicensed-style releases.
	Official bool
	// BadDump is true when the dump is marked as failing verification.
	BadDump bool
}

// ParsedName is a display name split into its clean title and tags.
type ParsedName struct {
	CleanTitle string
	Tags       TagSet
}

// regionVocab maps lowercase region tokens to their canonical form.
// Names follow the No-Intro convention.
var regionVocab = map[string]string{
	"usa":         "USA",
	"europe":      "EUROPE",
	"japan":       "JAPAN",
	"world":       "WORLD",
	"asia":        "ASIA",
	"australia":   "AUSTRALIA",
	"brazil":      "BRAZIL",
	"canada":      "CANADA",
	"china":       "CHINA",
	"france":      "FRANCE",
	"germany":     "GERMANY",
	"italy":       "ITALY",
	"korea":       "KOREA",
	"netherlands": "NETHERLANDS",
	"spain":       "SPAIN",
	"sweden":      "SWEDEN",
	"uk":          "UK",
}

// unofficialVocab marks tokens that identify a release as something
// other than an official retail dump.
var unofficialVocab = map[string]bool{
	"beta":        true,
	"proto":       true,
	"prototype":   true,
	"demo":        true,
	"alpha":       true,
	"sample":      true,
	"unl":         true,
	"unlicensed":  true,
	"pirate":      true,
	"aftermarket": true,
	"hack":        true,
}

var (
	// Matches "Rev 1", "Rev1", "Rev A" style revision tokens.
	revTokenRegex = regexp.MustCompile(`^rev\s*([0-9]+|[a-z])$`)
	// Matches "Beta 3" / "Proto 2": numbered pre-release revisions.
	preRelRevRegex = regexp.MustCompile(`^(beta|proto)\s*([0-9]+)$`)
	// Matches bad dump markers: "b", "b1", "bad dump".
	badDumpRegex = regexp.MustCompile(`^(b[0-9]*|bad dump)$`)
)

// romExtensions are file extensions stripped before title parsing.
var romExtensions = map[string]bool{
	".zip": true, ".7z": true, ".rar": true, ".gz": true,
	".nes": true, ".sfc": true, ".smc": true, ".md": true, ".gen": true,
	".gb": true, ".gbc": true, ".gba": true, ".gg": true, ".sms": true,
	".n64": true, ".z64": true, ".nds": true, ".iso": true, ".chd": true,
	".bin": true, ".rom": true,
}

// Normalize splits a catalog display name into a clean title and a set
// of structured tags. Bracketed groups delimited by (...) or [...] are
// consumed as tag groups; everything else becomes the title. Unbalanced
// brackets degrade to plain title text. Normalize never fails.
func Normalize(displayName string) ParsedName {
	name := stripExtension(displayName)

	var title strings.Builder
	tags := TagSet{
		Regions:  map[string]bool{},
		Official: true,
	}

	for i := 0; i < len(name); {
		ch := name[i]
		if ch != '(' && ch != '[' {
			title.WriteByte(ch)
			i++
			continue
		}
		closer := byte(')')
		if ch == '[' {
			closer = ']'
		}
		end := strings.IndexByte(name[i+1:], closer)
		if end < 0 {
			// Unbalanced bracket: keep the remainder as title text.
			title.WriteString(name[i:])
			break
		}
		applyTagGroup(name[i+1:i+1+end], &tags)
		i += end + 2
	}

	return ParsedName{
		CleanTitle: strings.Join(strings.Fields(title.String()), " "),
		Tags:       tags,
	}
}

// applyTagGroup splits a bracketed group on commas and folds each token
// into the tag set. Tokens outside the known vocabularies are ignored.
func applyTagGroup(group string, tags *TagSet) {
	for _, raw := range strings.Split(group, ",") {
		token := strings.ToLower(strings.TrimSpace(raw))
		if token == "" {
			continue
		}

		if canonical, ok := regionVocab[token]; ok {
			tags.Regions[canonical] = true
			continue
		}

		if badDumpRegex.MatchString(token) {
			tags.BadDump = true
			continue
		}

		if m := revTokenRegex.FindStringSubmatch(token); m != nil {
			if rev := parseRevision(m[1]); rev > tags.Revision {
				tags.Revision = rev
			}
			continue
		}

		if m := preRelRevRegex.FindStringSubmatch(token); m != nil {
			tags.Official = false
			if rev := parseRevision(m[2]); rev > tags.Revision {
				tags.Revision = rev
			}
			continue
		}

		// Quality markers may carry trailing detail ("Beta", "Demo 1",
		// "Unl"); the leading word decides.
		if fields := strings.Fields(token); len(fields) > 0 && unofficialVocab[fields[0]] {
			tags.Official = false
		}
	}
}

// parseRevision converts a revision token into an ordering integer.
// Numeric tokens parse directly; a single letter maps to its alphabet
// position so "Rev B" orders above "Rev 1".
func parseRevision(token string) int {
	if len(token) == 1 && token[0] >= 'a' && token[0] <= 'z' {
		return int(token[0]-'a') + 1
	}
	rev := 0
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return 0
		}
		rev = rev*10 + int(token[i]-'0')
	}
	return rev
}

func stripExtension(name string) string {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return name
	}
	if romExtensions[strings.ToLower(name[dot:])] {
		return name[:dot]
	}
	return name
}
