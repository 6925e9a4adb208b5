// Package rename rewrites downloaded filenames into a canonical
// "Title.ext" form: bracketed metadata tags are stripped and a
// trailing ", The"-style article suffix is moved to the front.
package rename

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	parenTagRegex   = regexp.MustCompile(`\s*\([^)]*\)`)
	bracketTagRegex = regexp.MustCompile(`\s*\[[^\]]*\]`)
	spacesRegex     = regexp.MustCompile(`\s+`)
)

// articleSuffixes are comma-separated trailing articles moved to the
// front of the title ("Legend of Zelda, The" -> "The Legend of Zelda").
var articleSuffixes = []string{", The", ", A", ", An"}

// CleanName returns the canonical form of a filename: all bracketed
// tag groups removed, whitespace collapsed, a trailing bare article
// suffix moved to the front, extension untouched. Idempotent.
func CleanName(filename string) string {
	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)

	name = parenTagRegex.ReplaceAllString(name, "")
	name = bracketTagRegex.ReplaceAllString(name, "")
	name = strings.TrimSpace(spacesRegex.ReplaceAllString(name, " "))

	for _, suffix := range articleSuffixes {
		if strings.HasSuffix(name, suffix) {
			article := strings.TrimPrefix(suffix, ", ")
			name = article + " " + strings.TrimSuffix(name, suffix)
			break
		}
	}

	return name + ext
}

// Run walks root and renames every regular file to its CleanName form.
// Individual rename failures are logged and skipped; Run only fails
// when the directory itself cannot be walked.
func Run(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	renamed := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		clean := CleanName(d.Name())
		if clean == d.Name() {
			return nil
		}

		newPath := filepath.Join(filepath.Dir(path), clean)
		if err := os.Rename(path, newPath); err != nil {
			log.Error().Err(err).Str("file", d.Name()).Msg("rename failed")
			return nil
		}
		renamed++
		log.Info().Str("from", d.Name()).Str("to", clean).Msg("renamed")
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", root, err)
	}

	log.Info().Int("renamed", renamed).Msg("rename pass complete")
	return nil
}
