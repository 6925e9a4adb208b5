// Package extract unpacks downloaded zip archives with the external
// unzip utility and removes each archive after a successful extract.
package extract

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Available reports whether unzip is installed and on PATH.
func Available() bool {
	_, err := exec.LookPath("unzip")
	return err == nil
}

// Run extracts every .zip file in dir into dir, deleting archives that
// extracted cleanly. Per-archive failures are logged and skipped.
func Run(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".zip") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		zipPath := filepath.Join(dir, e.Name())
		cmd := exec.CommandContext(ctx, "unzip", "-o", zipPath, "-d", dir)
		if out, err := cmd.CombinedOutput(); err != nil {
			log.Error().Err(err).Str("archive", e.Name()).Str("output", strings.TrimSpace(string(out))).Msg("unzip failed")
			continue
		}

		if err := os.Remove(zipPath); err != nil {
			log.Warn().Err(err).Str("archive", e.Name()).Msg("could not remove archive after extraction")
			continue
		}
		log.Info().Str("archive", e.Name()).Msg("extracted")
	}

	return nil
}
