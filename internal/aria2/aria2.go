// Package aria2 drives the external aria2c bulk downloader.
package aria2

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Available reports whether aria2c is installed and on PATH.
func Available() bool {
	_, err := exec.LookPath("aria2c")
	return err == nil
}

// WriteInputFile writes one URL per line to path, the format aria2c's
// -i flag expects.
func WriteInputFile(path string, urls []string) error {
	var sb strings.Builder
	for _, u := range urls {
		sb.WriteString(u)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing aria2c input file: %w", err)
	}
	return nil
}

// Download invokes aria2c against an input file, saving into
// outputDir. Runs with 16 connections per file.
func Download(ctx context.Context, inputFile, outputDir string) error {
	cmd := exec.CommandContext(ctx, "aria2c",
		"-i", inputFile,
		"-d", outputDir,
		"--console-log-level=warn",
		"-x", "16",
		"-s", "16",
		"-k", "1M",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	log.Info().Str("input", inputFile).Str("dir", outputDir).Msg("starting aria2c")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("aria2c: %w", err)
	}
	return nil
}
