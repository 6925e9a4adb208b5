package main

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/angstwad/retro-rom-downloader/internal/aria2"
	"github.com/angstwad/retro-rom-downloader/internal/client"
	"github.com/angstwad/retro-rom-downloader/internal/config"
	"github.com/angstwad/retro-rom-downloader/internal/downloader"
	"github.com/angstwad/retro-rom-downloader/internal/extract"
	"github.com/angstwad/retro-rom-downloader/internal/rename"
	"github.com/angstwad/retro-rom-downloader/internal/resolver"
	"github.com/angstwad/retro-rom-downloader/internal/util"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "romgrab",
		Short: "Match a games list against a ROM archive and download the winners",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
				Level(level).
				With().Timestamp().Logger()
		},
	}
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "Resolve a games list against an archive listing and download matches",
		RunE:  runDownload,
	}
	downloadCmd.Flags().String("games-list", "", "Path to a text file with one game title per line")
	downloadCmd.Flags().String("url", "", "URL of the ROM directory to scrape for download links")
	downloadCmd.Flags().String("output-dir", "", "Directory for downloaded ROMs (default from config)")
	downloadCmd.Flags().String("region", "", "Preferred region, e.g. 'USA' or 'Europe' (default from config)")
	downloadCmd.Flags().String("aria2c-input-file", "aria2c-input.txt", "Path for the aria2c URL list")
	downloadCmd.Flags().Bool("no-unzip", false, "Disable automatic unzipping of downloaded files")
	downloadCmd.Flags().Bool("dry-run", false, "Resolve and print selections without downloading")
	_ = downloadCmd.MarkFlagRequired("games-list")
	_ = downloadCmd.MarkFlagRequired("url")

	renameCmd := &cobra.Command{
		Use:   "rename <directory>",
		Short: "Rewrite downloaded filenames into canonical Title.ext form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rename.Run(args[0])
		},
	}

	rootCmd.AddCommand(downloadCmd, renameCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	gamesList, _ := cmd.Flags().GetString("games-list")
	archiveURL, _ := cmd.Flags().GetString("url")
	inputFile, _ := cmd.Flags().GetString("aria2c-input-file")
	noUnzip, _ := cmd.Flags().GetBool("no-unzip")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	region := cfg.PreferredRegion
	if cmd.Flags().Changed("region") {
		region, _ = cmd.Flags().GetString("region")
	}
	outDir := cfg.OutputDir
	if cmd.Flags().Changed("output-dir") {
		outDir, _ = cmd.Flags().GetString("output-dir")
	}

	titles, err := readGamesList(gamesList)
	if err != nil {
		return err
	}
	if len(titles) == 0 {
		return fmt.Errorf("no games found in %s", gamesList)
	}
	log.Info().Int("titles", len(titles)).Str("list", gamesList).Msg("read games list")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	c := client.New(archiveURL, cfg.RequestsPerSecond)
	log.Info().Str("url", c.BaseURL()).Msg("fetching archive listing")
	entries, err := c.ListDirectory(ctx, "")
	if err != nil {
		return fmt.Errorf("listing archive: %w", err)
	}

	catalog := toCatalog(client.ZipFiles(entries))
	log.Info().Int("files", len(catalog)).Msg("parsed archive listing")
	if len(catalog) == 0 {
		return fmt.Errorf("no .zip files found at %s", archiveURL)
	}

	results := resolver.Resolve(titles, catalog, resolver.Options{
		PreferredRegion: region,
		Threshold:       cfg.MatchThreshold,
	})

	var urls []string
	seen := map[string]bool{}
	matched := 0
	for _, r := range results {
		if !r.Matched() {
			log.Warn().Str("title", r.RequestedTitle).Str("reason", r.Reason).Msg("no match")
			continue
		}
		matched++
		log.Info().Str("title", r.RequestedTitle).Str("file", r.MatchedName).Msg("matched")
		if !seen[r.MatchedURL] {
			seen[r.MatchedURL] = true
			urls = append(urls, r.MatchedURL)
		}
	}
	log.Info().Int("matched", matched).Int("unmatched", len(results)-matched).Msg("resolution complete")

	if len(urls) == 0 {
		return fmt.Errorf("no matching ROMs found for the given criteria")
	}
	if dryRun {
		for _, u := range urls {
			fmt.Println(u)
		}
		return nil
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	if aria2.Available() {
		if err := aria2.WriteInputFile(inputFile, urls); err != nil {
			return err
		}
		if err := aria2.Download(ctx, inputFile, outDir); err != nil {
			return err
		}
	} else {
		log.Warn().Msg("aria2c not found, using built-in downloader")
		if err := downloadAll(ctx, c, outDir, cfg.MaxConcurrentDownloads, urls); err != nil {
			return err
		}
	}

	if noUnzip {
		return nil
	}
	if !extract.Available() {
		log.Warn().Msg("unzip not found, skipping extraction")
		return nil
	}
	return extract.Run(ctx, outDir)
}

// downloadAll fetches every URL with the built-in downloader, printing
// aggregate progress until the queue drains.
func downloadAll(ctx context.Context, c *client.Client, outDir string, maxParallel int, urls []string) error {
	dlm := downloader.NewManager(c, outDir, maxParallel)
	for _, u := range urls {
		dlm.Enqueue(ctx, fileNameFromURL(u), u)
	}

	done := make(chan struct{})
	go func() {
		dlm.Wait()
		close(done)
	}()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			var doneBytes int64
			var progress float64
			completed := 0
			items := dlm.Items()
			for _, it := range items {
				doneBytes += it.DoneBytes.Load()
				progress += it.Progress()
				it.Mu.Lock()
				if it.Status == downloader.StatusCompleted {
					completed++
				}
				it.Mu.Unlock()
			}
			pct := 0.0
			if len(items) > 0 {
				pct = progress / float64(len(items)) * 100
			}
			fmt.Fprintf(os.Stderr, "\r  %d/%d files, %s downloaded (%.0f%%)    ",
				completed, len(items), util.FormatBytes(doneBytes), pct)
		case <-done:
			fmt.Fprintln(os.Stderr)
			failed := dlm.Failed()
			for _, it := range failed {
				log.Error().Err(it.Err).Str("file", it.Name).Msg("download failed")
			}
			if len(failed) > 0 {
				return fmt.Errorf("%d download(s) failed", len(failed))
			}
			return nil
		}
	}
}

// readGamesList reads one title per line, skipping blanks.
func readGamesList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening games list: %w", err)
	}
	defer f.Close()

	var titles []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if trimmed := strings.TrimSpace(scanner.Text()); trimmed != "" {
			titles = append(titles, trimmed)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading games list: %w", err)
	}
	return titles, nil
}

func toCatalog(entries []client.Entry) []resolver.CatalogEntry {
	catalog := make([]resolver.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		catalog = append(catalog, resolver.CatalogEntry{
			DisplayName: e.Name,
			URL:         e.URL,
		})
	}
	return catalog
}

func fileNameFromURL(u string) string {
	name := path.Base(u)
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	return name
}
