// Package downloader provides the built-in concurrent HTTP downloader
// used when aria2c is not installed. Downloads are all-or-nothing: a
// file is fetched into a .part temp file and renamed on completion.
package downloader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/angstwad/retro-rom-downloader/internal/client"
)

// Status represents a download's state.
type Status int

const (
	StatusQueued Status = iota
	StatusActive
	StatusCompleted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "Queued"
	case StatusActive:
		return "Downloading"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Item represents a single download.
type Item struct {
	Name      string
	URL       string
	DestPath  string
	DoneBytes atomic.Int64
	StartedAt time.Time

	Mu         sync.Mutex
	Status     Status
	TotalBytes int64 // 0 until the server reports a content length
	Err        error
}

// Progress returns the download's completion fraction. A completed
// item reports 1.0; otherwise 0 when the total size is unknown.
func (it *Item) Progress() float64 {
	it.Mu.Lock()
	total := it.TotalBytes
	status := it.Status
	it.Mu.Unlock()

	if status == StatusCompleted {
		return 1.0
	}
	if total <= 0 {
		return 0
	}
	return float64(it.DoneBytes.Load()) / float64(total)
}

// Manager runs downloads with bounded parallelism.
type Manager struct {
	client      *client.Client
	downloadDir string

	mu    sync.Mutex
	items []*Item
	sem   chan struct{}
	wg    sync.WaitGroup
}

// NewManager creates a download manager writing into downloadDir.
func NewManager(c *client.Client, downloadDir string, maxParallel int) *Manager {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Manager{
		client:      c,
		downloadDir: downloadDir,
		sem:         make(chan struct{}, maxParallel),
	}
}

// Enqueue adds a download and starts processing it in the background.
// URLs already queued are ignored.
func (m *Manager) Enqueue(ctx context.Context, name, fileURL string) *Item {
	m.mu.Lock()
	for _, it := range m.items {
		if it.URL == fileURL {
			m.mu.Unlock()
			return it
		}
	}

	item := &Item{
		Name:     name,
		URL:      fileURL,
		DestPath: filepath.Join(m.downloadDir, name),
		Status:   StatusQueued,
	}
	m.items = append(m.items, item)
	m.mu.Unlock()

	m.wg.Add(1)
	go m.processItem(ctx, item)

	return item
}

// Wait blocks until every enqueued download has finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Items returns a snapshot of all download items.
func (m *Manager) Items() []*Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*Item, len(m.items))
	copy(result, m.items)
	return result
}

// Failed returns the items that did not complete.
func (m *Manager) Failed() []*Item {
	var failed []*Item
	for _, it := range m.Items() {
		it.Mu.Lock()
		if it.Status == StatusFailed {
			failed = append(failed, it)
		}
		it.Mu.Unlock()
	}
	return failed
}

func (m *Manager) processItem(ctx context.Context, item *Item) {
	defer m.wg.Done()

	// Acquire semaphore slot.
	select {
	case m.sem <- struct{}{}:
	case <-ctx.Done():
		item.Mu.Lock()
		item.Status = StatusFailed
		item.Err = ctx.Err()
		item.Mu.Unlock()
		return
	}
	defer func() { <-m.sem }()

	item.Mu.Lock()
	item.Status = StatusActive
	item.StartedAt = time.Now()
	item.Mu.Unlock()

	err := m.downloadFile(ctx, item)

	item.Mu.Lock()
	if err != nil {
		item.Status = StatusFailed
		item.Err = err
	} else {
		item.Status = StatusCompleted
	}
	item.Mu.Unlock()
}

func (m *Manager) downloadFile(ctx context.Context, item *Item) error {
	if err := os.MkdirAll(filepath.Dir(item.DestPath), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	body, contentLength, err := m.client.DownloadFile(ctx, item.URL)
	if err != nil {
		return err
	}
	defer body.Close()

	if contentLength > 0 {
		item.Mu.Lock()
		item.TotalBytes = contentLength
		item.Mu.Unlock()
	}

	partPath := item.DestPath + ".part"
	f, err := os.OpenFile(partPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	buf := make([]byte, 32*1024)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := body.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				return fmt.Errorf("writing file: %w", werr)
			}
			item.DoneBytes.Add(int64(n))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
	}

	f.Close()
	if err := os.Rename(partPath, item.DestPath); err != nil {
		return fmt.Errorf("renaming file: %w", err)
	}

	return nil
}
