package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

// Entry represents a file or directory in a remote archive listing.
type Entry struct {
	Name  string
	URL   string // Full URL
	Size  string // Human-readable size (e.g. "1.2M") or empty
	Date  string // Last modified date string
	IsDir bool
}

// Client fetches directory listings and files from a ROM archive
// mirror over HTTP.
type Client struct {
	listHTTP *http.Client // Short timeout for directory listings
	dlHTTP   *http.Client // No timeout for file downloads (managed by context)
	limiter  *rate.Limiter
	baseURL  string
}

// New creates a client rooted at the archive directory URL.
func New(baseURL string, reqPerSec float64) *Client {
	if reqPerSec <= 0 {
		reqPerSec = 5.0
	}

	return &Client{
		listHTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
		dlHTTP: &http.Client{
			// No timeout -- downloads are long-running and controlled by
			// context. A client timeout includes body read time in Go,
			// which would kill any large download.
		},
		limiter: rate.NewLimiter(rate.Limit(reqPerSec), 5),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListDirectory fetches and parses the archive directory listing at
// dirPath (relative to the base URL; empty for the base itself).
func (c *Client) ListDirectory(ctx context.Context, dirPath string) ([]Entry, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	dirURL := c.baseURL + "/" + dirPath
	if !strings.HasSuffix(dirURL, "/") {
		dirURL += "/"
	}

	req, err := http.NewRequestWithContext(ctx, "GET", dirURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "romgrab/1.0")
	req.Header.Set("Referer", dirURL)

	resp, err := c.listHTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", dirURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, dirURL)
	}

	return parseDirectoryListing(resp.Body, dirURL)
}

// DownloadFile starts a download and returns the response body (caller
// must close) and the content length.
func (c *Client) DownloadFile(ctx context.Context, fileURL string) (io.ReadCloser, int64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	// Derive the directory URL for the Referer header.
	parts := strings.Split(fileURL, "/")
	referer := strings.Join(parts[:len(parts)-1], "/") + "/"

	req, err := http.NewRequestWithContext(ctx, "GET", fileURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", "romgrab/1.0")
	req.Header.Set("Referer", referer)

	resp, err := c.dlHTTP.Do(req)
	if err != nil {
		return nil, 0, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("HTTP %d downloading %s", resp.StatusCode, fileURL)
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.Contains(contentType, "text/html") {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("refusing HTML response for file URL %s", fileURL)
	}

	return resp.Body, resp.ContentLength, nil
}

// ZipFiles filters a listing down to .zip file entries, the only
// entries the archive matcher operates on.
func ZipFiles(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name), ".zip") {
			out = append(out, e)
		}
	}
	return out
}

// parseDirectoryListing parses an Apache/nginx autoindex HTML page
// into entries. Both table-based and <pre>-based listings are handled;
// entries are deduplicated by URL.
func parseDirectoryListing(r io.Reader, dirURL string) ([]Entry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var entries []Entry
	seen := map[string]struct{}{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			if entry, ok := parseTableRow(n, dirURL); ok {
				if _, exists := seen[entry.URL]; !exists {
					seen[entry.URL] = struct{}{}
					entries = append(entries, entry)
				}
			}
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			if entry, ok := parseAnchorLink(n, dirURL); ok {
				if _, exists := seen[entry.URL]; !exists {
					seen[entry.URL] = struct{}{}
					entries = append(entries, entry)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return entries, nil
}

// parseTableRow extracts an Entry from a <tr> element in the listing.
func parseTableRow(tr *html.Node, dirURL string) (Entry, bool) {
	var cells []*html.Node
	for td := tr.FirstChild; td != nil; td = td.NextSibling {
		if td.Type == html.ElementNode && td.Data == "td" {
			cells = append(cells, td)
		}
	}

	if len(cells) < 1 {
		return Entry{}, false
	}

	// First cell contains an <a> tag with the file/directory link.
	link, name := findLink(cells[0])
	if link == "" || name == "" {
		return Entry{}, false
	}
	if isNavigationLink(link, name) {
		return Entry{}, false
	}

	isDir := strings.HasSuffix(link, "/")
	name = strings.TrimSuffix(name, "/")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	fullURL, err := resolveURL(dirURL, link)
	if err != nil {
		return Entry{}, false
	}

	sizeText := ""
	dateText := ""
	if len(cells) > 1 {
		sizeText = textContent(cells[1])
	}
	if len(cells) > 2 {
		dateText = textContent(cells[2])
	}

	return Entry{
		Name:  name,
		URL:   fullURL,
		Size:  strings.TrimSpace(sizeText),
		Date:  strings.TrimSpace(dateText),
		IsDir: isDir,
	}, true
}

func parseAnchorLink(a *html.Node, dirURL string) (Entry, bool) {
	link, name := findLink(a)
	if link == "" {
		return Entry{}, false
	}
	if strings.HasPrefix(link, "#") || strings.HasPrefix(link, "?") {
		return Entry{}, false
	}
	lower := strings.ToLower(link)
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "data:") {
		return Entry{}, false
	}
	if name == "" {
		name = strings.TrimSuffix(pathBase(link), "/")
	}
	if name == "" || isNavigationLink(link, name) {
		return Entry{}, false
	}
	name = strings.TrimSuffix(name, "/")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	fullURL, err := resolveURL(dirURL, link)
	if err != nil {
		return Entry{}, false
	}
	return Entry{
		Name:  strings.TrimSpace(name),
		URL:   fullURL,
		IsDir: strings.HasSuffix(link, "/"),
	}, true
}

// isNavigationLink reports whether a listing link is a parent/self
// navigation entry rather than content.
func isNavigationLink(link, name string) bool {
	if name == "." || name == ".." || link == "../" || link == "./" {
		return true
	}
	trimmed := strings.TrimSpace(name)
	return strings.EqualFold(trimmed, "Parent Directory") ||
		strings.EqualFold(trimmed, "Parent directory/")
}

func resolveURL(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	relURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(relURL).String(), nil
}

func pathBase(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return ""
	}
	p := strings.TrimSuffix(parsed.Path, "/")
	if p == "" {
		return ""
	}
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// findLink finds the first <a> tag in a node tree and returns (href, text).
func findLink(n *html.Node) (string, string) {
	if n.Type == html.ElementNode && n.Data == "a" {
		href := ""
		for _, attr := range n.Attr {
			if attr.Key == "href" {
				href = attr.Val
				break
			}
		}
		return href, strings.TrimSpace(textContent(n))
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if href, text := findLink(child); href != "" {
			return href, text
		}
	}
	return "", ""
}

// textContent returns all text content within a node.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		sb.WriteString(textContent(child))
	}
	return sb.String()
}
