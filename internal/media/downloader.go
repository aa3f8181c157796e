package media

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kdramalab/kscrape/internal/fetcher"
	"github.com/kdramalab/kscrape/internal/normalize"
)

// Downloader saves poster and profile images under a local directory.
type Downloader struct {
	dir     string
	client  *fetcher.Client
	timeout time.Duration
	logger  *slog.Logger

	mu   sync.Mutex
	seen map[string]string
}

// NewDownloader creates an image downloader writing into dir.
func NewDownloader(dir string, client *fetcher.Client, timeout time.Duration, logger *slog.Logger) *Downloader {
	return &Downloader{
		dir:     dir,
		client:  client,
		timeout: timeout,
		logger:  logger.With("component", "downloader"),
		seen:    make(map[string]string),
	}
}

// Save downloads imageURL and writes it as <name>.<ext> under the
// downloader's directory. The referer is sent with the request since
// wiki CDNs reject bare image fetches. Repeated URLs reuse the first
// saved file.
func (d *Downloader) Save(ctx context.Context, imageURL, referer, name string) (string, error) {
	d.mu.Lock()
	if p, ok := d.seen[imageURL]; ok {
		d.mu.Unlock()
		return p, nil
	}
	d.mu.Unlock()

	resp, err := d.client.GetWithReferer(ctx, imageURL, referer, d.timeout)
	if err != nil {
		return "", err
	}
	if len(resp.Body) == 0 {
		return "", fmt.Errorf("download %s: empty body", imageURL)
	}

	ext := extFor(imageURL, http.DetectContentType(resp.Body))
	filename := normalize.Filename(name) + ext

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}
	localPath := filepath.Join(d.dir, filename)
	if err := os.WriteFile(localPath, resp.Body, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	d.mu.Lock()
	d.seen[imageURL] = localPath
	d.mu.Unlock()

	d.logger.Debug("image saved", "url", imageURL, "path", localPath, "size", len(resp.Body))
	return localPath, nil
}

// extFor picks a file extension from the URL path, falling back to the
// sniffed content type.
func extFor(rawURL, contentType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if ext := strings.ToLower(path.Ext(u.Path)); isImageExt(ext) {
			return ext
		}
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "image/jpeg":
			return ".jpg"
		case "image/png":
			return ".png"
		case "image/gif":
			return ".gif"
		case "image/webp":
			return ".webp"
		}
	}
	return ".jpg"
}

func isImageExt(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}
