// Package fourtu downloads versioned ZIP archives from the 4TU research data
// repository and extracts a single named member.
package fourtu

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/voltcurve/evsessions/internal/domain"
)

// Client retrieves ZIP-packaged datasets over HTTP.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a 4TU download client.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// DownloadMember fetches the ZIP archive at url, locates member in its
// listing, and writes the member's contents to dest. The write goes to a
// temporary file in dest's directory followed by an atomic rename, so a
// failure never leaves a partial or clobbered raw file. A missing member
// fails with *domain.ArchiveMemberError; a non-2xx response with
// *domain.NetworkError.
func (c *Client) DownloadMember(ctx context.Context, url, member, dest string) error {
	c.logger.Info("downloading archive", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("archive request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &domain.NetworkError{URL: url, Status: resp.StatusCode, Body: string(body)}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read archive body: %w", err)
	}

	return extractMember(payload, member, dest)
}

func extractMember(payload []byte, member, dest string) error {
	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}

	var target *zip.File
	for _, f := range zr.File {
		if f.Name == member {
			target = f
			break
		}
	}
	if target == nil {
		return &domain.ArchiveMemberError{Member: member}
	}

	rc, err := target.Open()
	if err != nil {
		return fmt.Errorf("open zip entry %s: %w", member, err)
	}
	defer rc.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("extract %s: %w", member, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename extracted file: %w", err)
	}
	return nil
}
