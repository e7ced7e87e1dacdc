// Package acn talks to the ACN research portal's paginated sessions API.
package acn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/voltcurve/evsessions/internal/domain"
)

// Client fetches charging session pages from the ACN API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an ACN API client. baseURL is the sessions endpoint root,
// e.g. "https://ev.caltech.edu/api/v1/sessions".
func NewClient(token, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// page is the API's JSON envelope.
type page struct {
	Items []map[string]any `json:"_items"`
}

// FetchPage requests one page of sessions for siteID with connection times
// strictly after cursor, ordered ascending by connection time and capped at
// limit records. An empty result means the source is exhausted. A non-2xx
// response fails with *domain.NetworkError carrying status and body.
func (c *Client) FetchPage(ctx context.Context, siteID, cursor string, limit int) ([]map[string]any, error) {
	params := url.Values{
		"where":       {fmt.Sprintf("connectionTime>%q", cursor)},
		"max_results": {fmt.Sprintf("%d", limit)},
		"sort":        {"connectionTime"},
	}
	fullURL := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(siteID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sessions page request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &domain.NetworkError{URL: fullURL, Status: resp.StatusCode, Body: string(body)}
	}

	var p page
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode sessions page: %w", err)
	}

	c.logger.Debug("fetched sessions page", "site", siteID, "records", len(p.Items), "cursor", cursor)
	return p.Items, nil
}
