//go:build acn

package acn

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real ACN API and require a valid token in the file
// named by ACN_TOKEN_FILE (default .acn_api_token).
// Run with: go test -tags=acn ./internal/adapter/acn/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	path := os.Getenv("ACN_TOKEN_FILE")
	if path == "" {
		path = ".acn_api_token"
	}
	token, err := LoadToken(path)
	if err != nil {
		t.Fatalf("smoke tests need a populated token file: %v", err)
	}
	return NewClient(token, "https://ev.caltech.edu/api/v1/sessions", 30*time.Second, discardLogger())
}

func TestSmoke_FetchFirstPage(t *testing.T) {
	c := smokeClient(t)

	items, err := c.FetchPage(context.Background(), "caltech", "Mon, 1 Jan 2018 00:00:00 GMT", 5)
	require.NoError(t, err)
	require.NotEmpty(t, items)

	first := items[0]
	assert.Contains(t, first, "_id")
	assert.Contains(t, first, "connectionTime")
	assert.Contains(t, first, "kWhDelivered")
}
