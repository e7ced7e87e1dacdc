package acn

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltcurve/evsessions/internal/domain"
)

const testToken = "test-token"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL string) *Client {
	return NewClient(testToken, baseURL, 5*time.Second, discardLogger())
}

func TestFetchPage_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/caltech", r.URL.Path)
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		assert.Equal(t, `connectionTime>"Mon, 1 Jan 2018 00:00:00 GMT"`, r.URL.Query().Get("where"))
		assert.Equal(t, "500", r.URL.Query().Get("max_results"))
		assert.Equal(t, "connectionTime", r.URL.Query().Get("sort"))

		resp := map[string]any{"_items": []map[string]any{
			{"_id": "s1", "connectionTime": "Wed, 1 Jan 2020 08:00:00 GMT", "kWhDelivered": 7.5},
			{"_id": "s2", "connectionTime": "Wed, 1 Jan 2020 09:00:00 GMT", "kWhDelivered": 3.2},
		}}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	items, err := c.FetchPage(context.Background(), "caltech", "Mon, 1 Jan 2018 00:00:00 GMT", 500)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "s1", items[0]["_id"])
	assert.Equal(t, 7.5, items[0]["kWhDelivered"])
}

func TestFetchPage_EmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_items": []}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	items, err := c.FetchPage(context.Background(), "caltech", "Mon, 1 Jan 2018 00:00:00 GMT", 500)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFetchPage_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"_error": "token rejected"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.FetchPage(context.Background(), "caltech", "Mon, 1 Jan 2018 00:00:00 GMT", 500)
	require.Error(t, err)

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusUnauthorized, netErr.Status)
	assert.Contains(t, netErr.Body, "token rejected")
}

func TestFetchPage_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(testToken, srv.URL, 50*time.Millisecond, discardLogger())
	_, err := c.FetchPage(context.Background(), "caltech", "Mon, 1 Jan 2018 00:00:00 GMT", 500)
	require.Error(t, err)
}
