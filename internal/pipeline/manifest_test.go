package pipeline

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltcurve/evsessions/internal/domain"
)

func TestWriteAndReadManifest(t *testing.T) {
	now := time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(now))
	defer domain.SetClock(nil)

	dir := t.TempDir()
	require.NoError(t, writeManifest(dir, "ACN_Caltech", "acn-api", 1234))

	m, err := ReadManifest(dir, "ACN_Caltech")
	require.NoError(t, err)
	assert.Equal(t, "ACN_Caltech", m.DatasetID)
	assert.Equal(t, "acn-api", m.Source)
	assert.Equal(t, 1234, m.Rows)
	assert.True(t, m.FetchedAt.Equal(now))
}

func TestLoad_WritesManifestOnMiss(t *testing.T) {
	var requests atomic.Int64
	server := newArchiveServer(t, zipWithMember(t, "sessions.csv", asrRawCSV), &requests)

	cfg := testConfig(t)
	cfg.ASRURL = server.URL
	r := testRegistry(t, cfg)

	_, err := r.Load(context.Background(), "ASR", false)
	require.NoError(t, err)

	m, err := ReadManifest(cfg.FormattedDir(), "ASR")
	require.NoError(t, err)
	assert.Equal(t, "ASR", m.DatasetID)
	assert.Equal(t, "4tu-archive", m.Source)
	assert.Equal(t, 2, m.Rows)
}
