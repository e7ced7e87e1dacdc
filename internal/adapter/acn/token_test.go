package acn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltcurve/evsessions/internal/domain"
)

func TestBootstrap_WritesPlaceholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".acn_api_token")

	require.NoError(t, Bootstrap(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), TokenPlaceholder)
}

func TestBootstrap_RefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".acn_api_token")
	require.NoError(t, os.WriteFile(path, []byte("real-token\n"), 0o600))

	require.Error(t, Bootstrap(path))
}

func TestLoadToken_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".acn_api_token")

	_, err := LoadToken(path)
	require.Error(t, err)

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "-init-token")

	// The read path must not create the file as a side effect.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadToken_Placeholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".acn_api_token")
	require.NoError(t, Bootstrap(path))

	_, err := LoadToken(path)
	require.Error(t, err)

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestLoadToken_TrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".acn_api_token")
	require.NoError(t, os.WriteFile(path, []byte("  secret-token \n"), 0o600))

	token, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", token)
}
