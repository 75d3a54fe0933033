package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJSON(t *testing.T) {
	t.Run("overlays present keys", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"server_endpoint_addr":  "www.example:9000",
			"online_check_interval": "10s",
			"sync_call_timeout":     float64(2 * time.Second),
			"database_path":         "/tmp/x.db",
		})

		cfg := &Config{LogLevel: "info"}
		require.NoError(t, parseJSON(cfg, path))

		assert.Equal(t, "www.example:9000", cfg.ServerEndpointAddr)
		assert.Equal(t, 10*time.Second, cfg.OnlineCheckInterval)
		assert.Equal(t, 2*time.Second, cfg.SyncCallTimeout)
		assert.Equal(t, "/tmp/x.db", cfg.DatabasePath)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("empty path is a no-op", func(t *testing.T) {
		cfg := &Config{ServerEndpointAddr: "defaults:1234"}
		require.NoError(t, parseJSON(cfg, ""))
		assert.Equal(t, "defaults:1234", cfg.ServerEndpointAddr)
	})

	t.Run("bad json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
		require.Error(t, parseJSON(&Config{}, path))
	})

	t.Run("bad quota", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{"storage_quota": "many"})
		require.Error(t, parseJSON(&Config{}, path))
	})
}
