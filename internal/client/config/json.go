package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/daybook/internal/timex"
	"github.com/dustin/go-humanize"
)

// fileConfig is the DTO for the JSON file. Zero values
// leave the current setting alone.
type fileConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	DatabasePath        string         `json:"database_path"`
	StorageQuota        string         `json:"storage_quota"`
	SyncCallTimeout     timex.Duration `json:"sync_call_timeout"`
	SyncSchedule        string         `json:"sync_schedule"`
	LogLevel            string         `json:"log_level"`
}

func (fc *fileConfig) apply(cfg *Config) error {
	if fc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = fc.ServerEndpointAddr
	}
	if fc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	if fc.DatabasePath != "" {
		cfg.DatabasePath = fc.DatabasePath
	}
	if fc.StorageQuota != "" {
		q, err := ParseQuota(fc.StorageQuota)
		if err != nil {
			return err
		}
		cfg.StorageQuota = q
	}
	if fc.SyncCallTimeout.Duration != 0 {
		cfg.SyncCallTimeout = fc.SyncCallTimeout.Duration
	}
	if fc.SyncSchedule != "" {
		cfg.SyncSchedule = fc.SyncSchedule
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	return nil
}

// ParseQuota reads a size such as "50 MB", "1GiB" or "0" (unlimited).
func ParseQuota(s string) (int64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid storage quota %q: %w", s, err)
	}
	return int64(n), nil
}

// parseJSON overlays cfg with the file at path. An empty path is a no-op.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return fc.apply(cfg)
}
