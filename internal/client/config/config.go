package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/daybook/internal/filex"
	"github.com/dmitrijs2005/daybook/internal/flagx"
	"github.com/joho/godotenv"
)

// Config holds runtime settings for the daybook CLI.
type Config struct {
	// ServerEndpointAddr is host:port of the sync backend. Empty disables sync.
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration

	DatabasePath string
	// StorageQuota caps the local database in bytes; 0 means unlimited.
	StorageQuota int64

	SyncCallTimeout time.Duration
	// SyncSchedule is a cron spec for periodic sync in watch mode; empty
	// disables it.
	SyncSchedule string

	LogLevel string
}

const DatabaseFileName = "daybook.db"

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.DatabasePath = filepath.Join(filex.DefaultDataDir(), DatabaseFileName)
	c.StorageQuota = 50 * 1000 * 1000
	c.SyncCallTimeout = 30 * time.Second
	c.SyncSchedule = ""
	c.LogLevel = "warn"
}

// LoadConfig builds a Config from defaults, .env, the JSON file named by
// -c/-config in args and the environment. Flags are applied later by the
// command tree.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, flagx.ConfigPath(args)); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("config: read %s: %w", path, err)
}
