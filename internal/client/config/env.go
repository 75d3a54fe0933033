package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/daybook/internal/timex"
	"github.com/ilyakaznacheev/cleanenv"
)

type envConfig struct {
	ServerEndpointAddr  string        `env:"DAYBOOK_SERVER_ADDR"`
	OnlineCheckInterval time.Duration `env:"DAYBOOK_ONLINE_CHECK_INTERVAL"`
	DatabasePath        string        `env:"DAYBOOK_DATABASE_PATH"`
	StorageQuota        string        `env:"DAYBOOK_STORAGE_QUOTA"`
	SyncCallTimeout     time.Duration `env:"DAYBOOK_SYNC_CALL_TIMEOUT"`
	SyncSchedule        string        `env:"DAYBOOK_SYNC_SCHEDULE"`
	LogLevel            string        `env:"DAYBOOK_LOG_LEVEL"`
}

func parseEnv(cfg *Config) error {
	var ec envConfig
	if err := cleanenv.ReadEnv(&ec); err != nil {
		return fmt.Errorf("config: read env: %w", err)
	}

	fc := fileConfig{
		ServerEndpointAddr:  ec.ServerEndpointAddr,
		OnlineCheckInterval: timex.Duration{Duration: ec.OnlineCheckInterval},
		DatabasePath:        ec.DatabasePath,
		StorageQuota:        ec.StorageQuota,
		SyncCallTimeout:     timex.Duration{Duration: ec.SyncCallTimeout},
		SyncSchedule:        ec.SyncSchedule,
		LogLevel:            ec.LogLevel,
	}
	return fc.apply(cfg)
}
