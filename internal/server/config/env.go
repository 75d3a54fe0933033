package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/daybook/internal/timex"
	"github.com/ilyakaznacheev/cleanenv"
)

type envConfig struct {
	EndpointAddrGRPC             string        `env:"DAYBOOK_GRPC_ADDR"`
	EndpointAddrHTTP             string        `env:"DAYBOOK_HTTP_ADDR"`
	DatabaseDSN                  string        `env:"DAYBOOK_DATABASE_DSN"`
	SecretKey                    string        `env:"DAYBOOK_SECRET_KEY"`
	AccessTokenValidityDuration  time.Duration `env:"DAYBOOK_ACCESS_TOKEN_TTL"`
	RefreshTokenValidityDuration time.Duration `env:"DAYBOOK_REFRESH_TOKEN_TTL"`
	S3RootUser                   string        `env:"DAYBOOK_S3_USER"`
	S3RootPassword               string        `env:"DAYBOOK_S3_PASSWORD"`
	S3Bucket                     string        `env:"DAYBOOK_S3_BUCKET"`
	S3Region                     string        `env:"DAYBOOK_S3_REGION"`
	S3BaseEndpoint               string        `env:"DAYBOOK_S3_ENDPOINT"`
	PublicBaseURL                string        `env:"DAYBOOK_PUBLIC_BASE_URL"`
	PresignValidityDuration      time.Duration `env:"DAYBOOK_PRESIGN_TTL"`
	LogLevel                     string        `env:"DAYBOOK_LOG_LEVEL"`
}

func parseEnv(cfg *Config) error {
	var ec envConfig
	if err := cleanenv.ReadEnv(&ec); err != nil {
		return fmt.Errorf("config: read env: %w", err)
	}

	fc := fileConfig{
		EndpointAddrGRPC:             ec.EndpointAddrGRPC,
		EndpointAddrHTTP:             ec.EndpointAddrHTTP,
		DatabaseDSN:                  ec.DatabaseDSN,
		SecretKey:                    ec.SecretKey,
		AccessTokenValidityDuration:  timex.Duration{Duration: ec.AccessTokenValidityDuration},
		RefreshTokenValidityDuration: timex.Duration{Duration: ec.RefreshTokenValidityDuration},
		S3RootUser:                   ec.S3RootUser,
		S3RootPassword:               ec.S3RootPassword,
		S3Bucket:                     ec.S3Bucket,
		S3Region:                     ec.S3Region,
		S3BaseEndpoint:               ec.S3BaseEndpoint,
		PublicBaseURL:                ec.PublicBaseURL,
		PresignValidityDuration:      timex.Duration{Duration: ec.PresignValidityDuration},
		LogLevel:                     ec.LogLevel,
	}
	fc.apply(cfg)
	return nil
}
