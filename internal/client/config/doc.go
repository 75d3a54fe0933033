// Package config loads runtime configuration for the daybook CLI.
//
// Sources & precedence (later wins)
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. An optional .env file in the working directory (joho/godotenv); it
//     only seeds variables that are not already set.
//  3. Optional JSON file selected with -c or -config.
//  4. DAYBOOK_* environment variables (ilyakaznacheev/cleanenv).
//  5. Command-line flags, bound by the cli package.
//
// # JSON schema
//
// Durations use timex.Duration, so "3s" and integer nanoseconds both work.
// The storage quota is a human readable size:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "database_path": "/home/me/.daybook/daybook.db",
//	  "storage_quota": "50 MB",
//	  "sync_call_timeout": "30s",
//	  "sync_schedule": "@every 15m",
//	  "log_level": "info"
//	}
package config
