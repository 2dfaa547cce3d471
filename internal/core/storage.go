package core

import (
	"fmt"
	"os"

	"plantcore/internal/infra/persistence/memory"
	"plantcore/internal/infra/persistence/postgres"
	"plantcore/internal/infra/persistence/sqlite"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// StorageConfig is the process-wide persistence configuration. It is read
// once at startup and held immutable for the process lifetime.
type StorageConfig struct {
	Driver      StorageDriver
	SQLitePath  string
	DatabaseURL string
}

// StorageConfigFromEnv captures storage settings from the environment.
//
//	PLANTCORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	PLANTCORE_SQLITE_PATH: path to sqlite file (default ./plantcore.db)
//	PLANTCORE_DATABASE_URL: postgres connection URL when driver=postgres
//	                        (DATABASE_URL honored as a fallback)
func StorageConfigFromEnv() StorageConfig {
	cfg := StorageConfig{
		Driver:      StorageDriver(os.Getenv("PLANTCORE_STORAGE_DRIVER")),
		SQLitePath:  os.Getenv("PLANTCORE_SQLITE_PATH"),
		DatabaseURL: os.Getenv("PLANTCORE_DATABASE_URL"),
	}
	if cfg.Driver == "" {
		cfg.Driver = StorageSQLite
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	return cfg
}

// OpenSampleStore selects and opens the backend named by the configuration.
func OpenSampleStore(cfg StorageConfig) (SampleStore, error) {
	switch cfg.Driver {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		return sqlite.NewStore(cfg.SQLitePath)
	case StoragePostgres:
		return postgres.NewStore(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", cfg.Driver)
	}
}
