package core

import (
	"testing"

	"plantcore/internal/infra/persistence/memory"
)

func TestStorageConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("PLANTCORE_STORAGE_DRIVER", "")
	t.Setenv("PLANTCORE_SQLITE_PATH", "")
	t.Setenv("PLANTCORE_DATABASE_URL", "")
	t.Setenv("DATABASE_URL", "")

	cfg := StorageConfigFromEnv()
	if cfg.Driver != StorageSQLite {
		t.Fatalf("default driver %q", cfg.Driver)
	}
	if cfg.SQLitePath != "" || cfg.DatabaseURL != "" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestStorageConfigFromEnv(t *testing.T) {
	t.Setenv("PLANTCORE_STORAGE_DRIVER", "postgres")
	t.Setenv("PLANTCORE_DATABASE_URL", "postgres://alice@localhost/plants")

	cfg := StorageConfigFromEnv()
	if cfg.Driver != StoragePostgres {
		t.Fatalf("driver %q", cfg.Driver)
	}
	if cfg.DatabaseURL != "postgres://alice@localhost/plants" {
		t.Fatalf("database URL %q", cfg.DatabaseURL)
	}
}

func TestStorageConfigDatabaseURLFallback(t *testing.T) {
	t.Setenv("PLANTCORE_STORAGE_DRIVER", "postgres")
	t.Setenv("PLANTCORE_DATABASE_URL", "")
	t.Setenv("DATABASE_URL", "postgres://bob@localhost/plants")

	cfg := StorageConfigFromEnv()
	if cfg.DatabaseURL != "postgres://bob@localhost/plants" {
		t.Fatalf("fallback not honored: %q", cfg.DatabaseURL)
	}
}

func TestOpenSampleStoreMemory(t *testing.T) {
	store, err := OpenSampleStore(StorageConfig{Driver: StorageMemory})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if _, ok := store.(*memory.Store); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}
}

func TestOpenSampleStoreUnknownDriver(t *testing.T) {
	if _, err := OpenSampleStore(StorageConfig{Driver: "etcd"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
