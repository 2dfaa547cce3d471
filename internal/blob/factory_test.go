package blob

import (
	"context"
	"testing"
)

func TestConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("PLANTCORE_BLOB_DRIVER", "")
	t.Setenv("PLANTCORE_BLOB_FS_ROOT", "")

	cfg := ConfigFromEnv()
	if cfg.Driver != DriverFilesystem {
		t.Fatalf("default driver %q", cfg.Driver)
	}
}

func TestConfigFromEnvS3(t *testing.T) {
	t.Setenv("PLANTCORE_BLOB_DRIVER", "s3")
	t.Setenv("PLANTCORE_BLOB_S3_BUCKET", "plant-exports")
	t.Setenv("PLANTCORE_BLOB_S3_REGION", "eu-west-1")
	t.Setenv("PLANTCORE_BLOB_S3_PATH_STYLE", "true")

	cfg := ConfigFromEnv()
	if cfg.Driver != DriverS3 {
		t.Fatalf("driver %q", cfg.Driver)
	}
	if cfg.S3.Bucket != "plant-exports" || cfg.S3.Region != "eu-west-1" || !cfg.S3.PathStyle {
		t.Fatalf("unexpected S3 config %+v", cfg.S3)
	}
}

func TestOpenMemoryDriver(t *testing.T) {
	store, err := Open(context.Background(), Config{Driver: DriverMemory})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Driver() != DriverMemory {
		t.Fatalf("driver %q", store.Driver())
	}
}

func TestOpenFilesystemDriver(t *testing.T) {
	store, err := Open(context.Background(), Config{Driver: DriverFilesystem, FSRoot: t.TempDir()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Driver() != DriverFilesystem {
		t.Fatalf("driver %q", store.Driver())
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: "gcs"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
