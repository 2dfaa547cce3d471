package blob

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Config is the process-wide blob configuration, read once at startup.
type Config struct {
	Driver Driver
	FSRoot string
	S3     S3Config
}

// ConfigFromEnv captures blob settings from the environment.
//
//	PLANTCORE_BLOB_DRIVER: fs|s3|memory (default fs)
//	PLANTCORE_BLOB_FS_ROOT: directory root when driver=fs (default ./blobdata)
//	(S3 specific variables documented in s3.go)
func ConfigFromEnv() Config {
	cfg := Config{
		Driver: Driver(os.Getenv("PLANTCORE_BLOB_DRIVER")),
		FSRoot: os.Getenv("PLANTCORE_BLOB_FS_ROOT"),
		S3: S3Config{
			Bucket:    os.Getenv("PLANTCORE_BLOB_S3_BUCKET"),
			Region:    os.Getenv("PLANTCORE_BLOB_S3_REGION"),
			Endpoint:  os.Getenv("PLANTCORE_BLOB_S3_ENDPOINT"),
			PathStyle: strings.EqualFold(os.Getenv("PLANTCORE_BLOB_S3_PATH_STYLE"), "true"),
		},
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverFilesystem
	}
	return cfg
}

// Open selects a Store implementation from the configuration.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverFilesystem:
		return NewFilesystem(cfg.FSRoot)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", cfg.Driver)
	}
}
