package storage

import (
	"fmt"

	"docedit/internal/config"
)

// New selects the backend named by STORAGE_BACKEND. Configuration problems
// come back wrapped in ErrNotConfigured so the caller can run without cloud
// features instead of failing startup.
func New(cfg *config.AppConfig) (Storage, error) {
	switch cfg.StorageBackend {
	case "azure":
		return NewAzure(cfg.Azure, cfg.StorageTimeout)
	case "s3", "minio":
		return NewMinIO(cfg.MinIO, cfg.StorageTimeout)
	default:
		return nil, fmt.Errorf("%w: unknown STORAGE_BACKEND %q", ErrNotConfigured, cfg.StorageBackend)
	}
}
