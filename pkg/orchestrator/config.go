package orchestrator

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwire/pkg/config"
	"github.com/goliatone/go-formwire/pkg/form"
	"github.com/goliatone/go-formwire/pkg/storage"
	"github.com/goliatone/go-formwire/pkg/upload"
)

// FromConfig builds an Orchestrator from loaded settings. options are applied
// after the configured collaborators and may override them.
func FromConfig(cfg config.Config, logger *zap.Logger, options ...Option) (*Orchestrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	disks, err := NewDisks(cfg.Storage, logger)
	if err != nil {
		return nil, err
	}
	stager, err := upload.NewStager(cfg.Uploads.StagingDir,
		upload.WithMaxBytes(cfg.Uploads.MaxBytes()),
		upload.WithLogger(logger.Named("upload")),
	)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}

	base := []Option{
		WithDisks(disks),
		WithStager(stager),
		WithLogger(logger),
	}
	if cfg.Forms.RecordDefaults {
		base = append(base, WithFormOptions(form.WithRecordDefaults()))
	}
	return New(append(base, options...)...), nil
}

// NewDisks registers every configured disk.
func NewDisks(cfg config.StorageConfig, logger *zap.Logger) (*storage.Manager, error) {
	names := make([]string, 0, len(cfg.Disks))
	for name := range cfg.Disks {
		names = append(names, name)
	}
	sort.Strings(names)

	manager := storage.NewManager(cfg.Default)
	for _, name := range names {
		disk, err := newDisk(name, cfg.Disks[name], logger)
		if err != nil {
			return nil, err
		}
		if err := manager.Register(disk); err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
	}
	if _, err := manager.Disk(""); err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return manager, nil
}

func newDisk(name string, cfg config.DiskConfig, logger *zap.Logger) (storage.Disk, error) {
	switch cfg.Driver {
	case "local":
		disk, err := storage.NewLocalDisk(name, cfg.Root,
			storage.WithURL(cfg.URL),
			storage.WithLogger(logger.Named("storage")),
		)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: disk %q: %w", name, err)
		}
		return disk, nil
	case "memory":
		return storage.NewMemoryDisk(name, cfg.URL), nil
	default:
		return nil, fmt.Errorf("orchestrator: disk %q: unknown driver %q", name, cfg.Driver)
	}
}
