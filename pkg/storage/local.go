package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// LocalOption configures a LocalDisk.
type LocalOption func(*LocalDisk)

// WithURL sets the base URL stored paths are resolved against.
func WithURL(base string) LocalOption {
	return func(d *LocalDisk) {
		d.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
	}
}

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(logger *zap.Logger) LocalOption {
	return func(d *LocalDisk) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// LocalDisk stores files below a root directory on the local filesystem.
// Public files are world-readable, private files are owner-only.
type LocalDisk struct {
	name    string
	root    string
	baseURL string
	logger  *zap.Logger
}

var _ Disk = (*LocalDisk)(nil)

// NewLocalDisk creates root if needed.
func NewLocalDisk(name, root string, options ...LocalOption) (*LocalDisk, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("storage: local disk name is required")
	}
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("storage: local disk %q needs a root directory", name)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root for disk %q: %w", name, err)
	}
	d := &LocalDisk{name: name, root: root, logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

// Name implements Disk.
func (d *LocalDisk) Name() string { return d.name }

// Root returns the directory files are stored under.
func (d *LocalDisk) Root() string { return d.root }

// Store implements Disk.
func (d *LocalDisk) Store(ctx context.Context, src Source, directory string) (string, error) {
	return d.put(ctx, src, directory, 0o600)
}

// StorePublicly implements Disk.
func (d *LocalDisk) StorePublicly(ctx context.Context, src Source, directory string) (string, error) {
	return d.put(ctx, src, directory, 0o644)
}

func (d *LocalDisk) put(ctx context.Context, src Source, directory string, mode os.FileMode) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if src == nil {
		return "", errors.New("storage: source is required")
	}

	stored := HashName(directory, src)
	target := d.abs(stored)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("storage: disk %q create directory: %w", d.name, err)
	}

	in, err := src.Open()
	if err != nil {
		return "", fmt.Errorf("storage: disk %q open source: %w", d.name, err)
	}
	defer in.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_EXCL, mode)
	if err != nil {
		return "", fmt.Errorf("storage: disk %q create %s: %w", d.name, stored, err)
	}
	_, err = io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(target)
		d.logger.Warn("persist failed", zap.String("disk", d.name), zap.String("path", stored), zap.Error(err))
		return "", fmt.Errorf("storage: disk %q write %s: %w", d.name, stored, err)
	}
	if err := os.Chmod(target, mode); err != nil {
		return "", fmt.Errorf("storage: disk %q chmod %s: %w", d.name, stored, err)
	}

	d.logger.Debug("persisted file", zap.String("disk", d.name), zap.String("path", stored), zap.Stringer("mode", mode))
	return stored, nil
}

// URL implements Disk.
func (d *LocalDisk) URL(stored string) (string, error) {
	if d.baseURL == "" {
		return "", fmt.Errorf("%w: %q", ErrNoURL, d.name)
	}
	return d.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(stored), "/"), nil
}

// Exists implements Disk.
func (d *LocalDisk) Exists(ctx context.Context, stored string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(d.abs(stored))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("storage: disk %q stat %s: %w", d.name, stored, err)
}

// Delete implements Disk.
func (d *LocalDisk) Delete(ctx context.Context, stored string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(d.abs(stored)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, stored)
		}
		return fmt.Errorf("storage: disk %q delete %s: %w", d.name, stored, err)
	}
	return nil
}

func (d *LocalDisk) abs(stored string) string {
	clean := filepath.Clean("/" + filepath.FromSlash(stored))
	return filepath.Join(d.root, clean)
}
