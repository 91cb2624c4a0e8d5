package storage

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// MemoryDisk keeps stored files in memory. Handy for tests and previews.
type MemoryDisk struct {
	name    string
	baseURL string

	mu     sync.RWMutex
	files  map[string][]byte
	public map[string]bool
	fail   error
}

var _ Disk = (*MemoryDisk)(nil)

// NewMemoryDisk creates an empty in-memory disk. baseURL may be empty.
func NewMemoryDisk(name, baseURL string) *MemoryDisk {
	return &MemoryDisk{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		files:   make(map[string][]byte),
		public:  make(map[string]bool),
	}
}

// FailWith makes subsequent store calls return err. Pass nil to recover.
func (d *MemoryDisk) FailWith(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fail = err
}

// Name implements Disk.
func (d *MemoryDisk) Name() string { return d.name }

// Store implements Disk.
func (d *MemoryDisk) Store(ctx context.Context, src Source, directory string) (string, error) {
	return d.put(ctx, src, directory, false)
}

// StorePublicly implements Disk.
func (d *MemoryDisk) StorePublicly(ctx context.Context, src Source, directory string) (string, error) {
	return d.put(ctx, src, directory, true)
}

func (d *MemoryDisk) put(ctx context.Context, src Source, directory string, public bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d.mu.RLock()
	fail := d.fail
	d.mu.RUnlock()
	if fail != nil {
		return "", fail
	}

	in, err := src.Open()
	if err != nil {
		return "", fmt.Errorf("storage: disk %q open source: %w", d.name, err)
	}
	defer in.Close()
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("storage: disk %q read source: %w", d.name, err)
	}

	stored := HashName(directory, src)
	d.mu.Lock()
	d.files[stored] = data
	d.public[stored] = public
	d.mu.Unlock()
	return stored, nil
}

// Contents returns the bytes stored at path.
func (d *MemoryDisk) Contents(stored string) ([]byte, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	data, ok := d.files[stored]
	return data, ok
}

// IsPublic reports whether path was stored publicly.
func (d *MemoryDisk) IsPublic(stored string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.public[stored]
}

// Paths returns the sorted stored paths.
func (d *MemoryDisk) Paths() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.files))
	for p := range d.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// URL implements Disk.
func (d *MemoryDisk) URL(stored string) (string, error) {
	if d.baseURL == "" {
		return "", fmt.Errorf("%w: %q", ErrNoURL, d.name)
	}
	return d.baseURL + "/" + strings.TrimLeft(stored, "/"), nil
}

// Exists implements Disk.
func (d *MemoryDisk) Exists(_ context.Context, stored string) (bool, error) {
	_, ok := d.Contents(stored)
	return ok, nil
}

// Delete implements Disk.
func (d *MemoryDisk) Delete(_ context.Context, stored string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.files[stored]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, stored)
	}
	delete(d.files, stored)
	delete(d.public, stored)
	return nil
}
