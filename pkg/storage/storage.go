package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrDiskNotFound is returned when a disk name is not registered.
	ErrDiskNotFound = errors.New("storage: disk not found")
	// ErrNotFound is returned when a stored path does not exist.
	ErrNotFound = errors.New("storage: file not found")
	// ErrNoURL is returned when a disk cannot produce URLs.
	ErrNoURL = errors.New("storage: disk has no url configured")
)

// Source is the minimal view of an upload a disk needs to persist it.
type Source interface {
	Open() (io.ReadCloser, error)
	Extension() string
}

// Disk persists files under a directory and resolves their URLs.
type Disk interface {
	Name() string
	// Store persists src privately and returns its stored path.
	Store(ctx context.Context, src Source, directory string) (string, error)
	// StorePublicly persists src with public visibility and returns its stored path.
	StorePublicly(ctx context.Context, src Source, directory string) (string, error)
	URL(stored string) (string, error)
	Exists(ctx context.Context, stored string) (bool, error)
	Delete(ctx context.Context, stored string) error
}

// HashName builds a collision-free stored path inside directory that keeps the
// source extension.
func HashName(directory string, src Source) string {
	name := uuid.NewString()
	if ext := strings.TrimPrefix(src.Extension(), "."); ext != "" {
		name += "." + ext
	}
	directory = strings.Trim(path.Clean("/"+strings.TrimSpace(directory)), "/")
	if directory == "" {
		return name
	}
	return directory + "/" + name
}

// Manager resolves disks by name. An empty name resolves the default disk.
type Manager struct {
	mu          sync.RWMutex
	disks       map[string]Disk
	defaultDisk string
}

// NewManager creates a manager whose empty disk name resolves to defaultDisk.
func NewManager(defaultDisk string) *Manager {
	return &Manager{
		disks:       make(map[string]Disk),
		defaultDisk: strings.TrimSpace(defaultDisk),
	}
}

// Register adds a disk under its Name(). Duplicate names return an error.
func (m *Manager) Register(disk Disk) error {
	if disk == nil {
		return fmt.Errorf("storage: disk is required")
	}
	name := strings.TrimSpace(disk.Name())
	if name == "" {
		return fmt.Errorf("storage: disk name is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.disks[name]; exists {
		return fmt.Errorf("storage: disk %q already registered", name)
	}
	m.disks[name] = disk
	if m.defaultDisk == "" {
		m.defaultDisk = name
	}
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (m *Manager) MustRegister(disk Disk) {
	if err := m.Register(disk); err != nil {
		panic(err)
	}
}

// Disk returns the disk registered under name.
func (m *Manager) Disk(name string) (Disk, error) {
	if m == nil {
		return nil, ErrDiskNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = m.defaultDisk
	}
	disk, ok := m.disks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDiskNotFound, name)
	}
	return disk, nil
}

// Default returns the name empty disk lookups resolve to.
func (m *Manager) Default() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultDisk
}

// List returns the sorted disk names.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.disks))
	for name := range m.disks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
