package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-formwire/pkg/field"
	"github.com/goliatone/go-formwire/pkg/storage"
	"github.com/goliatone/go-formwire/pkg/upload"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustLoadDocument reads a field document fixture.
func MustLoadDocument(t *testing.T, path string) field.Document {
	t.Helper()

	doc, err := field.LoadFile(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// Disks holds the in-memory disks returned by NewDisks.
type Disks struct {
	Manager *storage.Manager
	Local   *storage.MemoryDisk
	Public  *storage.MemoryDisk
}

// NewDisks returns a manager with a private "local" disk (the default) and a
// "public" disk served from https://cdn.test.
func NewDisks() Disks {
	local := storage.NewMemoryDisk("local", "")
	public := storage.NewMemoryDisk("public", "https://cdn.test")
	manager := storage.NewManager("local")
	manager.MustRegister(local)
	manager.MustRegister(public)
	return Disks{Manager: manager, Local: local, Public: public}
}

// NewStager returns a stager rooted in a test temp directory.
func NewStager(t *testing.T, options ...upload.StagerOption) *upload.Stager {
	t.Helper()

	stager, err := upload.NewStager(t.TempDir(), options...)
	if err != nil {
		t.Fatalf("new stager: %v", err)
	}
	return stager
}

// MustStage stages body under clientName.
func MustStage(t *testing.T, stager *upload.Stager, clientName, body string) *upload.TemporaryFile {
	t.Helper()

	file, err := stager.Stage(Context(), clientName, strings.NewReader(body))
	if err != nil {
		t.Fatalf("stage %s: %v", clientName, err)
	}
	return file
}

// WriteFile writes body to name inside a fresh temp directory and returns the
// path.
func WriteFile(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
