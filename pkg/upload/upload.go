package upload

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// PropertyPrefix namespaces staged uploads inside a component's property bag.
const PropertyPrefix = "temporaryUploadedFiles"

// ErrNotStaged reports that a field has no staged upload.
var ErrNotStaged = errors.New("upload: no file staged")

// PropertyName returns the property path a staged upload for field lives at.
func PropertyName(field string) string {
	return PropertyPrefix + "." + field
}

// IsTemporaryPath reports whether path addresses a staged upload.
func IsTemporaryPath(path string) bool {
	return strings.HasPrefix(path, PropertyPrefix+".")
}

// FieldName strips the staging namespace from path. Paths outside the
// namespace are returned unchanged.
func FieldName(path string) string {
	return strings.TrimPrefix(path, PropertyPrefix+".")
}

// TemporaryFile is a handle to a client upload held in the staging area until
// it is persisted or discarded.
type TemporaryFile struct {
	ID          string `json:"id"`
	ClientName  string `json:"clientName"`
	ContentType string `json:"contentType,omitempty"`
	Bytes       int64  `json:"size"`
	Path        string `json:"path"`
}

// Name returns the original client file name.
func (f *TemporaryFile) Name() string { return f.ClientName }

// Size returns the file size in bytes.
func (f *TemporaryFile) Size() int64 { return f.Bytes }

// MimeType returns the detected content type.
func (f *TemporaryFile) MimeType() string { return f.ContentType }

// Extension returns the lower-cased client extension without the dot.
func (f *TemporaryFile) Extension() string {
	ext := filepath.Ext(f.ClientName)
	if ext == "" {
		ext = filepath.Ext(f.Path)
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Open returns a reader over the staged bytes.
func (f *TemporaryFile) Open() (io.ReadCloser, error) {
	if f == nil || f.Path == "" {
		return nil, ErrNotStaged
	}
	return os.Open(f.Path)
}
