package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrTooLarge is returned when an upload exceeds the configured limit.
var ErrTooLarge = errors.New("upload: file exceeds size limit")

// StagerOption configures a Stager.
type StagerOption func(*Stager)

// WithLogger sets the logger used for staging diagnostics.
func WithLogger(logger *zap.Logger) StagerOption {
	return func(s *Stager) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxBytes limits the size of a single staged upload. Zero disables the
// limit.
func WithMaxBytes(limit int64) StagerOption {
	return func(s *Stager) {
		s.maxBytes = limit
	}
}

// Stager copies client uploads into a process-local staging directory and
// hands back TemporaryFile handles.
type Stager struct {
	dir      string
	maxBytes int64
	logger   *zap.Logger
}

// NewStager creates the staging directory if needed.
func NewStager(dir string, options ...StagerOption) (*Stager, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("upload: staging directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload: create staging directory: %w", err)
	}
	s := &Stager{dir: dir, logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Dir returns the staging directory.
func (s *Stager) Dir() string { return s.dir }

// Stage copies r into the staging area under a random name that keeps the
// client extension.
func (s *Stager) Stage(ctx context.Context, clientName string, r io.Reader) (*TemporaryFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errors.New("upload: reader is required")
	}

	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(clientName))
	path := filepath.Join(s.dir, id+ext)

	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("upload: create staged file: %w", err)
	}

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	sniff := make([]byte, 512)
	n, readErr := io.ReadFull(src, sniff)
	if readErr != nil && !errors.Is(readErr, io.ErrUnexpectedEOF) && !errors.Is(readErr, io.EOF) {
		out.Close()
		os.Remove(path)
		return nil, fmt.Errorf("upload: read %s: %w", clientName, readErr)
	}
	sniff = sniff[:n]

	n, err = out.Write(sniff)
	written := int64(n)
	if err == nil {
		var rest int64
		rest, err = io.Copy(out, src)
		written += rest
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("upload: write staged file: %w", err)
	}
	if s.maxBytes > 0 && written > s.maxBytes {
		os.Remove(path)
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, clientName)
	}

	file := &TemporaryFile{
		ID:          id,
		ClientName:  clientName,
		ContentType: detectContentType(clientName, sniff),
		Bytes:       written,
		Path:        path,
	}
	s.logger.Debug("staged upload",
		zap.String("id", file.ID),
		zap.String("client_name", clientName),
		zap.Int64("size", file.Bytes),
		zap.String("content_type", file.ContentType),
	)
	return file, nil
}

// StageFile stages a copy of a file that already exists on disk.
func (s *Stager) StageFile(ctx context.Context, path string) (*TemporaryFile, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("upload: open %s: %w", path, err)
	}
	defer in.Close()
	return s.Stage(ctx, filepath.Base(path), in)
}

// StageMultipart stages a file received through a multipart form.
func (s *Stager) StageMultipart(ctx context.Context, header *multipart.FileHeader) (*TemporaryFile, error) {
	if header == nil {
		return nil, errors.New("upload: multipart header is required")
	}
	in, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("upload: open multipart %s: %w", header.Filename, err)
	}
	defer in.Close()
	return s.Stage(ctx, header.Filename, in)
}

// Discard removes a staged file from disk. Missing files are ignored.
func (s *Stager) Discard(file *TemporaryFile) error {
	if file == nil || file.Path == "" {
		return nil
	}
	if err := os.Remove(file.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("upload: discard %s: %w", file.ID, err)
	}
	s.logger.Debug("discarded upload", zap.String("id", file.ID))
	return nil
}

// Owns reports whether file points at an existing file inside the staging
// directory. Handles restored from client state must pass this check before
// they are trusted.
func (s *Stager) Owns(file *TemporaryFile) bool {
	if file == nil || file.Path == "" {
		return false
	}
	dir, err := filepath.Abs(s.dir)
	if err != nil {
		return false
	}
	path, err := filepath.Abs(file.Path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") || strings.ContainsRune(rel, filepath.Separator) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func detectContentType(name string, sniff []byte) string {
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		if idx := strings.Index(byExt, ";"); idx >= 0 {
			byExt = byExt[:idx]
		}
		return byExt
	}
	detected := http.DetectContentType(sniff)
	if idx := strings.Index(detected, ";"); idx >= 0 {
		detected = detected[:idx]
	}
	return detected
}
