package component

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwire/pkg/upload"
)

// PersistError reports a commit that stopped at Field. Fields listed in
// Persisted were already stored and are not rolled back.
type PersistError struct {
	Field     string
	Persisted []string
	Err       error
}

// Error implements error.
func (e *PersistError) Error() string {
	if len(e.Persisted) == 0 {
		return fmt.Sprintf("component: persist upload %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("component: persist upload %q (already persisted: %s): %v",
		e.Field, strings.Join(e.Persisted, ", "), e.Err)
}

// Unwrap exposes the storage error.
func (e *PersistError) Unwrap() error { return e.Err }

// Stage attaches a client upload to the file field name. A nil file clears the
// staged entry.
func (c *Component) Stage(name string, file *upload.TemporaryFile) {
	if file == nil {
		c.ClearTemporaryUploadedFile(name)
		return
	}
	c.props.Sync(upload.PropertyName(name), file, true)
	c.logger.Debug("upload staged",
		zap.String("component", c.name),
		zap.String("field", name),
		zap.String("upload_id", file.ID),
	)
}

// TemporaryUploadedFile returns the upload staged for name. A missing entry
// is not an error.
func (c *Component) TemporaryUploadedFile(name string) (*upload.TemporaryFile, bool) {
	v, ok := c.props.Get(upload.PropertyName(name))
	if !ok {
		return nil, false
	}
	file, ok := v.(*upload.TemporaryFile)
	if !ok || file == nil {
		return nil, false
	}
	return file, true
}

// UploadedFileURL resolves the stored path held by name on disk. It returns
// "" when the field holds no path.
func (c *Component) UploadedFileURL(name, disk string) (string, error) {
	stored := c.props.String(name)
	if stored == "" {
		return "", nil
	}
	d, err := c.disks.Disk(disk)
	if err != nil {
		return "", fmt.Errorf("component: resolve url for %q: %w", name, err)
	}
	return d.URL(stored)
}

// StoreTemporaryUploadedFiles persists every staged upload of the tree's file
// fields, writes the stored path into the field's property and clears the
// staged entry. Fields are processed in tree order and the first failure stops
// the commit with a *PersistError; earlier fields stay persisted.
func (c *Component) StoreTemporaryUploadedFiles(ctx context.Context) error {
	f, err := c.Form()
	if err != nil {
		return err
	}

	var persisted []string
	for _, fd := range f.Tree().Files() {
		file, ok := c.TemporaryUploadedFile(fd.Name)
		if !ok {
			continue
		}

		stored, err := c.persist(ctx, fd.Disk, fd.Directory, fd.IsPublic(), file)
		if err != nil {
			c.logger.Warn("upload persist failed",
				zap.String("component", c.name),
				zap.String("field", fd.Name),
				zap.Strings("persisted", persisted),
				zap.Error(err),
			)
			return &PersistError{Field: fd.Name, Persisted: persisted, Err: err}
		}

		c.props.Sync(fd.Name, stored, false)
		c.ClearTemporaryUploadedFile(fd.Name)
		if c.stager != nil {
			if err := c.stager.Discard(file); err != nil {
				c.logger.Warn("discard staged upload", zap.String("field", fd.Name), zap.Error(err))
			}
		}
		persisted = append(persisted, fd.Name)

		c.logger.Debug("upload persisted",
			zap.String("component", c.name),
			zap.String("field", fd.Name),
			zap.String("disk", fd.Disk),
			zap.String("path", stored),
		)
	}
	return nil
}

func (c *Component) persist(ctx context.Context, diskName, directory string, public bool, file *upload.TemporaryFile) (string, error) {
	disk, err := c.disks.Disk(diskName)
	if err != nil {
		return "", err
	}
	if public {
		return disk.StorePublicly(ctx, file, directory)
	}
	return disk.Store(ctx, file, directory)
}

// ClearTemporaryUploadedFile drops the staged entry for name.
func (c *Component) ClearTemporaryUploadedFile(name string) {
	c.props.Sync(upload.PropertyName(name), nil, false)
}

// RemoveUploadedFile clears both the stored path and the staged entry for
// name.
func (c *Component) RemoveUploadedFile(name string) {
	c.props.Sync(name, nil, false)
	c.ClearTemporaryUploadedFile(name)
}
