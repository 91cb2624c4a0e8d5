// Package state moves a component's per-interaction state in and out of a
// JSON snapshot so it can travel with the client between requests.
package state

import (
	"errors"
	"fmt"
	"sort"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formwire/pkg/component"
	"github.com/goliatone/go-formwire/pkg/upload"
)

// ErrComponentMismatch is returned when a snapshot is restored into a
// component with a different name.
var ErrComponentMismatch = errors.New("state: snapshot belongs to another component")

// Snapshot is the serialisable state of one component.
type Snapshot struct {
	Component  string                          `json:"component"`
	Properties map[string]any                  `json:"properties,omitempty"`
	Staged     map[string]*upload.TemporaryFile `json:"staged,omitempty"`
	Errors     []FieldErrors                   `json:"errors,omitempty"`
}

// FieldErrors keeps the messages of one field. Snapshots store a list so the
// bag order survives the round trip.
type FieldErrors struct {
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}

// Capture reads the component's properties, staged uploads and error bag.
func Capture(c *component.Component) Snapshot {
	props := c.Properties().All()
	delete(props, upload.PropertyPrefix)

	snap := Snapshot{
		Component:  c.Name(),
		Properties: props,
	}

	if staged, ok := c.Get(upload.PropertyPrefix); ok {
		files := make(map[string]*upload.TemporaryFile)
		collectStaged(files, "", staged)
		if len(files) > 0 {
			snap.Staged = files
		}
	}

	bag := c.Errors()
	for _, key := range bag.Keys() {
		snap.Errors = append(snap.Errors, FieldErrors{Field: key, Messages: bag.Get(key)})
	}
	return snap
}

// collectStaged walks the staging namespace. Dotted field names are stored as
// nested maps, so the segments are joined back into the field name.
func collectStaged(out map[string]*upload.TemporaryFile, prefix string, value any) {
	switch v := value.(type) {
	case *upload.TemporaryFile:
		if v != nil && prefix != "" {
			out[prefix] = v
		}
	case map[string]any:
		for key, child := range v {
			name := key
			if prefix != "" {
				name = prefix + "." + key
			}
			collectStaged(out, name, child)
		}
	}
}

// RestoreOption configures Restore.
type RestoreOption func(*restoreConfig)

type restoreConfig struct {
	stager *upload.Stager
}

// WithStager drops staged entries the stager does not own. Without it staged
// entries are restored as they are.
func WithStager(stager *upload.Stager) RestoreOption {
	return func(cfg *restoreConfig) {
		cfg.stager = stager
	}
}

// Restore writes snap into c. Properties are applied without marking them
// dirty and the error bag is replaced.
func Restore(c *component.Component, snap Snapshot, options ...RestoreOption) error {
	if snap.Component != "" && snap.Component != c.Name() {
		return fmt.Errorf("%w: got %q, want %q", ErrComponentMismatch, snap.Component, c.Name())
	}
	cfg := restoreConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	keys := make([]string, 0, len(snap.Properties))
	for key := range snap.Properties {
		if key == upload.PropertyPrefix {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		c.Properties().Sync(key, snap.Properties[key], false)
	}

	names := make([]string, 0, len(snap.Staged))
	for name := range snap.Staged {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		file := snap.Staged[name]
		if file == nil {
			continue
		}
		if cfg.stager != nil && !cfg.stager.Owns(file) {
			continue
		}
		c.Properties().Sync(upload.PropertyName(name), file, false)
	}

	c.ResetErrorBag()
	for _, entry := range snap.Errors {
		for _, msg := range entry.Messages {
			c.AddError(entry.Field, msg)
		}
	}
	return nil
}

// Marshal encodes snap as JSON.
func Marshal(snap Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("state: encode snapshot: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a snapshot produced by Marshal.
func Unmarshal(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("state: decode snapshot: %w", err)
	}
	return snap, nil
}
