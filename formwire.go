// Package formwire is the entry point for building server-driven forms: load
// settings, wire an orchestrator, and wrap hosts in form-bearing components.
package formwire

import (
	"context"
	"io/fs"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwire/pkg/component"
	"github.com/goliatone/go-formwire/pkg/config"
	"github.com/goliatone/go-formwire/pkg/field"
	"github.com/goliatone/go-formwire/pkg/orchestrator"
	"github.com/goliatone/go-formwire/pkg/render"
	"github.com/goliatone/go-formwire/pkg/renderers/html"
)

// RenderOptions describes per-request data renderers use.
type RenderOptions = render.RenderOptions

// Component aliases component.Component.
type Component = component.Component

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Open loads settings from path (or the default locations when empty) and
// returns a configured orchestrator.
func Open(path string, logger *zap.Logger, options ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return orchestrator.FromConfig(cfg, logger, options...)
}

// LoadDocument reads a JSON or YAML field document.
func LoadDocument(path string) (field.Document, error) {
	return field.LoadFile(path)
}

// RenderDocument renders a fresh component for doc with the default renderer.
func RenderDocument(ctx context.Context, doc field.Document, options RenderOptions) ([]byte, error) {
	o := orchestrator.New()
	return o.Render(ctx, orchestrator.Request{
		Component:     o.DocumentComponent(doc, nil),
		RenderOptions: options,
	})
}

// EmbeddedTemplates exposes the built-in html templates so callers can copy or
// extend them.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
