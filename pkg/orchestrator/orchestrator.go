package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwire/pkg/component"
	"github.com/goliatone/go-formwire/pkg/events"
	"github.com/goliatone/go-formwire/pkg/form"
	"github.com/goliatone/go-formwire/pkg/render"
	"github.com/goliatone/go-formwire/pkg/renderers/html"
	"github.com/goliatone/go-formwire/pkg/storage"
	"github.com/goliatone/go-formwire/pkg/upload"
	"github.com/goliatone/go-formwire/pkg/validation"
)

const defaultRendererName = html.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request names none.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithDisks sets the disks uploads are committed to.
func WithDisks(disks *storage.Manager) Option {
	return func(o *Orchestrator) {
		o.disks = disks
	}
}

// WithStager sets the upload staging area.
func WithStager(stager *upload.Stager) Option {
	return func(o *Orchestrator) {
		o.stager = stager
	}
}

// WithValidator swaps the rule evaluation collaborator.
func WithValidator(v validation.Validator) Option {
	return func(o *Orchestrator) {
		o.validator = v
	}
}

// WithDispatcher sets the browser event channel handed to components.
func WithDispatcher(d events.Dispatcher) Option {
	return func(o *Orchestrator) {
		o.dispatcher = d
	}
}

// WithLogger sets the logger handed to components.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithFormOptions forwards options to every form built by components.
func WithFormOptions(options ...form.Option) Option {
	return func(o *Orchestrator) {
		o.formOptions = append(o.formOptions, options...)
	}
}

// Orchestrator holds the collaborators shared by every component of an
// application. Missing collaborators are replaced with built-in defaults: an
// in-memory "local" disk, the rule engine, and the html renderer.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	disks           *storage.Manager
	stager          *upload.Stager
	validator       validation.Validator
	dispatcher      events.Dispatcher
	logger          *zap.Logger
	formOptions     []form.Option
	initialiseErr   error
}

// New constructs an Orchestrator applying options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Disks returns the disk manager.
func (o *Orchestrator) Disks() *storage.Manager { return o.disks }

// Stager returns the staging area, or nil when none is configured.
func (o *Orchestrator) Stager() *upload.Stager { return o.stager }

// Registry returns the renderer registry.
func (o *Orchestrator) Registry() *render.Registry { return o.registry }

// Component wraps host with the shared collaborators. options are applied
// after the shared ones and may override them.
func (o *Orchestrator) Component(host any, options ...component.Option) *component.Component {
	base := []component.Option{
		component.WithDisks(o.disks),
		component.WithStager(o.stager),
		component.WithValidator(o.validator),
		component.WithLogger(o.logger),
		component.WithFormOptions(o.formOptions...),
	}
	if o.dispatcher != nil {
		base = append(base, component.WithDispatcher(o.dispatcher))
	}
	return component.New(host, append(base, options...)...)
}

// Submit validates every rule of c and, when that passes, commits its staged
// uploads. A *validation.Failure or *component.PersistError is returned
// unchanged.
func (o *Orchestrator) Submit(ctx context.Context, c *component.Component) error {
	if err := o.initialiseErr; err != nil {
		return err
	}
	if err := c.Validate(ctx); err != nil {
		return err
	}
	if err := c.StoreTemporaryUploadedFiles(ctx); err != nil {
		return err
	}
	c.Properties().ClearDirty()
	o.logger.Info("form submitted", zap.String("component", c.Name()))
	return nil
}

// Request describes a render of one component.
type Request struct {
	Component *component.Component
	// Renderer names the renderer to use. Empty selects the default renderer.
	Renderer string
	// RenderOptions are merged with the component's values and errors.
	RenderOptions render.RenderOptions
}

// Render renders the current state of req.Component.
func (o *Orchestrator) Render(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if req.Component == nil {
		return nil, errors.New("orchestrator: component is required")
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}
	output, err := render.RenderComponent(ctx, renderer, req.Component, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return o.registry.Get(names[0])
}

func (o *Orchestrator) applyDefaults() {
	if o.disks == nil {
		o.disks = storage.NewManager("local")
		o.disks.MustRegister(storage.NewMemoryDisk("local", ""))
	}
	if o.validator == nil {
		o.validator = validation.New()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := html.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
