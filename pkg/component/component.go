package component

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwire/pkg/events"
	"github.com/goliatone/go-formwire/pkg/field"
	"github.com/goliatone/go-formwire/pkg/form"
	"github.com/goliatone/go-formwire/pkg/property"
	"github.com/goliatone/go-formwire/pkg/storage"
	"github.com/goliatone/go-formwire/pkg/upload"
	"github.com/goliatone/go-formwire/pkg/validation"
)

// FieldProvider is implemented by hosts that declare a field tree. Hosts
// without it get an empty tree.
type FieldProvider interface {
	Fields() []field.Field
}

// RuleDeclarer is implemented by hosts that declare rules outside the tree.
// Values may be pipe-delimited ("required|email").
type RuleDeclarer interface {
	Rules() map[string][]string
}

// AttributeDeclarer is implemented by hosts that override validation labels.
type AttributeDeclarer interface {
	ValidationAttributes() map[string]string
}

// MessageDeclarer is implemented by hosts that override validation messages,
// keyed by "field.rule" or "rule".
type MessageDeclarer interface {
	Messages() map[string]string
}

// RecordHolder is implemented by hosts editing an existing record.
type RecordHolder interface {
	Record() form.Record
}

// Option configures a Component.
type Option func(*Component)

// WithName overrides the identifier passed to forms. Defaults to the host's
// type name.
func WithName(name string) Option {
	return func(c *Component) {
		if name = strings.TrimSpace(name); name != "" {
			c.name = name
		}
	}
}

// WithRecord sets the record being edited. It takes precedence over a
// RecordHolder host.
func WithRecord(record form.Record) Option {
	return func(c *Component) {
		c.record = record
	}
}

// WithProperties seeds the baseline property values.
func WithProperties(baseline map[string]any) Option {
	return func(c *Component) {
		for k, v := range baseline {
			c.baseline[k] = v
		}
	}
}

// WithValidator swaps the rule evaluation collaborator.
func WithValidator(v validation.Validator) Option {
	return func(c *Component) {
		if v != nil {
			c.validator = v
		}
	}
}

// WithDisks sets the disks staged uploads are persisted to.
func WithDisks(disks *storage.Manager) Option {
	return func(c *Component) {
		c.disks = disks
	}
}

// WithStager lets the component discard staged files once they are persisted.
func WithStager(stager *upload.Stager) Option {
	return func(c *Component) {
		c.stager = stager
	}
}

// WithDispatcher sets the browser event channel.
func WithDispatcher(d events.Dispatcher) Option {
	return func(c *Component) {
		if d != nil {
			c.events = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Component) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithFormOptions forwards options to every Form the component builds.
func WithFormOptions(options ...form.Option) Option {
	return func(c *Component) {
		c.formOptions = append(c.formOptions, options...)
	}
}

// Component equips a host with form handling: it owns the property bag, the
// staged uploads and the error bag for one interaction. A Component is not
// safe for concurrent use; each interaction runs to completion on one
// goroutine.
type Component struct {
	host        any
	name        string
	record      form.Record
	baseline    map[string]any
	props       *property.Bag
	errors      *validation.ErrorBag
	validator   validation.Validator
	disks       *storage.Manager
	stager      *upload.Stager
	events      events.Dispatcher
	logger      *zap.Logger
	formOptions []form.Option
}

// New wraps host. host may implement any of FieldProvider, RuleDeclarer,
// AttributeDeclarer, MessageDeclarer and RecordHolder.
func New(host any, options ...Option) *Component {
	c := &Component{
		host:      host,
		name:      strings.TrimPrefix(fmt.Sprintf("%T", host), "*"),
		baseline:  map[string]any{upload.PropertyPrefix: map[string]any{}},
		errors:    validation.NewErrorBag(),
		validator: validation.New(),
		events:    events.Discard,
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	c.props = property.NewBag(c.baseline)
	return c
}

// Name returns the identifier passed to forms.
func (c *Component) Name() string { return c.name }

// Host returns the wrapped host.
func (c *Component) Host() any { return c.host }

// Properties returns the property bag.
func (c *Component) Properties() *property.Bag { return c.props }

// Errors returns the error bag exposed to the rendering layer. Keys are plain
// field names.
func (c *Component) Errors() *validation.ErrorBag { return c.errors }

// AddError records message for key.
func (c *Component) AddError(key, message string) {
	c.errors.Add(upload.FieldName(key), message)
}

// ResetErrorBag clears every message.
func (c *Component) ResetErrorBag() { c.errors.Clear() }

// Get returns the property at path.
func (c *Component) Get(path string) (any, bool) { return c.props.Get(path) }

// Set updates the property at path the way a client update does.
func (c *Component) Set(path string, value any) { c.props.Sync(path, value, true) }

// Record returns the record being edited, if any.
func (c *Component) Record() form.Record {
	if c.record != nil {
		return c.record
	}
	if holder, ok := c.host.(RecordHolder); ok {
		return holder.Record()
	}
	return nil
}

// SetRecord replaces the record being edited.
func (c *Component) SetRecord(record form.Record) { c.record = record }

// Fields returns the host's field tree, or nil when it declares none.
func (c *Component) Fields() []field.Field {
	if provider, ok := c.host.(FieldProvider); ok {
		return provider.Fields()
	}
	return nil
}

// Form builds a fresh projection of the current field tree.
func (c *Component) Form() (*form.Form, error) {
	f, err := form.New(c.Fields(), c.name, c.Record(), c.formOptions...)
	if err != nil {
		return nil, fmt.Errorf("component: %w", err)
	}
	return f, nil
}

// Rules merges form rules with host-declared rules. Host rules are appended
// after the form's for the same key; duplicates are kept.
func (c *Component) Rules() (map[string][]string, error) {
	f, err := c.Form()
	if err != nil {
		return nil, err
	}
	rules := f.Rules()
	if declarer, ok := c.host.(RuleDeclarer); ok {
		for key, constraints := range declarer.Rules() {
			for _, constraint := range constraints {
				rules[key] = append(rules[key], validation.SplitRules(constraint)...)
			}
		}
	}
	return rules, nil
}

// ValidationAttributes merges form labels with host labels; host labels win.
func (c *Component) ValidationAttributes() (map[string]string, error) {
	f, err := c.Form()
	if err != nil {
		return nil, err
	}
	attributes := f.ValidationAttributes()
	if declarer, ok := c.host.(AttributeDeclarer); ok {
		for key, label := range declarer.ValidationAttributes() {
			attributes[key] = label
		}
	}
	return attributes, nil
}

// Messages returns host-declared message overrides.
func (c *Component) Messages() map[string]string {
	if declarer, ok := c.host.(MessageDeclarer); ok {
		return declarer.Messages()
	}
	return nil
}
