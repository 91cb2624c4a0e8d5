package form

import (
	"fmt"

	"github.com/goliatone/go-formwire/internal/labels"
	"github.com/goliatone/go-formwire/pkg/field"
	"github.com/goliatone/go-formwire/pkg/upload"
)

// Record is an existing persisted entity a form edits.
type Record interface {
	Attribute(name string) (any, bool)
}

// RecordMap adapts a plain map to Record.
type RecordMap map[string]any

// Attribute implements Record.
func (r RecordMap) Attribute(name string) (any, bool) {
	v, ok := r[name]
	return v, ok
}

// Option configures a Form.
type Option func(*Form)

// WithRecordDefaults makes Defaults prefer the record's current values over
// static field defaults for every input field the record carries.
func WithRecordDefaults() Option {
	return func(f *Form) {
		f.recordDefaults = true
	}
}

// WithLabeler overrides the label derived for fields without an explicit
// label.
func WithLabeler(labeler func(string) string) Option {
	return func(f *Form) {
		if labeler != nil {
			f.labeler = labeler
		}
	}
}

// Form is a read-only projection over a field tree, the component that owns it
// and an optional record. It is cheap to build and is rebuilt on every access.
type Form struct {
	tree           *field.Tree
	component      string
	record         Record
	recordDefaults bool
	labeler        func(string) string
}

// New indexes fields and returns the projection. record may be nil when the
// form creates a new entity.
func New(fields []field.Field, component string, record Record, options ...Option) (*Form, error) {
	tree, err := field.NewTree(fields)
	if err != nil {
		return nil, fmt.Errorf("form: %s: %w", component, err)
	}
	f := &Form{
		tree:      tree,
		component: component,
		record:    record,
		labeler:   labels.Default,
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

// Fields returns the top-level fields as declared.
func (f *Form) Fields() []field.Field { return f.tree.Roots() }

// Tree returns the indexed field tree.
func (f *Form) Tree() *field.Tree { return f.tree }

// Component returns the identifier of the owning component.
func (f *Form) Component() string { return f.component }

// Record returns the existing record, if any.
func (f *Form) Record() Record { return f.record }

// Defaults maps every leaf declaring a default to that default. Containers
// never contribute entries.
func (f *Form) Defaults() map[string]any {
	out := make(map[string]any)
	f.tree.Walk(func(fd field.Field, _ int) bool {
		if !fd.IsInput() {
			return true
		}
		if f.recordDefaults && f.record != nil && !fd.IsFile() {
			if v, ok := f.record.Attribute(fd.Name); ok {
				out[fd.Name] = v
				return true
			}
		}
		if fd.HasDefault() {
			out[fd.Name] = fd.Default
		}
		return true
	})
	return out
}

// Rules maps every leaf declaring constraints to a copy of them. File fields
// are keyed under the staging namespace since the value under validation is
// the staged upload.
func (f *Form) Rules() map[string][]string {
	out := make(map[string][]string)
	f.tree.Walk(func(fd field.Field, _ int) bool {
		if !fd.IsInput() || len(fd.Rules) == 0 {
			return true
		}
		key := fd.Name
		if fd.IsFile() {
			key = upload.PropertyName(fd.Name)
		}
		out[key] = append([]string(nil), fd.Rules...)
		return true
	})
	return out
}

// ValidationAttributes maps every leaf to its human label. File fields are
// also labelled under their staging key so messages about staged uploads read
// naturally.
func (f *Form) ValidationAttributes() map[string]string {
	out := make(map[string]string)
	f.tree.Walk(func(fd field.Field, _ int) bool {
		if !fd.IsInput() {
			return true
		}
		label := f.label(fd)
		out[fd.Name] = label
		if fd.IsFile() {
			out[upload.PropertyName(fd.Name)] = label
		}
		return true
	})
	return out
}

// Label returns the display label of the input name: the declared label, or
// one derived from the name. Unknown names get a derived label too.
func (f *Form) Label(name string) string {
	fd, ok := f.tree.Lookup(name)
	if !ok {
		return f.labeler(name)
	}
	return f.label(fd)
}

func (f *Form) label(fd field.Field) string {
	if fd.Label != "" {
		return fd.Label
	}
	return f.labeler(fd.Name)
}
