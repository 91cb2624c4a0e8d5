package orchestrator

import (
	"github.com/goliatone/go-formwire/pkg/component"
	"github.com/goliatone/go-formwire/pkg/field"
	"github.com/goliatone/go-formwire/pkg/form"
)

// DocumentHost serves a loaded field document as a component host.
type DocumentHost struct {
	Document field.Document
	Current  form.Record
}

var (
	_ component.FieldProvider     = DocumentHost{}
	_ component.RuleDeclarer      = DocumentHost{}
	_ component.AttributeDeclarer = DocumentHost{}
	_ component.MessageDeclarer   = DocumentHost{}
	_ component.RecordHolder      = DocumentHost{}
)

// NewDocumentHost returns a host for doc editing record. record may be nil.
func NewDocumentHost(doc field.Document, record form.Record) DocumentHost {
	return DocumentHost{Document: doc, Current: record}
}

// Fields implements component.FieldProvider.
func (h DocumentHost) Fields() []field.Field { return h.Document.Fields }

// Rules implements component.RuleDeclarer.
func (h DocumentHost) Rules() map[string][]string { return h.Document.Rules }

// ValidationAttributes implements component.AttributeDeclarer.
func (h DocumentHost) ValidationAttributes() map[string]string { return h.Document.Attributes }

// Messages implements component.MessageDeclarer.
func (h DocumentHost) Messages() map[string]string { return h.Document.Messages }

// Record implements component.RecordHolder.
func (h DocumentHost) Record() form.Record { return h.Current }

// DocumentComponent wraps doc in a component named after the document.
func (o *Orchestrator) DocumentComponent(doc field.Document, record form.Record, options ...component.Option) *component.Component {
	base := []component.Option{}
	if doc.Name != "" {
		base = append(base, component.WithName(doc.Name))
	}
	return o.Component(NewDocumentHost(doc, record), append(base, options...)...)
}
