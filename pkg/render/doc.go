// Package render defines the contract between a component's form and the
// renderers that turn it into markup, plus the helpers that shape per-request
// data (values, error bags, hidden inputs, translations) for them.
package render
