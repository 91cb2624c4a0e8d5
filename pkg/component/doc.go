// Package component provides the form-bearing component: the stateful object
// behind a server-driven form. A host type declares its field tree (and
// optionally extra rules, labels, messages and a record) and a Component
// wraps it with a property bag, staged uploads, validation with tab focus
// hints, upload persistence and reset-to-defaults.
//
// Staged uploads live in the property bag under
// "temporaryUploadedFiles.<field>". Validating them uses that namespace, but
// the error bag handed to the rendering layer is always keyed by plain field
// names.
package component
