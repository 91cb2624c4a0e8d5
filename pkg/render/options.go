package render

import "strings"

// RenderOptions carry per-request data that renderers use without touching
// the form projection.
type RenderOptions struct {
	// Component names the owning component. Renderers expose it so client
	// updates can be routed back.
	Component string
	// Values pre-populates controls by field name.
	Values map[string]any
	// Errors holds field messages keyed by plain field name.
	Errors map[string][]string
	// FormErrors holds messages that belong to no field.
	FormErrors []string
	// ActiveTab selects the tab shown first, as "container.tab" or a bare tab
	// id. Empty selects the first tab of every container.
	ActiveTab string
	// Hidden inputs emitted alongside the fields.
	Hidden []HiddenField
	// Locale and Translator localise labels, help text and placeholders.
	Locale     string
	Translator Translator
	// OnMissing decides what to show when a translation is missing.
	OnMissing MissingTranslationHandler
}

// Value returns the value for a field name. Dotted names are looked up as a
// flat key first and then as a path through nested maps.
func (o RenderOptions) Value(name string) any {
	if v, ok := o.Values[name]; ok {
		return v
	}
	var current any = o.Values
	for _, segment := range strings.Split(name, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		if current, ok = m[segment]; !ok {
			return nil
		}
	}
	return current
}
