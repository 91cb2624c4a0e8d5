package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formwire/pkg/field"
)

// ErrMissingTranslator is passed to the missing handler when no translator is
// configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate implements Translator.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler returns the text to show when key could not be
// translated.
type MissingTranslationHandler func(locale, key string, err error) string

func missingTranslationDefault(_ string, key string, _ error) string {
	return key
}

// LocalizeFields returns a copy of fields with labels, help text and
// placeholders translated. Each text is used as its own key, so untranslated
// text stays as declared. Without a translator fields are returned unchanged.
func LocalizeFields(fields []field.Field, opts RenderOptions) []field.Field {
	if opts.Translator == nil || len(fields) == 0 {
		return fields
	}
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	out := make([]field.Field, len(fields))
	for i, fd := range fields {
		fd.Label = translate(opts.Locale, fd.Label, opts.Translator, onMissing)
		fd.Help = translate(opts.Locale, fd.Help, opts.Translator, onMissing)
		fd.Placeholder = translate(opts.Locale, fd.Placeholder, opts.Translator, onMissing)
		fd.Children = LocalizeFields(fd.Children, opts)
		out[i] = fd
	}
	return out
}

// Translate resolves one key with the options' translator and missing
// handler. Renderers use it for their own chrome.
func Translate(opts RenderOptions, key string) string {
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	if opts.Translator == nil {
		if strings.TrimSpace(key) == "" {
			return key
		}
		return onMissing(opts.Locale, key, ErrMissingTranslator)
	}
	return translate(opts.Locale, key, opts.Translator, onMissing)
}

func translate(locale, key string, t Translator, onMissing MissingTranslationHandler) string {
	if strings.TrimSpace(key) == "" {
		return key
	}
	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, err)
}
