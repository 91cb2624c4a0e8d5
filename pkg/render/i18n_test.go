package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwire/pkg/field"
	"github.com/goliatone/go-formwire/pkg/render"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func TestLocalizeFieldsTranslatesNestedText(t *testing.T) {
	fields := []field.Field{
		field.Tabs("settings",
			field.Tab("general", "tabs.general",
				field.Input("name").WithLabel("fields.name").WithHelp("Shown publicly"),
			),
		),
	}
	opts := render.RenderOptions{
		Locale: "es",
		Translator: stubTranslator{
			"tabs.general": "General",
			"fields.name":  "Nombre",
		},
	}

	got := render.LocalizeFields(fields, opts)

	tab := got[0].Children[0]
	input := tab.Children[0]
	if diff := cmp.Diff([]string{"General", "Nombre", "Shown publicly"}, []string{tab.Label, input.Label, input.Help}); diff != "" {
		t.Fatalf("localized text mismatch (-want +got):\n%s", diff)
	}
	if fields[0].Children[0].Label != "tabs.general" {
		t.Fatalf("input fields were mutated")
	}
}

func TestLocalizeFieldsWithoutTranslator(t *testing.T) {
	fields := []field.Field{field.Input("name").WithLabel("fields.name")}
	got := render.LocalizeFields(fields, render.RenderOptions{})
	if got[0].Label != "fields.name" {
		t.Fatalf("expected label unchanged, got %q", got[0].Label)
	}
}

func TestTranslateUsesMissingHandler(t *testing.T) {
	var gotErr error
	opts := render.RenderOptions{
		Locale: "fr",
		OnMissing: func(locale, key string, err error) string {
			gotErr = err
			return "[" + locale + ":" + key + "]"
		},
	}
	if got := render.Translate(opts, "actions.save"); got != "[fr:actions.save]" {
		t.Fatalf("unexpected translation %q", got)
	}
	if !errors.Is(gotErr, render.ErrMissingTranslator) {
		t.Fatalf("expected ErrMissingTranslator, got %v", gotErr)
	}
}
