package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formwire/pkg/field"
	"github.com/goliatone/go-formwire/pkg/render"
)

func TestMapErrorPayload(t *testing.T) {
	tree := field.MustTree([]field.Field{
		field.Input("name"),
		field.Tabs("settings",
			field.Tab("media", "Media", field.File("avatar")),
		),
		field.Input("tags"),
	})

	payload := map[string][]string{
		"name":                          {"Name is required", " Name is required "},
		"temporaryUploadedFiles.avatar": {"Avatar too big"},
		"/body/tags/0":                  {"Tags must be unique"},
		"non_field_errors":              {"Form level error"},
		"request/body/unknown-field":    {"Should fall back to form errors"},
		"settings":                      {"Containers are not inputs"},
		"":                              {"Unscoped form error"},
	}

	mapped := render.MapErrorPayload(tree, payload)

	wantFields := map[string][]string{
		"name":   {"Name is required"},
		"avatar": {"Avatar too big"},
		"tags":   {"Tags must be unique"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{
		"Containers are not inputs",
		"Form level error",
		"Should fall back to form errors",
		"Unscoped form error",
	}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayloadEmpty(t *testing.T) {
	mapped := render.MapErrorPayload(nil, nil)
	if mapped.Fields != nil || mapped.Form != nil {
		t.Fatalf("expected empty mapping, got %+v", mapped)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
