package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwire/pkg/render"
)

func TestSortedHiddenFields(t *testing.T) {
	sorted := render.SortedHiddenFields(
		render.CSRFToken("_csrf", "stale"),
		render.Hidden(" version ", 4),
		render.SnapshotField([]byte(`{"component":"profile"}`)),
		render.CSRFToken("_csrf", "token123"),
		render.Hidden("  ", "skip"),
	)

	want := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "_snapshot", Value: `{"component":"profile"}`},
		{Name: "version", Value: "4"},
	}
	if diff := cmp.Diff(want, sorted); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestSortedHiddenFieldsEmpty(t *testing.T) {
	if got := render.SortedHiddenFields(); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
