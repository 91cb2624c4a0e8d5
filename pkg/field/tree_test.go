package field_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwire/pkg/field"
)

func sampleFields() []field.Field {
	return []field.Field{
		field.Input("title").WithRules("required"),
		field.Tabs("settings",
			field.Tab("profile", "Profile",
				field.Email("email"),
				field.Section("avatar-box", "Avatar",
					field.File("avatar").OnDisk("public").Public(),
				),
			),
			field.Tab("billing", "Billing",
				field.Input("iban"),
			),
		),
	}
}

func keys(fields []field.Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Key())
	}
	return out
}

func TestTreeFlattenDepthFirst(t *testing.T) {
	tree := field.MustTree(sampleFields())

	want := []string{"title", "settings", "profile", "email", "avatar-box", "avatar", "billing", "iban"}
	if diff := cmp.Diff(want, keys(tree.Flatten())); diff != "" {
		t.Fatalf("flatten order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"title", "email", "avatar", "iban"}, keys(tree.Inputs())); diff != "" {
		t.Fatalf("inputs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"avatar"}, keys(tree.Files())); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestTreeAncestorsAndEnclosingTab(t *testing.T) {
	tree := field.MustTree(sampleFields())

	if diff := cmp.Diff([]string{"avatar-box", "profile", "settings"}, keys(tree.Ancestors("avatar"))); diff != "" {
		t.Fatalf("ancestors mismatch (-want +got):\n%s", diff)
	}

	tab, container, ok := tree.EnclosingTab("avatar")
	if !ok {
		t.Fatalf("expected avatar to sit inside a tab")
	}
	if tab.Key() != "profile" || container.Key() != "settings" {
		t.Fatalf("unexpected tab %q in container %q", tab.Key(), container.Key())
	}

	if _, _, ok := tree.EnclosingTab("title"); ok {
		t.Fatalf("title is not inside a tab")
	}

	parent, ok := tree.Parent("iban")
	if !ok || parent.Key() != "billing" {
		t.Fatalf("unexpected parent for iban: %+v (ok=%v)", parent, ok)
	}
	if _, ok := tree.Parent("title"); ok {
		t.Fatalf("root fields have no parent")
	}
}

func TestNewTreeRejectsDuplicates(t *testing.T) {
	_, err := field.NewTree([]field.Field{
		field.Input("email"),
		field.Section("extra", "Extra", field.Email("email")),
	})
	if !errors.Is(err, field.ErrDuplicateKey) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}

func TestNewTreeRejectsAnonymousFields(t *testing.T) {
	if _, err := field.NewTree([]field.Field{{Kind: field.KindInput}}); err == nil {
		t.Fatalf("expected error for field without name")
	}
}

func TestBuildersDoNotShareRuleSlices(t *testing.T) {
	base := field.Input("name").WithRules("required")
	a := base.WithRules("min=2")
	b := base.WithRules("max=5")

	if diff := cmp.Diff([]string{"required", "min=2"}, a.Rules); diff != "" {
		t.Fatalf("rules a mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"required", "max=5"}, b.Rules); diff != "" {
		t.Fatalf("rules b mismatch (-want +got):\n%s", diff)
	}
}
