package field_test

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwire/pkg/field"
)

const profileYAML = `
name: profile
fields:
  - name: email
    type: email
    label: Email address
    rules: [required, email]
  - kind: tabs
    id: settings
    children:
      - kind: tab
        id: media
        label: Media
        children:
          - name: avatar
            type: file
            disk: public
            directory: avatars
            visibility: public
            rules: [image, max=1024]
rules:
  email: [max=255]
attributes:
  email: E-mail
`

func TestParseYAML(t *testing.T) {
	doc, err := field.Parse([]byte(profileYAML), "profile.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if doc.Name != "profile" {
		t.Fatalf("unexpected name %q", doc.Name)
	}
	tree := field.MustTree(doc.Fields)
	avatar, ok := tree.Lookup("avatar")
	if !ok {
		t.Fatalf("avatar not found")
	}
	if avatar.Kind != field.KindFile || !avatar.IsPublic() || avatar.Disk != "public" || avatar.Directory != "avatars" {
		t.Fatalf("unexpected avatar field: %+v", avatar)
	}
	email, _ := tree.Lookup("email")
	if email.Kind != field.KindInput {
		t.Fatalf("expected email to be inferred as input, got %q", email.Kind)
	}
	if diff := cmp.Diff(map[string][]string{"email": {"max=255"}}, doc.Rules); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSONFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/contact.json": {Data: []byte(`{"fields":[{"name":"message","default":"hi"},{"name":"attachment","type":"file"}]}`)},
	}
	doc, err := field.LoadFS(fsys, "forms/contact.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(doc.Fields))
	}
	if doc.Fields[0].Default != "hi" || doc.Fields[0].Type != "text" {
		t.Fatalf("unexpected message field: %+v", doc.Fields[0])
	}
	if doc.Fields[1].Kind != field.KindFile || doc.Fields[1].Visibility != field.VisibilityPrivate {
		t.Fatalf("unexpected attachment field: %+v", doc.Fields[1])
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"empty":      "   ",
		"kind":       `{"fields":[{"name":"x","kind":"widget"}]}`,
		"visibility": `{"fields":[{"name":"x","type":"file","visibility":"world"}]}`,
		"duplicate":  `{"fields":[{"name":"x"},{"name":"x"}]}`,
		"anonymous":  `{"fields":[{"label":"nothing"}]}`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := field.Parse([]byte(input), name); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
