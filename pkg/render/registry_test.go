package render_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formwire/pkg/component"
	"github.com/goliatone/go-formwire/pkg/field"
	"github.com/goliatone/go-formwire/pkg/form"
	"github.com/goliatone/go-formwire/pkg/render"
	"github.com/goliatone/go-formwire/pkg/upload"
)

type captureRenderer struct {
	name    string
	options render.RenderOptions
	fields  []field.Field
}

func (r *captureRenderer) Name() string        { return r.name }
func (r *captureRenderer) ContentType() string { return "text/plain" }

func (r *captureRenderer) Render(_ context.Context, f *form.Form, options render.RenderOptions) ([]byte, error) {
	r.fields = f.Fields()
	r.options = options
	return []byte("ok"), nil
}

func TestRegistry(t *testing.T) {
	registry := render.NewRegistry()
	require.NoError(t, registry.Register(&captureRenderer{name: "b"}))
	require.NoError(t, registry.Register(&captureRenderer{name: "a"}))
	require.Error(t, registry.Register(&captureRenderer{name: "a"}))
	require.Error(t, registry.Register(&captureRenderer{}))
	require.Error(t, registry.Register(nil))

	require.Equal(t, []string{"a", "b"}, registry.List())

	_, err := registry.Get("missing")
	require.ErrorContains(t, err, `renderer "missing" not found`)
}

type profile struct{}

func (profile) Fields() []field.Field {
	return []field.Field{field.Input("name"), field.File("avatar")}
}

func TestRenderComponentPassesState(t *testing.T) {
	c := component.New(profile{}, component.WithName("profile"))
	c.Set("name", "Jane")
	c.Stage("avatar", &upload.TemporaryFile{ID: "1", ClientName: "me.png"})
	c.AddError("temporaryUploadedFiles.avatar", "Too big")

	r := &captureRenderer{name: "capture"}
	out, err := render.RenderComponent(context.Background(), r, c, render.RenderOptions{Locale: "en"})
	require.NoError(t, err)
	require.Equal(t, "ok", string(out))

	require.Len(t, r.fields, 2)
	require.Equal(t, "profile", r.options.Component)
	require.Equal(t, "en", r.options.Locale)
	require.Equal(t, map[string]any{"name": "Jane"}, r.options.Values)
	require.Equal(t, map[string][]string{"avatar": {"Too big"}}, r.options.Errors)
}
