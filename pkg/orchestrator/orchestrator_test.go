package orchestrator_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formwire/pkg/config"
	"github.com/goliatone/go-formwire/pkg/events"
	"github.com/goliatone/go-formwire/pkg/orchestrator"
	"github.com/goliatone/go-formwire/pkg/render"
	"github.com/goliatone/go-formwire/pkg/testsupport"
	"github.com/goliatone/go-formwire/pkg/validation"
)

const profileDocument = `
name: profile
fields:
  - name: email
    type: email
    rules: [required]
  - id: settings
    kind: tabs
    children:
      - id: media
        kind: tab
        label: Media
        children:
          - name: avatar
            kind: file
            disk: public
            directory: avatars
            visibility: public
            rules: [image, "max=1"]
rules:
  email: [email]
attributes:
  email: Work email
`

func newOrchestrator(t *testing.T, options ...orchestrator.Option) (*orchestrator.Orchestrator, testsupport.Disks) {
	t.Helper()
	disks := testsupport.NewDisks()
	base := []orchestrator.Option{
		orchestrator.WithDisks(disks.Manager),
		orchestrator.WithStager(testsupport.NewStager(t)),
	}
	return orchestrator.New(append(base, options...)...), disks
}

func TestSubmitCommitsAfterValidation(t *testing.T) {
	o, disks := newOrchestrator(t)
	doc := testsupport.MustLoadDocument(t, testsupport.WriteFile(t, "profile.yaml", profileDocument))

	c := o.DocumentComponent(doc, nil)
	require.Equal(t, "profile", c.Name())
	c.Set("email", "jane@example.com")
	c.Stage("avatar", testsupport.MustStage(t, o.Stager(), "me.png", "\x89PNG"))

	require.NoError(t, o.Submit(testsupport.Context(), c))

	stored := c.Properties().String("avatar")
	require.True(t, strings.HasPrefix(stored, "avatars/"), stored)
	require.Equal(t, []string{stored}, disks.Public.Paths())
	require.Empty(t, c.Properties().Dirty())
}

func TestSubmitStopsOnValidationFailure(t *testing.T) {
	recorder := events.NewRecorder()
	o, disks := newOrchestrator(t, orchestrator.WithDispatcher(recorder))
	doc := testsupport.MustLoadDocument(t, testsupport.WriteFile(t, "profile.yaml", profileDocument))

	c := o.DocumentComponent(doc, nil)
	c.Set("email", "jane@example.com")
	c.Stage("avatar", testsupport.MustStage(t, o.Stager(), "big.png", strings.Repeat("x", 2048)))

	err := o.Submit(testsupport.Context(), c)
	var failure *validation.Failure
	require.ErrorAs(t, err, &failure)
	require.Equal(t, []string{"temporaryUploadedFiles.avatar"}, failure.FailedFields())

	require.Equal(t, []string{"avatar"}, c.Errors().Keys())
	require.Empty(t, disks.Public.Paths())
	_, staged := c.TemporaryUploadedFile("avatar")
	require.True(t, staged)
	require.Equal(t, []events.Event{{Name: events.SwitchTab, Payload: "settings.media"}}, recorder.Events())
}

func TestSubmitUsesDocumentLabels(t *testing.T) {
	recorder := events.NewRecorder()
	o, _ := newOrchestrator(t, orchestrator.WithDispatcher(recorder))
	doc := testsupport.MustLoadDocument(t, testsupport.WriteFile(t, "profile.yaml", profileDocument))

	c := o.DocumentComponent(doc, nil)
	c.Set("email", "not-an-email")

	require.Error(t, o.Submit(testsupport.Context(), c))
	require.Equal(t, "The Work email must be a valid email address.", c.Errors().First("email"))
	require.Empty(t, recorder.Events())
}

func TestRenderUsesDefaultRenderer(t *testing.T) {
	o, _ := newOrchestrator(t)
	doc := testsupport.MustLoadDocument(t, testsupport.WriteFile(t, "profile.yaml", profileDocument))
	c := o.DocumentComponent(doc, nil)
	c.AddError("temporaryUploadedFiles.avatar", "Too big")

	out, err := o.Render(testsupport.Context(), orchestrator.Request{
		Component:     c,
		RenderOptions: render.RenderOptions{Hidden: []render.HiddenField{render.CSRFToken("_csrf", "t")}},
	})
	require.NoError(t, err)

	html := string(out)
	require.Contains(t, html, `data-component="profile"`)
	require.Contains(t, html, `name="_csrf" value="t"`)
	require.Contains(t, html, `data-switch-tab="settings.media" aria-selected="true" class="fw-tab--invalid"`)
	require.Contains(t, html, `Too big`)
}

func TestRenderUnknownRenderer(t *testing.T) {
	o, _ := newOrchestrator(t)
	c := o.Component(struct{}{})

	_, err := o.Render(testsupport.Context(), orchestrator.Request{Component: c, Renderer: "pdf"})
	require.ErrorContains(t, err, `renderer "pdf"`)

	_, err = o.Render(testsupport.Context(), orchestrator.Request{})
	require.Error(t, err)
}

func TestFromConfigBuildsDisks(t *testing.T) {
	root := t.TempDir()
	cfg := config.NewDefaultConfig()
	cfg.Uploads.StagingDir = filepath.Join(root, "staging")
	cfg.Storage = config.StorageConfig{
		Default: "local",
		Disks: map[string]config.DiskConfig{
			"local":  {Driver: "local", Root: filepath.Join(root, "files")},
			"public": {Driver: "memory", URL: "https://cdn.test"},
		},
	}
	cfg.Forms.RecordDefaults = true

	o, err := orchestrator.FromConfig(cfg, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"local", "public"}, o.Disks().List())
	require.Equal(t, cfg.Uploads.StagingDir, o.Stager().Dir())

	doc := testsupport.MustLoadDocument(t, testsupport.WriteFile(t, "resume.yaml", `
name: resume
fields:
  - name: title
    default: Engineer
  - name: cv
    kind: file
    directory: cv
`))
	c := o.DocumentComponent(doc, mapRecord{"title": "Architect"})
	defaults, err := c.PropertyDefaults()
	require.NoError(t, err)
	require.Equal(t, "Architect", defaults["title"])

	c.Stage("cv", testsupport.MustStage(t, o.Stager(), "cv.pdf", "%PDF-1.4"))
	require.NoError(t, o.Submit(testsupport.Context(), c))

	stored := c.Properties().String("cv")
	data, err := os.ReadFile(filepath.Join(root, "files", stored))
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4", string(data))
}

func TestFromConfigRejectsUnknownDriver(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Uploads.StagingDir = t.TempDir()
	cfg.Storage.Disks = map[string]config.DiskConfig{"local": {Driver: "ftp"}}

	_, err := orchestrator.FromConfig(cfg, nil)
	require.ErrorContains(t, err, `unknown driver "ftp"`)
}

type mapRecord map[string]any

func (r mapRecord) Attribute(name string) (any, bool) {
	v, ok := r[name]
	return v, ok
}
