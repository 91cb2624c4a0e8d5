package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formwire/pkg/events"
	"github.com/goliatone/go-formwire/pkg/prompt"
)

const profileDocument = `
name: profile
fields:
  - name: email
    type: email
    rules: [required, email]
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
`

type workspace struct {
	dir      string
	config   string
	document string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()
	w := workspace{
		dir:      dir,
		config:   filepath.Join(dir, "formwire.yaml"),
		document: filepath.Join(dir, "profile.yaml"),
	}
	w.write(t, "formwire.yaml", `
uploads:
  stagingDir: `+filepath.Join(dir, "staging")+`
storage:
  default: local
  disks:
    local:
      driver: memory
    public:
      driver: memory
      url: https://cdn.test
logging:
  level: error
`)
	w.write(t, "profile.yaml", profileDocument)
	return w
}

func (w workspace) write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(w.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func executeCommand(root *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func decodeReport(t *testing.T, out string) report {
	t.Helper()
	var r report
	require.NoError(t, json.Unmarshal([]byte(out), &r), out)
	return r
}

func TestValidateReportsErrorsAndTabFocus(t *testing.T) {
	w := newWorkspace(t)
	values := w.write(t, "values.yaml", "email: jane@example.com\n")
	big := w.write(t, "big.png", strings.Repeat("x", 2048))

	out, err := executeCommand(newRootCmd(), "validate", w.document,
		"--config", w.config, "--values", values, "--file", "avatar="+big)
	require.ErrorIs(t, err, errInvalid)

	r := decodeReport(t, out)
	assert.False(t, r.Valid)
	assert.Equal(t, []string{"The Avatar must not be greater than 1 kilobytes."}, r.Errors["avatar"])
	assert.Equal(t, []events.Event{{Name: events.SwitchTab, Payload: "settings.media"}}, r.Events)
}

func TestValidateOnlyChecksOneField(t *testing.T) {
	w := newWorkspace(t)

	out, err := executeCommand(newRootCmd(), "validate", w.document,
		"--config", w.config, "--only", "avatar")
	require.NoError(t, err)
	assert.True(t, decodeReport(t, out).Valid)

	_, err = executeCommand(newRootCmd(), "validate", w.document,
		"--config", w.config, "--only", "email")
	require.ErrorIs(t, err, errInvalid)

	big := w.write(t, "big.png", strings.Repeat("x", 2048))
	out, err = executeCommand(newRootCmd(), "validate", w.document,
		"--config", w.config, "--only", "avatar", "--file", "avatar="+big)
	require.ErrorIs(t, err, errInvalid)

	r := decodeReport(t, out)
	assert.Equal(t, []string{"avatar"}, keys(r.Errors))
	assert.Equal(t, []events.Event{{Name: events.SwitchTab, Payload: "settings.media"}}, r.Events)
}

func keys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestCommitStoresUploads(t *testing.T) {
	w := newWorkspace(t)
	values := w.write(t, "values.json", `{"email": "jane@example.com"}`)
	avatar := w.write(t, "me.png", "\x89PNG")

	out, err := executeCommand(newRootCmd(), "commit", w.document,
		"--config", w.config, "--values", values, "--file", "avatar="+avatar)
	require.NoError(t, err)

	r := decodeReport(t, out)
	require.True(t, r.Valid)
	assert.Empty(t, r.Errors)
	assert.Equal(t, "jane@example.com", r.Properties["email"])
	stored, _ := r.Properties["avatar"].(string)
	assert.True(t, strings.HasPrefix(stored, "avatars/"), stored)
	assert.NotContains(t, r.Properties, "temporaryUploadedFiles")
}

func TestCommitRejectsMalformedFileFlag(t *testing.T) {
	w := newWorkspace(t)

	_, err := executeCommand(newRootCmd(), "commit", w.document, "--config", w.config, "--file", "avatar")
	require.ErrorContains(t, err, `invalid --file "avatar"`)
}

func TestRenderWritesHTML(t *testing.T) {
	w := newWorkspace(t)
	output := filepath.Join(w.dir, "form.html")

	out, err := executeCommand(newRootCmd(), "render", w.document,
		"--config", w.config, "--validate", "--csrf", "tok", "--embed-state", "--output", output)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+output)

	html, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(html), `data-component="profile"`)
	assert.Contains(t, string(html), `name="_token" value="tok"`)
	assert.Contains(t, string(html), `name="_snapshot"`)
	assert.Contains(t, string(html), "The Email field is required.")
}

func TestRenderUnknownRenderer(t *testing.T) {
	w := newWorkspace(t)

	_, err := executeCommand(newRootCmd(), "render", w.document, "--config", w.config, "--renderer", "pdf")
	require.ErrorContains(t, err, `renderer "pdf"`)
}

type answers struct {
	inputs []string
}

func (a *answers) Input(context.Context, prompt.InputConfig) (string, error) {
	if len(a.inputs) == 0 {
		return "", errors.New("no answers left")
	}
	next := a.inputs[0]
	a.inputs = a.inputs[1:]
	return next, nil
}

func (a *answers) Password(ctx context.Context, cfg prompt.InputConfig) (string, error) {
	return a.Input(ctx, cfg)
}

func (a *answers) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) { return false, nil }

func (a *answers) Select(context.Context, prompt.SelectConfig) (int, error) { return 0, nil }

func (a *answers) Info(context.Context, string) error { return nil }

func TestFillPromptsThenCommits(t *testing.T) {
	w := newWorkspace(t)
	avatar := w.write(t, "me.png", "\x89PNG")
	driver := &answers{inputs: []string{"nope", "jane@example.com", avatar}}

	out, err := executeCommand(newRootCmdWith(&rootOptions{driver: driver}), "fill", w.document, "--config", w.config)
	require.NoError(t, err)

	r := decodeReport(t, out)
	require.True(t, r.Valid)
	assert.Equal(t, "jane@example.com", r.Properties["email"])
	assert.NotEmpty(t, r.Properties["avatar"])
	assert.Empty(t, driver.inputs)
}
