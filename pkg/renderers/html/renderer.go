// Package html renders a form projection to HTML with pongo2 templates. Tabs
// carry data-switch-tab attributes whose values match the payload of the
// switch-tab browser event, so the client can focus a tab either way.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/iancoleman/strcase"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formwire/pkg/events"
	"github.com/goliatone/go-formwire/pkg/field"
	"github.com/goliatone/go-formwire/pkg/form"
	"github.com/goliatone/go-formwire/pkg/render"
)

// Name identifies the renderer in a render.Registry.
const Name = "html"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templates fs.FS
	policy    *bluemonday.Policy
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(path) == "" {
			return
		}
		cfg.templates = os.DirFS(path)
	}
}

// WithHelpPolicy replaces the sanitiser applied to help text.
func WithHelpPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// Renderer implements render.Renderer.
type Renderer struct {
	set    *pongo2.TemplateSet
	policy *bluemonday.Policy

	mu        sync.RWMutex
	templates map[string]*pongo2.Template
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templates: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.policy == nil {
		cfg.policy = helpSanitizer()
	}

	r := &Renderer{
		set:       pongo2.NewSet("formwire", pongo2.NewFSLoader(cfg.templates)),
		policy:    cfg.policy,
		templates: make(map[string]*pongo2.Template),
	}
	for _, name := range []string{"form.tpl", "input.tpl", "file.tpl", "tabs.tpl", "tab.tpl", "section.tpl"} {
		if _, err := r.template(name); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Name implements render.Renderer.
func (r *Renderer) Name() string { return Name }

// ContentType implements render.Renderer.
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render implements render.Renderer.
func (r *Renderer) Render(ctx context.Context, f *form.Form, opts render.RenderOptions) ([]byte, error) {
	if f == nil {
		return nil, fmt.Errorf("html renderer: form is nil")
	}

	tree := f.Tree()
	mapped := render.MapErrorPayload(tree, opts.Errors)
	state := &renderState{
		ctx:      ctx,
		form:     f,
		tree:     tree,
		opts:     opts,
		errors:   mapped.Fields,
		idPrefix: strcase.ToKebab(lastSegment(f.Component())),
	}
	state.active, state.invalidTabs = tabState(tree, opts.ActiveTab, mapped.Fields)

	var body strings.Builder
	for _, fd := range render.LocalizeFields(f.Fields(), opts) {
		if err := r.renderNode(state, &body, fd, ""); err != nil {
			return nil, err
		}
	}

	hidden := make([]map[string]any, 0, len(opts.Hidden))
	for _, h := range render.SortedHiddenFields(opts.Hidden...) {
		hidden = append(hidden, map[string]any{"name": h.Name, "value": h.Value})
	}

	out, err := r.execute("form.tpl", pongo2.Context{
		"component":   opts.Component,
		"active_tab":  opts.ActiveTab,
		"hidden":      hidden,
		"form_errors": render.MergeFormErrors(opts.FormErrors, mapped.Form...),
		"body":        body.String(),
	})
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

type renderState struct {
	ctx         context.Context
	form        *form.Form
	tree        *field.Tree
	opts        render.RenderOptions
	errors      map[string][]string
	idPrefix    string
	active      map[string]string
	invalidTabs map[string]bool
}

func (r *Renderer) renderNode(state *renderState, out *strings.Builder, fd field.Field, container string) error {
	if err := state.ctx.Err(); err != nil {
		return err
	}

	var children strings.Builder
	for _, child := range fd.Children {
		if err := r.renderNode(state, &children, child, fd.Key()); err != nil {
			return err
		}
	}

	data := pongo2.Context{
		"key":      fd.Key(),
		"label":    fd.Label,
		"help":     sanitizeHelp(r.policy, fd.Help),
		"children": children.String(),
	}

	var name string
	switch fd.Kind {
	case field.KindTabs:
		name = "tabs.tpl"
		data["tabs"] = state.tabNav(fd)
	case field.KindTab:
		name = "tab.tpl"
		data["target"] = events.TabPayload(container, fd.Key())
		data["active"] = container == "" || state.active[container] == fd.Key()
	case field.KindSection:
		name = "section.tpl"
	case field.KindFile:
		name = "file.tpl"
		state.inputData(data, fd)
		data["disk"] = fd.Disk
		data["visibility"] = fd.Visibility
		data["accept"] = acceptFor(fd.Rules)
	default:
		name = "input.tpl"
		state.inputData(data, fd)
	}

	rendered, err := r.execute(name, data)
	if err != nil {
		return err
	}
	out.WriteString(rendered)
	return nil
}

func (s *renderState) inputData(data pongo2.Context, fd field.Field) {
	value := s.opts.Value(fd.Name)
	if value == nil {
		value = fd.Default
	}
	text := ""
	if value != nil {
		text = fmt.Sprint(value)
	}

	label := fd.Label
	if label == "" {
		label = s.form.Label(fd.Name)
	}

	data["id"] = s.idPrefix + "-" + strcase.ToKebab(fd.Name)
	data["name"] = fd.Name
	data["type"] = fd.Type
	data["label"] = label
	data["placeholder"] = fd.Placeholder
	data["options"] = fd.Options
	data["value"] = text
	data["checked"] = isChecked(value)
	data["required"] = hasRule(fd.Rules, "required")
	data["errors"] = s.errors[fd.Name]
}

func (s *renderState) tabNav(container field.Field) []map[string]any {
	nav := make([]map[string]any, 0, len(container.Children))
	for _, tab := range container.Children {
		if !tab.IsTab() {
			continue
		}
		nav = append(nav, map[string]any{
			"target":  events.TabPayload(container.Key(), tab.Key()),
			"label":   tab.Label,
			"active":  s.active[container.Key()] == tab.Key(),
			"invalid": s.invalidTabs[tab.Key()],
		})
	}
	return nav
}

// tabState picks the visible tab of every tab container and flags tabs that
// hold fields with errors. Without an explicit selection the tab holding the
// first failing input wins, then the first tab.
func tabState(tree *field.Tree, selected string, errs map[string][]string) (map[string]string, map[string]bool) {
	active := make(map[string]string)
	for _, fd := range tree.Flatten() {
		if fd.Kind != field.KindTabs {
			continue
		}
		for _, child := range fd.Children {
			if child.IsTab() {
				active[fd.Key()] = child.Key()
				break
			}
		}
	}

	invalid := make(map[string]bool)
	focused := false
	for _, fd := range tree.Inputs() {
		if len(errs[fd.Name]) == 0 {
			continue
		}
		for _, ancestor := range tree.Ancestors(fd.Key()) {
			if ancestor.IsTab() {
				invalid[ancestor.Key()] = true
			}
		}
		if !focused && selected == "" {
			if tab, container, ok := tree.EnclosingTab(fd.Key()); ok && container.Key() != "" {
				active[container.Key()] = tab.Key()
				focused = true
			}
		}
	}

	if selected != "" {
		container, tab, found := strings.Cut(selected, ".")
		if !found {
			tab = container
			if parent, ok := tree.Parent(tab); ok {
				container = parent.Key()
			}
		}
		if _, ok := active[container]; ok {
			active[container] = tab
		}
	}
	return active, invalid
}

func (r *Renderer) template(name string) (*pongo2.Template, error) {
	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if tmpl, ok := r.templates[name]; ok {
		return tmpl, nil
	}
	tmpl, err := r.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("html renderer: load template %q: %w", name, err)
	}
	r.templates[name] = tmpl
	return tmpl, nil
}

func (r *Renderer) execute(name string, data pongo2.Context) (string, error) {
	tmpl, err := r.template(name)
	if err != nil {
		return "", err
	}
	out, err := tmpl.Execute(data)
	if err != nil {
		return "", fmt.Errorf("html renderer: render %q: %w", name, err)
	}
	return out, nil
}

func acceptFor(rules []string) string {
	var accept []string
	for _, rule := range rules {
		name, param, _ := strings.Cut(strings.Replace(rule, ":", "=", 1), "=")
		switch strings.TrimSpace(name) {
		case "image":
			accept = append(accept, "image/*")
		case "mimes":
			for _, ext := range strings.Split(param, ",") {
				if ext = strings.TrimSpace(ext); ext != "" {
					accept = append(accept, "."+strings.TrimPrefix(ext, "."))
				}
			}
		case "mimetypes":
			for _, mt := range strings.Split(param, ",") {
				if mt = strings.TrimSpace(mt); mt != "" {
					accept = append(accept, mt)
				}
			}
		}
	}
	return strings.Join(accept, ",")
}

func hasRule(rules []string, name string) bool {
	for _, rule := range rules {
		if strings.TrimSpace(rule) == name {
			return true
		}
	}
	return false
}

func isChecked(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "on", "true", "yes":
			return true
		}
	case int:
		return v != 0
	}
	return false
}

func lastSegment(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	if name == "" {
		return "form"
	}
	return name
}
