// Package prompt fills a component's form interactively on a terminal. Every
// answer is validated on its own before moving on, and file answers are
// staged as temporary uploads.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwire/pkg/component"
	"github.com/goliatone/go-formwire/pkg/field"
	"github.com/goliatone/go-formwire/pkg/upload"
	"github.com/goliatone/go-formwire/pkg/validation"
)

// ErrTooManyAttempts is returned when a field keeps failing validation.
var ErrTooManyAttempts = errors.New("prompt: too many invalid answers")

// Option configures a Filler.
type Option func(*Filler)

// WithDriver overrides the terminal driver.
func WithDriver(driver Driver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithAttempts limits how often one field is asked again after failing
// validation. Values below one are ignored.
func WithAttempts(n int) Option {
	return func(f *Filler) {
		if n > 0 {
			f.attempts = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Filler) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Filler asks for every input of a component's form in tree order.
type Filler struct {
	driver   Driver
	stager   *upload.Stager
	attempts int
	logger   *zap.Logger
}

// NewFiller returns a filler staging file answers through stager.
func NewFiller(stager *upload.Stager, options ...Option) *Filler {
	f := &Filler{
		driver:   NewSurveyDriver(),
		stager:   stager,
		attempts: 3,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Fill prompts for every input of c. Tabs and sections are announced as they
// are entered.
func (f *Filler) Fill(ctx context.Context, c *component.Component) error {
	form, err := c.Form()
	if err != nil {
		return err
	}
	tree := form.Tree()

	var heading string
	for _, fd := range tree.Inputs() {
		if next := groupHeading(tree, fd.Key()); next != "" && next != heading {
			heading = next
			if err := f.driver.Info(ctx, "== "+heading+" =="); err != nil {
				return err
			}
		}
		if err := f.ask(ctx, c, fd, form.Label(fd.Name)); err != nil {
			return fmt.Errorf("prompt: field %q: %w", fd.Name, err)
		}
	}
	return nil
}

func (f *Filler) ask(ctx context.Context, c *component.Component, fd field.Field, label string) error {
	for attempt := 1; attempt <= f.attempts; attempt++ {
		if err := f.answer(ctx, c, fd, label); err != nil {
			return err
		}

		err := c.ValidateOnly(ctx, fd.Name)
		if err == nil {
			return nil
		}
		var failure *validation.Failure
		if !errors.As(err, &failure) {
			return err
		}

		if fd.IsFile() {
			f.unstage(c, fd.Name)
		}
		f.logger.Debug("answer rejected",
			zap.String("field", fd.Name),
			zap.Int("attempt", attempt),
			zap.Strings("rules", failure.Rekey(upload.FieldName).Failed()[fd.Name]),
		)
		if err := f.driver.Info(ctx, "! "+c.Errors().First(fd.Name)); err != nil {
			return err
		}
	}
	return ErrTooManyAttempts
}

// answer asks once and stores the result. An empty file path leaves the field
// without a staged upload.
func (f *Filler) answer(ctx context.Context, c *component.Component, fd field.Field, label string) error {
	current := ""
	if v, ok := c.Get(fd.Name); ok && v != nil {
		current = fmt.Sprint(v)
	} else if fd.Default != nil {
		current = fmt.Sprint(fd.Default)
	}

	switch {
	case fd.IsFile():
		path, err := f.driver.Input(ctx, InputConfig{
			Message: label + " (file path)",
			Help:    fd.Help,
		})
		if err != nil {
			return err
		}
		path = strings.TrimSpace(path)
		if path == "" {
			return nil
		}
		if f.stager == nil {
			return errors.New("prompt: no stager configured for file fields")
		}
		staged, err := f.stager.StageFile(ctx, path)
		if err != nil {
			return err
		}
		c.Stage(fd.Name, staged)

	case fd.Type == "select" && len(fd.Options) > 0:
		idx, err := f.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      fd.Options,
			DefaultIndex: indexOf(fd.Options, current),
			Help:         fd.Help,
		})
		if err != nil {
			return err
		}
		if idx >= 0 {
			c.Set(fd.Name, fd.Options[idx])
		}

	case fd.Type == "checkbox":
		ok, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: current == "true" || current == "1",
			Help:    fd.Help,
		})
		if err != nil {
			return err
		}
		c.Set(fd.Name, ok)

	case fd.Type == "password":
		value, err := f.driver.Password(ctx, InputConfig{Message: label, Help: fd.Help})
		if err != nil {
			return err
		}
		c.Set(fd.Name, value)

	default:
		value, err := f.driver.Input(ctx, InputConfig{Message: label, Default: current, Help: fd.Help})
		if err != nil {
			return err
		}
		c.Set(fd.Name, value)
	}
	return nil
}

func (f *Filler) unstage(c *component.Component, name string) {
	file, ok := c.TemporaryUploadedFile(name)
	if !ok {
		return
	}
	c.ClearTemporaryUploadedFile(name)
	if f.stager == nil {
		return
	}
	if err := f.stager.Discard(file); err != nil {
		f.logger.Warn("discard rejected upload", zap.String("field", name), zap.Error(err))
	}
}

func groupHeading(tree *field.Tree, key string) string {
	for _, ancestor := range tree.Ancestors(key) {
		if ancestor.Kind == field.KindTab || ancestor.Kind == field.KindSection {
			if ancestor.Label != "" {
				return ancestor.Label
			}
			return ancestor.Key()
		}
	}
	return ""
}
