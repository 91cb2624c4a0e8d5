package component

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwire/pkg/events"
	"github.com/goliatone/go-formwire/pkg/field"
	"github.com/goliatone/go-formwire/pkg/upload"
	"github.com/goliatone/go-formwire/pkg/validation"
)

// Validate runs every merged rule. On a *validation.Failure the error bag is
// replaced with the failure's messages under plain field names, the tab
// holding the first failing field (in tree order) is revealed, and the
// failure is returned unchanged.
func (c *Component) Validate(ctx context.Context) error {
	rules, err := c.Rules()
	if err != nil {
		return err
	}
	return c.ValidateWith(ctx, rules)
}

// ValidateWith behaves like Validate with an explicit rule set.
func (c *Component) ValidateWith(ctx context.Context, rules map[string][]string) error {
	failure, err := c.run(ctx, rules)
	if failure == nil {
		if err == nil {
			c.errors.Clear()
		}
		return err
	}
	c.errors = failure.Errors().Rekey(upload.FieldName)
	c.focusFirstFailure(failure)
	return err
}

// ValidateOnly validates a single field. Rules keyed by the field's staging
// path are included so file fields can be checked by their plain name.
// Messages for other fields are left as they are.
func (c *Component) ValidateOnly(ctx context.Context, name string) error {
	all, err := c.Rules()
	if err != nil {
		return err
	}
	rules := validation.FilterRules(all, func(key string) bool {
		return key == name || key == upload.PropertyName(name)
	})

	failure, err := c.run(ctx, rules)
	c.errors.Forget(upload.FieldName(name))
	if failure == nil {
		return err
	}
	c.errors.Merge(failure.Errors().Rekey(upload.FieldName))
	c.focusFirstFailure(failure)
	return err
}

// ValidateTemporaryUploadedFiles validates only the rules keyed under the
// staging namespace. On failure the returned *validation.Failure and the error
// bag are keyed by plain field names, never by staging paths.
func (c *Component) ValidateTemporaryUploadedFiles(ctx context.Context) error {
	all, err := c.Rules()
	if err != nil {
		return err
	}
	rules := validation.FilterRules(all, upload.IsTemporaryPath)

	failure, err := c.run(ctx, rules)
	if failure == nil {
		if err == nil {
			for key := range rules {
				c.errors.Forget(upload.FieldName(key))
			}
		}
		return err
	}
	c.focusFirstFailure(failure)

	plain := failure.Rekey(upload.FieldName)
	c.errors = plain.Errors().Clone()
	return plain
}

// run evaluates rules against the property bag. failure is set when err is a
// validation failure.
func (c *Component) run(ctx context.Context, rules map[string][]string) (*validation.Failure, error) {
	attributes, err := c.ValidationAttributes()
	if err != nil {
		return nil, err
	}

	err = c.validator.Validate(ctx, c.props, validation.Request{
		Rules:      rules,
		Messages:   c.Messages(),
		Attributes: attributes,
	})
	if err == nil {
		return nil, nil
	}

	var failure *validation.Failure
	if !errors.As(err, &failure) {
		return nil, err
	}
	c.logger.Debug("validation failed",
		zap.String("component", c.name),
		zap.Strings("fields", failure.FailedFields()),
	)
	return failure, err
}

// focusFirstFailure reveals the tab holding the first input, in tree order,
// with a failed rule under its plain or staging key.
func (c *Component) focusFirstFailure(failure *validation.Failure) {
	f, err := c.Form()
	if err != nil {
		return
	}
	tree := f.Tree()
	for _, fd := range tree.Flatten() {
		if !fd.IsInput() {
			continue
		}
		if failure.HasFailed(fd.Name) || failure.HasFailed(upload.PropertyName(fd.Name)) {
			c.focusTabbedField(tree, fd.Name)
			return
		}
	}
}

// focusTabbedField walks up from name and asks the browser to switch to the
// nearest enclosing tab. Nothing is dispatched when no tab encloses it.
func (c *Component) focusTabbedField(tree *field.Tree, name string) {
	tab, container, ok := tree.EnclosingTab(name)
	if !ok {
		return
	}
	payload := events.TabPayload(container.Key(), tab.Key())
	c.events.Dispatch(events.SwitchTab, payload)
	c.logger.Debug("focus tab",
		zap.String("component", c.name),
		zap.String("field", name),
		zap.String("tab", payload),
	)
}
