package render

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formwire/pkg/component"
	"github.com/goliatone/go-formwire/pkg/upload"
)

// ComponentOptions fills Component, Values and Errors from c. Staged uploads
// are left out of Values; renderers ask for them by field name.
func ComponentOptions(c *component.Component, base RenderOptions) RenderOptions {
	opts := base
	opts.Component = c.Name()

	values := c.Properties().All()
	delete(values, upload.PropertyPrefix)
	opts.Values = values

	if bag := c.Errors(); !bag.IsEmpty() {
		opts.Errors = bag.Messages()
	}
	return opts
}

// RenderComponent renders the current form of c with r.
func RenderComponent(ctx context.Context, r Renderer, c *component.Component, base RenderOptions) ([]byte, error) {
	f, err := c.Form()
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return r.Render(ctx, f, ComponentOptions(c, base))
}
