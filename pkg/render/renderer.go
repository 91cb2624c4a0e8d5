package render

import (
	"context"

	"github.com/goliatone/go-formwire/pkg/form"
)

// Renderer turns a form projection into a byte representation (HTML, text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form *form.Form, options RenderOptions) ([]byte, error)
}
