package view

import (
	"context"

	"github.com/goliatone/go-htmlview/pkg/markup"
)

// Template produces a markup tree from a render context.
type Template interface {
	Execute(ctx context.Context, data Context) (any, error)
}

// TemplateFunc adapts a function to Template.
type TemplateFunc func(ctx context.Context, data Context) (any, error)

// Execute calls fn.
func (fn TemplateFunc) Execute(ctx context.Context, data Context) (any, error) {
	return fn(ctx, data)
}

// AsTemplate normalizes a loaded export into a Template. The second result is
// false when the export cannot be invoked.
func AsTemplate(export any) (Template, bool) {
	switch fn := export.(type) {
	case nil:
		return nil, false
	case Template:
		return fn, true
	case func(context.Context, Context) (any, error):
		return TemplateFunc(fn), true
	case func(Context) (any, error):
		return TemplateFunc(func(_ context.Context, data Context) (any, error) {
			return fn(data)
		}), true
	case func(Context) any:
		return TemplateFunc(func(_ context.Context, data Context) (any, error) {
			return fn(data), nil
		}), true
	default:
		return nil, false
	}
}

// Serializer turns a validated markup tree into HTML.
type Serializer func(tree markup.Node) (string, error)
