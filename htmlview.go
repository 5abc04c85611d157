// Package htmlview is the convenience entry point: it builds a view.Renderer
// backed by pongo2 file templates plus a small bundle of built-in views, and
// re-exports the markup builders most callers need.
package htmlview

import (
	"context"
	"fmt"

	"github.com/goliatone/go-htmlview/pkg/markup"
	"github.com/goliatone/go-htmlview/pkg/view"
	"github.com/goliatone/go-htmlview/pkg/view/pongo"
)

// Context aliases view.Context for callers that only import the root package.
type Context = view.Context

// Options aliases view.Options.
type Options = view.Options

// Renderer aliases view.Renderer.
type Renderer = view.Renderer

// Props aliases markup.Props.
type Props = markup.Props

// New builds a renderer whose default loader reads pongo2 templates from disk
// and serves the built-in views under BuiltinNamespace. WithLoader replaces
// the default loader.
func New(options ...view.Option) (*view.Renderer, error) {
	loader, err := DefaultLoader()
	if err != nil {
		return nil, err
	}

	opts := make([]view.Option, 0, len(options)+2)
	opts = append(opts, view.WithLoader(loader))
	opts = append(opts, options...)
	opts = append(opts, view.WithNamespace(BuiltinNamespace, builtinRoot))
	return view.New(opts...)
}

// DefaultLoader chains a disk loader with the built-in views bundle.
func DefaultLoader() (view.ChainLoader, error) {
	disk, err := pongo.New()
	if err != nil {
		return nil, fmt.Errorf("htmlview: disk loader: %w", err)
	}
	builtin, err := pongo.New(
		pongo.WithName(BuiltinNamespace),
		pongo.WithFS(BuiltinViewsFS(), builtinRoot),
	)
	if err != nil {
		return nil, fmt.Errorf("htmlview: builtin loader: %w", err)
	}
	return view.ChainLoader{disk, builtin}, nil
}

// RenderHTML builds a renderer and renders id once. It is the simplest entry
// point for scripts; long-lived callers should keep the renderer from New.
func RenderHTML(ctx context.Context, id string, data Context, options ...view.Option) (string, error) {
	r, err := New(options...)
	if err != nil {
		return "", err
	}
	return r.Render(ctx, id, data)
}

// H builds an element. See markup.H.
func H(tag string, props Props, children ...any) *markup.Element {
	return markup.H(tag, props, children...)
}

// HTML parses an HTML fragment into a markup tree. See markup.ParseHTML.
func HTML(src string) (markup.List, error) {
	return markup.ParseHTML(src)
}
