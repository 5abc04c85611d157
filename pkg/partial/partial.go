// Package partial packages reusable view logic that templates can mount as
// markup components.
//
// A partial is constructed with its context (the props it was mounted with)
// and renders either a string or a markup tree. Concrete partials embed Base
// and provide their own Render.
package partial

import (
	"fmt"

	"github.com/goliatone/go-htmlview/pkg/markup"
)

const defaultName = "Partial"

// Renderer is the capability every partial provides.
type Renderer interface {
	Render() (any, error)
}

// Factory constructs a partial for a given context.
type Factory func(ctx markup.Props) Renderer

// Base holds the partial context. Its Render is a placeholder that names the
// partial so unfinished variants are easy to spot in output.
type Base struct {
	Context markup.Props
	Name    string
}

// New returns a Base for ctx. A nil context becomes an empty one.
func New(ctx markup.Props) Base {
	return Named("", ctx)
}

// Named returns a Base whose placeholder output reports name.
func Named(name string, ctx markup.Props) Base {
	if ctx == nil {
		ctx = markup.Props{}
	}
	return Base{Context: ctx, Name: name}
}

// Render reports that the partial has not been extended.
func (b Base) Render() (any, error) {
	name := b.Name
	if name == "" {
		name = defaultName
	}
	return fmt.Sprintf("Unextended Partial (%s)", name), nil
}

// Get returns the context value for key.
func (b Base) Get(key string) any {
	if b.Context == nil {
		return nil
	}
	return b.Context[key]
}

// Children returns the nodes the partial was mounted around.
func (b Base) Children() markup.List {
	if b.Context == nil {
		return nil
	}
	children, _ := b.Context["children"].(markup.List)
	return children
}

// Mount turns a partial factory into a component usable with markup.C.
func Mount(factory Factory) markup.Component {
	return func(props markup.Props) (any, error) {
		if factory == nil {
			return nil, fmt.Errorf("partial: factory is nil")
		}
		p := factory(props)
		if p == nil {
			return nil, fmt.Errorf("partial: factory returned nil")
		}
		return p.Render()
	}
}
