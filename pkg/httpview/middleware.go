package httpview

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/goliatone/go-htmlview/pkg/view"
)

type contextKey struct{}

// ErrResponseWritten is returned when a Context renders after it already
// wrote the response. Body still holds the new HTML.
var ErrResponseWritten = errors.New("httpview: response already written")

// Context is the per-request rendering handle attached by Middleware.
type Context struct {
	Request *http.Request
	Writer  http.ResponseWriter
	// State is request-scoped data rendered beneath caller data. Earlier
	// middleware can fill it with Set.
	State view.Context
	// Body holds the last rendered HTML.
	Body string

	renderer Renderer
	written  bool
	mu       sync.Mutex
}

// Set stores a request-scoped value.
func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.State == nil {
		c.State = view.Context{}
	}
	c.State[key] = value
}

// Render renders name with State beneath data and writes the result as the
// response body.
func (c *Context) Render(name string, data view.Context) error {
	return c.RenderFirst([]string{name}, data)
}

// RenderFirst renders the first of names that loads.
func (c *Context) RenderFirst(names []string, data view.Context) error {
	c.mu.Lock()
	merged := view.MergeRequestState(c.State, data)
	c.mu.Unlock()

	html, err := c.renderer.RenderFirst(c.Request.Context(), names, merged)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.Body = html
	written := c.written
	c.written = true
	c.mu.Unlock()

	if written {
		return ErrResponseWritten
	}
	return writeHTML(c.Writer, http.StatusOK, html)
}

// Written reports whether a render has started writing the response.
func (c *Context) Written() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.written
}

// Middleware attaches a *Context to every request before calling next.
func Middleware(r Renderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			vc := &Context{
				Writer:   w,
				State:    view.Context{},
				renderer: r,
			}
			req = req.WithContext(context.WithValue(req.Context(), contextKey{}, vc))
			vc.Request = req
			next.ServeHTTP(w, req)
		})
	}
}

// FromRequest returns the rendering handle attached by Middleware.
func FromRequest(r *http.Request) (*Context, bool) {
	return FromContext(r.Context())
}

// FromContext returns the rendering handle stored in ctx.
func FromContext(ctx context.Context) (*Context, bool) {
	vc, ok := ctx.Value(contextKey{}).(*Context)
	return vc, ok
}
