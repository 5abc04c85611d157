// Package httpview adapts a view.Renderer to net/http. Engine serves the
// view-engine style where the host hands over a template path and a callback;
// Middleware attaches a per-request rendering context to each request.
package httpview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goliatone/go-htmlview/pkg/view"
)

const contentTypeHTML = "text/html; charset=utf-8"

// Renderer is the rendering surface the adapters need. *view.Renderer
// satisfies it.
type Renderer interface {
	Render(ctx context.Context, id string, data view.Context) (string, error)
	RenderFirst(ctx context.Context, ids []string, data view.Context) (string, error)
}

var _ Renderer = (*view.Renderer)(nil)

// DoneFunc receives the result of a view-engine render. Exactly one of err and
// html is meaningful.
type DoneFunc func(err error, html string)

// ViewEngineFunc renders filePath with data and reports through done.
type ViewEngineFunc func(ctx context.Context, filePath string, data view.Context, done DoneFunc)

// Engine is the view-engine style adapter.
type Engine struct {
	renderer Renderer
}

// NewEngine wraps r.
func NewEngine(r Renderer) (*Engine, error) {
	if r == nil {
		return nil, errors.New("httpview: renderer is required")
	}
	return &Engine{renderer: r}, nil
}

// ViewEngine returns the callback form. filePath is usually absolute, which
// the renderer passes through without namespace resolution.
func (e *Engine) ViewEngine() ViewEngineFunc {
	return func(ctx context.Context, filePath string, data view.Context, done DoneFunc) {
		if ctx == nil {
			ctx = context.Background()
		}
		html, err := e.renderer.Render(ctx, filePath, data)
		if err != nil {
			done(err, "")
			return
		}
		done(nil, html)
	}
}

// ServeView renders name into w. Errors are returned before anything is
// written so the caller can still choose a status code.
func (e *Engine) ServeView(w http.ResponseWriter, r *http.Request, name string, data view.Context) error {
	html, err := e.renderer.Render(r.Context(), name, data)
	if err != nil {
		return err
	}
	return writeHTML(w, http.StatusOK, html)
}

// Handler serves a fixed view. data may be nil.
func (e *Engine) Handler(name string, data func(*http.Request) view.Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload view.Context
		if data != nil {
			payload = data(r)
		}
		if err := e.ServeView(w, r, name, payload); err != nil {
			http.Error(w, StatusText(err), StatusCode(err))
		}
	})
}

// StatusCode maps rendering errors onto HTTP status codes.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, view.ErrNoTemplateFound), errors.Is(err, view.ErrUnknownNamespace), errors.Is(err, view.ErrPathTraversal):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// StatusText is the response body used for rendering errors. Details stay in
// the error for logging.
func StatusText(err error) string {
	return http.StatusText(StatusCode(err))
}

func writeHTML(w http.ResponseWriter, status int, html string) error {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	if _, err := io.WriteString(w, html); err != nil {
		return fmt.Errorf("httpview: write response: %w", err)
	}
	return nil
}
