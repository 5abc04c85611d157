package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-htmlview"
	"github.com/goliatone/go-htmlview/pkg/httpview"
	"github.com/goliatone/go-htmlview/pkg/view"
)

const namespacesRoute = "/_namespaces"

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview views over HTTP",
		Long: `Serve views for local preview. A request path maps onto a template
identifier: /about renders "about", /admin/users renders "admin:users" when
"admin" is a configured namespace, and / renders "index". Query parameters are
passed to the template as context values.

With --watch the template cache is flushed whenever a view file changes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), a)
		},
	}

	cmd.Flags().String("addr", "", "listen address")
	cmd.Flags().Bool("watch", false, "reload templates when files change")
	_ = a.v.BindPFlag("serve.addr", cmd.Flags().Lookup("addr"))
	_ = a.v.BindPFlag("serve.watch", cmd.Flags().Lookup("watch"))

	return cmd
}

func runServe(ctx context.Context, a *app) error {
	var extra []view.Option
	if a.cfg.Serve.Watch {
		extra = append(extra, view.WithTemplateCache(a.cfg.Cache.TTL))
	}
	r, err := a.renderer(extra...)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if a.cfg.Serve.Watch {
		if err := r.Watch(ctx); err != nil {
			return err
		}
		a.logger.Info("watching views", "dirs", r.Namespaces().Dirs())
	}

	handler, err := newPreviewHandler(r, a)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.cfg.Serve.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.logger.Info("serving views", "addr", srv.Addr, "env", r.Env())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newPreviewHandler(r *view.Renderer, a *app) (http.Handler, error) {
	engine, err := httpview.NewEngine(r)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc(namespacesRoute, func(w http.ResponseWriter, req *http.Request) {
		rows := make([]any, 0, r.Namespaces().Len())
		for _, name := range r.Namespaces().Names() {
			dir, _ := r.Namespaces().Lookup(name)
			rows = append(rows, map[string]any{"name": name, "path": dir})
		}
		err := engine.ServeView(w, req, htmlview.BuiltinNamespace+":namespaces", view.Context{"namespaces": rows})
		if err != nil {
			writeError(engine, w, req, a, err)
		}
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		vc, ok := httpview.FromRequest(req)
		if !ok {
			http.Error(w, "view context missing", http.StatusInternalServerError)
			return
		}
		for key, values := range req.URL.Query() {
			if len(values) > 0 {
				vc.Set(key, values[len(values)-1])
			}
		}
		vc.Set("path", req.URL.Path)

		if err := vc.Render(templateID(r.Namespaces(), req.URL.Path), nil); err != nil {
			if vc.Written() {
				a.logger.Warn("view response failed", "path", req.URL.Path, "error", err)
				return
			}
			writeError(engine, w, req, a, err)
		}
	})

	return httpview.Middleware(r)(mux), nil
}

// templateID maps a URL path onto a template identifier.
func templateID(namespaces view.Namespaces, urlPath string) string {
	trimmed := strings.Trim(urlPath, "/")
	if trimmed == "" {
		return view.DefaultTemplate
	}
	first, rest, _ := strings.Cut(trimmed, "/")
	if first != view.DefaultNamespace && namespaces.Has(first) {
		return first + ":" + rest
	}
	return trimmed
}

func writeError(engine *httpview.Engine, w http.ResponseWriter, req *http.Request, a *app, err error) {
	status := httpview.StatusCode(err)
	a.logger.Warn("view render failed", "path", req.URL.Path, "status", status, "error", err)

	data := view.Context{
		"status": status,
		"title":  http.StatusText(status),
	}
	if a.cfg.Env != view.EnvProduction {
		data["message"] = err.Error()
	}

	html, renderErr := renderError(engine, req, data)
	if renderErr != nil {
		http.Error(w, httpview.StatusText(err), status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(html))
}

func renderError(engine *httpview.Engine, req *http.Request, data view.Context) (string, error) {
	var (
		out    string
		outErr error
	)
	engine.ViewEngine()(req.Context(), htmlview.BuiltinNamespace+":error", data, func(err error, html string) {
		out, outErr = html, err
	})
	return out, outErr
}
