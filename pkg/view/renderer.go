package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/goliatone/go-htmlview/internal/watcher"
	"github.com/goliatone/go-htmlview/pkg/markup"
)

// ErrCacheDisabled is returned by Watch when the renderer has no template
// cache to invalidate.
var ErrCacheDisabled = errors.New("view: template cache is disabled")

// Renderer resolves template identifiers, loads templates and turns their
// markup into HTML. It is immutable after New and safe for concurrent use.
type Renderer struct {
	env        string
	namespaces Namespaces
	defaults   Context
	loader     Loader
	cache      *CachedLoader
	serializer Serializer
	logger     *slog.Logger
}

// New constructs a Renderer. A loader is required.
func New(opts ...Option) (*Renderer, error) {
	cfg := config{
		defaults:   DefaultContext(),
		serializer: markup.RenderString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.loader == nil {
		return nil, fmt.Errorf("view: template loader is required")
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	resolved := ApplyDefaultOptions(cfg.options)
	namespaces := NewNamespaces(resolved.NamespacePaths)
	namespaces.strict = cfg.strictPaths

	r := &Renderer{
		env:        resolved.Env,
		namespaces: namespaces,
		defaults:   cfg.defaults.Clone(),
		loader:     cfg.loader,
		serializer: cfg.serializer,
		logger:     cfg.logger,
	}

	ttl, enabled := cacheTTL(cfg, resolved.Env)
	if enabled {
		r.cache = NewCachedLoader(cfg.loader, ttl)
		r.loader = r.cache
	}

	r.logger.Debug("view renderer ready",
		slog.String("env", r.env),
		slog.Any("namespaces", namespaces.Names()),
		slog.Bool("cache", enabled),
	)
	return r, nil
}

func cacheTTL(cfg config, env string) (ttl time.Duration, enabled bool) {
	if cfg.cacheSet {
		return cfg.cacheTTL, cfg.cacheTTL >= 0
	}
	return 0, env == EnvProduction
}

// Env returns the environment label.
func (r *Renderer) Env() string {
	return r.env
}

// Namespaces returns the namespace table.
func (r *Renderer) Namespaces() Namespaces {
	return r.namespaces
}

// DefaultContext returns a copy of the renderer-wide default context.
func (r *Renderer) DefaultContext() Context {
	return r.defaults.Clone()
}

// ApplyDefaultContext layers caller over the renderer defaults.
func (r *Renderer) ApplyDefaultContext(caller Context) Context {
	return Merge(r.defaults, caller)
}

// ResolvePath maps a template identifier to a filesystem path.
func (r *Renderer) ResolvePath(id string) (string, error) {
	return r.namespaces.Resolve(id)
}

// ResolvePaths maps identifiers to paths, keeping their order.
func (r *Renderer) ResolvePaths(ids ...string) ([]string, error) {
	return r.namespaces.ResolveAll(ids...)
}

// Render renders a single template identifier.
func (r *Renderer) Render(ctx context.Context, id string, data Context) (string, error) {
	return r.RenderFirst(ctx, []string{id}, data)
}

// RenderFirst renders the first identifier that loads. Identifiers are tried
// in order.
func (r *Renderer) RenderFirst(ctx context.Context, ids []string, data Context) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	merged := r.ApplyDefaultContext(data)

	paths, err := r.ResolvePaths(ids...)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	match, err := LoadFirst(r.loader, paths)
	if err != nil {
		return "", err
	}
	r.logger.Debug("view template resolved",
		slog.Any("ids", ids),
		slog.String("path", match.Path),
	)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	result, err := match.Template.Execute(ctx, merged)
	if err != nil {
		return "", fmt.Errorf("view: execute template %q: %w", match.Path, err)
	}

	tree, ok := markup.AsNode(result)
	if !ok {
		return "", &InvalidTemplateOutputError{Path: match.Path, Value: result}
	}

	rendered, err := r.serializer(tree)
	if err != nil {
		return "", err
	}
	return applyStringTransforms(rendered, merged), nil
}

// RenderTo renders id and writes the HTML to w.
func (r *Renderer) RenderTo(ctx context.Context, w io.Writer, id string, data Context) error {
	rendered, err := r.Render(ctx, id, data)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, rendered)
	return err
}

// FlushCache drops every cached template. It is a no-op without a cache.
func (r *Renderer) FlushCache() {
	if r.cache != nil {
		r.cache.Flush()
	}
}

// Watch flushes the template cache whenever files below any namespace
// directory change. It returns once the watcher is running and stops it when
// ctx is done.
func (r *Renderer) Watch(ctx context.Context) error {
	if r.cache == nil {
		return ErrCacheDisabled
	}

	cfg := watcher.DefaultConfig(r.namespaces.Dirs()...)
	cfg.OnError = func(err error) {
		r.logger.Debug("view watcher error", slog.Any("error", err))
	}
	w, err := watcher.New(cfg)
	if err != nil {
		return fmt.Errorf("view: start watcher: %w", err)
	}
	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		return fmt.Errorf("view: start watcher: %w", err)
	}

	go func() {
		defer w.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				r.cache.Flush()
				r.logger.Debug("view template cache flushed")
			}
		}
	}()
	return nil
}
