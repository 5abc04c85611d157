// Package pongo loads view templates from disk or an fs.FS and compiles them
// with pongo2. Executing a compiled template parses its HTML output into a
// markup tree so it flows through the same pipeline as compiled templates.
//
// Besides the pongo2 builtins, templates can use trim, lowerfirst,
// safe_markup (sanitized HTML) and markdown.
package pongo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-htmlview/pkg/markup"
	"github.com/goliatone/go-htmlview/pkg/view"
)

// Option configures the loader before construction.
type Option func(*config)

type config struct {
	name       string
	fsys       fs.FS
	fsRoot     string
	extensions []string
	templateFn map[string]any
	globalData map[string]any
}

// WithName sets the pongo2 template set name, useful in error output.
func WithName(name string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.name = trimmed
		}
	}
}

// WithFS loads templates from files instead of the local disk. Absolute
// template paths below root are mapped onto files, so a renderer configured
// with root as its view directory resolves into the bundle.
func WithFS(files fs.FS, root string) Option {
	return func(cfg *config) {
		cfg.fsys = files
		cfg.fsRoot = filepath.Clean(root)
	}
}

// WithExtensions overrides the implied template extensions.
func WithExtensions(exts ...string) Option {
	return func(cfg *config) {
		var out []string
		for _, ext := range exts {
			trimmed := strings.TrimSpace(ext)
			if trimmed == "" {
				continue
			}
			if !strings.HasPrefix(trimmed, ".") {
				trimmed = "." + trimmed
			}
			out = append(out, trimmed)
		}
		if len(out) > 0 {
			cfg.extensions = out
		}
	}
}

// WithTemplateFunc registers helper functions or filters when the loader is
// created. pongo2.FilterFunction values become filters; other functions are
// exposed as globals.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.templateFn == nil {
			cfg.templateFn = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFn[strings.TrimSpace(name)] = fn
		}
	}
}

// WithGlobalData seeds values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Loader is a view.Loader that compiles template files with pongo2.
type Loader struct {
	mu sync.Mutex

	templateSet *pongo2.TemplateSet
	fsys        fs.FS
	fsRoot      string
	extensions  []string
}

var _ view.Loader = (*Loader)(nil)

// New constructs a Loader using the provided options.
func New(options ...Option) (*Loader, error) {
	cfg := &config{
		name:       "htmlview",
		extensions: view.DefaultExtensions,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	var backend pongo2.TemplateLoader
	if cfg.fsys != nil {
		backend = pongo2.NewFSLoader(cfg.fsys)
	} else {
		local, err := pongo2.NewLocalFileSystemLoader("")
		if err != nil {
			return nil, fmt.Errorf("pongo: create local loader: %w", err)
		}
		backend = local
	}

	loader := &Loader{
		templateSet: pongo2.NewSet(cfg.name, backend),
		fsys:        cfg.fsys,
		fsRoot:      cfg.fsRoot,
		extensions:  append([]string(nil), cfg.extensions...),
	}
	registerDefaultFilters()

	if err := loader.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("pongo: apply global data: %w", err)
	}
	for name, fn := range cfg.templateFn {
		if err := loader.registerTemplateFunc(name, fn); err != nil {
			return nil, fmt.Errorf("pongo: register template func %q: %w", name, err)
		}
	}

	return loader, nil
}

// Load compiles the first existing candidate file for path. Templates are
// compiled on every call; wrap the loader with view.CachedLoader (or enable
// the renderer cache) to reuse them.
func (l *Loader) Load(templatePath string) (any, error) {
	if l == nil || l.templateSet == nil {
		return nil, errors.New("pongo: loader is nil")
	}

	for _, candidate := range view.Candidates(templatePath, l.extensions) {
		name, ok := l.lookup(candidate)
		if !ok {
			continue
		}

		l.mu.Lock()
		tpl, err := l.templateSet.FromFile(name)
		l.mu.Unlock()
		if err != nil {
			return nil, fmt.Errorf("pongo: compile template %q: %w", candidate, err)
		}
		return &Template{path: candidate, tpl: tpl}, nil
	}
	return nil, view.NotFound(templatePath)
}

// Extensions returns the implied template extensions in lookup order.
func (l *Loader) Extensions() []string {
	return append([]string(nil), l.extensions...)
}

// GlobalContext merges data into the values every template can see.
func (l *Loader) GlobalContext(data any) error {
	if l == nil || l.templateSet == nil {
		return errors.New("pongo: loader is nil")
	}
	if data == nil {
		return nil
	}

	globalCtx, err := convertToContext(data)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.templateSet.Globals == nil {
		l.templateSet.Globals = make(pongo2.Context)
	}
	l.templateSet.Globals.Update(globalCtx)
	return nil
}

// RegisterFilter registers a template filter. Filters are process-wide in
// pongo2, so an existing name is an error.
func (l *Loader) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("pongo: filter name and function required")
	}

	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}

	if pongo2.FilterExists(name) {
		return fmt.Errorf("pongo: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, filter)
}

func (l *Loader) registerTemplateFunc(name string, fn any) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || fn == nil {
		return nil
	}

	if filter, ok := fn.(pongo2.FilterFunction); ok {
		if pongo2.FilterExists(trimmed) {
			return nil
		}
		return pongo2.RegisterFilter(trimmed, filter)
	}

	if !isCallable(fn) {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.templateSet.Globals == nil {
		l.templateSet.Globals = make(pongo2.Context)
	}
	l.templateSet.Globals[trimmed] = fn
	return nil
}

// lookup maps a candidate path onto a name the template set can open.
func (l *Loader) lookup(candidate string) (string, bool) {
	if l.fsys == nil {
		info, err := os.Stat(candidate)
		if err != nil || !info.Mode().IsRegular() {
			return "", false
		}
		return candidate, true
	}

	rel, err := filepath.Rel(l.fsRoot, filepath.Clean(candidate))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	name := path.Clean(filepath.ToSlash(rel))
	info, err := fs.Stat(l.fsys, name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return name, true
}

// Template is a compiled pongo2 template. Its output is parsed back into a
// markup tree.
type Template struct {
	path string
	tpl  *pongo2.Template
}

var _ view.Template = (*Template)(nil)

// Path returns the file the template was compiled from.
func (t *Template) Path() string {
	return t.path
}

// Execute renders the template and parses the result.
func (t *Template) Execute(ctx context.Context, data view.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	viewContext, err := convertToContext(data)
	if err != nil {
		return nil, fmt.Errorf("pongo: convert data: %w", err)
	}

	var buf bytes.Buffer
	if err := t.tpl.ExecuteWriter(viewContext, &buf); err != nil {
		return nil, fmt.Errorf("pongo: %w", err)
	}

	tree, err := markup.ParseHTML(buf.String())
	if err != nil {
		return nil, fmt.Errorf("pongo: parse output of %q: %w", t.path, err)
	}
	return tree, nil
}
