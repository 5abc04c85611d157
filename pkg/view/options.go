package view

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// EnvVar is consulted for the default environment label.
	EnvVar = "APP_ENV"
	// EnvDevelopment is the environment used when EnvVar is unset.
	EnvDevelopment = "development"
	// EnvProduction enables template caching by default.
	EnvProduction = "production"

	defaultViewDir = "view"
)

// Options is the construction-time configuration surface.
type Options struct {
	// Env is informational. "production" turns template caching on unless
	// WithTemplateCache says otherwise.
	Env string
	// Path is the base directory of the default namespace.
	Path string
	// NamespacePaths maps additional namespaces to base directories.
	NamespacePaths map[string]string
}

// ResolvedOptions is Options after defaulting. The default path lives in
// NamespacePaths under DefaultNamespace.
type ResolvedOptions struct {
	Env            string
	NamespacePaths map[string]string
}

// DefaultOptions returns the built-in defaults: the environment from EnvVar
// (or development), "<cwd>/view" and no extra namespaces.
func DefaultOptions() Options {
	env := strings.TrimSpace(os.Getenv(EnvVar))
	if env == "" {
		env = EnvDevelopment
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return Options{
		Env:            env,
		Path:           filepath.Join(cwd, defaultViewDir),
		NamespacePaths: map[string]string{},
	}
}

// ApplyDefaultOptions merges opts over DefaultOptions and folds the default
// path into the namespace table. Paths are made absolute. The caller's map is
// copied, never retained.
func ApplyDefaultOptions(opts Options) ResolvedOptions {
	resolved := DefaultOptions()
	if env := strings.TrimSpace(opts.Env); env != "" {
		resolved.Env = env
	}
	if path := strings.TrimSpace(opts.Path); path != "" {
		resolved.Path = path
	}

	paths := make(map[string]string, len(opts.NamespacePaths)+1)
	for namespace, dir := range opts.NamespacePaths {
		paths[namespace] = absPath(dir)
	}
	paths[DefaultNamespace] = absPath(resolved.Path)

	return ResolvedOptions{
		Env:            resolved.Env,
		NamespacePaths: paths,
	}
}

func absPath(path string) string {
	if path == "" {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// Option configures a Renderer.
type Option func(*config)

type config struct {
	options     Options
	loader      Loader
	serializer  Serializer
	defaults    Context
	logger      *slog.Logger
	cacheTTL    time.Duration
	cacheSet    bool
	strictPaths bool
}

// WithOptions replaces the construction options wholesale.
func WithOptions(opts Options) Option {
	return func(cfg *config) {
		cfg.options = Options{
			Env:            opts.Env,
			Path:           opts.Path,
			NamespacePaths: copyPaths(opts.NamespacePaths),
		}
	}
}

// WithEnv sets the environment label.
func WithEnv(env string) Option {
	return func(cfg *config) {
		cfg.options.Env = strings.TrimSpace(env)
	}
}

// WithPath sets the default namespace directory.
func WithPath(path string) Option {
	return func(cfg *config) {
		cfg.options.Path = strings.TrimSpace(path)
	}
}

// WithNamespace adds or replaces a namespace directory.
func WithNamespace(namespace, dir string) Option {
	return func(cfg *config) {
		namespace = strings.TrimSpace(namespace)
		if namespace == "" {
			return
		}
		if cfg.options.NamespacePaths == nil {
			cfg.options.NamespacePaths = make(map[string]string)
		}
		cfg.options.NamespacePaths[namespace] = dir
	}
}

// WithLoader sets the template loader.
func WithLoader(loader Loader) Option {
	return func(cfg *config) {
		if loader != nil {
			cfg.loader = loader
		}
	}
}

// WithSerializer replaces the markup serializer.
func WithSerializer(serializer Serializer) Option {
	return func(cfg *config) {
		if serializer != nil {
			cfg.serializer = serializer
		}
	}
}

// WithDefaultContext merges values into the renderer-wide default context.
// Later calls win on conflicting keys.
func WithDefaultContext(values Context) Option {
	return func(cfg *config) {
		cfg.defaults = Merge(cfg.defaults, values)
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithTemplateCache memoizes loaded templates for ttl. A zero ttl keeps them
// until the cache is flushed; a negative ttl disables caching.
func WithTemplateCache(ttl time.Duration) Option {
	return func(cfg *config) {
		cfg.cacheTTL = ttl
		cfg.cacheSet = true
	}
}

// WithStrictPaths rejects identifiers that resolve outside their namespace
// directory.
func WithStrictPaths() Option {
	return func(cfg *config) {
		cfg.strictPaths = true
	}
}

func copyPaths(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
