package view

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
)

// Registry is an in-memory Loader for templates compiled into the binary.
// Keys are cleaned paths; lookups apply the same implied extension and index
// rules as file loaders.
type Registry struct {
	mu        sync.RWMutex
	exts      []string
	templates map[string]any
}

// NewRegistry creates an empty registry. With no extensions the defaults are
// used.
func NewRegistry(exts ...string) *Registry {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	return &Registry{
		exts:      append([]string(nil), exts...),
		templates: make(map[string]any),
	}
}

// Register stores export under path. Duplicate paths return an error.
func (r *Registry) Register(path string, export any) error {
	if path == "" {
		return fmt.Errorf("view: template path is required")
	}
	if export == nil {
		return fmt.Errorf("view: template export for %q is required", path)
	}
	key := filepath.Clean(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.templates[key]; exists {
		return fmt.Errorf("view: template %q already registered", key)
	}
	r.templates[key] = export
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(path string, export any) {
	if err := r.Register(path, export); err != nil {
		panic(err)
	}
}

// Load implements Loader.
func (r *Registry) Load(path string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, candidate := range Candidates(filepath.Clean(path), r.exts) {
		if export, ok := r.templates[candidate]; ok {
			return export, nil
		}
	}
	return nil, NotFound(path)
}

// Paths returns the registered keys in sorted order.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths := make([]string, 0, len(r.templates))
	for path := range r.templates {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
