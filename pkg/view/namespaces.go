package view

import (
	"path/filepath"
	"sort"
	"strings"
)

// Namespaces is the immutable namespace table.
type Namespaces struct {
	paths  map[string]string
	strict bool
}

// NewNamespaces copies paths into a new table.
func NewNamespaces(paths map[string]string) Namespaces {
	return Namespaces{paths: copyPaths(paths)}
}

// Lookup returns the base directory for namespace.
func (n Namespaces) Lookup(namespace string) (string, bool) {
	dir, ok := n.paths[namespace]
	return dir, ok
}

// Has reports whether namespace is configured.
func (n Namespaces) Has(namespace string) bool {
	_, ok := n.paths[namespace]
	return ok
}

// Names returns the configured namespaces in sorted order.
func (n Namespaces) Names() []string {
	names := make([]string, 0, len(n.paths))
	for name := range n.paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dirs returns the distinct base directories in namespace order.
func (n Namespaces) Dirs() []string {
	seen := make(map[string]struct{}, len(n.paths))
	dirs := make([]string, 0, len(n.paths))
	for _, name := range n.Names() {
		dir := n.paths[name]
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs
}

// Map returns a copy of the table.
func (n Namespaces) Map() map[string]string {
	return copyPaths(n.paths)
}

// Len reports the number of namespaces.
func (n Namespaces) Len() int {
	return len(n.paths)
}

// Resolve turns an identifier into a filesystem path. Absolute paths are
// returned unchanged.
func (n Namespaces) Resolve(id string) (string, error) {
	if filepath.IsAbs(id) {
		return id, nil
	}

	name := ParseName(id)
	base, ok := n.paths[name.Namespace]
	if !ok {
		return "", &UnknownNamespaceError{Namespace: name.Namespace}
	}

	path := filepath.Join(base, name.Template)
	if n.strict && !within(base, path) {
		return "", &PathTraversalError{Identifier: id, Base: base}
	}
	return path, nil
}

// ResolveAll resolves each identifier in order. The first failure stops
// resolution.
func (n Namespaces) ResolveAll(ids ...string) ([]string, error) {
	paths := make([]string, 0, len(ids))
	for _, id := range ids {
		path, err := n.Resolve(id)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func within(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
