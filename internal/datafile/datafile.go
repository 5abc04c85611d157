// Package datafile reads render contexts from JSON or YAML files and from
// key=value assignments given on the command line.
package datafile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-htmlview/pkg/view"
)

// Stdin is the path that reads from standard input.
const Stdin = "-"

// Load reads a single data file. Stdin reads from os.Stdin.
func Load(path string) (view.Context, error) {
	if path == Stdin {
		return Read(os.Stdin, "stdin")
	}
	if !IsDataFile(path) {
		return nil, fmt.Errorf("datafile: %s: unsupported extension %q", path, filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("datafile: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadAll reads files in order and merges them. Later files win.
func LoadAll(paths ...string) (view.Context, error) {
	layers := make([]view.Context, 0, len(paths))
	for _, path := range paths {
		layer, err := Load(path)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}
	return view.Merge(layers...), nil
}

// Read parses everything from r. source names the input in errors.
func Read(r io.Reader, source string) (view.Context, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("datafile: read %s: %w", source, err)
	}
	return Parse(data, source)
}

// Parse decodes a JSON or YAML mapping. JSON is tried first.
func Parse(data []byte, source string) (view.Context, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return view.Context{}, nil
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err == nil {
		return view.Context(out), nil
	}

	out = nil
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("datafile: parse %s: invalid JSON or YAML: %w", source, err)
	}
	if out == nil {
		return nil, fmt.Errorf("datafile: parse %s: top level must be a mapping", source)
	}
	return view.Context(out), nil
}

// ParseAssignments turns "key=value" pairs into a context. Values are decoded
// as YAML scalars, so numbers and booleans keep their type. Dotted keys build
// nested maps.
func ParseAssignments(pairs []string) (view.Context, error) {
	return Apply(nil, pairs)
}

// Apply sets each "key=value" pair on a copy of base. A dotted key updates
// one entry of a nested map and keeps its siblings. base is not modified.
func Apply(base view.Context, pairs []string) (view.Context, error) {
	out := view.Context(cloneMap(base))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("datafile: assignment %q must look like key=value", pair)
		}

		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil || value == nil {
			value = raw
		}
		if err := assign(out, strings.Split(key, "."), value); err != nil {
			return nil, fmt.Errorf("datafile: assignment %q: %w", pair, err)
		}
	}
	return out, nil
}

// cloneMap copies nested maps so assignments never write into the caller's
// data. Other values are shared.
func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		switch v := value.(type) {
		case view.Context:
			out[key] = cloneMap(v)
		case map[string]any:
			out[key] = cloneMap(v)
		default:
			out[key] = value
		}
	}
	return out
}

func assign(target map[string]any, path []string, value any) error {
	for i, segment := range path {
		if segment == "" {
			return fmt.Errorf("empty key segment")
		}
		if i == len(path)-1 {
			target[segment] = value
			return nil
		}
		next, ok := target[segment].(map[string]any)
		if !ok {
			if _, exists := target[segment]; exists {
				return fmt.Errorf("%q is already a value", segment)
			}
			next = map[string]any{}
			target[segment] = next
		}
		target = next
	}
	return nil
}

// IsDataFile reports whether path has a supported extension.
func IsDataFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
