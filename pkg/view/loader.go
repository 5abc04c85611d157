package view

import (
	"errors"
	"path/filepath"
	"strings"
)

// DefaultExtensions are the implied template extensions, in lookup order.
var DefaultExtensions = []string{".tpl", ".html"}

const indexName = "index"

// Loader fetches the export stored at an absolute template path. A miss must
// return an error matching ErrTemplateNotFound.
type Loader interface {
	Load(path string) (any, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(path string) (any, error)

// Load calls fn.
func (fn LoaderFunc) Load(path string) (any, error) {
	return fn(path)
}

// Match is the winning candidate of LoadFirst.
type Match struct {
	Path     string
	Template Template
}

// LoadFirst tries paths in order and returns the first one that loads. Misses
// fall through to the next candidate; any other loader error is returned
// as-is.
func LoadFirst(loader Loader, paths []string) (Match, error) {
	for _, path := range paths {
		export, err := loader.Load(path)
		if err != nil {
			if errors.Is(err, ErrTemplateNotFound) {
				continue
			}
			return Match{}, err
		}
		tpl, ok := AsTemplate(export)
		if !ok {
			return Match{}, &InvalidTemplateExportError{Path: path, Export: export}
		}
		return Match{Path: path, Template: tpl}, nil
	}
	return Match{}, &NoTemplateFoundError{Paths: append([]string(nil), paths...)}
}

// Candidates lists the file paths a loader should try for path: the path
// itself, then path+ext, then path/index+ext. A path that already carries one
// of exts is only tried as-is and as a directory index.
func Candidates(path string, exts []string) []string {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	out := make([]string, 0, 2*len(exts)+1)
	out = append(out, path)
	if !hasExtension(path, exts) {
		for _, ext := range exts {
			out = append(out, path+ext)
		}
	}
	index := filepath.Join(path, indexName)
	for _, ext := range exts {
		out = append(out, index+ext)
	}
	return out
}

func hasExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	if ext == "" {
		return false
	}
	for _, candidate := range exts {
		if strings.EqualFold(ext, candidate) {
			return true
		}
	}
	return false
}

// ChainLoader tries each loader in order for the same path.
type ChainLoader []Loader

// Load returns the first hit. Non-miss errors stop the chain.
func (c ChainLoader) Load(path string) (any, error) {
	for _, loader := range c {
		if loader == nil {
			continue
		}
		export, err := loader.Load(path)
		if err == nil {
			return export, nil
		}
		if !errors.Is(err, ErrTemplateNotFound) {
			return nil, err
		}
	}
	return nil, NotFound(path)
}

// NotFound returns a miss error for path that matches ErrTemplateNotFound.
func NotFound(path string) error {
	return &loaderMiss{path: path}
}

type loaderMiss struct {
	path string
}

func (e *loaderMiss) Error() string {
	return "view: template not found: " + e.path
}

func (e *loaderMiss) Unwrap() error {
	return ErrTemplateNotFound
}
