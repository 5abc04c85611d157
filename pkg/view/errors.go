package view

import (
	"errors"
	"fmt"
	"strings"
)

// OutputErrorMessage is reported when a template result is not markup.
const OutputErrorMessage = "Templates must return an HTML element"

// ExportErrorMessage is reported when a loaded template is not invocable.
const ExportErrorMessage = "templates must export a function"

var (
	ErrUnknownNamespace      = errors.New("view: unknown namespace")
	ErrNoTemplateFound       = errors.New("view: no template found")
	ErrInvalidTemplateExport = errors.New("view: invalid template export")
	ErrInvalidTemplateOutput = errors.New("view: invalid template output")
	ErrPathTraversal         = errors.New("view: path escapes namespace")

	// ErrTemplateNotFound is returned by loaders when nothing exists at a
	// path. LoadFirst treats it as "try the next candidate".
	ErrTemplateNotFound = errors.New("view: template not found")
)

// UnknownNamespaceError reports a namespace missing from the table.
type UnknownNamespaceError struct {
	Namespace string
}

func (e *UnknownNamespaceError) Error() string {
	return fmt.Sprintf("renderer namespace %q is not configured", e.Namespace)
}

func (e *UnknownNamespaceError) Is(target error) bool {
	return target == ErrUnknownNamespace
}

// NoTemplateFoundError reports that no candidate path could be loaded.
type NoTemplateFoundError struct {
	Paths []string
}

func (e *NoTemplateFoundError) Error() string {
	if len(e.Paths) == 0 {
		return "view: no template found: no candidates given"
	}
	return fmt.Sprintf("view: no template found in %s", strings.Join(quoteAll(e.Paths), ", "))
}

func (e *NoTemplateFoundError) Is(target error) bool {
	return target == ErrNoTemplateFound
}

// InvalidTemplateExportError reports a loaded template that cannot be invoked.
type InvalidTemplateExportError struct {
	Path   string
	Export any
}

func (e *InvalidTemplateExportError) Error() string {
	return fmt.Sprintf("%s (%q exports %T)", ExportErrorMessage, e.Path, e.Export)
}

func (e *InvalidTemplateExportError) Is(target error) bool {
	return target == ErrInvalidTemplateExport
}

// InvalidTemplateOutputError reports a template result that is not markup.
type InvalidTemplateOutputError struct {
	Path  string
	Value any
}

func (e *InvalidTemplateOutputError) Error() string {
	return OutputErrorMessage
}

func (e *InvalidTemplateOutputError) Is(target error) bool {
	return target == ErrInvalidTemplateOutput
}

// PathTraversalError reports an identifier that leaves its namespace
// directory while strict paths are enabled.
type PathTraversalError struct {
	Identifier string
	Base       string
}

func (e *PathTraversalError) Error() string {
	return fmt.Sprintf("view: template %q resolves outside %q", e.Identifier, e.Base)
}

func (e *PathTraversalError) Is(target error) bool {
	return target == ErrPathTraversal
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
