package view

import (
	"fmt"
	"reflect"
)

const (
	// DoctypeKey is the context key holding the doctype prefix.
	DoctypeKey = "doctype"
	// HTML5Doctype is the default doctype.
	HTML5Doctype = "<!DOCTYPE html>"
)

// Context is the data passed into a template.
type Context map[string]any

// DefaultContext returns the built-in renderer defaults.
func DefaultContext() Context {
	return Context{DoctypeKey: HTML5Doctype}
}

// Merge shallow-merges layers into a new context. Later layers win. Nil
// layers are skipped and no layer is modified.
func Merge(layers ...Context) Context {
	size := 0
	for _, layer := range layers {
		size += len(layer)
	}
	out := make(Context, size)
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}

// MergeRequestState layers caller data over request-scoped state. Renderer
// defaults are not included; Render applies them underneath.
func MergeRequestState(state, caller Context) Context {
	return Merge(state, caller)
}

// Clone returns a shallow copy.
func (c Context) Clone() Context {
	return Merge(c)
}

func applyStringTransforms(rendered string, data Context) string {
	doctype, ok := data[DoctypeKey]
	if !ok || !truthy(doctype) {
		return rendered
	}
	if s, ok := doctype.(string); ok {
		return s + rendered
	}
	return fmt.Sprint(doctype) + rendered
}

// truthy follows loose scripting semantics: nil, false, zero numbers and empty
// strings are false.
func truthy(value any) bool {
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return !rv.IsZero()
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	default:
		return true
	}
}
