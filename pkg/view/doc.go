// Package view resolves template identifiers to templates and renders them to
// HTML strings.
//
// An identifier has the form "[namespace:]template". Only the first colon
// separates the namespace; a missing or empty namespace selects the default
// namespace and an empty template selects "index". Each namespace maps to a
// base directory configured when the Renderer is built.
//
// Rendering runs a fixed pipeline: merge the render context, resolve every
// candidate identifier, load the first candidate the Loader can find, invoke
// it, check that the result is a markup tree, serialize it and prepend the
// doctype when the context carries one.
//
// Identifiers are trusted input. The template segment is joined to the
// namespace directory without sanitizing, so "../" segments can leave the
// base directory unless WithStrictPaths is used.
package view
