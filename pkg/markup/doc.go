// Package markup defines the in-memory tree that templates return before it is
// serialized to HTML.
//
// A tree is built from three shapes: *Element (a tag or a component with
// props and children), List (an ordered sequence of nodes) and the child-only
// leaves Text and Raw. Only elements and lists of elements are accepted as a
// template result; see AsNode.
//
// Trees are produced with H, C and Fragment, or parsed from an HTML fragment
// with ParseHTML. Render and RenderString serialize through
// golang.org/x/net/html, which handles escaping and void elements.
package markup
