package markup

import (
	"fmt"
	"strings"
)

// Node is implemented by every value that can sit in a markup tree.
type Node interface {
	node()
}

// Props carries element attributes or component input.
type Props map[string]any

// Component expands into markup at serialization time. It receives the
// element props with the element children stored under the "children" key.
type Component func(props Props) (any, error)

// Element is a single tag or component invocation.
type Element struct {
	Tag       string
	Component Component
	Props     Props
	Children  []Node
}

// List is an ordered sequence of sibling nodes.
type List []Node

// Text is a string leaf. It is escaped when rendered.
type Text string

// Raw is trusted HTML that is written without escaping.
type Raw string

func (*Element) node() {}
func (List) node()     {}
func (Text) node()     {}
func (Raw) node()      {}

// Name reports the tag name, or a placeholder for components.
func (e *Element) Name() string {
	if e == nil {
		return ""
	}
	if e.Tag != "" {
		return e.Tag
	}
	if e.Component != nil {
		return "<component>"
	}
	return ""
}

// Attr returns the prop stored under key.
func (e *Element) Attr(key string) (any, bool) {
	if e == nil || e.Props == nil {
		return nil, false
	}
	v, ok := e.Props[key]
	return v, ok
}

// TextContent concatenates the text leaves under n, ignoring markup. Raw
// leaves are included verbatim. Components are not expanded.
func TextContent(n Node) string {
	var b strings.Builder
	collectText(&b, n)
	return b.String()
}

func collectText(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case Text:
		b.WriteString(string(v))
	case Raw:
		b.WriteString(string(v))
	case List:
		for _, child := range v {
			collectText(b, child)
		}
	case *Element:
		if v == nil {
			return
		}
		for _, child := range v.Children {
			collectText(b, child)
		}
	}
}

// String renders a short debugging representation.
func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("<%s props=%d children=%d>", e.Name(), len(e.Props), len(e.Children))
}
