package markup

import (
	"fmt"
	"strings"
)

// H builds an element for tag. Children may be nodes, strings, numbers,
// slices of those, or nil and booleans (which are dropped).
func H(tag string, props Props, children ...any) *Element {
	return &Element{
		Tag:      strings.TrimSpace(tag),
		Props:    props,
		Children: Children(children...),
	}
}

// C builds a component element. The component runs when the tree is
// rendered.
func C(component Component, props Props, children ...any) *Element {
	return &Element{
		Component: component,
		Props:     props,
		Children:  Children(children...),
	}
}

// Fragment groups children without a wrapping element.
func Fragment(children ...any) List {
	return List(Children(children...))
}

// Children normalises loose values into a flat node slice.
func Children(values ...any) []Node {
	if len(values) == 0 {
		return nil
	}
	out := make([]Node, 0, len(values))
	for _, value := range values {
		out = appendChild(out, value)
	}
	return out
}

func appendChild(out []Node, value any) []Node {
	switch v := value.(type) {
	case nil, bool:
		return out
	case *Element:
		if v == nil {
			return out
		}
		return append(out, v)
	case List:
		return append(out, v...)
	case []Node:
		return append(out, v...)
	case Node:
		return append(out, v)
	case string:
		return append(out, Text(v))
	case []string:
		for _, s := range v {
			out = append(out, Text(s))
		}
		return out
	case []*Element:
		for _, el := range v {
			out = appendChild(out, el)
		}
		return out
	case []any:
		for _, item := range v {
			out = appendChild(out, item)
		}
		return out
	case fmt.Stringer:
		return append(out, Text(v.String()))
	default:
		return append(out, Text(fmt.Sprint(v)))
	}
}
