package markup

// AsNode converts a template result into a renderable tree. It accepts a
// non-empty *Element, or a list whose every item is itself accepted; an empty
// list is accepted. Lists may be given as List, []Node, []*Element or []any.
// Strings, Text, Raw, nil and any other value are rejected.
func AsNode(value any) (Node, bool) {
	switch v := value.(type) {
	case *Element:
		if v == nil || (v.Tag == "" && v.Component == nil) {
			return nil, false
		}
		return v, true
	case List:
		return asList(len(v), func(i int) any { return v[i] })
	case []Node:
		return asList(len(v), func(i int) any { return v[i] })
	case []*Element:
		return asList(len(v), func(i int) any { return v[i] })
	case []any:
		return asList(len(v), func(i int) any { return v[i] })
	default:
		return nil, false
	}
}

// IsNode reports whether value is an acceptable template result.
func IsNode(value any) bool {
	_, ok := AsNode(value)
	return ok
}

func asList(n int, at func(int) any) (Node, bool) {
	out := make(List, 0, n)
	for i := 0; i < n; i++ {
		node, ok := AsNode(at(i))
		if !ok {
			return nil, false
		}
		out = append(out, node)
	}
	return out, true
}
