package markup

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// maxComponentDepth bounds component expansion so a component that returns
// itself fails instead of recursing forever.
const maxComponentDepth = 256

var errComponentDepth = errors.New("markup: component nesting too deep")

// RenderString serializes n to an HTML string.
func RenderString(n Node) (string, error) {
	var b strings.Builder
	if err := Render(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Render serializes n to w.
func Render(w io.Writer, n Node) error {
	if n == nil {
		return errors.New("markup: render nil node")
	}
	nodes, err := toHTML(n, 0)
	if err != nil {
		return err
	}
	for _, hn := range nodes {
		if err := html.Render(w, hn); err != nil {
			return fmt.Errorf("markup: render %s: %w", hn.Data, err)
		}
	}
	return nil
}

func toHTML(n Node, depth int) ([]*html.Node, error) {
	switch v := n.(type) {
	case nil:
		return nil, nil
	case Text:
		return []*html.Node{{Type: html.TextNode, Data: string(v)}}, nil
	case Raw:
		return []*html.Node{{Type: html.RawNode, Data: string(v)}}, nil
	case List:
		return listToHTML(v, depth)
	case *Element:
		if v == nil {
			return nil, nil
		}
		if v.Component != nil {
			return expandComponent(v, depth)
		}
		return elementToHTML(v, depth)
	default:
		return nil, fmt.Errorf("markup: unsupported node %T", n)
	}
}

func listToHTML(list []Node, depth int) ([]*html.Node, error) {
	var out []*html.Node
	for _, child := range list {
		nodes, err := toHTML(child, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

func elementToHTML(el *Element, depth int) ([]*html.Node, error) {
	if el.Tag == "" {
		return nil, errors.New("markup: element has no tag")
	}
	hn := &html.Node{
		Type:     html.ElementNode,
		Data:     el.Tag,
		DataAtom: atom.Lookup([]byte(el.Tag)),
		Attr:     attributes(el.Props),
	}
	children, err := listToHTML(el.Children, depth)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		hn.AppendChild(child)
	}
	return []*html.Node{hn}, nil
}

func expandComponent(el *Element, depth int) ([]*html.Node, error) {
	if depth >= maxComponentDepth {
		return nil, errComponentDepth
	}
	props := make(Props, len(el.Props)+1)
	for k, v := range el.Props {
		props[k] = v
	}
	props["children"] = List(el.Children)

	out, err := el.Component(props)
	if err != nil {
		return nil, err
	}
	return listToHTML(Children(out), depth+1)
}

var attrAliases = map[string]string{
	"className": "class",
	"htmlFor":   "for",
}

func attributes(props Props) []html.Attribute {
	if len(props) == 0 {
		return nil
	}
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	attrs := make([]html.Attribute, 0, len(keys))
	for _, key := range keys {
		if key == "children" || key == "" {
			continue
		}
		val, ok := attrValue(props[key])
		if !ok {
			continue
		}
		name := key
		if alias, found := attrAliases[key]; found {
			name = alias
		}
		attrs = append(attrs, html.Attribute{Key: name, Val: val})
	}
	return attrs
}

func attrValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case bool:
		return "", v
	case string:
		return v, true
	case Text:
		return string(v), true
	case map[string]any:
		return styleValue(v), true
	case map[string]string:
		converted := make(map[string]any, len(v))
		for k, s := range v {
			converted[k] = s
		}
		return styleValue(converted), true
	case []string:
		return strings.Join(v, " "), true
	}
	if reflect.ValueOf(value).Kind() == reflect.Func {
		return "", false
	}
	return fmt.Sprint(value), true
}

func styleValue(style map[string]any) string {
	keys := make([]string, 0, len(style))
	for key := range style {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		value := style[key]
		if value == nil {
			continue
		}
		b.WriteString(cssProperty(key))
		b.WriteByte(':')
		b.WriteString(fmt.Sprint(value))
		b.WriteByte(';')
	}
	return b.String()
}

// cssProperty converts camelCase style keys to their hyphenated form.
func cssProperty(key string) string {
	if strings.Contains(key, "-") {
		return key
	}
	var b strings.Builder
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
