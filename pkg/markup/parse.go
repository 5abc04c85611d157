package markup

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML turns rendered HTML into a markup tree. A complete document
// (starting with a doctype or an <html> tag) yields a single html element;
// anything else is parsed as body content. The doctype, comments and
// whitespace-only text between top-level nodes are dropped.
func ParseHTML(src string) (List, error) {
	if isDocument(src) {
		return parseDocument(src)
	}
	return parseFragment(src)
}

func isDocument(src string) bool {
	head := strings.ToLower(strings.TrimSpace(src))
	return strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html")
}

func parseDocument(src string) (List, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("markup: parse document: %w", err)
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Html {
			return List{fromHTML(c)}, nil
		}
	}
	return List{}, nil
}

func parseFragment(src string) (List, error) {
	nodes, err := html.ParseFragment(strings.NewReader(src), fragmentContext(src))
	if err != nil {
		return nil, fmt.Errorf("markup: parse fragment: %w", err)
	}
	out := make(List, 0, len(nodes))
	for _, n := range nodes {
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
			continue
		}
		if converted := fromHTML(n); converted != nil {
			out = append(out, converted)
		}
	}
	return out, nil
}

// fragmentContext picks the parent a fragment is parsed under. Table parts
// and select options are dropped by the parser outside their own parents.
func fragmentContext(src string) *html.Node {
	parent := atom.Body
	switch firstTag(src) {
	case atom.Tr:
		parent = atom.Tbody
	case atom.Td, atom.Th:
		parent = atom.Tr
	case atom.Thead, atom.Tbody, atom.Tfoot, atom.Caption, atom.Colgroup:
		parent = atom.Table
	case atom.Col:
		parent = atom.Colgroup
	case atom.Option, atom.Optgroup:
		parent = atom.Select
	}
	return &html.Node{Type: html.ElementNode, Data: parent.String(), DataAtom: parent}
}

func firstTag(src string) atom.Atom {
	z := html.NewTokenizer(strings.NewReader(src))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return 0
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			return atom.Lookup(name)
		case html.TextToken:
			if strings.TrimSpace(string(z.Text())) != "" {
				return 0
			}
		}
	}
}

func fromHTML(n *html.Node) Node {
	switch n.Type {
	case html.TextNode:
		return Text(n.Data)
	case html.ElementNode:
		el := &Element{Tag: n.Data}
		if len(n.Attr) > 0 {
			el.Props = make(Props, len(n.Attr))
			for _, attr := range n.Attr {
				key := attr.Key
				if attr.Namespace != "" {
					key = attr.Namespace + ":" + key
				}
				el.Props[key] = attr.Val
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTML(c); child != nil {
				el.Children = append(el.Children, child)
			}
		}
		return el
	default:
		return nil
	}
}
