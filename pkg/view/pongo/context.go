package pongo

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-htmlview/pkg/markup"
	"github.com/goliatone/go-htmlview/pkg/view"
)

func isCallable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.IsValid() && rv.Kind() == reflect.Func
}

func convertToContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case view.Context:
		return convertMapToContext(map[string]any(v))
	case pongo2.Context:
		return convertMapToContext(map[string]any(v))
	case map[string]any:
		return convertMapToContext(v)
	default:
		m, err := jsonToMap(v)
		if err != nil {
			return nil, err
		}
		return convertMapToContext(m)
	}
}

func convertMapToContext(in map[string]any) (pongo2.Context, error) {
	out := make(pongo2.Context, len(in))
	for key, value := range in {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		converted, err := convertValue(value)
		if err != nil {
			return nil, err
		}
		out[key] = converted
	}
	return out, nil
}

// convertValue normalizes values into shapes pongo2 can walk. Markup nodes
// are serialized up front and passed as safe values so they are not escaped
// a second time.
func convertValue(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	if isCallable(value) {
		return value, nil
	}

	switch v := value.(type) {
	case *pongo2.Value:
		return v, nil
	case markup.Node:
		rendered, err := markup.RenderString(v)
		if err != nil {
			return nil, err
		}
		return pongo2.AsSafeValue(rendered), nil
	case []markup.Node:
		return convertNodes(len(v), func(i int) markup.Node { return v[i] })
	case []*markup.Element:
		return convertNodes(len(v), func(i int) markup.Node { return v[i] })
	case string, bool, int, int64, float64:
		return v, nil
	case view.Context:
		return convertMap(map[string]any(v))
	case pongo2.Context:
		return convertMap(map[string]any(v))
	case map[string]any:
		return convertMap(v)
	case []any:
		return convertSlice(v)
	default:
		raw, err := jsonToAny(v)
		if err != nil {
			return nil, err
		}
		switch decoded := raw.(type) {
		case map[string]any:
			return convertMap(decoded)
		case []any:
			return convertSlice(decoded)
		default:
			return decoded, nil
		}
	}
}

// renderedNode carries serialized markup into for loops. pongo2 autoescapes
// string kinds only, so it prints unescaped through String.
type renderedNode struct {
	html string
}

func (n renderedNode) String() string { return n.html }

// convertNodes renders each node on its own so templates can loop over them.
func convertNodes(n int, at func(int) markup.Node) ([]any, error) {
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		rendered, err := markup.RenderString(at(i))
		if err != nil {
			return nil, err
		}
		out = append(out, renderedNode{html: rendered})
	}
	return out, nil
}

func convertMap(in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for key, value := range in {
		converted, err := convertValue(value)
		if err != nil {
			return nil, err
		}
		out[key] = converted
	}
	return out, nil
}

func convertSlice(in []any) ([]any, error) {
	out := make([]any, 0, len(in))
	for _, value := range in {
		converted, err := convertValue(value)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

func jsonToMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func jsonToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
