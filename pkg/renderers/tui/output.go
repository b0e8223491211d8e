package tui

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

func serialize(format OutputFormat, values map[string]any) ([]byte, error) {
	switch format {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		nested, err := expandPaths(values)
		if err != nil {
			return nil, err
		}
		out, err := json.Marshal(nested)
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return out, nil
	}
}

// expandPaths turns dotted control names ("address.city") into nested
// objects. A name that is both a leaf and a prefix of another is an error.
func expandPaths(values map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(values))
	for _, key := range sortedKeys(values) {
		segments := strings.Split(key, ".")
		node := out
		for i, segment := range segments {
			if i == len(segments)-1 {
				if _, exists := node[segment]; exists {
					return nil, fmt.Errorf("tui: %q collides with a nested value", key)
				}
				node[segment] = values[key]
				break
			}
			next, exists := node[segment]
			if !exists {
				child := make(map[string]any)
				node[segment] = child
				node = child
				continue
			}
			child, ok := next.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("tui: %q collides with value %q", key, strings.Join(segments[:i+1], "."))
			}
			node = child
		}
	}
	return out, nil
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	for key, value := range values {
		switch v := value.(type) {
		case []string:
			for _, item := range v {
				flattened.Add(key+"[]", item)
			}
		case nil:
			flattened.Set(key, "")
		default:
			flattened.Set(key, fmt.Sprint(v))
		}
	}
	return flattened.Encode()
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	for _, key := range sortedKeys(values) {
		switch v := values[key].(type) {
		case []string:
			for idx, item := range v {
				fmt.Fprintf(&b, "%s[%d]=%s\n", key, idx, item)
			}
		case nil:
			fmt.Fprintf(&b, "%s=\n", key)
		default:
			fmt.Fprintf(&b, "%s=%v\n", key, v)
		}
	}
	return b.String()
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
