package httpclient

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
)

func isAbsolute(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// BuildURL joins path onto base unless path is already absolute, then
// appends the serialized query. Nil and empty values are skipped; slices
// repeat the key once per element.
func BuildURL(base, path string, query map[string]any) string {
	target := path
	if !isAbsolute(path) {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		target = strings.TrimRight(base, "/") + path
	}

	values := encodeQuery(query)
	if len(values) == 0 {
		return target
	}
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + values.Encode()
}

func encodeQuery(query map[string]any) url.Values {
	values := url.Values{}
	for key, raw := range query {
		if raw == nil {
			continue
		}
		rv := reflect.ValueOf(raw)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				continue
			}
			rv = rv.Elem()
		}
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			for i := 0; i < rv.Len(); i++ {
				if s := stringify(rv.Index(i).Interface()); s != "" {
					values.Add(key, s)
				}
			}
			continue
		}
		if s := stringify(rv.Interface()); s != "" {
			values.Add(key, s)
		}
	}
	return values
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
