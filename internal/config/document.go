package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Document is the loaded YAML configuration. Unknown keys survive a
// load/update round trip untouched.
type Document map[string]any

// Int coerces the value under key to an int, accepting YAML integers and
// numeric strings. Returns def when absent or blank.
func (d Document) Int(key string, def int) (int, error) {
	raw, ok := d[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return def, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("can not parse %s as integer: %w", key, err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("unexpected type %T for %s", raw, key)
}

// Str returns the trimmed string under key, or "" when absent.
func (d Document) Str(key string) string {
	raw, ok := d[key]
	if !ok || raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// Bool returns the boolean under key, false when absent or not a bool.
func (d Document) Bool(key string) bool {
	raw, ok := d[key]
	if !ok {
		return false
	}
	b, _ := raw.(bool)
	return b
}

// IntSlice returns the list of ints under key, tolerating YAML's mixed
// integer decodings. Absent or malformed entries yield an empty slice.
func (d Document) IntSlice(key string) []int {
	raw, ok := d[key]
	if !ok || raw == nil {
		return nil
	}
	if list, ok := raw.([]int); ok {
		return list
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case int:
			out = append(out, v)
		case int64:
			out = append(out, int(v))
		case float64:
			out = append(out, int(v))
		}
	}
	return out
}

// StrSlice returns the list of strings under key.
func (d Document) StrSlice(key string) []string {
	raw, ok := d[key]
	if !ok || raw == nil {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// StrSliceMap returns the nested mapping of string lists under key, as used
// by the file_formats policy.
func (d Document) StrSliceMap(key string) map[string][]string {
	raw, ok := d[key]
	if !ok || raw == nil {
		return nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	out := map[string][]string{}
	for k, v := range m {
		list, ok := v.([]any)
		if !ok {
			out[k] = nil
			continue
		}
		formats := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				formats = append(formats, s)
			}
		}
		out[k] = formats
	}
	return out
}

// Map returns the nested mapping under key, as used by the proxy descriptor.
func (d Document) Map(key string) map[string]any {
	raw, ok := d[key]
	if !ok || raw == nil {
		return nil
	}
	m, _ := raw.(map[string]any)
	return m
}

// Time parses the ISO date or date-time under key. Naive values are
// assumed UTC. Returns the zero time when absent.
func (d Document) Time(key string) (time.Time, error) {
	raw, ok := d[key]
	if !ok || raw == nil {
		return time.Time{}, nil
	}
	if t, ok := raw.(time.Time); ok {
		return t.UTC(), nil
	}
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("can not parse %s as date: %q", key, s)
}
