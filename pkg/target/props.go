package target

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Reserved property keys.
const (
	KeyClass       = "class"
	KeyStyle       = "style"
	KeyOn          = "on"
	KeyTextContent = "textContent"
)

// ClassString renders a class property value.
func ClassString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(nonEmpty(val), " ")
	case []any:
		tokens := make([]string, 0, len(val))
		for _, t := range val {
			tokens = append(tokens, Stringify(t))
		}
		return strings.Join(nonEmpty(tokens), " ")
	case map[string]bool:
		names := make([]string, 0, len(val))
		for name, on := range val {
			if on {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		return strings.Join(names, " ")
	default:
		return Stringify(v)
	}
}

func nonEmpty(tokens []string) []string {
	out := tokens[:0:0]
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// StyleString renders a style property value. Map keys are sorted.
func StyleString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case map[string]string:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var sb strings.Builder
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(k)
			sb.WriteString(": ")
			sb.WriteString(val[k])
			sb.WriteByte(';')
		}
		return sb.String()
	default:
		return Stringify(v)
	}
}

// IsEventProp reports whether key names an event handler.
func IsEventProp(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// Events collects the event handlers of props keyed by lower-case event
// name. Both "onClick" keys and an "on" map are recognized.
func Events(props Props) map[string]any {
	events := make(map[string]any)
	for k, v := range props {
		switch {
		case k == KeyOn:
			if m, ok := v.(map[string]any); ok {
				for name, h := range m {
					events[strings.ToLower(name)] = h
				}
			}
		case IsEventProp(k):
			events[strings.ToLower(k[2:])] = v
		}
	}
	return events
}

// IsAttribute reports whether key is written as a plain attribute.
func IsAttribute(key string) bool {
	return key != KeyOn && key != KeyTextContent && !IsEventProp(key)
}

// Stringify converts a value to its text form.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(v)
	}
}
