package content

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// ParseDecimal parses a learner- or author-entered number, accepting a
// decimal comma ("2,30") as well as a decimal point ("2.30").
func ParseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// number is a JSON value stored either as a number or as a numeric string.
type number struct {
	Value float64
	Valid bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	switch x := v.(type) {
	case float64:
		n.Value, n.Valid = x, true
	case string:
		n.Value, n.Valid = ParseDecimal(x)
	}
	return nil
}

// flag is a JSON boolean that older documents sometimes stored as a string.
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	switch x := v.(type) {
	case bool:
		*f = flag(x)
	case string:
		*f = flag(strings.EqualFold(strings.TrimSpace(x), "true"))
	case float64:
		*f = flag(x != 0)
	}
	return nil
}

// text is a JSON string, or an object carrying the text in a known field.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	switch x := v.(type) {
	case string:
		*t = text(x)
	case float64:
		*t = text(strconv.FormatFloat(x, 'f', -1, 64))
	case map[string]any:
		for _, key := range []string{"description", "text", "title"} {
			if s, ok := x[key].(string); ok {
				*t = text(s)
				return nil
			}
		}
	}
	return nil
}

// lines flattens a comparison block into display lines. Arrays keep their
// order; objects become "key: value" lines sorted by key.
type lines []string

func (l *lines) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	*l = flatten(v)
	return nil
}

func flatten(v any) []string {
	switch x := v.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return nil
		}
		return []string{x}
	case []any:
		var out []string
		for _, item := range x {
			out = append(out, flatten(item)...)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]string, 0, len(keys))
		for _, k := range keys {
			out = append(out, k+": "+scalarString(x[k]))
		}
		return out
	case nil:
		return nil
	default:
		return []string{scalarString(x)}
	}
}

func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

func firstNonEmpty(vals ...text) string {
	for _, v := range vals {
		if s := strings.TrimSpace(string(v)); s != "" {
			return s
		}
	}
	return ""
}

// remarshal decodes a generic JSON document into a typed value.
func remarshal(doc any, dst any) bool {
	b, err := json.Marshal(doc)
	if err != nil {
		return false
	}
	return json.Unmarshal(b, dst) == nil
}
