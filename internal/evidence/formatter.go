package evidence

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mikey/phish-dashboard/internal/core"
)

// Row is a displayable feature
type Row struct {
	Label string
	Value string
}

// Project keeps the features whose key is in allowList, in the order the
// service sent them, and formats each into a label/value pair.
// Keys missing from either side are dropped.
func Project(features core.FeatureMap, allowList []string) []Row {
	allowed := make(map[string]struct{}, len(allowList))
	for _, key := range allowList {
		allowed[key] = struct{}{}
	}

	rows := make([]Row, 0, len(allowList))
	emitted := make(map[string]struct{}, len(allowList))
	for _, f := range features {
		if _, ok := allowed[f.Key]; !ok {
			continue
		}
		if _, dup := emitted[f.Key]; dup {
			continue
		}
		emitted[f.Key] = struct{}{}
		rows = append(rows, Row{Label: Label(f.Key), Value: Value(f.Value)})
	}
	return rows
}

// Label turns a snake_case key into words with their first letter upper-cased:
// has_suspicious_tld becomes "Has Suspicious Tld".
func Label(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Value renders booleans as Yes/No, numbers as received and anything else as text
func Value(v any) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case string:
		return val
	case nil:
		return "null"
	case []any, map[string]any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	default:
		return fmt.Sprint(val)
	}
}
