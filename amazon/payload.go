package amazon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// decode parses a JSON payload keeping numbers exact.
func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("cannot decode amazon json: %w", err)
	}
	return v, nil
}

// get evaluates path on v and returns nil when the path does not exist.
func get(path string, v any) any {
	jval, err := jsonpath.Get(path, v)
	if err != nil {
		return nil
	}
	return jval
}

// list returns the array at path.
func list(path string, v any) []any {
	l, _ := get(path, v).([]any)
	return l
}

// str returns the string at path, or "" if there is none.
func str(path string, v any) string {
	switch s := get(path, v).(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	}
	return ""
}

// amount returns the exact amount at path. Amounts come either as JSON
// numbers or as strings, possibly with a currency symbol.
func amount(path string, v any) (decimal.Decimal, error) {
	var s string
	switch a := get(path, v).(type) {
	case json.Number:
		s = a.String()
	case string:
		s = trimCurrency(a)
	default:
		return decimal.Zero, fmt.Errorf("missing amount %s", path)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %s %q: %w", path, s, err)
	}
	return d, nil
}

// trimCurrency turns "-$1,234.56" into "-1234.56".
func trimCurrency(s string) string {
	var b []byte
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '-' || c == '.' || (c >= '0' && c <= '9'):
			b = append(b, c)
		}
	}
	return string(b)
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02", "January 2, 2006"}

// date returns the date at path.
func date(path string, v any) (time.Time, error) {
	s := str(path, v)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %s %q", path, s)
}
