package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Wage is a decimal wage value as it appears in the wage dataset.
// It remembers the original text and whether it was a JSON string or a
// JSON number so that a load/save cycle reproduces the dataset exactly.
// Values that do not parse as decimals are kept (Valid reports false)
// so that the ranking engine can report them instead of coercing.
type Wage struct {
	raw    string
	quoted bool
	value  decimal.Decimal
	valid  bool
}

// ParseWage builds a Wage from dataset text. Surrounding whitespace is
// ignored for parsing but kept in the raw text.
func ParseWage(text string) Wage {
	w := Wage{raw: text, quoted: true}
	w.parse()
	return w
}

func (w *Wage) parse() {
	text := strings.TrimSpace(w.raw)
	if text == "" {
		return
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return
	}
	w.value = d
	w.valid = true
}

// Missing reports whether the dataset had no value at all.
func (w Wage) Missing() bool {
	return strings.TrimSpace(w.raw) == ""
}

// Valid reports whether the value parsed as a decimal.
func (w Wage) Valid() bool {
	return w.valid
}

// Decimal returns the parsed value. ok is false for missing or
// non-numeric values.
func (w Wage) Decimal() (decimal.Decimal, bool) {
	return w.value, w.valid
}

// String returns the original dataset text.
func (w Wage) String() string {
	return w.raw
}

// Cmp compares two valid wages numerically.
func (w Wage) Cmp(other Wage) int {
	return w.value.Cmp(other.value)
}

func (w *Wage) UnmarshalJSON(data []byte) error {
	*w = Wage{}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		w.raw = s
		w.quoted = true
	} else {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		w.raw = n.String()
	}
	w.parse()
	return nil
}

func (w Wage) MarshalJSON() ([]byte, error) {
	if w.raw == "" && !w.quoted {
		return []byte("null"), nil
	}
	if w.quoted {
		return json.Marshal(w.raw)
	}
	return []byte(w.raw), nil
}
