package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number is a numeric field as it arrived from a client: a JSON number or a
// JSON string holding (hopefully) numeric text. The zero value means absent.
type Number string

// NumberOf formats f as a Number.
func NumberOf(f float64) Number {
	return Number(strconv.FormatFloat(f, 'f', -1, 64))
}

// UnmarshalJSON accepts numbers, strings and null.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*n = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number(s)
	default:
		var num json.Number
		if err := json.Unmarshal(b, &num); err != nil {
			return fmt.Errorf("number: %w", err)
		}
		*n = Number(num)
	}
	return nil
}

// MarshalJSON writes the value as text so it survives a decode unchanged.
func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(n))
}

// IsSet reports whether a value was supplied.
func (n Number) IsSet() bool {
	return n != ""
}

// Float parses the longest leading decimal number in n, so "19.99 USD"
// gives 19.99 and "12abc" gives 12. Empty input yields (0, true); text with
// no leading number, or one that overflows, yields (0, false). Callers never
// see an error: bad input degrades to zero.
func (n Number) Float() (float64, bool) {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return 0, true
	}
	prefix := leadingDecimal(s)
	if prefix == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// leadingDecimal returns the longest prefix of s of the form
// [+-]digits[.digits][(e|E)[+-]digits], or "" if s does not start with one.
// Infinity, NaN and hex forms are not numbers here.
func leadingDecimal(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return ""
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		start := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > start {
			i = j
		}
	}
	return s[:i]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Int parses n as a count, truncating any fraction. Same degrade rules as Float.
func (n Number) Int() (int, bool) {
	f, ok := n.Float()
	if !ok || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(math.Trunc(f)), true
}
