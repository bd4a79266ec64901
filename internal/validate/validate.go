// Package validate provides the declarative field rules the dashboard forms
// are gated on. Rules are pure and synchronous; they only block submission and
// produce inline messages, the backend stays authoritative.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Values is a flat view of submitted form fields.
type Values map[string]string

// Rule checks one field against the full value set (cross-field rules read
// their counterpart from values).
type Rule func(field string, values Values) string

// Field pairs a field name with its ordered rules.
type Field struct {
	Name  string
	Rules []Rule
}

// Schema is an ordered set of field constraints.
type Schema []Field

// Apply runs every rule and collects messages per field. An empty result means
// the form passes.
func (s Schema) Apply(values Values) map[string][]string {
	problems := make(map[string][]string)
	for _, f := range s.Fields() {
		for _, rule := range f.Rules {
			if msg := rule(f.Name, values); msg != "" {
				problems[f.Name] = append(problems[f.Name], msg)
			}
		}
	}
	return problems
}

// Fields returns the schema's fields in declaration order.
func (s Schema) Fields() []Field { return s }

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// nicPattern matches the two national identity card formats in use:
// 9 digits + V/X (old) or 12 digits (new).
var nicPattern = regexp.MustCompile(`^(?:\d{9}[VvXx]|\d{12})$`)

// Required rejects empty or whitespace-only values.
func Required() Rule {
	return func(field string, values Values) string {
		if strings.TrimSpace(values[field]) == "" {
			return fmt.Sprintf("%s is required", field)
		}
		return ""
	}
}

// MinLen requires at least n characters.
func MinLen(n int) Rule {
	return func(field string, values Values) string {
		v := values[field]
		if v != "" && len(v) < n {
			return fmt.Sprintf("%s must be at least %d characters", field, n)
		}
		return ""
	}
}

// MaxLen allows at most n characters.
func MaxLen(n int) Rule {
	return func(field string, values Values) string {
		if len(values[field]) > n {
			return fmt.Sprintf("%s must be at most %d characters", field, n)
		}
		return ""
	}
}

// Email requires an email-shaped value.
func Email() Rule {
	return func(field string, values Values) string {
		v := strings.TrimSpace(values[field])
		if v != "" && !emailPattern.MatchString(v) {
			return fmt.Sprintf("%s must be a valid email address", field)
		}
		return ""
	}
}

// NICFormat requires a national identity card number shape.
func NICFormat() Rule {
	return func(field string, values Values) string {
		v := strings.TrimSpace(values[field])
		if v != "" && !nicPattern.MatchString(v) {
			return fmt.Sprintf("%s must be a valid NIC number", field)
		}
		return ""
	}
}

// IntRange requires an integer within [min, max].
func IntRange(min, max int) Rule {
	return func(field string, values Values) string {
		v := strings.TrimSpace(values[field])
		if v == "" {
			return ""
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Sprintf("%s must be a whole number", field)
		}
		if n < min || n > max {
			return fmt.Sprintf("%s must be between %d and %d", field, min, max)
		}
		return ""
	}
}

// FloatMin requires a number no smaller than min.
func FloatMin(min float64) Rule {
	return func(field string, values Values) string {
		v := strings.TrimSpace(values[field])
		if v == "" {
			return ""
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Sprintf("%s must be a number", field)
		}
		if n < min {
			return fmt.Sprintf("%s must be at least %g", field, min)
		}
		return ""
	}
}

// OneOf restricts the value to a fixed set.
func OneOf(allowed ...string) Rule {
	return func(field string, values Values) string {
		v := strings.TrimSpace(values[field])
		if v == "" {
			return ""
		}
		for _, a := range allowed {
			if v == a {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of %s", field, strings.Join(allowed, ", "))
	}
}

// MatchesField requires equality with another field, e.g. password confirmation.
func MatchesField(other string) Rule {
	return func(field string, values Values) string {
		if values[field] != values[other] {
			return fmt.Sprintf("%s must match %s", field, other)
		}
		return ""
	}
}

// FutureTime requires an RFC 3339 timestamp later than now.
func FutureTime(now func() time.Time) Rule {
	return func(field string, values Values) string {
		v := strings.TrimSpace(values[field])
		if v == "" {
			return ""
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return fmt.Sprintf("%s must be a valid timestamp", field)
		}
		if !t.After(now()) {
			return fmt.Sprintf("%s must be in the future", field)
		}
		return ""
	}
}
