package objmodel

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// IsBlankNode reports whether s is a document-local blank node label.
func IsBlankNode(s string) bool { return strings.HasPrefix(s, "_:") }

// IsIRI reports whether s looks like an absolute IRI: a valid scheme followed
// by a colon. Blank node labels are not IRIs.
func IsIRI(s string) bool {
	if IsBlankNode(s) {
		return false
	}
	i := strings.IndexByte(s, ':')
	if i <= 0 {
		return false
	}
	for pos, r := range s[:i] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case pos > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// Validator checks one candidate value for a named property.
type Validator[T any] interface {
	Check(value T, name string) error
}

// IDValidator accepts IRIs and blank node labels.
type IDValidator struct{}

func (IDValidator) Check(value string, name string) error {
	if !IsIRI(value) && !IsBlankNode(value) {
		return &ValidationError{name, "must be an IRI or a blank node label"}
	}
	return nil
}

// Patternable enumerates the value kinds a pattern constraint can apply to.
type Patternable interface {
	~int | ~string | time.Time
}

// RegexValidator checks a value against an anchored regular expression: the
// whole rendered value must match, not just a substring.
type RegexValidator[T Patternable] struct {
	re *regexp.Regexp
}

// NewRegexValidator compiles pattern anchored at both ends. The pattern must
// be valid; schema checking guarantees this for generated code.
func NewRegexValidator[T Patternable](pattern string) RegexValidator[T] {
	return RegexValidator[T]{re: regexp.MustCompile("^(?:" + pattern + ")$")}
}

func (v RegexValidator[T]) Check(value T, name string) error {
	s := renderValue(any(value))
	if !v.re.MatchString(s) {
		return &ValidationError{name, "value '" + s + "' does not match pattern"}
	}
	return nil
}

func renderValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case time.Time:
		return EncodeDateTime(x)
	}
	return ""
}

// IntegerMinValidator enforces an inclusive lower bound. Exclusive schema
// bounds are normalized to inclusive ones at generation time.
type IntegerMinValidator struct {
	Min int
}

func (v IntegerMinValidator) Check(value int, name string) error {
	if value < v.Min {
		return &ValidationError{name, "value " + strconv.Itoa(value) + " is less than minimum " + strconv.Itoa(v.Min)}
	}
	return nil
}

// IntegerMaxValidator enforces an inclusive upper bound.
type IntegerMaxValidator struct {
	Max int
}

func (v IntegerMaxValidator) Check(value int, name string) error {
	if value > v.Max {
		return &ValidationError{name, "value " + strconv.Itoa(value) + " is greater than maximum " + strconv.Itoa(v.Max)}
	}
	return nil
}

// FloatMinValidator enforces a lower bound, exclusive when Exclusive is set.
type FloatMinValidator struct {
	Min       float64
	Exclusive bool
}

func (v FloatMinValidator) Check(value float64, name string) error {
	if value < v.Min || (v.Exclusive && value == v.Min) {
		return &ValidationError{name, "value " + formatFloat(value) + " is below minimum " + formatFloat(v.Min)}
	}
	return nil
}

// FloatMaxValidator enforces an upper bound, exclusive when Exclusive is set.
type FloatMaxValidator struct {
	Max       float64
	Exclusive bool
}

func (v FloatMaxValidator) Check(value float64, name string) error {
	if value > v.Max || (v.Exclusive && value == v.Max) {
		return &ValidationError{name, "value " + formatFloat(value) + " is above maximum " + formatFloat(v.Max)}
	}
	return nil
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// EnumValidator restricts a value to a class's declared named individuals.
// Values compare as IRIs.
type EnumValidator struct {
	Values []string
}

func (v EnumValidator) Check(value string, name string) error {
	for _, ok := range v.Values {
		if value == ok {
			return nil
		}
	}
	return &ValidationError{name, "value '" + value + "' is not a valid enumerated value"}
}
