package objmodel

import (
	"strconv"
	"strings"
)

// Path locates a value inside a document for error reporting. It is an
// immutable chain; Push and Index return extended copies.
type Path struct {
	segments []string
}

// Push returns the path extended with a property segment.
func (p Path) Push(s string) Path {
	seg := make([]string, len(p.segments), len(p.segments)+1)
	copy(seg, p.segments)
	return Path{segments: append(seg, s)}
}

// Index returns the path extended with a list index segment.
func (p Path) Index(i int) Path {
	return p.Push("[" + strconv.Itoa(i) + "]")
}

func (p Path) String() string {
	return "." + strings.Join(p.segments, ".")
}

// ValidationError reports a constraint violation on a single property value.
type ValidationError struct {
	Property string
	Msg      string
}

func (e *ValidationError) Error() string { return e.Property + ": " + e.Msg }

// NotSetError reports a presence-demanding read of an unset property.
type NotSetError struct {
	Property string
}

func (e *NotSetError) Error() string { return e.Property + ": not set" }

// DecodeError reports malformed input encountered while decoding a document.
type DecodeError struct {
	Path Path
	Msg  string
}

func (e *DecodeError) Error() string { return e.Path.String() + ": " + e.Msg }

// ConversionError reports a failed reference cross-cast.
type ConversionError struct {
	From string
	To   string
}

func (e *ConversionError) Error() string {
	return "cannot convert reference from " + e.From + " to " + e.To
}

// ErrorHandler receives every violation found by a validation pass.
type ErrorHandler interface {
	HandleError(err error, path Path)
}

// ErrorCollector is an ErrorHandler that accumulates everything it is handed.
type ErrorCollector struct {
	Errors []error
	Paths  []Path
}

func (c *ErrorCollector) HandleError(err error, path Path) {
	c.Errors = append(c.Errors, err)
	c.Paths = append(c.Paths, path)
}
