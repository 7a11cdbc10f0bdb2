package ir

import (
	"fmt"
	"regexp"
)

// SchemaError reports a malformed or inconsistent IR. It is fatal: the
// compiler refuses to emit anything for a schema that fails Check.
type SchemaError struct {
	IRI string // class or property the error was detected on, when known
	Msg string
}

func (e *SchemaError) Error() string {
	if e.IRI == "" {
		return "schema: " + e.Msg
	}
	return "schema: " + e.IRI + ": " + e.Msg
}

var validDatatypes = map[Datatype]struct{}{
	String: {}, Boolean: {}, Integer: {}, NonNegativeInteger: {},
	PositiveInteger: {}, Float: {}, DateTime: {}, DateTimeStamp: {}, AnyURI: {},
}

// Check verifies the internal consistency of the schema: unique class IRIs,
// resolvable parent and reference targets, acyclic inheritance, unique
// property names within each effective property set, known datatypes and
// compilable patterns. The first violation found is returned as *SchemaError.
func (s *Schema) Check() error {
	seen := make(map[string]struct{}, len(s.Classes))
	for i := range s.Classes {
		c := &s.Classes[i]
		if c.IRI == "" {
			return &SchemaError{Msg: "class with empty IRI"}
		}
		if _, dup := seen[c.IRI]; dup {
			return &SchemaError{IRI: c.IRI, Msg: "duplicate class"}
		}
		seen[c.IRI] = struct{}{}
	}
	s.byIRI = nil

	for i := range s.Classes {
		c := &s.Classes[i]
		if c.Parent != "" && s.Class(c.Parent) == nil {
			return &SchemaError{IRI: c.IRI, Msg: "unknown parent class " + c.Parent}
		}
		if err := s.checkAcyclic(c); err != nil {
			return err
		}
	}

	for i := range s.Classes {
		c := &s.Classes[i]
		names := make(map[string]struct{})
		for _, p := range s.EffectiveProperties(c) {
			if p.Name == "" {
				return &SchemaError{IRI: c.IRI, Msg: "property with empty name"}
			}
			if _, dup := names[p.Name]; dup {
				return &SchemaError{IRI: c.IRI, Msg: "duplicate property " + p.Name}
			}
			names[p.Name] = struct{}{}
		}
		for _, p := range c.Properties {
			if err := s.checkProperty(c, &p); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Schema) checkAcyclic(c *Class) error {
	slow := c
	for hops := 0; ; hops++ {
		if slow.Parent == "" {
			return nil
		}
		next := s.Class(slow.Parent)
		if next == nil {
			return nil // dangling parents are reported separately
		}
		if hops > len(s.Classes) {
			return &SchemaError{IRI: c.IRI, Msg: "inheritance cycle"}
		}
		slow = next
	}
}

func (s *Schema) checkProperty(c *Class, p *Property) error {
	at := fmt.Sprintf("%s/%s", c.IRI, p.Name)

	switch {
	case p.Class != "":
		target := s.Class(p.Class)
		if target == nil {
			return &SchemaError{IRI: at, Msg: "unknown class " + p.Class}
		}
		if p.Enum && !target.Enumerated() {
			return &SchemaError{IRI: at, Msg: "enum property targets class with no individuals"}
		}
		if p.Datatype != "" {
			return &SchemaError{IRI: at, Msg: "property has both a datatype and a class"}
		}
	case p.Datatype != "":
		if _, ok := validDatatypes[p.Datatype]; !ok {
			return &SchemaError{IRI: at, Msg: "unknown datatype " + string(p.Datatype)}
		}
	default:
		return &SchemaError{IRI: at, Msg: "property has neither a datatype nor a class"}
	}

	cs := p.Constraints
	if cs.Pattern != "" {
		if _, err := regexp.Compile(cs.Pattern); err != nil {
			return &SchemaError{IRI: at, Msg: "invalid pattern: " + err.Error()}
		}
	}
	if (cs.MinInclusive != nil || cs.MaxInclusive != nil || cs.MinExclusive != nil || cs.MaxExclusive != nil) && !p.Datatype.IsNumeric() {
		return &SchemaError{IRI: at, Msg: "numeric bounds on non-numeric datatype"}
	}
	if cs.MinInclusive != nil && cs.MinExclusive != nil {
		return &SchemaError{IRI: at, Msg: "both inclusive and exclusive minimum"}
	}
	if cs.MaxInclusive != nil && cs.MaxExclusive != nil {
		return &SchemaError{IRI: at, Msg: "both inclusive and exclusive maximum"}
	}
	return nil
}
