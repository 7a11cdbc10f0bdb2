// Package ir defines the language-agnostic intermediate representation of a
// SHACL-like schema: classes, properties, datatypes, constraints and named
// individuals. It is the interchange between the loader and the code
// generators and carries no behavior beyond consistency checking.
package ir

import "sort"

// Datatype identifies a scalar value kind.
type Datatype string

const (
	String             Datatype = "string"
	Boolean            Datatype = "boolean"
	Integer            Datatype = "integer"
	NonNegativeInteger Datatype = "nonNegativeInteger"
	PositiveInteger    Datatype = "positiveInteger"
	Float              Datatype = "float"
	DateTime           Datatype = "dateTime"
	DateTimeStamp      Datatype = "dateTimeStamp"
	AnyURI             Datatype = "anyURI"
)

// IsNumeric reports whether the datatype carries a numeric value.
func (d Datatype) IsNumeric() bool {
	switch d {
	case Integer, NonNegativeInteger, PositiveInteger, Float:
		return true
	}
	return false
}

// NodeKind constrains the identity of instances of a class.
type NodeKind int

const (
	BlankNode NodeKind = iota
	IRI
	BlankNodeOrIRI
)

// Cardinality of a property slot.
type Cardinality int

const (
	Optional Cardinality = iota
	Required
	List
	// RequiredList is a list that must not be empty.
	RequiredList
)

// IsList reports whether the property holds multiple values.
func (c Cardinality) IsList() bool { return c == List || c == RequiredList }

// IsRequired reports whether validation demands a present (or non-empty) value.
func (c Cardinality) IsRequired() bool { return c == Required || c == RequiredList }

// NamedIndividual is a fixed IRI constant belonging to a class.
type NamedIndividual struct {
	Name    string // term from the context, or a label derived from the IRI
	IRI     string
	Comment string
}

// Constraints carries the optional value restrictions of a property.
// Numeric bounds are only meaningful for numeric datatypes; Pattern only for
// string-kinded ones. Nil pointers mean "not constrained".
type Constraints struct {
	Pattern      string
	MinInclusive *float64
	MaxInclusive *float64
	MinExclusive *float64
	MaxExclusive *float64
}

// Property describes one property slot owned by exactly one class.
//
// A property is either scalar (Datatype set, Class empty), a reference
// (Class set to the target class IRI, Datatype empty) or enumerated
// (Class set to an enumerated class IRI and Enum true; values are IRIs).
type Property struct {
	Name        string // context term used as the JSON-LD key
	IRI         string
	Comment     string
	Datatype    Datatype
	Class       string // IRI of the referenced class, when a reference or enum
	Enum        bool
	Cardinality Cardinality
	Constraints Constraints
}

// IsRef reports whether the property holds references to other instances.
func (p *Property) IsRef() bool { return p.Class != "" && !p.Enum }

// Class describes one node shape.
type Class struct {
	Name        string // context term, or a label derived from the IRI
	IRI         string
	Comment     string
	Parent      string // IRI of the parent class; empty at the root
	Abstract    bool
	NodeKind    NodeKind
	Properties  []Property
	Individuals []NamedIndividual
}

// Enumerated reports whether the class is closed over named individuals.
func (c *Class) Enumerated() bool { return len(c.Individuals) > 0 }

// Schema is the root of the IR: the full set of classes plus the JSON-LD
// context mapping used to compact IRIs to terms.
type Schema struct {
	Classes []Class
	// ContextURL is the URL the generated code embeds and checks on decode.
	ContextURL string
	// Terms maps an IRI to its compact term. Empty when no context document
	// was supplied.
	Terms map[string]string

	byIRI map[string]*Class
}

// Class returns the class with the given IRI, or nil.
func (s *Schema) Class(iri string) *Class {
	if s.byIRI == nil {
		s.index()
	}
	return s.byIRI[iri]
}

// Term compacts an IRI through the context, falling back to the IRI itself.
func (s *Schema) Term(iri string) string {
	if t, ok := s.Terms[iri]; ok {
		return t
	}
	return iri
}

// Sort orders classes by IRI and each class's properties and individuals by
// name so that downstream emission is deterministic.
func (s *Schema) Sort() {
	sort.Slice(s.Classes, func(i, j int) bool { return s.Classes[i].IRI < s.Classes[j].IRI })
	for i := range s.Classes {
		c := &s.Classes[i]
		sort.Slice(c.Properties, func(a, b int) bool { return c.Properties[a].Name < c.Properties[b].Name })
		sort.Slice(c.Individuals, func(a, b int) bool { return c.Individuals[a].IRI < c.Individuals[b].IRI })
	}
	s.byIRI = nil
}

// EffectiveProperties returns the union of the class's own properties and all
// of its ancestors', ancestors first. The schema must have passed Check.
func (s *Schema) EffectiveProperties(c *Class) []Property {
	var out []Property
	if c.Parent != "" {
		if p := s.Class(c.Parent); p != nil {
			out = append(out, s.EffectiveProperties(p)...)
		}
	}
	out = append(out, c.Properties...)
	return out
}

// Ancestors returns the parent chain of c, nearest first.
func (s *Schema) Ancestors(c *Class) []*Class {
	var out []*Class
	for c.Parent != "" {
		p := s.Class(c.Parent)
		if p == nil {
			break
		}
		out = append(out, p)
		c = p
	}
	return out
}

func (s *Schema) index() {
	s.byIRI = make(map[string]*Class, len(s.Classes))
	for i := range s.Classes {
		s.byIRI[s.Classes[i].IRI] = &s.Classes[i]
	}
}
