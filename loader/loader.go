// Package loader reads a JSON-LD shape document, plus an optional context
// document, and produces the ir.Schema the generators consume.
//
// The shape vocabulary is the usual SHACL subset: owl:Class nodes carrying
// sh:property shapes (sh:path, sh:datatype, sh:class, sh:nodeKind,
// sh:minCount, sh:maxCount, sh:pattern and the four numeric range facets),
// rdfs:subClassOf for inheritance and owl:NamedIndividual for enumeration
// members. A class is abstract when it also carries the AbstractClass marker
// type.
package loader

import (
	"fmt"
	"io"
	"os"

	gojson "github.com/goccy/go-json"
	ld "github.com/piprate/json-gold/ld"

	"github.com/ontoforge/shaclgen/ir"
)

const (
	rdfsComment    = "http://www.w3.org/2000/01/rdf-schema#comment"
	rdfsSubClassOf = "http://www.w3.org/2000/01/rdf-schema#subClassOf"

	owlClass           = "http://www.w3.org/2002/07/owl#Class"
	owlNamedIndividual = "http://www.w3.org/2002/07/owl#NamedIndividual"

	shProperty     = "http://www.w3.org/ns/shacl#property"
	shPath         = "http://www.w3.org/ns/shacl#path"
	shDatatype     = "http://www.w3.org/ns/shacl#datatype"
	shClass        = "http://www.w3.org/ns/shacl#class"
	shNodeKind     = "http://www.w3.org/ns/shacl#nodeKind"
	shName         = "http://www.w3.org/ns/shacl#name"
	shMinCount     = "http://www.w3.org/ns/shacl#minCount"
	shMaxCount     = "http://www.w3.org/ns/shacl#maxCount"
	shPattern      = "http://www.w3.org/ns/shacl#pattern"
	shMinInclusive = "http://www.w3.org/ns/shacl#minInclusive"
	shMaxInclusive = "http://www.w3.org/ns/shacl#maxInclusive"
	shMinExclusive = "http://www.w3.org/ns/shacl#minExclusive"
	shMaxExclusive = "http://www.w3.org/ns/shacl#maxExclusive"

	shKindBlankNode      = "http://www.w3.org/ns/shacl#BlankNode"
	shKindIRI            = "http://www.w3.org/ns/shacl#IRI"
	shKindBlankNodeOrIRI = "http://www.w3.org/ns/shacl#BlankNodeOrIRI"

	// AbstractClassIRI marks a class that must not be instantiated directly.
	AbstractClassIRI = "https://shaclgen.dev/ns#AbstractClass"
)

var xsdDatatypes = map[string]ir.Datatype{
	"http://www.w3.org/2001/XMLSchema#string":             ir.String,
	"http://www.w3.org/2001/XMLSchema#boolean":            ir.Boolean,
	"http://www.w3.org/2001/XMLSchema#integer":            ir.Integer,
	"http://www.w3.org/2001/XMLSchema#nonNegativeInteger": ir.NonNegativeInteger,
	"http://www.w3.org/2001/XMLSchema#positiveInteger":    ir.PositiveInteger,
	"http://www.w3.org/2001/XMLSchema#decimal":            ir.Float,
	"http://www.w3.org/2001/XMLSchema#float":              ir.Float,
	"http://www.w3.org/2001/XMLSchema#double":             ir.Float,
	"http://www.w3.org/2001/XMLSchema#dateTime":           ir.DateTime,
	"http://www.w3.org/2001/XMLSchema#dateTimeStamp":      ir.DateTimeStamp,
	"http://www.w3.org/2001/XMLSchema#anyURI":             ir.AnyURI,
}

// Input names the documents one Load call reads.
type Input struct {
	// ShapesPath is the JSON-LD shape document. Required.
	ShapesPath string
	// ContextPath is an optional JSON-LD context document providing the
	// IRI-to-term compaction the generated code uses.
	ContextPath string
	// ContextURL is the URL the generated code embeds and requires as the
	// "@context" of documents it decodes. Usually the published location of
	// the ContextPath document.
	ContextURL string
}

// Load reads the named documents and builds the schema.
func Load(in Input) (*ir.Schema, error) {
	shapes, err := os.Open(in.ShapesPath)
	if err != nil {
		return nil, err
	}
	defer shapes.Close()

	var context io.Reader
	if in.ContextPath != "" {
		f, err := os.Open(in.ContextPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		context = f
	}
	return Parse(shapes, context, in.ContextURL)
}

// Parse builds the schema from already-open documents. context may be nil.
func Parse(shapes io.Reader, context io.Reader, contextURL string) (*ir.Schema, error) {
	var doc any
	if err := gojson.NewDecoder(shapes).Decode(&doc); err != nil {
		return nil, fmt.Errorf("malformed shape document: %w", err)
	}

	proc := ld.NewJsonLdProcessor()
	expanded, err := proc.Expand(doc, ld.NewJsonLdOptions(""))
	if err != nil {
		return nil, fmt.Errorf("expanding shape document: %w", err)
	}

	terms := map[string]string{}
	if context != nil {
		terms, err = parseContext(context)
		if err != nil {
			return nil, err
		}
	}

	b := &builder{
		schema:  &ir.Schema{ContextURL: contextURL, Terms: terms},
		nodes:   make(map[string]map[string]any),
		ordered: make(map[string]bool),
	}
	for _, n := range expanded {
		node, ok := n.(map[string]any)
		if !ok {
			continue
		}
		b.index(node)
	}
	if err := b.build(); err != nil {
		return nil, err
	}
	return b.schema, nil
}

type builder struct {
	schema  *ir.Schema
	nodes   map[string]map[string]any
	order   []string // class IRIs in document order
	ordered map[string]bool
}

// index registers a top-level node and recursively any identified nodes
// nested inside it, so @id references to property shapes resolve. An @id can
// appear both as a bare reference stub and as the full node; the node with
// more keys wins, whichever order the document presents them in.
func (b *builder) index(node map[string]any) {
	if id := nodeID(node); id != "" {
		if prev, seen := b.nodes[id]; !seen || len(node) > len(prev) {
			b.nodes[id] = node
		}
		if hasType(node, owlClass) && !b.ordered[id] {
			b.ordered[id] = true
			b.order = append(b.order, id)
		}
	}
	for _, v := range node {
		lst, ok := v.([]any)
		if !ok {
			continue
		}
		for _, item := range lst {
			if m, ok := item.(map[string]any); ok {
				b.index(m)
			}
		}
	}
}

func (b *builder) build() error {
	classIRIs := make(map[string]bool, len(b.order))
	for _, iri := range b.order {
		classIRIs[iri] = true
	}

	for _, iri := range b.order {
		node := b.nodes[iri]
		c, err := b.class(iri, node)
		if err != nil {
			return err
		}
		b.schema.Classes = append(b.schema.Classes, c)
	}

	// Named individuals attach to the class named by their other rdf type.
	for id, node := range b.nodes {
		if !hasType(node, owlNamedIndividual) {
			continue
		}
		for _, t := range nodeTypes(node) {
			if !classIRIs[t] {
				continue
			}
			c := b.schema.Class(t)
			c.Individuals = append(c.Individuals, ir.NamedIndividual{
				Name:    b.name(id),
				IRI:     id,
				Comment: firstValueString(node, rdfsComment),
			})
		}
	}

	// A reference to a class closed over named individuals is an enum.
	for i := range b.schema.Classes {
		c := &b.schema.Classes[i]
		for j := range c.Properties {
			p := &c.Properties[j]
			if p.Class == "" {
				continue
			}
			if t := b.schema.Class(p.Class); t != nil && t.Enumerated() {
				p.Enum = true
			}
		}
	}

	b.schema.Sort()
	return nil
}

func (b *builder) class(iri string, node map[string]any) (ir.Class, error) {
	c := ir.Class{
		Name:     b.name(iri),
		IRI:      iri,
		Comment:  firstValueString(node, rdfsComment),
		Abstract: hasType(node, AbstractClassIRI),
		NodeKind: ir.BlankNodeOrIRI,
	}

	if parent, ok := firstID(node, rdfsSubClassOf); ok {
		c.Parent = parent
	}

	if kind, ok := firstID(node, shNodeKind); ok {
		switch kind {
		case shKindBlankNode:
			c.NodeKind = ir.BlankNode
		case shKindIRI:
			c.NodeKind = ir.IRI
		case shKindBlankNodeOrIRI:
			c.NodeKind = ir.BlankNodeOrIRI
		default:
			return c, fmt.Errorf("class %s: unknown node kind %s", iri, kind)
		}
	}

	for _, v := range listValues(node, shProperty) {
		shape, ok := b.resolve(v)
		if !ok {
			return c, fmt.Errorf("class %s: unresolvable property shape", iri)
		}
		p, err := b.property(iri, shape)
		if err != nil {
			return c, err
		}
		c.Properties = append(c.Properties, p)
	}
	return c, nil
}

func (b *builder) property(class string, shape map[string]any) (ir.Property, error) {
	path, ok := firstID(shape, shPath)
	if !ok {
		return ir.Property{}, fmt.Errorf("class %s: property shape without sh:path", class)
	}

	p := ir.Property{
		Name:    firstValueString(shape, shName),
		IRI:     path,
		Comment: firstValueString(shape, rdfsComment),
	}
	if p.Name == "" {
		p.Name = b.name(path)
	}

	if dt, ok := firstID(shape, shDatatype); ok {
		d, known := xsdDatatypes[dt]
		if !known {
			return p, fmt.Errorf("property %s: unsupported datatype %s", path, dt)
		}
		p.Datatype = d
	}
	if cls, ok := firstID(shape, shClass); ok {
		p.Class = cls
	}

	minCount, hasMin := firstValueInt(shape, shMinCount)
	maxCount, hasMax := firstValueInt(shape, shMaxCount)
	switch {
	case hasMax && maxCount == 1 && hasMin && minCount >= 1:
		p.Cardinality = ir.Required
	case hasMax && maxCount == 1:
		p.Cardinality = ir.Optional
	case hasMin && minCount >= 1:
		p.Cardinality = ir.RequiredList
	default:
		p.Cardinality = ir.List
	}

	p.Constraints.Pattern = firstValueString(shape, shPattern)
	p.Constraints.MinInclusive = firstValueFloat(shape, shMinInclusive)
	p.Constraints.MaxInclusive = firstValueFloat(shape, shMaxInclusive)
	p.Constraints.MinExclusive = firstValueFloat(shape, shMinExclusive)
	p.Constraints.MaxExclusive = firstValueFloat(shape, shMaxExclusive)
	return p, nil
}

// resolve turns one sh:property value into its shape node: nested shapes are
// used directly, bare @id references go through the document index.
func (b *builder) resolve(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	if len(m) == 1 {
		if id := nodeID(m); id != "" {
			if full, ok := b.nodes[id]; ok {
				return full, true
			}
		}
	}
	return m, true
}

// name compacts an IRI to its context term, falling back to the IRI itself;
// the generators derive identifiers from either form.
func (b *builder) name(iri string) string {
	if t, ok := b.schema.Terms[iri]; ok {
		return t
	}
	return iri
}

// parseContext reads a JSON-LD context document and inverts its term
// mapping. Terms mapping to objects use the object's @id.
func parseContext(r io.Reader) (map[string]string, error) {
	var doc map[string]any
	if err := gojson.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("malformed context document: %w", err)
	}
	ctx, ok := doc["@context"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("context document has no '@context' object")
	}

	terms := make(map[string]string, len(ctx))
	for term, v := range ctx {
		if term == "@vocab" || len(term) > 0 && term[0] == '@' {
			continue
		}
		switch x := v.(type) {
		case string:
			terms[x] = term
		case map[string]any:
			if id, ok := x["@id"].(string); ok {
				terms[id] = term
			}
		}
	}
	return terms, nil
}

func nodeID(n map[string]any) string {
	id, _ := n["@id"].(string)
	return id
}

func nodeTypes(n map[string]any) []string {
	var out []string
	lst, _ := n["@type"].([]any)
	for _, t := range lst {
		if s, ok := t.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func hasType(n map[string]any, iri string) bool {
	for _, t := range nodeTypes(n) {
		if t == iri {
			return true
		}
	}
	return false
}

func listValues(n map[string]any, pred string) []any {
	lst, _ := n[pred].([]any)
	return lst
}

func firstID(n map[string]any, pred string) (string, bool) {
	for _, v := range listValues(n, pred) {
		if m, ok := v.(map[string]any); ok {
			if id := nodeID(m); id != "" {
				return id, true
			}
		}
	}
	return "", false
}

func firstValue(n map[string]any, pred string) (any, bool) {
	for _, v := range listValues(n, pred) {
		if m, ok := v.(map[string]any); ok {
			if val, ok := m["@value"]; ok {
				return val, true
			}
		}
	}
	return nil, false
}

func firstValueString(n map[string]any, pred string) string {
	v, ok := firstValue(n, pred)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func firstValueInt(n map[string]any, pred string) (int, bool) {
	v, ok := firstValue(n, pred)
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		return int(x), true
	case int:
		return x, true
	case string:
		var i int
		if _, err := fmt.Sscanf(x, "%d", &i); err == nil {
			return i, true
		}
	}
	return 0, false
}

func firstValueFloat(n map[string]any, pred string) *float64 {
	v, ok := firstValue(n, pred)
	if !ok {
		return nil
	}
	switch x := v.(type) {
	case float64:
		return &x
	case int:
		f := float64(x)
		return &f
	case string:
		var f float64
		if _, err := fmt.Sscanf(x, "%g", &f); err == nil {
			return &f
		}
	}
	return nil
}
