package objmodel

import "sort"

// NodeKind constrains what identity an instance may carry.
type NodeKind int

const (
	NodeKindBlankNode NodeKind = iota
	NodeKindIRI
	NodeKindBlankNodeOrIRI
)

// SHACLObject is one typed node in an object graph. Generated classes embed
// ObjectBase and extend this interface with their typed accessors.
type SHACLObject interface {
	// ID is the instance identity: an IRI or a blank node label.
	ID() PropertyInterface[string]
	// Type returns the runtime class metadata, which is the exact class the
	// instance was created as, not just a declared static type.
	Type() Type
	// TypeIRI returns the type name exactly as it appeared in the decoded
	// document, or "" for constructed instances.
	TypeIRI() string
	SetType(t Type)
	SetTypeIRI(iri string)
	Validate(path Path, handler ErrorHandler) bool
	Walk(path Path, visit Visit)
	EncodeProperties(data map[string]any, path Path, state *EncodeState) error
}

// ObjectBase carries the identity slot and runtime class tag shared by every
// generated class.
type ObjectBase struct {
	id      Property[string]
	typ     Type
	typeIRI string
}

// InitObjectBase prepares the base of a freshly constructed instance.
// Generated constructors call it before wiring their own property slots.
func InitObjectBase(o *ObjectBase) {
	o.id = NewProperty[string]("id", []Validator[string]{IDValidator{}})
}

func (o *ObjectBase) ID() PropertyInterface[string] { return &o.id }

func (o *ObjectBase) Type() Type { return o.typ }

func (o *ObjectBase) TypeIRI() string { return o.typeIRI }

func (o *ObjectBase) SetType(t Type) { o.typ = t }

func (o *ObjectBase) SetTypeIRI(iri string) { o.typeIRI = iri }

// Validate checks the identity against the class's node kind. Generated
// classes chain to it before checking their own properties.
func (o *ObjectBase) Validate(path Path, handler ErrorHandler) bool {
	kind := NodeKindBlankNodeOrIRI
	if o.typ != nil {
		kind = o.typ.NodeKind()
	}

	fail := func(msg string) bool {
		if handler != nil {
			handler.HandleError(&ValidationError{"id", msg}, path.Push("id"))
		}
		return false
	}

	switch kind {
	case NodeKindBlankNode:
		if o.id.IsSet() && !IsBlankNode(o.id.Get()) {
			return fail("id must be a blank node label")
		}
	case NodeKindIRI:
		if !o.id.IsSet() || !IsIRI(o.id.Get()) {
			return fail("id must be an IRI")
		}
	default:
		if o.id.IsSet() && !IsBlankNode(o.id.Get()) && !IsIRI(o.id.Get()) {
			return fail("id must be a blank node label or an IRI")
		}
	}
	return true
}

func (o *ObjectBase) Walk(path Path, visit Visit) {
	o.id.Walk(path, visit)
}

// EncodeProperties emits @type and @id. Generated classes chain to it before
// emitting their own set properties. An instance with no identity is given a
// fresh blank node label so references to it stay resolvable. The identity is
// never compacted: decode reads @id verbatim, so compacting it would change
// the identity across a decode/encode cycle.
func (o *ObjectBase) EncodeProperties(data map[string]any, path Path, _ *EncodeState) error {
	switch {
	case o.typeIRI != "":
		data["@type"] = o.typeIRI
	case o.typ != nil && o.typ.CompactIRI() != "":
		data["@type"] = o.typ.CompactIRI()
	case o.typ != nil:
		data["@type"] = o.typ.TypeIRI()
	}

	if !o.id.IsSet() {
		o.id.setRaw(newBlankLabel())
	}
	data["@id"] = o.id.Get()
	return nil
}

// Type is the runtime metadata for one generated class.
type Type interface {
	TypeIRI() string
	// CompactIRI is the context term for the type, or "" when none applies.
	CompactIRI() string
	NodeKind() NodeKind
	ParentIRI() string
	Abstract() bool
	// IsSubTypeOf walks the parent chain, including the type itself.
	IsSubTypeOf(iri string) bool
	// New constructs a default-valued instance of the class.
	New() SHACLObject
	// DecodeProperty routes one decoded key/value pair to the right property
	// slot, deferring reference binding through rc. It reports whether the
	// property belongs to this class or an ancestor.
	DecodeProperty(o SHACLObject, name string, value any, path Path, rc *ResolveContext) (bool, error)
}

// TypeInfo is the embeddable implementation of Type shared by generated
// class metadata.
type TypeInfo struct {
	iri      string
	compact  string
	parent   string
	nodeKind Optional[NodeKind]
	abstract bool
}

// TypeInfoConfig is the construction-time shape of a TypeInfo.
type TypeInfoConfig struct {
	IRI      string
	Compact  string
	Parent   string
	NodeKind Optional[NodeKind]
	Abstract bool
}

func NewTypeInfo(cfg TypeInfoConfig) TypeInfo {
	return TypeInfo{
		iri:      cfg.IRI,
		compact:  cfg.Compact,
		parent:   cfg.Parent,
		nodeKind: cfg.NodeKind,
		abstract: cfg.Abstract,
	}
}

func (t TypeInfo) TypeIRI() string { return t.iri }

func (t TypeInfo) CompactIRI() string { return t.compact }

func (t TypeInfo) ParentIRI() string { return t.parent }

func (t TypeInfo) Abstract() bool { return t.abstract }

// NodeKind returns the class's node kind, inheriting the parent's when not
// declared locally.
func (t TypeInfo) NodeKind() NodeKind {
	if t.nodeKind.IsSet() {
		return t.nodeKind.Get()
	}
	if t.parent != "" {
		if p, ok := LookupType(t.parent); ok {
			return p.NodeKind()
		}
	}
	return NodeKindBlankNodeOrIRI
}

func (t TypeInfo) IsSubTypeOf(iri string) bool {
	if t.iri == iri {
		return true
	}
	parent := t.parent
	for parent != "" {
		p, ok := LookupType(parent)
		if !ok {
			return false
		}
		if p.TypeIRI() == iri {
			return true
		}
		parent = p.ParentIRI()
	}
	return false
}

// DecodeProperty handles @id and delegates everything else up the parent
// chain. Generated types handle their own properties first and fall through
// to this.
func (t TypeInfo) DecodeProperty(o SHACLObject, name string, value any, path Path, rc *ResolveContext) (bool, error) {
	if name == "@id" {
		s, err := DecodeString(value, path.Push(name), rc)
		if err != nil {
			return false, err
		}
		o.ID().(*Property[string]).setRaw(s)
		return true, nil
	}

	if t.parent != "" {
		if p, ok := LookupType(t.parent); ok {
			return p.DecodeProperty(o, name, value, path, rc)
		}
	}
	return false, nil
}

var typeRegistry = map[string]Type{}

// RegisterType makes a class known to decode, keyed by its type IRI and,
// when present, its compact term. Generated packages register every class in
// init().
func RegisterType(t Type) {
	typeRegistry[t.TypeIRI()] = t
	if c := t.CompactIRI(); c != "" {
		typeRegistry[c] = t
	}
}

// LookupType resolves a type IRI or compact term to class metadata.
func LookupType(iri string) (Type, bool) {
	t, ok := typeRegistry[iri]
	return t, ok
}

// RegisteredTypeIRIs returns the full type IRIs known to the registry in
// sorted order.
func RegisteredTypeIRIs() []string {
	var out []string
	for k, t := range typeRegistry {
		if k == t.TypeIRI() {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
