package gen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ontoforge/shaclgen/ir"
)

// Options tunes an emission. The zero value is usable.
type Options struct {
	// Package is the emitted package name. Defaults to "model".
	Package string
	// RuntimeImport is the import path of the runtime the emitted code builds
	// on. Defaults to the objmodel package of this module.
	RuntimeImport string
}

const defaultRuntimeImport = "github.com/ontoforge/shaclgen/objmodel"

func (o Options) withDefaults() Options {
	if o.Package == "" {
		o.Package = "model"
	}
	if o.RuntimeImport == "" {
		o.RuntimeImport = defaultRuntimeImport
	}
	return o
}

// Target renders a checked, sorted schema into one source file.
type Target interface {
	Name() string
	Emit(schema *ir.Schema, opts Options) ([]byte, error)
}

// Golang returns the Go target.
func Golang() Target { return golangTarget{} }

type golangTarget struct{}

func (golangTarget) Name() string { return "golang" }

// classNames holds the precomputed identifiers of one class.
type classNames struct {
	iface     string // exported accessor interface, e.g. TestClass
	object    string // exported backing struct, e.g. TestClassObject
	typeVar   string // unexported metadata var, e.g. testClassType
	typeType  string // unexported metadata struct, e.g. testClassObjectType
	construct string // exported construct func, e.g. ConstructTestClassObject
}

func namesFor(c *ir.Class) classNames {
	n := exportName(c.Name)
	return classNames{
		iface:     n,
		object:    n + "Object",
		typeVar:   fieldName(c.Name) + "Type",
		typeType:  fieldName(c.Name) + "ObjectType",
		construct: "Construct" + n + "Object",
	}
}

// propPlan holds everything emission needs to know about one property.
type propPlan struct {
	p          *ir.Property
	field      string
	accessor   string
	goType     string // element type for lists
	decodeFn   string
	encodeFn   string
	validators []string
	refIface   string // target interface name when a reference
	refTypeVar string // target metadata var when a reference
}

type emitter struct {
	w      *writer
	schema *ir.Schema
	opts   Options
	names  map[string]classNames // keyed by class IRI
}

func (golangTarget) Emit(schema *ir.Schema, opts Options) ([]byte, error) {
	e := &emitter{
		w:      &writer{},
		schema: schema,
		opts:   opts.withDefaults(),
		names:  make(map[string]classNames, len(schema.Classes)),
	}
	for i := range schema.Classes {
		c := &schema.Classes[i]
		e.names[c.IRI] = namesFor(c)
	}
	if err := e.file(); err != nil {
		return nil, err
	}
	return e.w.bytes(), nil
}

func (e *emitter) file() error {
	w := e.w
	w.line("// Code generated by shaclgen. DO NOT EDIT.")
	w.blank()
	w.linef("package %s", e.opts.Package)
	w.blank()
	w.block("import (", ")", func() {
		if e.needsTime() {
			w.line(quote("time"))
			w.blank()
		}
		w.linef("objmodel %s", quote(e.opts.RuntimeImport))
	})
	w.blank()

	e.contextBlock()

	for i := range e.schema.Classes {
		if err := e.class(&e.schema.Classes[i]); err != nil {
			return err
		}
	}

	e.initBlock()
	return nil
}

func (e *emitter) needsTime() bool {
	for i := range e.schema.Classes {
		for _, p := range e.schema.Classes[i].Properties {
			if p.Datatype == ir.DateTime || p.Datatype == ir.DateTimeStamp {
				return true
			}
		}
	}
	return false
}

func (e *emitter) contextBlock() {
	w := e.w
	if len(e.schema.Terms) > 0 {
		w.line("// contextTerms maps full IRIs to their compact context terms.")
		w.block("var contextTerms = map[string]string{", "}", func() {
			for _, iri := range sortedTermIRIs(e.schema.Terms) {
				w.linef("%s: %s,", quote(iri), quote(e.schema.Terms[iri]))
			}
		})
		w.blank()
	}

	w.line("// NewSHACLObjectSet returns an empty object set bound to this model's")
	w.line("// context.")
	w.block("func NewSHACLObjectSet() objmodel.SHACLObjectSet {", "}", func() {
		w.block("return objmodel.NewObjectSet(objmodel.ObjectSetConfig{", "})", func() {
			w.linef("ContextURL: %s,", quote(e.schema.ContextURL))
			if len(e.schema.Terms) > 0 {
				w.line("Terms:      contextTerms,")
			}
		})
	})
	w.blank()
}

func (e *emitter) initBlock() {
	w := e.w
	w.block("func init() {", "}", func() {
		for i := range e.schema.Classes {
			w.linef("objmodel.RegisterType(%s)", e.names[e.schema.Classes[i].IRI].typeVar)
		}
	})
}

func (e *emitter) class(c *ir.Class) error {
	n := e.names[c.IRI]

	plans := make([]propPlan, 0, len(c.Properties))
	for i := range c.Properties {
		plan, err := e.planProperty(&c.Properties[i])
		if err != nil {
			return fmt.Errorf("%s: %w", c.IRI, err)
		}
		plans = append(plans, plan)
	}

	e.individuals(c, n)
	e.objectStruct(c, n, plans)
	e.typeMetadata(c, n, plans)
	e.interfaceDecl(c, n, plans)
	e.constructor(c, n, plans)
	e.accessors(n, plans)
	if len(plans) > 0 {
		e.validate(c, n, plans)
		e.walk(c, n, plans)
		e.encodeProperties(c, n, plans)
	}
	e.makers(c, n)
	return nil
}

func (e *emitter) planProperty(p *ir.Property) (propPlan, error) {
	plan := propPlan{
		p:        p,
		field:    fieldName(p.Name),
		accessor: exportName(p.Name),
	}

	if p.IsRef() {
		tn, ok := e.names[p.Class]
		if !ok {
			return plan, fmt.Errorf("property %s references unknown class %s", p.Name, p.Class)
		}
		plan.refIface = tn.iface
		plan.refTypeVar = tn.typeVar
		return plan, nil
	}

	if p.Enum {
		if _, ok := e.names[p.Class]; !ok {
			return plan, fmt.Errorf("property %s references unknown class %s", p.Name, p.Class)
		}
		target := e.schema.Class(p.Class)
		values := make([]string, 0, len(target.Individuals))
		for _, ind := range target.Individuals {
			values = append(values, quote(ind.IRI))
		}
		plan.goType = "string"
		plan.decodeFn = "objmodel.DecodeIRI"
		plan.encodeFn = "objmodel.EncodeIRI"
		plan.validators = append(plan.validators,
			"objmodel.EnumValidator{Values: []string{"+strings.Join(values, ", ")+"}}")
		return plan, nil
	}

	switch p.Datatype {
	case ir.String, ir.AnyURI:
		plan.goType = "string"
		plan.decodeFn = "objmodel.DecodeString"
		plan.encodeFn = "objmodel.EncodeString"
	case ir.Boolean:
		plan.goType = "bool"
		plan.decodeFn = "objmodel.DecodeBoolean"
		plan.encodeFn = "objmodel.EncodeBoolean"
	case ir.Integer, ir.NonNegativeInteger, ir.PositiveInteger:
		plan.goType = "int"
		plan.decodeFn = "objmodel.DecodeInteger"
		plan.encodeFn = "objmodel.EncodeInteger"
	case ir.Float:
		plan.goType = "float64"
		plan.decodeFn = "objmodel.DecodeFloat"
		plan.encodeFn = "objmodel.EncodeFloat"
	case ir.DateTime:
		plan.goType = "time.Time"
		plan.decodeFn = "objmodel.DecodeDateTime"
		plan.encodeFn = "objmodel.EncodeDateTimeProp"
	case ir.DateTimeStamp:
		plan.goType = "time.Time"
		plan.decodeFn = "objmodel.DecodeDateTimeStamp"
		plan.encodeFn = "objmodel.EncodeDateTimeProp"
	default:
		return plan, fmt.Errorf("property %s has unsupported datatype %q", p.Name, p.Datatype)
	}

	plan.validators = scalarValidators(p, plan.goType)
	return plan, nil
}

// scalarValidators builds the validator expressions for one scalar property,
// in a fixed order: datatype-implied bounds, declared bounds, pattern.
func scalarValidators(p *ir.Property, goType string) []string {
	var out []string
	cs := p.Constraints

	switch p.Datatype {
	case ir.NonNegativeInteger:
		out = append(out, "objmodel.IntegerMinValidator{Min: 0}")
	case ir.PositiveInteger:
		out = append(out, "objmodel.IntegerMinValidator{Min: 1}")
	}

	if goType == "int" {
		if cs.MinInclusive != nil {
			out = append(out, fmt.Sprintf("objmodel.IntegerMinValidator{Min: %d}", int(*cs.MinInclusive)))
		}
		if cs.MinExclusive != nil {
			out = append(out, fmt.Sprintf("objmodel.IntegerMinValidator{Min: %d}", int(*cs.MinExclusive)+1))
		}
		if cs.MaxInclusive != nil {
			out = append(out, fmt.Sprintf("objmodel.IntegerMaxValidator{Max: %d}", int(*cs.MaxInclusive)))
		}
		if cs.MaxExclusive != nil {
			out = append(out, fmt.Sprintf("objmodel.IntegerMaxValidator{Max: %d}", int(*cs.MaxExclusive)-1))
		}
	}
	if goType == "float64" {
		if cs.MinInclusive != nil {
			out = append(out, fmt.Sprintf("objmodel.FloatMinValidator{Min: %s}", formatBound(*cs.MinInclusive)))
		}
		if cs.MinExclusive != nil {
			out = append(out, fmt.Sprintf("objmodel.FloatMinValidator{Min: %s, Exclusive: true}", formatBound(*cs.MinExclusive)))
		}
		if cs.MaxInclusive != nil {
			out = append(out, fmt.Sprintf("objmodel.FloatMaxValidator{Max: %s}", formatBound(*cs.MaxInclusive)))
		}
		if cs.MaxExclusive != nil {
			out = append(out, fmt.Sprintf("objmodel.FloatMaxValidator{Max: %s, Exclusive: true}", formatBound(*cs.MaxExclusive)))
		}
	}

	if cs.Pattern != "" {
		out = append(out, fmt.Sprintf("objmodel.NewRegexValidator[%s](%s)", goType, quote(cs.Pattern)))
	}
	return out
}

func (e *emitter) comment(text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if line == "" {
			e.w.line("//")
		} else {
			e.w.line("// " + line)
		}
	}
}

func (e *emitter) individuals(c *ir.Class, n classNames) {
	if len(c.Individuals) == 0 {
		return
	}
	w := e.w
	w.linef("// Named individuals of %s.", c.IRI)
	w.block("const (", ")", func() {
		for _, ind := range c.Individuals {
			if ind.Comment != "" {
				e.comment(ind.Comment)
			}
			w.linef("%s%s = %s", n.iface, exportName(ind.Name), quote(ind.IRI))
		}
	})
	w.blank()
}

func (e *emitter) objectStruct(c *ir.Class, n classNames, plans []propPlan) {
	w := e.w
	w.linef("// %s is the concrete backing type for %s.", n.object, n.iface)
	w.block(fmt.Sprintf("type %s struct {", n.object), "}", func() {
		if c.Parent != "" {
			w.line(e.names[c.Parent].object)
		} else {
			w.line("objmodel.ObjectBase")
		}
		if len(plans) > 0 {
			w.blank()
			for _, plan := range plans {
				w.linef("%s %s", plan.field, e.slotType(plan))
			}
		}
	})
	w.blank()
}

// slotType is the struct field type for one property.
func (e *emitter) slotType(plan propPlan) string {
	list := plan.p.Cardinality.IsList()
	if plan.refIface != "" {
		if list {
			return "objmodel.RefListProperty[" + plan.refIface + "]"
		}
		return "objmodel.RefProperty[" + plan.refIface + "]"
	}
	if list {
		return "objmodel.ListProperty[" + plan.goType + "]"
	}
	return "objmodel.Property[" + plan.goType + "]"
}

// accessorType is the interface type a property accessor returns.
func (e *emitter) accessorType(plan propPlan) string {
	list := plan.p.Cardinality.IsList()
	if plan.refIface != "" {
		if list {
			return "objmodel.RefListPropertyInterface[" + plan.refIface + "]"
		}
		return "objmodel.RefPropertyInterface[" + plan.refIface + "]"
	}
	if list {
		return "objmodel.ListPropertyInterface[" + plan.goType + "]"
	}
	return "objmodel.PropertyInterface[" + plan.goType + "]"
}

func (e *emitter) typeMetadata(c *ir.Class, n classNames, plans []propPlan) {
	w := e.w
	w.block(fmt.Sprintf("type %s struct {", n.typeType), "}", func() {
		w.line("objmodel.TypeInfo")
	})
	w.blank()

	w.block(fmt.Sprintf("var %s = %s{objmodel.NewTypeInfo(objmodel.TypeInfoConfig{", n.typeVar, n.typeType), "})}", func() {
		w.linef("IRI:      %s,", quote(c.IRI))
		if term := e.schema.Term(c.IRI); term != c.IRI {
			w.linef("Compact:  %s,", quote(term))
		}
		if c.Parent != "" {
			w.linef("Parent:   %s,", quote(c.Parent))
		}
		w.linef("NodeKind: objmodel.NewOptional(%s),", nodeKindExpr(c.NodeKind))
		if c.Abstract {
			w.line("Abstract: true,")
		}
	})
	w.blank()

	if c.Abstract {
		w.linef("func (t %s) New() objmodel.SHACLObject { return nil }", n.typeType)
	} else {
		w.block(fmt.Sprintf("func (t %s) New() objmodel.SHACLObject {", n.typeType), "}", func() {
			w.linef("return %s(&%s{}, t)", n.construct, n.object)
		})
	}
	w.blank()

	if len(plans) > 0 {
		e.decodeProperty(c, n, plans)
	}
}

func nodeKindExpr(k ir.NodeKind) string {
	switch k {
	case ir.BlankNode:
		return "objmodel.NodeKindBlankNode"
	case ir.IRI:
		return "objmodel.NodeKindIRI"
	default:
		return "objmodel.NodeKindBlankNodeOrIRI"
	}
}

func (e *emitter) decodeProperty(c *ir.Class, n classNames, plans []propPlan) {
	w := e.w
	sig := fmt.Sprintf("func (t %s) DecodeProperty(o objmodel.SHACLObject, name string, value any, path objmodel.Path, rc *objmodel.ResolveContext) (bool, error) {", n.typeType)
	w.block(sig, "}", func() {
		w.linef("obj := o.(%s)", n.iface)
		w.line("switch name {")
		for _, plan := range plans {
			p := plan.p
			if term := e.schema.Term(p.IRI); term != p.IRI {
				w.linef("case %s, %s:", quote(p.IRI), quote(term))
			} else {
				w.linef("case %s:", quote(p.IRI))
			}
			w.in()
			w.linef("return true, %s", e.decodeCall(plan))
			w.out()
		}
		w.line("}")
		w.line("return t.TypeInfo.DecodeProperty(o, name, value, path, rc)")
	})
	w.blank()
}

func (e *emitter) decodeCall(plan propPlan) string {
	acc := "obj." + plan.accessor + "()"
	list := plan.p.Cardinality.IsList()
	if plan.refIface != "" {
		fn := "objmodel.DecodeRefProperty"
		if list {
			fn = "objmodel.DecodeRefListProperty"
		}
		return fmt.Sprintf("%s(%s, value, path, rc, %s)", fn, acc, plan.refTypeVar)
	}
	fn := "objmodel.DecodeScalarProperty"
	if list {
		fn = "objmodel.DecodeListProperty"
	}
	return fmt.Sprintf("%s(%s, value, path, rc, %s)", fn, acc, plan.decodeFn)
}

func (e *emitter) interfaceDecl(c *ir.Class, n classNames, plans []propPlan) {
	w := e.w
	if c.Comment != "" {
		e.comment(c.Comment)
	} else {
		w.linef("// %s is the accessor interface for %s.", n.iface, c.IRI)
	}
	w.block(fmt.Sprintf("type %s interface {", n.iface), "}", func() {
		if c.Parent != "" {
			w.line(e.names[c.Parent].iface)
		} else {
			w.line("objmodel.SHACLObject")
		}
		if len(plans) > 0 {
			w.blank()
			for _, plan := range plans {
				if plan.p.Comment != "" {
					e.comment(plan.p.Comment)
				}
				w.linef("%s() %s", plan.accessor, e.accessorType(plan))
			}
		}
	})
	w.blank()
}

func (e *emitter) constructor(c *ir.Class, n classNames, plans []propPlan) {
	w := e.w
	w.linef("// %s wires the property slots of a freshly allocated instance.", n.construct)
	w.block(fmt.Sprintf("func %s(o *%s, typ objmodel.Type) *%s {", n.construct, n.object, n.object), "}", func() {
		if c.Parent != "" {
			pn := e.names[c.Parent]
			w.linef("%s(&o.%s, typ)", pn.construct, pn.object)
		} else {
			w.line("objmodel.InitObjectBase(&o.ObjectBase)")
			w.line("o.SetType(typ)")
		}
		for _, plan := range plans {
			e.slotInit(plan)
		}
		w.line("return o")
	})
	w.blank()
}

func (e *emitter) slotInit(plan propPlan) {
	w := e.w
	p := plan.p
	list := p.Cardinality.IsList()

	ctor := "objmodel.NewProperty[" + plan.goType + "]"
	if plan.refIface != "" {
		ctor = "objmodel.NewRefProperty[" + plan.refIface + "]"
		if list {
			ctor = "objmodel.NewRefListProperty[" + plan.refIface + "]"
		}
	} else if list {
		ctor = "objmodel.NewListProperty[" + plan.goType + "]"
	}

	switch len(plan.validators) {
	case 0:
		w.linef("o.%s = %s(%s, nil)", plan.field, ctor, quote(p.Name))
	case 1:
		elem := plan.goType
		if plan.refIface != "" {
			elem = "objmodel.Ref[" + plan.refIface + "]"
		}
		w.linef("o.%s = %s(%s, []objmodel.Validator[%s]{%s})",
			plan.field, ctor, quote(p.Name), elem, plan.validators[0])
	default:
		elem := plan.goType
		if plan.refIface != "" {
			elem = "objmodel.Ref[" + plan.refIface + "]"
		}
		w.block(fmt.Sprintf("o.%s = %s(%s, []objmodel.Validator[%s]{",
			plan.field, ctor, quote(p.Name), elem), "})", func() {
			for _, v := range plan.validators {
				w.linef("%s,", v)
			}
		})
	}
}

func (e *emitter) accessors(n classNames, plans []propPlan) {
	w := e.w
	for _, plan := range plans {
		w.block(fmt.Sprintf("func (o *%s) %s() %s {", n.object, plan.accessor, e.accessorType(plan)), "}", func() {
			w.linef("return &o.%s", plan.field)
		})
		w.blank()
	}
}

func (e *emitter) validate(c *ir.Class, n classNames, plans []propPlan) {
	w := e.w
	w.block(fmt.Sprintf("func (o *%s) Validate(path objmodel.Path, handler objmodel.ErrorHandler) bool {", n.object), "}", func() {
		w.linef("valid := o.%s.Validate(path, handler)", e.parentEmbed(c))
		for _, plan := range plans {
			w.block("{", "}", func() {
				w.linef("sub := path.Push(%s)", quote(plan.p.Name))
				w.block(fmt.Sprintf("if !o.%s.Check(sub, handler) {", plan.field), "}", func() {
					w.line("valid = false")
				})
				if plan.p.Cardinality.IsRequired() {
					msg := "required property is not set"
					if plan.p.Cardinality == ir.RequiredList {
						msg = "required list is empty"
					}
					w.block(fmt.Sprintf("if !o.%s.IsSet() {", plan.field), "}", func() {
						w.block("if handler != nil {", "}", func() {
							w.linef("handler.HandleError(&objmodel.ValidationError{Property: %s, Msg: %s}, sub)",
								quote(plan.p.Name), quote(msg))
						})
						w.line("valid = false")
					})
				}
			})
		}
		w.line("return valid")
	})
	w.blank()
}

func (e *emitter) parentEmbed(c *ir.Class) string {
	if c.Parent != "" {
		return e.names[c.Parent].object
	}
	return "ObjectBase"
}

func (e *emitter) walk(c *ir.Class, n classNames, plans []propPlan) {
	w := e.w
	w.block(fmt.Sprintf("func (o *%s) Walk(path objmodel.Path, visit objmodel.Visit) {", n.object), "}", func() {
		w.linef("o.%s.Walk(path, visit)", e.parentEmbed(c))
		for _, plan := range plans {
			w.linef("o.%s.Walk(path, visit)", plan.field)
		}
	})
	w.blank()
}

func (e *emitter) encodeProperties(c *ir.Class, n classNames, plans []propPlan) {
	w := e.w
	sig := fmt.Sprintf("func (o *%s) EncodeProperties(data map[string]any, path objmodel.Path, state *objmodel.EncodeState) error {", n.object)
	w.block(sig, "}", func() {
		w.block(fmt.Sprintf("if err := o.%s.EncodeProperties(data, path, state); err != nil {", e.parentEmbed(c)), "}", func() {
			w.line("return err")
		})
		for _, plan := range plans {
			p := plan.p
			key := fmt.Sprintf("data[state.Term(%s)]", quote(p.IRI))
			push := fmt.Sprintf("path.Push(%s)", quote(p.Name))
			w.block(fmt.Sprintf("if o.%s.IsSet() {", plan.field), "}", func() {
				switch {
				case plan.refIface != "" && p.Cardinality.IsList():
					w.linef("v, err := objmodel.EncodeRefList(o.%s.Get(), %s, state)", plan.field, push)
					w.block("if err != nil {", "}", func() { w.line("return err") })
					w.linef("%s = v", key)
				case plan.refIface != "":
					w.linef("v, err := objmodel.EncodeRef(o.%s.Get(), %s, state)", plan.field, push)
					w.block("if err != nil {", "}", func() { w.line("return err") })
					w.linef("%s = v", key)
				case p.Cardinality.IsList():
					w.linef("%s = objmodel.EncodeList(o.%s.Get(), %s, state, %s)", key, plan.field, push, plan.encodeFn)
				default:
					w.linef("%s = %s(o.%s.Get(), %s, state)", key, plan.encodeFn, plan.field, push)
				}
			})
		}
		w.line("return nil")
	})
	w.blank()
}

func (e *emitter) makers(c *ir.Class, n classNames) {
	if c.Abstract {
		return
	}
	w := e.w
	w.linef("// Make%s constructs a new, empty instance.", n.iface)
	w.block(fmt.Sprintf("func Make%s() %s {", n.iface, n.iface), "}", func() {
		w.linef("return %s(&%s{}, %s)", n.construct, n.object, n.typeVar)
	})
	w.blank()

	w.linef("// Make%sRef constructs a new instance wrapped in an object reference.", n.iface)
	w.block(fmt.Sprintf("func Make%sRef() objmodel.Ref[%s] {", n.iface, n.iface), "}", func() {
		w.linef("return objmodel.MakeObjectRef(Make%s())", n.iface)
	})
	w.blank()
}

func sortedTermIRIs(terms map[string]string) []string {
	out := make([]string, 0, len(terms))
	for iri := range terms {
		out = append(out, iri)
	}
	sort.Strings(out)
	return out
}
