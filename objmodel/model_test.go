package objmodel_test

// A small shape vocabulary written out the way the golang target emits it.
// The decode, encode and validation tests below run against this model.

import (
	objmodel "github.com/ontoforge/shaclgen/objmodel"
)

const testContextURL = "https://example.com/shapes/context.json"

var testTerms = map[string]string{
	"https://example.com/Box":          "Box",
	"https://example.com/Box/children": "children",
	"https://example.com/Box/color":    "color",
	"https://example.com/Box/lid":      "lid",
	"https://example.com/Box/width":    "width",
	"https://example.com/Color":        "Color",
	"https://example.com/Shape":        "Shape",
	"https://example.com/Shape/label":  "label",
}

func newTestObjectSet() objmodel.SHACLObjectSet {
	return objmodel.NewObjectSet(objmodel.ObjectSetConfig{
		ContextURL: testContextURL,
		Terms:      testTerms,
	})
}

// BoxObject is the concrete backing type for Box.
type BoxObject struct {
	ShapeObject

	children objmodel.RefListProperty[Shape]
	color    objmodel.Property[string]
	lid      objmodel.RefProperty[Box]
	width    objmodel.Property[int]
}

type boxObjectType struct {
	objmodel.TypeInfo
}

var boxType = boxObjectType{objmodel.NewTypeInfo(objmodel.TypeInfoConfig{
	IRI:      "https://example.com/Box",
	Compact:  "Box",
	Parent:   "https://example.com/Shape",
	NodeKind: objmodel.NewOptional(objmodel.NodeKindBlankNodeOrIRI),
})}

func (t boxObjectType) New() objmodel.SHACLObject {
	return ConstructBoxObject(&BoxObject{}, t)
}

func (t boxObjectType) DecodeProperty(o objmodel.SHACLObject, name string, value any, path objmodel.Path, rc *objmodel.ResolveContext) (bool, error) {
	obj := o.(Box)
	switch name {
	case "https://example.com/Box/children", "children":
		return true, objmodel.DecodeRefListProperty(obj.Children(), value, path, rc, shapeType)
	case "https://example.com/Box/color", "color":
		return true, objmodel.DecodeScalarProperty(obj.Color(), value, path, rc, objmodel.DecodeIRI)
	case "https://example.com/Box/lid", "lid":
		return true, objmodel.DecodeRefProperty(obj.Lid(), value, path, rc, boxType)
	case "https://example.com/Box/width", "width":
		return true, objmodel.DecodeScalarProperty(obj.Width(), value, path, rc, objmodel.DecodeInteger)
	}
	return t.TypeInfo.DecodeProperty(o, name, value, path, rc)
}

// Box is the accessor interface for https://example.com/Box.
type Box interface {
	Shape

	Children() objmodel.RefListPropertyInterface[Shape]
	Color() objmodel.PropertyInterface[string]
	Lid() objmodel.RefPropertyInterface[Box]
	Width() objmodel.PropertyInterface[int]
}

// ConstructBoxObject wires the property slots of a freshly allocated instance.
func ConstructBoxObject(o *BoxObject, typ objmodel.Type) *BoxObject {
	ConstructShapeObject(&o.ShapeObject, typ)
	o.children = objmodel.NewRefListProperty[Shape]("children", nil)
	o.color = objmodel.NewProperty[string]("color", []objmodel.Validator[string]{objmodel.EnumValidator{Values: []string{"https://example.com/Color/green", "https://example.com/Color/red"}}})
	o.lid = objmodel.NewRefProperty[Box]("lid", nil)
	o.width = objmodel.NewProperty[int]("width", []objmodel.Validator[int]{objmodel.IntegerMinValidator{Min: 1}})
	return o
}

func (o *BoxObject) Children() objmodel.RefListPropertyInterface[Shape] {
	return &o.children
}

func (o *BoxObject) Color() objmodel.PropertyInterface[string] {
	return &o.color
}

func (o *BoxObject) Lid() objmodel.RefPropertyInterface[Box] {
	return &o.lid
}

func (o *BoxObject) Width() objmodel.PropertyInterface[int] {
	return &o.width
}

func (o *BoxObject) Validate(path objmodel.Path, handler objmodel.ErrorHandler) bool {
	valid := o.ShapeObject.Validate(path, handler)
	{
		sub := path.Push("children")
		if !o.children.Check(sub, handler) {
			valid = false
		}
	}
	{
		sub := path.Push("color")
		if !o.color.Check(sub, handler) {
			valid = false
		}
	}
	{
		sub := path.Push("lid")
		if !o.lid.Check(sub, handler) {
			valid = false
		}
	}
	{
		sub := path.Push("width")
		if !o.width.Check(sub, handler) {
			valid = false
		}
		if !o.width.IsSet() {
			if handler != nil {
				handler.HandleError(&objmodel.ValidationError{Property: "width", Msg: "required property is not set"}, sub)
			}
			valid = false
		}
	}
	return valid
}

func (o *BoxObject) Walk(path objmodel.Path, visit objmodel.Visit) {
	o.ShapeObject.Walk(path, visit)
	o.children.Walk(path, visit)
	o.color.Walk(path, visit)
	o.lid.Walk(path, visit)
	o.width.Walk(path, visit)
}

func (o *BoxObject) EncodeProperties(data map[string]any, path objmodel.Path, state *objmodel.EncodeState) error {
	if err := o.ShapeObject.EncodeProperties(data, path, state); err != nil {
		return err
	}
	if o.children.IsSet() {
		v, err := objmodel.EncodeRefList(o.children.Get(), path.Push("children"), state)
		if err != nil {
			return err
		}
		data[state.Term("https://example.com/Box/children")] = v
	}
	if o.color.IsSet() {
		data[state.Term("https://example.com/Box/color")] = objmodel.EncodeIRI(o.color.Get(), path.Push("color"), state)
	}
	if o.lid.IsSet() {
		v, err := objmodel.EncodeRef(o.lid.Get(), path.Push("lid"), state)
		if err != nil {
			return err
		}
		data[state.Term("https://example.com/Box/lid")] = v
	}
	if o.width.IsSet() {
		data[state.Term("https://example.com/Box/width")] = objmodel.EncodeInteger(o.width.Get(), path.Push("width"), state)
	}
	return nil
}

// MakeBox constructs a new, empty instance.
func MakeBox() Box {
	return ConstructBoxObject(&BoxObject{}, boxType)
}

// MakeBoxRef constructs a new instance wrapped in an object reference.
func MakeBoxRef() objmodel.Ref[Box] {
	return objmodel.MakeObjectRef(MakeBox())
}

// Named individuals of https://example.com/Color.
const (
	ColorGreen = "https://example.com/Color/green"
	ColorRed   = "https://example.com/Color/red"
)

// ColorObject is the concrete backing type for Color.
type ColorObject struct {
	objmodel.ObjectBase
}

type colorObjectType struct {
	objmodel.TypeInfo
}

var colorType = colorObjectType{objmodel.NewTypeInfo(objmodel.TypeInfoConfig{
	IRI:      "https://example.com/Color",
	Compact:  "Color",
	NodeKind: objmodel.NewOptional(objmodel.NodeKindIRI),
})}

func (t colorObjectType) New() objmodel.SHACLObject {
	return ConstructColorObject(&ColorObject{}, t)
}

// Color is the accessor interface for https://example.com/Color.
type Color interface {
	objmodel.SHACLObject
}

// ConstructColorObject wires the property slots of a freshly allocated instance.
func ConstructColorObject(o *ColorObject, typ objmodel.Type) *ColorObject {
	objmodel.InitObjectBase(&o.ObjectBase)
	o.SetType(typ)
	return o
}

// MakeColor constructs a new, empty instance.
func MakeColor() Color {
	return ConstructColorObject(&ColorObject{}, colorType)
}

// MakeColorRef constructs a new instance wrapped in an object reference.
func MakeColorRef() objmodel.Ref[Color] {
	return objmodel.MakeObjectRef(MakeColor())
}

// ShapeObject is the concrete backing type for Shape.
type ShapeObject struct {
	objmodel.ObjectBase

	label objmodel.Property[string]
}

type shapeObjectType struct {
	objmodel.TypeInfo
}

var shapeType = shapeObjectType{objmodel.NewTypeInfo(objmodel.TypeInfoConfig{
	IRI:      "https://example.com/Shape",
	Compact:  "Shape",
	NodeKind: objmodel.NewOptional(objmodel.NodeKindBlankNodeOrIRI),
	Abstract: true,
})}

func (t shapeObjectType) New() objmodel.SHACLObject { return nil }

func (t shapeObjectType) DecodeProperty(o objmodel.SHACLObject, name string, value any, path objmodel.Path, rc *objmodel.ResolveContext) (bool, error) {
	obj := o.(Shape)
	switch name {
	case "https://example.com/Shape/label", "label":
		return true, objmodel.DecodeScalarProperty(obj.Label(), value, path, rc, objmodel.DecodeString)
	}
	return t.TypeInfo.DecodeProperty(o, name, value, path, rc)
}

// Shape is the accessor interface for https://example.com/Shape.
type Shape interface {
	objmodel.SHACLObject

	Label() objmodel.PropertyInterface[string]
}

// ConstructShapeObject wires the property slots of a freshly allocated instance.
func ConstructShapeObject(o *ShapeObject, typ objmodel.Type) *ShapeObject {
	objmodel.InitObjectBase(&o.ObjectBase)
	o.SetType(typ)
	o.label = objmodel.NewProperty[string]("label", nil)
	return o
}

func (o *ShapeObject) Label() objmodel.PropertyInterface[string] {
	return &o.label
}

func (o *ShapeObject) Validate(path objmodel.Path, handler objmodel.ErrorHandler) bool {
	valid := o.ObjectBase.Validate(path, handler)
	{
		sub := path.Push("label")
		if !o.label.Check(sub, handler) {
			valid = false
		}
	}
	return valid
}

func (o *ShapeObject) Walk(path objmodel.Path, visit objmodel.Visit) {
	o.ObjectBase.Walk(path, visit)
	o.label.Walk(path, visit)
}

func (o *ShapeObject) EncodeProperties(data map[string]any, path objmodel.Path, state *objmodel.EncodeState) error {
	if err := o.ObjectBase.EncodeProperties(data, path, state); err != nil {
		return err
	}
	if o.label.IsSet() {
		data[state.Term("https://example.com/Shape/label")] = objmodel.EncodeString(o.label.Get(), path.Push("label"), state)
	}
	return nil
}

func init() {
	objmodel.RegisterType(boxType)
	objmodel.RegisterType(colorType)
	objmodel.RegisterType(shapeType)
}
