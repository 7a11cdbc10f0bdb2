package objmodel

import "reflect"

// Ref is a reference to an instance of T: either a bare IRI naming a node
// that may live outside the current graph, or shared ownership of an object
// instance whose runtime class is T or a descendant of T.
type Ref[T SHACLObject] interface {
	// GetIRI returns the referenced identity: the IRI variant's string, or
	// the held object's ID when set.
	GetIRI() string
	// GetObj returns the held object. Only valid when IsObj reports true.
	GetObj() T
	IsSet() bool
	IsObj() bool
	IsIRI() bool
}

type ref[T SHACLObject] struct {
	obj *T
	iri string
}

func (r ref[T]) GetIRI() string {
	if r.iri != "" {
		return r.iri
	}
	if r.obj != nil {
		o := *r.obj
		if o.ID().IsSet() {
			return o.ID().Get()
		}
	}
	return ""
}

func (r ref[T]) GetObj() T {
	if r.obj == nil {
		var zero T
		return zero
	}
	return *r.obj
}

func (r ref[T]) IsSet() bool { return r.IsIRI() || r.IsObj() }
func (r ref[T]) IsObj() bool { return r.obj != nil }
func (r ref[T]) IsIRI() bool { return r.iri != "" }

// MakeObjectRef builds an object-variant reference. The expected class is the
// instance's declared class, or any ancestor the caller names explicitly as T.
func MakeObjectRef[T SHACLObject](obj T) Ref[T] {
	return ref[T]{obj: &obj}
}

// MakeIRIRef builds an IRI-variant reference without touching any graph.
func MakeIRIRef[T SHACLObject](iri string) Ref[T] {
	return ref[T]{iri: iri}
}

// ConvertRef cross-casts a reference between expected classes. The output
// type comes first so callers can name it while the input is inferred.
// Converting an object variant fails with *ConversionError unless the runtime
// object is a TO or a descendant of TO; IRI variants convert freely since no
// runtime class is known.
func ConvertRef[TO SHACLObject, FROM SHACLObject](in Ref[FROM]) (Ref[TO], error) {
	if in == nil {
		return ref[TO]{}, nil
	}
	if in.IsObj() {
		out, ok := any(in.GetObj()).(TO)
		if !ok {
			return nil, &ConversionError{
				From: reflect.TypeOf((*FROM)(nil)).Elem().String(),
				To:   reflect.TypeOf((*TO)(nil)).Elem().String(),
			}
		}
		return ref[TO]{obj: &out}, nil
	}
	return ref[TO]{iri: in.GetIRI()}, nil
}
