package objmodel

import (
	"fmt"
	"regexp"
	"time"
)

// DecodeFunc decodes one JSON value into a T. Implementations report
// structural problems as *DecodeError; they never run constraint validators.
type DecodeFunc[T any] func(value any, path Path, rc *ResolveContext) (T, error)

// DecodeString expects a JSON string.
func DecodeString(value any, path Path, _ *ResolveContext) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", &DecodeError{path, fmt.Sprintf("expected string, got %T", value)}
	}
	return s, nil
}

// DecodeBoolean expects a JSON boolean.
func DecodeBoolean(value any, path Path, _ *ResolveContext) (bool, error) {
	b, ok := value.(bool)
	if !ok {
		return false, &DecodeError{path, fmt.Sprintf("expected boolean, got %T", value)}
	}
	return b, nil
}

// DecodeInteger expects a JSON number with a fractional part of exactly zero.
// This is the one documented coercion: 1.0 decodes as 1, 1.5 is an error.
func DecodeInteger(value any, path Path, _ *ResolveContext) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v == float64(int64(v)) {
			return int(v), nil
		}
		return 0, &DecodeError{path, "expected integer, got non-integral number " + formatFloat(v)}
	default:
		return 0, &DecodeError{path, fmt.Sprintf("expected integer, got %T", value)}
	}
}

// DecodeFloat expects a JSON number.
func DecodeFloat(value any, path Path, _ *ResolveContext) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, &DecodeError{path, fmt.Sprintf("expected number, got %T", value)}
	}
}

// DecodeIRI expects a string holding an IRI, a blank node label, or a context
// term that expands to an IRI.
func DecodeIRI(value any, path Path, rc *ResolveContext) (string, error) {
	s, err := DecodeString(value, path, nil)
	if err != nil {
		return "", err
	}
	if rc != nil {
		s = rc.expand(s)
	}
	if !IsIRI(s) && !IsBlankNode(s) {
		return "", &DecodeError{path, "expected an IRI or blank node label, got '" + s + "'"}
	}
	return s, nil
}

var (
	dateTimeRe      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(Z|[+-]\d{2}:\d{2})?$`)
	dateTimeStampRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(Z|[+-]\d{2}:\d{2})$`)
)

const (
	dateTimeLayout      = "2006-01-02T15:04:05"
	dateTimeStampLayout = "2006-01-02T15:04:05Z07:00"
)

// DecodeDateTime expects an xsd:dateTime string; the zone offset is optional.
func DecodeDateTime(value any, path Path, _ *ResolveContext) (time.Time, error) {
	s, err := DecodeString(value, path, nil)
	if err != nil {
		return time.Time{}, err
	}
	if !dateTimeRe.MatchString(s) {
		return time.Time{}, &DecodeError{path, "invalid dateTime '" + s + "'"}
	}
	layout := dateTimeStampLayout
	if len(s) == len(dateTimeLayout) {
		layout = dateTimeLayout
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, &DecodeError{path, "invalid dateTime '" + s + "': " + err.Error()}
	}
	return t, nil
}

// DecodeDateTimeStamp expects an xsd:dateTimeStamp string; the zone offset is
// mandatory.
func DecodeDateTimeStamp(value any, path Path, _ *ResolveContext) (time.Time, error) {
	s, err := DecodeString(value, path, nil)
	if err != nil {
		return time.Time{}, err
	}
	if !dateTimeStampRe.MatchString(s) {
		return time.Time{}, &DecodeError{path, "invalid dateTimeStamp '" + s + "'"}
	}
	t, err := time.Parse(dateTimeStampLayout, s)
	if err != nil {
		return time.Time{}, &DecodeError{path, "invalid dateTimeStamp '" + s + "': " + err.Error()}
	}
	return t, nil
}

// DecodeScalarProperty decodes value with f and stores it without running
// validators; Validate is the pass that re-checks decoded values.
func DecodeScalarProperty[T any](p PropertyInterface[T], value any, path Path, rc *ResolveContext, f DecodeFunc[T]) error {
	v, err := f(value, path, rc)
	if err != nil {
		return err
	}
	p.(*Property[T]).setRaw(v)
	return nil
}

// DecodeListProperty decodes a JSON array element-wise with f, preserving
// source order.
func DecodeListProperty[T any](p ListPropertyInterface[T], value any, path Path, rc *ResolveContext, f DecodeFunc[T]) error {
	lst, ok := value.([]any)
	if !ok {
		return &DecodeError{path, fmt.Sprintf("expected list, got %T", value)}
	}
	out := make([]T, 0, len(lst))
	for i, item := range lst {
		v, err := f(item, path.Index(i), rc)
		if err != nil {
			return err
		}
		out = append(out, v)
	}
	p.(*ListProperty[T]).setRaw(out)
	return nil
}

// DecodeRefProperty decodes a reference-valued property. A nested node object
// is materialized immediately; a bare identity string is deferred and bound
// during the resolve pass, staying an IRI reference when the identity never
// appears in the set.
func DecodeRefProperty[T SHACLObject](p RefPropertyInterface[T], value any, path Path, rc *ResolveContext, want Type) error {
	switch v := value.(type) {
	case string:
		iri, err := DecodeIRI(v, path, rc)
		if err != nil {
			return err
		}
		rc.deferBind(func() error {
			r, err := resolveRef[T](rc, iri, path)
			if err != nil {
				return err
			}
			p.(*RefProperty[T]).setRaw(r)
			return nil
		})
		return nil
	case map[string]any:
		obj, err := rc.materialize(v, path, want)
		if err != nil {
			return err
		}
		t, ok := obj.(T)
		if !ok {
			return &DecodeError{path, "object of type " + obj.Type().TypeIRI() + " is not valid here"}
		}
		p.(*RefProperty[T]).setRaw(MakeObjectRef(t))
		return nil
	default:
		return &DecodeError{path, fmt.Sprintf("expected node object or identity string, got %T", value)}
	}
}

// DecodeRefListProperty decodes a list of references, preserving source
// order; string elements resolve during the second pass.
func DecodeRefListProperty[T SHACLObject](p RefListPropertyInterface[T], value any, path Path, rc *ResolveContext, want Type) error {
	lst, ok := value.([]any)
	if !ok {
		return &DecodeError{path, fmt.Sprintf("expected list, got %T", value)}
	}
	out := make([]Ref[T], len(lst))
	for i, item := range lst {
		sub := path.Index(i)
		switch v := item.(type) {
		case string:
			iri, err := DecodeIRI(v, sub, rc)
			if err != nil {
				return err
			}
			idx := i
			rc.deferBind(func() error {
				r, err := resolveRef[T](rc, iri, sub)
				if err != nil {
					return err
				}
				out[idx] = r
				return nil
			})
		case map[string]any:
			obj, err := rc.materialize(v, sub, want)
			if err != nil {
				return err
			}
			t, ok := obj.(T)
			if !ok {
				return &DecodeError{sub, "object of type " + obj.Type().TypeIRI() + " is not valid here"}
			}
			out[i] = MakeObjectRef(t)
		default:
			return &DecodeError{sub, fmt.Sprintf("expected node object or identity string, got %T", item)}
		}
	}
	p.(*RefListProperty[T]).setRaw(out)
	return nil
}

func resolveRef[T SHACLObject](rc *ResolveContext, iri string, path Path) (Ref[T], error) {
	obj, ok := rc.lookup(iri)
	if !ok {
		return MakeIRIRef[T](iri), nil
	}
	t, ok := obj.(T)
	if !ok {
		return nil, &DecodeError{path, "'" + iri + "' resolves to an object of type " + obj.Type().TypeIRI() + ", which is not valid here"}
	}
	return MakeObjectRef(t), nil
}

// EncodeString passes the value through.
func EncodeString(value string, _ Path, _ *EncodeState) any { return value }

// EncodeBoolean passes the value through.
func EncodeBoolean(value bool, _ Path, _ *EncodeState) any { return value }

// EncodeInteger passes the value through.
func EncodeInteger(value int, _ Path, _ *EncodeState) any { return value }

// EncodeFloat passes the value through as a JSON number.
func EncodeFloat(value float64, _ Path, _ *EncodeState) any { return value }

// EncodeDateTime renders RFC3339 seconds precision, Z for UTC.
func EncodeDateTime(value time.Time) string {
	if value.Location() == time.UTC {
		return value.Format(dateTimeLayout) + "Z"
	}
	return value.Format(dateTimeStampLayout)
}

// EncodeDateTimeProp adapts EncodeDateTime to the property encode shape.
func EncodeDateTimeProp(value time.Time, _ Path, _ *EncodeState) any {
	return EncodeDateTime(value)
}

// EncodeIRI compacts the IRI through the context when a term exists.
func EncodeIRI(value string, _ Path, state *EncodeState) any {
	return state.compact(value)
}

// EncodeRef emits an object reference. An object already emitted in this
// encode call (including every top-level member of the set) is emitted as a
// bare identity string; the first encounter of an outside object nests it.
// Identities of emitted objects are written verbatim so they match the @id of
// the node they point at.
func EncodeRef[T SHACLObject](value Ref[T], path Path, state *EncodeState) (any, error) {
	if value.IsIRI() {
		return state.compact(value.GetIRI()), nil
	}
	obj := any(value.GetObj()).(SHACLObject)
	if state.marked(obj) {
		if !obj.ID().IsSet() {
			obj.ID().(*Property[string]).setRaw(newBlankLabel())
		}
		return obj.ID().Get(), nil
	}
	state.mark(obj)
	data := make(map[string]any)
	if err := obj.EncodeProperties(data, path, state); err != nil {
		return nil, err
	}
	return data, nil
}

// EncodeList encodes a list property element-wise, preserving order.
func EncodeList[T any](value []T, path Path, state *EncodeState, f func(T, Path, *EncodeState) any) any {
	out := make([]any, 0, len(value))
	for i, v := range value {
		out = append(out, f(v, path.Index(i), state))
	}
	return out
}

// EncodeRefList encodes a list of references, preserving order.
func EncodeRefList[T SHACLObject](value []Ref[T], path Path, state *EncodeState) (any, error) {
	out := make([]any, 0, len(value))
	for i, v := range value {
		e, err := EncodeRef(v, path.Index(i), state)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
