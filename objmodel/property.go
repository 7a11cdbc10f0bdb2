package objmodel

// Visit is called for every property value reachable from a walk root.
type Visit func(path Path, value any)

// PropertyInterface is the accessor surface for a single-valued property.
type PropertyInterface[T any] interface {
	// Get returns the current value, or the zero value when unset.
	Get() T
	// GetOrErr returns the current value, or *NotSetError when unset.
	GetOrErr() (T, error)
	// Set validates value against the property's constraints and commits it.
	// On failure the stored value is left untouched.
	Set(value T) error
	Delete()
	IsSet() bool
	Walk(path Path, visit Visit)
}

// Property is a typed scalar property slot with a validator chain.
type Property[T any] struct {
	value      Optional[T]
	name       string
	validators []Validator[T]
}

// NewProperty builds an unset property slot. Generated constructors bind one
// per (class, property) with that property's exact validator chain.
func NewProperty[T any](name string, validators []Validator[T]) Property[T] {
	return Property[T]{name: name, validators: validators}
}

func (p *Property[T]) Get() T { return p.value.Get() }

func (p *Property[T]) GetOrErr() (T, error) {
	if !p.value.IsSet() {
		var zero T
		return zero, &NotSetError{Property: p.name}
	}
	return p.value.Get(), nil
}

func (p *Property[T]) Set(value T) error {
	for _, v := range p.validators {
		if err := v.Check(value, p.name); err != nil {
			return err
		}
	}
	p.value = NewOptional(value)
	return nil
}

func (p *Property[T]) Delete() { p.value = Optional[T]{} }

func (p *Property[T]) IsSet() bool { return p.value.IsSet() }

// Check re-applies the validator chain to the stored value, reporting every
// violation to handler. Unset properties pass; required-presence is the
// owning class's concern.
func (p *Property[T]) Check(path Path, handler ErrorHandler) bool {
	if !p.value.IsSet() {
		return true
	}
	valid := true
	for _, v := range p.validators {
		if err := v.Check(p.value.Get(), p.name); err != nil {
			if handler != nil {
				handler.HandleError(err, path)
			}
			valid = false
		}
	}
	return valid
}

func (p *Property[T]) Walk(path Path, visit Visit) {
	if !p.value.IsSet() {
		return
	}
	visit(path.Push(p.name), p.value.Get())
}

// Name returns the property's term name.
func (p *Property[T]) Name() string { return p.name }

// setRaw stores a value without running validators. Decode uses it so that
// structurally valid but constraint-violating documents can be loaded and
// then caught by Validate.
func (p *Property[T]) setRaw(value T) { p.value = NewOptional(value) }

// ListPropertyInterface is the accessor surface for a list-valued property.
type ListPropertyInterface[T any] interface {
	Get() []T
	Set(value []T) error
	Append(value T) error
	Delete()
	IsSet() bool
	Walk(path Path, visit Visit)
}

// ListProperty is a typed list property slot; every element is validated.
type ListProperty[T any] struct {
	value      []T
	name       string
	validators []Validator[T]
}

func NewListProperty[T any](name string, validators []Validator[T]) ListProperty[T] {
	return ListProperty[T]{name: name, validators: validators}
}

func (p *ListProperty[T]) Get() []T { return p.value }

func (p *ListProperty[T]) Set(value []T) error {
	for _, item := range value {
		for _, v := range p.validators {
			if err := v.Check(item, p.name); err != nil {
				return err
			}
		}
	}
	p.value = value
	return nil
}

func (p *ListProperty[T]) Append(value T) error {
	for _, v := range p.validators {
		if err := v.Check(value, p.name); err != nil {
			return err
		}
	}
	p.value = append(p.value, value)
	return nil
}

func (p *ListProperty[T]) Delete() { p.value = nil }

func (p *ListProperty[T]) IsSet() bool { return len(p.value) > 0 }

func (p *ListProperty[T]) Check(path Path, handler ErrorHandler) bool {
	valid := true
	for i, item := range p.value {
		for _, v := range p.validators {
			if err := v.Check(item, p.name); err != nil {
				if handler != nil {
					handler.HandleError(err, path.Index(i))
				}
				valid = false
			}
		}
	}
	return valid
}

func (p *ListProperty[T]) Walk(path Path, visit Visit) {
	sub := path.Push(p.name)
	for i, item := range p.value {
		visit(sub.Index(i), item)
	}
}

func (p *ListProperty[T]) setRaw(value []T) { p.value = value }

// RefPropertyInterface is the accessor surface for a reference-valued
// property, with shortcuts through the held Ref.
type RefPropertyInterface[T SHACLObject] interface {
	PropertyInterface[Ref[T]]

	GetIRI() string
	GetObj() T
	IsObj() bool
	IsIRI() bool
}

// RefProperty is a property slot holding a Ref[T].
type RefProperty[T SHACLObject] struct {
	Property[Ref[T]]
}

func NewRefProperty[T SHACLObject](name string, validators []Validator[Ref[T]]) RefProperty[T] {
	return RefProperty[T]{Property: NewProperty(name, validators)}
}

func (p *RefProperty[T]) GetIRI() string { return p.Get().GetIRI() }

func (p *RefProperty[T]) GetObj() T { return p.Get().GetObj() }

func (p *RefProperty[T]) IsSet() bool {
	return p.Property.IsSet() && p.Get() != nil && p.Get().IsSet()
}

func (p *RefProperty[T]) IsObj() bool {
	return p.Property.IsSet() && p.Get() != nil && p.Get().IsObj()
}

func (p *RefProperty[T]) IsIRI() bool {
	return p.Property.IsSet() && p.Get() != nil && p.Get().IsIRI()
}

func (p *RefProperty[T]) Walk(path Path, visit Visit) {
	if !p.IsSet() {
		return
	}
	r, err := ConvertRef[SHACLObject](p.Get())
	if err != nil {
		return
	}
	visit(path.Push(p.name), r)
}

// RefListPropertyInterface is the accessor surface for a list of references.
type RefListPropertyInterface[T SHACLObject] interface {
	ListPropertyInterface[Ref[T]]
}

// RefListProperty is a list property holding Ref[T] elements.
type RefListProperty[T SHACLObject] struct {
	ListProperty[Ref[T]]
}

func NewRefListProperty[T SHACLObject](name string, validators []Validator[Ref[T]]) RefListProperty[T] {
	return RefListProperty[T]{ListProperty: NewListProperty(name, validators)}
}

func (p *RefListProperty[T]) Walk(path Path, visit Visit) {
	sub := path.Push(p.name)
	for i, item := range p.value {
		r, err := ConvertRef[SHACLObject](item)
		if err != nil {
			continue
		}
		visit(sub.Index(i), r)
	}
}
