// Package merge applies explicit-optional inputs onto entities using a
// declarative field table instead of reflection.
package merge

import (
	"bookseller/internal/entity"
)

// Mode says when a field may be written by a caller.
type Mode int

const (
	// Mutable fields may be set on create and changed on update.
	Mutable Mode = iota
	// Immutable fields may be set on create and never changed afterwards.
	Immutable
	// Computed fields are assigned by the server: callers may not supply
	// them on create nor change them on update.
	Computed
)

// Field is one row of an entity's field table. In is the explicit-optional
// input type, where a nil pointer means "not sent".
type Field[T, In any] struct {
	Name string
	Mode Mode

	sent    func(In) bool
	differs func(T, In) bool
	apply   func(*T, In)
}

// Value builds a Field for a pointer input field compared with ==.
func Value[T, In any, V comparable](name string, mode Mode, from func(In) *V, to func(*T) *V) Field[T, In] {
	return Func(name, mode, from, to, func(a, b V) bool { return a == b })
}

// Func builds a Field for values that need a custom equality, such as
// time.Time.
func Func[T, In any, V any](name string, mode Mode, from func(In) *V, to func(*T) *V, equal func(a, b V) bool) Field[T, In] {
	return Field[T, In]{
		Name: name,
		Mode: mode,
		sent: func(in In) bool { return from(in) != nil },
		differs: func(current T, in In) bool {
			return !equal(*to(&current), *from(in))
		},
		apply: func(dst *T, in In) { *to(dst) = *from(in) },
	}
}

// Create builds a new T from in. Sending a Computed field is rejected.
func Create[T, In any](fields []Field[T, In], in In) (T, error) {
	var out T
	var errs entity.ValidationErrors
	for _, f := range fields {
		if !f.sent(in) {
			continue
		}
		if f.Mode == Computed {
			errs = append(errs, entity.ValidationError{
				Field:   f.Name,
				Message: f.Name + " is assigned by the server",
			})
			continue
		}
		f.apply(&out, in)
	}
	if len(errs) > 0 {
		return out, errs
	}
	return out, nil
}

// Update merges in onto a copy of current: fields not sent keep the stored
// value. Sending an Immutable or Computed field with a different value is
// rejected; sending the stored value back is accepted.
func Update[T, In any](fields []Field[T, In], current T, in In) (T, error) {
	out := current
	var errs entity.ValidationErrors
	for _, f := range fields {
		if !f.sent(in) {
			continue
		}
		if f.Mode != Mutable {
			if f.differs(current, in) {
				errs = append(errs, entity.ValidationError{
					Field:   f.Name,
					Message: f.Name + " cannot be changed",
				})
			}
			continue
		}
		f.apply(&out, in)
	}
	if len(errs) > 0 {
		return current, errs
	}
	return out, nil
}
