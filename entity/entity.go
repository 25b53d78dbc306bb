/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package entity provides a polymorphic, type-keyed instantiator for named
// entities of a fixed base capability.
//
// Creatable subtypes are registered up front together with a factory
// function; registration validates that the subtype actually provides the
// base capability. Requests for anything else are rejected.
package entity

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"dirpx.dev/cmodel/apis"
	uref "dirpx.dev/cmodel/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("cmodel(entity): nil reflect.Type provided")
	// ErrNilFactory is returned when a nil factory is provided.
	ErrNilFactory = errors.New("cmodel(entity): nil factory provided")
	// ErrConflictingRegistration indicates an attempt to register a second
	// factory for the same type.
	ErrConflictingRegistration = errors.New("cmodel(entity): conflicting type registration")
	// ErrNotAssignable indicates a registered type that does not provide the base capability.
	ErrNotAssignable = errors.New("cmodel(entity): type does not provide the base capability")
	// ErrUnknownType is matched by every *UnknownTypeError.
	ErrUnknownType = errors.New("cmodel(entity): unknown type")
)

// Factory creates a named entity.
type Factory[T any] func(name string) (T, error)

// UnknownTypeError reports a request for a type that is not creatable.
type UnknownTypeError struct {
	// Type is the requested type.
	Type reflect.Type
	// Registry is the display name of the rejecting instantiator.
	Registry string
	// Known lists the simple names of the creatable types, in registration order.
	Known []string
}

func (e *UnknownTypeError) Error() string {
	known := "(None)"
	if len(e.Known) > 0 {
		known = strings.Join(e.Known, ", ")
	}
	return fmt.Sprintf("cannot create a %s because this type is not known to %s. Known types are: %s",
		uref.SimpleName(e.Type), e.Registry, known)
}

// Is makes errors.Is(err, ErrUnknownType) hold.
func (e *UnknownTypeError) Is(target error) bool { return target == ErrUnknownType }

// Instantiator creates entities of base capability T by requested subtype.
// It is safe for concurrent use.
type Instantiator[T any] struct {
	// name is used in error messages, e.g. "owned sources".
	name string
	// base is the capability every registered type must provide.
	base reflect.Type
	// mu guards factories and order.
	mu        sync.RWMutex
	factories map[reflect.Type]Factory[T]
	order     []reflect.Type
}

// New constructs an empty Instantiator for capability T.
func New[T any](name string) *Instantiator[T] {
	return &Instantiator[T]{
		name:      name,
		base:      reflect.TypeFor[T](),
		factories: make(map[reflect.Type]Factory[T]),
	}
}

// Name returns the display name of the instantiator.
func (i *Instantiator[T]) Name() string { return i.name }

// RegisterFactory makes t creatable through fn. t must be assignable to T.
func (i *Instantiator[T]) RegisterFactory(t reflect.Type, fn Factory[T]) error {
	if t == nil {
		return ErrNilType
	}
	if fn == nil {
		return ErrNilFactory
	}
	if !t.AssignableTo(i.base) {
		return fmt.Errorf("%w: %s is not a %s", ErrNotAssignable, t, i.base)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.factories[t]; ok {
		return ErrConflictingRegistration
	}
	i.factories[t] = fn
	i.order = append(i.order, t)
	return nil
}

// Register makes subtype S creatable in inst through fn.
func Register[T, S any](inst *Instantiator[T], fn func(name string) (S, error)) error {
	if fn == nil {
		return ErrNilFactory
	}
	return inst.RegisterFactory(reflect.TypeFor[S](), func(name string) (T, error) {
		s, err := fn(name)
		if err != nil {
			var zero T
			return zero, err
		}
		v, ok := any(s).(T)
		if !ok {
			var zero T
			return zero, fmt.Errorf("cmodel(entity): factory for %s returned %T", reflect.TypeFor[S](), s)
		}
		return v, nil
	})
}

// Create builds the entity name of subtype t.
func (i *Instantiator[T]) Create(name string, t reflect.Type) (T, error) {
	var zero T
	if t == nil {
		return zero, ErrNilType
	}
	i.mu.RLock()
	fn, ok := i.factories[t]
	i.mu.RUnlock()
	if !ok {
		return zero, &UnknownTypeError{Type: t, Registry: i.name, Known: uref.SimpleNames(i.CreatableTypes())}
	}
	return fn(name)
}

// CanCreate reports whether t is registered.
func (i *Instantiator[T]) CanCreate(t reflect.Type) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.factories[t]
	return ok
}

// CreatableTypes returns the registered types in registration order.
func (i *Instantiator[T]) CreatableTypes() []reflect.Type {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]reflect.Type, len(i.order))
	copy(out, i.order)
	return out
}

// Entries returns a snapshot of (type, simple name) pairs for diagnostics.
func (i *Instantiator[T]) Entries() []apis.Entry {
	types := i.CreatableTypes()
	entries := make([]apis.Entry, 0, len(types))
	for _, t := range types {
		entries = append(entries, apis.Entry{Type: t, Name: uref.SimpleName(t)})
	}
	return entries
}

// Count returns the number of registered types.
func (i *Instantiator[T]) Count() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.order)
}
