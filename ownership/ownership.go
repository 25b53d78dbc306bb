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

// Package ownership manages the entities attached to a parent model element.
//
// A Registry exposes two disjoint views. Owned entities are created through
// the registry's entity.Instantiator and are life-cycle-managed by the
// parent. Input entities are referenced from elsewhere; the registry only
// tracks membership. The views are independent namespaces: an input may
// share its name with an owned entity.
//
// A Registry is not safe for concurrent mutation. The parent element is
// driven by a single build-coordination goroutine.
package ownership

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"dirpx.dev/cmodel/apis"
	"dirpx.dev/cmodel/entity"
)

var (
	// ErrDuplicateName is matched by every *DuplicateNameError.
	ErrDuplicateName = errors.New("cmodel(ownership): duplicate name")
	// ErrNameMismatch is returned by Create when the created entity does not
	// carry the requested name.
	ErrNameMismatch = errors.New("cmodel(ownership): created entity name mismatch")
)

// DuplicateNameError reports a create request for a name already owned.
type DuplicateNameError struct {
	Name     string
	Registry string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("cannot add a %s with name '%s' as a %s with that name already exists", e.Registry, e.Name, e.Registry)
}

// Is makes errors.Is(err, ErrDuplicateName) hold.
func (e *DuplicateNameError) Is(target error) bool { return target == ErrDuplicateName }

// Registry holds the owned and input entities of one parent.
type Registry[T apis.Named] struct {
	inst   *entity.Instantiator[T]
	owned  []T
	index  map[string]int
	inputs []T
}

// New constructs an empty Registry creating owned entities through inst.
func New[T apis.Named](inst *entity.Instantiator[T]) *Registry[T] {
	return &Registry[T]{
		inst:  inst,
		index: make(map[string]int),
	}
}

// Instantiator returns the instantiator used for owned entities, so that
// creatable types can be registered.
func (r *Registry[T]) Instantiator() *entity.Instantiator[T] { return r.inst }

// Create builds an owned entity of subtype t, applies configure (if non-nil)
// and adds it to the owned view. The entity must still be called name after
// configure has run. On error the registry is unchanged.
func (r *Registry[T]) Create(name string, t reflect.Type, configure func(T)) (T, error) {
	var zero T
	if !r.inst.CanCreate(t) {
		// Let the instantiator produce the descriptive error.
		_, err := r.inst.Create(name, t)
		if err == nil {
			err = entity.ErrUnknownType
		}
		return zero, err
	}
	if _, ok := r.index[name]; ok {
		return zero, &DuplicateNameError{Name: name, Registry: r.inst.Name()}
	}

	v, err := r.inst.Create(name, t)
	if err != nil {
		return zero, err
	}
	if got := v.Name(); got != name {
		return zero, fmt.Errorf("%w: %s created as '%s', requested '%s'", ErrNameMismatch, r.inst.Name(), got, name)
	}
	if configure != nil {
		configure(v)
	}
	if got := v.Name(); got != name {
		return zero, fmt.Errorf("%w: %s renamed to '%s' by configure, requested '%s'", ErrNameMismatch, r.inst.Name(), got, name)
	}
	r.index[name] = len(r.owned)
	r.owned = append(r.owned, v)
	return v, nil
}

// CreateOwned is the typed form of Registry.Create.
func CreateOwned[T apis.Named, S any](r *Registry[T], name string, configure func(S)) (S, error) {
	var zero S
	v, err := r.Create(name, reflect.TypeFor[S](), func(v T) {
		if configure != nil {
			configure(any(v).(S))
		}
	})
	if err != nil {
		return zero, err
	}
	return any(v).(S), nil
}

// Get returns the owned entity called name.
func (r *Registry[T]) Get(name string) (T, bool) {
	if i, ok := r.index[name]; ok {
		return r.owned[i], true
	}
	var zero T
	return zero, false
}

// Remove drops the owned entity called name. It reports whether it was present.
func (r *Registry[T]) Remove(name string) bool {
	i, ok := r.index[name]
	if !ok {
		return false
	}
	r.owned = slices.Delete(r.owned, i, i+1)
	delete(r.index, name)
	for j := i; j < len(r.owned); j++ {
		r.index[r.owned[j].Name()] = j
	}
	return true
}

// Owned returns the owned entities in creation order.
func (r *Registry[T]) Owned() []T { return slices.Clone(r.owned) }

// Names returns the owned entity names in creation order.
func (r *Registry[T]) Names() []string {
	out := make([]string, 0, len(r.owned))
	for _, v := range r.owned {
		out = append(out, v.Name())
	}
	return out
}

// AddInput adds e to the input view. Adding the same entity twice is a no-op.
// Entities are compared by identity, so pointer implementations are expected.
func (r *Registry[T]) AddInput(e T) bool {
	if r.inputIndex(e) >= 0 {
		return false
	}
	r.inputs = append(r.inputs, e)
	return true
}

// RemoveInput drops e from the input view only. Wherever e is owned, it stays.
func (r *Registry[T]) RemoveInput(e T) bool {
	i := r.inputIndex(e)
	if i < 0 {
		return false
	}
	r.inputs = slices.Delete(r.inputs, i, i+1)
	return true
}

// Inputs returns the input entities in insertion order.
func (r *Registry[T]) Inputs() []T { return slices.Clone(r.inputs) }

// All returns owned entities followed by inputs.
func (r *Registry[T]) All() []T {
	out := make([]T, 0, len(r.owned)+len(r.inputs))
	out = append(out, r.owned...)
	return append(out, r.inputs...)
}

// Len returns the size of All.
func (r *Registry[T]) Len() int { return len(r.owned) + len(r.inputs) }

func (r *Registry[T]) inputIndex(e T) int {
	for i, v := range r.inputs {
		if any(v) == any(e) {
			return i
		}
	}
	return -1
}
