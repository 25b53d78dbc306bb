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

// Package instantiator provides the default object-creation capability.
//
// Values are allocated with reflect.New and then run through their
// construction hooks: Construct(ctx) first (implemented by framework base
// types such as binary.Base and promoted to the embedding type), then the
// argument-free Init() authored by the type itself. Types that need
// constructor arguments register an explicit constructor instead.
package instantiator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"dirpx.dev/cmodel/apis"
	uref "dirpx.dev/cmodel/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("cmodel(instantiator): nil reflect.Type provided")
	// ErrNotStruct is returned when reflective allocation is asked for a non-struct type.
	ErrNotStruct = errors.New("cmodel(instantiator): type is not a struct")
	// ErrNoConstructor is returned when arguments are given for a type without a registered constructor.
	ErrNoConstructor = errors.New("cmodel(instantiator): no constructor accepts the given arguments")
	// ErrConflictingRegistration indicates an attempt to register a second constructor for a type.
	ErrConflictingRegistration = errors.New("cmodel(instantiator): conflicting constructor registration")
)

// Constructor is implemented by framework base types that need the
// construction context. The hook runs before Init.
type Constructor interface {
	Construct(ctx context.Context) error
}

// Initializer is implemented by types with their own argument-free setup.
type Initializer interface {
	Init() error
}

// ConstructorFunc builds a value of a registered type from explicit arguments.
type ConstructorFunc func(ctx context.Context, args ...any) (any, error)

// InstantiationError reports that a value of Type could not be created.
// Cause is the failure raised while allocating or constructing it.
type InstantiationError struct {
	Type  reflect.Type
	Cause error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("could not create an instance of type %s: %v", uref.SimpleName(e.Type), e.Cause)
}

func (e *InstantiationError) Unwrap() error { return e.Cause }

// Instantiator is the default apis.ObjectFactory.
type Instantiator struct {
	mu    sync.RWMutex
	ctors map[reflect.Type]ConstructorFunc
}

// Ensure Instantiator implements apis.ObjectFactory.
var _ apis.ObjectFactory = (*Instantiator)(nil)

// New constructs an empty Instantiator.
func New() *Instantiator {
	return &Instantiator{ctors: make(map[reflect.Type]ConstructorFunc)}
}

// Register associates an explicit constructor with t.
func (i *Instantiator) Register(t reflect.Type, fn ConstructorFunc) error {
	if t == nil {
		return ErrNilType
	}
	if fn == nil {
		return fmt.Errorf("cmodel(instantiator): nil constructor for %s", t)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.ctors[t]; ok {
		return ErrConflictingRegistration
	}
	i.ctors[t] = fn
	return nil
}

// NewInstance allocates and constructs a value of t, returning a pointer to it
// unless a registered constructor returns something else.
//
// Every failure, including a panic in a construction hook, is reported as an
// *InstantiationError.
func (i *Instantiator) NewInstance(ctx context.Context, t reflect.Type, args ...any) (v any, err error) {
	if t == nil {
		return nil, &InstantiationError{Cause: ErrNilType}
	}
	defer func() {
		if r := recover(); r != nil {
			v = nil
			err = &InstantiationError{Type: t, Cause: panicError(r)}
		}
	}()

	i.mu.RLock()
	ctor, ok := i.ctors[t]
	i.mu.RUnlock()
	if ok {
		v, err := ctor(ctx, args...)
		if err != nil {
			return nil, &InstantiationError{Type: t, Cause: err}
		}
		return v, nil
	}

	if len(args) > 0 {
		return nil, &InstantiationError{Type: t, Cause: fmt.Errorf("%w (got %d)", ErrNoConstructor, len(args))}
	}

	st := t
	if st.Kind() == reflect.Ptr {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil, &InstantiationError{Type: t, Cause: ErrNotStruct}
	}

	obj := reflect.New(st).Interface()
	if c, ok := obj.(Constructor); ok {
		if err := c.Construct(ctx); err != nil {
			return nil, &InstantiationError{Type: t, Cause: err}
		}
	}
	if in, ok := obj.(Initializer); ok {
		if err := in.Init(); err != nil {
			return nil, &InstantiationError{Type: t, Cause: err}
		}
	}
	return obj, nil
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("constructor panicked: %w", err)
	}
	return fmt.Errorf("constructor panicked: %v", r)
}
