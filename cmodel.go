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

package cmodel

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/cmodel/apis"
	"dirpx.dev/cmodel/binary"
	"dirpx.dev/cmodel/builder"
	"dirpx.dev/cmodel/config"
	"dirpx.dev/cmodel/instantiator"
)

// init publishes the default snapshot.
func init() {
	s := &state{cfg: config.DefaultConfig(), objs: instantiator.New()}
	b := builder.New()
	s.reg = b.BuildRegistry(s.cfg, nil, nil)
	s.fac = b.BuildFactory(s.cfg, s.reg, nil, nil)
	s.bld = b
	st.Store(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil type registry.
	ErrNilRegistry = errors.New("cmodel: builder returned nil type registry")
	// ErrNilFactory is returned when a builder returns a nil factory.
	ErrNilFactory = errors.New("cmodel: builder returned nil factory")
)

// Create creates a binary of kind T called name through the global factory
// and object factory.
func Create[T binary.Spec](ctx context.Context, name string, tasks apis.TaskFactory) (T, error) {
	s := st.Load()
	return binary.Create[T](ctx, s.fac, name, s.objs, tasks)
}

// CreateNamed creates a binary of the globally registered kind typeName.
func CreateNamed(ctx context.Context, typeName, name string, tasks apis.TaskFactory) (binary.Spec, error) {
	s := st.Load()
	return s.fac.CreateRegistered(ctx, typeName, name, s.objs, tasks)
}

// RegisterType declares the binary kind T in the global type registry.
func RegisterType[T binary.Spec]() error {
	return binary.RegisterType[T](st.Load().reg)
}

// RegisterTypeOf declares the binary kind t in the global type registry.
func RegisterTypeOf(t reflect.Type) error {
	return st.Load().reg.Register(t)
}

// SetAll replaces every component of the global snapshot.
//
// Nil arguments leave the corresponding component unchanged, except for ext
// which is always replaced. A non-nil reg is pinned; a nil reg unpins and
// starts from an empty registry. Mainly used by tests to get a clean state.
func SetAll(cfg *apis.Config, ext any, reg *binary.TypeRegistry, objs apis.ObjectFactory, bld builder.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	if cfg != nil {
		next.cfg = *cfg
	}
	next.ext = ext
	if objs != nil {
		next.objs = objs
	}
	if bld != nil {
		next.bld = bld
	}
	next.reg, next.preg = reg, reg != nil
	// Nothing is migrated from the old snapshot.
	publish(&state{}, &next)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration and rebuilds the factory, and the
// type registry unless it is pinned.
func SetConfig(cfg apis.Config) {
	update(func(s *state) { s.cfg = cfg })
}

// Registry returns the global type registry.
func Registry() *binary.TypeRegistry {
	return st.Load().reg
}

// SetRegistry sets and pins the global type registry.
func SetRegistry(reg *binary.TypeRegistry) {
	if reg == nil {
		return
	}
	update(func(s *state) { s.reg, s.preg = reg, true })
}

// Factory returns the global binary factory.
func Factory() *binary.Factory {
	return st.Load().fac
}

// ObjectFactory returns the global object-creation capability.
func ObjectFactory() apis.ObjectFactory {
	return st.Load().objs
}

// SetObjectFactory replaces the global object-creation capability.
func SetObjectFactory(objs apis.ObjectFactory) {
	if objs == nil {
		return
	}
	swap(func(s *state) { s.objs = objs })
}

// Builder returns the global builder.
func Builder() builder.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder and rebuilds the non-pinned components with it.
func SetBuilder(b builder.Builder) {
	if b == nil {
		return
	}
	update(func(s *state) { s.bld = b })
}

// SetExt replaces the extension payload and rebuilds the non-pinned components.
func SetExt[T any](ext T) {
	update(func(s *state) { s.ext = ext })
}

// ExtAs returns the global extension payload as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRegistryPinned reports whether the global type registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry stops the global type registry from being rebuilt.
func PinRegistry() {
	swap(func(s *state) { s.preg = true })
}

// UnpinRegistry lets the global type registry be rebuilt again on the next change.
func UnpinRegistry() {
	swap(func(s *state) { s.preg = false })
}

// update derives a snapshot from the current one with mutate applied and
// publishes it.
func update(mutate func(*state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	mutate(&next)
	publish(old, &next)
}

// swap publishes a copy of the current snapshot with mutate applied,
// without rebuilding anything.
func swap(mutate func(*state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	mutate(&next)
	st.Store(&next)
}

// publish rebuilds the non-pinned components of next and stores it.
// Callers hold buildMu.
func publish(old, next *state) {
	if !next.preg {
		next.reg = next.bld.BuildRegistry(next.cfg, old.reg, next.ext)
	}
	if next.reg == nil {
		panic(ErrNilRegistry)
	}
	next.fac = next.bld.BuildFactory(next.cfg, next.reg, old.fac, next.ext)
	if next.fac == nil {
		panic(ErrNilFactory)
	}
	st.Store(next)
}

// buildMu serializes writers so we never publish partially-built snapshots.
var buildMu sync.Mutex

// st is the global snapshot.
var st atomic.Pointer[state]

// state is the global snapshot.
// Published atomically via st.Store; never mutate fields of a published
// state. Writers copy it, change the copy and swap it in.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// ext is the extension payload handed to the builder.
	ext any
	// reg is the global type registry.
	reg *binary.TypeRegistry
	// fac is the global factory, bound to reg.
	fac *binary.Factory
	// objs is the global object-creation capability.
	objs apis.ObjectFactory
	// bld is the global builder.
	bld builder.Builder
	// preg indicates whether reg is pinned.
	preg bool
}
