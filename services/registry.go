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

// Package services provides scoped service registries.
//
// Registries form a chain from the Global registry down to per-project
// ones. Services are keyed by type and looked up along the chain, nearest
// scope first. Plugins contribute services when a registry of a given scope
// is created.
package services

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-logr/logr"
)

var (
	// ErrInvalidScope is returned for undefined or non-narrowing scopes.
	ErrInvalidScope = errors.New("services: invalid scope")
	// ErrAlreadyProvided is returned when a type is provided twice in one registry.
	ErrAlreadyProvided = errors.New("services: service already provided")
	// ErrNilService is returned for nil services and types.
	ErrNilService = errors.New("services: nil service")
	// ErrNotAssignable is returned when a service does not implement its key type.
	ErrNotAssignable = errors.New("services: service does not implement the requested type")
)

// Plugin contributes services to registries as they are created.
type Plugin interface {
	// RegisterServices is called once for every new registry. Plugins
	// inspect r.Scope() and provide what belongs to it.
	RegisterServices(r *Registry) error
}

// PluginFunc adapts a function to Plugin.
type PluginFunc func(r *Registry) error

// RegisterServices implements Plugin for PluginFunc.
func (f PluginFunc) RegisterServices(r *Registry) error { return f(r) }

// Registry holds the services of one scope.
// It is safe for concurrent use.
type Registry struct {
	scope   Scope
	parent  *Registry
	plugins []Plugin
	log     logr.Logger

	mu       sync.RWMutex
	services map[reflect.Type]any
	order    []reflect.Type
}

// NewGlobal creates the root registry and runs plugins against it. The same
// plugins run for every descendant.
func NewGlobal(log logr.Logger, plugins ...Plugin) (*Registry, error) {
	r := &Registry{
		scope:    Global,
		plugins:  plugins,
		log:      log.WithName("services"),
		services: make(map[reflect.Type]any),
	}
	if err := r.applyPlugins(); err != nil {
		return nil, err
	}
	return r, nil
}

// Child creates a registry of the narrower scope under r and runs the plugins.
func (r *Registry) Child(scope Scope) (*Registry, error) {
	if !scope.Valid() || !scope.Narrower(r.scope) {
		return nil, fmt.Errorf("%w: %s under %s", ErrInvalidScope, scope, r.scope)
	}
	c := &Registry{
		scope:    scope,
		parent:   r,
		plugins:  r.plugins,
		log:      r.log,
		services: make(map[reflect.Type]any),
	}
	if err := c.applyPlugins(); err != nil {
		return nil, err
	}
	return c, nil
}

// Scope returns the scope of r.
func (r *Registry) Scope() Scope { return r.scope }

// Parent returns the wider registry, or nil for Global.
func (r *Registry) Parent() *Registry { return r.parent }

// ProvideType registers svc under key type t in r.
func (r *Registry) ProvideType(t reflect.Type, svc any) error {
	if t == nil || svc == nil {
		return ErrNilService
	}
	if !reflect.TypeOf(svc).AssignableTo(t) {
		return fmt.Errorf("%w: %T is not a %s", ErrNotAssignable, svc, t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[t]; ok {
		return fmt.Errorf("%w: %s in %s scope", ErrAlreadyProvided, t, r.scope)
	}
	r.services[t] = svc
	r.order = append(r.order, t)
	r.log.V(1).Info("provided service", "scope", r.scope.String(), "type", t.String())
	return nil
}

// Provide registers svc under its static type T.
func Provide[T any](r *Registry, svc T) error {
	return r.ProvideType(reflect.TypeFor[T](), svc)
}

// LookupType returns the service registered under t, nearest scope first.
func (r *Registry) LookupType(t reflect.Type) (any, bool) {
	for cur := r; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		svc, ok := cur.services[t]
		cur.mu.RUnlock()
		if ok {
			return svc, true
		}
	}
	return nil, false
}

// Lookup returns the service registered under T, nearest scope first.
func Lookup[T any](r *Registry) (T, bool) {
	v, ok := r.LookupType(reflect.TypeFor[T]())
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Types returns the key types provided directly in r, in registration order.
func (r *Registry) Types() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]reflect.Type, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) applyPlugins() error {
	for _, p := range r.plugins {
		if p == nil {
			continue
		}
		if err := p.RegisterServices(r); err != nil {
			return fmt.Errorf("services: plugin failed for %s scope: %w", r.scope, err)
		}
	}
	return nil
}
