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

// Package builder assembles the binary type registry and factory for a Config.
package builder

import (
	"dirpx.dev/cmodel/apis"
	"dirpx.dev/cmodel/binary"
)

// Builder constructs the components of a construction snapshot. It may reuse
// or migrate state from the previous components. ext is an opaque payload
// supplied by the embedding program for custom builders.
type Builder interface {
	BuildRegistry(cfg apis.Config, prev *binary.TypeRegistry, ext any) *binary.TypeRegistry
	BuildFactory(cfg apis.Config, reg *binary.TypeRegistry, prev *binary.Factory, ext any) *binary.Factory
}

// New creates and returns the default Builder.
func New() Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds a new type registry for cfg. Types declared in prev are
// re-registered under the new configuration; those that no longer normalize
// are dropped and logged.
func (b *builder) BuildRegistry(cfg apis.Config, prev *binary.TypeRegistry, _ any) *binary.TypeRegistry {
	nreg := binary.NewTypeRegistry(cfg)
	if prev != nil {
		for _, e := range prev.Entries() {
			if err := nreg.Register(e.Type); err != nil {
				cfg.Logger.Error(err, "dropping binary type during rebuild", "type", e.Name)
			}
		}
	}
	return nreg
}

// BuildFactory builds a new factory bound to reg. Factories hold no state
// worth migrating, so prev is ignored.
func (b *builder) BuildFactory(cfg apis.Config, reg *binary.TypeRegistry, _ *binary.Factory, _ any) *binary.Factory {
	return binary.NewFactory(cfg, reg)
}
