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
	"dirpx.dev/cmodel/apis"
	"dirpx.dev/cmodel/binary"
	"dirpx.dev/cmodel/services"
)

// ServicePlugin provides the construction services from the global snapshot:
// the object factory in Global scope, and in every Build scope a fresh type
// registry seeded with the global declarations plus a factory bound to it.
// Types declared during one build do not leak into the next.
func ServicePlugin() services.Plugin {
	return services.PluginFunc(func(r *services.Registry) error {
		s := st.Load()
		switch r.Scope() {
		case services.Global:
			return services.Provide[apis.ObjectFactory](r, s.objs)
		case services.Build:
			reg := s.bld.BuildRegistry(s.cfg, s.reg, s.ext)
			if reg == nil {
				return ErrNilRegistry
			}
			fac := s.bld.BuildFactory(s.cfg, reg, s.fac, s.ext)
			if fac == nil {
				return ErrNilFactory
			}
			if err := services.Provide(r, reg); err != nil {
				return err
			}
			return services.Provide(r, fac)
		}
		return nil
	})
}

// BuildServices returns the type registry and factory of the build scope
// that r belongs to.
func BuildServices(r *services.Registry) (*binary.TypeRegistry, *binary.Factory, bool) {
	reg, ok := services.Lookup[*binary.TypeRegistry](r)
	if !ok {
		return nil, nil, false
	}
	fac, ok := services.Lookup[*binary.Factory](r)
	return reg, fac, ok
}
