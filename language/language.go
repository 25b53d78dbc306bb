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

// Package language provides the base implementation of language source sets,
// the entities owned by binaries.
package language

import (
	"fmt"
	"reflect"
	"slices"

	"dirpx.dev/cmodel/apis"
	uref "dirpx.dev/cmodel/utils/reflect"
)

// BaseSourceSet is embedded by concrete source set kinds:
//
//	type JavaSourceSet struct {
//	    language.BaseSourceSet
//	}
//
//	entity.Register(binary.EntityInstantiator(), language.Factory[JavaSourceSet]())
type BaseSourceSet struct {
	name     string
	typeName string
	dirs     []string
}

// Ensure BaseSourceSet implements apis.LanguageSourceSet.
var _ apis.LanguageSourceSet = (*BaseSourceSet)(nil)

// NewBaseSourceSet returns a standalone source set of the given kind.
func NewBaseSourceSet(name, typeName string) *BaseSourceSet {
	return &BaseSourceSet{name: name, typeName: typeName}
}

// Name returns the source set name.
func (s *BaseSourceSet) Name() string { return s.name }

// TypeName returns the simple name of the concrete source set kind.
func (s *BaseSourceSet) TypeName() string { return s.typeName }

// DisplayName returns "<TypeName> '<name>'".
func (s *BaseSourceSet) DisplayName() string {
	return fmt.Sprintf("%s '%s'", s.typeName, s.name)
}

func (s *BaseSourceSet) String() string { return s.DisplayName() }

// Source adds source directories, skipping duplicates.
func (s *BaseSourceSet) Source(dirs ...string) {
	for _, d := range dirs {
		if d != "" && !slices.Contains(s.dirs, d) {
			s.dirs = append(s.dirs, d)
		}
	}
}

// SourceDirs returns a copy of the source directories in insertion order.
func (s *BaseSourceSet) SourceDirs() []string {
	return slices.Clone(s.dirs)
}

func (s *BaseSourceSet) baseSourceSet() *BaseSourceSet { return s }

type sourceSet interface {
	apis.LanguageSourceSet
	baseSourceSet() *BaseSourceSet
}

// Factory returns an entity factory for kind S, which must embed BaseSourceSet.
// The created source set reports the simple name of S as its type name.
func Factory[S any, PS interface {
	*S
	sourceSet
}]() func(name string) (PS, error) {
	typeName := uref.SimpleName(reflect.TypeFor[S]())
	return func(name string) (PS, error) {
		ps := PS(new(S))
		b := ps.baseSourceSet()
		b.name, b.typeName = name, typeName
		return ps, nil
	}
}
