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

package binary

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"dirpx.dev/cmodel/apis"
	"dirpx.dev/cmodel/buildability"
	"dirpx.dev/cmodel/construction"
	"dirpx.dev/cmodel/entity"
	"dirpx.dev/cmodel/ownership"
	"dirpx.dev/cmodel/tasks"
)

// SourcesRegistryName names the owned source registry in error messages.
const SourcesRegistryName = "owned sources"

// Spec is a binary. Only types embedding Base implement it.
type Spec interface {
	apis.DisplayNamed

	// TypeName returns the simple name of the requested binary kind.
	TypeName() string
	// ID returns the instance identifier assigned at construction.
	ID() uuid.UUID

	SetBuildable(buildable bool)
	IsBuildable() bool
	BuildAbility() apis.BuildAbility
	// BinaryBuildAbility is the kind's eligibility predicate. It is consulted
	// only while the binary is not disabled.
	BinaryBuildAbility() apis.BuildAbility

	Tasks() *tasks.Collection
	Sources() *ownership.Registry[apis.LanguageSourceSet]
	OwnedSources() []apis.LanguageSourceSet
	InputSources() []apis.LanguageSourceSet
	AllSources() []apis.LanguageSourceSet

	base() *Base
}

// Base carries the state every binary shares. It must be embedded by value
// and the embedding type must be created through a Factory.
type Base struct {
	name     string
	typeName string
	id       uuid.UUID

	objects  apis.ObjectFactory
	sources  *ownership.Registry[apis.LanguageSourceSet]
	tasks    *tasks.Collection
	decision buildability.Decision

	constructed bool
}

// Construct populates b from the construction context pending on ctx.
// It is the construction hook run by the object factory and fails when no
// factory call is in progress.
func (b *Base) Construct(ctx context.Context) error {
	if b.constructed {
		return &ConfigurationError{
			Msg: fmt.Sprintf("%s is already constructed", b.DisplayName()),
			Err: ErrAlreadyConstructed,
		}
	}
	info, ok := construction.Take(ctx)
	if !ok {
		return errNotFactoryCreated()
	}

	b.name = info.Name
	b.typeName = info.TypeName
	b.id = uuid.New()
	b.objects = info.Objects
	b.tasks = tasks.New(b, info.Tasks)
	b.sources = ownership.New(entity.New[apis.LanguageSourceSet](SourcesRegistryName))
	b.constructed = true
	return nil
}

// Name returns the binary name.
func (b *Base) Name() string { return b.name }

// TypeName returns the simple name of the requested binary kind.
func (b *Base) TypeName() string { return b.typeName }

// DisplayName returns "<TypeName> '<name>'".
func (b *Base) DisplayName() string {
	return fmt.Sprintf("%s '%s'", b.typeName, b.name)
}

func (b *Base) String() string { return b.DisplayName() }

// ID returns the instance identifier.
func (b *Base) ID() uuid.UUID { return b.id }

// ObjectFactory returns the object-creation capability the binary was created with.
func (b *Base) ObjectFactory() apis.ObjectFactory { return b.objects }

// SetBuildable records an explicit user decision. false disables the binary
// regardless of its predicate; true restores predicate-driven evaluation.
func (b *Base) SetBuildable(buildable bool) { b.decision.SetBuildable(buildable) }

// IsBuildable reports whether the binary may currently be built.
func (b *Base) IsBuildable() bool { return b.BuildAbility().IsBuildable() }

// BuildAbility evaluates the current verdict.
func (b *Base) BuildAbility() apis.BuildAbility { return b.decision.Evaluate() }

// BinaryBuildAbility is the default predicate: always buildable.
func (b *Base) BinaryBuildAbility() apis.BuildAbility { return buildability.Buildable() }

// Tasks returns the task collection.
func (b *Base) Tasks() *tasks.Collection { return b.tasks }

// Sources returns the source ownership registry.
func (b *Base) Sources() *ownership.Registry[apis.LanguageSourceSet] { return b.sources }

// EntityInstantiator returns the instantiator used for owned sources, where
// creatable source set kinds are registered.
func (b *Base) EntityInstantiator() *entity.Instantiator[apis.LanguageSourceSet] {
	if b.sources == nil {
		return nil
	}
	return b.sources.Instantiator()
}

// OwnedSources returns the sources created by this binary.
func (b *Base) OwnedSources() []apis.LanguageSourceSet {
	if b.sources == nil {
		return nil
	}
	return b.sources.Owned()
}

// InputSources returns the sources referenced from elsewhere.
func (b *Base) InputSources() []apis.LanguageSourceSet {
	if b.sources == nil {
		return nil
	}
	return b.sources.Inputs()
}

// AllSources returns owned sources followed by input sources.
func (b *Base) AllSources() []apis.LanguageSourceSet {
	if b.sources == nil {
		return nil
	}
	return b.sources.All()
}

// CreateSource creates an owned source set of kind t.
func (b *Base) CreateSource(name string, t reflect.Type, configure func(apis.LanguageSourceSet)) (apis.LanguageSourceSet, error) {
	if b.sources == nil {
		return nil, errNotFactoryCreated()
	}
	return b.sources.Create(name, t, configure)
}

// RemoveSource drops the owned source set called name.
func (b *Base) RemoveSource(name string) bool {
	if b.sources == nil {
		return false
	}
	return b.sources.Remove(name)
}

// AddInput references s as an input source.
func (b *Base) AddInput(s apis.LanguageSourceSet) bool {
	if b.sources == nil || s == nil {
		return false
	}
	return b.sources.AddInput(s)
}

// RemoveInput drops s from the input sources.
func (b *Base) RemoveInput(s apis.LanguageSourceSet) bool {
	if b.sources == nil || s == nil {
		return false
	}
	return b.sources.RemoveInput(s)
}

func (b *Base) base() *Base { return b }

func errNotFactoryCreated() error {
	return &ConfigurationError{
		Msg: "direct instantiation of a binary.Base is not permitted; use binary.Factory instead",
		Err: ErrNotFactoryCreated,
	}
}

// NewSource creates an owned source set of kind S on bin.
func NewSource[S apis.LanguageSourceSet](bin Spec, name string, configure func(S)) (S, error) {
	var zero S
	b := bin.base()
	if b.sources == nil {
		return zero, errNotFactoryCreated()
	}
	return ownership.CreateOwned(b.sources, name, configure)
}
