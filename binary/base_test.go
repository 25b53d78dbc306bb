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

package binary_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/cmodel/apis"
	"dirpx.dev/cmodel/binary"
	"dirpx.dev/cmodel/buildability"
	"dirpx.dev/cmodel/config"
	"dirpx.dev/cmodel/entity"
	"dirpx.dev/cmodel/instantiator"
	"dirpx.dev/cmodel/language"
	"dirpx.dev/cmodel/ownership"
)

// JvmBinary has no predicate of its own.
type JvmBinary struct {
	binary.Base
	initName string
}

func (b *JvmBinary) Init() error {
	b.initName = b.Name()
	return nil
}

// NativeBinary is buildable only with a toolchain.
type NativeBinary struct {
	binary.Base
	toolchain bool
}

func (b *NativeBinary) BinaryBuildAbility() apis.BuildAbility {
	if !b.toolchain {
		return buildability.Unbuildable("no native toolchain")
	}
	return buildability.Buildable()
}

type failingBinary struct{ binary.Base }

func (b *failingBinary) Init() error { return errors.New("init failed") }

type panickingBinary struct{ binary.Base }

func (b *panickingBinary) Init() error { panic("kaboom") }

type notABinary struct{ Name string }

type JavaSourceSet struct{ language.BaseSourceSet }
type ResourceSet struct{ language.BaseSourceSet }

func newFactory() *binary.Factory {
	return binary.NewFactory(config.DefaultConfig(), nil)
}

func TestBase_DirectConstructionRejected(t *testing.T) {
	t.Parallel()

	var b JvmBinary
	err := b.Construct(context.Background())
	require.Error(t, err)

	var ce *binary.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, binary.ErrNotFactoryCreated)
	assert.Equal(t, "direct instantiation of a binary.Base is not permitted; use binary.Factory instead", err.Error())

	// A zero Base stays unusable.
	assert.Nil(t, b.Tasks())
	assert.Nil(t, b.AllSources())
	_, err = b.CreateSource("main", reflect.TypeOf(&JavaSourceSet{}), nil)
	assert.ErrorIs(t, err, binary.ErrNotFactoryCreated)
	assert.ErrorAs(t, err, &ce)
	_, err = binary.NewSource[*JavaSourceSet](&b, "main", nil)
	assert.ErrorIs(t, err, binary.ErrNotFactoryCreated)
	assert.ErrorAs(t, err, &ce)
}

func TestBase_InstantiatorWithoutFactoryRejected(t *testing.T) {
	t.Parallel()

	_, err := instantiator.New().NewInstance(context.Background(), reflect.TypeOf(&JvmBinary{}))
	var ie *instantiator.InstantiationError
	require.ErrorAs(t, err, &ie)
	assert.ErrorIs(t, err, binary.ErrNotFactoryCreated)
}

func TestBase_ConstructTwiceRejected(t *testing.T) {
	t.Parallel()

	b, err := binary.Create[*JvmBinary](context.Background(), newFactory(), "main", nil, nil)
	require.NoError(t, err)

	err = b.Construct(context.Background())
	assert.ErrorIs(t, err, binary.ErrAlreadyConstructed)
	assert.Equal(t, "main", b.Name())
}

func TestBase_Identity(t *testing.T) {
	t.Parallel()

	f := newFactory()
	a, err := binary.Create[*JvmBinary](context.Background(), f, "main", nil, nil)
	require.NoError(t, err)
	b, err := binary.Create[*JvmBinary](context.Background(), f, "main", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "JvmBinary", a.TypeName())
	assert.Equal(t, "JvmBinary 'main'", a.DisplayName())
	assert.Equal(t, "JvmBinary 'main'", a.String())
	assert.Equal(t, "main", a.initName, "Init runs after the base is populated")
	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotNil(t, a.ObjectFactory())
}

func TestBase_SetBuildable(t *testing.T) {
	t.Parallel()

	b, err := binary.Create[*JvmBinary](context.Background(), newFactory(), "main", nil, nil)
	require.NoError(t, err)
	assert.True(t, b.IsBuildable())

	b.SetBuildable(false)
	assert.False(t, b.IsBuildable())
	assert.Equal(t, []string{buildability.DisabledReason}, b.BuildAbility().Explain())

	b.SetBuildable(true)
	assert.True(t, b.IsBuildable())
}

func TestBase_PredicateOverride(t *testing.T) {
	t.Parallel()

	n, err := binary.Create[*NativeBinary](context.Background(), newFactory(), "lib", nil, nil)
	require.NoError(t, err)

	assert.False(t, n.IsBuildable())
	assert.Equal(t, []string{"no native toolchain"}, n.BuildAbility().Explain())

	n.toolchain = true
	assert.True(t, n.IsBuildable(), "the predicate is evaluated on every query")

	n.SetBuildable(false)
	assert.False(t, n.IsBuildable(), "disabled wins over the predicate")

	n.SetBuildable(true)
	assert.True(t, n.IsBuildable())
}

func TestBase_Sources(t *testing.T) {
	t.Parallel()

	b, err := binary.Create[*JvmBinary](context.Background(), newFactory(), "main", nil, nil)
	require.NoError(t, err)
	require.NoError(t, entity.Register(b.EntityInstantiator(), language.Factory[JavaSourceSet]()))

	java, err := binary.NewSource(b, "java", func(s *JavaSourceSet) { s.Source("src/main/java") })
	require.NoError(t, err)
	assert.Equal(t, "JavaSourceSet 'java'", java.DisplayName())

	_, err = b.CreateSource("java", reflect.TypeOf(&JavaSourceSet{}), nil)
	require.ErrorIs(t, err, ownership.ErrDuplicateName)
	assert.Contains(t, err.Error(), "owned sources with name 'java'")

	_, err = b.CreateSource("res", reflect.TypeOf(&ResourceSet{}), nil)
	assert.ErrorIs(t, err, entity.ErrUnknownType)
	assert.Len(t, b.OwnedSources(), 1)

	shared := language.NewBaseSourceSet("shared", "JavaSourceSet")
	assert.True(t, b.AddInput(shared))
	assert.False(t, b.AddInput(nil))

	all := b.AllSources()
	require.Len(t, all, 2)
	assert.Same(t, java, all[0])
	assert.Same(t, shared, all[1])
	assert.Len(t, b.InputSources(), 1)

	assert.True(t, b.RemoveInput(shared))
	assert.Len(t, b.AllSources(), 1)

	assert.True(t, b.RemoveSource("java"))
	assert.False(t, b.RemoveSource("java"))
	assert.Empty(t, b.AllSources())
	assert.Same(t, b.Sources(), b.Sources())
}
