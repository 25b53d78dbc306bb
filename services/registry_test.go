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

package services_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/cmodel/services"
)

type clock interface{ Now() int }

type fixedClock int

func (c fixedClock) Now() int { return int(c) }

type counter struct{ n int }

func TestRegistry_LookupFallsBackToWiderScopes(t *testing.T) {
	t.Parallel()

	global, err := services.NewGlobal(logr.Discard())
	require.NoError(t, err)
	require.NoError(t, services.Provide[clock](global, fixedClock(1)))

	build, err := global.Child(services.Build)
	require.NoError(t, err)
	project, err := build.Child(services.Project)
	require.NoError(t, err)

	c, ok := services.Lookup[clock](project)
	require.True(t, ok)
	assert.Equal(t, 1, c.Now())

	// A narrower scope shadows a wider one.
	require.NoError(t, services.Provide[clock](build, fixedClock(2)))
	c, _ = services.Lookup[clock](project)
	assert.Equal(t, 2, c.Now())
	c, _ = services.Lookup[clock](global)
	assert.Equal(t, 1, c.Now())

	_, ok = services.Lookup[*counter](project)
	assert.False(t, ok)
	assert.Same(t, build, project.Parent())
}

func TestRegistry_Errors(t *testing.T) {
	t.Parallel()

	global, err := services.NewGlobal(logr.Discard())
	require.NoError(t, err)

	require.NoError(t, services.Provide(global, &counter{}))
	assert.ErrorIs(t, services.Provide(global, &counter{}), services.ErrAlreadyProvided)
	assert.ErrorIs(t, services.Provide[clock](global, nil), services.ErrNilService)
	assert.ErrorIs(t, global.ProvideType(nil, 1), services.ErrNilService)

	build, err := global.Child(services.Build)
	require.NoError(t, err)
	_, err = build.Child(services.BuildSession)
	assert.ErrorIs(t, err, services.ErrInvalidScope)
	_, err = build.Child(services.Build)
	assert.ErrorIs(t, err, services.ErrInvalidScope)
	_, err = global.Child(services.Scope(7))
	assert.ErrorIs(t, err, services.ErrInvalidScope)
}

func TestRegistry_NotAssignable(t *testing.T) {
	t.Parallel()

	global, err := services.NewGlobal(logr.Discard())
	require.NoError(t, err)

	err = global.ProvideType(reflect.TypeFor[clock](), &counter{})
	assert.ErrorIs(t, err, services.ErrNotAssignable)
}

func TestRegistry_PluginsRunPerScope(t *testing.T) {
	t.Parallel()

	var seen []services.Scope
	plugin := services.PluginFunc(func(r *services.Registry) error {
		seen = append(seen, r.Scope())
		if r.Scope() == services.Build {
			return services.Provide(r, &counter{n: len(seen)})
		}
		return nil
	})

	global, err := services.NewGlobal(logr.Discard(), plugin)
	require.NoError(t, err)
	session, err := global.Child(services.BuildSession)
	require.NoError(t, err)
	b1, err := session.Child(services.Build)
	require.NoError(t, err)
	b2, err := session.Child(services.Build)
	require.NoError(t, err)

	assert.Equal(t, []services.Scope{services.Global, services.BuildSession, services.Build, services.Build}, seen)

	c1, _ := services.Lookup[*counter](b1)
	c2, _ := services.Lookup[*counter](b2)
	assert.NotSame(t, c1, c2, "each build gets its own instance")
	_, ok := services.Lookup[*counter](session)
	assert.False(t, ok)
}

func TestRegistry_PluginFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := services.NewGlobal(logr.Discard(), services.PluginFunc(func(*services.Registry) error { return boom }))
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "Global scope")
}
