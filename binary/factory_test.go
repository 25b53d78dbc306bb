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
	"fmt"
	"reflect"
	"testing"

	"github.com/go-logr/zapr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	"dirpx.dev/cmodel/apis"
	"dirpx.dev/cmodel/binary"
	"dirpx.dev/cmodel/config"
	"dirpx.dev/cmodel/construction"
	"dirpx.dev/cmodel/tasks"
)

type mockObjects struct{ mock.Mock }

func (m *mockObjects) NewInstance(ctx context.Context, t reflect.Type, args ...any) (any, error) {
	ret := m.Called(ctx, t)
	return ret.Get(0), ret.Error(1)
}

type task struct{ name string }

func (t *task) Name() string { return t.name }

func TestCreate_Typed(t *testing.T) {
	t.Parallel()

	tf := tasks.FactoryFunc(func(name, _ string) (apis.Task, error) { return &task{name: name}, nil })
	b, err := binary.Create[*JvmBinary](context.Background(), newFactory(), "main", nil, tf)
	require.NoError(t, err)
	assert.Equal(t, "main", b.Name())

	name := b.Tasks().TaskName("compile", "java")
	assert.Equal(t, "compileMainJava", name)
	_, err = b.Tasks().Create(name, "compile")
	require.NoError(t, err)
	assert.Equal(t, 1, b.Tasks().Len())
}

func TestCreate_PointerDepthNormalized(t *testing.T) {
	t.Parallel()

	s, err := newFactory().Create(context.Background(), reflect.TypeFor[**JvmBinary](), "main", nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &JvmBinary{}, s)
	assert.Equal(t, "JvmBinary", s.TypeName())
}

func TestCreate_AbstractTypes(t *testing.T) {
	t.Parallel()

	f := newFactory()
	for _, typ := range []reflect.Type{reflect.TypeFor[binary.Base](), reflect.TypeFor[*binary.Base](), reflect.TypeFor[binary.Spec]()} {
		_, err := f.Create(context.Background(), typ, "x", nil, nil)
		var ce *binary.ConfigurationError
		require.ErrorAs(t, err, &ce, typ.String())
		assert.ErrorIs(t, err, binary.ErrAbstractType)
	}

	_, err := f.Create(context.Background(), reflect.TypeFor[binary.Base](), "x", nil, nil)
	assert.EqualError(t, err, "cannot create instance of abstract type Base")
}

func TestCreate_NotABinary(t *testing.T) {
	t.Parallel()

	_, err := newFactory().Create(context.Background(), reflect.TypeFor[notABinary](), "x", nil, nil)
	var mie *binary.ModelInstantiationError
	require.ErrorAs(t, err, &mie)
	assert.ErrorIs(t, err, binary.ErrNotBinary)
	assert.Equal(t, "notABinary", mie.TypeName)
}

func TestCreate_InitFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, err := newFactory().Create(ctx, reflect.TypeFor[failingBinary](), "x", nil, nil)

	var mie *binary.ModelInstantiationError
	require.ErrorAs(t, err, &mie)
	assert.Equal(t, "failingBinary", mie.TypeName)
	assert.EqualError(t, mie.Cause, "init failed")
	assert.Equal(t, "could not create binary of type failingBinary: init failed", err.Error())
	assert.False(t, construction.Pending(ctx))
}

func TestCreate_PanicSurfacesAsError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, err := newFactory().Create(ctx, reflect.TypeFor[panickingBinary](), "x", nil, nil)

	var mie *binary.ModelInstantiationError
	require.ErrorAs(t, err, &mie)
	assert.Contains(t, mie.Cause.Error(), "kaboom")
	assert.False(t, construction.Pending(ctx))

	// The next creation is unaffected.
	b, err := binary.Create[*JvmBinary](ctx, newFactory(), "next", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "next", b.Name())
}

func TestCreate_CustomObjectFactory(t *testing.T) {
	t.Parallel()

	objs := &mockObjects{}
	pending := false
	objs.On("NewInstance", mock.Anything, reflect.TypeFor[*JvmBinary]()).
		Run(func(args mock.Arguments) {
			pending = construction.Pending(args.Get(0).(context.Context))
		}).
		Return(&JvmBinary{}, nil).
		Once()

	b, err := binary.Create[*JvmBinary](context.Background(), newFactory(), "main", objs, nil)
	require.NoError(t, err)
	objs.AssertExpectations(t)

	assert.True(t, pending, "info is pending while the object factory runs")
	assert.Equal(t, "main", b.Name(), "the factory constructs what the object factory skipped")
	assert.Same(t, objs, b.ObjectFactory())
}

func TestCreate_CustomObjectFactoryErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := []struct {
		name    string
		ret     any
		err     error
		wantErr error
	}{
		{name: "error", err: boom, wantErr: boom},
		{name: "wrong type", ret: &notABinary{}, wantErr: binary.ErrNotBinary},
		{name: "nil pointer", ret: (*JvmBinary)(nil), wantErr: binary.ErrNotBinary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			objs := &mockObjects{}
			objs.On("NewInstance", mock.Anything, mock.Anything).Return(tt.ret, tt.err)

			ctx := context.Background()
			_, err := newFactory().Create(ctx, reflect.TypeFor[JvmBinary](), "main", objs, nil)
			var mie *binary.ModelInstantiationError
			require.ErrorAs(t, err, &mie)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, "JvmBinary", mie.TypeName)
			assert.False(t, construction.Pending(ctx))
		})
	}
}

func TestCreate_ForeignConstructedElementRejected(t *testing.T) {
	t.Parallel()

	f := newFactory()
	other, err := binary.Create[*JvmBinary](context.Background(), f, "other", nil, nil)
	require.NoError(t, err)

	objs := &mockObjects{}
	objs.On("NewInstance", mock.Anything, mock.Anything).Return(other, nil)

	_, err = f.Create(context.Background(), reflect.TypeFor[JvmBinary](), "main", objs, nil)
	assert.ErrorIs(t, err, binary.ErrNotFactoryCreated)
	assert.Equal(t, "other", other.Name())
}

func TestCreate_NestedBeforeConstructRejected(t *testing.T) {
	t.Parallel()

	f := newFactory()
	objs := apis.ObjectFactoryFunc(func(ctx context.Context, typ reflect.Type, _ ...any) (any, error) {
		// A second create on the same pending context must not steal this call's info.
		if _, err := f.Create(ctx, reflect.TypeFor[JvmBinary](), "inner", nil, nil); err != nil {
			return nil, err
		}
		return reflect.New(typ.Elem()).Interface(), nil
	})

	_, err := f.Create(context.Background(), reflect.TypeFor[JvmBinary](), "outer", objs, nil)
	assert.ErrorIs(t, err, construction.ErrPending)
}

func TestCreate_ConcurrentCallsIsolated(t *testing.T) {
	t.Parallel()

	f := newFactory()
	const n = 64
	out := make([]binary.Spec, n)

	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			var err error
			if i%2 == 0 {
				out[i], err = f.Create(context.Background(), reflect.TypeFor[JvmBinary](), fmt.Sprintf("bin%d", i), nil, nil)
			} else {
				out[i], err = f.Create(context.Background(), reflect.TypeFor[NativeBinary](), fmt.Sprintf("bin%d", i), nil, nil)
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	for i, s := range out {
		assert.Equal(t, fmt.Sprintf("bin%d", i), s.Name())
		if i%2 == 0 {
			assert.Equal(t, "JvmBinary", s.TypeName())
		} else {
			assert.Equal(t, "NativeBinary", s.TypeName())
		}
	}
}

func TestCreate_Traced(t *testing.T) {
	t.Parallel()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	f := binary.NewFactory(config.NewConfig(config.WithTracerProvider(tp)), nil)

	_, err := binary.Create[*JvmBinary](context.Background(), f, "main", nil, nil)
	require.NoError(t, err)
	_, err = f.Create(context.Background(), reflect.TypeFor[binary.Base](), "abstract", nil, nil)
	require.Error(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 2)

	ok := spans[0]
	assert.Equal(t, "binary.Create", ok.Name())
	attrs := map[string]string{}
	for _, kv := range ok.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsString()
	}
	assert.Equal(t, "main", attrs["binary.name"])
	assert.Equal(t, "JvmBinary", attrs["binary.type"])
	assert.NotEmpty(t, attrs["binary.id"])
	assert.Equal(t, codes.Unset, ok.Status().Code)

	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestCreate_Logged(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	f := binary.NewFactory(config.NewConfig(config.WithLogger(zapr.NewLogger(zap.New(core)))), nil)

	_, err := binary.Create[*JvmBinary](context.Background(), f, "main", nil, nil)
	require.NoError(t, err)
	_, err = binary.Create[*failingBinary](context.Background(), f, "broken", nil, nil)
	require.Error(t, err)

	created := logs.FilterMessage("created binary").All()
	require.Len(t, created, 1)
	assert.Equal(t, "main", created[0].ContextMap()["name"])
	assert.Equal(t, "JvmBinary", created[0].ContextMap()["type"])

	assert.Equal(t, 1, logs.FilterMessage("binary creation failed").Len())
}
