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
	"errors"
	"fmt"
	"reflect"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"dirpx.dev/cmodel/apis"
	"dirpx.dev/cmodel/config"
	"dirpx.dev/cmodel/construction"
	"dirpx.dev/cmodel/instantiator"
	uref "dirpx.dev/cmodel/utils/reflect"
)

// TracerName is the instrumentation scope of the spans opened by Factory.
const TracerName = "dirpx.dev/cmodel/binary"

// Span attribute keys set by Factory.Create.
const (
	AttrBinaryName = attribute.Key("binary.name")
	AttrBinaryType = attribute.Key("binary.type")
	AttrBinaryID   = attribute.Key("binary.id")
)

// Factory creates binaries. It is safe for concurrent use; each Create call
// carries its own construction context.
type Factory struct {
	cfg     apis.Config
	log     logr.Logger
	tracer  trace.Tracer
	types   *TypeRegistry
	objects apis.ObjectFactory
}

// NewFactory constructs a Factory. types may be nil when CreateRegistered is
// not used.
func NewFactory(cfg apis.Config, types *TypeRegistry) *Factory {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Factory{
		cfg:     cfg,
		log:     cfg.Logger.WithName("binary"),
		tracer:  tp.Tracer(TracerName),
		types:   types,
		objects: instantiator.New(),
	}
}

// Types returns the type registry used by CreateRegistered.
func (f *Factory) Types() *TypeRegistry { return f.types }

// Create creates a binary of kind t called name. A nil objects uses the
// default instantiator. taskFactory is handed to the binary's task collection.
//
// Every failure is reported as *ModelInstantiationError, except requests for
// abstract types which yield *ConfigurationError.
func (f *Factory) Create(ctx context.Context, t reflect.Type, name string, objects apis.ObjectFactory, taskFactory apis.TaskFactory) (_ Spec, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := f.tracer.Start(ctx, "binary.Create", trace.WithAttributes(AttrBinaryName.String(name)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			f.log.Error(err, "binary creation failed", "name", name)
		}
		span.End()
	}()

	if t == nil {
		return nil, &ModelInstantiationError{TypeName: "<nil>", Cause: ErrNilType}
	}
	nt, err := uref.Normalize(t, f.cfg)
	if err != nil {
		return nil, &ModelInstantiationError{TypeName: t.String(), Cause: err}
	}
	typeName := uref.SimpleName(nt)
	span.SetAttributes(AttrBinaryType.String(typeName))

	if err := checkKind(nt); err != nil {
		var ce *ConfigurationError
		if errors.As(err, &ce) {
			return nil, ce
		}
		return nil, &ModelInstantiationError{TypeName: typeName, Cause: err}
	}
	if objects == nil {
		objects = f.objects
	}

	cctx, err := construction.Set(ctx, construction.Info{
		Name:     name,
		TypeName: typeName,
		Objects:  objects,
		Tasks:    taskFactory,
	})
	if err != nil {
		return nil, &ModelInstantiationError{TypeName: typeName, Cause: err}
	}
	defer construction.Clear(cctx)

	spec, err := f.instantiate(cctx, objects, nt, typeName)
	if err != nil {
		return nil, err
	}

	b := spec.base()
	b.decision.SetPredicate(spec.BinaryBuildAbility)

	span.SetAttributes(AttrBinaryID.String(b.id.String()))
	f.log.V(f.cfg.LogVerbosity).Info("created binary", "name", name, "type", typeName, "id", b.id.String())
	return spec, nil
}

// instantiate runs the object factory on the pointer type of nt and checks
// that the result was constructed by this call.
func (f *Factory) instantiate(ctx context.Context, objects apis.ObjectFactory, nt reflect.Type, typeName string) (spec Spec, err error) {
	defer func() {
		if r := recover(); r != nil {
			spec = nil
			err = &ModelInstantiationError{TypeName: typeName, Cause: fmt.Errorf("object factory panicked: %v", r)}
		}
	}()

	v, err := objects.NewInstance(ctx, reflect.PointerTo(nt))
	if err != nil {
		cause := err
		var ie *instantiator.InstantiationError
		if errors.As(err, &ie) && ie.Cause != nil {
			cause = ie.Cause
		}
		return nil, &ModelInstantiationError{TypeName: typeName, Cause: cause}
	}

	spec, ok := v.(Spec)
	if !ok || isNil(v) {
		return nil, &ModelInstantiationError{TypeName: typeName, Cause: fmt.Errorf("%w: object factory returned %T", ErrNotBinary, v)}
	}

	b := spec.base()
	if !b.constructed {
		// The object factory did not run the construction hook.
		if err := b.Construct(ctx); err != nil {
			return nil, &ModelInstantiationError{TypeName: typeName, Cause: err}
		}
	} else if construction.Pending(ctx) {
		// Constructed, but not from this call's context.
		return nil, &ModelInstantiationError{TypeName: typeName, Cause: ErrNotFactoryCreated}
	}
	return spec, nil
}

// CreateRegistered creates a binary of the kind registered under typeName.
func (f *Factory) CreateRegistered(ctx context.Context, typeName, name string, objects apis.ObjectFactory, taskFactory apis.TaskFactory) (Spec, error) {
	if f.types == nil {
		return nil, ErrNoTypeRegistry
	}
	t, ok := f.types.Lookup(typeName)
	if !ok {
		return nil, &UnknownBinaryTypeError{TypeName: typeName, Known: f.types.Names()}
	}
	return f.Create(ctx, t, name, objects, taskFactory)
}

// Create creates a binary of kind T called name.
func Create[T Spec](ctx context.Context, f *Factory, name string, objects apis.ObjectFactory, taskFactory apis.TaskFactory) (T, error) {
	var zero T
	s, err := f.Create(ctx, reflect.TypeFor[T](), name, objects, taskFactory)
	if err != nil {
		return zero, err
	}
	v, ok := s.(T)
	if !ok {
		return zero, &ModelInstantiationError{
			TypeName: s.TypeName(),
			Cause:    fmt.Errorf("%w: got %T, want %s", ErrNotBinary, s, reflect.TypeFor[T]()),
		}
	}
	return v, nil
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	return !rv.IsValid() || (rv.Kind() == reflect.Pointer && rv.IsNil())
}
