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
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"dirpx.dev/cmodel/apis"
	"dirpx.dev/cmodel/config"
	uref "dirpx.dev/cmodel/utils/reflect"
)

var (
	baseType = reflect.TypeFor[Base]()
	specType = reflect.TypeFor[Spec]()
)

// ErrNilType is returned when a nil reflect.Type is provided.
var ErrNilType = errors.New("cmodel(binary): nil reflect.Type provided")

// TypeRegistry maps simple type names to the binary kinds declared up front.
// It is safe for concurrent use.
type TypeRegistry struct {
	// cfg is the configuration used for type normalization.
	cfg apis.Config
	// mu guards write-side consistency and counter.
	mu sync.Mutex
	// byType maps reflect.Type to its registered name.
	byType sync.Map // map[reflect.Type]string
	// byName maps registered names back to reflect.Type.
	byName sync.Map // map[string]reflect.Type
	// count tracks the number of registered entries.
	count int
}

// NewTypeRegistry constructs a TypeRegistry that normalizes types according to cfg.
func NewTypeRegistry(cfg apis.Config) *TypeRegistry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &TypeRegistry{cfg: cfg}
}

// Register declares the binary kind t. t is normalized to its nearest named
// type, which must be a struct embedding Base. Registration is idempotent.
func (r *TypeRegistry) Register(t reflect.Type) error {
	if t == nil {
		return ErrNilType
	}
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return err
	}
	if err := checkKind(nt); err != nil {
		return err
	}
	name := uref.SimpleName(nt)

	// Fast read path.
	if old, ok := r.byName.Load(name); ok {
		if old.(reflect.Type) == nt {
			return nil
		}
		return fmt.Errorf("%w: %s and %s are both named %s", ErrConflictingRegistration, old, nt, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := r.byName.Load(name); ok {
		if old.(reflect.Type) == nt {
			return nil
		}
		return fmt.Errorf("%w: %s and %s are both named %s", ErrConflictingRegistration, old, nt, name)
	}

	r.byName.Store(name, nt)
	r.byType.Store(nt, name)
	r.count++
	r.cfg.Logger.V(r.cfg.LogVerbosity).Info("registered binary type", "type", name)
	return nil
}

// RegisterType declares the binary kind T.
func RegisterType[T Spec](r *TypeRegistry) error {
	return r.Register(reflect.TypeFor[T]())
}

// Lookup returns the type registered under name.
func (r *TypeRegistry) Lookup(name string) (reflect.Type, bool) {
	if v, ok := r.byName.Load(name); ok {
		return v.(reflect.Type), true
	}
	return nil, false
}

// NameOf returns the registered name of t, if any.
func (r *TypeRegistry) NameOf(t reflect.Type) (string, bool) {
	if t == nil {
		return "", false
	}
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return "", false
	}
	if v, ok := r.byType.Load(nt); ok {
		return v.(string), true
	}
	return "", false
}

// Entries returns a snapshot sorted by name.
func (r *TypeRegistry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.byType.Range(func(key, value any) bool {
		entries = append(entries, apis.Entry{
			Type: key.(reflect.Type),
			Name: value.(string),
		})
		return true
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// Names returns the registered names, sorted.
func (r *TypeRegistry) Names() []string {
	entries := r.Entries()
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

// Count returns the number of registered entries.
func (r *TypeRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *TypeRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType.Clear()
	r.byName.Clear()
	r.count = 0
}

// checkKind validates that nt can be created by a Factory.
func checkKind(nt reflect.Type) error {
	if nt == baseType || nt.Kind() == reflect.Interface {
		return &ConfigurationError{
			Msg: fmt.Sprintf("cannot create instance of abstract type %s", uref.SimpleName(nt)),
			Err: ErrAbstractType,
		}
	}
	if nt.Kind() != reflect.Struct || !reflect.PointerTo(nt).Implements(specType) {
		return fmt.Errorf("%w: %s", ErrNotBinary, nt)
	}
	return nil
}
