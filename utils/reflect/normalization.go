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

package reflect

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"dirpx.dev/cmodel/apis"
	"dirpx.dev/cmodel/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping pointers)
	// is not a named type (e.g., anonymous struct, func, interface{}).
	ErrReflectTypeNotNamed = errors.New("reflect: type is not named")
)

// Normalize unwraps pointers according to cfg.MaxUnwrap and returns the
// nearest named type, or an error if none is found.
//
// Requested element types may be given as T, *T or **T; all of them
// identify the same element type T. Containers other than pointers are not
// unwrapped: a []T is not a request for a T.
//
// If MaxUnwrap <= 0, DefaultMaxUnwrap is used.
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	maxUnwrap := cfg.MaxUnwrap
	if maxUnwrap <= 0 {
		maxUnwrap = config.DefaultMaxUnwrap
	}

	for i := 0; t.Kind() == reflect.Ptr && i < maxUnwrap; i++ {
		t = t.Elem()
	}
	if t.Kind() == reflect.Ptr || t.Name() == "" {
		return nil, ErrReflectTypeNotNamed
	}
	return t, nil
}

// simpleNameCache caches simple names by type.
var simpleNameCache sync.Map // key: reflect.Type, val: string

// SimpleName returns the unqualified name of t with generic instantiation
// parameters stripped: "pkg.Jar[int]" -> "Jar". Pointers are unwrapped.
// It returns "" for nil or unnamed types.
func SimpleName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if v, ok := simpleNameCache.Load(t); ok {
		return v.(string)
	}

	base := t
	for base.Kind() == reflect.Ptr {
		base = base.Elem()
	}
	name := stripTypeParams(base.Name())

	simpleNameCache.Store(t, name)
	return name
}

// SimpleNames maps SimpleName over ts, preserving order.
func SimpleNames(ts []reflect.Type) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, SimpleName(t))
	}
	return out
}

// stripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
