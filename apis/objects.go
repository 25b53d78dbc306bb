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

package apis

import (
	"context"
	"reflect"
)

// ObjectFactory is the object-creation capability used to allocate model
// elements and their collaborators.
//
// NewInstance returns a pointer to a freshly constructed value of t. The
// context is the construction context of the call; implementations must pass
// it unchanged to any construction hooks they run, because out-of-band
// construction metadata travels in it. Failures are reported as errors, never
// as panics.
type ObjectFactory interface {
	NewInstance(ctx context.Context, t reflect.Type, args ...any) (any, error)
}

// ObjectFactoryFunc adapts a plain function to the ObjectFactory interface.
type ObjectFactoryFunc func(ctx context.Context, t reflect.Type, args ...any) (any, error)

// NewInstance implements ObjectFactory for ObjectFactoryFunc.
func (f ObjectFactoryFunc) NewInstance(ctx context.Context, t reflect.Type, args ...any) (any, error) {
	return f(ctx, t, args...)
}
