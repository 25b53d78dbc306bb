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

package construction

import (
	"context"
	"errors"
	"sync/atomic"

	"dirpx.dev/cmodel/apis"
)

// ErrPending is returned by Set when ctx already carries an unconsumed Info.
var ErrPending = errors.New("cmodel(construction): a construction context is already pending")

// Info is the metadata handed from a factory call to the constructor it triggers.
type Info struct {
	// Name is the requested element name.
	Name string
	// TypeName is the simple name of the most-derived requested type.
	TypeName string
	// Objects is the object-creation capability of the call.
	Objects apis.ObjectFactory
	// Tasks is the task-creation capability of the call.
	Tasks apis.TaskFactory
}

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

// slot is the single pending Info of one construction call.
type slot struct {
	info atomic.Pointer[Info]
}

// Set returns a context derived from ctx that carries info as the pending
// construction context.
func Set(ctx context.Context, info Info) (context.Context, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if Pending(ctx) {
		return ctx, ErrPending
	}
	s := &slot{}
	s.info.Store(&info)
	return context.WithValue(ctx, key{}, s), nil
}

// Get returns the pending Info carried by ctx, if any.
func Get(ctx context.Context) (Info, bool) {
	s := slotFrom(ctx)
	if s == nil {
		return Info{}, false
	}
	if p := s.info.Load(); p != nil {
		return *p, true
	}
	return Info{}, false
}

// Take returns the pending Info carried by ctx and clears it.
// At most one caller observes a given Info.
func Take(ctx context.Context) (Info, bool) {
	s := slotFrom(ctx)
	if s == nil {
		return Info{}, false
	}
	if p := s.info.Swap(nil); p != nil {
		return *p, true
	}
	return Info{}, false
}

// Clear removes the pending Info carried by ctx. It is idempotent.
func Clear(ctx context.Context) {
	if s := slotFrom(ctx); s != nil {
		s.info.Store(nil)
	}
}

// Pending reports whether ctx carries an unconsumed Info.
func Pending(ctx context.Context) bool {
	s := slotFrom(ctx)
	return s != nil && s.info.Load() != nil
}

func slotFrom(ctx context.Context) *slot {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(key{}).(*slot)
	return s
}
