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

// Package construction carries out-of-band construction metadata from a
// factory call into the constructor of the object being created.
//
// A model element's constructor has a fixed, argument-free shape from its
// author's point of view, yet the element needs its declared name, the
// requested type name and the creation capabilities. The factory installs an
// Info on a slot bound to a derived context.Context and hands that context to
// the object factory; the base constructor consumes it with Take.
//
// # Scope
//
// A slot lives in exactly one derived context, so concurrent constructions,
// each driven by its own context, never observe each other's Info. A slot
// holds at most one pending Info: Set refuses to shadow a slot that has not
// been consumed yet. Callers pair every Set with a deferred Clear:
//
//	ctx, err := construction.Set(ctx, info)
//	if err != nil {
//	    return err
//	}
//	defer construction.Clear(ctx)
//
// Once cleared, a captured context can no longer be used to construct
// another element.
package construction
