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
	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/trace"
)

// Config carries read-only construction knobs shared by factories and registries.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// MaxUnwrap limits pointer unwrapping when normalizing a requested type
	// (e.g. **JarBinary -> JarBinary). Acts as a safety guard against
	// pathological nesting.
	MaxUnwrap int

	// LogVerbosity is the logr V-level used for per-element construction logs.
	LogVerbosity int

	// Logger receives construction and registration events.
	// The zero value discards everything.
	Logger logr.Logger

	// TracerProvider supplies the tracer used around element creation.
	// Nil means the global otel provider.
	TracerProvider trace.TracerProvider
}
