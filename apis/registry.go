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

import "reflect"

// Named is implemented by every entity that lives in a named collection.
// Names are immutable once the entity has been constructed.
type Named interface {
	// Name returns the entity name, unique within its owning collection.
	Name() string
}

// DisplayNamed adds a human-oriented name used in logs and error messages.
type DisplayNamed interface {
	Named
	// DisplayName returns a description such as "JarBinary 'main'".
	DisplayName() string
}

// Entry is a single (type, name) association in a registry snapshot.
type Entry struct {
	// Type is the registered reflect.Type.
	Type reflect.Type
	// Name is the associated name.
	Name string
}
