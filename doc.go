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

// Package cmodel provides a process-wide entry point to binary construction.
//
// cmodel lets build logic declare new kinds of binaries as ordinary Go
// structs embedding binary.Base, and create them by type or by declared type
// name. The framework hands each new binary its name, its kind name and its
// task and object creation capabilities without the kind declaring a
// constructor.
//
// # Design
//
// The package holds a read-mostly global snapshot with:
//
//   - Config: normalization limits, the logger and the tracer provider.
//
//   - Registry: the binary kinds declared up front, keyed by simple name.
//
//   - Factory: creates binaries. It is rebuilt from the Config and the
//     Registry whenever either changes.
//
//   - ObjectFactory: allocates binaries and runs their construction hooks.
//
//   - Builder: constructs Registry and Factory for a Config, migrating the
//     declarations of the previous Registry.
//
// Readers load the current snapshot atomically and never take locks:
//
//	lib, err := cmodel.Create[*JvmLibrary](ctx, "main", tasks)
//
// Writers (SetConfig, SetBuilder, SetRegistry, SetObjectFactory, SetExt,
// SetAll) take a short build mutex, derive a new snapshot and publish it.
//
// # Pinning
//
// SetRegistry pins the given registry: later SetConfig or SetBuilder calls
// rebuild the Factory but keep that Registry until UnpinRegistry.
//
// # Service scopes
//
// ServicePlugin exposes the snapshot through services registries so that
// each build gets its own type registry and factory.
package cmodel
