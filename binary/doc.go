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

// Package binary implements buildable binaries, the polymorphic model
// elements at the root of the construction subsystem.
//
// A binary kind is an ordinary struct embedding Base:
//
//	type JvmLibrary struct {
//	    binary.Base
//	    Target string
//	}
//
//	// Init is optional and runs after Base is populated.
//	func (b *JvmLibrary) Init() error {
//	    b.Target = "17"
//	    return nil
//	}
//
//	// BinaryBuildAbility is optional and replaces the default predicate.
//	func (b *JvmLibrary) BinaryBuildAbility() apis.BuildAbility {
//	    return buildability.Fixed(b.Target != "")
//	}
//
// Instances are produced only by Factory. The factory hands the element name,
// the requested type name and the task and object creation capabilities to
// the embedded Base through the construction context carried by ctx, so the
// kind never declares a constructor and never sees that metadata. A Base that
// was not reached through a factory call refuses to construct.
//
// Build-ability is evaluated on every query. SetBuildable(false) disables the
// element and always wins over the kind's own predicate.
package binary
