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

// BuildAbility is a buildable/not-buildable verdict for a model element.
// Verdicts are computed on demand and must not be cached by callers.
type BuildAbility interface {
	// IsBuildable reports whether the element may currently be built.
	IsBuildable() bool
	// Explain returns the reasons the element is not buildable.
	// It returns nil when IsBuildable is true.
	Explain() []string
}
