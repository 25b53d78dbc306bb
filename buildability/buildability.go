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

// Package buildability computes whether a model element may be built.
//
// A Decision pairs the persistent "disabled" flag with an eligibility
// predicate. The flag always wins: a disabled element is not buildable no
// matter what its predicate says. Verdicts are evaluated on every query.
package buildability

import (
	"slices"

	"dirpx.dev/cmodel/apis"
)

// DisabledReason is the explanation given for an explicitly disabled element.
const DisabledReason = "Disabled by user"

// Predicate reports the self-assessed eligibility of an element.
type Predicate func() apis.BuildAbility

type verdict struct {
	ok      bool
	reasons []string
}

func (v verdict) IsBuildable() bool { return v.ok }

func (v verdict) Explain() []string {
	if v.ok {
		return nil
	}
	return slices.Clone(v.reasons)
}

// Fixed returns a constant verdict.
func Fixed(buildable bool) apis.BuildAbility {
	return verdict{ok: buildable}
}

// Buildable is the default verdict.
func Buildable() apis.BuildAbility { return Fixed(true) }

// Unbuildable returns a negative verdict carrying reasons.
func Unbuildable(reasons ...string) apis.BuildAbility {
	return verdict{reasons: slices.Clone(reasons)}
}

type combined []apis.BuildAbility

// Combine returns a verdict that is buildable only if all parts are.
// Parts are consulted on every query; nil parts are ignored.
func Combine(parts ...apis.BuildAbility) apis.BuildAbility {
	out := make(combined, 0, len(parts))
	for _, p := range parts {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (c combined) IsBuildable() bool {
	for _, p := range c {
		if !p.IsBuildable() {
			return false
		}
	}
	return true
}

func (c combined) Explain() []string {
	var out []string
	for _, p := range c {
		if !p.IsBuildable() {
			out = append(out, p.Explain()...)
		}
	}
	return out
}

// Decision is the build-ability state of one element.
// The zero value is enabled with the default predicate.
type Decision struct {
	disabled  bool
	predicate Predicate
}

// SetBuildable records an explicit user decision: false disables the
// element, true clears the flag and restores predicate-driven evaluation.
func (d *Decision) SetBuildable(buildable bool) { d.disabled = !buildable }

// Disabled reports whether the element was explicitly disabled.
func (d *Decision) Disabled() bool { return d.disabled }

// SetPredicate installs the eligibility predicate. nil restores the default.
func (d *Decision) SetPredicate(p Predicate) { d.predicate = p }

// Evaluate computes the current verdict.
func (d *Decision) Evaluate() apis.BuildAbility {
	if d.disabled {
		return Unbuildable(DisabledReason)
	}
	if d.predicate == nil {
		return Buildable()
	}
	if v := d.predicate(); v != nil {
		return v
	}
	return Buildable()
}
