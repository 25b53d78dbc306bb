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

package services

import (
	"fmt"
	"strings"
)

// Scope is the lifetime of a service registry.
//
// # Values
//
//   - Global: one per process.
//   - BuildSession: one per long-lived build session (daemon connection).
//   - Build: one per build invocation.
//   - Project: one per project of a build.
//
// Scopes are ordered from widest to narrowest. A registry may only have
// children of a strictly narrower scope, and lookups fall back from a
// narrower registry to its wider ancestors.
type Scope int

const (
	// Global services live for the whole process.
	Global Scope = iota
	// BuildSession services live as long as one build session.
	BuildSession
	// Build services live for one build invocation.
	Build
	// Project services are private to one project.
	Project
)

// String returns the canonical token of s, or "Unknown(<n>)".
func (s Scope) String() string {
	switch s {
	case Global:
		return "Global"
	case BuildSession:
		return "BuildSession"
	case Build:
		return "Build"
	case Project:
		return "Project"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// Valid reports whether s is a defined scope.
func (s Scope) Valid() bool { return s >= Global && s <= Project }

// Narrower reports whether s is strictly narrower than other.
func (s Scope) Narrower(other Scope) bool { return s > other }

// Parse parses a scope token, case-insensitively and ignoring surrounding
// whitespace. On failure it returns Global and a non-nil error.
func Parse(s string) (Scope, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Global, fmt.Errorf("services: empty scope")
	}

	switch strings.ToLower(trimmed) {
	case "global":
		return Global, nil
	case "buildsession", "build_session", "build-session":
		return BuildSession, nil
	case "build":
		return Build, nil
	case "project":
		return Project, nil
	default:
		return Global, fmt.Errorf("services: unknown scope %q", s)
	}
}

// MustParse is like Parse but panics on invalid input.
func MustParse(s string) Scope {
	scope, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return scope
}

// MarshalText implements encoding.TextMarshaler. Unknown values are an error.
func (s Scope) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("services: cannot marshal unknown scope %d", s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. On failure *s is unchanged.
func (s *Scope) UnmarshalText(text []byte) error {
	value, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = value
	return nil
}
