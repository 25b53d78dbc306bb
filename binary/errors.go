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

package binary

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAbstractType is returned for requests to create Base or an interface type.
	ErrAbstractType = errors.New("cmodel(binary): abstract type")
	// ErrNotFactoryCreated is returned when Base is constructed outside a factory call.
	ErrNotFactoryCreated = errors.New("cmodel(binary): not created by a factory")
	// ErrAlreadyConstructed is returned when Construct runs twice on one Base.
	ErrAlreadyConstructed = errors.New("cmodel(binary): already constructed")
	// ErrNotBinary is returned when a type or value does not embed Base.
	ErrNotBinary = errors.New("cmodel(binary): type does not embed binary.Base")
	// ErrNoTypeRegistry is returned by CreateRegistered on a factory without a type registry.
	ErrNoTypeRegistry = errors.New("cmodel(binary): factory has no type registry")
	// ErrUnknownBinaryType is matched by every *UnknownBinaryTypeError.
	ErrUnknownBinaryType = errors.New("cmodel(binary): unknown binary type")
	// ErrConflictingRegistration indicates two different types with the same simple name.
	ErrConflictingRegistration = errors.New("cmodel(binary): conflicting type registration")
)

// ConfigurationError reports misuse of the construction machinery.
type ConfigurationError struct {
	Msg string
	Err error
}

func (e *ConfigurationError) Error() string { return e.Msg }

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ModelInstantiationError reports that a binary of TypeName could not be created.
type ModelInstantiationError struct {
	TypeName string
	Cause    error
}

func (e *ModelInstantiationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("could not create binary of type %s", e.TypeName)
	}
	return fmt.Sprintf("could not create binary of type %s: %v", e.TypeName, e.Cause)
}

func (e *ModelInstantiationError) Unwrap() error { return e.Cause }

// UnknownBinaryTypeError reports a create request naming an unregistered type.
type UnknownBinaryTypeError struct {
	TypeName string
	Known    []string
}

func (e *UnknownBinaryTypeError) Error() string {
	known := "(None)"
	if len(e.Known) > 0 {
		known = strings.Join(e.Known, ", ")
	}
	return fmt.Sprintf("cannot create a binary of type '%s' because this type is not registered. Known types are: %s",
		e.TypeName, known)
}

// Is makes errors.Is(err, ErrUnknownBinaryType) hold.
func (e *UnknownBinaryTypeError) Is(target error) bool { return target == ErrUnknownBinaryType }
