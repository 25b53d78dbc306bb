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

// Package tasks holds the task-binding collection of a model element.
package tasks

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"

	"dirpx.dev/cmodel/apis"
)

var (
	// ErrNoFactory is returned by Create when the collection has no task factory.
	ErrNoFactory = errors.New("cmodel(tasks): no task factory configured")
	// ErrDuplicateTask is returned when a task name is already bound.
	ErrDuplicateTask = errors.New("cmodel(tasks): duplicate task name")
	// ErrNilTask is returned by Add for a nil task.
	ErrNilTask = errors.New("cmodel(tasks): nil task")
	// ErrNameMismatch is returned by Create when the factory's task does not
	// carry the requested name.
	ErrNameMismatch = errors.New("cmodel(tasks): task name mismatch")
)

// FactoryFunc adapts a plain function to apis.TaskFactory.
type FactoryFunc func(name, kind string) (apis.Task, error)

// CreateTask implements apis.TaskFactory for FactoryFunc.
func (f FactoryFunc) CreateTask(name, kind string) (apis.Task, error) { return f(name, kind) }

// Collection is the ordered set of tasks bound to one owner.
type Collection struct {
	owner   apis.Named
	factory apis.TaskFactory
	tasks   []apis.Task
	byName  map[string]apis.Task
}

// New constructs an empty Collection for owner. factory may be nil, in which
// case only Add is usable.
func New(owner apis.Named, factory apis.TaskFactory) *Collection {
	return &Collection{
		owner:   owner,
		factory: factory,
		byName:  make(map[string]apis.Task),
	}
}

// TaskName derives a lower-camel task name from verb, the owner's name and
// target, e.g. ("compile", "java") on owner "main" gives "compileMainJava".
// Empty parts are skipped.
func (c *Collection) TaskName(verb, target string) string {
	title := cases.Title(xlang.Und, cases.NoLower)
	var sb strings.Builder
	for _, part := range []string{verb, c.owner.Name(), target} {
		for _, w := range strings.FieldsFunc(part, isSeparator) {
			if sb.Len() == 0 {
				sb.WriteString(lowerFirst(w))
				continue
			}
			sb.WriteString(title.String(w))
		}
	}
	return sb.String()
}

// Create asks the task factory for a task of kind and binds it under name.
func (c *Collection) Create(name, kind string) (apis.Task, error) {
	if c.factory == nil {
		return nil, ErrNoFactory
	}
	if _, ok := c.byName[name]; ok {
		return nil, fmt.Errorf("%w: %q on %s", ErrDuplicateTask, name, c.owner.Name())
	}
	t, err := c.factory.CreateTask(name, kind)
	if err != nil {
		return nil, fmt.Errorf("cmodel(tasks): create %q (%s): %w", name, kind, err)
	}
	if t == nil {
		return nil, ErrNilTask
	}
	if t.Name() != name {
		return nil, fmt.Errorf("%w: factory returned %q for %q on %s", ErrNameMismatch, t.Name(), name, c.owner.Name())
	}
	c.bind(t)
	return t, nil
}

// Add binds an existing task.
func (c *Collection) Add(t apis.Task) error {
	if t == nil {
		return ErrNilTask
	}
	if _, ok := c.byName[t.Name()]; ok {
		return fmt.Errorf("%w: %q on %s", ErrDuplicateTask, t.Name(), c.owner.Name())
	}
	c.bind(t)
	return nil
}

// Get returns the task bound under name.
func (c *Collection) Get(name string) (apis.Task, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// All returns the bound tasks in binding order.
func (c *Collection) All() []apis.Task { return slices.Clone(c.tasks) }

// Len returns the number of bound tasks.
func (c *Collection) Len() int { return len(c.tasks) }

func (c *Collection) bind(t apis.Task) {
	c.tasks = append(c.tasks, t)
	c.byName[t.Name()] = t
}

func isSeparator(r rune) bool {
	return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}
