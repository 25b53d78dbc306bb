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

// Task is an opaque unit of build work bound to a model element.
// This package only needs its name; execution lives elsewhere.
type Task interface {
	Named
}

// TaskFactory is the task-creation capability threaded into every element's
// task collection. kind is an implementation-defined task type identifier.
type TaskFactory interface {
	CreateTask(name, kind string) (Task, error)
}
