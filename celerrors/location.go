// Copyright 2024 The CEL Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package celerrors

// Location identifies a 1-based line and 0-based column within a Source.
// NoLocation is returned when source position information is missing or
// inconsistent; rendering never aborts over a bad location.
type Location struct {
	line   int
	column int
}

// NoLocation marks an issue whose position could not be determined.
var NoLocation = Location{line: -1, column: -1}

// NewLocation constructs a Location.
func NewLocation(line, column int) Location {
	return Location{line: line, column: column}
}

// Line returns the 1-based line number, or -1 if unknown.
func (l Location) Line() int { return l.line }

// Column returns the 0-based column, or -1 if unknown.
func (l Location) Column() int { return l.column }

// Known reports whether the location carries real source position info.
func (l Location) Known() bool { return l.line >= 0 && l.column >= 0 }
