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

package decls

// macroArities is the (name, arity) table of every built-in macro the
// parser recognizes, including the optional-type plug-in's optMap/
// optFlatMap. arity counts the call-site operand total: the receiver plus
// its arguments for a receiver-style invocation like `e.map(x, y)` (arity
// 3), or the bare argument count for a global-style one like `has(e.f)`
// (arity 1). The builder rejects any function declaration whose (name,
// arity) lands on one of these entries, since a macro always wins over a
// same-named function at that call shape.
var macroArities = map[string]map[int]bool{
	"has":        {1: true},
	"map":        {3: true, 4: true},
	"filter":     {3: true},
	"exists":     {3: true},
	"exists_one": {3: true},
	"all":        {3: true},
	"optMap":     {3: true},
	"optFlatMap": {3: true},
}

// CollidesWithMacro reports whether a function overload named name with the
// given operand arity would be indistinguishable from a macro invocation.
func CollidesWithMacro(name string, arity int) bool {
	return macroArities[name][arity]
}
