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

// Package optional declares the optional-type plug-in: the abstract
// optional_type(T) and the functions/operators that construct, test, and
// unwrap it. It contributes declarations only — constructing an Optional
// value is a runtime concern outside this module's scope.
package optional

import (
	"github.com/exprlang/celcheck/celenv"
	"github.com/exprlang/celcheck/decls"
	"github.com/exprlang/celcheck/operators"
	"github.com/exprlang/celcheck/overloads"
	"github.com/exprlang/celcheck/types"
)

// OptionalTypeName re-exports the abstract type constructor name for
// optional_type(T) so embedders outside this module don't need to import
// the types package just to recognize it.
const OptionalTypeName = types.OptionalTypeName

// library is the Library the builder plugs in via celenv.Lib.
type library struct{}

// Library returns the optional-type plug-in as a pluggable celenv.Library.
func Library() celenv.Library {
	return library{}
}

// LibraryName implements the celenv.Library interface method.
func (library) LibraryName() string {
	return "cel.lib.optional"
}

func (library) CompileOptions() []celenv.EnvOption {
	paramA := types.NewTypeParam("A")
	typeParamAList := []string{"A"}
	optionalOfA := types.NewAbstract(OptionalTypeName, paramA)
	listOfA := types.NewList(paramA)
	paramB := types.NewTypeParam("B")
	typeParamABList := []string{"A", "B"}
	mapOfAB := types.NewMap(paramA, paramB)

	return []celenv.EnvOption{
		celenv.Function(decls.NewFunction("optional.of",
			decls.NewParameterizedOverload(overloads.OptionalOf,
				[]*types.Type{paramA}, optionalOfA, typeParamAList))),

		celenv.Function(decls.NewFunction("optional.ofNonZeroValue",
			decls.NewParameterizedOverload(overloads.OptionalOfNonZeroValue,
				[]*types.Type{paramA}, optionalOfA, typeParamAList))),

		celenv.Variable(decls.NewVariable("optional.none", optionalOfA)),

		celenv.Function(decls.NewFunction("hasValue",
			decls.NewParameterizedInstanceOverload(overloads.OptionalHasValue,
				[]*types.Type{optionalOfA}, types.Bool, typeParamAList))),

		celenv.Function(decls.NewFunction("value",
			decls.NewParameterizedInstanceOverload(overloads.OptionalValue,
				[]*types.Type{optionalOfA}, paramA, typeParamAList))),

		celenv.Function(decls.NewFunction("or",
			decls.NewParameterizedInstanceOverload(overloads.OptionalOr,
				[]*types.Type{optionalOfA, optionalOfA}, optionalOfA, typeParamAList))),

		celenv.Function(decls.NewFunction("orValue",
			decls.NewParameterizedInstanceOverload(overloads.OptionalOrValue,
				[]*types.Type{optionalOfA, paramA}, paramA, typeParamAList))),

		// `_?._` select-or-none and `_[?_]` index-or-none. The select takes
		// the field name as a plain string, so its optional's element type
		// is left unconstrained (dyn once checking finishes); the index
		// yields an optional of the list element or map value type.
		celenv.Function(decls.NewFunction(operators.OptSelect,
			decls.NewParameterizedOverload(overloads.OptSelect,
				[]*types.Type{types.Dyn, types.String}, optionalOfA, typeParamAList))),

		celenv.Function(decls.NewFunction(operators.OptIndex,
			decls.NewParameterizedOverload(overloads.OptIndexList,
				[]*types.Type{listOfA, types.Int}, optionalOfA, typeParamAList),
			decls.NewParameterizedOverload(overloads.OptIndexMap,
				[]*types.Type{mapOfAB, paramA}, types.NewAbstract(OptionalTypeName, paramB), typeParamABList))),

		// optMap/optFlatMap back the `.optMap(x, e)` / `.optFlatMap(x, e)`
		// comprehension macros: the backing function's declared signature
		// only matters for a direct (non-macro-expanded) call site, since
		// the macro itself expands to a ComprehensionExpr the checker
		// types structurally.
		celenv.Function(decls.NewFunction("optMap",
			decls.NewParameterizedInstanceOverload(overloads.OptMap,
				[]*types.Type{optionalOfA, types.NewFunction(paramB, paramA)},
				types.NewAbstract(OptionalTypeName, paramB), typeParamABList))),

		celenv.Function(decls.NewFunction("optFlatMap",
			decls.NewParameterizedInstanceOverload(overloads.OptFlatMap,
				[]*types.Type{optionalOfA, types.NewFunction(types.NewAbstract(OptionalTypeName, paramB), paramA)},
				types.NewAbstract(OptionalTypeName, paramB), typeParamABList))),
	}
}
