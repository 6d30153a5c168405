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

package checker

import (
	"github.com/exprlang/celcheck/ast"
	"github.com/exprlang/celcheck/celerrors"
	"github.com/exprlang/celcheck/decls"
	"github.com/exprlang/celcheck/types"
)

// overloadResolution is the outcome of resolving a call site against a
// function's declared overloads: the surviving overload ids (for the
// reference map) and the call's result type.
type overloadResolution struct {
	reference *ast.Reference
	resultType *types.Type
}

// resolveOverload finds every overload of fn compatible with the call style
// (instance vs. static) and assignable from argTypes, instantiating each
// generic overload's type parameters with fresh type variables first. A
// single match determines the result type outright; multiple matches keep
// that type when every match yields the same result type and widen the
// result to Dyn otherwise. No match reports NoMatchingOverload and returns
// nil.
func (c *checker) resolveOverload(loc celerrors.Location, fn *decls.FunctionDecl, isInstanceCall bool, argTypes []*types.Type) *overloadResolution {
	var resultType *types.Type
	var overloadIDs []string

	for _, overload := range fn.Overloads {
		if overload.IsInstanceFunction != isInstanceCall {
			continue
		}

		overloadType := overload.FunctionType()
		if len(overload.TypeParams) > 0 {
			substitutions := types.NewMapping()
			for _, typeParam := range overload.TypeParams {
				substitutions.Add(types.NewTypeParam(typeParam), c.newTypeVar())
			}
			overloadType = types.Substitute(substitutions, overloadType, false)
		}

		candidateArgs := overloadType.FunctionArgs()
		if c.isAssignableList(argTypes, candidateArgs) {
			overloadIDs = append(overloadIDs, overload.ID)
			candidateResult := types.Substitute(c.mappings, overloadType.FunctionResult(), false)
			if resultType == nil {
				resultType = candidateResult
			} else if !types.Equal(resultType, candidateResult) {
				resultType = types.Dyn
			}
		}
	}

	if resultType == nil {
		c.errors.NoMatchingOverload(loc, fn.Name, argTypes, isInstanceCall)
		return nil
	}
	return &overloadResolution{
		reference:  &ast.Reference{Name: fn.Name, OverloadIDs: overloadIDs},
		resultType: resultType,
	}
}
