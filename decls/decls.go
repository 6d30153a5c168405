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

// Package decls provides the variable and function declaration model: the
// shape the checker's environment is built from, and the helpers used to
// construct it.
package decls

import (
	"fmt"

	"github.com/exprlang/celcheck/types"
)

// Constant is an optional compile-time value attached to an identifier
// declaration, used for enum constants so that a reference to a named enum
// value can be resolved without runtime support.
type Constant struct {
	IntValue int64
}

// VariableDecl binds a qualified name to a type, with an optional constant
// value (used for enum constants promoted to idents).
type VariableDecl struct {
	Name     string
	Type     *types.Type
	Constant *Constant
}

// NewVariable creates a variable declaration with no constant value.
func NewVariable(name string, t *types.Type) *VariableDecl {
	return &VariableDecl{Name: name, Type: t}
}

// NewConstant creates a variable declaration carrying a known integer value,
// used to expose protobuf enum values as top-level identifiers.
func NewConstant(name string, t *types.Type, value int64) *VariableDecl {
	return &VariableDecl{Name: name, Type: t, Constant: &Constant{IntValue: value}}
}

// OverloadDecl is a single candidate signature of a function: a unique
// overload id, its receiver-style flag, its parameter types, its result
// type, and the set of free type-parameter ids scoped to this overload
// alone.
type OverloadDecl struct {
	ID                 string
	IsInstanceFunction bool
	ParamTypes         []*types.Type
	ResultType         *types.Type
	TypeParams         []string
}

// NewOverload declares a non-generic, non-receiver-style overload.
func NewOverload(id string, paramTypes []*types.Type, result *types.Type) *OverloadDecl {
	return &OverloadDecl{ID: id, ParamTypes: paramTypes, ResultType: result}
}

// NewInstanceOverload declares a non-generic, receiver-style overload;
// ParamTypes[0] is the type of the call's target/receiver.
func NewInstanceOverload(id string, paramTypes []*types.Type, result *types.Type) *OverloadDecl {
	return &OverloadDecl{ID: id, IsInstanceFunction: true, ParamTypes: paramTypes, ResultType: result}
}

// NewParameterizedOverload declares a generic, non-receiver-style overload.
// typeParams must list exactly the type-parameter ids appearing anywhere in
// paramTypes or result.
func NewParameterizedOverload(id string, paramTypes []*types.Type, result *types.Type, typeParams []string) *OverloadDecl {
	return &OverloadDecl{ID: id, ParamTypes: paramTypes, ResultType: result, TypeParams: typeParams}
}

// NewParameterizedInstanceOverload declares a generic, receiver-style overload.
func NewParameterizedInstanceOverload(id string, paramTypes []*types.Type, result *types.Type, typeParams []string) *OverloadDecl {
	return &OverloadDecl{ID: id, IsInstanceFunction: true, ParamTypes: paramTypes, ResultType: result, TypeParams: typeParams}
}

// FunctionDecl is a named function together with its ordered overload set.
// Order determines the order of the overload ids recorded for a call site;
// when more than one overload matches, the resolver keeps their result type
// if all agree and widens it to Dyn otherwise (see checker/resolver.go).
type FunctionDecl struct {
	Name      string
	Overloads []*OverloadDecl
}

// NewFunction declares a function with one or more overloads.
func NewFunction(name string, overloads ...*OverloadDecl) *FunctionDecl {
	return &FunctionDecl{Name: name, Overloads: overloads}
}

// Merge appends other's overloads to fn's, used when two libraries both
// contribute overloads to a function of the same name. It does not check
// for overload-id collisions; callers (the builder) are responsible for
// that check across the whole environment.
func (fn *FunctionDecl) Merge(other *FunctionDecl) *FunctionDecl {
	merged := &FunctionDecl{Name: fn.Name}
	merged.Overloads = append(merged.Overloads, fn.Overloads...)
	merged.Overloads = append(merged.Overloads, other.Overloads...)
	return merged
}

// Subset returns a copy of fn containing only the overloads for which
// keep(overloadID) reports true, and whether any overload survived (a
// function with zero surviving overloads is reported absent rather than
// returned empty, since an empty FunctionDecl would be a different thing
// from "this function is not in the subset").
func (fn *FunctionDecl) Subset(keep func(overloadID string) bool) (*FunctionDecl, bool) {
	var kept []*OverloadDecl
	for _, o := range fn.Overloads {
		if keep(o.ID) {
			kept = append(kept, o)
		}
	}
	if len(kept) == 0 {
		return nil, false
	}
	return &FunctionDecl{Name: fn.Name, Overloads: kept}, true
}

// FunctionType returns the internal function-shaped type used by the
// overload resolver to unify a call site against this overload: the
// parameter list and result type, generalized over any free parameters.
func (o *OverloadDecl) FunctionType() *types.Type {
	return types.NewFunction(o.ResultType, o.ParamTypes...)
}

// TypeParamSet returns the overload's free type-parameter ids as a set, for
// quick collision checks between a call's fresh instantiation and the
// overload's declared set.
func (o *OverloadDecl) TypeParamSet() map[string]bool {
	set := make(map[string]bool, len(o.TypeParams))
	for _, p := range o.TypeParams {
		set[p] = true
	}
	return set
}

func (o *OverloadDecl) String() string {
	style := "func"
	if o.IsInstanceFunction {
		style = "method"
	}
	return fmt.Sprintf("%s %s%s -> %s", style, o.ID, paramsString(o.ParamTypes), types.FormatType(o.ResultType))
}

func paramsString(params []*types.Type) string {
	s := "("
	for i, p := range params {
		if i > 0 {
			s += ", "
		}
		s += types.FormatType(p)
	}
	return s + ")"
}
