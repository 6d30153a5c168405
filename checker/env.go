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

// Package checker type-checks a parsed expression against a set of
// identifier and function declarations.
package checker

import (
	"fmt"

	"github.com/exprlang/celcheck/containers"
	"github.com/exprlang/celcheck/decls"
	"github.com/exprlang/celcheck/schema"
	"github.com/exprlang/celcheck/types"
)

// Env is the resolved set of identifier and function declarations a Check
// call runs against: the merged variable/function tables, the active
// container for qualified-name resolution, and the schema oracle used to
// resolve protobuf message/enum/field shapes.
type Env struct {
	container *containers.Container
	oracle    schema.Oracle
	scopes    *decls.Scopes

	functions map[string]*decls.FunctionDecl

	enableLegacyNullAssignment bool
	homogeneousAggregates      bool
	maxExprNodeCount           int
	updateStructTypeNames      bool
	expectedType               *types.Type
}

// NewEnv builds an Env with no declarations; call AddVariable and
// AddFunction to populate it before use. container and oracle may be nil (containers.Default and a no-op
// oracle are substituted).
func NewEnv(container *containers.Container, oracle schema.Oracle) *Env {
	if container == nil {
		container = containers.Default
	}
	if oracle == nil {
		oracle = noopOracle{}
	}
	return &Env{
		container:             container,
		oracle:                oracle,
		scopes:                decls.NewScopes(),
		functions:             make(map[string]*decls.FunctionDecl),
		updateStructTypeNames: true,
	}
}

// Extend returns a shallow copy of e suitable for adding further
// declarations without mutating the parent, mirroring the builder's
// layered-library construction.
func (e *Env) Extend() *Env {
	cpy := &Env{
		container:                  e.container,
		oracle:                     e.oracle,
		scopes:                     decls.NewScopes(),
		functions:                  make(map[string]*decls.FunctionDecl, len(e.functions)),
		enableLegacyNullAssignment: e.enableLegacyNullAssignment,
		homogeneousAggregates:      e.homogeneousAggregates,
		maxExprNodeCount:           e.maxExprNodeCount,
		updateStructTypeNames:      e.updateStructTypeNames,
		expectedType:               e.expectedType,
	}
	for k, v := range e.functions {
		cpy.functions[k] = v
	}
	e.scopes.CopyInto(cpy.scopes)
	return cpy
}

// AddVariable declares a variable. It is an error to redeclare a name with
// an incompatible type.
func (e *Env) AddVariable(v *decls.VariableDecl) error {
	if existing, found := e.scopes.FindIdentInScope(v.Name); found {
		if !types.Equal(existing.Type, v.Type) {
			return fmt.Errorf("overlapping identifier for name '%s'", v.Name)
		}
		return nil
	}
	e.scopes.AddIdent(v)
	return nil
}

// AddOrReplaceVariable declares a variable, replacing any prior declaration
// of the same name regardless of type compatibility. This is the
// "redeclare" flavor distinguished from AddVariable's conflict-checking
// flavor; the builder uses it for VariableOrReplace declarations, which
// must win outright.
func (e *Env) AddOrReplaceVariable(v *decls.VariableDecl) {
	e.scopes.AddIdent(v)
}

// AddFunction declares a function, merging its overloads into any existing
// function of the same name. It is an error for the merge to introduce two
// overloads sharing an id but disagreeing on signature.
func (e *Env) AddFunction(fn *decls.FunctionDecl) error {
	existing, found := e.functions[fn.Name]
	if !found {
		e.functions[fn.Name] = fn
		e.scopes.AddFunction(fn)
		return nil
	}
	seen := make(map[string]*decls.OverloadDecl, len(existing.Overloads))
	for _, o := range existing.Overloads {
		seen[o.ID] = o
	}
	var added []*decls.OverloadDecl
	for _, o := range fn.Overloads {
		if prior, ok := seen[o.ID]; ok {
			if !overloadsEqual(prior, o) {
				return fmt.Errorf("overlapping overload for name '%s' (id '%s')", fn.Name, o.ID)
			}
			continue
		}
		added = append(added, o)
	}
	if len(added) == 0 {
		return nil
	}
	addedFn := decls.NewFunction(fn.Name, added...)
	e.functions[fn.Name] = existing.Merge(addedFn)
	// The scope table merges addedFn with the overloads it already holds.
	e.scopes.AddFunction(addedFn)
	return nil
}

func overloadsEqual(a, b *decls.OverloadDecl) bool {
	if a.IsInstanceFunction != b.IsInstanceFunction || len(a.ParamTypes) != len(b.ParamTypes) {
		return false
	}
	for i := range a.ParamTypes {
		if !types.Equal(a.ParamTypes[i], b.ParamTypes[i]) {
			return false
		}
	}
	return types.Equal(a.ResultType, b.ResultType)
}

// LookupIdent resolves name against the active container's candidate list,
// innermost comprehension scope outward, per §4.4.
func (e *Env) LookupIdent(name string) (*decls.VariableDecl, bool) {
	for _, candidate := range e.container.ResolveCandidateNames(name) {
		if v, found := e.scopes.FindIdent(candidate); found {
			return v, true
		}
		if ed, found := e.oracle.FindEnum(candidate); found {
			// A bare enum name is not resolved as an identifier here;
			// only enum values are, as int-typed constants below.
			_ = ed
		}
	}
	// Enum constant lookup: "pkg.Enum.VALUE" splits into enum name and
	// value name against the same candidate search.
	if v, found := e.lookupEnumConstant(name); found {
		return v, true
	}
	return nil, false
}

func (e *Env) lookupEnumConstant(name string) (*decls.VariableDecl, bool) {
	idx := lastDot(name)
	if idx < 0 {
		return nil, false
	}
	enumName, valueName := name[:idx], name[idx+1:]
	for _, candidate := range e.container.ResolveCandidateNames(enumName) {
		if ed, found := e.oracle.FindEnum(candidate); found {
			if val, found := ed.Values[valueName]; found {
				return decls.NewConstant(candidate+"."+valueName, types.Int, int64(val)), true
			}
		}
	}
	return nil, false
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}

// LookupFunction resolves name against the active container's candidate
// list, without involving the comprehension scope stack (functions are
// always declared in the base scope).
func (e *Env) LookupFunction(name string) (*decls.FunctionDecl, bool) {
	for _, candidate := range e.container.ResolveCandidateNames(name) {
		if fn, found := e.scopes.FindFunction(candidate); found {
			return fn, true
		}
	}
	return nil, false
}

// LookupTypeName resolves name to the fully-qualified name of a message
// type known to the schema oracle or of a protobuf well-known type,
// applying the same candidate-name search used for identifiers. Enum names
// are not resolved.
func (e *Env) LookupTypeName(name string) (string, bool) {
	for _, candidate := range e.container.ResolveCandidateNames(name) {
		if _, found := e.oracle.FindMessage(candidate); found {
			return candidate, true
		}
		if schema.IsWellKnown(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// SetLegacyNullAssignment toggles whether Null unifies with Message, Any,
// Duration, Timestamp, and Abstract types, for compatibility with older
// embedders that relied on that laxer rule. Wrapper types accept Null
// either way.
func (e *Env) SetLegacyNullAssignment(enabled bool) {
	e.enableLegacyNullAssignment = enabled
}

// SetMaxExprNodeCount overrides the node-count guard; 0 selects
// DefaultMaxExprNodeCount.
func (e *Env) SetMaxExprNodeCount(max int) {
	e.maxExprNodeCount = max
}

// SetUpdateStructTypeNames toggles whether a message-literal's reference is
// recorded under its resolved, fully-qualified type name (the default) or
// left as the name the author wrote in source.
func (e *Env) SetUpdateStructTypeNames(enabled bool) {
	e.updateStructTypeNames = enabled
}

// UpdateStructTypeNames reports the current setting, consulted by
// checkCreateMessage when recording a struct literal's reference.
func (e *Env) UpdateStructTypeNames() bool {
	return e.updateStructTypeNames
}

// SetExpectedType constrains the whole expression's inferred result type;
// nil (the default) leaves the expression's type unconstrained.
func (e *Env) SetExpectedType(t *types.Type) {
	e.expectedType = t
}

// ExpectedType reports the root-expression type constraint, or nil.
func (e *Env) ExpectedType() *types.Type {
	return e.expectedType
}

func (e *Env) enterScope() {
	e.scopes.Push()
}

func (e *Env) exitScope() {
	e.scopes.Pop()
}

// noopOracle is substituted when an embedder builds an Env with no schema
// oracle (an environment with no message types in play).
type noopOracle struct{}

func (noopOracle) FindMessage(string) (*schema.MessageDescriptor, bool) { return nil, false }
func (noopOracle) FindEnum(string) (*schema.EnumDescriptor, bool)       { return nil, false }
func (noopOracle) IsContextEligible(string) bool                        { return false }
func (noopOracle) FieldType(*schema.MessageDescriptor, string) (*schema.FieldDescriptor, bool) {
	return nil, false
}
