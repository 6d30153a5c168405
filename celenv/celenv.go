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

// Package celenv is the public builder: it assembles an immutable checking
// environment from declarations, libraries, and options, and runs Check
// against it, collecting the result into an Ast/Issues pair.
package celenv

import (
	"errors"
	"fmt"

	"github.com/exprlang/celcheck/ast"
	"github.com/exprlang/celcheck/celerrors"
	"github.com/exprlang/celcheck/checker"
	"github.com/exprlang/celcheck/containers"
	"github.com/exprlang/celcheck/decls"
	"github.com/exprlang/celcheck/schema"
	"github.com/exprlang/celcheck/stdlib"
	"github.com/exprlang/celcheck/types"
)

// Library is a reusable bundle of declarations (and, by implication, the
// functions/macros they back) pluggable into an environment, the unit the
// optional-type plug-in and any embedder-defined extension is packaged as.
type Library interface {
	// LibraryName identifies the library for duplicate-registration
	// rejection (two Lib() calls with the same non-empty name collide at
	// build time) and for AddLibrarySubset targeting. "" opts out of
	// both: an anonymous library may be registered any number of times,
	// but no subset predicate can address it.
	LibraryName() string
	// CompileOptions returns the EnvOptions this library contributes.
	CompileOptions() []EnvOption
}

// SubsetPredicate reports whether overload overloadID of function fnName
// survives an AddLibrarySubset filter.
type SubsetPredicate func(fnName, overloadID string) bool

// Env is the immutable, built checking environment. Construct one with
// NewEnv and any number of EnvOptions, then call Check.
type Env struct {
	container        *containers.Container
	containerOpts    []containers.Option
	oracle           schema.Oracle
	variables        []*decls.VariableDecl
	replaceVariables []*decls.VariableDecl
	functions        []*decls.FunctionDecl
	libraries        []Library
	librarySubsets   map[string]SubsetPredicate
	maxErrorIssues   int
	maxNodeCount     int

	noStdLib                   bool
	enableLegacyNullAssignment bool
	crossNumericComparisons    bool
	updateStructTypeNames      bool

	contextDecls         []string
	allowWKTContextDecls bool
	expectedType         *types.Type

	chk *checker.Env
}

// EnvOption configures an Env during NewEnv/Extend; it mirrors the
// teacher's functional-options builder so an embedder composes an
// environment the same way it composes the reference implementation's.
type EnvOption func(*Env) (*Env, error)

// NewEnv builds an Env from opts. The standard library is included unless
// NoStandardLibrary is one of opts.
func NewEnv(opts ...EnvOption) (*Env, error) {
	e := &Env{
		container:                  containers.Default,
		maxErrorIssues:             celerrors.DefaultMaxErrorIssues,
		updateStructTypeNames:      true,
		enableLegacyNullAssignment: true,
	}
	return e.configure(opts...)
}

// Extend returns a new Env seeded with e's declarations and options plus
// opts, without mutating e. This mirrors the reference builder's Extend,
// used to layer a request-scoped variable onto a shared base environment.
func (e *Env) Extend(opts ...EnvOption) (*Env, error) {
	ext := &Env{
		container:                  e.container,
		containerOpts:              append([]containers.Option{}, e.containerOpts...),
		oracle:                     e.oracle,
		variables:                  append([]*decls.VariableDecl{}, e.variables...),
		replaceVariables:           append([]*decls.VariableDecl{}, e.replaceVariables...),
		functions:                  append([]*decls.FunctionDecl{}, e.functions...),
		libraries:                  append([]Library{}, e.libraries...),
		librarySubsets:             copyLibrarySubsets(e.librarySubsets),
		maxErrorIssues:             e.maxErrorIssues,
		maxNodeCount:               e.maxNodeCount,
		noStdLib:                   e.noStdLib,
		enableLegacyNullAssignment: e.enableLegacyNullAssignment,
		crossNumericComparisons:    e.crossNumericComparisons,
		updateStructTypeNames:      e.updateStructTypeNames,
		contextDecls:               nil, // e.variables already holds the fields e's context declarations expanded to
		allowWKTContextDecls:       e.allowWKTContextDecls,
		expectedType:               e.expectedType,
	}
	return ext.configure(opts...)
}

func (e *Env) configure(opts ...EnvOption) (*Env, error) {
	var err error
	for _, opt := range opts {
		e, err = opt(e)
		if err != nil {
			return nil, err
		}
	}
	if err := validateLibraryNames(e.libraries); err != nil {
		return nil, fmt.Errorf("celenv: %w", err)
	}
	functionOwner := make(map[*decls.FunctionDecl]string)
	for _, lib := range e.libraries {
		before := len(e.functions)
		for _, opt := range lib.CompileOptions() {
			e, err = opt(e)
			if err != nil {
				return nil, err
			}
		}
		for i := before; i < len(e.functions); i++ {
			functionOwner[e.functions[i]] = lib.LibraryName()
		}
	}
	if err := e.applyLibrarySubsets(functionOwner); err != nil {
		return nil, fmt.Errorf("celenv: %w", err)
	}

	container, err := containers.New(e.containerOpts...)
	if err != nil {
		return nil, err
	}
	e.container = container

	chk := checker.NewEnv(container, e.oracle)
	chk.SetLegacyNullAssignment(e.enableLegacyNullAssignment)
	chk.SetMaxExprNodeCount(e.maxNodeCount)
	chk.SetUpdateStructTypeNames(e.updateStructTypeNames)
	chk.SetExpectedType(e.expectedType)

	if !e.noStdLib {
		stdVars, stdFns := stdlib.Declarations()
		e.variables = append(append([]*decls.VariableDecl{}, stdVars...), e.variables...)
		e.functions = append(append([]*decls.FunctionDecl{}, stdFns...), e.functions...)
	}
	if e.crossNumericComparisons {
		e.functions = append(e.functions, stdlib.CrossTypeNumericOverloads()...)
	}
	if err := e.resolveContextDeclarations(); err != nil {
		return nil, fmt.Errorf("celenv: %w", err)
	}
	for _, fn := range e.functions {
		for _, o := range fn.Overloads {
			if decls.CollidesWithMacro(fn.Name, len(o.ParamTypes)) {
				return nil, fmt.Errorf("celenv: function %q overload %q collides with a built-in macro", fn.Name, o.ID)
			}
		}
	}
	for _, v := range e.variables {
		if err := chk.AddVariable(v); err != nil {
			return nil, fmt.Errorf("celenv: %w", err)
		}
	}
	for _, v := range e.replaceVariables {
		chk.AddOrReplaceVariable(v)
	}
	for _, fn := range e.functions {
		if err := chk.AddFunction(fn); err != nil {
			return nil, fmt.Errorf("celenv: %w", err)
		}
	}
	e.chk = chk
	return e, nil
}

// validateLibraryNames rejects a second registration of any non-empty
// Library.LibraryName, per spec.md §4.9: "libraries with the same
// non-empty id collide on second registration." An anonymous library
// ("") may be registered any number of times.
func validateLibraryNames(libs []Library) error {
	seen := make(map[string]bool, len(libs))
	for _, lib := range libs {
		name := lib.LibraryName()
		if name == "" {
			continue
		}
		if seen[name] {
			return fmt.Errorf("library %q registered more than once", name)
		}
		seen[name] = true
	}
	return nil
}

// applyLibrarySubsets filters, for each AddLibrarySubset predicate, the
// functions contributed by the matching library's CompileOptions down to
// the overloads the predicate keeps, dropping a function entirely once it
// has no surviving overload. Declarations added directly (not through a
// library) or through a library with no subset predicate are left alone,
// per spec.md §4.9's "declarations added by other libraries or directly
// are never affected."
func (e *Env) applyLibrarySubsets(owner map[*decls.FunctionDecl]string) error {
	if len(e.librarySubsets) == 0 {
		return nil
	}
	libNames := make(map[string]bool, len(e.libraries))
	for _, lib := range e.libraries {
		if name := lib.LibraryName(); name != "" {
			libNames[name] = true
		}
	}
	for id := range e.librarySubsets {
		if !libNames[id] {
			return fmt.Errorf("library subset: no registered library named %q", id)
		}
	}

	filtered := make([]*decls.FunctionDecl, 0, len(e.functions))
	for _, fn := range e.functions {
		libID, ownedByLib := owner[fn]
		predicate, hasSubset := e.librarySubsets[libID]
		if !ownedByLib || !hasSubset {
			filtered = append(filtered, fn)
			continue
		}
		name := fn.Name
		if subset, ok := fn.Subset(func(overloadID string) bool { return predicate(name, overloadID) }); ok {
			filtered = append(filtered, subset)
		}
	}
	e.functions = filtered
	return nil
}

// copyLibrarySubsets returns an independent copy of m for Extend, so a
// child environment's AddLibrarySubset calls never mutate the parent's.
func copyLibrarySubsets(m map[string]SubsetPredicate) map[string]SubsetPredicate {
	if len(m) == 0 {
		return nil
	}
	cpy := make(map[string]SubsetPredicate, len(m))
	for k, v := range m {
		cpy[k] = v
	}
	return cpy
}

// resolveContextDeclarations expands each message named by a
// ContextDeclaration/WellKnownTypeContextDeclarations option into one
// top-level variable per non-oneof field, the "context proto" pattern that
// lets an expression reference a message's fields directly as identifiers.
func (e *Env) resolveContextDeclarations() error {
	if len(e.contextDecls) == 0 {
		return nil
	}
	if e.oracle == nil {
		return fmt.Errorf("context declaration requires a Schema oracle")
	}
	seen := make(map[string]string, len(e.variables))
	for _, v := range e.variables {
		seen[v.Name] = "<declared>"
	}
	for _, name := range e.contextDecls {
		if !e.allowWKTContextDecls && !e.oracle.IsContextEligible(name) {
			return fmt.Errorf("message %q is not eligible for use as a context declaration", name)
		}
		md, found := e.oracle.FindMessage(name)
		if !found {
			return fmt.Errorf("context declaration: unknown message %q", name)
		}
		for fieldName, fd := range md.Fields {
			if fd.OneofName != "" {
				continue
			}
			if prior, ok := seen[fieldName]; ok {
				return fmt.Errorf("context declaration: field %q of %q collides with %q", fieldName, name, prior)
			}
			seen[fieldName] = name
			e.variables = append(e.variables, decls.NewVariable(fieldName, fd.Type))
		}
	}
	return nil
}

// Check type-checks expr/sourceInfo against the environment, returning the
// annotated Ast on success and a non-nil Issues whenever at least one
// Error-severity diagnostic was recorded (warnings alone still yield a
// usable Ast alongside non-nil Issues).
func (e *Env) Check(expr *ast.Expr, sourceInfo *ast.SourceInfo, source celerrors.Source) (*Ast, *Issues) {
	errs := celerrors.NewTypeErrors(celerrors.NewErrors(source, e.container.Name(), e.maxErrorIssues))
	checked := checker.Check(expr, sourceInfo, e.chk, errs)

	var issues *Issues
	if len(errs.Issues()) > 0 {
		issues = &Issues{errs: errs.Errors}
	}
	if errs.HasErrors() {
		return nil, issues
	}
	return &Ast{checked: checked}, issues
}

// Ast is the result of a successful Check: the original expression plus
// its per-node type and reference annotations.
type Ast struct {
	checked *ast.CheckedAST
}

// Expr returns the checked expression tree, unchanged from the input.
func (a *Ast) Expr() *ast.Expr { return a.checked.Expr }

// ResultType returns the type inferred for the whole expression.
func (a *Ast) ResultType() *types.Type { return a.checked.TypeOf(a.checked.Expr.ID) }

// TypeOf returns the type inferred for expression id.
func (a *Ast) TypeOf(id ast.Int64ID) *types.Type { return a.checked.TypeOf(id) }

// ReferenceOf returns the reference recorded for expression id, if any.
func (a *Ast) ReferenceOf(id ast.Int64ID) *ast.Reference { return a.checked.ReferenceOf(id) }

// Issues holds the diagnostics produced by a Check call, whether or not
// that call also returned a usable Ast.
type Issues struct {
	errs *celerrors.Errors
}

// Err returns a non-nil error (rendering every issue) iff at least one
// Error-severity issue was recorded.
func (i *Issues) Err() error {
	if i == nil || !i.errs.HasErrors() {
		return nil
	}
	return errors.New(i.errs.String())
}

// List returns every recorded issue, errors and warnings alike.
func (i *Issues) List() []*celerrors.Issue {
	if i == nil {
		return nil
	}
	return i.errs.Issues()
}

// String renders every recorded issue, one per line.
func (i *Issues) String() string {
	if i == nil {
		return ""
	}
	return i.errs.String()
}
