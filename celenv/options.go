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

package celenv

import (
	"fmt"

	"github.com/exprlang/celcheck/containers"
	"github.com/exprlang/celcheck/decls"
	"github.com/exprlang/celcheck/schema"
	"github.com/exprlang/celcheck/types"
)

// Container sets the environment's container name, the root namespace
// qualified names are resolved relative to.
func Container(name string) EnvOption {
	return func(e *Env) (*Env, error) {
		e.containerOpts = append(e.containerOpts, containers.Name(name))
		return e, nil
	}
}

// Abbrevs registers one or more fully-qualified names as container
// aliases, resolvable by their last identifier segment.
func Abbrevs(qualifiedNames ...string) EnvOption {
	return func(e *Env) (*Env, error) {
		e.containerOpts = append(e.containerOpts, containers.Aliases(qualifiedNames...))
		return e, nil
	}
}

// Schema installs the protobuf-backed (or test-fixture) schema oracle the
// environment resolves message/enum/field shapes against. An environment
// with no Schema option can still check expressions that never reference a
// message type.
func Schema(oracle schema.Oracle) EnvOption {
	return func(e *Env) (*Env, error) {
		e.oracle = oracle
		return e, nil
	}
}

// Variable declares a top-level variable.
func Variable(v *decls.VariableDecl) EnvOption {
	return func(e *Env) (*Env, error) {
		e.variables = append(e.variables, v)
		return e, nil
	}
}

// VariableOrReplace declares a variable, silently replacing any prior
// declaration of the same name regardless of type compatibility (the
// "add_or_replace_variable" builder call), unlike Variable which errors
// on a conflicting redeclaration.
func VariableOrReplace(v *decls.VariableDecl) EnvOption {
	return func(e *Env) (*Env, error) {
		e.replaceVariables = append(e.replaceVariables, v)
		return e, nil
	}
}

// Function declares a function, merging with any same-named function
// already present.
func Function(fn *decls.FunctionDecl) EnvOption {
	return func(e *Env) (*Env, error) {
		e.functions = append(e.functions, fn)
		return e, nil
	}
}

// Lib installs a reusable declaration bundle (e.g. the optional-type
// plug-in).
func Lib(lib Library) EnvOption {
	return func(e *Env) (*Env, error) {
		e.libraries = append(e.libraries, lib)
		return e, nil
	}
}

// AddLibrarySubset restricts libraryID's contributed functions to the
// overloads for which predicate returns true, dropping a function entirely
// once none of its overloads survive. Exactly one subset may be registered
// per library id; a second AddLibrarySubset for the same id is an error at
// build time, as is a libraryID naming no registered Lib().
func AddLibrarySubset(libraryID string, predicate SubsetPredicate) EnvOption {
	return func(e *Env) (*Env, error) {
		if libraryID == "" {
			return nil, fmt.Errorf("library subset requires a non-empty library id")
		}
		if e.librarySubsets == nil {
			e.librarySubsets = make(map[string]SubsetPredicate)
		}
		if _, found := e.librarySubsets[libraryID]; found {
			return nil, fmt.Errorf("library %q already has a subset predicate", libraryID)
		}
		e.librarySubsets[libraryID] = predicate
		return e, nil
	}
}

// NoStandardLibrary excludes the built-in operator/conversion/collection
// declaration set, for an environment that declares everything itself.
func NoStandardLibrary() EnvOption {
	return func(e *Env) (*Env, error) {
		e.noStdLib = true
		return e, nil
	}
}

// EnableLegacyNullAssignment permits Null to unify with Message, Any,
// Duration, Timestamp, and Abstract types (wrapper types accept Null
// regardless). This is the default; the option
// exists for embedders that want it explicit at the call site, or after a
// prior DisableLegacyNullAssignment in the same option list.
func EnableLegacyNullAssignment() EnvOption {
	return func(e *Env) (*Env, error) {
		e.enableLegacyNullAssignment = true
		return e, nil
	}
}

// DisableLegacyNullAssignment turns off the default null-unifies-with-
// Message/Any/Duration/Timestamp/Abstract rule, for an embedder that
// wants `null` rejected outright at those assignment sites. Wrapper types
// still accept `null`.
func DisableLegacyNullAssignment() EnvOption {
	return func(e *Env) (*Env, error) {
		e.enableLegacyNullAssignment = false
		return e, nil
	}
}

// MaxErrorIssues overrides the error-cap default (celerrors.DefaultMaxErrorIssues).
func MaxErrorIssues(max int) EnvOption {
	return func(e *Env) (*Env, error) {
		e.maxErrorIssues = max
		return e, nil
	}
}

// MaxExprNodeCount overrides the node-count guard (checker.DefaultMaxExprNodeCount).
func MaxExprNodeCount(max int) EnvOption {
	return func(e *Env) (*Env, error) {
		e.maxNodeCount = max
		return e, nil
	}
}

// CrossNumericComparisons installs the pairwise int/uint/double comparison
// overloads for <, <=, >, >=, opt-in because ordinary environments reject
// comparisons between differing numeric types outright.
func CrossNumericComparisons() EnvOption {
	return func(e *Env) (*Env, error) {
		e.crossNumericComparisons = true
		return e, nil
	}
}

// UpdateStructTypeNames toggles whether a message literal's reference is
// recorded under its resolved, fully-qualified type name (the default,
// enabled) or the name the author wrote at the call site.
func UpdateStructTypeNames(enabled bool) EnvOption {
	return func(e *Env) (*Env, error) {
		e.updateStructTypeNames = enabled
		return e, nil
	}
}

// ContextDeclaration expands messageName's non-oneof fields into top-level
// variables, one per field, so an expression can reference them directly as
// identifiers. messageName must be IsContextEligible per the active schema
// oracle unless WellKnownTypeContextDeclarations is also set.
func ContextDeclaration(messageName string) EnvOption {
	return func(e *Env) (*Env, error) {
		e.contextDecls = append(e.contextDecls, messageName)
		return e, nil
	}
}

// WellKnownTypeContextDeclarations relaxes ContextDeclaration's eligibility
// check to also permit well-known wrapper/Any/Duration/Timestamp messages.
func WellKnownTypeContextDeclarations() EnvOption {
	return func(e *Env) (*Env, error) {
		e.allowWKTContextDecls = true
		return e, nil
	}
}

// ExpectedType constrains the whole expression's result type: Check
// reports a type mismatch if the expression's inferred root type does not
// assign to t.
func ExpectedType(t *types.Type) EnvOption {
	return func(e *Env) (*Env, error) {
		e.expectedType = t
		return e, nil
	}
}
