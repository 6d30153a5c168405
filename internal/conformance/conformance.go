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

// Package conformance runs a batch of hand-assembled check cases (an
// expression tree, a container, and a set of variable declarations) against
// an Env and reports the result type or the issues found, one case per
// line. It exists to exercise the checker end-to-end without depending on a
// parser, the way a conformance harness would against a full CEL pipeline.
package conformance

import (
	"fmt"

	"github.com/exprlang/celcheck/ast"
	"github.com/exprlang/celcheck/celenv"
	"github.com/exprlang/celcheck/decls"
	"github.com/exprlang/celcheck/types"
)

// Case is one conformance check: an already-built expression tree checked
// against an environment declaring variables before the check runs.
type Case struct {
	Name      string
	Expr      *ast.Expr
	Source    *ast.SourceInfo
	Container string
	Variables []*decls.VariableDecl
}

// Result is the outcome of running a single Case.
type Result struct {
	Name       string
	ResultType string
	Err        error
}

// Run checks each case against a fresh extension of base and returns one
// Result per case, in order.
func Run(base *celenv.Env, cases []Case) ([]Result, error) {
	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		opts := []celenv.EnvOption{celenv.Container(c.Container)}
		for _, v := range c.Variables {
			opts = append(opts, celenv.Variable(v))
		}
		env, err := base.Extend(opts...)
		if err != nil {
			return nil, fmt.Errorf("case %q: extending env: %w", c.Name, err)
		}
		source := c.Source
		if source == nil {
			source = &ast.SourceInfo{}
		}
		out, iss := env.Check(c.Expr, source, nil)
		if iss.Err() != nil {
			results = append(results, Result{Name: c.Name, Err: iss.Err()})
			continue
		}
		results = append(results, Result{Name: c.Name, ResultType: types.FormatType(out.ResultType())})
	}
	return results, nil
}
