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

// Command conformance runs a small built-in battery of checker conformance
// cases and prints the resolved result type (or the reported issues) for
// each, one line per case.
package main

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/exprlang/celcheck/ast"
	"github.com/exprlang/celcheck/celenv"
	"github.com/exprlang/celcheck/decls"
	"github.com/exprlang/celcheck/internal/conformance"
	"github.com/exprlang/celcheck/types"
)

func ident(id int64, name string) *ast.Expr {
	return &ast.Expr{ID: id, Kind: ast.KindIdent, Ident: &ast.IdentExpr{Name: name}}
}

func intLit(id int64, v int64) *ast.Expr {
	return &ast.Expr{ID: id, Kind: ast.KindLiteral, Literal: &ast.Literal{Kind: ast.LiteralInt, IntValue: v}}
}

func call(id int64, fn string, args ...*ast.Expr) *ast.Expr {
	return &ast.Expr{ID: id, Kind: ast.KindCall, Call: &ast.CallExpr{Function: fn, Args: args}}
}

func main() {
	base, err := celenv.NewEnv()
	if err != nil {
		glog.Exitf("building base environment: %v", err)
	}

	cases := []conformance.Case{
		{
			Name: "arithmetic",
			Expr: call(1, "_+_", intLit(2, 1), intLit(3, 2)),
		},
		{
			Name:      "variable lookup",
			Expr:      ident(1, "x"),
			Variables: []*decls.VariableDecl{decls.NewVariable("x", types.Int)},
		},
		{
			Name: "undeclared reference",
			Expr: ident(1, "unknown"),
		},
	}

	results, err := conformance.Run(base, cases)
	if err != nil {
		glog.Exitf("running conformance cases: %v", err)
	}
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%-24s FAIL: %v\n", r.Name, r.Err)
			continue
		}
		fmt.Printf("%-24s OK: %s\n", r.Name, r.ResultType)
	}
}
