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

package optional

import (
	"strings"
	"testing"

	"github.com/exprlang/celcheck/ast"
	"github.com/exprlang/celcheck/celenv"
	"github.com/exprlang/celcheck/decls"
	"github.com/exprlang/celcheck/types"
)

func ident(id int64, name string) *ast.Expr {
	return &ast.Expr{ID: id, Kind: ast.KindIdent, Ident: &ast.IdentExpr{Name: name}}
}

func intLit(id int64, v int64) *ast.Expr {
	return &ast.Expr{ID: id, Kind: ast.KindLiteral, Literal: &ast.Literal{Kind: ast.LiteralInt, IntValue: v}}
}

func strLit(id int64, v string) *ast.Expr {
	return &ast.Expr{ID: id, Kind: ast.KindLiteral, Literal: &ast.Literal{Kind: ast.LiteralString, StringValue: v}}
}

func call(id int64, fn string, args ...*ast.Expr) *ast.Expr {
	return &ast.Expr{ID: id, Kind: ast.KindCall, Call: &ast.CallExpr{Function: fn, Args: args}}
}

func instanceCall(id int64, fn string, target *ast.Expr, args ...*ast.Expr) *ast.Expr {
	return &ast.Expr{ID: id, Kind: ast.KindCall, Call: &ast.CallExpr{Function: fn, Target: target, Args: args}}
}

func TestOptionalOfAndValue(t *testing.T) {
	env, err := celenv.NewEnv(celenv.Lib(Library()))
	if err != nil {
		t.Fatalf("NewEnv() failed: %v", err)
	}
	// optional.of(1).value()
	expr := instanceCall(1, "value", call(2, "optional.of", intLit(3, 1)))
	out, iss := env.Check(expr, &ast.SourceInfo{}, nil)
	if iss.Err() != nil {
		t.Fatalf("Check() failed: %v", iss.Err())
	}
	if got := out.ResultType(); !types.Equal(got, types.Int) {
		t.Errorf("ResultType() = %s, want int", types.FormatType(got))
	}
}

func TestOptionalHasValueIsBool(t *testing.T) {
	env, err := celenv.NewEnv(celenv.Lib(Library()))
	if err != nil {
		t.Fatalf("NewEnv() failed: %v", err)
	}
	expr := instanceCall(1, "hasValue", call(2, "optional.of", intLit(3, 1)))
	out, iss := env.Check(expr, &ast.SourceInfo{}, nil)
	if iss.Err() != nil {
		t.Fatalf("Check() failed: %v", iss.Err())
	}
	if got := out.ResultType(); !types.Equal(got, types.Bool) {
		t.Errorf("ResultType() = %s, want bool", types.FormatType(got))
	}
}

func TestOptionalOrValuePreservesElementType(t *testing.T) {
	env, err := celenv.NewEnv(celenv.Lib(Library()))
	if err != nil {
		t.Fatalf("NewEnv() failed: %v", err)
	}
	// optional.of("x").orValue("y")
	expr := instanceCall(1, "orValue", call(2, "optional.of", strLit(3, "x")), strLit(4, "y"))
	out, iss := env.Check(expr, &ast.SourceInfo{}, nil)
	if iss.Err() != nil {
		t.Fatalf("Check() failed: %v", iss.Err())
	}
	if got := out.ResultType(); !types.Equal(got, types.String) {
		t.Errorf("ResultType() = %s, want string", types.FormatType(got))
	}
}

func TestOptionalIndexMapYieldsOptionalValue(t *testing.T) {
	env, err := celenv.NewEnv(
		celenv.Lib(Library()),
		celenv.Variable(decls.NewVariable("m", types.NewMap(types.String, types.Int))),
	)
	if err != nil {
		t.Fatalf("NewEnv() failed: %v", err)
	}
	// m[?"k"]
	expr := call(1, "_[?_]", ident(2, "m"), strLit(3, "k"))
	out, iss := env.Check(expr, &ast.SourceInfo{}, nil)
	if iss.Err() != nil {
		t.Fatalf("Check() failed: %v", iss.Err())
	}
	got := out.ResultType()
	if got.Kind() != types.KindAbstract || got.AbstractName() != OptionalTypeName {
		t.Errorf("ResultType() = %s, want optional_type(int)", types.FormatType(got))
	}
}

func TestOptionalListLiteralUnwrapsEntries(t *testing.T) {
	env, err := celenv.NewEnv(celenv.Lib(Library()))
	if err != nil {
		t.Fatalf("NewEnv() failed: %v", err)
	}
	// [?optional.of(1)] : the literal's element type is int, not optional(int).
	expr := &ast.Expr{ID: 1, Kind: ast.KindList, List: &ast.ListExpr{
		Elements:        []*ast.Expr{call(2, "optional.of", intLit(3, 1))},
		OptionalIndices: []int{0},
	}}
	out, iss := env.Check(expr, &ast.SourceInfo{}, nil)
	if iss.Err() != nil {
		t.Fatalf("Check() failed: %v", iss.Err())
	}
	got := out.ResultType()
	if got.Kind() != types.KindList || !types.Equal(got.ElemType(), types.Int) {
		t.Errorf("ResultType() = %s, want list(int)", types.FormatType(got))
	}
}

func TestOptionalListLiteralRejectsNonOptionalMarkedEntry(t *testing.T) {
	env, err := celenv.NewEnv(celenv.Lib(Library()))
	if err != nil {
		t.Fatalf("NewEnv() failed: %v", err)
	}
	// [?1]: an entry marked optional but whose value isn't an optional_type.
	expr := &ast.Expr{ID: 1, Kind: ast.KindList, List: &ast.ListExpr{
		Elements:        []*ast.Expr{intLit(2, 1)},
		OptionalIndices: []int{0},
	}}
	_, iss := env.Check(expr, &ast.SourceInfo{}, nil)
	if iss.Err() == nil {
		t.Fatal("Check() succeeded, want a type-mismatch error for a non-optional '?' entry")
	}
	if !strings.Contains(iss.Err().Error(), "expected type") {
		t.Errorf("Check() error = %v, want a type-mismatch message", iss.Err())
	}
}
