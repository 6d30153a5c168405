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
	"strings"
	"testing"

	"github.com/exprlang/celcheck/ast"
	"github.com/exprlang/celcheck/celerrors"
	"github.com/exprlang/celcheck/decls"
	"github.com/exprlang/celcheck/schema"
	"github.com/exprlang/celcheck/types"
)

// fakeOracle is a minimal in-memory schema.Oracle fixture, avoiding a
// dependency on generated proto descriptors for checker-only tests.
type fakeOracle struct {
	messages map[string]*schema.MessageDescriptor
	enums    map[string]*schema.EnumDescriptor
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{
		messages: make(map[string]*schema.MessageDescriptor),
		enums:    make(map[string]*schema.EnumDescriptor),
	}
}

func (f *fakeOracle) FindMessage(name string) (*schema.MessageDescriptor, bool) {
	md, ok := f.messages[name]
	return md, ok
}
func (f *fakeOracle) FindEnum(name string) (*schema.EnumDescriptor, bool) {
	ed, ok := f.enums[name]
	return ed, ok
}
func (f *fakeOracle) IsContextEligible(name string) bool {
	_, ok := f.messages[name]
	return ok
}
func (f *fakeOracle) FieldType(md *schema.MessageDescriptor, fieldName string) (*schema.FieldDescriptor, bool) {
	fd, ok := md.Fields[fieldName]
	return fd, ok
}

func ident(id int64, name string) *ast.Expr {
	return &ast.Expr{ID: id, Kind: ast.KindIdent, Ident: &ast.IdentExpr{Name: name}}
}

func intLit(id int64, v int64) *ast.Expr {
	return &ast.Expr{ID: id, Kind: ast.KindLiteral, Literal: &ast.Literal{Kind: ast.LiteralInt, IntValue: v}}
}

func strLit(id int64, v string) *ast.Expr {
	return &ast.Expr{ID: id, Kind: ast.KindLiteral, Literal: &ast.Literal{Kind: ast.LiteralString, StringValue: v}}
}

func addFn() *decls.FunctionDecl {
	return decls.NewFunction("_+_", decls.NewOverload("add_int64", []*types.Type{types.Int, types.Int}, types.Int))
}

func newTestEnv(t *testing.T, oracle schema.Oracle) *Env {
	t.Helper()
	env := NewEnv(nil, oracle)
	if err := env.AddFunction(addFn()); err != nil {
		t.Fatalf("AddFunction() failed: %v", err)
	}
	return env
}

func checkExpr(env *Env, e *ast.Expr) (*ast.CheckedAST, *celerrors.TypeErrors) {
	errs := celerrors.NewTypeErrors(celerrors.NewErrors(nil, env.container.Name(), 20))
	return Check(e, &ast.SourceInfo{}, env, errs), errs
}

func TestCheckSelectOnMessage(t *testing.T) {
	oracle := newFakeOracle()
	oracle.messages["pkg.Account"] = &schema.MessageDescriptor{
		FullName: "pkg.Account",
		Fields: map[string]*schema.FieldDescriptor{
			"name": {Name: "name", Type: types.String, SupportsPresence: true},
		},
	}
	env := newTestEnv(t, oracle)
	if err := env.AddVariable(decls.NewVariable("acct", types.NewMessage("pkg.Account"))); err != nil {
		t.Fatalf("AddVariable() failed: %v", err)
	}
	sel := &ast.Expr{ID: 1, Kind: ast.KindSelect, Select: &ast.SelectExpr{
		Operand: ident(2, "acct"), Field: "name",
	}}
	out, errs := checkExpr(env, sel)
	if errs.HasErrors() {
		t.Fatalf("Check() reported errors: %v", errs.String())
	}
	if got := out.TypeOf(1); !types.Equal(got, types.String) {
		t.Errorf("TypeOf(select) = %s, want string", types.FormatType(got))
	}
}

func TestCheckSelectUndefinedField(t *testing.T) {
	oracle := newFakeOracle()
	oracle.messages["pkg.Account"] = &schema.MessageDescriptor{FullName: "pkg.Account", Fields: map[string]*schema.FieldDescriptor{}}
	env := newTestEnv(t, oracle)
	if err := env.AddVariable(decls.NewVariable("acct", types.NewMessage("pkg.Account"))); err != nil {
		t.Fatalf("AddVariable() failed: %v", err)
	}
	sel := &ast.Expr{ID: 1, Kind: ast.KindSelect, Select: &ast.SelectExpr{Operand: ident(2, "acct"), Field: "missing"}}
	_, errs := checkExpr(env, sel)
	if !errs.HasErrors() {
		t.Fatal("Check() succeeded, want an undefined-field error")
	}
}

func TestCheckSelectTestOnlyIsAlwaysBool(t *testing.T) {
	oracle := newFakeOracle()
	oracle.messages["pkg.Account"] = &schema.MessageDescriptor{
		FullName: "pkg.Account",
		Fields: map[string]*schema.FieldDescriptor{
			"name": {Name: "name", Type: types.String, SupportsPresence: true},
		},
	}
	env := newTestEnv(t, oracle)
	if err := env.AddVariable(decls.NewVariable("acct", types.NewMessage("pkg.Account"))); err != nil {
		t.Fatalf("AddVariable() failed: %v", err)
	}
	sel := &ast.Expr{ID: 1, Kind: ast.KindSelect, Select: &ast.SelectExpr{
		Operand: ident(2, "acct"), Field: "name", TestOnly: true,
	}}
	out, errs := checkExpr(env, sel)
	if errs.HasErrors() {
		t.Fatalf("Check() reported errors: %v", errs.String())
	}
	if got := out.TypeOf(1); !types.Equal(got, types.Bool) {
		t.Errorf("TypeOf(has(...)) = %s, want bool", types.FormatType(got))
	}
}

func TestCheckSelectOnMap(t *testing.T) {
	env := newTestEnv(t, nil)
	if err := env.AddVariable(decls.NewVariable("m", types.NewMap(types.String, types.Int))); err != nil {
		t.Fatalf("AddVariable() failed: %v", err)
	}
	sel := &ast.Expr{ID: 1, Kind: ast.KindSelect, Select: &ast.SelectExpr{Operand: ident(2, "m"), Field: "k"}}
	out, errs := checkExpr(env, sel)
	if errs.HasErrors() {
		t.Fatalf("Check() reported errors: %v", errs.String())
	}
	if got := out.TypeOf(1); !types.Equal(got, types.Int) {
		t.Errorf("TypeOf(m.k) = %s, want int", types.FormatType(got))
	}
}

func TestCheckSelectOnNonSelectableType(t *testing.T) {
	env := newTestEnv(t, nil)
	if err := env.AddVariable(decls.NewVariable("x", types.Int)); err != nil {
		t.Fatalf("AddVariable() failed: %v", err)
	}
	sel := &ast.Expr{ID: 1, Kind: ast.KindSelect, Select: &ast.SelectExpr{Operand: ident(2, "x"), Field: "f"}}
	_, errs := checkExpr(env, sel)
	if !errs.HasErrors() {
		t.Fatal("Check() succeeded, want a cannot-select error for a select off an int")
	}
}

func TestCheckListLiteralHomogenizesElements(t *testing.T) {
	env := newTestEnv(t, nil)
	list := &ast.Expr{ID: 1, Kind: ast.KindList, List: &ast.ListExpr{
		Elements: []*ast.Expr{intLit(2, 1), intLit(3, 2), intLit(4, 3)},
	}}
	out, errs := checkExpr(env, list)
	if errs.HasErrors() {
		t.Fatalf("Check() reported errors: %v", errs.String())
	}
	got := out.TypeOf(1)
	if got.Kind() != types.KindList || !types.Equal(got.ElemType(), types.Int) {
		t.Errorf("TypeOf(list) = %s, want list(int)", types.FormatType(got))
	}
}

func TestCheckEmptyListLiteralIsListDyn(t *testing.T) {
	env := newTestEnv(t, nil)
	list := &ast.Expr{ID: 1, Kind: ast.KindList, List: &ast.ListExpr{}}
	out, errs := checkExpr(env, list)
	if errs.HasErrors() {
		t.Fatalf("Check() reported errors: %v", errs.String())
	}
	got := out.TypeOf(1)
	if got.Kind() != types.KindList || !types.Equal(got.ElemType(), types.Dyn) {
		t.Errorf("TypeOf([]) = %s, want list(dyn)", types.FormatType(got))
	}
}

func TestCheckMapLiteralUnsupportedKeyIsWarningNotError(t *testing.T) {
	env := newTestEnv(t, nil)
	mapExpr := &ast.Expr{ID: 1, Kind: ast.KindStruct, Struct: &ast.StructExpr{
		Entries: []*ast.Entry{
			{Kind: ast.EntryMapKey, MapKey: &ast.Expr{ID: 2, Kind: ast.KindLiteral, Literal: &ast.Literal{Kind: ast.LiteralDouble, DoubleValue: 1.5}}, Value: strLit(3, "v")},
		},
	}}
	out, errs := checkExpr(env, mapExpr)
	if errs.HasErrors() {
		t.Fatalf("Check() reported errors for an unsupported map key, want only a warning: %v", errs.String())
	}
	issues := errs.Issues()
	if len(issues) != 1 || issues[0].Severity != celerrors.SeverityWarning {
		t.Errorf("Issues() = %+v, want exactly one warning", issues)
	}
	if got := out.TypeOf(1); got.Kind() != types.KindMap {
		t.Errorf("TypeOf(map literal) = %s, want a map type", types.FormatType(got))
	}
}

func TestCheckStructConstructionFieldTypeMismatch(t *testing.T) {
	oracle := newFakeOracle()
	oracle.messages["pkg.Account"] = &schema.MessageDescriptor{
		FullName: "pkg.Account",
		Fields: map[string]*schema.FieldDescriptor{
			"id": {Name: "id", Type: types.Int},
		},
	}
	env := newTestEnv(t, oracle)
	msg := &ast.Expr{ID: 1, Kind: ast.KindStruct, Struct: &ast.StructExpr{
		MessageName: "pkg.Account",
		Entries: []*ast.Entry{
			{Kind: ast.EntryField, Field: "id", Value: strLit(2, "not-an-int")},
		},
	}}
	_, errs := checkExpr(env, msg)
	if !errs.HasErrors() {
		t.Fatal("Check() succeeded, want a field-type-mismatch error")
	}
}

func TestCheckStructConstructionLegacyNullAssignment(t *testing.T) {
	oracle := newFakeOracle()
	oracle.messages["pkg.Account"] = &schema.MessageDescriptor{
		FullName: "pkg.Account",
		Fields: map[string]*schema.FieldDescriptor{
			"expiry": {Name: "expiry", Type: types.Duration},
		},
	}
	nullMsg := func() *ast.Expr {
		return &ast.Expr{ID: 1, Kind: ast.KindStruct, Struct: &ast.StructExpr{
			MessageName: "pkg.Account",
			Entries: []*ast.Entry{
				{Kind: ast.EntryField, Field: "expiry", Value: &ast.Expr{ID: 2, Kind: ast.KindLiteral, Literal: &ast.Literal{Kind: ast.LiteralNull}}},
			},
		}}
	}

	env := newTestEnv(t, oracle)
	env.SetLegacyNullAssignment(true)
	if _, errs := checkExpr(env, nullMsg()); errs.HasErrors() {
		t.Errorf("Check() with legacy null assignment enabled failed: %v", errs)
	}

	env2 := newTestEnv(t, oracle)
	env2.SetLegacyNullAssignment(false)
	if _, errs := checkExpr(env2, nullMsg()); !errs.HasErrors() {
		t.Error("Check() with legacy null assignment disabled succeeded, want a field-type-mismatch error")
	}
}

func TestCheckStructConstructionUndeclaredType(t *testing.T) {
	env := newTestEnv(t, newFakeOracle())
	msg := &ast.Expr{ID: 1, Kind: ast.KindStruct, Struct: &ast.StructExpr{MessageName: "pkg.Nope"}}
	_, errs := checkExpr(env, msg)
	if !errs.HasErrors() {
		t.Fatal("Check() succeeded, want an undeclared-reference error for an unknown message type")
	}
}

func TestCheckComprehensionAccumulatesOverList(t *testing.T) {
	env := newTestEnv(t, nil)
	if err := env.AddFunction(decls.NewFunction("_>_", decls.NewOverload("greater_int64", []*types.Type{types.Int, types.Int}, types.Bool))); err != nil {
		t.Fatalf("AddFunction() failed: %v", err)
	}
	if err := env.AddVariable(decls.NewVariable("nums", types.NewList(types.Int))); err != nil {
		t.Fatalf("AddVariable() failed: %v", err)
	}
	comp := &ast.Expr{ID: 1, Kind: ast.KindComprehension, Comprehension: &ast.ComprehensionExpr{
		IterVar:   "x",
		IterRange: ident(2, "nums"),
		AccuVar:   "__result__",
		AccuInit:  &ast.Expr{ID: 3, Kind: ast.KindLiteral, Literal: &ast.Literal{Kind: ast.LiteralBool, BoolValue: true}},
		LoopCondition: &ast.Expr{ID: 4, Kind: ast.KindLiteral, Literal: &ast.Literal{Kind: ast.LiteralBool, BoolValue: true}},
		LoopStep:      &ast.Expr{ID: 5, Kind: ast.KindCall, Call: &ast.CallExpr{Function: "_>_", Args: []*ast.Expr{ident(6, "x"), intLit(7, 0)}}},
		Result:        ident(8, "__result__"),
		MacroName:     "all",
	}}
	out, errs := checkExpr(env, comp)
	if errs.HasErrors() {
		t.Fatalf("Check() reported errors: %v", errs.String())
	}
	if got := out.TypeOf(1); !types.Equal(got, types.Bool) {
		t.Errorf("TypeOf(comprehension) = %s, want bool", types.FormatType(got))
	}
}

func TestCheckComprehensionNonIterableRangeReportsMacroName(t *testing.T) {
	env := newTestEnv(t, nil)
	comp := &ast.Expr{ID: 1, Kind: ast.KindComprehension, Comprehension: &ast.ComprehensionExpr{
		IterVar:       "x",
		IterRange:     intLit(2, 1),
		AccuVar:       "__result__",
		AccuInit:      &ast.Expr{ID: 3, Kind: ast.KindLiteral, Literal: &ast.Literal{Kind: ast.LiteralBool, BoolValue: true}},
		LoopCondition: &ast.Expr{ID: 4, Kind: ast.KindLiteral, Literal: &ast.Literal{Kind: ast.LiteralBool, BoolValue: true}},
		LoopStep:      &ast.Expr{ID: 5, Kind: ast.KindLiteral, Literal: &ast.Literal{Kind: ast.LiteralBool, BoolValue: true}},
		Result:        ident(6, "__result__"),
		MacroName:     "all",
	}}
	_, errs := checkExpr(env, comp)
	if !errs.HasErrors() {
		t.Fatal("Check() succeeded, want a not-a-comprehension-range error")
	}
	msg := errs.String()
	if !strings.Contains(msg, "'all'") {
		t.Errorf("error message %q, want it to name the 'all' macro", msg)
	}
}

func TestCheckNodeCountExceeded(t *testing.T) {
	env := newTestEnv(t, nil)
	env.SetMaxExprNodeCount(2)
	expr := &ast.Expr{ID: 1, Kind: ast.KindCall, Call: &ast.CallExpr{
		Function: "_+_",
		Args:     []*ast.Expr{intLit(2, 1), intLit(3, 2)},
	}}
	_, errs := checkExpr(env, expr)
	if !errs.HasErrors() {
		t.Fatal("Check() succeeded, want a node-count-exceeded error")
	}
}

func TestCheckQualifiedNamespacedFunctionCall(t *testing.T) {
	env := newTestEnv(t, nil)
	if err := env.AddFunction(decls.NewFunction("ns.f", decls.NewOverload("ns_f", []*types.Type{types.Int}, types.Bool))); err != nil {
		t.Fatalf("AddFunction() failed: %v", err)
	}
	call := &ast.Expr{ID: 1, Kind: ast.KindCall, Call: &ast.CallExpr{
		Target:   ident(2, "ns"),
		Function: "f",
		Args:     []*ast.Expr{intLit(3, 1)},
	}}
	out, errs := checkExpr(env, call)
	if errs.HasErrors() {
		t.Fatalf("Check() reported errors: %v", errs.String())
	}
	if got := out.TypeOf(1); !types.Equal(got, types.Bool) {
		t.Errorf("TypeOf(ns.f(1)) = %s, want bool", types.FormatType(got))
	}
}
