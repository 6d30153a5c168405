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

package types

import "testing"

func TestFormatType(t *testing.T) {
	tests := []struct {
		in   *Type
		want string
	}{
		{Int, "int"},
		{Uint, "uint"},
		{NewList(String), "list(string)"},
		{NewMap(String, Int), "map(string, int)"},
		{NewWrapper(Int), "wrapper(int)"},
		{NewMessage("pkg.Foo"), "pkg.Foo"},
		{NewTypeOf(Dyn), "type(dyn)"},
		{NewAbstract("optional_type", String), "optional_type(string)"},
		{Null, "null_type"},
		{Error, "!error!"},
	}
	for _, tc := range tests {
		if got := FormatType(tc.in); got != tc.want {
			t.Errorf("FormatType(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal(NewList(Int), NewList(Int)) {
		t.Error("expected list(int) == list(int)")
	}
	if Equal(NewList(Int), NewList(String)) {
		t.Error("expected list(int) != list(string)")
	}
	if !Equal(NewTypeParam("A"), NewTypeParam("A")) {
		t.Error("expected type params with equal id to be equal")
	}
	if Equal(NewTypeParam("A"), NewTypeParam("B")) {
		t.Error("expected type params with different id to differ")
	}
}

func TestIsAssignable(t *testing.T) {
	tests := []struct {
		name       string
		t1, t2     *Type
		wantAssign bool
	}{
		{"dyn accepts anything", Dyn, NewMessage("x.Y"), true},
		{"anything assignable to dyn", NewList(Int), Dyn, true},
		{"int not assignable from uint", Int, Uint, false},
		{"wrapper accepts primitive", NewWrapper(Int), Int, true},
		{"wrapper accepts null", NewWrapper(Int), Null, true},
		{"enum assignable to int", NewEnum("x.E"), Int, true},
		{"list covariance", NewList(Int), NewList(Int), true},
		{"list element mismatch", NewList(Int), NewList(String), false},
		{"message identity only", NewMessage("x.Y"), NewMessage("x.Z"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMapping()
			got := IsAssignable(m, tc.t1, tc.t2) != nil
			if got != tc.wantAssign {
				t.Errorf("IsAssignable(%s, %s) = %v, want %v",
					FormatType(tc.t1), FormatType(tc.t2), got, tc.wantAssign)
			}
		})
	}
}

func TestIsAssignableNullWithoutLegacy(t *testing.T) {
	m := NewMapping()
	if got := IsAssignableOpt(m, Duration, Null, AssignabilityOptions{}); got != nil {
		t.Error("expected null not assignable to Duration without legacy flag")
	}
	if got := IsAssignableOpt(m, Duration, Null, AssignabilityOptions{EnableLegacyNullAssignment: true}); got == nil {
		t.Error("expected null assignable to Duration with legacy flag")
	}
}

func TestTypeParamBinding(t *testing.T) {
	m := NewMapping()
	a := NewTypeParam("A")
	m2 := IsAssignable(m, a, Int)
	if m2 == nil {
		t.Fatal("expected type param to bind to int")
	}
	bound, found := m2.Find(a)
	if !found || !Equal(bound, Int) {
		t.Errorf("expected A bound to int, got %v", bound)
	}
}

func TestSubstituteUnboundToDyn(t *testing.T) {
	m := NewMapping()
	a := NewTypeParam("A")
	got := Substitute(m, NewList(a), true)
	if !Equal(got, NewList(Dyn)) {
		t.Errorf("Substitute(unbound, true) = %s, want list(dyn)", FormatType(got))
	}
}

func TestOccursCheckDemotesToDyn(t *testing.T) {
	m := NewMapping()
	e1 := NewTypeParam("E1")
	cyclic := NewList(e1)
	got := IsAssignable(m, e1, cyclic)
	if got == nil {
		t.Fatal("expected cyclic assignment to succeed by demotion to dyn")
	}
	bound, _ := got.Find(e1)
	if !Equal(bound, Dyn) {
		t.Errorf("expected E1 demoted to dyn, got %s", FormatType(bound))
	}
}
