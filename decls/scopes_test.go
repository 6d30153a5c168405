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

package decls

import (
	"testing"

	"github.com/exprlang/celcheck/types"
)

func TestScopesBaseGroupIsVisibleFromNestedScope(t *testing.T) {
	s := NewScopes()
	s.AddIdent(NewVariable("x", types.Int))
	s.Push()
	defer s.Pop()
	if _, found := s.FindIdent("x"); !found {
		t.Error("FindIdent(\"x\") not found from a nested scope, want visible")
	}
}

func TestScopesInnerShadowsOuter(t *testing.T) {
	s := NewScopes()
	s.AddIdent(NewVariable("x", types.Int))
	s.Push()
	s.AddIdentInScope(NewVariable("x", types.String))
	v, found := s.FindIdent("x")
	if !found || !types.Equal(v.Type, types.String) {
		t.Errorf("FindIdent(\"x\") = %+v, want the inner String shadow", v)
	}
	s.Pop()
	v, found = s.FindIdent("x")
	if !found || !types.Equal(v.Type, types.Int) {
		t.Errorf("FindIdent(\"x\") after Pop() = %+v, want the outer Int declaration", v)
	}
}

func TestScopesFindIdentInScopeIgnoresOuter(t *testing.T) {
	s := NewScopes()
	s.AddIdent(NewVariable("x", types.Int))
	s.Push()
	defer s.Pop()
	if _, found := s.FindIdentInScope("x"); found {
		t.Error("FindIdentInScope(\"x\") found the outer declaration, want isolation to the innermost group only")
	}
	s.AddIdentInScope(NewVariable("y", types.Bool))
	if _, found := s.FindIdentInScope("y"); !found {
		t.Error("FindIdentInScope(\"y\") not found after AddIdentInScope")
	}
}

func TestScopesDepthTracksPushPop(t *testing.T) {
	s := NewScopes()
	if s.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1 after NewScopes", s.Depth())
	}
	s.Push()
	s.Push()
	if s.Depth() != 3 {
		t.Errorf("Depth() = %d, want 3 after two Push", s.Depth())
	}
	s.Pop()
	if s.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2 after one Pop", s.Depth())
	}
}

func TestScopesAddFunctionMergesOverloads(t *testing.T) {
	s := NewScopes()
	s.AddFunction(NewFunction("f", NewOverload("f_a", nil, types.Int)))
	s.AddFunction(NewFunction("f", NewOverload("f_b", nil, types.String)))
	fn, found := s.FindFunction("f")
	if !found {
		t.Fatal("FindFunction(\"f\") not found")
	}
	if len(fn.Overloads) != 2 {
		t.Errorf("FindFunction(\"f\").Overloads has %d entries, want 2", len(fn.Overloads))
	}
}

func TestScopesCopyIntoIsIndependent(t *testing.T) {
	src := NewScopes()
	src.AddIdent(NewVariable("x", types.Int))
	dst := NewScopes()
	src.CopyInto(dst)

	dst.AddIdent(NewVariable("y", types.String))
	if _, found := src.FindIdent("y"); found {
		t.Error("src sees a declaration added to dst after CopyInto, want independent copies")
	}
	if _, found := dst.FindIdent("x"); !found {
		t.Error("dst.FindIdent(\"x\") not found after CopyInto, want the copied declaration")
	}
}
