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

package stdlib

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDeclarationsNoDuplicateOverloadIDs(t *testing.T) {
	_, fns := Declarations()
	seen := make(map[string]bool)
	for _, fn := range fns {
		for _, o := range fn.Overloads {
			if seen[o.ID] {
				t.Errorf("duplicate overload id %q", o.ID)
			}
			seen[o.ID] = true
		}
	}
}

func TestDeclarationsIncludesArithmetic(t *testing.T) {
	_, fns := Declarations()
	names := make(map[string]bool)
	for _, fn := range fns {
		names[fn.Name] = true
	}
	for _, want := range []string{"_+_", "_-_", "_*_", "_/_", "_%_", "_==_", "_[_]"} {
		if !names[want] {
			t.Errorf("Declarations() missing function %q", want)
		}
	}
}

func TestVariablesAreExactlyTheTypeNameSet(t *testing.T) {
	vars, _ := Declarations()
	got := make([]string, len(vars))
	for i, v := range vars {
		got[i] = v.Name
	}
	sort.Strings(got)
	want := []string{"bool", "bytes", "double", "int", "list", "map", "string", "uint"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Declarations() type identifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestVariablesIncludeTypeNames(t *testing.T) {
	vars, _ := Declarations()
	names := make(map[string]bool)
	for _, v := range vars {
		names[v.Name] = true
	}
	for _, want := range []string{"int", "uint", "bool", "double", "bytes", "string", "list", "map"} {
		if !names[want] {
			t.Errorf("Declarations() missing type identifier %q", want)
		}
	}
}
