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

package containers

import (
	"reflect"
	"testing"
)

func TestResolveCandidateNames(t *testing.T) {
	c, err := New(Name("a.b.c.M.N"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	got := c.ResolveCandidateNames("R.s")
	want := []string{
		"a.b.c.M.N.R.s",
		"a.b.c.M.R.s",
		"a.b.c.R.s",
		"a.b.R.s",
		"a.R.s",
		"R.s",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveCandidateNames() = %v, want %v", got, want)
	}
}

func TestResolveCandidateNamesFullyQualified(t *testing.T) {
	c, err := New(Name("a.b.c.M.N"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	got := c.ResolveCandidateNames(".R.s")
	want := []string{"R.s"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveCandidateNames(%q) = %v, want %v", ".R.s", got, want)
	}
}

func TestResolveCandidateNamesEmptyContainer(t *testing.T) {
	got := Default.ResolveCandidateNames("R.s")
	want := []string{"R.s"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveCandidateNames() = %v, want %v", got, want)
	}
}

func TestResolveCandidateNamesAliasAppendsLast(t *testing.T) {
	c, err := New(Name("a.b.c"), Alias("my.alias.pkg.R", "R"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	got := c.ResolveCandidateNames("R")
	want := []string{
		"a.b.c.R",
		"a.b.R",
		"a.R",
		"R",
		"my.alias.pkg.R",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveCandidateNames(%q) = %v, want %v", "R", got, want)
	}
}

func TestAliasesDerivesSimpleName(t *testing.T) {
	c, err := New(Aliases("my.example.pkg.verbose.Executor"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	got := c.ResolveCandidateNames("Executor")
	want := []string{"Executor", "my.example.pkg.verbose.Executor"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveCandidateNames(%q) = %v, want %v", "Executor", got, want)
	}
}

func TestAliasRejectsSimpleTarget(t *testing.T) {
	if _, err := New(Alias("NotQualified", "N")); err == nil {
		t.Fatal("New() succeeded, want error for a non-qualified alias target")
	}
}

func TestAliasRejectsQualifiedAliasName(t *testing.T) {
	if _, err := New(Alias("my.pkg.Name", "a.b")); err == nil {
		t.Fatal("New() succeeded, want error for a dotted alias name")
	}
}

func TestAliasRejectsCollidingAlias(t *testing.T) {
	_, err := New(Alias("my.pkg.A", "X"), Alias("other.pkg.B", "X"))
	if err == nil {
		t.Fatal("New() succeeded, want error for a colliding alias name")
	}
}

func TestAliasRejectsContainerCollision(t *testing.T) {
	_, err := New(Name("a.b.c"), Alias("my.pkg.Thing", "a"))
	if err == nil {
		t.Fatal("New() succeeded, want error for an alias colliding with the container name")
	}
}

func TestExtendDoesNotMutateParent(t *testing.T) {
	base, err := New(Name("a.b"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	child, err := base.Extend(Name("a.b.c"))
	if err != nil {
		t.Fatalf("Extend() failed: %v", err)
	}
	if base.Name() != "a.b" {
		t.Errorf("base.Name() = %q, want %q (Extend must not mutate the parent)", base.Name(), "a.b")
	}
	if child.Name() != "a.b.c" {
		t.Errorf("child.Name() = %q, want %q", child.Name(), "a.b.c")
	}
}

func TestExtendCarriesAliases(t *testing.T) {
	base, err := New(Alias("test.alias.pkg", "alias"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	child, err := base.Extend(Name("with.container"))
	if err != nil {
		t.Fatalf("Extend() failed: %v", err)
	}
	got := child.ResolveCandidateNames("alias")
	want := []string{
		"with.container.alias",
		"with.alias",
		"alias",
		"test.alias.pkg",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveCandidateNames(%q) = %v, want %v", "alias", got, want)
	}
}

func TestDefaultContainerNameIsEmpty(t *testing.T) {
	if got := Default.Name(); got != "" {
		t.Errorf("Default.Name() = %q, want empty", got)
	}
}
