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

// Scopes is a stack of lexical Groups used by the checker to layer
// comprehension-introduced variables over the environment's base
// declarations without mutating it. Scope 0 (the bottom of the stack) holds
// the environment's own variables and functions; each comprehension pushes
// one Group per introduced variable.
type Scopes struct {
	groups []*group
}

// NewScopes returns a Scopes with a single base group.
func NewScopes() *Scopes {
	s := &Scopes{}
	s.Push()
	return s
}

// Push opens a new, innermost lexical group.
func (s *Scopes) Push() {
	s.groups = append(s.groups, newGroup())
}

// Pop discards the innermost lexical group.
func (s *Scopes) Pop() {
	s.groups = s.groups[:len(s.groups)-1]
}

// Depth reports how many groups are currently on the stack, for callers
// that need to assert balanced Push/Pop pairs (e.g. in tests).
func (s *Scopes) Depth() int {
	return len(s.groups)
}

// AddIdent adds a variable to the base (outermost) group; this is how the
// environment's own declarations are installed, as distinct from
// comprehension-scoped variables which use AddIdentInScope.
func (s *Scopes) AddIdent(v *VariableDecl) {
	s.groups[0].idents[v.Name] = v
}

// AddIdentInScope adds a variable to the innermost group, shadowing any
// outer declaration of the same bare name within this scope only.
func (s *Scopes) AddIdentInScope(v *VariableDecl) {
	s.groups[len(s.groups)-1].idents[v.Name] = v
}

// FindIdent searches groups from innermost to outermost and returns the
// first match.
func (s *Scopes) FindIdent(name string) (*VariableDecl, bool) {
	for i := len(s.groups) - 1; i >= 0; i-- {
		if v, found := s.groups[i].idents[name]; found {
			return v, true
		}
	}
	return nil, false
}

// FindIdentInScope looks only at the innermost group; checker.Env.AddVariable
// uses it to detect a redeclaration in that group.
func (s *Scopes) FindIdentInScope(name string) (*VariableDecl, bool) {
	v, found := s.groups[len(s.groups)-1].idents[name]
	return v, found
}

// AddFunction adds a function declaration to the base group, merging with
// any existing overloads of the same name.
func (s *Scopes) AddFunction(fn *FunctionDecl) {
	if existing, found := s.groups[0].functions[fn.Name]; found {
		fn = fn.Merge(existing)
	}
	s.groups[0].functions[fn.Name] = fn
}

// FindFunction searches groups from innermost to outermost and returns the
// first match. Functions are never comprehension-scoped in practice, but
// the search order is kept consistent with FindIdent.
func (s *Scopes) FindFunction(name string) (*FunctionDecl, bool) {
	for i := len(s.groups) - 1; i >= 0; i-- {
		if fn, found := s.groups[i].functions[name]; found {
			return fn, true
		}
	}
	return nil, false
}

// CopyInto copies this Scopes' base-group declarations into dst, used when
// an Env is extended so the child gets an independent copy of the parent's
// declarations rather than a shared, mutable one.
func (s *Scopes) CopyInto(dst *Scopes) {
	base := s.groups[0]
	for name, v := range base.idents {
		dst.groups[0].idents[name] = v
	}
	for name, fn := range base.functions {
		dst.groups[0].functions[name] = fn
	}
}

type group struct {
	idents    map[string]*VariableDecl
	functions map[string]*FunctionDecl
}

func newGroup() *group {
	return &group{
		idents:    make(map[string]*VariableDecl),
		functions: make(map[string]*FunctionDecl),
	}
}
