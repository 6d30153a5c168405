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

package ast

import "github.com/exprlang/celcheck/types"

// Reference records what an ident/select/call/struct-creation node resolved
// to: a fully-qualified name, and, for a call, the surviving overload ids.
// Value is set only for a reference to an enum constant promoted to an
// ident.
type Reference struct {
	Name        string
	OverloadIDs []string
	Value       *ConstantValue
}

// ConstantValue is the literal value associated with an enum-constant
// reference.
type ConstantValue struct {
	IntValue int64
}

// CheckedAST is the checker's output: the original parsed Expr plus the
// per-node type and reference annotations the walker produced. SourceInfo
// is copied through from the input unchanged, per §3.
type CheckedAST struct {
	Expr         *Expr
	SourceInfo   *SourceInfo
	TypeMap      map[Int64ID]*types.Type
	ReferenceMap map[Int64ID]*Reference
}

// TypeOf returns the resolved type of expression id, or nil if the node was
// never typed: a node skipped once the node-count limit was exceeded, or
// the operand of a select or call target that resolved as a qualified name.
func (c *CheckedAST) TypeOf(id Int64ID) *types.Type {
	if c == nil {
		return nil
	}
	return c.TypeMap[id]
}

// ReferenceOf returns the reference recorded for expression id, if any.
func (c *CheckedAST) ReferenceOf(id Int64ID) *Reference {
	if c == nil {
		return nil
	}
	return c.ReferenceMap[id]
}
