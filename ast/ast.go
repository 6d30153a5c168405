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

// Package ast defines the parsed-expression contract the checker consumes:
// a closed tagged union with stable per-node ids, and the source-position
// side table used to render diagnostics. Nothing in this package parses
// text; a parser is an external collaborator that produces an *ast.Expr.
package ast

// Kind discriminates the shape carried by an Expr node.
type Kind int

const (
	KindUnspecified Kind = iota
	KindLiteral
	KindIdent
	KindSelect
	KindCall
	KindList
	KindStruct
	KindComprehension
)

// Expr is one node of the parsed AST. Exactly one of the kind-specific
// fields is populated, selected by Kind — a closed tagged union realized as
// a flat struct rather than an interface hierarchy, since the checker's
// dispatch is a single top-level switch and no new Kind is ever added by a
// downstream package.
type Expr struct {
	ID Int64ID

	Kind Kind

	Literal       *Literal
	Ident         *IdentExpr
	Select        *SelectExpr
	Call          *CallExpr
	List          *ListExpr
	Struct        *StructExpr
	Comprehension *ComprehensionExpr
}

// Int64ID is the stable per-node identifier type; ids are assigned by the
// parser and never reused within one AST.
type Int64ID = int64

// LiteralKind enumerates the constant kinds a Literal may carry.
type LiteralKind int

const (
	LiteralUnspecified LiteralKind = iota
	LiteralBool
	LiteralInt
	LiteralUint
	LiteralDouble
	LiteralString
	LiteralBytes
	LiteralNull
)

// Literal is a constant value embedded directly in the expression text.
type Literal struct {
	Kind        LiteralKind
	BoolValue   bool
	IntValue    int64
	UintValue   uint64
	DoubleValue float64
	StringValue string
	BytesValue  []byte
}

// IdentExpr is a bare identifier reference, e.g. `x`.
type IdentExpr struct {
	Name string
}

// SelectExpr is a field/qualifier access `operand.field`. TestOnly marks the
// `has(operand.field)` macro-expanded form.
type SelectExpr struct {
	Operand  *Expr
	Field    string
	TestOnly bool
}

// CallExpr is a function or method invocation. Target is nil for a
// top-level function call (`f(args)`); non-nil for a receiver-style call
// (`target.f(args)`).
type CallExpr struct {
	Target   *Expr
	Function string
	Args     []*Expr
}

// ListExpr is a list literal `[e1, e2, ...]`. OptionalIndices records which
// element positions were written with the optional-entry syntax `?e` (the
// optional-type plug-in's list-literal extension); it is empty unless that
// extension's macros produced the node.
type ListExpr struct {
	Elements        []*Expr
	OptionalIndices []int
}

// EntryKind discriminates a StructExpr entry as a map key/value pair or a
// named field initializer.
type EntryKind int

const (
	EntryUnspecified EntryKind = iota
	EntryMapKey
	EntryField
)

// Entry is one key:value or field:value pair of a StructExpr.
type Entry struct {
	ID       Int64ID
	Kind     EntryKind
	MapKey   *Expr // EntryMapKey
	Field    string // EntryField
	Value    *Expr
	Optional bool // entry written as `?field: v` / `?key: v`
}

// StructExpr is either a map literal (MessageName == "") or a message
// construction (MessageName naming the type).
type StructExpr struct {
	MessageName string
	Entries     []*Entry
}

// ComprehensionExpr is the fixed five-expression shape every comprehension
// macro (map/filter/all/exists/exists_one and the optional-type plug-in's
// optMap/optFlatMap) expands to, plus the two variables it introduces.
type ComprehensionExpr struct {
	IterVar       string
	IterRange     *Expr
	AccuVar       string
	AccuInit      *Expr
	LoopCondition *Expr
	LoopStep      *Expr
	Result        *Expr

	// MacroName, when non-empty, is the originating macro's name
	// (map/filter/all/exists/exists_one/optMap/optFlatMap); it is surfaced
	// in diagnostics only and never changes typing.
	MacroName string
}
