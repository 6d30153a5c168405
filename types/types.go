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

// Package types declares the CEL type model used by the checker: a closed
// tagged union of primitives, containers, protobuf-structural types, and
// the bookkeeping types (type parameters, type-of-type) needed to check
// generic overloads.
package types

import (
	"fmt"
	"strings"
)

// OptionalTypeName is the abstract-type constructor name the optional-type
// plug-in (ext/optional) registers under. It is named here, rather than in
// that package, so the checker can unwrap optional-valued list elements and
// struct/map entries (the `?e` and `?key: v` literal syntaxes) without an
// import cycle back through celenv.
const OptionalTypeName = "optional_type"

// Kind discriminates the variant carried by a Type value.
type Kind uint8

const (
	// KindUnknown is the zero Kind. Kind() reports it for a nil Type and
	// for the function-shaped Types built by NewFunction.
	KindUnknown Kind = iota
	KindDyn
	KindNull
	KindError
	KindBool
	KindInt
	KindUint
	KindDouble
	KindString
	KindBytes
	KindWrapper
	KindAny
	KindDuration
	KindTimestamp
	KindList
	KindMap
	KindMessage
	KindEnum
	KindAbstract
	KindTypeOf
	KindTypeParam
)

// Primitive identifies which scalar a Wrapper wraps or a primitive Type is.
type Primitive uint8

const (
	PrimitiveUnspecified Primitive = iota
	PrimitiveBool
	PrimitiveInt
	PrimitiveUint
	PrimitiveDouble
	PrimitiveString
	PrimitiveBytes
)

func (p Primitive) String() string {
	switch p {
	case PrimitiveBool:
		return "bool"
	case PrimitiveInt:
		return "int"
	case PrimitiveUint:
		return "uint"
	case PrimitiveDouble:
		return "double"
	case PrimitiveString:
		return "string"
	case PrimitiveBytes:
		return "bytes"
	}
	return "unspecified"
}

// Type is an immutable node in the CEL type model. The zero value is not
// valid; construct Types via the New* functions or the package-level
// singletons below.
type Type struct {
	kind Kind

	primitive Primitive // KindBool..KindBytes, KindWrapper (wrapped primitive)

	messageName string // KindMessage, KindEnum
	abstractName string // KindAbstract
	abstractParams []*Type // KindAbstract

	elem *Type // KindList, KindTypeOf (nested type)
	key  *Type // KindMap
	val  *Type // KindMap

	typeParamID string // KindTypeParam

	fnResult *Type   // KindFunction-shaped types used internally by the resolver
	fnArgs   []*Type // (not part of the wire Type sum, only used to unify call signatures)
	isFn     bool
}

var (
	// Dyn is the top type: assignable to and from everything.
	Dyn = &Type{kind: KindDyn}
	// Null is the literal null type.
	Null = &Type{kind: KindNull}
	// Error is an internal marker type; it must never survive into a
	// checked AST's type_map.
	Error = &Type{kind: KindError}

	Bool   = &Type{kind: KindBool, primitive: PrimitiveBool}
	Int    = &Type{kind: KindInt, primitive: PrimitiveInt}
	Uint   = &Type{kind: KindUint, primitive: PrimitiveUint}
	Double = &Type{kind: KindDouble, primitive: PrimitiveDouble}
	String = &Type{kind: KindString, primitive: PrimitiveString}
	Bytes  = &Type{kind: KindBytes, primitive: PrimitiveBytes}

	Any       = &Type{kind: KindAny}
	Duration  = &Type{kind: KindDuration}
	Timestamp = &Type{kind: KindTimestamp}
)

// NewWrapper returns the nullable wrapper of a primitive type, e.g. the
// type of google.protobuf.Int64Value.
func NewWrapper(primitive *Type) *Type {
	if primitive.kind < KindBool || primitive.kind > KindBytes {
		panic(fmt.Sprintf("wrapped type must be primitive, got %s", FormatType(primitive)))
	}
	return &Type{kind: KindWrapper, primitive: primitive.primitive}
}

// NewList returns the type of a homogeneous list with the given element type.
func NewList(elem *Type) *Type {
	return &Type{kind: KindList, elem: elem}
}

// NewMap returns the type of a homogeneous map with the given key/value types.
func NewMap(key, val *Type) *Type {
	return &Type{kind: KindMap, key: key, val: val}
}

// NewMessage returns the structural type named by a fully-qualified protobuf
// message name; the schema oracle is consulted for field resolution.
func NewMessage(fullName string) *Type {
	return &Type{kind: KindMessage, messageName: fullName}
}

// NewEnum returns the type of a protobuf enum; it behaves like Int for
// assignability purposes but keeps its name for reference resolution.
func NewEnum(fullName string) *Type {
	return &Type{kind: KindEnum, messageName: fullName}
}

// NewAbstract returns an opaque parameterized type constructor, e.g.
// optional_type(T).
func NewAbstract(name string, params ...*Type) *Type {
	return &Type{kind: KindAbstract, abstractName: name, abstractParams: params}
}

// NewTypeOf returns the type of the value `type(x)` where x has type t.
func NewTypeOf(t *Type) *Type {
	return &Type{kind: KindTypeOf, elem: t}
}

// NewTypeParam returns a free type variable identified by id, scoped to a
// single overload instantiation or literal inference.
func NewTypeParam(id string) *Type {
	return &Type{kind: KindTypeParam, typeParamID: id}
}

// NewFunction builds an internal function-shaped type used only by the
// overload resolver to unify a call site's argument list against a
// candidate signature; it is never written into a type_map.
func NewFunction(result *Type, args ...*Type) *Type {
	return &Type{kind: KindUnknown, isFn: true, fnResult: result, fnArgs: args}
}

// Kind reports the variant carried by t.
func (t *Type) Kind() Kind {
	if t == nil {
		return KindUnknown
	}
	if t.isFn {
		return KindUnknown
	}
	return t.kind
}

// IsFunction reports whether t is an internal function-shaped type produced
// by NewFunction.
func (t *Type) IsFunction() bool { return t != nil && t.isFn }

// Primitive returns the wrapped/primitive scalar kind for Bool..Bytes and
// Wrapper types; PrimitiveUnspecified otherwise.
func (t *Type) Primitive() Primitive { return t.primitive }

// MessageName returns the fully-qualified name for Message and Enum types.
func (t *Type) MessageName() string { return t.messageName }

// AbstractName returns the constructor name for Abstract types.
func (t *Type) AbstractName() string { return t.abstractName }

// AbstractParams returns the parameter types for Abstract types.
func (t *Type) AbstractParams() []*Type { return t.abstractParams }

// ElemType returns the element type of a List, or the nested type of a
// TypeOf value.
func (t *Type) ElemType() *Type { return t.elem }

// KeyType returns a Map's key type.
func (t *Type) KeyType() *Type { return t.key }

// ValueType returns a Map's value type.
func (t *Type) ValueType() *Type { return t.val }

// TypeParamID returns the identity of a free type-parameter.
func (t *Type) TypeParamID() string { return t.typeParamID }

// FunctionResult and FunctionArgs expose the internal function-shaped type's
// signature to the resolver.
func (t *Type) FunctionResult() *Type  { return t.fnResult }
func (t *Type) FunctionArgs() []*Type  { return t.fnArgs }

// Equal reports structural equality, ignoring any substitution: two free
// type parameters are equal only if they carry the same id.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindBool, KindInt, KindUint, KindDouble, KindString, KindBytes, KindWrapper:
		return a.primitive == b.primitive
	case KindMessage, KindEnum:
		return a.messageName == b.messageName
	case KindAbstract:
		if a.abstractName != b.abstractName || len(a.abstractParams) != len(b.abstractParams) {
			return false
		}
		for i := range a.abstractParams {
			if !Equal(a.abstractParams[i], b.abstractParams[i]) {
				return false
			}
		}
		return true
	case KindList:
		return Equal(a.elem, b.elem)
	case KindMap:
		return Equal(a.key, b.key) && Equal(a.val, b.val)
	case KindTypeOf:
		return Equal(a.elem, b.elem)
	case KindTypeParam:
		return a.typeParamID == b.typeParamID
	default:
		return true
	}
}

// FormatType renders a human-readable type name for diagnostics, matching
// the spelling used by the reference CEL checker's error messages.
func FormatType(t *Type) string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind() {
	case KindBool, KindInt, KindUint, KindDouble, KindString, KindBytes:
		return t.primitive.String()
	case KindWrapper:
		return fmt.Sprintf("wrapper(%s)", t.primitive.String())
	case KindAny:
		return "google.protobuf.Any"
	case KindDuration:
		return "google.protobuf.Duration"
	case KindTimestamp:
		return "google.protobuf.Timestamp"
	case KindMessage, KindEnum:
		return t.messageName
	case KindAbstract:
		if len(t.abstractParams) == 0 {
			return t.abstractName
		}
		parts := make([]string, len(t.abstractParams))
		for i, p := range t.abstractParams {
			parts[i] = FormatType(p)
		}
		return fmt.Sprintf("%s(%s)", t.abstractName, strings.Join(parts, ", "))
	case KindList:
		return fmt.Sprintf("list(%s)", FormatType(t.elem))
	case KindMap:
		return fmt.Sprintf("map(%s, %s)", FormatType(t.key), FormatType(t.val))
	case KindNull:
		return "null_type"
	case KindDyn:
		return "dyn"
	case KindTypeOf:
		return fmt.Sprintf("type(%s)", FormatType(t.elem))
	case KindTypeParam:
		return t.typeParamID
	case KindError:
		return "!error!"
	}
	return "<unknown>"
}

// FormatFunction renders a call signature for "no matching overload"
// diagnostics, e.g. "(int, string)", or "list(int).(int)" for a
// receiver-style call whose target is list(int); the function name is not
// included. A non-nil result is appended as " -> T".
func FormatFunction(result *Type, args []*Type, isInstance bool) string {
	argStrs := make([]string, len(args))
	for i, a := range args {
		argStrs[i] = FormatType(a)
	}
	sig := ""
	if isInstance && len(argStrs) > 0 {
		sig = fmt.Sprintf("%s.(%s)", argStrs[0], strings.Join(argStrs[1:], ", "))
	} else {
		sig = fmt.Sprintf("(%s)", strings.Join(argStrs, ", "))
	}
	if result == nil {
		return sig
	}
	return fmt.Sprintf("%s -> %s", sig, FormatType(result))
}

// IsNullable reports whether kind may be unified with Null under the
// legacy-null-assignment option.
func IsNullable(k Kind) bool {
	switch k {
	case KindMessage, KindWrapper, KindAny, KindDuration, KindTimestamp, KindAbstract:
		return true
	default:
		return false
	}
}

// PermittedMapKeyKinds is the set of Kinds allowed as a map-literal key
// without triggering the "unsupported map key type" warning.
func PermittedMapKeyKinds() []Kind {
	return []Kind{KindBool, KindInt, KindUint, KindString, KindDyn, KindTypeParam}
}
