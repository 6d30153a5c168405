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

import "fmt"

// Mapping is the per-Check() substitution: a binding from a free type
// parameter's identity to the type it has been unified with so far. It is
// cheap to Copy, which the resolver relies on to try a candidate overload
// without committing a failed unification to the caller's mapping.
type Mapping struct {
	m map[string]*Type
}

// NewMapping returns an empty substitution.
func NewMapping() *Mapping {
	return &Mapping{m: make(map[string]*Type)}
}

// Add records that the type parameter identified by from is now bound to to.
// from must be a TypeParam; Add panics otherwise, mirroring the invariant
// that only type-parameter identities are ever keys in the mapping.
func (m *Mapping) Add(from, to *Type) {
	if from.Kind() != KindTypeParam {
		panic(fmt.Sprintf("mapping key must be a type parameter, got %s", FormatType(from)))
	}
	m.m[from.typeParamID] = to
}

// Find returns the type currently bound to from, if any. The caller is
// responsible for walking chains (a parameter bound to another parameter);
// Substitute does this fully.
func (m *Mapping) Find(from *Type) (*Type, bool) {
	if from.Kind() != KindTypeParam {
		return nil, false
	}
	t, found := m.m[from.typeParamID]
	return t, found
}

// Copy returns an independent mapping with the same bindings, used by the
// overload resolver to fork state per candidate.
func (m *Mapping) Copy() *Mapping {
	c := NewMapping()
	for k, v := range m.m {
		c.m[k] = v
	}
	return c
}

func (m *Mapping) String() string {
	s := "{"
	for k, v := range m.m {
		s += fmt.Sprintf("%s => %s, ", k, FormatType(v))
	}
	return s + "}"
}

// Substitute recursively replaces bound type parameters in t. When
// typeParamToDyn is true, any parameter left unbound is replaced by Dyn;
// this is how the checker finalizes entries of the public type_map so that
// no TypeParam ever leaks out of Check().
func Substitute(m *Mapping, t *Type, typeParamToDyn bool) *Type {
	if t == nil {
		return nil
	}
	if t.Kind() == KindTypeParam {
		if bound, found := m.Find(t); found {
			return Substitute(m, bound, typeParamToDyn)
		}
		if typeParamToDyn {
			return Dyn
		}
		return t
	}
	switch t.Kind() {
	case KindTypeOf:
		return NewTypeOf(Substitute(m, t.elem, typeParamToDyn))
	case KindList:
		return NewList(Substitute(m, t.elem, typeParamToDyn))
	case KindMap:
		return NewMap(Substitute(m, t.key, typeParamToDyn), Substitute(m, t.val, typeParamToDyn))
	case KindAbstract:
		params := make([]*Type, len(t.abstractParams))
		for i, p := range t.abstractParams {
			params[i] = Substitute(m, p, typeParamToDyn)
		}
		return NewAbstract(t.abstractName, params...)
	default:
		if t.isFn {
			args := make([]*Type, len(t.fnArgs))
			for i, a := range t.fnArgs {
				args[i] = Substitute(m, a, typeParamToDyn)
			}
			return NewFunction(Substitute(m, t.fnResult, typeParamToDyn), args...)
		}
		return t
	}
}

// MostGeneral returns the less specific of two types known to unify,
// preferring Dyn/TypeParam and otherwise the structurally shallower of two
// aggregates; used to homogenize list/map literal element types.
func MostGeneral(a, b *Type) *Type {
	if isEqualOrLessSpecific(a, b) {
		return a
	}
	return b
}

func isEqualOrLessSpecific(a, b *Type) bool {
	ka, kb := a.Kind(), b.Kind()
	if ka == KindDyn || ka == KindTypeParam {
		return true
	}
	if kb == KindDyn || kb == KindTypeParam {
		return false
	}
	if ka != kb {
		return false
	}
	switch ka {
	case KindList:
		return isEqualOrLessSpecific(a.elem, b.elem)
	case KindMap:
		return isEqualOrLessSpecific(a.key, b.key) && isEqualOrLessSpecific(a.val, b.val)
	case KindTypeOf:
		return isEqualOrLessSpecific(a.elem, b.elem)
	default:
		return Equal(a, b)
	}
}

// notReferencedIn reports whether the type parameter t does not occur
// (directly or through an already-bound chain) within withinType. When it
// does occur, unifying t with withinType would require an infinite type;
// per the documented legacy semantics, callers demote that binding to Dyn
// instead of rejecting the expression outright.
func notReferencedIn(m *Mapping, t, withinType *Type) bool {
	if Equal(t, withinType) {
		return false
	}
	switch withinType.Kind() {
	case KindTypeParam:
		if bound, found := m.Find(withinType); found {
			return notReferencedIn(m, t, bound)
		}
		return true
	case KindTypeOf:
		return notReferencedIn(m, t, withinType.elem)
	case KindList:
		return notReferencedIn(m, t, withinType.elem)
	case KindMap:
		return notReferencedIn(m, t, withinType.key) && notReferencedIn(m, t, withinType.val)
	case KindAbstract:
		for _, p := range withinType.abstractParams {
			if !notReferencedIn(m, t, p) {
				return false
			}
		}
		return true
	default:
		if withinType.isFn {
			if !notReferencedIn(m, t, withinType.fnResult) {
				return false
			}
			for _, a := range withinType.fnArgs {
				if !notReferencedIn(m, t, a) {
					return false
				}
			}
		}
		return true
	}
}

// IsAssignable attempts to unify t2 (the "source", e.g. an argument or
// literal element) against t1 (the "target", e.g. a declared parameter or
// the previous literal element). On success it returns a new Mapping with
// any additional bindings; on failure it returns nil and m is untouched.
func IsAssignable(m *Mapping, t1, t2 *Type) *Mapping {
	return IsAssignableOpt(m, t1, t2, AssignabilityOptions{})
}

// AssignabilityOptions toggles the behavior-changing checker options that
// affect the core assignability relation directly (as opposed to options
// that only affect which overloads exist).
type AssignabilityOptions struct {
	// EnableLegacyNullAssignment allows Null to unify with Message, Any,
	// Duration, Timestamp, and Abstract types. A wrapper type accepts Null
	// whether or not it is set.
	EnableLegacyNullAssignment bool
}

// IsAssignableOpt is IsAssignable parameterized by AssignabilityOptions.
func IsAssignableOpt(m *Mapping, t1, t2 *Type, opts AssignabilityOptions) *Mapping {
	cp := m.Copy()
	if internalIsAssignable(cp, t1, t2, opts) {
		return cp
	}
	return nil
}

// IsAssignableList unifies two equal-length type lists pairwise, threading
// one mapping through every element so that e.g. a type parameter bound by
// argument 1 constrains argument 2.
func IsAssignableList(m *Mapping, l1, l2 []*Type) *Mapping {
	return IsAssignableListOpt(m, l1, l2, AssignabilityOptions{})
}

// IsAssignableListOpt is IsAssignableList parameterized by AssignabilityOptions.
func IsAssignableListOpt(m *Mapping, l1, l2 []*Type, opts AssignabilityOptions) *Mapping {
	cp := m.Copy()
	if internalIsAssignableList(cp, l1, l2, opts) {
		return cp
	}
	return nil
}

func internalIsAssignableList(m *Mapping, l1, l2 []*Type, opts AssignabilityOptions) bool {
	if len(l1) != len(l2) {
		return false
	}
	for i := range l1 {
		if !internalIsAssignable(m, l1[i], l2[i], opts) {
			return false
		}
	}
	return true
}

func internalIsAssignable(m *Mapping, t1, t2 *Type, opts AssignabilityOptions) bool {
	k1, k2 := t1.Kind(), t2.Kind()

	if k2 == KindTypeParam {
		if bound, found := m.Find(t2); found {
			// Widen an existing binding to a more general common type when
			// compatible, e.g. a parameter already bound to int being tested
			// against dyn widens to dyn rather than failing.
			if isEqualOrLessSpecific(t1, bound) && notReferencedIn(m, t2, t1) {
				m.Add(t2, t1)
				return true
			}
			return internalIsAssignable(m, t1, bound, opts)
		}
		if notReferencedIn(m, t2, t1) {
			m.Add(t2, t1)
			return true
		}
		// Occurs-check failure: demote to Dyn rather than reject, matching
		// the historical behavior needed to accept expressions such as
		// [].map(c, [c, [c]]).
		m.Add(t2, Dyn)
		return true
	}

	if k1 == KindTypeParam {
		if bound, found := m.Find(t1); found {
			return internalIsAssignable(m, bound, t2, opts)
		}
		if notReferencedIn(m, t1, t2) {
			m.Add(t1, t2)
			return true
		}
		m.Add(t1, Dyn)
		return true
	}

	if k1 == KindDyn || k1 == KindError || k2 == KindDyn || k2 == KindError {
		return true
	}

	if k1 == KindNull {
		if opts.EnableLegacyNullAssignment && IsNullable(k2) {
			return true
		}
		return k2 == KindNull
	}
	if k2 == KindNull {
		if k1 == KindWrapper {
			return true
		}
		if opts.EnableLegacyNullAssignment && IsNullable(k1) {
			return true
		}
		return k1 == KindNull
	}

	// Unwrap wrapper types against their underlying primitive or Null.
	if k1 == KindWrapper {
		return internalIsAssignable(m, primitiveOf(t1), t2, opts)
	}
	if k2 == KindWrapper {
		return internalIsAssignable(m, t1, primitiveOf(t2), opts)
	}

	// Enum is structurally Int for assignability.
	if k1 == KindEnum {
		return internalIsAssignable(m, Int, t2, opts)
	}
	if k2 == KindEnum {
		return internalIsAssignable(m, t1, Int, opts)
	}

	if k1 != k2 {
		return false
	}

	switch k1 {
	case KindBool, KindInt, KindUint, KindDouble, KindString, KindBytes, KindAny, KindDuration, KindTimestamp:
		return true
	case KindMessage:
		return t1.messageName == t2.messageName
	case KindAbstract:
		if t1.abstractName != t2.abstractName || len(t1.abstractParams) != len(t2.abstractParams) {
			return false
		}
		return internalIsAssignableList(m, t1.abstractParams, t2.abstractParams, opts)
	case KindTypeOf:
		return internalIsAssignable(m, t1.elem, t2.elem, opts)
	case KindList:
		return internalIsAssignable(m, t1.elem, t2.elem, opts)
	case KindMap:
		return internalIsAssignableList(m, []*Type{t1.key, t1.val}, []*Type{t2.key, t2.val}, opts)
	default:
		if t1.isFn && t2.isFn {
			return internalIsAssignableList(m,
				append(append([]*Type{}, t1.fnArgs...), t1.fnResult),
				append(append([]*Type{}, t2.fnArgs...), t2.fnResult), opts)
		}
		return false
	}
}

func primitiveOf(t *Type) *Type {
	switch t.primitive {
	case PrimitiveBool:
		return Bool
	case PrimitiveInt:
		return Int
	case PrimitiveUint:
		return Uint
	case PrimitiveDouble:
		return Double
	case PrimitiveString:
		return String
	case PrimitiveBytes:
		return Bytes
	default:
		return Dyn
	}
}
