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
	"fmt"

	"github.com/exprlang/celcheck/ast"
	"github.com/exprlang/celcheck/celerrors"
	"github.com/exprlang/celcheck/decls"
	"github.com/exprlang/celcheck/schema"
	"github.com/exprlang/celcheck/types"
)

// DefaultMaxExprNodeCount caps the number of expression nodes Check will
// walk, guarding against pathologically large ASTs. Once the cap is passed,
// Check reports NodeCountExceeded and descends no further; enclosing nodes
// already being checked may still report errors of their own (for example
// a call whose arguments were left untyped). 0 on an Env selects this
// default.
const DefaultMaxExprNodeCount = 100000

type checker struct {
	env        *Env
	errors     *celerrors.TypeErrors
	sourceInfo *ast.SourceInfo

	mappings           *types.Mapping
	freeTypeVarCounter int
	nodeCount          int
	maxNodeCount       int
	nodeCountExceeded  bool

	types      map[ast.Int64ID]*types.Type
	references map[ast.Int64ID]*ast.Reference
}

// Check type-checks expr against env, annotating every node with its
// resolved type and (where applicable) a reference to the declaration it
// resolved to. It never panics on malformed input; every failure mode is
// reported through errs and degrades the affected node's type to
// types.Error rather than aborting the walk, except when the node-count
// limit is exceeded.
func Check(expr *ast.Expr, sourceInfo *ast.SourceInfo, env *Env, errs *celerrors.TypeErrors) *ast.CheckedAST {
	// Comprehension scopes are pushed onto a per-call copy, so the caller's
	// Env is never modified and may be shared between concurrent calls.
	env = env.Extend()
	maxNodeCount := env.maxExprNodeCount
	if maxNodeCount == 0 {
		maxNodeCount = DefaultMaxExprNodeCount
	}
	c := &checker{
		env:          env,
		errors:       errs,
		sourceInfo:   sourceInfo,
		mappings:     types.NewMapping(),
		maxNodeCount: maxNodeCount,
		types:        make(map[ast.Int64ID]*types.Type),
		references:   make(map[ast.Int64ID]*ast.Reference),
	}
	c.check(expr)

	if expected := env.ExpectedType(); expected != nil && !c.nodeCountExceeded {
		if !c.isAssignable(expected, c.getType(expr)) {
			c.errors.TypeMismatch(c.location(expr), expected, c.getType(expr))
		}
	}

	finalTypes := make(map[ast.Int64ID]*types.Type, len(c.types))
	for id, t := range c.types {
		finalTypes[id] = types.Substitute(c.mappings, t, true)
	}
	return &ast.CheckedAST{
		Expr:         expr,
		SourceInfo:   sourceInfo,
		TypeMap:      finalTypes,
		ReferenceMap: c.references,
	}
}

func (c *checker) check(e *ast.Expr) {
	if e == nil {
		return
	}
	if c.nodeCountExceeded {
		return
	}
	c.nodeCount++
	if c.nodeCount > c.maxNodeCount {
		c.nodeCountExceeded = true
		c.errors.NodeCountExceeded(celerrors.NoLocation, c.maxNodeCount)
		return
	}

	switch e.Kind {
	case ast.KindLiteral:
		c.checkLiteral(e)
	case ast.KindIdent:
		c.checkIdent(e)
	case ast.KindSelect:
		c.checkSelect(e)
	case ast.KindCall:
		c.checkCall(e)
	case ast.KindList:
		c.checkCreateList(e)
	case ast.KindStruct:
		c.checkCreateStruct(e)
	case ast.KindComprehension:
		c.checkComprehension(e)
	default:
		c.setType(e, types.Error)
	}
}

func (c *checker) checkLiteral(e *ast.Expr) {
	switch e.Literal.Kind {
	case ast.LiteralBool:
		c.setType(e, types.Bool)
	case ast.LiteralInt:
		c.setType(e, types.Int)
	case ast.LiteralUint:
		c.setType(e, types.Uint)
	case ast.LiteralDouble:
		c.setType(e, types.Double)
	case ast.LiteralString:
		c.setType(e, types.String)
	case ast.LiteralBytes:
		c.setType(e, types.Bytes)
	case ast.LiteralNull:
		c.setType(e, types.Null)
	default:
		c.setType(e, types.Error)
	}
}

func (c *checker) checkIdent(e *ast.Expr) {
	name := e.Ident.Name
	if v, found := c.env.LookupIdent(name); found {
		c.setType(e, v.Type)
		c.setReference(e, constantReference(v))
		return
	}
	c.setType(e, types.Error)
	c.errors.UndeclaredReference(c.location(e), c.env.container.Name(), name)
}

func constantReference(v *decls.VariableDecl) *ast.Reference {
	ref := &ast.Reference{Name: v.Name}
	if v.Constant != nil {
		ref.Value = &ast.ConstantValue{IntValue: v.Constant.IntValue}
	}
	return ref
}

func (c *checker) checkSelect(e *ast.Expr) {
	sel := e.Select

	if qname, found := toQualifiedName(e); found {
		if v, found := c.env.LookupIdent(qname); found {
			if sel.TestOnly {
				c.errors.ExpressionDoesNotSelectField(c.location(e))
				c.setType(e, types.Bool)
			} else {
				c.setType(e, v.Type)
				c.setReference(e, constantReference(v))
			}
			return
		}
	}

	c.check(sel.Operand)
	targetType := c.getType(sel.Operand)
	resultType := types.Error

	switch targetType.Kind() {
	case types.KindError, types.KindDyn:
		resultType = types.Dyn

	case types.KindMessage:
		if fieldType, found := c.lookupFieldType(c.location(e), targetType, sel.Field); found {
			resultType = fieldType.Type
			if sel.TestOnly && !fieldType.SupportsPresence {
				c.errors.FieldDoesNotSupportPresenceCheck(c.location(e), sel.Field)
			}
		}

	case types.KindMap:
		resultType = targetType.ValueType()

	default:
		c.errors.TypeDoesNotSupportFieldSelection(c.location(e), targetType)
	}

	if sel.TestOnly {
		resultType = types.Bool
	}
	c.setType(e, resultType)
}

func (c *checker) checkCall(e *ast.Expr) {
	call := e.Call
	for _, arg := range call.Args {
		c.check(arg)
	}

	argTypes := make([]*types.Type, len(call.Args))
	for i, arg := range call.Args {
		argTypes[i] = c.getType(arg)
	}

	var resolution *overloadResolution

	if call.Target == nil {
		if fn, found := c.env.LookupFunction(call.Function); found {
			resolution = c.resolveOverload(c.location(e), fn, false, argTypes)
		} else {
			c.errors.UndeclaredReference(c.location(e), c.env.container.Name(), call.Function)
		}
	} else {
		if qname, found := toQualifiedName(call.Target); found {
			if fn, found := c.env.LookupFunction(qname + "." + call.Function); found {
				resolution = c.resolveOverload(c.location(e), fn, false, argTypes)
			}
		}
		if resolution == nil {
			c.check(call.Target)
			targetType := c.getType(call.Target)
			instanceArgs := append([]*types.Type{targetType}, argTypes...)
			if fn, found := c.env.LookupFunction(call.Function); found {
				resolution = c.resolveOverload(c.location(e), fn, true, instanceArgs)
			} else {
				c.errors.UndeclaredReference(c.location(e), c.env.container.Name(), call.Function)
			}
		}
	}

	if resolution != nil {
		c.setType(e, resolution.resultType)
		c.setReference(e, resolution.reference)
	} else {
		c.setType(e, types.Error)
	}
}

func (c *checker) checkCreateList(e *ast.Expr) {
	list := e.List
	optIdx := make(map[int]bool, len(list.OptionalIndices))
	for _, i := range list.OptionalIndices {
		optIdx[i] = true
	}
	var elemType *types.Type
	for i, elem := range list.Elements {
		c.check(elem)
		t := c.getType(elem)
		if optIdx[i] {
			t = c.unwrapOptional(c.location(elem), t)
		}
		elemType = c.joinTypes(c.location(elem), elemType, t)
	}
	if elemType == nil {
		elemType = c.newTypeVar()
	}
	c.setType(e, types.NewList(elemType))
}

// unwrapOptional projects an optional_type(T) value type down to T for the
// `?e` list-element and `?key: v` struct/map-entry literal syntaxes, which
// contribute their unwrapped value (or nothing, at evaluation time) rather
// than the optional wrapper itself. A non-optional operand is returned
// unchanged; Dyn and Error pass through as-is.
func (c *checker) unwrapOptional(loc celerrors.Location, t *types.Type) *types.Type {
	switch t.Kind() {
	case types.KindAbstract:
		if t.AbstractName() == types.OptionalTypeName && len(t.AbstractParams()) == 1 {
			return t.AbstractParams()[0]
		}
	case types.KindDyn, types.KindError:
		return t
	}
	c.errors.TypeMismatch(loc, types.NewAbstract(types.OptionalTypeName, c.newTypeVar()), t)
	return types.Error
}

func (c *checker) checkCreateStruct(e *ast.Expr) {
	if e.Struct.MessageName != "" {
		c.checkCreateMessage(e)
	} else {
		c.checkCreateMap(e)
	}
}

func (c *checker) checkCreateMap(e *ast.Expr) {
	mapVal := e.Struct
	var keyType, valType *types.Type
	for _, entry := range mapVal.Entries {
		c.check(entry.MapKey)
		keyType = c.joinTypes(c.location(entry.MapKey), keyType, c.getType(entry.MapKey))

		c.check(entry.Value)
		entryValType := c.getType(entry.Value)
		if entry.Optional {
			entryValType = c.unwrapOptional(c.location(entry.Value), entryValType)
		}
		valType = c.joinTypes(c.location(entry.Value), valType, entryValType)

		if !typeInPermittedMapKeys(c.getType(entry.MapKey)) {
			c.errors.UnsupportedMapKeyType(c.location(entry.MapKey), c.getType(entry.MapKey))
		}
	}
	if keyType == nil {
		keyType = c.newTypeVar()
		valType = c.newTypeVar()
	}
	c.setType(e, types.NewMap(keyType, valType))
}

func typeInPermittedMapKeys(t *types.Type) bool {
	for _, k := range types.PermittedMapKeyKinds() {
		if t.Kind() == k {
			return true
		}
	}
	return false
}

func (c *checker) checkCreateMessage(e *ast.Expr) {
	msgVal := e.Struct
	messageType := types.Error

	name, found := c.env.LookupTypeName(msgVal.MessageName)
	if !found {
		c.errors.UndeclaredReference(c.location(e), c.env.container.Name(), msgVal.MessageName)
		c.setType(e, messageType)
		return
	}
	refName := name
	if !c.env.UpdateStructTypeNames() {
		refName = msgVal.MessageName
	}
	c.setReference(e, &ast.Reference{Name: refName})

	if schema.IsWellKnown(name) {
		c.errors.NotAMessageType(c.location(e), types.NewMessage(name))
		c.setType(e, types.Error)
		return
	}
	messageType = types.NewMessage(name)
	c.setType(e, messageType)

	for _, entry := range msgVal.Entries {
		c.check(entry.Value)
		fieldType := types.Error
		if fd, found := c.lookupFieldType(c.location(entry.Value), messageType, entry.Field); found {
			fieldType = fd.Type
		}
		entryValType := c.getType(entry.Value)
		if entry.Optional {
			entryValType = c.unwrapOptional(c.location(entry.Value), entryValType)
		}
		if !c.isAssignable(fieldType, entryValType) {
			c.errors.FieldTypeMismatch(c.location(entry.Value), entry.Field, fieldType, entryValType)
		}
	}
}

func (c *checker) checkComprehension(e *ast.Expr) {
	comp := e.Comprehension
	c.check(comp.IterRange)
	c.check(comp.AccuInit)
	accuType := c.getType(comp.AccuInit)
	rangeType := c.getType(comp.IterRange)

	var varType *types.Type
	switch rangeType.Kind() {
	case types.KindList:
		varType = rangeType.ElemType()
	case types.KindMap:
		varType = rangeType.KeyType()
	case types.KindDyn, types.KindError:
		varType = types.Dyn
	default:
		if comp.MacroName != "" {
			c.errors.NotAComprehensionRangeMacro(c.location(comp.IterRange), comp.MacroName, rangeType)
		} else {
			c.errors.NotAComprehensionRange(c.location(comp.IterRange), rangeType)
		}
		varType = types.Error
	}

	c.env.enterScope()
	c.env.scopes.AddIdentInScope(decls.NewVariable(comp.AccuVar, accuType))
	c.env.enterScope()
	c.env.scopes.AddIdentInScope(decls.NewVariable(comp.IterVar, varType))

	c.check(comp.LoopCondition)
	c.assertType(comp.LoopCondition, types.Bool)
	c.check(comp.LoopStep)
	c.assertType(comp.LoopStep, accuType)

	c.env.exitScope()
	c.check(comp.Result)
	c.env.exitScope()

	c.setType(e, c.getType(comp.Result))
}

// joinTypes checks the compatibility of an aggregate literal's accumulated
// element type against its next element, returning the most general common
// type (§4.5's homogeneous-aggregate-literal rule).
func (c *checker) joinTypes(loc celerrors.Location, previous, current *types.Type) *types.Type {
	if previous == nil {
		return current
	}
	if !c.isAssignable(previous, current) {
		c.errors.AggregateTypeMismatch(loc, previous, current)
		return previous
	}
	return types.MostGeneral(previous, current)
}

func (c *checker) newTypeVar() *types.Type {
	id := c.freeTypeVarCounter
	c.freeTypeVarCounter++
	return types.NewTypeParam(fmt.Sprintf("_var%d", id))
}

func (c *checker) isAssignable(t1, t2 *types.Type) bool {
	opts := types.AssignabilityOptions{EnableLegacyNullAssignment: c.env.enableLegacyNullAssignment}
	m := types.IsAssignableOpt(c.mappings, t1, t2, opts)
	if m != nil {
		c.mappings = m
		return true
	}
	return false
}

func (c *checker) isAssignableList(l1, l2 []*types.Type) bool {
	opts := types.AssignabilityOptions{EnableLegacyNullAssignment: c.env.enableLegacyNullAssignment}
	m := types.IsAssignableListOpt(c.mappings, l1, l2, opts)
	if m != nil {
		c.mappings = m
		return true
	}
	return false
}

func (c *checker) lookupFieldType(loc celerrors.Location, messageType *types.Type, fieldName string) (*schema.FieldDescriptor, bool) {
	md, found := c.env.oracle.FindMessage(messageType.MessageName())
	if !found {
		c.errors.UnexpectedFailedResolution(loc, messageType.MessageName())
		return nil, false
	}
	if fd, found := c.env.oracle.FieldType(md, fieldName); found {
		return fd, true
	}
	c.errors.UndefinedField(loc, fieldName, messageType.MessageName())
	return nil, false
}

func (c *checker) setType(e *ast.Expr, t *types.Type) {
	if old, found := c.types[e.ID]; found && !types.Equal(old, t) {
		panic(fmt.Sprintf("incompatible type already set for expression %d: old %s, new %s",
			e.ID, types.FormatType(old), types.FormatType(t)))
	}
	c.types[e.ID] = t
}

func (c *checker) getType(e *ast.Expr) *types.Type {
	return c.types[e.ID]
}

func (c *checker) setReference(e *ast.Expr, r *ast.Reference) {
	c.references[e.ID] = r
}

func (c *checker) assertType(e *ast.Expr, t *types.Type) {
	if !c.isAssignable(t, c.getType(e)) {
		c.errors.TypeMismatch(c.location(e), t, c.getType(e))
	}
}

func (c *checker) location(e *ast.Expr) celerrors.Location {
	return c.sourceInfo.Location(e.ID)
}

// toQualifiedName attempts to read e as a dotted identifier chain
// (`a.b.c`), the form a container-qualified name or enum constant
// reference can take. It returns false as soon as any non-ident,
// non-select node appears, or a select is a `has()` test-only select.
func toQualifiedName(e *ast.Expr) (string, bool) {
	switch e.Kind {
	case ast.KindIdent:
		return e.Ident.Name, true
	case ast.KindSelect:
		if e.Select.TestOnly {
			return "", false
		}
		if qname, found := toQualifiedName(e.Select.Operand); found {
			return qname + "." + e.Select.Field, true
		}
	}
	return "", false
}
