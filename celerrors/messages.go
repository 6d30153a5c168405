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

package celerrors

import "github.com/exprlang/celcheck/types"

// TypeErrors wraps Errors with the specific messages the §7 error catalogue
// names, one method per kind, matching the reference checker's
// checker/errors.go one for one.
type TypeErrors struct {
	*Errors
}

// NewTypeErrors wraps an Errors collector with the checker-specific message
// helpers.
func NewTypeErrors(e *Errors) *TypeErrors {
	return &TypeErrors{Errors: e}
}

func (e *TypeErrors) UndeclaredReference(l Location, container, name string) {
	e.ReportError(l, "undeclared reference to '%s' (in container '%s')", name, container)
}

func (e *TypeErrors) ExpressionDoesNotSelectField(l Location) {
	e.ReportError(l, "expression does not select a field")
}

func (e *TypeErrors) TypeDoesNotSupportFieldSelection(l Location, t *types.Type) {
	e.ReportError(l, "expression of type '%s' cannot be the operand of a select", types.FormatType(t))
}

func (e *TypeErrors) UndefinedField(l Location, field, messageType string) {
	e.ReportError(l, "undefined field '%s' in struct '%s'", field, messageType)
}

func (e *TypeErrors) FieldDoesNotSupportPresenceCheck(l Location, field string) {
	e.ReportError(l, "field '%s' does not support presence check", field)
}

func (e *TypeErrors) NoMatchingOverload(l Location, name string, args []*types.Type, isInstance bool) {
	e.ReportError(l, "found no matching overload for '%s' applied to '%s'", name,
		types.FormatFunction(nil, args, isInstance))
}

func (e *TypeErrors) AggregateTypeMismatch(l Location, aggregate, member *types.Type) {
	e.ReportError(l,
		"type '%s' does not match previous type '%s' in aggregate. Use 'dyn(x)' to make the aggregate dynamic",
		types.FormatType(member), types.FormatType(aggregate))
}

func (e *TypeErrors) UnsupportedMapKeyType(l Location, t *types.Type) {
	e.ReportWarning(l, "unsupported map key type '%s'", types.FormatType(t))
}

func (e *TypeErrors) NotAType(l Location, t *types.Type) {
	e.ReportError(l, "'%s' is not a type", types.FormatType(t))
}

func (e *TypeErrors) NotAMessageType(l Location, t *types.Type) {
	e.ReportError(l, "'%s' is not a message type", types.FormatType(t))
}

func (e *TypeErrors) FieldTypeMismatch(l Location, name string, field, value *types.Type) {
	e.ReportError(l, "expected type of field '%s' is '%s' but provided type is '%s'",
		name, types.FormatType(field), types.FormatType(value))
}

func (e *TypeErrors) UnexpectedFailedResolution(l Location, typeName string) {
	e.ReportError(l, "[internal] unexpected failed resolution of '%s'", typeName)
}

func (e *TypeErrors) NotAComprehensionRange(l Location, t *types.Type) {
	e.ReportError(l,
		"expression of type '%s' cannot be the range of a comprehension (must be list, map, or dynamic)",
		types.FormatType(t))
}

func (e *TypeErrors) NotAComprehensionRangeMacro(l Location, macro string, t *types.Type) {
	e.ReportError(l,
		"expression of type '%s' cannot be the range of a '%s' macro (must be list, map, or dynamic)",
		types.FormatType(t), macro)
}

func (e *TypeErrors) TypeMismatch(l Location, expected, actual *types.Type) {
	e.ReportError(l, "expected type '%s' but found '%s'", types.FormatType(expected), types.FormatType(actual))
}

func (e *TypeErrors) NodeCountExceeded(l Location, max int) {
	e.ReportError(l, "expression node count exceeded limit of %d", max)
}
