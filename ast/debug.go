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

import (
	"bytes"
	"fmt"
	"strings"
)

// debugWriter accumulates an indented tree rendering of an Expr, used by
// ToDebugString for test failure messages and REPL-style tooling.
type debugWriter struct {
	buffer    bytes.Buffer
	indent    int
	lineStart bool
}

func newDebugWriter() *debugWriter {
	return &debugWriter{lineStart: true}
}

func (w *debugWriter) append(s string) {
	if w.lineStart {
		w.lineStart = false
		w.buffer.WriteString(strings.Repeat("  ", w.indent))
	}
	w.buffer.WriteString(s)
}

func (w *debugWriter) appendFormat(f string, args ...interface{}) {
	w.append(fmt.Sprintf(f, args...))
}

func (w *debugWriter) appendLine() {
	w.buffer.WriteString("\n")
	w.lineStart = true
}

func (w *debugWriter) nest(body func()) {
	w.indent++
	body()
	w.indent--
}

// ToDebugString renders e as an indented tree; node ids are not included.
// It is used only for diagnostics and tests, never by the checker itself.
func ToDebugString(e *Expr) string {
	w := newDebugWriter()
	writeExpr(w, e)
	return w.buffer.String()
}

func writeExpr(w *debugWriter, e *Expr) {
	if e == nil {
		w.append("<nil>")
		return
	}
	switch e.Kind {
	case KindLiteral:
		w.appendFormat("%s", literalString(e.Literal))
	case KindIdent:
		w.appendFormat("%s", e.Ident.Name)
	case KindSelect:
		writeExpr(w, e.Select.Operand)
		if e.Select.TestOnly {
			w.appendFormat(".has(%s)", e.Select.Field)
		} else {
			w.appendFormat(".%s", e.Select.Field)
		}
	case KindCall:
		if e.Call.Target != nil {
			writeExpr(w, e.Call.Target)
			w.append(".")
		}
		w.appendFormat("%s(", e.Call.Function)
		for i, arg := range e.Call.Args {
			if i > 0 {
				w.append(", ")
			}
			writeExpr(w, arg)
		}
		w.append(")")
	case KindList:
		w.append("[")
		for i, elem := range e.List.Elements {
			if i > 0 {
				w.append(", ")
			}
			writeExpr(w, elem)
		}
		w.append("]")
	case KindStruct:
		name := e.Struct.MessageName
		if name == "" {
			name = ""
		}
		w.appendFormat("%s{", name)
		w.appendLine()
		w.nest(func() {
			for _, entry := range e.Struct.Entries {
				if entry.Kind == EntryField {
					w.appendFormat("%s: ", entry.Field)
				} else {
					writeExpr(w, entry.MapKey)
					w.append(": ")
				}
				writeExpr(w, entry.Value)
				w.appendLine()
			}
		})
		w.append("}")
	case KindComprehension:
		c := e.Comprehension
		w.appendFormat("__comprehension__(%s,", c.MacroName)
		w.appendLine()
		w.nest(func() {
			w.appendFormat("%s, ", c.IterVar)
			writeExpr(w, c.IterRange)
			w.appendLine()
			w.appendFormat("%s, ", c.AccuVar)
			writeExpr(w, c.AccuInit)
			w.appendLine()
		})
		w.append(")")
	default:
		w.append("<unspecified>")
	}
}

func literalString(l *Literal) string {
	switch l.Kind {
	case LiteralBool:
		return fmt.Sprintf("%t", l.BoolValue)
	case LiteralInt:
		return fmt.Sprintf("%d", l.IntValue)
	case LiteralUint:
		return fmt.Sprintf("%du", l.UintValue)
	case LiteralDouble:
		return fmt.Sprintf("%g", l.DoubleValue)
	case LiteralString:
		return fmt.Sprintf("%q", l.StringValue)
	case LiteralBytes:
		return fmt.Sprintf("b%q", string(l.BytesValue))
	case LiteralNull:
		return "null"
	default:
		return "<unspecified literal>"
	}
}
