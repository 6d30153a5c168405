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

// Package schema defines the checker's sole bridge to the protobuf
// ecosystem: an opaque oracle over a descriptor pool that resolves a
// qualified message/enum name to a structural shape, without the checker
// ever depending on a concrete descriptor library beyond this interface.
package schema

import "github.com/exprlang/celcheck/types"

// Cardinality classifies a field's multiplicity as the descriptor reports
// it. A repeated field's Type is already a List (or Map); neither
// assignability nor context declarations consult Cardinality.
type Cardinality int

const (
	CardinalitySingular Cardinality = iota
	CardinalityOptional             // proto3 `optional`, or proto2 optional
	CardinalityRepeated
	CardinalityRequired // proto2 required
)

// FieldDescriptor describes one field of a message, enough for the checker
// to type a select/struct-literal site and to decide whether `has(...)` is
// legal on it.
type FieldDescriptor struct {
	Name             string
	Type             *types.Type
	Cardinality      Cardinality
	OneofName        string // "" if not part of a oneof
	IsWrapperField   bool
	SupportsPresence bool
}

// MessageDescriptor is the structural shape of one protobuf message: its
// fully-qualified name and its fields by name.
type MessageDescriptor struct {
	FullName string
	Fields   map[string]*FieldDescriptor
}

// EnumDescriptor is the structural shape of one protobuf enum: its
// fully-qualified name and its named integer values.
type EnumDescriptor struct {
	FullName string
	Values   map[string]int32
}

// Oracle is the opaque interface the checker uses to resolve protobuf
// names; the descriptor pool behind it (a concrete protoregistry.Files, a
// test fixture, or a hand-built fake) is never visible to the checker core.
type Oracle interface {
	// FindMessage resolves a fully-qualified message name to its structural
	// descriptor.
	FindMessage(name string) (*MessageDescriptor, bool)
	// FindEnum resolves a fully-qualified enum name to its named values.
	FindEnum(name string) (*EnumDescriptor, bool)
	// IsContextEligible reports whether name is a (non-well-known) message
	// type, and thus a legal target for a context declaration unless the
	// well-known-type-context-declarations option is set.
	IsContextEligible(name string) bool
	// FieldType resolves one field of an already-resolved message
	// descriptor.
	FieldType(md *MessageDescriptor, fieldName string) (*FieldDescriptor, bool)
}

// wellKnownMessageNames are message types the checker models as first-class
// Type variants (Any, Duration, Timestamp) rather than as opaque Message
// types, and are therefore excluded from "context eligible" by default.
var wellKnownMessageNames = map[string]bool{
	"google.protobuf.Any":       true,
	"google.protobuf.Duration":  true,
	"google.protobuf.Timestamp": true,
	"google.protobuf.BoolValue":   true,
	"google.protobuf.Int32Value":  true,
	"google.protobuf.Int64Value":  true,
	"google.protobuf.UInt32Value": true,
	"google.protobuf.UInt64Value": true,
	"google.protobuf.FloatValue":  true,
	"google.protobuf.DoubleValue": true,
	"google.protobuf.StringValue": true,
	"google.protobuf.BytesValue":  true,
	"google.protobuf.Struct":      true,
	"google.protobuf.Value":       true,
	"google.protobuf.ListValue":   true,
}

// IsWellKnown reports whether name is one of the protobuf well-known types
// the checker's type model (types.Any/Duration/Timestamp/Wrapper) already
// represents natively.
func IsWellKnown(name string) bool {
	return wellKnownMessageNames[name]
}
