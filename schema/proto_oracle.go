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

package schema

import (
	"sync"

	"github.com/stoewer/go-strcase"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"

	"github.com/exprlang/celcheck/types"
)

// protoOracle is the production Oracle: it resolves names against a
// protoregistry.Files pool (typically protoregistry.GlobalFiles, populated
// by the generated packages an embedder imports for side effect) and caches
// the structural descriptors it derives, since repeated Check calls reuse
// the same message shapes.
type protoOracle struct {
	files *protoregistry.Files

	mu    sync.RWMutex
	cache map[string]*MessageDescriptor
}

// NewProtoOracle builds an Oracle backed by files, a descriptor pool
// typically populated by the init-time side effects of the generated Go
// packages an embedder links in. Pass protoregistry.GlobalFiles to resolve
// against every proto file compiled into the program.
func NewProtoOracle(files *protoregistry.Files) Oracle {
	return &protoOracle{
		files: files,
		cache: make(map[string]*MessageDescriptor),
	}
}

func (o *protoOracle) FindMessage(name string) (*MessageDescriptor, bool) {
	o.mu.RLock()
	if md, ok := o.cache[name]; ok {
		o.mu.RUnlock()
		return md, true
	}
	o.mu.RUnlock()

	desc, err := o.files.FindDescriptorByName(protoreflect.FullName(name))
	if err != nil {
		return nil, false
	}
	msgDesc, ok := desc.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, false
	}
	md := newMessageDescriptor(msgDesc)

	o.mu.Lock()
	o.cache[name] = md
	o.mu.Unlock()
	return md, true
}

func (o *protoOracle) FindEnum(name string) (*EnumDescriptor, bool) {
	desc, err := o.files.FindDescriptorByName(protoreflect.FullName(name))
	if err != nil {
		return nil, false
	}
	enumDesc, ok := desc.(protoreflect.EnumDescriptor)
	if !ok {
		return nil, false
	}
	values := make(map[string]int32, enumDesc.Values().Len())
	vals := enumDesc.Values()
	for i := 0; i < vals.Len(); i++ {
		v := vals.Get(i)
		values[string(v.Name())] = int32(v.Number())
	}
	return &EnumDescriptor{FullName: name, Values: values}, true
}

func (o *protoOracle) IsContextEligible(name string) bool {
	if IsWellKnown(name) {
		return false
	}
	_, ok := o.FindMessage(name)
	return ok
}

func (o *protoOracle) FieldType(md *MessageDescriptor, fieldName string) (*FieldDescriptor, bool) {
	fd, ok := md.Fields[fieldName]
	return fd, ok
}

func newMessageDescriptor(msgDesc protoreflect.MessageDescriptor) *MessageDescriptor {
	md := &MessageDescriptor{
		FullName: string(msgDesc.FullName()),
		Fields:   make(map[string]*FieldDescriptor),
	}
	fields := msgDesc.Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		// Declared CEL field names follow the proto source's snake_case, so
		// fields are keyed by strcase.SnakeCase(fd.Name()). FieldType looks
		// a caller's field name up as given; a camelCase name is not
		// converted.
		fieldName := strcase.SnakeCase(string(fd.Name()))
		md.Fields[fieldName] = newFieldDescriptor(fd)
	}
	return md
}

func newFieldDescriptor(fd protoreflect.FieldDescriptor) *FieldDescriptor {
	cardinality := CardinalitySingular
	switch {
	case fd.IsList():
		cardinality = CardinalityRepeated
	case fd.HasOptionalKeyword():
		cardinality = CardinalityOptional
	case fd.Cardinality() == protoreflect.Required:
		cardinality = CardinalityRequired
	}
	oneofName := ""
	if od := fd.ContainingOneof(); od != nil && !od.IsSynthetic() {
		oneofName = string(od.Name())
	}
	isWrapper := false
	if fd.Kind() == protoreflect.MessageKind && fd.Message() != nil {
		isWrapper = IsWellKnown(string(fd.Message().FullName())) && isWrapperType(string(fd.Message().FullName()))
	}
	return &FieldDescriptor{
		Name:             string(fd.Name()),
		Type:             fieldType(fd),
		Cardinality:      cardinality,
		OneofName:        oneofName,
		IsWrapperField:   isWrapper,
		SupportsPresence: supportsPresence(fd),
	}
}

func supportsPresence(fd protoreflect.FieldDescriptor) bool {
	if fd.IsList() || fd.IsMap() {
		return true
	}
	if fd.ContainingOneof() != nil {
		return true
	}
	if fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind {
		return true
	}
	return fd.HasOptionalKeyword() || fd.HasPresence()
}

func isWrapperType(name string) bool {
	switch name {
	case "google.protobuf.BoolValue", "google.protobuf.Int32Value", "google.protobuf.Int64Value",
		"google.protobuf.UInt32Value", "google.protobuf.UInt64Value", "google.protobuf.FloatValue",
		"google.protobuf.DoubleValue", "google.protobuf.StringValue", "google.protobuf.BytesValue":
		return true
	default:
		return false
	}
}

// fieldType maps one proto field descriptor to the checker's native type
// model. Map and repeated fields are promoted to types.Map/types.List over
// the element kind; everything else is a direct kind translation.
func fieldType(fd protoreflect.FieldDescriptor) *types.Type {
	if fd.IsMap() {
		keyType := scalarFieldType(fd.MapKey())
		valType := fieldKindType(fd.MapValue())
		return types.NewMap(keyType, valType)
	}
	elem := fieldKindType(fd)
	if fd.IsList() {
		return types.NewList(elem)
	}
	return elem
}

func scalarFieldType(fd protoreflect.FieldDescriptor) *types.Type {
	return fieldKindType(fd)
}

func fieldKindType(fd protoreflect.FieldDescriptor) *types.Type {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return types.Bool
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
		protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return types.Int
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind,
		protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return types.Uint
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		return types.Double
	case protoreflect.StringKind:
		return types.String
	case protoreflect.BytesKind:
		return types.Bytes
	case protoreflect.EnumKind:
		return types.NewEnum(string(fd.Enum().FullName()))
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return messageKindType(string(fd.Message().FullName()))
	default:
		return types.Dyn
	}
}

// messageKindType maps a message-typed field to its checker representation,
// substituting the checker's first-class Type for the protobuf well-known
// types it already models natively.
func messageKindType(fullName string) *types.Type {
	switch fullName {
	case "google.protobuf.Any":
		return types.Any
	case "google.protobuf.Duration":
		return types.Duration
	case "google.protobuf.Timestamp":
		return types.Timestamp
	case "google.protobuf.BoolValue":
		return types.NewWrapper(types.Bool)
	case "google.protobuf.Int32Value", "google.protobuf.Int64Value":
		return types.NewWrapper(types.Int)
	case "google.protobuf.UInt32Value", "google.protobuf.UInt64Value":
		return types.NewWrapper(types.Uint)
	case "google.protobuf.FloatValue", "google.protobuf.DoubleValue":
		return types.NewWrapper(types.Double)
	case "google.protobuf.StringValue":
		return types.NewWrapper(types.String)
	case "google.protobuf.BytesValue":
		return types.NewWrapper(types.Bytes)
	case "google.protobuf.Struct":
		return types.NewMap(types.String, types.Dyn)
	case "google.protobuf.Value":
		return types.Dyn
	case "google.protobuf.ListValue":
		return types.NewList(types.Dyn)
	default:
		return types.NewMessage(fullName)
	}
}
