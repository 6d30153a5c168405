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

import "testing"

func TestIsWellKnown(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"google.protobuf.Any", true},
		{"google.protobuf.Duration", true},
		{"google.protobuf.StringValue", true},
		{"my.app.Account", false},
	}
	for _, tc := range tests {
		if got := IsWellKnown(tc.name); got != tc.want {
			t.Errorf("IsWellKnown(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

// fakeOracle is a hand-built fixture for this package's tests that don't
// want to link a generated proto package; it implements Oracle directly
// over an in-memory table rather than a protoregistry.Files pool.
type fakeOracle struct {
	messages map[string]*MessageDescriptor
	enums    map[string]*EnumDescriptor
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{
		messages: make(map[string]*MessageDescriptor),
		enums:    make(map[string]*EnumDescriptor),
	}
}

func (f *fakeOracle) FindMessage(name string) (*MessageDescriptor, bool) {
	md, ok := f.messages[name]
	return md, ok
}

func (f *fakeOracle) FindEnum(name string) (*EnumDescriptor, bool) {
	ed, ok := f.enums[name]
	return ed, ok
}

func (f *fakeOracle) IsContextEligible(name string) bool {
	if IsWellKnown(name) {
		return false
	}
	_, ok := f.messages[name]
	return ok
}

func (f *fakeOracle) FieldType(md *MessageDescriptor, fieldName string) (*FieldDescriptor, bool) {
	fd, ok := md.Fields[fieldName]
	return fd, ok
}

func TestFakeOracleRoundTrip(t *testing.T) {
	o := newFakeOracle()
	o.messages["my.app.Account"] = &MessageDescriptor{
		FullName: "my.app.Account",
		Fields: map[string]*FieldDescriptor{
			"id": {Name: "id", Cardinality: CardinalitySingular},
		},
	}
	md, ok := o.FindMessage("my.app.Account")
	if !ok {
		t.Fatalf("FindMessage() not found")
	}
	if !o.IsContextEligible("my.app.Account") {
		t.Errorf("IsContextEligible() = false, want true")
	}
	if _, ok := o.FieldType(md, "id"); !ok {
		t.Errorf("FieldType(id) not found")
	}
	if _, ok := o.FieldType(md, "missing"); ok {
		t.Errorf("FieldType(missing) = found, want not found")
	}
}
