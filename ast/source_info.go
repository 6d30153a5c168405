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

import "github.com/exprlang/celcheck/celerrors"

// SourceInfo carries the position metadata a parser attaches to a parsed
// expression: the byte offset of each node, and the offset at which each
// source line begins, used to convert a node's offset to (line, column).
type SourceInfo struct {
	// Positions maps an expression id to its byte offset within the source.
	Positions map[Int64ID]int32
	// LineOffsets[i] is the byte offset of the start of line i+2 (line 1
	// always starts at offset 0), matching the convention used by the
	// reference parser's SourceInfo.
	LineOffsets []int32
}

// Location converts an expression id's recorded offset into a
// celerrors.Location, or celerrors.NoLocation when the id has no recorded
// offset or the offsets are inconsistent (e.g. negative). This mirrors
// §4.8: malformed position data never aborts the checker, it only degrades
// the reported location.
func (si *SourceInfo) Location(id Int64ID) celerrors.Location {
	if si == nil {
		return celerrors.NoLocation
	}
	offset, found := si.Positions[id]
	if !found || offset < 0 {
		return celerrors.NoLocation
	}
	line := 1
	col := int(offset)
	for _, lineOffset := range si.LineOffsets {
		if lineOffset <= offset {
			line++
			col = int(offset - lineOffset)
		} else {
			break
		}
	}
	return celerrors.NewLocation(line, col)
}
