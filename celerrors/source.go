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

// Package celerrors collects and renders the checker's diagnostics: an
// append-only issue list with severities, an error cap, and source-position
// aware rendering.
package celerrors

import (
	"regexp"

	"golang.org/x/text/unicode/norm"
)

var lineStart = regexp.MustCompile("(?m)^")

// Source is a minimal view over the original expression text, enough to
// render a one-line snippet alongside an issue.
type Source interface {
	Name() string
	Snippet(line int) (string, bool)
}

// TextSource is a Source backed by an in-memory expression string.
type TextSource struct {
	name     string
	contents string
}

// NewTextSource wraps contents (normalized to NFC, so that combining marks
// in identifiers don't shift reported columns) as a named Source.
func NewTextSource(name, contents string) Source {
	return &TextSource{name: name, contents: norm.NFC.String(contents)}
}

// Name returns the source's display name, typically a file path or "<input>".
func (s *TextSource) Name() string { return s.name }

// Snippet returns the 1-indexed line of text, if present.
func (s *TextSource) Snippet(line int) (string, bool) {
	if s.contents == "" {
		return "", false
	}
	start, end := -1, -1
	for i, m := range lineStart.FindAllStringIndex(s.contents, -1) {
		if i+1 == line {
			start = m[0]
			continue
		}
		if i == line {
			end = m[0]
			break
		}
	}
	if start == -1 {
		return "", false
	}
	if end == -1 {
		end = len(s.contents)
	}
	return s.contents[start:end], true
}
