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

import (
	"fmt"
	"strings"
)

// Severity classifies an Issue. Only Error severity marks a ValidationResult
// invalid.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityDeprecated
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFORMATION"
	case SeverityDeprecated:
		return "DEPRECATED"
	default:
		return "UNKNOWN"
	}
}

// Issue is one diagnostic: a severity, a source location, and a message.
type Issue struct {
	Severity Severity
	Location Location
	Message  string
}

// DefaultMaxErrorIssues is the default cap on how many error-severity issues
// a single Errors collector will record before degrading to a summary.
const DefaultMaxErrorIssues = 20

// Errors is the append-only issue collector used for one Check() call. Once the number of recorded error-severity
// issues reaches MaxErrorIssues, further errors are suppressed and replaced
// by a single trailing summary issue; the walk that produced them is
// expected to continue regardless, so that type_map coverage is maximized.
type Errors struct {
	source     Source
	container  string
	issues     []*Issue
	maxErrors  int
	errorCount int
	summarized bool
}

// NewErrors returns a collector bound to source (used for snippet
// rendering) and container (used in "(in container '...')" suffixes).
// maxErrors <= 0 uses DefaultMaxErrorIssues.
func NewErrors(source Source, container string, maxErrors int) *Errors {
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrorIssues
	}
	return &Errors{source: source, container: container, maxErrors: maxErrors}
}

// ReportError appends an Error-severity issue, unless the cap has already
// been reached, in which case it appends (once) a summary issue instead.
func (e *Errors) ReportError(l Location, format string, args ...interface{}) {
	e.report(SeverityError, l, fmt.Sprintf(format, args...))
}

// ReportWarning appends a Warning-severity issue; warnings are never capped.
func (e *Errors) ReportWarning(l Location, format string, args ...interface{}) {
	e.report(SeverityWarning, l, fmt.Sprintf(format, args...))
}

func (e *Errors) report(sev Severity, l Location, msg string) {
	if sev == SeverityError {
		if e.summarized {
			return
		}
		if e.errorCount >= e.maxErrors {
			e.summarized = true
			e.issues = append(e.issues, &Issue{
				Severity: SeverityError,
				Location: l,
				Message:  fmt.Sprintf("too many errors (max %d), suppressing the remainder", e.maxErrors),
			})
			return
		}
		e.errorCount++
	}
	e.issues = append(e.issues, &Issue{Severity: sev, Location: l, Message: msg})
}

// Issues returns every recorded issue, in the order they were reported.
func (e *Errors) Issues() []*Issue {
	return e.issues[:]
}

// HasErrors reports whether any Error-severity issue was recorded; a
// ValidationResult is valid iff this is false.
func (e *Errors) HasErrors() bool {
	return e.errorCount > 0
}

// String renders every issue, one per line, in the same format used by the
// reference implementation: "<SEV>: <source>:<line>:<col>: <msg> (in
// container '<c>')".
func (e *Errors) String() string {
	var b strings.Builder
	for i, iss := range e.issues {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.render(iss))
	}
	return b.String()
}

func (e *Errors) render(iss *Issue) string {
	name := "<input>"
	if e.source != nil {
		name = e.source.Name()
	}
	line, col := iss.Location.Line(), iss.Location.Column()
	if !iss.Location.Known() {
		line, col = -1, -1
	}
	msg := fmt.Sprintf("%s: %s:%d:%d: %s", iss.Severity, name, line, col, iss.Message)
	if e.container != "" {
		msg += fmt.Sprintf(" (in container '%s')", e.container)
	}
	if e.source != nil && iss.Location.Known() {
		if snippet, found := e.source.Snippet(line); found {
			msg += "\n | " + snippet
			msg += "\n | " + strings.Repeat(".", max(col-1, 0)) + "^"
		}
	}
	return msg
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
