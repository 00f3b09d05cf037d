// Package diag defines the structured diagnostics rmscript's compiler
// phases accumulate: errors that fail compilation and warnings that don't.
package diag

import (
	"fmt"
	"strings"
)

// Severity distinguishes diagnostics that fail compilation from those that
// merely advise the caller.
type Severity int

const (
	// Error diagnostics cause CompilationResult.Success to be false.
	Error Severity = iota
	// Warning diagnostics are informational; compilation still succeeds.
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is a single structured message produced by a compiler phase.
// Line and Column are 1-indexed; Column is 0 when no specific column
// applies (e.g. semantic-phase diagnostics, which cover a whole statement).
type Diagnostic struct {
	Line     int
	Column   int
	Message  string
	Severity Severity
}

// New constructs an Error diagnostic at the given position.
func New(line, column int, message string) Diagnostic {
	return Diagnostic{Line: line, Column: column, Message: message, Severity: Error}
}

// NewWarning constructs a Warning diagnostic at the given position.
func NewWarning(line, column int, message string) Diagnostic {
	return Diagnostic{Line: line, Column: column, Message: message, Severity: Warning}
}

// Format renders a single-line representation used by verify_script and
// general logging: "<severity>: <message> (line L, col C)", or
// "<severity>: <message> (line L)" when Column is 0.
func (d Diagnostic) Format() string {
	if d.Column > 0 {
		return fmt.Sprintf("%s: %s (line %d, col %d)", d.Severity, d.Message, d.Line, d.Column)
	}
	return fmt.Sprintf("%s: %s (line %d)", d.Severity, d.Message, d.Line)
}

// Render reproduces the Rust/Clang-style source snippet the teacher's
// parser errors use: a location pointer, a gutter, the offending source
// line, and a caret under the column.
func (d Diagnostic) Render(source string) string {
	lines := strings.Split(source, "\n")
	if d.Line <= 0 || d.Line > len(lines) {
		return d.Format()
	}
	lineContent := lines[d.Line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", d.Severity, d.Message)
	fmt.Fprintf(&b, "  --> %d:%d\n", d.Line, d.Column)
	b.WriteString("   |\n")
	fmt.Fprintf(&b, "%2d | %s\n", d.Line, lineContent)
	b.WriteString("   | ")
	if d.Column > 0 && d.Column <= len(lineContent)+1 {
		b.WriteString(strings.Repeat(" ", d.Column-1) + "^")
	}
	return b.String()
}

// Errors filters a diagnostic slice down to just the Error severity ones.
func Errors(ds []Diagnostic) []Diagnostic {
	var out []Diagnostic
	for _, d := range ds {
		if d.Severity == Error {
			out = append(out, d)
		}
	}
	return out
}

// Warnings filters a diagnostic slice down to just the Warning severity ones.
func Warnings(ds []Diagnostic) []Diagnostic {
	var out []Diagnostic
	for _, d := range ds {
		if d.Severity == Warning {
			out = append(out, d)
		}
	}
	return out
}
