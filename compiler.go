// Package rmscript compiles rmscript source text into validated IR. It
// threads source through the lexer, parser, semantic analyzer, and
// optimizer, accumulating diagnostics from every phase (spec §4.5, §7).
package rmscript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reachy-mini/rmscript/ast"
	"github.com/reachy-mini/rmscript/diag"
	"github.com/reachy-mini/rmscript/ir"
	"github.com/reachy-mini/rmscript/lexer"
	"github.com/reachy-mini/rmscript/optimizer"
	"github.com/reachy-mini/rmscript/parser"
	"github.com/reachy-mini/rmscript/semantic"
)

// ExecutionContext carries metadata about the script being compiled that
// isn't part of the source text itself — the name and description a
// caller wants attributed to the result, and where the source came from.
type ExecutionContext struct {
	ScriptName        string
	ScriptDescription string
	SourceFilePath    *string
	Extensions        map[string]any
}

// CompilationResult is the outcome of compiling one script: whether it
// succeeded, every diagnostic produced along the way, and the IR that
// did lower successfully. A parser or semantic error on one statement
// doesn't discard IR from the statements that compiled fine (spec
// §4.2/§4.5) — Success only reflects whether any error was recorded.
type CompilationResult struct {
	Name           string
	Description    string
	Success        bool
	Errors         []diag.Diagnostic
	Warnings       []diag.Diagnostic
	SourceCode     string
	SourceFilePath *string
	IR             []ir.IR
}

// Options configures a compilation run.
type Options struct {
	Semantic semantic.Options
}

// CompileScript compiles rmscript source text to IR. name, if empty,
// falls back to "script"; the DESCRIPTION header only fills the result's
// Description, never its Name.
func CompileScript(source, name string) CompilationResult {
	return compile(source, name, nil, Options{})
}

// CompileScriptWithOptions is CompileScript with explicit analyzer
// options (e.g. an alternate limits.Config).
func CompileScriptWithOptions(source, name string, opts Options) CompilationResult {
	return compile(source, name, nil, opts)
}

// CompileWithContext compiles source using the name and source file path
// carried on ctx. ctx.ScriptDescription is informational only — the
// DESCRIPTION header parsed from source always takes precedence in the
// result, matching how CompileScript resolves a name against the parsed
// Program.
func CompileWithContext(source string, ctx ExecutionContext, opts Options) CompilationResult {
	return compile(source, ctx.ScriptName, ctx.SourceFilePath, opts)
}

// CompileFile reads path and compiles its contents. The script name
// defaults to the file's base name with its extension stripped and
// spaces replaced by underscores.
func CompileFile(path string) CompilationResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return CompilationResult{
			Name:    deriveName(path),
			Success: false,
			Errors:  []diag.Diagnostic{diag.New(0, 0, fmt.Sprintf("reading %s: %v", path, err))},
		}
	}
	p := path
	return compile(string(data), deriveName(path), &p, Options{})
}

// CompileFileWithOptions is CompileFile with explicit analyzer options.
func CompileFileWithOptions(path string, opts Options) CompilationResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return CompilationResult{
			Name:    deriveName(path),
			Success: false,
			Errors:  []diag.Diagnostic{diag.New(0, 0, fmt.Sprintf("reading %s: %v", path, err))},
		}
	}
	p := path
	return compile(string(data), deriveName(path), &p, opts)
}

func deriveName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(base, " ", "_")
}

// VerifyScript runs the full pipeline but discards the IR, returning only
// whether compilation succeeded and the formatted diagnostic messages
// (all errors first, then all warnings).
func VerifyScript(source string) (bool, []string) {
	result := compile(source, "", nil, Options{})
	var messages []string
	for _, d := range result.Errors {
		messages = append(messages, d.Format())
	}
	for _, d := range result.Warnings {
		messages = append(messages, d.Format())
	}
	return result.Success, messages
}

func compile(source, name string, sourceFilePath *string, opts Options) CompilationResult {
	var all []diag.Diagnostic

	tokens, lexDiags := lexer.New().Lex(source)
	all = append(all, lexDiags...)

	prog, parseDiags := parser.New(tokens, source).Parse(name)
	all = append(all, parseDiags...)

	var entries []ir.IR
	if prog != nil {
		var semDiags []diag.Diagnostic
		entries, semDiags = semantic.Analyze(prog, opts.Semantic)
		all = append(all, semDiags...)
		entries = optimizer.Optimize(entries, opts.Semantic.Logger)
	}

	result := CompilationResult{
		Name:           resultName(name, prog),
		Success:        len(diag.Errors(all)) == 0,
		Errors:         diag.Errors(all),
		Warnings:       diag.Warnings(all),
		SourceCode:     source,
		SourceFilePath: sourceFilePath,
		IR:             entries,
	}
	if prog != nil {
		result.Description = prog.Description
	}
	return result
}

// Context builds the ExecutionContext an adapter would need to re-invoke
// or describe this compilation, without re-deriving the name and
// description from the source itself.
func (r CompilationResult) Context() ExecutionContext {
	return ExecutionContext{
		ScriptName:        r.Name,
		ScriptDescription: r.Description,
		SourceFilePath:    r.SourceFilePath,
	}
}

func resultName(name string, prog *ast.Program) string {
	if name != "" {
		return name
	}
	if prog != nil && prog.Name != "" {
		return prog.Name
	}
	return "script"
}
