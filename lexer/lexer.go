// Package lexer turns rmscript source text into a token stream. It is
// deterministic and single-pass: it never reconsiders a decision once a
// token boundary is emitted, and indentation is tracked with a small
// explicit stack rather than a state machine, per the design notes in
// spec §9.
package lexer

import (
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/cases"

	"github.com/reachy-mini/rmscript/diag"
	"github.com/reachy-mini/rmscript/token"
)

// ASCII character classification tables, following the teacher's
// init()-populated lookup-table style for fast, branch-light scanning.
var (
	isDigit     [128]bool
	isIdentPart [128]bool // letters, digits, underscore, hyphen
	isIdentStart [128]bool
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isDigit[i] = ch >= '0' && ch <= '9'
		letter := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
		isIdentStart[i] = letter || ch == '_'
		isIdentPart[i] = isIdentStart[i] || isDigit[i] || ch == '-'
	}
}

const tabWidth = 4

// Lexer tokenizes a complete source string. It holds no state across
// calls to Lex; New only configures the debug logger and the keyword
// case folder.
type Lexer struct {
	logger *slog.Logger
	fold   cases.Caser
}

// New creates a Lexer. Debug tracing is enabled by setting
// RMSCRIPT_DEBUG_LEXER in the environment, matching the teacher's
// DEVCMD_DEBUG_LEXER convention.
func New() *Lexer {
	level := slog.LevelInfo
	if os.Getenv("RMSCRIPT_DEBUG_LEXER") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	return &Lexer{logger: logger, fold: cases.Fold()}
}

// Lex tokenizes source into a token stream and any diagnostics produced
// along the way (inconsistent indentation, unrecognized characters).
// It always returns a usable (possibly partial) token stream, per spec §7.
func (l *Lexer) Lex(source string) ([]token.Token, []diag.Diagnostic) {
	var tokens []token.Token
	var diags []diag.Diagnostic
	indentStack := []int{0}

	rawLines := strings.Split(source, "\n")
	for idx, raw := range rawLines {
		lineNo := idx + 1
		line := strings.TrimSuffix(raw, "\r")
		line = stripComment(line)

		if isBlank(line) {
			continue
		}

		width, contentStart, inconsistent := measureIndent(line)
		if inconsistent {
			diags = append(diags, diag.New(lineNo, contentStart+1, "Inconsistent indentation"))
		}

		top := indentStack[len(indentStack)-1]
		switch {
		case width > top:
			indentStack = append(indentStack, width)
			tokens = append(tokens, token.Token{Kind: token.INDENT, Pos: token.Position{Line: lineNo, Column: 1}})
		case width < top:
			for len(indentStack) > 1 && indentStack[len(indentStack)-1] > width {
				indentStack = indentStack[:len(indentStack)-1]
				tokens = append(tokens, token.Token{Kind: token.DEDENT, Pos: token.Position{Line: lineNo, Column: 1}})
			}
			if indentStack[len(indentStack)-1] != width {
				diags = append(diags, diag.New(lineNo, 1, "Inconsistent indentation"))
				indentStack = append(indentStack, width)
			}
		}

		content := line[contentStart:]
		lineTokens, lineDiags := l.scanLine(content, contentStart+1, lineNo)
		tokens = append(tokens, lineTokens...)
		diags = append(diags, lineDiags...)

		if len(lineTokens) > 0 {
			last := lineTokens[len(lineTokens)-1]
			tokens = append(tokens, token.Token{Kind: token.NEWLINE, Text: "\n", Pos: token.Position{Line: lineNo, Column: last.Pos.Column + len(last.Text)}})
		}
	}

	for len(indentStack) > 1 {
		indentStack = indentStack[:len(indentStack)-1]
		tokens = append(tokens, token.Token{Kind: token.DEDENT, Pos: token.Position{Line: len(rawLines) + 1, Column: 1}})
	}
	tokens = append(tokens, token.Token{Kind: token.EOF, Pos: token.Position{Line: len(rawLines) + 1, Column: 1}})

	l.logger.Debug("lexed", "tokens", len(tokens), "diagnostics", len(diags))
	return tokens, diags
}

// stripComment truncates line at the first '#' (comments run to end of
// line; there is no string-literal syntax in rmscript for '#' to hide
// inside).
func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// measureIndent returns the indentation width (tab = 4), the byte offset
// where content starts, and whether the leading whitespace run mixed tabs
// and spaces inconsistently (a tab appearing after a space).
func measureIndent(line string) (width, contentStart int, inconsistent bool) {
	sawSpace := false
	i := 0
	for i < len(line) {
		switch line[i] {
		case ' ':
			width++
			sawSpace = true
		case '\t':
			if sawSpace {
				inconsistent = true
			}
			width += tabWidth
		default:
			return width, i, inconsistent
		}
		i++
	}
	return width, i, inconsistent
}

// scanLine tokenizes the content of a single logical line (leading
// whitespace already stripped). startCol is the 1-indexed column of
// content[0].
func (l *Lexer) scanLine(content string, startCol, lineNo int) ([]token.Token, []diag.Diagnostic) {
	var tokens []token.Token
	var diags []diag.Diagnostic

	i := 0
	first := true
	for i < len(content) {
		ch := content[i]
		switch {
		case ch == ' ' || ch == '\t':
			i++
			continue
		case ch < 128 && isIdentStart[ch]:
			start := i
			for i < len(content) && content[i] < 128 && isIdentPart[content[i]] {
				i++
			}
			word := content[start:i]
			col := startCol + start

			if first {
				folded := l.fold.String(word)
				if folded == "description" {
					rest := strings.TrimSpace(content[i:])
					tokens = append(tokens, token.Token{Kind: token.DESCRIPTION, Text: rest, Pos: token.Position{Line: lineNo, Column: col}})
					return tokens, diags
				}
			}

			kind := token.IDENTIFIER
			if k, ok := token.LookupKeyword(l.fold.String(word)); ok {
				kind = k
			}
			tokens = append(tokens, token.Token{Kind: kind, Text: word, Pos: token.Position{Line: lineNo, Column: col}})
			first = false

		case ch < 128 && isDigit[ch]:
			start := i
			for i < len(content) && content[i] < 128 && isDigit[content[i]] {
				i++
			}
			if i < len(content) && content[i] == '.' && i+1 < len(content) && content[i+1] < 128 && isDigit[content[i+1]] {
				i++
				for i < len(content) && content[i] < 128 && isDigit[content[i]] {
					i++
				}
			}
			kind := token.NUMBER
			end := i
			if i < len(content) && (content[i] == 's' || content[i] == 'S') {
				next := i + 1
				if next >= len(content) || content[next] >= 128 || !isIdentPart[content[next]] {
					i++
					end = i
					kind = token.DURATION
				}
			}
			text := content[start:end]
			col := startCol + start
			tokens = append(tokens, token.Token{Kind: kind, Text: text, Pos: token.Position{Line: lineNo, Column: col}})
			first = false

		default:
			col := startCol + i
			diags = append(diags, diag.New(lineNo, col, "Unrecognized character '"+string(ch)+"'"))
			i++
		}
	}
	return tokens, diags
}
