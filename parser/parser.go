// Package parser implements rmscript's single-pass recursive-descent
// parser: tokens to AST, validating syntactic shape and the legal
// direction/modifier combinations per keyword (spec §4.2).
package parser

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/reachy-mini/rmscript/ast"
	"github.com/reachy-mini/rmscript/diag"
	"github.com/reachy-mini/rmscript/token"
)

// Parser walks a token stream produced by lexer.Lex and builds a Program.
type Parser struct {
	tokens []token.Token
	pos    int
	diags  []diag.Diagnostic
	logger *slog.Logger
	lines  []string
}

// New creates a Parser over a complete token stream. source is the same
// text the stream was lexed from; the parser slices it by line to
// populate each ast.ActionStmt's SourceText (spec §3.2).
func New(tokens []token.Token, source string) *Parser {
	level := slog.LevelInfo
	if os.Getenv("RMSCRIPT_DEBUG_PARSER") != "" {
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
	return &Parser{tokens: tokens, logger: logger, lines: strings.Split(source, "\n")}
}

// lineText returns the raw source text of a 1-indexed line, or "" if it
// is out of range.
func (p *Parser) lineText(line int) string {
	if line <= 0 || line > len(p.lines) {
		return ""
	}
	return p.lines[line-1]
}

// Parse builds the Program. It always returns a usable (possibly partial)
// program: a bad statement is dropped and parsing resumes at the next
// line, per spec §4.2/§7.
func (p *Parser) Parse(name string) (*ast.Program, []diag.Diagnostic) {
	prog := &ast.Program{Name: name}

	var descParts []string
	for p.cur().Kind == token.DESCRIPTION {
		descParts = append(descParts, p.cur().Text)
		p.advance()
		if p.cur().Kind == token.NEWLINE {
			p.advance()
		}
	}
	prog.Description = strings.Join(descParts, " ")

	for p.cur().Kind != token.EOF {
		if p.cur().Kind == token.NEWLINE {
			p.advance()
			continue
		}
		if p.cur().Kind == token.DEDENT {
			// Unmatched DEDENT at top level: stray, skip it rather than
			// looping forever.
			p.advance()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}

	p.logger.Debug("parsed", "statements", len(prog.Statements), "diagnostics", len(p.diags))
	return prog, p.diags
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Kind {
	case token.LOOK, token.TURN, token.HEAD, token.TILT, token.ANTENNA:
		return p.parseAction()
	case token.WAIT:
		return p.parseWait()
	case token.PICTURE:
		return p.parsePicture()
	case token.PLAY:
		return p.parsePlay()
	case token.LOOP:
		return p.parseLoop()
	case token.REPEAT:
		return p.parseRepeat()
	default:
		p.errorf("Unknown keyword '%s'", p.cur().Text)
		p.recover()
		return nil
	}
}

// nonMovementName returns the display name of a statement-leading keyword
// that cannot be joined into an `and` chain, and whether k is such a
// keyword at all.
func nonMovementName(k token.Kind) (string, bool) {
	switch k {
	case token.WAIT:
		return "wait", true
	case token.PICTURE:
		return "picture", true
	case token.PLAY:
		return "play", true
	case token.LOOP:
		return "loop", true
	default:
		return "", false
	}
}

// rejectAndChain reports the spec §4.2 `and` error when a non-movement
// statement is immediately followed by `and`.
func (p *Parser) rejectAndChain(keyword token.Kind) bool {
	if p.cur().Kind != token.AND {
		return false
	}
	name, _ := nonMovementName(keyword)
	p.errorf("Cannot combine movement with '%s' using 'and'. Use separate lines instead.", name)
	return true
}

var legalDirections = map[token.Kind]map[token.Kind]bool{
	token.LOOK:    {token.LEFT: true, token.RIGHT: true, token.UP: true, token.DOWN: true, token.CENTER: true},
	token.TURN:    {token.LEFT: true, token.RIGHT: true, token.CENTER: true},
	token.HEAD:    {token.FORWARD: true, token.BACK: true, token.LEFT: true, token.RIGHT: true, token.UP: true, token.DOWN: true},
	token.TILT:    {token.LEFT: true, token.RIGHT: true, token.CENTER: true},
	token.ANTENNA: {token.BOTH: true, token.LEFT: true, token.RIGHT: true},
}

// antennaTargetKeywords are the direction/clock keywords legal as an
// antenna's target (after the both/left/right selector).
var antennaTargetKeywords = map[token.Kind]bool{
	token.HIGH: true, token.LOW: true, token.INT: true, token.EXT: true,
	token.LEFT: true, token.RIGHT: true, token.UP: true, token.DOWN: true,
}

func keywordName(k token.Kind) string {
	return k.String()
}

func (p *Parser) parseAction() ast.Statement {
	line := p.cur().Pos.Line
	head := p.cur().Kind
	p.advance()

	first, ok := p.parseActionPart(head)
	if !ok {
		p.recover()
		return nil
	}
	parts := []ast.ActionPart{first}
	currentHead := head

	for p.cur().Kind == token.AND {
		p.advance()
		if name, isNonMovement := nonMovementName(p.cur().Kind); isNonMovement {
			p.errorf("Cannot combine movement with '%s' using 'and'. Use separate lines instead.", name)
			p.recover()
			return nil
		}
		kw := currentHead
		if token.IsActionKeyword(p.cur().Kind) {
			kw = p.cur().Kind
			p.advance()
		}
		part, ok := p.parseActionPart(kw)
		if !ok {
			p.recover()
			return nil
		}
		currentHead = kw
		parts = append(parts, part)
	}

	if p.cur().Kind != token.NEWLINE && p.cur().Kind != token.EOF {
		p.errorf("Expected newline after action statement, got '%s'", p.cur().Text)
		p.recover()
		return nil
	}
	if p.cur().Kind == token.NEWLINE {
		p.advance()
	}

	return &ast.ActionStmt{Head: head, Parts: parts, Line: line, SourceText: p.lineText(line)}
}

// parseActionPart parses "direction strength? duration?" for the given
// effective keyword.
func (p *Parser) parseActionPart(keyword token.Kind) (ast.ActionPart, bool) {
	var part ast.ActionPart
	part.Keyword = keyword

	if keyword == token.ANTENNA {
		sel := p.cur().Kind
		if !legalDirections[token.ANTENNA][sel] {
			p.errorf("Invalid direction '%s' for keyword 'antenna'", p.cur().Text)
			return part, false
		}
		part.Direction = ast.Direction{Kind: ast.DirectionNamed, Named: sel}
		p.advance()

		switch {
		case p.cur().Kind == token.NUMBER:
			v, _ := strconv.ParseFloat(p.cur().Text, 64)
			part.Strength = &ast.Strength{Kind: ast.StrengthNumeric, Numeric: v}
			p.advance()
		case antennaTargetKeywords[p.cur().Kind]:
			part.Strength = &ast.Strength{Kind: ast.StrengthQualitative, Qualitative: p.cur().Kind}
			p.advance()
		case token.IsQualitativeStrength(p.cur().Kind):
			part.Strength = &ast.Strength{Kind: ast.StrengthQualitative, Qualitative: p.cur().Kind}
			p.advance()
		}
	} else {
		dir := p.cur().Kind
		if !legalDirections[keyword][dir] {
			p.errorf("Invalid direction '%s' for keyword '%s'", p.cur().Text, keywordName(keyword))
			return part, false
		}
		part.Direction = ast.Direction{Kind: ast.DirectionNamed, Named: dir}
		p.advance()

		switch {
		case p.cur().Kind == token.NUMBER:
			v, _ := strconv.ParseFloat(p.cur().Text, 64)
			part.Strength = &ast.Strength{Kind: ast.StrengthNumeric, Numeric: v}
			p.advance()
		case token.IsQualitativeStrength(p.cur().Kind):
			part.Strength = &ast.Strength{Kind: ast.StrengthQualitative, Qualitative: p.cur().Kind}
			p.advance()
		}
	}

	switch {
	case p.cur().Kind == token.DURATION:
		v := parseDurationLiteral(p.cur().Text)
		part.Duration = &ast.Duration{Kind: ast.DurationSeconds, Seconds: v}
		p.advance()
	case token.IsDurationKeyword(p.cur().Kind):
		part.Duration = &ast.Duration{Kind: ast.DurationKeyword, Keyword: p.cur().Kind}
		p.advance()
	}

	return part, true
}

func parseDurationLiteral(text string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSuffix(text, "s"), "S"), 64)
	return v
}

func (p *Parser) parseWait() ast.Statement {
	line := p.cur().Pos.Line
	p.advance()

	if p.cur().Kind != token.DURATION {
		if p.cur().Kind == token.NUMBER {
			p.errorf("'wait' requires a duration with an 's' suffix, got '%s'", p.cur().Text)
		} else {
			p.errorf("Expected a duration after 'wait', got '%s'", p.cur().Text)
		}
		p.recover()
		return nil
	}
	seconds := parseDurationLiteral(p.cur().Text)
	p.advance()

	if p.rejectAndChain(token.WAIT) {
		p.recover()
		return nil
	}
	p.expectNewline()
	return &ast.WaitStmt{Seconds: seconds, Line: line}
}

func (p *Parser) parsePicture() ast.Statement {
	line := p.cur().Pos.Line
	p.advance()
	if p.rejectAndChain(token.PICTURE) {
		p.recover()
		return nil
	}
	p.expectNewline()
	return &ast.PictureStmt{Line: line}
}

func (p *Parser) parsePlay() ast.Statement {
	line := p.cur().Pos.Line
	p.advance()

	if p.cur().Kind != token.IDENTIFIER {
		p.errorf("Expected a sound name after 'play', got '%s'", p.cur().Text)
		p.recover()
		return nil
	}
	name := p.cur().Text
	p.advance()

	stmt := &ast.PlaySoundStmt{Name: name, Mode: ast.PlayAsync, Line: line}
	switch {
	case p.cur().Kind == token.DURATION:
		stmt.Mode = ast.PlayBlockForSeconds
		stmt.Seconds = parseDurationLiteral(p.cur().Text)
		p.advance()
	case isBlockModifier(p.cur().Kind):
		stmt.Mode = ast.PlayBlockUntilDone
		p.advance()
	}

	if p.rejectAndChain(token.PLAY) {
		p.recover()
		return nil
	}
	p.expectNewline()
	return stmt
}

func isBlockModifier(k token.Kind) bool {
	switch k {
	case token.PAUSE, token.FULLY, token.WAIT, token.BLOCK, token.COMPLETE:
		return true
	default:
		return false
	}
}

const defaultLoopSeconds = 10.0

func (p *Parser) parseLoop() ast.Statement {
	line := p.cur().Pos.Line
	p.advance()

	if p.cur().Kind != token.IDENTIFIER {
		p.errorf("Expected a sound name after 'loop', got '%s'", p.cur().Text)
		p.recover()
		return nil
	}
	name := p.cur().Text
	p.advance()

	seconds := defaultLoopSeconds
	if p.cur().Kind == token.DURATION {
		seconds = parseDurationLiteral(p.cur().Text)
		p.advance()
	}

	if p.rejectAndChain(token.LOOP) {
		p.recover()
		return nil
	}
	p.expectNewline()
	return &ast.LoopSoundStmt{Name: name, Seconds: seconds, Line: line}
}

func (p *Parser) parseRepeat() ast.Statement {
	line := p.cur().Pos.Line
	p.advance()

	if p.cur().Kind != token.NUMBER {
		p.errorf("Repeat count must be a non-negative integer")
		p.recover()
		return nil
	}
	text := p.cur().Text
	if strings.Contains(text, ".") {
		p.errorf("Repeat count must be a non-negative integer")
		p.recover()
		return nil
	}
	count, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		p.errorf("Repeat count must be a non-negative integer")
		p.recover()
		return nil
	}
	p.advance()

	if p.cur().Kind != token.NEWLINE {
		p.errorf("Expected newline after 'repeat N', got '%s'", p.cur().Text)
		p.recover()
		return nil
	}
	p.advance()

	if p.cur().Kind != token.INDENT {
		p.errorf("Expected indented block after 'repeat'")
		return nil
	}
	p.advance()

	var body []ast.Statement
	for p.cur().Kind != token.DEDENT && p.cur().Kind != token.EOF {
		if p.cur().Kind == token.NEWLINE {
			p.advance()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			body = append(body, stmt)
		}
	}
	if p.cur().Kind == token.EOF {
		p.errorf("Unexpected end of file inside 'repeat' block")
		return &ast.RepeatStmt{Count: uint32(count), Body: body, Line: line}
	}
	p.advance() // consume DEDENT

	return &ast.RepeatStmt{Count: uint32(count), Body: body, Line: line}
}

func (p *Parser) expectNewline() {
	if p.cur().Kind == token.NEWLINE {
		p.advance()
		return
	}
	if p.cur().Kind == token.EOF {
		return
	}
	p.errorf("Expected newline, got '%s'", p.cur().Text)
	p.recover()
}
