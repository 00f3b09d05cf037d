package parser

import (
	"fmt"

	"github.com/reachy-mini/rmscript/diag"
	"github.com/reachy-mini/rmscript/token"
)

// errorf records an Error diagnostic at the current token's position and
// returns it, following the teacher's NewSyntaxError/NewUnexpectedTokenError
// helpers in shape (a position-tagged message built from a format string).
func (p *Parser) errorf(format string, args ...any) diag.Diagnostic {
	d := diag.New(p.cur().Pos.Line, p.cur().Pos.Column, fmt.Sprintf(format, args...))
	p.diags = append(p.diags, d)
	return d
}

// recover skips tokens until the next NEWLINE (consuming it) so that one
// malformed statement does not discard the rest of the file, per spec §4.2
// ("Recovers at newline boundaries"). An indented block that directly
// follows the malformed line (e.g. the body of a repeat with a bad count)
// belongs to it and is skipped whole. It stops early at DEDENT/EOF so it
// never escapes an enclosing repeat block.
func (p *Parser) recover() {
	for {
		switch p.cur().Kind {
		case token.NEWLINE:
			p.advance()
			for depth := 0; p.cur().Kind != token.EOF && (depth > 0 || p.cur().Kind == token.INDENT); {
				switch p.advance().Kind {
				case token.INDENT:
					depth++
				case token.DEDENT:
					depth--
				}
			}
			return
		case token.DEDENT, token.EOF:
			return
		default:
			p.advance()
		}
	}
}
