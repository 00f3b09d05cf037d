package lexer_test

import (
	"testing"

	"github.com/reachy-mini/rmscript/lexer"
	"github.com/reachy-mini/rmscript/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestLex_SimpleAction(t *testing.T) {
	tokens, diags := lexer.New().Lex("look left\n")
	require.Empty(t, diags)
	assert.Equal(t, []token.Kind{token.LOOK, token.LEFT, token.NEWLINE, token.EOF}, kinds(tokens))
}

func TestLex_CaseInsensitiveKeywords(t *testing.T) {
	tokens, diags := lexer.New().Lex("LOOK Left\n")
	require.Empty(t, diags)
	assert.Equal(t, []token.Kind{token.LOOK, token.LEFT, token.NEWLINE, token.EOF}, kinds(tokens))
	assert.Equal(t, "LOOK", tokens[0].Text)
	assert.Equal(t, "Left", tokens[1].Text)
}

func TestLex_DurationLiteralRequiresSSuffix(t *testing.T) {
	tokens, _ := lexer.New().Lex("wait 0.5s\n")
	require.Len(t, tokens, 4)
	assert.Equal(t, token.DURATION, tokens[1].Kind)
	assert.Equal(t, "0.5s", tokens[1].Text)
}

func TestLex_PlainNumberIsNotDuration(t *testing.T) {
	tokens, _ := lexer.New().Lex("turn left 30\n")
	require.Len(t, tokens, 5)
	assert.Equal(t, token.NUMBER, tokens[2].Kind)
	assert.Equal(t, "30", tokens[2].Text)
}

func TestLex_IndentAndDedent(t *testing.T) {
	src := "repeat 2\n    look left\n    wait 0.5s\n"
	tokens, diags := lexer.New().Lex(src)
	require.Empty(t, diags)
	ks := kinds(tokens)
	require.Contains(t, ks, token.INDENT)
	require.Contains(t, ks, token.DEDENT)

	var indents, dedents int
	for _, k := range ks {
		if k == token.INDENT {
			indents++
		}
		if k == token.DEDENT {
			dedents++
		}
	}
	assert.Equal(t, indents, dedents)
}

func TestLex_InconsistentIndentationReportsError(t *testing.T) {
	src := "repeat 2\n \tlook left\n"
	_, diags := lexer.New().Lex(src)
	require.NotEmpty(t, diags)
	assert.Contains(t, diags[0].Message, "Inconsistent indentation")
}

func TestLex_DescriptionHeaderCapturesRestOfLine(t *testing.T) {
	tokens, diags := lexer.New().Lex("DESCRIPTION wave hello to everyone\nlook left\n")
	require.Empty(t, diags)
	require.Equal(t, token.DESCRIPTION, tokens[0].Kind)
	assert.Equal(t, "wave hello to everyone", tokens[0].Text)
}

func TestLex_CommentsAreStripped(t *testing.T) {
	tokens, diags := lexer.New().Lex("look left # turn toward the camera\n")
	require.Empty(t, diags)
	assert.Equal(t, []token.Kind{token.LOOK, token.LEFT, token.NEWLINE, token.EOF}, kinds(tokens))
}

func TestLex_UnrecognizedCharacterProducesDiagnostic(t *testing.T) {
	_, diags := lexer.New().Lex("look left @\n")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "Unrecognized character")
}

func TestLex_SoundIdentifier(t *testing.T) {
	tokens, diags := lexer.New().Lex("play chime-1\n")
	require.Empty(t, diags)
	require.Equal(t, token.IDENTIFIER, tokens[1].Kind)
	assert.Equal(t, "chime-1", tokens[1].Text)
}

func TestLex_AlwaysTerminatesWithEOF(t *testing.T) {
	tokens, _ := lexer.New().Lex("")
	require.NotEmpty(t, tokens)
	assert.Equal(t, token.EOF, tokens[len(tokens)-1].Kind)
}
