package parser_test

import (
	"testing"

	"github.com/reachy-mini/rmscript/ast"
	"github.com/reachy-mini/rmscript/lexer"
	"github.com/reachy-mini/rmscript/parser"
	"github.com/reachy-mini/rmscript/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) (*ast.Program, []string) {
	t.Helper()
	tokens, lexDiags := lexer.New().Lex(src)
	require.Empty(t, lexDiags)
	prog, diags := parser.New(tokens, src).Parse("test")
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.Message)
	}
	return prog, msgs
}

func TestParse_SimpleLook(t *testing.T) {
	prog, errs := parse(t, "look left\n")
	require.Empty(t, errs)
	require.Len(t, prog.Statements, 1)

	stmt, ok := prog.Statements[0].(*ast.ActionStmt)
	require.True(t, ok)
	assert.Equal(t, token.LOOK, stmt.Head)
	require.Len(t, stmt.Parts, 1)
	assert.Equal(t, token.LEFT, stmt.Parts[0].Direction.Named)
	assert.Nil(t, stmt.Parts[0].Strength)
}

func TestParse_AndChainReusesHeadKeyword(t *testing.T) {
	prog, errs := parse(t, "look left and up\n")
	require.Empty(t, errs)
	require.Len(t, prog.Statements, 1)

	stmt := prog.Statements[0].(*ast.ActionStmt)
	require.Len(t, stmt.Parts, 2)
	assert.Equal(t, token.LOOK, stmt.Parts[0].Keyword)
	assert.Equal(t, token.LOOK, stmt.Parts[1].Keyword)
	assert.Equal(t, token.UP, stmt.Parts[1].Direction.Named)
}

func TestParse_AndChainOverridesKeyword(t *testing.T) {
	prog, errs := parse(t, "turn left and look right\n")
	require.Empty(t, errs)
	stmt := prog.Statements[0].(*ast.ActionStmt)
	require.Len(t, stmt.Parts, 2)
	assert.Equal(t, token.TURN, stmt.Parts[0].Keyword)
	assert.Equal(t, token.LOOK, stmt.Parts[1].Keyword)
}

func TestParse_InvalidDirectionForKeyword(t *testing.T) {
	_, errs := parse(t, "turn up\n")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Invalid direction")
}

func TestParse_CannotCombineMovementWithPicture(t *testing.T) {
	_, errs := parse(t, "look left and picture\n")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Cannot combine movement with 'picture'")
}

func TestParse_WaitRequiresDurationSuffix(t *testing.T) {
	_, errs := parse(t, "wait 5\n")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "'s' suffix")
}

func TestParse_PlaySoundDefaultsToAsync(t *testing.T) {
	prog, errs := parse(t, "play chime\n")
	require.Empty(t, errs)
	stmt := prog.Statements[0].(*ast.PlaySoundStmt)
	assert.Equal(t, "chime", stmt.Name)
	assert.Equal(t, ast.PlayAsync, stmt.Mode)
}

func TestParse_PlaySoundBlockForSeconds(t *testing.T) {
	prog, errs := parse(t, "play chime 2s\n")
	require.Empty(t, errs)
	stmt := prog.Statements[0].(*ast.PlaySoundStmt)
	assert.Equal(t, ast.PlayBlockForSeconds, stmt.Mode)
	assert.Equal(t, 2.0, stmt.Seconds)
}

func TestParse_PlaySoundBlockUntilDone(t *testing.T) {
	prog, errs := parse(t, "play chime fully\n")
	require.Empty(t, errs)
	stmt := prog.Statements[0].(*ast.PlaySoundStmt)
	assert.Equal(t, ast.PlayBlockUntilDone, stmt.Mode)
}

func TestParse_LoopSoundDefaultDuration(t *testing.T) {
	prog, errs := parse(t, "loop hum\n")
	require.Empty(t, errs)
	stmt := prog.Statements[0].(*ast.LoopSoundStmt)
	assert.Equal(t, 10.0, stmt.Seconds)
}

func TestParse_RepeatBlockBody(t *testing.T) {
	prog, errs := parse(t, "repeat 2\n    look left\n    wait 0.5s\n")
	require.Empty(t, errs)
	require.Len(t, prog.Statements, 1)
	rep := prog.Statements[0].(*ast.RepeatStmt)
	assert.EqualValues(t, 2, rep.Count)
	require.Len(t, rep.Body, 2)
}

func TestParse_RepeatCountMustBeInteger(t *testing.T) {
	_, errs := parse(t, "repeat 2.5\n    look left\n")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "non-negative integer")
}

func TestParse_AntennaBothWithTarget(t *testing.T) {
	prog, errs := parse(t, "antenna both up\n")
	require.Empty(t, errs)
	stmt := prog.Statements[0].(*ast.ActionStmt)
	require.Len(t, stmt.Parts, 1)
	assert.Equal(t, token.BOTH, stmt.Parts[0].Direction.Named)
	require.NotNil(t, stmt.Parts[0].Strength)
	assert.Equal(t, token.UP, stmt.Parts[0].Strength.Qualitative)
}

func TestParse_DescriptionHeader(t *testing.T) {
	prog, errs := parse(t, "description wave hello\nlook left\n")
	require.Empty(t, errs)
	assert.Equal(t, "wave hello", prog.Description)
	require.Len(t, prog.Statements, 1)
}

func TestParse_ActionStmtCapturesSourceText(t *testing.T) {
	prog, errs := parse(t, "look left\nturn right 40\n")
	require.Empty(t, errs)
	require.Len(t, prog.Statements, 2)

	look := prog.Statements[0].(*ast.ActionStmt)
	assert.Equal(t, "look left", look.SourceText)

	turn := prog.Statements[1].(*ast.ActionStmt)
	assert.Equal(t, "turn right 40", turn.SourceText)
}

func TestParse_RecoversAfterBadStatement(t *testing.T) {
	prog, errs := parse(t, "turn up\nlook left\n")
	require.Len(t, errs, 1)
	require.Len(t, prog.Statements, 1)
	stmt := prog.Statements[0].(*ast.ActionStmt)
	assert.Equal(t, token.LOOK, stmt.Head)
}
