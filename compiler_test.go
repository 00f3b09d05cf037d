package rmscript_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/reachy-mini/rmscript"
	"github.com/reachy-mini/rmscript/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileScript_LookLeft(t *testing.T) {
	result := rmscript.CompileScript("look left\n", "")

	require.True(t, result.Success)
	require.Empty(t, result.Errors)
	require.Len(t, result.IR, 1)

	m, ok := result.IR[0].(*ir.Movement)
	require.True(t, ok)
	assert.NotNil(t, m.HeadPose)
	assert.Nil(t, m.Antennas)
	assert.Nil(t, m.BodyYaw)
	assert.Equal(t, 1.0, m.DurationSec)
}

func TestCompileScript_TurnLeft200Warns(t *testing.T) {
	result := rmscript.CompileScript("turn left 200\n", "")

	require.True(t, result.Success)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, "Body yaw 200.0")
	require.Len(t, result.IR, 1)

	m := result.IR[0].(*ir.Movement)
	require.NotNil(t, m.BodyYaw)
}

func TestCompileScript_WaitsMergeAfterOptimization(t *testing.T) {
	result := rmscript.CompileScript("wait 0.5s\nwait 0.25s\nwait 0s\n", "")

	require.True(t, result.Success)
	require.Len(t, result.IR, 1)
	w := result.IR[0].(*ir.Wait)
	assert.InDelta(t, 0.75, w.DurationSec, 1e-9)
}

func TestCompileScript_PartialErrorKeepsValidIR(t *testing.T) {
	result := rmscript.CompileScript("look left\nturn up\nlook left\n", "")

	require.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "Invalid direction")
	require.Len(t, result.IR, 2)
	for _, entry := range result.IR {
		m, ok := entry.(*ir.Movement)
		require.True(t, ok)
		assert.NotNil(t, m.HeadPose)
	}
}

func TestCompileScript_CannotCombineMovementWithPicture(t *testing.T) {
	result := rmscript.CompileScript("look left and picture\n", "")

	require.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "Cannot combine movement with 'picture'")
	assert.Empty(t, result.IR)
}

func TestCompileScript_RepeatExpandsBody(t *testing.T) {
	src := "repeat 2\n    look left\n    wait 0.5s\n"
	result := rmscript.CompileScript(src, "")

	require.True(t, result.Success)
	require.Len(t, result.IR, 4)
	assert.IsType(t, &ir.Movement{}, result.IR[0])
	assert.IsType(t, &ir.Wait{}, result.IR[1])
	assert.IsType(t, &ir.Movement{}, result.IR[2])
	assert.IsType(t, &ir.Wait{}, result.IR[3])
}

func TestCompileScript_CaseInsensitiveKeywords(t *testing.T) {
	lower := rmscript.CompileScript("look left\n", "")
	upper := rmscript.CompileScript("LOOK LEFT\n", "")

	require.True(t, lower.Success)
	require.True(t, upper.Success)
	// SourceText carries the original line verbatim, so it is the one
	// field expected to differ in case.
	ignoreSourceText := cmp.FilterPath(func(p cmp.Path) bool {
		return p.Last().String() == ".SourceText"
	}, cmp.Ignore())
	if diff := cmp.Diff(lower.IR, upper.IR, ignoreSourceText); diff != "" {
		t.Errorf("case-insensitive compilation produced different IR (-lower +upper):\n%s", diff)
	}
}

func TestCompileScript_DeterministicAcrossRuns(t *testing.T) {
	src := "look left and up 25\nturn right 40 fast\n"
	a := rmscript.CompileScript(src, "")
	b := rmscript.CompileScript(src, "")

	if diff := cmp.Diff(a.IR, b.IR); diff != "" {
		t.Errorf("compiling the same source twice produced different IR:\n%s", diff)
	}
}

func TestVerifyScript_NoIRRetained(t *testing.T) {
	ok, messages := rmscript.VerifyScript("look left\n")
	assert.True(t, ok)
	assert.Empty(t, messages)
}

func TestVerifyScript_ReportsErrors(t *testing.T) {
	ok, messages := rmscript.VerifyScript("look left and picture\n")
	assert.False(t, ok)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "error:")
}

func TestCompilationResult_Context(t *testing.T) {
	result := rmscript.CompileScript("look left\n", "wave")
	ctx := result.Context()
	assert.Equal(t, "wave", ctx.ScriptName)
	assert.Nil(t, ctx.SourceFilePath)
}

func TestCompileWithContext_UsesScriptName(t *testing.T) {
	path := "/scripts/wave_hello.rms"
	result := rmscript.CompileWithContext("look left\n", rmscript.ExecutionContext{
		ScriptName:     "wave_hello",
		SourceFilePath: &path,
	}, rmscript.Options{})

	assert.Equal(t, "wave_hello", result.Name)
	require.NotNil(t, result.SourceFilePath)
	assert.Equal(t, path, *result.SourceFilePath)
}
