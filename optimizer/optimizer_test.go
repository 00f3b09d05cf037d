package optimizer_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/reachy-mini/rmscript/ir"
	"github.com/reachy-mini/rmscript/optimizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yaw(v float64) *float64 { return &v }

func TestOptimize_MergesAdjacentWaits(t *testing.T) {
	in := []ir.IR{
		&ir.Wait{DurationSec: 0.5, Line: 1},
		&ir.Wait{DurationSec: 0.25, Line: 2},
		&ir.Wait{DurationSec: 0, Line: 3},
	}
	out := optimizer.Optimize(in, nil)

	require.Len(t, out, 1)
	w, ok := out[0].(*ir.Wait)
	require.True(t, ok)
	assert.InDelta(t, 0.75, w.DurationSec, 1e-9)
	assert.Equal(t, 1, w.Line)
}

func TestOptimize_DropsNoOpMovement(t *testing.T) {
	in := []ir.IR{
		&ir.Movement{Line: 1},
		&ir.Wait{DurationSec: 1, Line: 2},
	}
	out := optimizer.Optimize(in, nil)

	require.Len(t, out, 1)
	_, ok := out[0].(*ir.Wait)
	assert.True(t, ok)
}

func TestOptimize_DoesNotMergeAcrossNonWaitBoundary(t *testing.T) {
	in := []ir.IR{
		&ir.Movement{BodyYaw: yaw(0.1), Line: 1},
		&ir.Wait{DurationSec: 0.5, Line: 2},
		&ir.Movement{BodyYaw: yaw(0.2), Line: 3},
		&ir.Wait{DurationSec: 0.5, Line: 4},
	}
	out := optimizer.Optimize(in, nil)

	require.Len(t, out, 4)
	for i, want := range []bool{true, false, true, false} {
		_, isMovement := out[i].(*ir.Movement)
		assert.Equal(t, want, isMovement, "index %d", i)
	}
	w1 := out[1].(*ir.Wait)
	w3 := out[3].(*ir.Wait)
	assert.Equal(t, 0.5, w1.DurationSec)
	assert.Equal(t, 0.5, w3.DurationSec)
}

func TestOptimize_PreservesOrderAndMetadata(t *testing.T) {
	in := []ir.IR{
		&ir.Picture{Line: 1},
		&ir.PlaySound{Name: "beep", Line: 2},
		&ir.LoopSound{Name: "hum", DurationSec: 3, Line: 3},
	}
	out := optimizer.Optimize(in, nil)
	require.Len(t, out, 3)
	assert.IsType(t, &ir.Picture{}, out[0])
	assert.IsType(t, &ir.PlaySound{}, out[1])
	assert.IsType(t, &ir.LoopSound{}, out[2])
}

func TestOptimize_Idempotent(t *testing.T) {
	in := []ir.IR{
		&ir.Wait{DurationSec: 0.5, Line: 1},
		&ir.Wait{DurationSec: 0.25, Line: 2},
		&ir.Movement{Line: 3},
		&ir.Movement{BodyYaw: yaw(0.1), Line: 4},
		&ir.Wait{DurationSec: 1, Line: 5},
	}
	once := optimizer.Optimize(in, nil)
	twice := optimizer.Optimize(once, nil)

	require.Equal(t, len(once), len(twice))
	for i := range once {
		assert.Equal(t, once[i], twice[i])
	}
}

func TestOptimize_DoesNotMutateInput(t *testing.T) {
	w := &ir.Wait{DurationSec: 0.5, Line: 1}
	in := []ir.IR{w, &ir.Wait{DurationSec: 0.25, Line: 2}}
	optimizer.Optimize(in, nil)
	assert.Equal(t, 0.5, w.DurationSec)
}

func TestOptimize_AcceptsExplicitLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	in := []ir.IR{&ir.Wait{DurationSec: 0.5, Line: 1}}
	out := optimizer.Optimize(in, logger)

	require.Len(t, out, 1)
	assert.Contains(t, buf.String(), "optimized")
}
