// Package optimizer implements rmscript's peephole IR optimizer: a
// single pass over the flat IR list that merges adjacent waits and drops
// no-op movements, per spec §4.4. It never reorders entries and never
// changes the meaning of anything it doesn't merge or drop.
package optimizer

import (
	"log/slog"

	"github.com/reachy-mini/rmscript/ir"
)

// Optimize returns a new IR list with adjacent ir.Wait entries merged
// (their DurationSec summed, keeping the first entry's Line) and no-op
// ir.Movement entries (HeadPose, Antennas, and BodyYaw all nil) dropped.
// A run of merged waits keeps its merge even if the summed duration is
// zero. Optimize is idempotent: running it again on its own output
// returns an equal list.
//
// logger is optional and nil-safe: a nil logger falls back to a discard
// handler, so a caller threading one *slog.Logger through every
// compilation phase can simply pass it here too.
func Optimize(entries []ir.IR, logger *slog.Logger) []ir.IR {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	out := make([]ir.IR, 0, len(entries))
	for _, entry := range entries {
		if isNoOpMovement(entry) {
			continue
		}
		if w, ok := entry.(*ir.Wait); ok {
			if len(out) > 0 {
				if prev, ok := out[len(out)-1].(*ir.Wait); ok {
					prev.DurationSec += w.DurationSec
					continue
				}
			}
			merged := *w
			out = append(out, &merged)
			continue
		}
		out = append(out, entry)
	}
	logger.Debug("optimized", "in", len(entries), "out", len(out))
	return out
}

func isNoOpMovement(entry ir.IR) bool {
	m, ok := entry.(*ir.Movement)
	if !ok {
		return false
	}
	return m.HeadPose == nil && m.Antennas == nil && m.BodyYaw == nil
}
