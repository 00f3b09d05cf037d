// Package semantic implements rmscript's semantic analyzer: AST to IR.
// It resolves context-aware defaults and qualitative strengths, computes
// head pose matrices, checks physical limits (recording warnings only),
// expands repeat blocks, and merges sibling compound movements into one
// IR movement per spec §4.3.
package semantic

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/reachy-mini/rmscript/ast"
	"github.com/reachy-mini/rmscript/diag"
	"github.com/reachy-mini/rmscript/ir"
	"github.com/reachy-mini/rmscript/limits"
	"github.com/reachy-mini/rmscript/token"
)

// Options configures the analyzer. The zero value is usable: Limits
// falls back to limits.Default(), and a nil Logger falls back to a stderr
// text logger at Info level (Debug when RMSCRIPT_DEBUG_SEMANTIC is set).
type Options struct {
	Limits limits.Config
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	level := slog.LevelInfo
	if os.Getenv("RMSCRIPT_DEBUG_SEMANTIC") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (o Options) limits() limits.Config {
	zero := limits.Config{}
	if o.Limits == zero {
		return limits.Default()
	}
	return o.Limits
}

const (
	defaultDurationSec = 1.0
	defaultLookTurnTiltDeg = 30.0
	defaultHeadTranslationMM = 10.0
	defaultAntennaDeg = 45.0
)

var durationKeywordSeconds = map[token.Kind]float64{
	token.SUPERFAST: 0.2,
	token.FAST:       0.5,
	token.SLOW:       2.0,
	token.SUPERSLOW:  3.0,
}

// qualitativeTable maps a channel key and qualitative level to a
// magnitude in the channel's natural unit (degrees, except
// "head_translation" which is millimeters), per spec §4.3 step 2.
var qualitativeTable = map[string]map[token.Kind]float64{
	"body_yaw": {
		token.VERY_SMALL: 10, token.SMALL: 30, token.MEDIUM: 60, token.LARGE: 90, token.VERY_LARGE: 120,
	},
	"head_pitch_roll": {
		token.VERY_SMALL: 5, token.SMALL: 10, token.MEDIUM: 20, token.LARGE: 30, token.VERY_LARGE: 38,
	},
	"head_yaw": {
		token.VERY_SMALL: 5, token.SMALL: 15, token.MEDIUM: 30, token.LARGE: 45, token.VERY_LARGE: 60,
	},
	"head_translation": {
		token.VERY_SMALL: 2, token.SMALL: 5, token.MEDIUM: 10, token.LARGE: 20, token.VERY_LARGE: 28,
	},
	"antenna": {
		token.VERY_SMALL: 10, token.SMALL: 30, token.MEDIUM: 60, token.LARGE: 90, token.VERY_LARGE: 110,
	},
}

// Analyze converts a Program into a flat IR list and the diagnostics
// produced along the way. It always returns usable IR even if some
// statements were dropped for errors, per spec §4.5.
func Analyze(prog *ast.Program, opts Options) ([]ir.IR, []diag.Diagnostic) {
	a := &analyzer{limits: opts.limits(), logger: opts.logger()}
	stmts := expandRepeats(prog.Statements)
	var out []ir.IR
	for _, stmt := range stmts {
		if entry := a.lowerStatement(stmt); entry != nil {
			out = append(out, entry)
		}
	}
	a.logger.Debug("analyzed", "ir_entries", len(out), "diagnostics", len(a.diags))
	return out, a.diags
}

type analyzer struct {
	limits limits.Config
	logger *slog.Logger
	diags  []diag.Diagnostic
}

func (a *analyzer) warn(line int, format string, args ...any) {
	a.diags = append(a.diags, diag.NewWarning(line, 0, fmt.Sprintf(format, args...)))
}

func (a *analyzer) err(line int, format string, args ...any) {
	a.diags = append(a.diags, diag.New(line, 0, fmt.Sprintf(format, args...)))
}

// expandRepeats recursively expands RepeatStmt nodes into their body,
// emitted count times in source order (spec §4.3 step 1). A count of 0
// emits nothing.
func expandRepeats(stmts []ast.Statement) []ast.Statement {
	var out []ast.Statement
	for _, s := range stmts {
		if rep, ok := s.(*ast.RepeatStmt); ok {
			expandedBody := expandRepeats(rep.Body)
			for i := uint32(0); i < rep.Count; i++ {
				out = append(out, expandedBody...)
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

func (a *analyzer) lowerStatement(stmt ast.Statement) ir.IR {
	switch s := stmt.(type) {
	case *ast.ActionStmt:
		return a.lowerAction(s)
	case *ast.WaitStmt:
		return &ir.Wait{DurationSec: s.Seconds, Line: s.Line}
	case *ast.PictureStmt:
		return &ir.Picture{Line: s.Line}
	case *ast.PlaySoundStmt:
		return &ir.PlaySound{Name: s.Name, Mode: lowerPlayMode(s.Mode), Seconds: s.Seconds, Line: s.Line}
	case *ast.LoopSoundStmt:
		return &ir.LoopSound{Name: s.Name, DurationSec: s.Seconds, Line: s.Line}
	default:
		return nil
	}
}

func lowerPlayMode(m ast.PlayMode) ir.PlayMode {
	switch m {
	case ast.PlayBlockUntilDone:
		return ir.PlayBlockUntilDone
	case ast.PlayBlockForSeconds:
		return ir.PlayBlockForSeconds
	default:
		return ir.PlayAsync
	}
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }
func mmToM(mm float64) float64   { return mm / 1000 }

// normalizeDeg folds a degree value into (-180, 180], the convention
// spec's clock-position glossary entry specifies.
func normalizeDeg(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d <= -180 {
		d += 360
	}
	if d > 180 {
		d -= 360
	}
	return d
}
