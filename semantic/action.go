package semantic

import (
	"github.com/reachy-mini/rmscript/ast"
	"github.com/reachy-mini/rmscript/ir"
	"github.com/reachy-mini/rmscript/token"
)

// slot identifies one independently-writable piece of a merged movement.
// head_pose has six (yaw/pitch/roll/tx/ty/tz), antennas has two
// (left/right), body_yaw has one — this is the granularity spec §4.3
// step 6's "conflicting writes to channel X" check operates at.
type slot int

const (
	slotBodyYaw slot = iota
	slotHeadYaw
	slotHeadPitch
	slotHeadRoll
	slotHeadTX
	slotHeadTY
	slotHeadTZ
	slotAntennaLeft
	slotAntennaRight
)

var slotNames = map[slot]string{
	slotBodyYaw:      "body_yaw",
	slotHeadYaw:      "head_yaw",
	slotHeadPitch:    "head_pitch",
	slotHeadRoll:     "head_roll",
	slotHeadTX:       "head_x",
	slotHeadTY:       "head_y",
	slotHeadTZ:       "head_z",
	slotAntennaLeft:  "antenna_left",
	slotAntennaRight: "antenna_right",
}

// pending accumulates the sub-slot writes of every ActionPart in one
// ActionStmt before they are composed into a single ir.Movement.
type pending struct {
	values      map[slot]float64 // radians for angles, meters for translation
	maxDuration float64
	sawDuration bool
}

func newPending() *pending {
	return &pending{values: make(map[slot]float64)}
}

// write records a slot write, returning false (and the slot's display
// name) if the slot was already written by an earlier part in this
// statement.
func (p *pending) write(s slot, value float64) (ok bool, name string) {
	if _, exists := p.values[s]; exists {
		return false, slotNames[s]
	}
	p.values[s] = value
	return true, ""
}

func (p *pending) observeDuration(sec float64) {
	if !p.sawDuration || sec > p.maxDuration {
		p.maxDuration = sec
	}
	p.sawDuration = true
}

// lowerAction merges every ActionPart of an ActionStmt into at most one
// ir.Movement (spec §4.3 steps 2-7).
func (a *analyzer) lowerAction(s *ast.ActionStmt) ir.IR {
	p := newPending()
	conflict := false

	for _, part := range s.Parts {
		if !a.applyPart(s.Line, part, p) {
			conflict = true
		}
	}
	if conflict {
		return nil
	}
	if !p.sawDuration {
		p.observeDuration(defaultDurationSec)
	}

	var headPose *ir.Matrix4
	if hasAny(p, slotHeadYaw, slotHeadPitch, slotHeadRoll, slotHeadTX, slotHeadTY, slotHeadTZ) {
		m := ir.ComposePose(p.values[slotHeadYaw], p.values[slotHeadPitch], p.values[slotHeadRoll],
			p.values[slotHeadTX], p.values[slotHeadTY], p.values[slotHeadTZ])
		headPose = &m
	}

	var antennas *ir.AntennaPair
	if hasAny(p, slotAntennaLeft, slotAntennaRight) {
		antennas = &ir.AntennaPair{Left: p.values[slotAntennaLeft], Right: p.values[slotAntennaRight]}
	}

	var bodyYaw *float64
	if v, ok := p.values[slotBodyYaw]; ok {
		bodyYaw = &v
	}

	if headPose == nil && antennas == nil && bodyYaw == nil {
		return nil
	}

	return &ir.Movement{
		HeadPose:      headPose,
		Antennas:      antennas,
		BodyYaw:       bodyYaw,
		DurationSec:   p.maxDuration,
		Interpolation: ir.InterpMinJerk,
		Line:          s.Line,
		SourceText:    s.SourceText,
	}
}

func hasAny(p *pending, slots ...slot) bool {
	for _, s := range slots {
		if _, ok := p.values[s]; ok {
			return true
		}
	}
	return false
}

// applyPart resolves one ActionPart's direction/strength/duration and
// writes its slot(s) into p. It returns false (recording a diagnostic) on
// a conflicting write.
func (a *analyzer) applyPart(line int, part ast.ActionPart, p *pending) bool {
	dur := a.resolveDuration(part.Duration)
	p.observeDuration(dur)

	switch part.Keyword {
	case token.TURN:
		return a.applyTurn(line, part, p)
	case token.LOOK:
		return a.applyLook(line, part, p)
	case token.TILT:
		return a.applyTilt(line, part, p)
	case token.HEAD:
		return a.applyHeadTranslation(line, part, p)
	case token.ANTENNA:
		return a.applyAntenna(line, part, p)
	default:
		return true
	}
}

func (a *analyzer) resolveDuration(d *ast.Duration) float64 {
	if d == nil {
		return defaultDurationSec
	}
	if d.Kind == ast.DurationSeconds {
		return d.Seconds
	}
	if v, ok := durationKeywordSeconds[d.Keyword]; ok {
		return v
	}
	return defaultDurationSec
}

// signedMagnitude resolves a strength to a magnitude in the channel's
// natural unit using defaultMagnitude/qualitativeKey when strength is nil
// or qualitative, then applies sign.
func (a *analyzer) signedMagnitude(strength *ast.Strength, qualitativeKey string, defaultMag float64, sign float64) float64 {
	mag := defaultMag
	if strength != nil {
		switch strength.Kind {
		case ast.StrengthNumeric:
			mag = strength.Numeric
		case ast.StrengthQualitative:
			if v, ok := qualitativeTable[qualitativeKey][strength.Qualitative]; ok {
				mag = v
			}
		}
	}
	return mag * sign
}

func (a *analyzer) applyTurn(line int, part ast.ActionPart, p *pending) bool {
	if part.Direction.Named == token.CENTER {
		ok, name := p.write(slotBodyYaw, 0)
		if !ok {
			a.conflict(line, name)
		}
		return ok
	}
	sign := 1.0
	if part.Direction.Named == token.RIGHT {
		sign = -1.0
	}
	deg := a.signedMagnitude(part.Strength, "body_yaw", defaultLookTurnTiltDeg, sign)
	a.checkWarn(line, "Body yaw", deg, a.limits.BodyYawWarnDeg)
	ok, name := p.write(slotBodyYaw, degToRad(deg))
	if !ok {
		a.conflict(line, name)
	}
	return ok
}

func (a *analyzer) applyTilt(line int, part ast.ActionPart, p *pending) bool {
	if part.Direction.Named == token.CENTER {
		ok, name := p.write(slotHeadRoll, 0)
		if !ok {
			a.conflict(line, name)
		}
		return ok
	}
	sign := 1.0
	if part.Direction.Named == token.RIGHT {
		sign = -1.0
	}
	deg := a.signedMagnitude(part.Strength, "head_pitch_roll", defaultLookTurnTiltDeg, sign)
	a.checkWarn(line, "Head roll", deg, a.limits.HeadRollWarnDeg)
	ok, name := p.write(slotHeadRoll, degToRad(deg))
	if !ok {
		a.conflict(line, name)
	}
	return ok
}

func (a *analyzer) applyLook(line int, part ast.ActionPart, p *pending) bool {
	if part.Direction.Named == token.CENTER {
		ok1, n1 := p.write(slotHeadYaw, 0)
		if !ok1 {
			a.conflict(line, n1)
		}
		ok2, n2 := p.write(slotHeadPitch, 0)
		if !ok2 {
			a.conflict(line, n2)
		}
		return ok1 && ok2
	}
	switch part.Direction.Named {
	case token.LEFT, token.RIGHT:
		sign := 1.0
		if part.Direction.Named == token.RIGHT {
			sign = -1.0
		}
		deg := a.signedMagnitude(part.Strength, "head_yaw", defaultLookTurnTiltDeg, sign)
		a.checkWarn(line, "Head yaw", deg, a.limits.HeadYawWarnDeg)
		ok, name := p.write(slotHeadYaw, degToRad(deg))
		if !ok {
			a.conflict(line, name)
		}
		return ok
	case token.UP, token.DOWN:
		sign := -1.0
		if part.Direction.Named == token.DOWN {
			sign = 1.0
		}
		deg := a.signedMagnitude(part.Strength, "head_pitch_roll", defaultLookTurnTiltDeg, sign)
		a.checkWarn(line, "Head pitch", deg, a.limits.HeadPitchWarnDeg)
		ok, name := p.write(slotHeadPitch, degToRad(deg))
		if !ok {
			a.conflict(line, name)
		}
		return ok
	}
	return true
}

func (a *analyzer) applyHeadTranslation(line int, part ast.ActionPart, p *pending) bool {
	var s slot
	var sign float64
	var label string
	var warnMM float64

	switch part.Direction.Named {
	case token.FORWARD:
		s, sign, label, warnMM = slotHeadTX, 1, "Head X", a.limits.HeadXWarnMM
	case token.BACK:
		s, sign, label, warnMM = slotHeadTX, -1, "Head X", a.limits.HeadXWarnMM
	case token.LEFT:
		s, sign, label, warnMM = slotHeadTY, 1, "Head Y", a.limits.HeadYWarnMM
	case token.RIGHT:
		s, sign, label, warnMM = slotHeadTY, -1, "Head Y", a.limits.HeadYWarnMM
	case token.UP:
		s, sign, label, warnMM = slotHeadTZ, 1, "Head Z", a.limits.HeadZPlusWarnMM
	case token.DOWN:
		s, sign, label, warnMM = slotHeadTZ, -1, "Head Z", a.limits.HeadZMinusWarnMM
	default:
		return true
	}

	mm := a.signedMagnitude(part.Strength, "head_translation", defaultHeadTranslationMM, sign)
	a.checkWarnMM(line, label, mm, warnMM)
	ok, name := p.write(s, mmToM(mm))
	if !ok {
		a.conflict(line, name)
	}
	return ok
}

func (a *analyzer) applyAntenna(line int, part ast.ActionPart, p *pending) bool {
	selector := part.Direction.Named

	// An explicit clock/keyword target supplies the absolute angle
	// directly; "both" writes the same angle to both sides, "left"/
	// "right" write only their own side.
	if part.Strength != nil {
		switch {
		case part.Strength.Kind == ast.StrengthNumeric:
			deg := normalizeDeg(part.Strength.Numeric * 30)
			return a.writeAntennaTarget(line, selector, deg, p)
		case isAntennaTargetKeyword(part.Strength.Qualitative):
			deg := antennaTargetDeg(part.Strength.Qualitative)
			return a.writeAntennaTarget(line, selector, deg, p)
		}
	}

	// Otherwise it's a generic magnitude (default or qualitative level)
	// applied with the same left-positive/right-negative convention as
	// turn/look/tilt; "both" fans the two antennas symmetrically.
	magFor := func(sign float64) float64 {
		return a.signedMagnitude(part.Strength, "antenna", defaultAntennaDeg, sign)
	}
	switch selector {
	case token.LEFT:
		deg := magFor(1)
		a.checkAntennaWarn(line, deg)
		ok, name := p.write(slotAntennaLeft, degToRad(deg))
		if !ok {
			a.conflict(line, name)
		}
		return ok
	case token.RIGHT:
		deg := magFor(-1)
		a.checkAntennaWarn(line, deg)
		ok, name := p.write(slotAntennaRight, degToRad(deg))
		if !ok {
			a.conflict(line, name)
		}
		return ok
	case token.BOTH:
		degL := magFor(1)
		degR := magFor(-1)
		a.checkAntennaWarn(line, degL)
		a.checkAntennaWarn(line, degR)
		ok1, n1 := p.write(slotAntennaLeft, degToRad(degL))
		if !ok1 {
			a.conflict(line, n1)
		}
		ok2, n2 := p.write(slotAntennaRight, degToRad(degR))
		if !ok2 {
			a.conflict(line, n2)
		}
		return ok1 && ok2
	}
	return true
}

// writeAntennaTarget writes an explicit absolute target angle: "both"
// writes the same value to both sides, "left"/"right" write only their
// own side.
func (a *analyzer) writeAntennaTarget(line int, selector token.Kind, deg float64, p *pending) bool {
	a.checkAntennaWarn(line, deg)
	rad := degToRad(deg)
	switch selector {
	case token.LEFT:
		ok, name := p.write(slotAntennaLeft, rad)
		if !ok {
			a.conflict(line, name)
		}
		return ok
	case token.RIGHT:
		ok, name := p.write(slotAntennaRight, rad)
		if !ok {
			a.conflict(line, name)
		}
		return ok
	case token.BOTH:
		ok1, n1 := p.write(slotAntennaLeft, rad)
		if !ok1 {
			a.conflict(line, n1)
		}
		ok2, n2 := p.write(slotAntennaRight, rad)
		if !ok2 {
			a.conflict(line, n2)
		}
		return ok1 && ok2
	}
	return true
}

func isAntennaTargetKeyword(k token.Kind) bool {
	switch k {
	case token.HIGH, token.LOW, token.INT, token.EXT, token.LEFT, token.RIGHT, token.UP, token.DOWN:
		return true
	default:
		return false
	}
}

// antennaTargetDeg maps a clock/directional target keyword to its
// absolute angle, selector-independent (spec glossary: "antenna left
// left" = int = -90°, "antenna right right" = ext = +90°).
func antennaTargetDeg(k token.Kind) float64 {
	switch k {
	case token.HIGH, token.UP:
		return 0
	case token.EXT, token.RIGHT:
		return 90
	case token.LOW, token.DOWN:
		return 180
	case token.INT, token.LEFT:
		return -90
	default:
		return 0
	}
}

func (a *analyzer) conflict(line int, slotName string) {
	a.err(line, "Conflicting writes to channel %s", slotName)
}

func (a *analyzer) checkWarn(line int, label string, deg, thresholdDeg float64) {
	abs := deg
	if abs < 0 {
		abs = -abs
	}
	if abs > thresholdDeg {
		a.warn(line, "%s %.1f° exceeds safe range (±%.1f°), will be clamped", label, deg, thresholdDeg)
	}
}

func (a *analyzer) checkWarnMM(line int, label string, mm, thresholdMM float64) {
	abs := mm
	if abs < 0 {
		abs = -abs
	}
	if abs > thresholdMM {
		a.warn(line, "%s %.1fmm exceeds safe range (±%.1fmm), will be clamped", label, mm, thresholdMM)
	}
}

func (a *analyzer) checkAntennaWarn(line int, deg float64) {
	abs := deg
	if abs < 0 {
		abs = -abs
	}
	if abs > a.limits.AntennaHardCeilingDeg {
		a.warn(line, "Antenna %.1f° exceeds physical ceiling (±%.1f°), will be clamped", deg, a.limits.AntennaHardCeilingDeg)
		return
	}
	if abs > a.limits.AntennaWarnDeg {
		a.warn(line, "Antenna %.1f° exceeds safe range (±%.1f°), will be clamped", deg, a.limits.AntennaWarnDeg)
	}
}
