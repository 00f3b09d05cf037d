// Package ir defines rmscript's intermediate representation: the flat,
// ordered, tagged-variant list the semantic analyzer produces and the
// optimizer consumes and rewrites. IR entries are immutable once built;
// phases downstream of construction only read them.
package ir

// Interp names a movement's interpolation profile. The compiler never
// selects a non-default value itself (spec §4.3 step 7) — the field
// exists for adapters that may offer alternative profiles in the future.
type Interp string

const (
	InterpMinJerk Interp = "minjerk"
	InterpLinear  Interp = "linear"
	InterpEase    Interp = "ease"
	InterpCartoon Interp = "cartoon"
)

// IR is the sealed interface every IR variant implements.
type IR interface {
	sealedIR()
	SourceLine() int
}

// AntennaPair holds both antenna angles in radians.
type AntennaPair struct {
	Left  float64
	Right float64
}

// Movement is a single combined pose/rotation command. Each of HeadPose,
// Antennas, and BodyYaw is nil unless the source statement wrote that
// channel — a nil field means "the adapter must leave this channel
// alone", not "drive it to zero".
type Movement struct {
	HeadPose      *Matrix4
	Antennas      *AntennaPair
	BodyYaw       *float64
	DurationSec   float64
	Interpolation Interp
	Line          int
	SourceText    string
}

func (*Movement) sealedIR()       {}
func (m *Movement) SourceLine() int { return m.Line }

// Wait pauses execution for DurationSec seconds (may be zero).
type Wait struct {
	DurationSec float64
	Line        int
}

func (*Wait) sealedIR()       {}
func (w *Wait) SourceLine() int { return w.Line }

// Picture captures a still image.
type Picture struct {
	Line int
}

func (*Picture) sealedIR()       {}
func (p *Picture) SourceLine() int { return p.Line }

// PlayMode tags how PlaySound blocks the caller.
type PlayMode int

const (
	PlayAsync PlayMode = iota
	PlayBlockUntilDone
	PlayBlockForSeconds
)

// PlaySound plays a named sound once.
type PlaySound struct {
	Name    string
	Mode    PlayMode
	Seconds float64 // valid when Mode == PlayBlockForSeconds
	Line    int
}

func (*PlaySound) sealedIR()       {}
func (p *PlaySound) SourceLine() int { return p.Line }

// LoopSound plays a named sound on repeat for DurationSec seconds.
type LoopSound struct {
	Name        string
	DurationSec float64
	Line        int
}

func (*LoopSound) sealedIR()       {}
func (l *LoopSound) SourceLine() int { return l.Line }
