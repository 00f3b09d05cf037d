// Package ast defines rmscript's abstract syntax tree: the parser's output
// and the semantic analyzer's input. Statements, directions, strengths,
// and play modes are finite closed sets, modeled as tagged sum types with
// exhaustive switches rather than an inheritance hierarchy.
package ast

import "github.com/reachy-mini/rmscript/token"

// Program is the root of the AST: a name, an optional description, and an
// ordered list of top-level statements.
type Program struct {
	Name        string
	Description string
	Statements  []Statement
}

// Statement is the sealed interface every statement variant implements.
// sealedStatement is unexported so no external package can add variants —
// the spec's statement set is closed.
type Statement interface {
	sealedStatement()
	SourceLine() int
}

// DirectionKind distinguishes a named direction word from a bare numeric
// clock value (only legal for antenna targets).
type DirectionKind int

const (
	DirectionNamed DirectionKind = iota
	DirectionNumeric
)

// Direction is either a named direction keyword or a numeric clock value.
// The parser only produces DirectionNamed; an antenna part's Direction is
// its both/left/right selector, and its clock target is carried on
// Strength.
type Direction struct {
	Kind    DirectionKind
	Named   token.Kind // valid when Kind == DirectionNamed
	Numeric float64    // valid when Kind == DirectionNumeric
}

// StrengthKind distinguishes a numeric magnitude from a qualitative level.
type StrengthKind int

const (
	StrengthNumeric StrengthKind = iota
	StrengthQualitative
)

// Strength is either an explicit numeric magnitude (degrees or
// millimeters, unit implied by channel) or one of the five qualitative
// levels. For antenna parts, Numeric is a clock position (0..12) and
// Qualitative may also hold a target keyword (high, low, int, ext, left,
// right, up, down).
type Strength struct {
	Kind        StrengthKind
	Numeric     float64    // valid when Kind == StrengthNumeric
	Qualitative token.Kind // valid when Kind == StrengthQualitative
}

// DurationKind distinguishes an explicit seconds literal from a named
// duration-speed keyword.
type DurationKind int

const (
	DurationSeconds DurationKind = iota
	DurationKeyword
)

// Duration is either an explicit "Ns" literal or a duration-speed keyword
// such as "fast".
type Duration struct {
	Kind    DurationKind
	Seconds float64    // valid when Kind == DurationSeconds
	Keyword token.Kind // valid when Kind == DurationKeyword
}

// ActionPart is one direction/strength/duration triple within an
// ActionStmt, tagged with the keyword it effectively belongs to (which
// may differ from the statement's head keyword when an `and` chain omits
// its own keyword and reuses the previous one).
type ActionPart struct {
	Keyword   token.Kind
	Direction Direction
	Strength  *Strength // nil when omitted; semantic analysis applies a default
	Duration  *Duration // nil when omitted; semantic analysis applies a default
}

// ActionStmt is a movement statement: one head keyword plus one or more
// parts joined by `and`.
type ActionStmt struct {
	Head       token.Kind
	Parts      []ActionPart
	Line       int
	SourceText string
}

func (*ActionStmt) sealedStatement() {}
func (s *ActionStmt) SourceLine() int { return s.Line }

// WaitStmt pauses for a fixed duration; only a duration literal ("Ns") is
// legal here, never a duration keyword.
type WaitStmt struct {
	Seconds float64
	Line    int
}

func (*WaitStmt) sealedStatement()   {}
func (s *WaitStmt) SourceLine() int { return s.Line }

// PictureStmt captures a still image.
type PictureStmt struct {
	Line int
}

func (*PictureStmt) sealedStatement()  {}
func (s *PictureStmt) SourceLine() int { return s.Line }

// PlayMode tags how a PlaySoundStmt blocks the caller.
type PlayMode int

const (
	PlayAsync PlayMode = iota
	PlayBlockUntilDone
	PlayBlockForSeconds
)

// PlaySoundStmt plays a named sound once.
type PlaySoundStmt struct {
	Name    string
	Mode    PlayMode
	Seconds float64 // valid when Mode == PlayBlockForSeconds
	Line    int
}

func (*PlaySoundStmt) sealedStatement()  {}
func (s *PlaySoundStmt) SourceLine() int { return s.Line }

// LoopSoundStmt plays a named sound on repeat for a fixed duration
// (default 10s when unspecified).
type LoopSoundStmt struct {
	Name    string
	Seconds float64
	Line    int
}

func (*LoopSoundStmt) sealedStatement()  {}
func (s *LoopSoundStmt) SourceLine() int { return s.Line }

// RepeatStmt expands its body count times in source order at the
// semantic phase.
type RepeatStmt struct {
	Count uint32
	Body  []Statement
	Line  int
}

func (*RepeatStmt) sealedStatement()  {}
func (s *RepeatStmt) SourceLine() int { return s.Line }
