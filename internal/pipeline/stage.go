// Package pipeline defines the fixed production-stage sequence a job moves
// through and the single-step transition rules between stages.
package pipeline

import (
	"errors"
	"fmt"
)

// Stage is one discrete step of the production pipeline.
type Stage string

const (
	StageOrderEntered    Stage = "order_entered"
	StagePendingMaterial Stage = "pending_material"
	StagePaperSlitting   Stage = "paper_slitting"
	StageWinding         Stage = "winding"
	StageFinishing       Stage = "finishing"
	StageDelivery        Stage = "delivery"
	StageInvoicing       Stage = "invoicing"
	StageCleared         Stage = "cleared"
)

// sequence fixes the total order of stages. Forward and backward are defined
// as adjacent positions in this slice, nothing else.
var sequence = []Stage{
	StageOrderEntered,
	StagePendingMaterial,
	StagePaperSlitting,
	StageWinding,
	StageFinishing,
	StageDelivery,
	StageInvoicing,
	StageCleared,
}

var position = func() map[Stage]int {
	m := make(map[Stage]int, len(sequence))
	for i, s := range sequence {
		m[s] = i
	}
	return m
}()

var labels = map[Stage]string{
	StageOrderEntered:    "Order Entered",
	StagePendingMaterial: "Pending Material",
	StagePaperSlitting:   "Paper Slitting",
	StageWinding:         "Winding",
	StageFinishing:       "Finishing",
	StageDelivery:        "Delivery",
	StageInvoicing:       "Invoicing",
	StageCleared:         "Cleared",
}

// Boundary refusals. The reason strings travel to the client as-is.
var (
	ErrFirstStage = errors.New("job is already at the first stage")
	ErrLastStage  = errors.New("job is already at the final stage")
)

// Sequence returns the full ordered stage list. The result is a copy.
func Sequence() []Stage {
	out := make([]Stage, len(sequence))
	copy(out, sequence)
	return out
}

// Valid reports whether s is a member of the stage enumeration.
func Valid(s Stage) bool {
	_, ok := position[s]
	return ok
}

// First returns the stage every new job starts at.
func First() Stage {
	return sequence[0]
}

// Terminal reports whether s is the final stage of the sequence.
func Terminal(s Stage) bool {
	return s == StageCleared
}

// Label returns the display name of the stage, or the raw value for an
// unknown one.
func (s Stage) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// Next returns the stage one position forward, or false at the end.
func Next(s Stage) (Stage, bool) {
	i, ok := position[s]
	if !ok || i == len(sequence)-1 {
		return "", false
	}
	return sequence[i+1], true
}

// Prev returns the stage one position backward, or false at the start.
func Prev(s Stage) (Stage, bool) {
	i, ok := position[s]
	if !ok || i == 0 {
		return "", false
	}
	return sequence[i-1], true
}

// ParseStage validates a raw stage value from a request or a database row.
func ParseStage(raw string) (Stage, error) {
	s := Stage(raw)
	if !Valid(s) {
		return "", fmt.Errorf("unknown stage %q", raw)
	}
	return s, nil
}

// Direction names the two legal single-step moves.
type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

// ParseDirection validates a raw direction value from a request.
func ParseDirection(raw string) (Direction, error) {
	switch Direction(raw) {
	case Forward:
		return Forward, nil
	case Backward:
		return Backward, nil
	default:
		return "", fmt.Errorf("unknown direction %q, want %q or %q", raw, Forward, Backward)
	}
}

// Target resolves the stage one position from s in the given direction.
// Moves past either end of the sequence return ErrFirstStage or ErrLastStage.
// Business preconditions on specific stages belong to the caller.
func Target(s Stage, d Direction) (Stage, error) {
	if !Valid(s) {
		return "", fmt.Errorf("unknown stage %q", s)
	}
	switch d {
	case Forward:
		next, ok := Next(s)
		if !ok {
			return "", ErrLastStage
		}
		return next, nil
	case Backward:
		prev, ok := Prev(s)
		if !ok {
			return "", ErrFirstStage
		}
		return prev, nil
	default:
		return "", fmt.Errorf("unknown direction %q", d)
	}
}
