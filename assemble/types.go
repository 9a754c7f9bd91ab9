package assemble

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/aedificium/alias"
	"github.com/katalvlaran/aedificium/walk"
)

// Sentinel errors.
var (
	// ErrNoTraces indicates NewState was given nothing to assemble.
	ErrNoTraces = errors.New("assemble: no traces")

	// ErrLabelConflict indicates two identities with different labels were
	// forced into the same room.
	ErrLabelConflict = errors.New("assemble: label conflict")

	// ErrIncompleteMap indicates doors remain unresolved after Complete.
	ErrIncompleteMap = errors.New("assemble: map has unresolved doors")

	// ErrTraceIndex indicates a trace index outside the state.
	ErrTraceIndex = errors.New("assemble: trace index out of range")
)

// RoomID names a provisional room. Label is fixed for the lifetime of the
// identity; Seq is unique among identities with the same label.
type RoomID struct {
	Label walk.Label
	Seq   int
}

// String renders the identity as "<label>_<seq hex>", e.g. "2_1f".
func (r RoomID) String() string { return fmt.Sprintf("%d_%x", r.Label, r.Seq) }

// Less orders identities by label, then sequence.
func (r RoomID) Less(o RoomID) bool {
	if r.Label != o.Label {
		return r.Label < o.Label
	}

	return r.Seq < o.Seq
}

// Row is the known part of one room's door table.
type Row struct {
	Dest  [walk.DoorCount]RoomID
	Known uint8 // bit d set ⇔ Dest[d] is recorded
}

// Has reports whether door d is recorded.
func (r Row) Has(d walk.Door) bool { return r.Known&(1<<d) != 0 }

// Set records door d → to.
func (r *Row) Set(d walk.Door, to RoomID) {
	r.Dest[d] = to
	r.Known |= 1 << d
}

// Full reports whether all doors are recorded.
func (r Row) Full() bool { return r.Known == 1<<walk.DoorCount-1 }

// Unknown lists the unrecorded doors in ascending order.
func (r Row) Unknown() []walk.Door {
	var out []walk.Door
	for d := walk.Door(0); d < walk.DoorCount; d++ {
		if !r.Has(d) {
			out = append(out, d)
		}
	}

	return out
}

// DoorMap maps a room identity to its known door row.
type DoorMap map[RoomID]Row

// Options configures a State.
type Options struct {
	// MinPatternLen is the shortest magic sub-pattern Fixpoint scans.
	MinPatternLen int

	// Closure enables the general fallback of Complete: deficit fill, then
	// self-loops, when several rooms still have unknown doors.
	Closure bool
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns alias.DefaultMinPatternLen and no closure fallback.
func DefaultOptions() Options {
	return Options{MinPatternLen: alias.DefaultMinPatternLen}
}

// WithMinPatternLen sets the shortest scanned sub-pattern.
func WithMinPatternLen(k int) Option {
	return func(o *Options) { o.MinPatternLen = k }
}

// WithClosure enables the best-effort fallback of Complete.
func WithClosure() Option {
	return func(o *Options) { o.Closure = true }
}
