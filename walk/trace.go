package walk

import "fmt"

// Trace is a plan together with the labels observed while walking it.
// Labels[i] is the label of the room occupied before Plan[i] is taken;
// Labels[len(Plan)] is the label of the final room.
type Trace struct {
	Plan   Plan
	Labels []Label
}

// NewTrace validates and pairs a plan with its observed labels.
// The inputs are copied so later mutation by the caller cannot leak in.
//
// Errors: ErrLengthMismatch, ErrDoorOutOfRange, ErrLabelOutOfRange.
func NewTrace(plan Plan, labels []Label) (Trace, error) {
	// 1. Shape: one label per visited room, including the start.
	if len(labels) != len(plan)+1 {
		return Trace{}, fmt.Errorf("walk: %d labels for %d doors: %w",
			len(labels), len(plan), ErrLengthMismatch)
	}

	// 2. Door range.
	if err := plan.Validate(); err != nil {
		return Trace{}, err
	}

	// 3. Label range.
	for i, l := range labels {
		if !l.Valid() {
			return Trace{}, fmt.Errorf("walk: position %d (label %d): %w", i, l, ErrLabelOutOfRange)
		}
	}

	ls := make([]Label, len(labels))
	copy(ls, labels)

	return Trace{Plan: plan.Clone(), Labels: ls}, nil
}

// TraceFromInts builds a Trace from the oracle's raw integer results.
func TraceFromInts(plan Plan, raw []int) (Trace, error) {
	labels := make([]Label, len(raw))
	for i, v := range raw {
		if v < 0 || v >= LabelCount {
			return Trace{}, fmt.Errorf("walk: position %d (label %d): %w", i, v, ErrLabelOutOfRange)
		}
		labels[i] = Label(v)
	}

	return NewTrace(plan, labels)
}

// Len returns the number of doors in the trace.
func (t Trace) Len() int { return len(t.Plan) }
