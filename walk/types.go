package walk

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// DoorCount is the number of doors every room carries.
	DoorCount = 6

	// LabelCount is the number of distinct room labels the oracle reports.
	LabelCount = 4

	// PlanBudgetFactor bounds a single plan to PlanBudgetFactor·n doors.
	PlanBudgetFactor = 18
)

// Sentinel errors for plan and trace validation.
var (
	// ErrDoorOutOfRange indicates a door index outside [0, DoorCount).
	ErrDoorOutOfRange = errors.New("walk: door out of range")

	// ErrLabelOutOfRange indicates a label outside [0, LabelCount).
	ErrLabelOutOfRange = errors.New("walk: label out of range")

	// ErrPlanTooLong indicates a plan exceeding PlanBudgetFactor·n doors.
	ErrPlanTooLong = errors.New("walk: plan exceeds query budget")

	// ErrLengthMismatch indicates len(labels) != len(plan)+1.
	ErrLengthMismatch = errors.New("walk: label sequence length mismatch")

	// ErrRoomCount indicates a non-positive room count.
	ErrRoomCount = errors.New("walk: room count must be positive")

	// ErrBadOption indicates an invalid generator option value.
	ErrBadOption = errors.New("walk: invalid generator option")
)

// Door is a door index in [0, DoorCount).
type Door uint8

// Valid reports whether d is a legal door index.
func (d Door) Valid() bool { return d < DoorCount }

// Label is a room label in [0, LabelCount).
type Label uint8

// Valid reports whether l is a legal label.
func (l Label) Valid() bool { return l < LabelCount }

// MarshalJSON encodes l as a bare number, so []Label marshals as a JSON array
// of integers instead of a base64 byte string.
func (l Label) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, uint64(l), 10), nil
}

// UnmarshalJSON decodes a bare number and rejects values outside [0, LabelCount).
func (l *Label) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseUint(string(b), 10, 8)
	if err != nil || v >= LabelCount {
		return fmt.Errorf("walk: label %s: %w", b, ErrLabelOutOfRange)
	}
	*l = Label(v)

	return nil
}
