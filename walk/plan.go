package walk

import (
	"fmt"
	"strings"
)

// Plan is an ordered sequence of door choices.
type Plan []Door

// ParsePlan converts the digit form "0123" into a Plan.
// Any rune outside '0'..'5' yields ErrDoorOutOfRange.
//
// Complexity: O(len(s)).
func ParsePlan(s string) (Plan, error) {
	p := make(Plan, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c >= '0'+DoorCount {
			return nil, fmt.Errorf("walk: position %d (%q): %w", i, c, ErrDoorOutOfRange)
		}
		p = append(p, Door(c-'0'))
	}

	return p, nil
}

// MustParsePlan is ParsePlan for literals known to be valid; it panics otherwise.
func MustParsePlan(s string) Plan {
	p, err := ParsePlan(s)
	if err != nil {
		panic(err)
	}

	return p
}

// String renders p in the oracle's digit form.
func (p Plan) String() string {
	var sb strings.Builder
	sb.Grow(len(p))
	for _, d := range p {
		sb.WriteByte('0' + byte(d))
	}

	return sb.String()
}

// Validate checks that every door lies in [0, DoorCount).
func (p Plan) Validate() error {
	for i, d := range p {
		if !d.Valid() {
			return fmt.Errorf("walk: position %d (door %d): %w", i, d, ErrDoorOutOfRange)
		}
	}

	return nil
}

// ValidateBudget checks door range and the oracle budget len(p) ≤ 18·n.
func (p Plan) ValidateBudget(n int) error {
	if n <= 0 {
		return ErrRoomCount
	}
	if len(p) > PlanBudgetFactor*n {
		return fmt.Errorf("walk: %d doors for n=%d (max %d): %w",
			len(p), n, PlanBudgetFactor*n, ErrPlanTooLong)
	}

	return p.Validate()
}

// Clone returns an independent copy of p.
func (p Plan) Clone() Plan {
	out := make(Plan, len(p))
	copy(out, p)

	return out
}

// Concat returns the plans joined end to end, as a fresh plan.
func Concat(parts ...Plan) Plan {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make(Plan, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}

// HasSuffix reports whether p ends with s.
func (p Plan) HasSuffix(s Plan) bool {
	if len(s) > len(p) {
		return false
	}
	tail := p[len(p)-len(s):]
	for i := range s {
		if tail[i] != s[i] {
			return false
		}
	}

	return true
}
