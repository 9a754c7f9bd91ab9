package oracle

import (
	"fmt"
	"strconv"
)

// Problem is a named problem and its room count.
type Problem struct {
	Name  string `json:"name"`
	Rooms int    `json:"rooms"`
}

// Problems lists the single-floor problems in ascending size.
var Problems = []Problem{
	{Name: "probatio", Rooms: 3},
	{Name: "primus", Rooms: 6},
	{Name: "secundus", Rooms: 12},
	{Name: "tertius", Rooms: 18},
	{Name: "quartus", Rooms: 24},
	{Name: "quintus", Rooms: 30},
}

// Lookup resolves a problem name. A positive decimal name selects an ad hoc
// problem of that many rooms, which only simulators accept.
func Lookup(name string) (Problem, error) {
	for _, p := range Problems {
		if p.Name == name {
			return p, nil
		}
	}
	if n, err := strconv.Atoi(name); err == nil && n > 0 {
		return Problem{Name: name, Rooms: n}, nil
	}

	return Problem{}, fmt.Errorf("oracle: %q: %w", name, ErrUnknownProblem)
}
