// SPDX-License-Identifier: MIT

package graph

import (
	"fmt"

	"github.com/katalvlaran/aedificium/walk"
)

// Walk follows plan from the starting room and returns the labels seen,
// one per position including the start.
//
// Errors: the table errors of Validate, or walk.ErrDoorOutOfRange.
func (g *Graph) Walk(plan walk.Plan) ([]walk.Label, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if g.Start < 0 || g.Start >= len(g.Rooms) {
		return nil, fmt.Errorf("graph: start %d of %d rooms: %w", g.Start, len(g.Rooms), ErrStart)
	}
	dest, err := g.Destinations()
	if err != nil {
		return nil, err
	}

	out := make([]walk.Label, 0, len(plan)+1)
	cur := g.Start
	out = append(out, g.Rooms[cur])
	for _, d := range plan {
		cur = dest[cur][d]
		out = append(out, g.Rooms[cur])
	}

	return out, nil
}

// Trace walks plan and pairs it with the observed labels.
func (g *Graph) Trace(plan walk.Plan) (walk.Trace, error) {
	labels, err := g.Walk(plan)
	if err != nil {
		return walk.Trace{}, err
	}

	return walk.NewTrace(plan, labels)
}

// Connected reports whether every room is reachable from the starting room.
// An invalid graph is reported as not connected.
func (g *Graph) Connected() bool {
	dest, err := g.Destinations()
	if err != nil || g.Start < 0 || g.Start >= len(dest) {
		return false
	}

	// Plain BFS over destination rooms.
	visited := make([]bool, len(dest))
	visited[g.Start] = true
	queue := []int{g.Start}
	count := 1
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		for _, to := range dest[r] {
			if visited[to] {
				continue
			}
			visited[to] = true
			count++
			queue = append(queue, to)
		}
	}

	return count == len(dest)
}
