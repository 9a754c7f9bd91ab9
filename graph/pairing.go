// SPDX-License-Identifier: MIT

package graph

import (
	"fmt"

	"github.com/katalvlaran/aedificium/walk"
)

// FromDestinations builds a Graph from per-door destination rooms.
//
// For every unordered room pair {a, b} the doors a→b and b→a must be equally
// many; they are paired in ascending door order. Doors leading back into their
// own room are self-paired. The connection list is ordered by the smaller
// endpoint, so equal inputs give equal graphs.
//
// Errors: ErrRoomCount, ErrLabel, ErrStart, ErrEndpoint, ErrUnbalanced.
//
// Complexity: O(n·6) time plus O(n·6) for the pair buckets.
func FromDestinations(labels []walk.Label, dests [][walk.DoorCount]int, start int) (*Graph, error) {
	n := len(labels)

	// 1. Shape.
	if n == 0 || len(dests) != n {
		return nil, fmt.Errorf("graph: %d labels, %d door rows: %w", n, len(dests), ErrRoomCount)
	}
	if start < 0 || start >= n {
		return nil, fmt.Errorf("graph: start %d of %d rooms: %w", start, n, ErrStart)
	}
	for r, l := range labels {
		if !l.Valid() {
			return nil, fmt.Errorf("graph: room %d (label %d): %w", r, l, ErrLabel)
		}
	}

	// 2. Bucket doors by ordered (from, to) room pair.
	buckets := make(map[[2]int][]int)
	for r := 0; r < n; r++ {
		for d, to := range dests[r] {
			if to < 0 || to >= n {
				return nil, fmt.Errorf("graph: room %d door %d → %d: %w", r, d, to, ErrEndpoint)
			}
			k := [2]int{r, to}
			buckets[k] = append(buckets[k], d)
		}
	}

	// 3. Pair the k-th a→b door with the k-th b→a door.
	partner := make([][walk.DoorCount]Endpoint, n)
	for r := 0; r < n; r++ {
		for d, to := range dests[r] {
			if to == r {
				partner[r][d] = Endpoint{Room: r, Door: d}
				continue
			}
			fwd, back := buckets[[2]int{r, to}], buckets[[2]int{to, r}]
			if len(fwd) != len(back) {
				return nil, fmt.Errorf("graph: rooms %d→%d has %d doors, %d→%d has %d: %w",
					r, to, len(fwd), to, r, len(back), ErrUnbalanced)
			}
			for i, fd := range fwd {
				if fd == d {
					partner[r][d] = Endpoint{Room: to, Door: back[i]}
					break
				}
			}
		}
	}

	// 4. Emit each connection once, from its smaller endpoint.
	g := &Graph{
		Rooms:       append([]walk.Label(nil), labels...),
		Start:       start,
		Connections: make([]Connection, 0, n*walk.DoorCount/2+1),
	}
	for r := 0; r < n; r++ {
		for d := 0; d < walk.DoorCount; d++ {
			from, to := Endpoint{Room: r, Door: d}, partner[r][d]
			if less(to, from) {
				continue
			}
			g.Connections = append(g.Connections, Connection{From: from, To: to})
		}
	}

	return g, nil
}

func less(a, b Endpoint) bool {
	if a.Room != b.Room {
		return a.Room < b.Room
	}

	return a.Door < b.Door
}
