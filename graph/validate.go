// SPDX-License-Identifier: MIT

package graph

import (
	"fmt"

	"github.com/katalvlaran/aedificium/walk"
)

// Validate checks every structural rule the oracle enforces on a guess:
//
//  1. exactly n rooms (n > 0) with labels in range;
//  2. a starting room in range;
//  3. every endpoint in range;
//  4. every one of the 6·n door slots covered by exactly one connection.
//
// Mutuality is implied by the connection form: a slot appears once, and the
// connection names its partner.
func (g *Graph) Validate(n int) error {
	// 1. Rooms.
	if n <= 0 || len(g.Rooms) != n {
		return fmt.Errorf("graph: %d rooms, want %d: %w", len(g.Rooms), n, ErrRoomCount)
	}
	for r, l := range g.Rooms {
		if !l.Valid() {
			return fmt.Errorf("graph: room %d (label %d): %w", r, l, ErrLabel)
		}
	}

	// 2. Start.
	if g.Start < 0 || g.Start >= n {
		return fmt.Errorf("graph: start %d of %d rooms: %w", g.Start, n, ErrStart)
	}

	// 3-4. Endpoints and coverage.
	_, err := g.table()

	return err
}

// table resolves every slot to its partner, enforcing endpoint range and
// exact coverage.
func (g *Graph) table() ([][walk.DoorCount]Endpoint, error) {
	n := len(g.Rooms)
	t := make([][walk.DoorCount]Endpoint, n)
	seen := make([][walk.DoorCount]bool, n)
	mark := func(e, partner Endpoint) error {
		if e.Room < 0 || e.Room >= n || e.Door < 0 || e.Door >= walk.DoorCount {
			return fmt.Errorf("graph: endpoint %+v: %w", e, ErrEndpoint)
		}
		if seen[e.Room][e.Door] {
			return fmt.Errorf("graph: slot %+v paired twice: %w", e, ErrSlotCoverage)
		}
		seen[e.Room][e.Door] = true
		t[e.Room][e.Door] = partner

		return nil
	}
	for _, c := range g.Connections {
		if err := mark(c.From, c.To); err != nil {
			return nil, err
		}
		if c.To == c.From {
			continue
		}
		if err := mark(c.To, c.From); err != nil {
			return nil, err
		}
	}
	for r := range seen {
		for d, ok := range seen[r] {
			if !ok {
				return nil, fmt.Errorf("graph: slot {Room:%d Door:%d} unpaired: %w", r, d, ErrSlotCoverage)
			}
		}
	}

	return t, nil
}

// Doors returns, for every room and door, the partner slot.
func (g *Graph) Doors() ([][walk.DoorCount]Endpoint, error) {
	return g.table()
}

// Destinations returns, for every room and door, the destination room only:
// the view a walker has of the graph.
func (g *Graph) Destinations() ([][walk.DoorCount]int, error) {
	t, err := g.table()
	if err != nil {
		return nil, err
	}
	out := make([][walk.DoorCount]int, len(t))
	for r := range t {
		for d := range t[r] {
			out[r][d] = t[r][d].Room
		}
	}

	return out, nil
}
