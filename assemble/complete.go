package assemble

import (
	"fmt"

	"github.com/katalvlaran/aedificium/graph"
	"github.com/katalvlaran/aedificium/walk"
)

// Complete resolves unknown doors with the pairing rules of a perfect
// matching. The map is squashed first. Rules, in order:
//
//  1. Pair balance: if A has k more recorded doors into B than B has into A,
//     and B has exactly k unknown doors, those doors lead to A. Repeated until
//     no pair applies.
//  2. If exactly one room still has unknown doors, they become self-loops.
//  3. With WithClosure only: deficits are filled greedily, then every
//     remaining unknown door becomes a self-loop.
//
// Rooms that appear only as destinations get an empty row first. Pairing of
// reverse edges is left to Graph.
//
// Errors: ErrIncompleteMap when several rooms keep unknown doors and the
// closure fallback is off.
func (s *State) Complete() error {
	if err := s.Squash(); err != nil {
		return err
	}
	rooms := s.Rooms()
	for _, r := range rooms {
		if _, ok := s.doors[r]; !ok {
			s.doors[r] = Row{}
		}
	}

	// 1. Pair balance until stable.
	for s.balanceOnce(rooms) {
	}

	// 2. Single room with slack.
	var open []RoomID
	for _, r := range rooms {
		if !s.doors[r].Full() {
			open = append(open, r)
		}
	}
	switch {
	case len(open) == 0:
		return nil
	case len(open) == 1:
		s.selfLoops(open[0])

		return nil
	case !s.opts.Closure:
		return fmt.Errorf("assemble: %d rooms with unknown doors: %w", len(open), ErrIncompleteMap)
	}

	// 3. Fallback: greedy deficit fill, then self-loops.
	for _, a := range rooms {
		for _, b := range rooms {
			if a == b {
				continue
			}
			deficit := s.count(a, b) - s.count(b, a)
			row := s.doors[b]
			for _, d := range row.Unknown() {
				if deficit <= 0 {
					break
				}
				row.Set(d, a)
				deficit--
			}
			s.doors[b] = row
		}
	}
	for _, r := range rooms {
		s.selfLoops(r)
	}

	return nil
}

// balanceOnce applies the first matching pair-balance rule, in room order.
func (s *State) balanceOnce(rooms []RoomID) bool {
	for _, a := range rooms {
		for _, b := range rooms {
			if a == b {
				continue
			}
			row := s.doors[b]
			unknown := row.Unknown()
			if len(unknown) == 0 || len(unknown) != s.count(a, b)-s.count(b, a) {
				continue
			}
			for _, d := range unknown {
				row.Set(d, a)
			}
			s.doors[b] = row

			return true
		}
	}

	return false
}

// count returns the recorded doors of a leading into b.
func (s *State) count(a, b RoomID) int {
	row := s.doors[a]
	n := 0
	for d := walk.Door(0); d < walk.DoorCount; d++ {
		if row.Has(d) && row.Dest[d] == b {
			n++
		}
	}

	return n
}

func (s *State) selfLoops(r RoomID) {
	row := s.doors[r]
	for _, d := range row.Unknown() {
		row.Set(d, r)
	}
	s.doors[r] = row
}

// Graph materialises the squashed map: rooms in identity order, the starting
// room's index, and a mutual pairing built from the destination tables.
//
// Errors: ErrIncompleteMap when a door is unknown; graph.ErrUnbalanced when
// the tables admit no perfect matching.
func (s *State) Graph() (*graph.Graph, error) {
	if err := s.Squash(); err != nil {
		return nil, err
	}
	rooms := s.Rooms()
	index := make(map[RoomID]int, len(rooms))
	labels := make([]walk.Label, len(rooms))
	for i, r := range rooms {
		index[r] = i
		labels[i] = r.Label
	}
	dests := make([][walk.DoorCount]int, len(rooms))
	for i, r := range rooms {
		row := s.doors[r]
		if !row.Full() {
			return nil, fmt.Errorf("assemble: room %s doors %v: %w", r, row.Unknown(), ErrIncompleteMap)
		}
		for d, to := range row.Dest {
			j, ok := index[to]
			if !ok {
				return nil, fmt.Errorf("assemble: room %s door %d → unknown %s: %w", r, d, to, ErrIncompleteMap)
			}
			dests[i][d] = j
		}
	}

	return graph.FromDestinations(labels, dests, index[s.Start()])
}
