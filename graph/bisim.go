// SPDX-License-Identifier: MIT

package graph

import "github.com/katalvlaran/aedificium/walk"

// Bisimilar reports whether no plan can tell a and b apart from their
// starting rooms: both produce the same label sequence for every walk.
// Invalid graphs are never bisimilar.
//
// Algorithm: partition refinement on the disjoint union of both rooms sets.
// Classes start as labels; each round a room's class becomes its previous
// class plus the classes of its six destinations, until the class count is
// stable.
//
// Complexity: O(rounds · (na+nb) · 6), rounds ≤ na+nb.
func Bisimilar(a, b *Graph) bool {
	da, err := a.Destinations()
	if err != nil {
		return false
	}
	db, err := b.Destinations()
	if err != nil {
		return false
	}
	na := len(da)
	if a.Start < 0 || a.Start >= na || b.Start < 0 || b.Start >= len(db) {
		return false
	}

	// 1. Disjoint union: b's rooms are shifted by na.
	total := na + len(db)
	dest := make([][walk.DoorCount]int, total)
	class := make([]int, total)
	copy(dest, da)
	for r, row := range db {
		for d, to := range row {
			dest[na+r][d] = to + na
		}
	}
	for r, l := range a.Rooms {
		class[r] = int(l)
	}
	for r, l := range b.Rooms {
		class[na+r] = int(l)
	}
	count := distinct(class)

	// 2. Refine until the partition is stable.
	for {
		ids := make(map[[walk.DoorCount + 1]int]int, total)
		next := make([]int, total)
		for r := 0; r < total; r++ {
			var sig [walk.DoorCount + 1]int
			sig[0] = class[r]
			for d, to := range dest[r] {
				sig[d+1] = class[to]
			}
			id, ok := ids[sig]
			if !ok {
				id = len(ids)
				ids[sig] = id
			}
			next[r] = id
		}
		class = next
		if len(ids) == count {
			break
		}
		count = len(ids)
	}

	return class[a.Start] == class[na+b.Start]
}

func distinct(xs []int) int {
	seen := make(map[int]struct{}, walk.LabelCount)
	for _, x := range xs {
		seen[x] = struct{}{}
	}

	return len(seen)
}
