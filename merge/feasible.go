package merge

import (
	"github.com/katalvlaran/aedificium/assemble"
	"github.com/katalvlaran/aedificium/walk"
)

// Feasible reports whether merging a and b avoids forcing two rooms with
// different labels together through shared doors: for every door both have
// recorded, the destinations must be feasible in turn. Pairs already under
// examination are assumed feasible, which makes cycles terminate.
//
// It checks pairs independently, so it is a necessary condition; the squash
// after an actual union is the authoritative check.
//
// Complexity: O(R²·6) in the worst case for R rooms.
func Feasible(st *assemble.State, a, b assemble.RoomID) bool {
	seen := make(map[Pair]struct{})
	stack := []Pair{{A: a, B: b}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, y := st.Find(p.A), st.Find(p.B)
		if x == y {
			continue
		}
		if x.Label != y.Label {
			return false
		}
		if y.Less(x) {
			x, y = y, x
		}
		key := Pair{A: x, B: y}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		rx, ry := st.Row(x), st.Row(y)
		for d := walk.Door(0); d < walk.DoorCount; d++ {
			if rx.Has(d) && ry.Has(d) {
				stack = append(stack, Pair{A: rx.Dest[d], B: ry.Dest[d]})
			}
		}
	}

	return true
}

// Similar reports whether a and b share at least k recorded doors and every
// shared door leads to rooms with equal labels.
func Similar(st *assemble.State, a, b assemble.RoomID, k int) bool {
	ra, rb := st.Row(a), st.Row(b)
	common := 0
	for d := walk.Door(0); d < walk.DoorCount; d++ {
		if !ra.Has(d) || !rb.Has(d) {
			continue
		}
		if ra.Dest[d].Label != rb.Dest[d].Label {
			return false
		}
		common++
	}

	return common >= k
}
