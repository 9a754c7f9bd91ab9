// SPDX-License-Identifier: MIT

package graph

import "github.com/katalvlaran/aedificium/walk"

// CoverPlan returns a plan that takes every door of every room reachable from
// the start at least once: repeatedly walk the shortest path to the nearest
// room with an untaken door, then take that door.
//
// Complexity: O((6n)·n·6) time.
func (g *Graph) CoverPlan() (walk.Plan, error) {
	dest, err := g.Destinations()
	if err != nil {
		return nil, err
	}
	n := len(dest)
	taken := make([][walk.DoorCount]bool, n)
	var plan walk.Plan
	cur := g.Start
	for {
		// 1. BFS for the nearest room with an untaken door.
		type hop struct {
			prev int
			door walk.Door
		}
		via := make([]hop, n)
		seen := make([]bool, n)
		seen[cur] = true
		queue := []int{cur}
		target, door := -1, walk.Door(0)
		for len(queue) > 0 && target < 0 {
			r := queue[0]
			queue = queue[1:]
			for d := walk.Door(0); d < walk.DoorCount; d++ {
				if !taken[r][d] {
					target, door = r, d
					break
				}
			}
			if target >= 0 {
				break
			}
			for d, to := range dest[r] {
				if !seen[to] {
					seen[to] = true
					via[to] = hop{prev: r, door: walk.Door(d)}
					queue = append(queue, to)
				}
			}
		}
		if target < 0 {
			return plan, nil
		}

		// 2. Replay the path, then take the door.
		var path []walk.Door
		for r := target; r != cur; r = via[r].prev {
			path = append(path, via[r].door)
		}
		for i := len(path) - 1; i >= 0; i-- {
			plan = append(plan, path[i])
		}
		plan = append(plan, door)
		taken[target][door] = true
		cur = dest[target][door]
	}
}
