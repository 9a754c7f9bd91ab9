// SPDX-License-Identifier: MIT
//
// random.go: Random(n, rng) draws a connected hidden graph by stub matching.
//
// Model:
//   • Labels i mod 4 for i in [0, n), shuffled, so the counts are balanced.
//   • All 6·n door slots are shuffled and paired consecutively; two slots of
//     the same room form an ordinary loop, and both stay distinct doors.
//   • The starting room is 0.
//
// Determinism:
//   • Same rng state ⇒ same graph. Attempts are bounded; a disconnected
//     pairing is reshuffled, and ErrConstructFailed follows the last attempt.
//
// Complexity:
//   • Per attempt O(n·6) time and space.

package graph

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/aedificium/walk"
)

const maxRandomAttempts = 64

// Random draws a connected graph with n rooms from rng.
func Random(n int, rng *rand.Rand) (*Graph, error) {
	// 1. Parameter gate.
	if n <= 0 {
		return nil, fmt.Errorf("graph: random with n=%d: %w", n, ErrRoomCount)
	}
	if rng == nil {
		rng = walk.NewRand(0)
	}

	// 2. Balanced labels.
	labels := make([]walk.Label, n)
	for i := range labels {
		labels[i] = walk.Label(i % walk.LabelCount)
	}
	rng.Shuffle(n, func(i, j int) { labels[i], labels[j] = labels[j], labels[i] })

	// 3. Stub list: one entry per door slot.
	stubs := make([]Endpoint, 0, n*walk.DoorCount)
	for r := 0; r < n; r++ {
		for d := 0; d < walk.DoorCount; d++ {
			stubs = append(stubs, Endpoint{Room: r, Door: d})
		}
	}

	// 4. Shuffle and pair until the result is connected.
	for attempt := 1; attempt <= maxRandomAttempts; attempt++ {
		rng.Shuffle(len(stubs), func(i, j int) { stubs[i], stubs[j] = stubs[j], stubs[i] })
		g := &Graph{
			Rooms:       append([]walk.Label(nil), labels...),
			Start:       0,
			Connections: make([]Connection, 0, len(stubs)/2),
		}
		for i := 0; i < len(stubs); i += 2 {
			a, b := stubs[i], stubs[i+1]
			if less(b, a) {
				a, b = b, a
			}
			g.Connections = append(g.Connections, Connection{From: a, To: b})
		}
		if g.Connected() {
			return g, nil
		}
	}

	return nil, fmt.Errorf("graph: n=%d after %d attempts: %w", n, maxRandomAttempts, ErrConstructFailed)
}
