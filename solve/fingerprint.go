package solve

import (
	"context"
	"fmt"
	"sort"

	"github.com/katalvlaran/aedificium/alias"
	"github.com/katalvlaran/aedificium/assemble"
	"github.com/katalvlaran/aedificium/walk"
)

// identify runs the fingerprint stage after the first explore. It walks every
// prefix of base followed by each fingerprint word, then runs completion
// rounds: each round sends the doors of fingerprinted rooms that do not yet
// lead to a fingerprinted room. It returns the words and every trace so far.
//
// Steps:
//  1. Draw the words; the magic pattern of base comes first.
//  2. Explore prefix plans of base followed by each word.
//  3. Until no door is missing or Rounds is spent, explore the missing doors.
func (r *Runner) identify(
	ctx context.Context, n int, base, magic walk.Plan, seed int64, traces []walk.Trace,
) ([]walk.Plan, []walk.Trace, error) {
	o := r.opts
	words, err := walk.FingerprintWords(magic, o.Fingerprints, walk.WithSeed(walk.DeriveSeed(seed, 1)))
	if err != nil {
		return nil, nil, err
	}
	budget := walk.PlanBudgetFactor * n

	plans := Followups(base, words, budget)
	for round := 0; len(plans) > 0; round++ {
		more, err := r.oracle.Explore(ctx, plans)
		if err != nil {
			return nil, nil, err
		}
		traces = append(traces, more...)
		if round == o.Rounds {
			break
		}
		if plans, err = Gaps(n, traces, words); err != nil {
			return nil, nil, err
		}
		o.Logger.Debug("solve: fingerprint round", "round", round+1, "traces", len(traces), "missing", len(plans))
	}

	return words, traces, nil
}

// Followups lists base[:i] followed by each word, for every i that keeps the
// longest word within budget doors.
func Followups(base walk.Plan, words []walk.Plan, budget int) []walk.Plan {
	longest := 0
	for _, w := range words {
		longest = max(longest, len(w))
	}
	var out []walk.Plan
	for i := 0; i <= len(base) && i+longest <= budget; i++ {
		for _, w := range words {
			out = append(out, walk.Concat(base[:i], w))
		}
	}

	return out
}

// Gaps lists the plans that fingerprint every door of a fingerprinted room
// whose destination is unknown or not fingerprinted yet: the shortest known
// way into the room, the door, then each word. Doors whose plan would exceed
// the budget of an n-room graph are skipped.
//
// Errors: the precondition errors of assemble and alias.
func Gaps(n int, traces []walk.Trace, words []walk.Plan) ([]walk.Plan, error) {
	// 1. Identities from fingerprints and congruence.
	st, prints, err := linked(traces, words)
	if err != nil {
		return nil, err
	}

	// 2. The shortest access path of each fingerprinted room.
	access := make(map[assemble.RoomID]walk.Plan, len(prints))
	for _, p := range prints {
		id, err := st.Identity(p.Anchor)
		if err != nil {
			return nil, err
		}
		if a, ok := access[id]; !ok || len(p.Prefix) < len(a) {
			access[id] = p.Prefix
		}
	}
	rooms := make([]assemble.RoomID, 0, len(access))
	for id := range access {
		rooms = append(rooms, id)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Less(rooms[j]) })

	// 3. Missing doors.
	longest := 0
	for _, w := range words {
		longest = max(longest, len(w))
	}
	budget := walk.PlanBudgetFactor * n
	var out []walk.Plan
	for _, id := range rooms {
		pre, row := access[id], st.Row(id)
		if len(pre)+1+longest > budget {
			continue
		}
		for d := walk.Door(0); d < walk.DoorCount; d++ {
			if row.Has(d) {
				if _, ok := access[row.Dest[d]]; ok {
					continue
				}
			}
			for _, w := range words {
				out = append(out, walk.Concat(pre, walk.Plan{d}, w))
			}
		}
	}

	return out, nil
}

// linked assembles traces with fingerprint links applied and every
// transition recorded. It also returns the prints behind the links.
func linked(traces []walk.Trace, words []walk.Plan, opts ...assemble.Option) (*assemble.State, []alias.Print, error) {
	st, err := assemble.NewState(traces, opts...)
	if err != nil {
		return nil, nil, err
	}
	prints, err := alias.Fingerprints(traces, words)
	if err != nil {
		return nil, nil, err
	}
	if _, err := st.ApplyLinks(alias.Links(prints)); err != nil {
		return nil, nil, fmt.Errorf("solve: fingerprints: %w", err)
	}
	if err := st.RecordAll(); err != nil {
		return nil, nil, err
	}

	return st, prints, nil
}
