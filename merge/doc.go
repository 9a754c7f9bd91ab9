// Package merge reduces an assembled state to exactly N rooms.
//
// What:
//
//   - Search: decides which same-label identities of an assembled state
//     denote one room, until N rooms remain and the map completes to a valid
//     graph. It runs on a compacted copy holding one identity per room.
//   - Candidates: the same-label pairs that can merge without a contradiction.
//   - Feasible / Similar: pairwise merge tests over the recorded doors.
//   - Reachable / Viable: the label-count bounds that prune the search.
//
// Why:
//
//   - Aliasing and fingerprints leave rooms split whenever the evidence was
//     not conclusive; only the global constraints (N rooms, balanced labels,
//     a perfect door matching) can settle the rest.
//
// Search, in order:
//
//  1. Eager merges: same-label pairs that share at least EagerThreshold
//     recorded doors, all leading to equal labels, and that merge without
//     contradiction.
//  2. The remaining feasible pairs, ordered by label and identity, are
//     decided by a depth-first search over merge / keep-apart choices. The
//     search uses an explicit stack and clones the compacted state for every
//     merge branch; the merge branch is tried first. A pair kept apart stays
//     apart: a merge whose propagation joins it is dropped.
//  3. Every frame computes, per label, the fewest rooms its remaining pairs
//     can still reach. A frame is pruned when some label cannot land within
//     ⌊N/4⌋..⌈N/4⌉ or the labels together cannot sum to N.
//  4. A state is accepted once it has N rooms, balanced label counts, a door
//     map that can still extend to a perfect matching, and Complete produces
//     a valid graph.
//
// Complexity:
//
//   - Candidates:   O(R²·F) for R rooms and F the cost of Feasible.
//   - Search frame: O(P·F) for P remaining pairs; frames are bounded by
//     MaxSteps (DefaultMaxSteps).
//   - Feasible:     O(R²·6) in the worst case.
//
// Errors:
//
//   - ErrRoomCount       non-positive target
//   - ErrNotMergeable    the stack ran dry: the walks did not carry enough
//     information
//   - ErrBudgetExceeded  MaxSteps frames without an accepted state
package merge
