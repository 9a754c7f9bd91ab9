// Package exhaustive rebuilds a graph from one or more traces by simulated
// traversal, without any prior assembly.
//
// What:
//
//   - Solve: a memoised depth-first search over room tables that reproduce
//     every trace, each replayed from room 0 in order.
//
// Why:
//
//   - The merge engine depends on alias evidence. When that evidence is
//     missing or contradicts itself, replaying the walks directly still finds
//     a map for small N.
//
// The search state is a room table (label and six destination slots, -1 for
// unknown), the current room and the trace position. Known doors are
// followed and must lead to the observed label. An unknown door branches over
// every room that already carries the observed label and, while that label
// has fewer rooms than ⌈N/4⌉, over one freshly labelled room. Fresh rooms are
// taken in index order, so renamings of one table are never explored twice.
// Finishing a trace moves the walk back to room 0, whose label must match the
// next trace's first label.
//
// A state is pruned when some room pair can no longer be balanced: the doors
// a→b may not outnumber the doors b→a plus b's free doors. Visited states are
// remembered by a compact binary signature of the table, current room and
// trace position.
//
// At the end of the last trace a state is accepted when every room is
// labelled, every door is known, the label counts are balanced and every room
// pair is balanced. WithClosure relaxes this: missing labels and doors are
// filled in the way package assemble closes a map.
//
// Complexity:
//
//   - Solve: exponential in the worst case; each frame costs O(N²), frames
//     are bounded by MaxSteps (DefaultMaxSteps).
//
// Errors:
//
//   - ErrRoomCount               N outside [1, MaxRooms]
//   - ErrNoTraces                no observations
//   - walk.ErrLengthMismatch     a trace without one more label than doors
//   - walk.ErrLabelOutOfRange    a label outside [0, 4)
//   - ErrNoSolution              no table reproduces the traces
//   - ErrBudgetExceeded          MaxSteps frames without result
package exhaustive
