// Package assemble folds walk observations into a partial door map over
// provisional room identities.
//
// What:
//
//   - NewState: one RoomID per walk position (the observed label plus a
//     label-scoped sequence number); all walks start in one room.
//   - Union: merges two identities and, by congruence, every pair of
//     destinations both rows know for the same door.
//   - Record / Fixpoint: fold transitions into the door map, alternating with
//     magic-pattern alias detection until nothing merges.
//   - ApplyLinks: merges the positions joined by fingerprint links.
//   - Complete / Graph: close the remaining gaps with the door-pairing rules
//     of a perfect matching and materialise the map.
//   - Compact / Clone: cheap copies for the merge search.
//
// Why:
//
//   - Two positions are the same room when the data proves it: a shared
//     start, a repeated magic window with a repeated label window (package
//     alias), an equal fingerprint, or the same (room, door) recorded with
//     two destinations. The most merged map that direct observation supports
//     is the starting point of every search.
//
// Door map keys are always representatives: Union folds the absorbed row
// into the surviving one as it merges. Squash rewrites destinations and
// stored identities to their representatives and is idempotent.
//
// Complexity:
//
//   - Union:    amortized O(k·α(P)) for k forced merges over P positions.
//   - Record:   O(L·α(P)) for a trace of length L, plus the unions it forces.
//   - Fixpoint: O(passes·(L·ℓ + L·α(P))) with ℓ the magic length.
//   - Compact:  O(R log R) for R rooms.
//
// Errors:
//
//   - ErrNoTraces            no observations
//   - walk.ErrLengthMismatch a trace without one more label than doors
//   - ErrLabelConflict       a forced merge of two labels; the attempt
//     cannot continue
//   - ErrTraceIndex          a position outside the traces
//   - ErrIncompleteMap       several rooms keep unknown doors and the
//     closure fallback is off
package assemble
