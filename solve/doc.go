// Package solve ties the engines to the oracle.
//
// What:
//
//   - Reconstruct: observations to a map, with one of three engines.
//   - EngineMerge: assemble identities (fingerprint links or magic aliasing,
//     then congruence), search merges down to n rooms and close the map.
//   - EngineExhaustive: build the graph online along the generated walks
//     with a memoised depth-first search.
//   - EngineAuto: merge first; any retryable merge failure hands the walks
//     to the exhaustive engine.
//   - Runner: a full problem: select, generate magic plans, explore,
//     fingerprint, reconstruct, guess.
//
// Fingerprint stage (Runner, on by default):
//
//  1. Every prefix of the first plan is walked once more with each of
//     Fingerprints words (Followups); the magic pattern is the first word.
//  2. Up to Rounds completion rounds walk the doors of fingerprinted rooms
//     that do not yet lead to a fingerprinted room (Gaps).
//  3. Reconstruct links equal fingerprints before recording transitions.
//
// A reconstruction that runs out of candidates, contradicts itself or a wrong
// guess starts a new attempt with plans drawn from a derived seed, up to
// MaxAttempts. Every attempt is archived before the engines run, so Replay
// can rebuild it offline.
//
// Complexity:
//
//   - Followups: O(L·w) plans for a plan of length L and w words.
//   - Gaps:      one assembly of all traces per round.
//
// Errors:
//
//   - ErrNoTraces, ErrUnknownEngine, ErrMismatch, ErrAttemptsExhausted
//   - Retryable classifies engine exhaustion, incomplete maps and alias
//     contradictions; everything else stops Run.
package solve
