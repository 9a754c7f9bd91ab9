// Package alias finds walk positions that must denote the same room.
//
// What:
//
//   - Detect / DetectAll: magic-pattern aliasing within one trace. Plans are
//     built from a short "magic" door pattern repeated with random padding.
//     Whenever the same door pattern is walked twice and produces the same
//     label window, the two windows are taken to cover the same rooms.
//   - Fingerprints / Links: aliasing across traces. A room reached by a
//     prefix is walked once with each fingerprint word; two prefixes whose
//     label windows agree on every word are taken to reach the same room.
//
// Why:
//
//   - A single label window is weak evidence: two walks that converge on one
//     room produce identical windows from different starts. Several words
//     leaving through different doors must all converge before two rooms are
//     confused, which makes fingerprints the stronger test.
//
// Detect scans one pattern at a time. Callers iterate Subpatterns from long to
// short and repeat until no new alias appears, since each merge can expose
// further collisions after map assembly.
//
// Complexity:
//
//   - Occurrences:  O(L·ℓ) for a plan of length L and pattern of length ℓ.
//   - Detect:       O(L·ℓ) plus a map lookup per occurrence.
//   - Fingerprints: O(T·w·(L+ℓ)) for T traces and w words.
//   - Links:        O(p) for p prints.
//
// Errors:
//
//   - ErrLabelMismatch        aliased positions or a fingerprinted prefix
//     disagree on a label
//   - ErrOutOfRange           a match past the end of its trace
//   - walk.ErrLengthMismatch  a malformed trace handed to Fingerprints
package alias
