// Package walk models the observations the reconstruction engines consume:
// door plans submitted to the oracle and the label sequences it returns.
//
// A Plan is an ordered sequence of door indices in [0,6). A Trace pairs a plan
// with its observed labels; the label at position i is the label of the room
// occupied before taking door i, so len(Labels) == len(Plan)+1.
//
// Key features:
//   - ParsePlan / Plan.String: the digit wire form used by the oracle ("0123").
//   - Plan.ValidateBudget(n): the oracle's query budget rule (len ≤ 18·n).
//   - NewTrace: shape, door and label range validation.
//   - LabelBounds / CountsBalanced: the ⌊n/4⌋..⌈n/4⌉ label distribution rule.
//   - Generate: magic-pattern plans (a repeated door sub-sequence with short
//     random padding between repetitions) that force label-window collisions.
//   - FingerprintWords: short words with distinct first doors that identify a
//     room by the labels it shows along each of them.
//   - Concat / HasSuffix: plan composition for follow-up walks.
//
// All values are immutable once constructed; the package performs no logging
// and reports failures through the sentinel errors declared in types.go.
//
// Complexity:
//   - ParsePlan, Validate, NewTrace: O(L) for a plan of length L.
//   - Generate: O(k·L) for k plans.
//   - FingerprintWords: O(k·ℓ) for k words of length ℓ.
package walk
