// Package unionfind implements a disjoint-set forest over arbitrary comparable
// keys, with union by rank and iterative path compression.
//
// Keys are registered lazily: Add is a no-op for known keys, and Find registers
// an unknown key as a singleton. Same never registers anything and reports
// false when either key is unknown.
//
// Copy returns a deep, fully independent snapshot, so backtracking searches can
// speculate on a copy without touching the authoritative structure.
//
// Complexity:
//   - Find, Union, Same: amortized O(α(n)).
//   - Copy: O(n).
//   - Roots, Components: O(n·α(n)).
package unionfind
