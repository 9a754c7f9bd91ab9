// Package graph holds the reconstructed (or hidden) door graph: N labelled
// rooms whose 6·N door slots are paired by a perfect matching, self-pairs
// allowed.
//
// The Graph value is the wire form the oracle accepts: a room label list, a
// starting room and a list of door pairings. Besides validation it offers the
// utilities the rest of the module builds on:
//
//   - FromDestinations turns per-door destination rooms into a pairing.
//   - Walk simulates a plan and reports the observed labels.
//   - Random draws a connected graph by stub matching.
//   - Bisimilar decides whether two graphs are indistinguishable by any walk
//     from their starting rooms.
//
// The package does not log; every failure is a sentinel error wrapped with
// context.
package graph
