// Package aedificium reconstructs a hidden graph of labelled rooms from the
// label sequences observed while walking it.
//
// The hidden graph has N rooms, each carrying a two-bit label and six doors;
// doors are paired (a door may pair with itself) and walking through one
// lands in the room of its partner. An oracle accepts batches of door plans
// and answers with the labels seen along each walk. From those answers the
// module rebuilds a map that is indistinguishable from the hidden graph.
//
// Packages:
//
//	walk/         doors, labels, plans, traces, label bounds, magic plan generation
//	unionfind/    generic disjoint sets with lazy insertion
//	alias/        magic-pattern repeats that prove two positions are one room
//	assemble/     room identities, the partial door map, squash fixed point, map completion
//	merge/        constrained merge search down to N rooms
//	exhaustive/   online state-space search along one trace
//	graph/        the map value, validation, walk simulation, random graphs, bisimulation
//	oracle/       oracle interface, HTTP client, in-process simulator
//	oraclesim/    HTTP server simulating the oracle, with Prometheus metrics
//	archive/      SQLite archive of explored runs
//	solve/        engine selection and the select/explore/guess loop
//	config/       YAML configuration
//	cmd/aedificium  the CLI
//
// Quick example, three rooms A, B, C labelled 0, 1, 2, starting in A:
//
//	A: doors 0,1,3 → B   doors 2,4,5 → C
//	B: doors 1,3,4 → A   door 0 → C   doors 2,5 paired with each other
//
// The walk "012" from A observes the labels 0 1 0 2.
package aedificium
