// Package archive persists exploration runs in SQLite so reconstructions can
// be replayed offline without spending oracle queries.
//
// A run is the problem, the plans sent with their observed labels, the magic
// pattern behind each plan and, once known, the guessed map and its verdict.
// Plans and labels are stored in their digit form ("0123"); maps as JSON.
package archive
