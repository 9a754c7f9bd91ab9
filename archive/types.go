package archive

import (
	"errors"
	"time"

	"github.com/katalvlaran/aedificium/graph"
	"github.com/katalvlaran/aedificium/walk"
)

// Sentinel errors.
var (
	// ErrNotFound indicates an unknown run id.
	ErrNotFound = errors.New("archive: run not found")

	// ErrCorrupt indicates a stored row that no longer parses.
	ErrCorrupt = errors.New("archive: corrupt record")
)

// Run is one archived exploration.
type Run struct {
	ID         string
	Problem    string
	Rooms      int
	Seed       int64
	QueryCount int
	Traces     []walk.Trace

	// Magics[i] is the magic pattern repeated by Traces[i].Plan; it may be
	// empty when the plan was not generated from one.
	Magics []walk.Plan

	// Words are the fingerprint words behind the follow-up traces; empty
	// when the run skipped the fingerprint stage.
	Words []walk.Plan

	// Graph and Correct are set once a guess was made.
	Graph   *graph.Graph
	Correct *bool

	CreatedAt time.Time
}

// Summary is a run without its traces.
type Summary struct {
	ID         string    `json:"id"`
	Problem    string    `json:"problem"`
	Rooms      int       `json:"rooms"`
	Seed       int64     `json:"seed"`
	QueryCount int       `json:"queryCount"`
	Traces     int       `json:"traces"`
	Correct    *bool     `json:"correct,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
