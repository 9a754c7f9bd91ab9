// SPDX-License-Identifier: MIT

package graph

import (
	"errors"

	"github.com/katalvlaran/aedificium/walk"
)

// Sentinel errors for graph validation and construction.
var (
	// ErrRoomCount indicates len(Rooms) differs from the expected room count.
	ErrRoomCount = errors.New("graph: wrong room count")

	// ErrLabel indicates a room label outside [0, walk.LabelCount).
	ErrLabel = errors.New("graph: label out of range")

	// ErrStart indicates a starting room outside [0, len(Rooms)).
	ErrStart = errors.New("graph: starting room out of range")

	// ErrEndpoint indicates a connection endpoint naming an unknown room or door.
	ErrEndpoint = errors.New("graph: endpoint out of range")

	// ErrSlotCoverage indicates a door slot that is unpaired or paired twice.
	ErrSlotCoverage = errors.New("graph: door slot not covered exactly once")

	// ErrUnbalanced indicates destination tables that admit no perfect matching:
	// room a has a different number of doors into b than b has into a.
	ErrUnbalanced = errors.New("graph: unbalanced door counts between rooms")

	// ErrConstructFailed indicates Random exhausted its attempts.
	ErrConstructFailed = errors.New("graph: failed to construct a connected graph")
)

// Endpoint is one door slot.
type Endpoint struct {
	Room int `json:"room"`
	Door int `json:"door"`
}

// Connection pairs two door slots; From == To is a self-paired door.
type Connection struct {
	From Endpoint `json:"from"`
	To   Endpoint `json:"to"`
}

// Graph is a complete map: room labels, the starting room and the pairing.
type Graph struct {
	Rooms       []walk.Label `json:"rooms"`
	Start       int          `json:"startingRoom"`
	Connections []Connection `json:"connections"`
}

// Size returns the number of rooms.
func (g *Graph) Size() int { return len(g.Rooms) }

// LabelCounts returns how many rooms carry each label.
func (g *Graph) LabelCounts() [walk.LabelCount]int {
	var c [walk.LabelCount]int
	for _, l := range g.Rooms {
		if l.Valid() {
			c[l]++
		}
	}

	return c
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		Rooms:       make([]walk.Label, len(g.Rooms)),
		Start:       g.Start,
		Connections: make([]Connection, len(g.Connections)),
	}
	copy(c.Rooms, g.Rooms)
	copy(c.Connections, g.Connections)

	return c
}
