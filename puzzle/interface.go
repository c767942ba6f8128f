// Copyright 2015-2016 Daniel C. Brotsky.  All rights reserved.

// Package puzzle provides a model for network wiring puzzles
// and the algorithms that make, check, and solve them.  It
// supports both a golang interface and a web interface to the
// puzzles.
//
// A puzzle is a rectangular grid of cells, each holding one
// piece.  Pieces are either pipes (Empty, Straight, Elbow, Tee
// and Cross) or computers (a Server and some Terminals).  Every
// piece can be rotated a quarter turn clockwise.  A cell is live
// when it is connected, through the pipes, to a server, and the
// puzzle is solved when every terminal is live.
//
// Cells are designated by indices that start at 0 and increase
// left-to-right, top-to-bottom (English reading order).
//
// Rotating a piece never updates the live flags of the grid:
// callers must Recompute after rotating and before asking
// whether cells are live or the puzzle is solved.  Grids are not
// safe for concurrent use; clone a grid to work on it
// elsewhere, as the solver does.
package puzzle

/*

Summaries and states

*/

// A Summary is the transmissible form of a grid: its size and
// the kind and rotation of each piece, in index order.  A
// missing Rotations slice means every rotation is 0.
type Summary struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Kinds     []Kind `json:"kinds"`
	Rotations []int  `json:"rotations,omitempty"`
}

// The State of a grid is its summary plus the live flag of each
// cell and whether the puzzle is solved.  It reflects the last
// Recompute.
type State struct {
	Summary
	Live   []bool `json:"live"`
	Solved bool   `json:"solved"`
}

// New makes a grid from a summary and computes its live cells.
func New(summary *Summary) (*Grid, error) {
	if summary == nil {
		return nil, Error{
			Scope:     ArgumentScope,
			Structure: ScopeStructure,
			Condition: InvalidArgumentCondition,
		}
	}
	g, err := NewGrid(summary.Width, summary.Height)
	if err != nil {
		return nil, err
	}
	if len(summary.Kinds) != g.Len() {
		return nil, Error{
			Scope:     GridScope,
			Structure: AttributeValueStructure,
			Attribute: GridSizeAttribute,
			Condition: WrongGridSizeCondition,
			Values:    ErrorData{len(summary.Kinds), g.Len()},
		}
	}
	if len(summary.Rotations) != 0 && len(summary.Rotations) != g.Len() {
		return nil, Error{
			Scope:     GridScope,
			Structure: AttributeValueStructure,
			Attribute: RotationAttribute,
			Condition: WrongGridSizeCondition,
			Values:    ErrorData{len(summary.Rotations), g.Len()},
		}
	}
	for i, kind := range summary.Kinds {
		rotation := 0
		if len(summary.Rotations) > 0 {
			rotation = summary.Rotations[i]
		}
		if err := g.Place(i, Piece{Kind: kind, Rotation: rotation}); err != nil {
			if e, ok := err.(Error); ok {
				e.Scope, e.Values = CellScope, append(ErrorData{i}, e.Values...)
				err = e
			}
			return nil, err
		}
	}
	g.Recompute()
	return g, nil
}

// Summary returns the grid's summary.  It doesn't share storage
// with the grid.
func (g *Grid) Summary() *Summary {
	s := &Summary{
		Width:     g.width,
		Height:    g.height,
		Kinds:     make([]Kind, len(g.cells)),
		Rotations: make([]int, len(g.cells)),
	}
	for i := range g.cells {
		s.Kinds[i] = g.cells[i].piece.Kind
		s.Rotations[i] = g.cells[i].piece.Rotation
	}
	return s
}

// State returns the grid's state as of the last Recompute.
func (g *Grid) State() *State {
	return &State{
		Summary: *g.Summary(),
		Live:    g.LiveCells(),
		Solved:  g.Solved(),
	}
}

// Computers returns the indices of the server and terminal
// cells.
func (g *Grid) Computers() []int {
	return g.Indices(isComputer)
}

// Pipes returns the indices of the pipe cells.
func (g *Grid) Pipes() []int {
	return g.Indices(isPipe)
}
