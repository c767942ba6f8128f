package puzzle

import (
	"context"
)

/*

Solver

The solver is a depth-first search over the rotations of the
pipe cells.  Each pipe cell is a decision variable whose domain
is the rotation counts (0 to 3) that give it distinct connector
sets: four for Elbows and Tees, two for Straights, and just the
one for Crosses and Empties.  For each cell in index order, the
solver tries each count in turn, recomputes connectivity, and
stops as soon as the grid is solved.  Otherwise it moves on to
the next cell.  When a cell's counts are exhausted it restores
the cell's original rotation and backs up.

The search runs on a clone, so the caller's grid is never
touched.  The worst case is exponential in the number of pipe
cells, so the search checks its context at every step and gives
up when the context is done.

*/

// A Rotation says how many times to rotate the cell at Index.
type Rotation struct {
	Index int `json:"index"`
	Count int `json:"count"`
}

// A Solution is the outcome of a search.  If Found is false,
// the grid has no solution reachable by rotating pipes.  Only
// cells that need turning appear in Rotations.  Tries is the
// number of connectivity checks made.
type Solution struct {
	Found     bool       `json:"found"`
	Rotations []Rotation `json:"rotations,omitempty"`
	Tries     int        `json:"tries"`
}

// A Solver searches for solutions.  If ProgressEvery is positive
// and OnProgress is set, OnProgress is called with the running
// try count every ProgressEvery tries.  OnProgress is called on
// the solving goroutine, so it should not block.
type Solver struct {
	ProgressEvery int
	OnProgress    func(tries int)
}

// Solve searches for a solution using a solver with no progress
// reporting.
func Solve(ctx context.Context, g *Grid) (Solution, error) {
	var s Solver
	return s.Solve(ctx, g)
}

// Solve searches a clone of the grid for rotations that solve
// it.  Not finding a solution is not an error.  If the context
// is done before the search is, Solve returns the context's
// error along with the tries made so far.
func (s *Solver) Solve(ctx context.Context, g *Grid) (Solution, error) {
	srch := &search{
		solver: s,
		ctx:    ctx,
		grid:   g.Clone(),
	}
	srch.grid.Recompute()
	if srch.grid.Solved() {
		return Solution{Found: true}, nil
	}
	for _, i := range g.Indices(isPipe) {
		srch.vars = append(srch.vars, variable{index: i, domain: distinctTurns(g.cells[i].piece)})
	}
	found, err := srch.try(0)
	sol := Solution{Found: found, Tries: srch.tries}
	if err != nil {
		return sol, err
	}
	if found {
		for _, v := range srch.vars {
			if v.turns != 0 {
				sol.Rotations = append(sol.Rotations, Rotation{Index: v.index, Count: v.turns})
			}
		}
	}
	return sol, nil
}

// A variable is a pipe cell, the rotation counts worth trying
// on it, and the count currently applied.
type variable struct {
	index  int
	domain []int
	turns  int
}

// search is the state of a single Solve call.
type search struct {
	solver *Solver
	ctx    context.Context
	grid   *Grid
	vars   []variable
	tries  int
}

// try assigns each candidate rotation to the variable at depth,
// recursing on the rest.  It returns true with the solving
// rotations applied, or false with the grid as it found it.
func (s *search) try(depth int) (bool, error) {
	if err := s.ctx.Err(); err != nil {
		return false, err
	}
	if depth == len(s.vars) {
		return false, nil
	}
	v := &s.vars[depth]
	c := &s.grid.cells[v.index]
	original := c.piece
	for _, turns := range v.domain {
		c.piece.Rotation = normalize(original.Rotation + turns)
		v.turns = turns
		s.grid.Recompute()
		s.tick()
		if s.grid.Solved() {
			return true, nil
		}
		if found, err := s.try(depth + 1); found || err != nil {
			return found, err
		}
	}
	c.piece = original
	v.turns = 0
	return false, nil
}

func (s *search) tick() {
	s.tries++
	if every := s.solver.ProgressEvery; every > 0 && s.solver.OnProgress != nil && s.tries%every == 0 {
		s.solver.OnProgress(s.tries)
	}
}

// distinctTurns returns the rotation counts, starting from 0,
// that give the piece connector sets it doesn't have at any
// smaller count.
func distinctTurns(p Piece) []int {
	var turns []int
	var seen []DirectionSet
next:
	for t := 0; t < rotationStates; t++ {
		cs := Piece{Kind: p.Kind, Rotation: normalize(p.Rotation + t)}.Connectors()
		for _, s := range seen {
			if s == cs {
				continue next
			}
		}
		seen = append(seen, cs)
		turns = append(turns, t)
	}
	return turns
}

// Apply rotates the grid as the given rotations say, then
// recomputes connectivity.  All the indices are checked before
// any rotation is done.
func (g *Grid) Apply(rotations []Rotation) error {
	for _, r := range rotations {
		if err := g.checkIndex(r.Index); err != nil {
			return err
		}
	}
	for _, r := range rotations {
		for n := normalize(r.Count); n > 0; n-- {
			g.cells[r.Index].piece = g.cells[r.Index].piece.Rotated()
		}
	}
	g.Recompute()
	return nil
}
