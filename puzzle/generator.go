// netwalk.go - a web-based network wiring puzzle game.
// Copyright (C) 2015-2016 Daniel C. Brotsky.
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, write to the Free Software Foundation, Inc.,
// 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.


package puzzle

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"
)

/*

Puzzle generation

Generation happens in three phases:

A. Seed: place the terminals and the server at random distinct
positions with random connector directions, and fill every
other cell with a Cross.  If that doesn't connect every
terminal (a computer facing the grid edge, say), throw the grid
away and start again.

B. Reduction: repeatedly pick a random pipe cell that isn't yet
fixed and try to demote it one step down the ladder (Cross to
Tee, Tee to Elbow or Straight, Elbow or Straight to Empty) in
every rotation.  The last trial that keeps the grid solved
wins.  If no trial does, restore the cell and fix it.  Each
demotion strictly lowers the cell's connector count, so this
ends.

C. Scramble: rotate each pipe cell a random number of times.

Computers are never rotated after phase A, so the solution the
reduction preserved is reachable by rotating pipes alone.

*/

// Default generation parameters.
const (
	DefaultWidth       = 4
	DefaultHeight      = 4
	DefaultTerminals   = 5
	DefaultMaxAttempts = 1000
	maxScrambleTurns   = 5
)

// MaxCells is the largest grid the generator will make.
// Reduction work grows with the square of the cell count.
const MaxCells = 400

// Params control the size and content of generated grids.
type Params struct {
	Width       int `json:"width,omitempty" yaml:"width"`
	Height      int `json:"height,omitempty" yaml:"height"`
	Terminals   int `json:"terminals,omitempty" yaml:"terminals"`
	MaxAttempts int `json:"-" yaml:"max_attempts"`
}

// WithDefaults fills in zero fields, the way settings files
// and request bodies leave them.
func (p Params) WithDefaults() Params {
	if p.Width == 0 {
		p.Width = DefaultWidth
	}
	if p.Height == 0 {
		p.Height = DefaultHeight
	}
	if p.Terminals == 0 {
		p.Terminals = DefaultTerminals
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	return p
}

// validate checks that the grid isn't too big and that the
// computers fit in it.
func (p Params) validate() error {
	if p.Width < 1 || p.Height < 1 {
		_, err := NewGrid(p.Width, p.Height)
		return err
	}
	if cells := p.Width * p.Height; p.Width > MaxCells || p.Height > MaxCells || cells > MaxCells {
		return Error{
			Scope:     ArgumentScope,
			Structure: AttributeValueStructure,
			Attribute: GridSizeAttribute,
			Condition: TooLargeCondition,
			Values:    ErrorData{fmt.Sprintf("%dx%d", p.Width, p.Height), fmt.Sprintf("%d cells", MaxCells)},
		}
	}
	if p.Terminals < 0 {
		return Error{
			Scope:     ArgumentScope,
			Structure: AttributeValueStructure,
			Attribute: TerminalsAttribute,
			Condition: TooSmallCondition,
			Values:    ErrorData{p.Terminals, 0},
		}
	}
	if max := p.Width*p.Height - 1; p.Terminals > max {
		return Error{
			Scope:     ArgumentScope,
			Structure: AttributeValueStructure,
			Attribute: TerminalsAttribute,
			Condition: TooLargeCondition,
			Values:    ErrorData{p.Terminals, max},
		}
	}
	return nil
}

// Stats describe the work done by a generator.
type Stats struct {
	Attempts  int `json:"attempts"`  // phase A seeds tried
	Trials    int `json:"trials"`    // phase B connectivity checks
	Demotions int `json:"demotions"` // phase B successful demotions
}

// A Generator makes puzzles.  Generators with the same seed and
// parameters make the same puzzles.  A Generator is not safe for
// concurrent use.
type Generator struct {
	params Params
	seed   uint64
	rng    *rand.Rand
	stats  Stats
}

// NewGenerator returns a generator for the given parameters,
// seeded with the given value.  The parameters are used as
// given, so zero sizes are errors and zero terminals make a grid
// that is already solved.  Only MaxAttempts defaults; use
// WithDefaults to fill in the rest.
func NewGenerator(params Params, seed uint64) (*Generator, error) {
	if params.MaxAttempts <= 0 {
		params.MaxAttempts = DefaultMaxAttempts
	}
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &Generator{
		params: params,
		seed:   seed,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}, nil
}

// Params returns the generator's parameters.
func (gen *Generator) Params() Params { return gen.params }

// SeedValue is the seed the generator was made with.
func (gen *Generator) SeedValue() uint64 { return gen.seed }

// Stats returns the work done since the generator was made.
func (gen *Generator) Stats() Stats { return gen.stats }

// NewPuzzle generates a scrambled puzzle of the given size with
// the given number of terminals and a single server, using a
// time-based seed.  The arguments are used as given: sizes below
// 1 are errors, and zero terminals make a grid with only the
// server on it.
func NewPuzzle(width, height, terminals int) (*Grid, error) {
	gen, err := NewGenerator(Params{Width: width, Height: height, Terminals: terminals},
		uint64(time.Now().UnixNano()))
	if err != nil {
		return nil, err
	}
	return gen.Generate()
}

// Generate runs all three phases and returns the scrambled grid.
func (gen *Generator) Generate() (*Grid, error) {
	g, err := gen.Solved()
	if err != nil {
		return nil, err
	}
	gen.Scramble(g)
	return g, nil
}

// Solved runs the seed and reduction phases and returns the
// resulting grid, which is solved.
func (gen *Generator) Solved() (*Grid, error) {
	g, err := gen.Seed()
	if err != nil {
		return nil, err
	}
	gen.Reduce(g)
	return g, nil
}

// Seed runs phase A, retrying until the Cross-filled grid is
// solved.  It gives up with a GenerationExhausted Error after
// the parameters' MaxAttempts.
func (gen *Generator) Seed() (*Grid, error) {
	for attempt := 1; attempt <= gen.params.MaxAttempts; attempt++ {
		gen.stats.Attempts++
		g := gen.seedOnce()
		g.Recompute()
		if g.Solved() {
			return g, nil
		}
		zap.S().Debugf("Seed attempt %d left terminals unconnected; retrying", attempt)
	}
	return nil, Error{
		Scope:     GeneratorScope,
		Structure: AttributeStructure,
		Attribute: AttemptsAttribute,
		Condition: GenerationExhaustedCondition,
		Values:    ErrorData{gen.params.MaxAttempts},
	}
}

// seedOnce places the computers and fills the rest with Crosses.
func (gen *Generator) seedOnce() *Grid {
	g, err := NewGrid(gen.params.Width, gen.params.Height)
	if err != nil {
		// can't happen: parameters were validated
		panic(err)
	}
	positions := gen.rng.Perm(g.Len())
	for i := range g.cells {
		g.cells[i].piece = Piece{Kind: Cross}
	}
	g.cells[positions[0]].piece = Piece{Kind: Server, Rotation: gen.rng.IntN(rotationStates)}
	for _, i := range positions[1 : gen.params.Terminals+1] {
		g.cells[i].piece = Piece{Kind: Terminal, Rotation: gen.rng.IntN(rotationStates)}
	}
	return g
}

// demotions is the ladder of strictly weaker kinds, tried in
// order.  Empty is the bottom of the ladder.
var demotions = map[Kind][]Kind{
	Cross:    {Tee},
	Tee:      {Elbow, Straight},
	Elbow:    {Empty},
	Straight: {Empty},
}

// Reduce runs phase B on a solved grid, leaving it solved with
// each pipe demoted as far as solvability allows.
func (gen *Generator) Reduce(g *Grid) {
	unfixed := mapset.New[int]()
	for _, i := range g.Indices(isPipe) {
		unfixed.Put(i)
	}
	for unfixed.Size() > 0 {
		// pick uniformly from the unfixed cells, in index order
		// so a seed always makes the same choices
		var candidates []int
		unfixed.Each(func(i int) { candidates = append(candidates, i) })
		sort.Ints(candidates)
		index := candidates[gen.rng.IntN(len(candidates))]
		if !gen.demote(g, index) {
			unfixed.Remove(index)
		}
	}
	g.Recompute()
}

// demote tries every rotation of every kind on the ladder step
// below the cell's current kind, keeping the last one that
// leaves the grid solved.  It returns whether the cell was
// demoted; if not, the cell is left as it was.
func (gen *Generator) demote(g *Grid, index int) bool {
	original := g.cells[index].piece
	var best Piece
	found := false
	for _, kind := range demotions[original.Kind] {
		for rotation := 0; rotation < rotationStates; rotation++ {
			trial := Piece{Kind: kind, Rotation: rotation}
			g.cells[index].piece = trial
			g.Recompute()
			gen.stats.Trials++
			if g.Solved() {
				best, found = trial, true
			}
		}
	}
	if !found {
		g.cells[index].piece = original
		return false
	}
	g.cells[index].piece = best
	gen.stats.Demotions++
	return true
}

// Scramble runs phase C: every pipe is turned between 0 and 5
// times.  Computers are left alone.  The result is usually, but
// not necessarily, unsolved.
func (gen *Generator) Scramble(g *Grid) {
	for _, i := range g.Indices(isPipe) {
		for turns := gen.rng.IntN(maxScrambleTurns + 1); turns > 0; turns-- {
			g.cells[i].piece = g.cells[i].piece.Rotated()
		}
	}
	g.Recompute()
}
