package puzzle

/*

Grid representation

*/

// A cell holds one piece, knows its own position, and carries
// the derived live flag.  Only the connectivity pass writes the
// live flag.
type cell struct {
	index int
	row   int
	col   int
	piece Piece
	live  bool
}

// A Grid is a width by height array of cells, indexed from 0 in
// reading order (left-to-right, top-to-bottom).  The grid owns
// its cells exclusively; use Clone to get an independent copy.
//
// Rotating or placing pieces does not update the live flags:
// callers must Recompute before reading them.
type Grid struct {
	width  int
	height int
	cells  []cell
	seen   []bool // connectivity scratch: one entry per (cell, arrival direction)
}

// NewGrid returns a grid of the given size filled with Empty
// pieces.
func NewGrid(width, height int) (*Grid, error) {
	if width < 1 {
		return nil, Error{
			Scope:     ArgumentScope,
			Structure: AttributeValueStructure,
			Attribute: WidthAttribute,
			Condition: TooSmallCondition,
			Values:    ErrorData{width, 1},
		}
	}
	if height < 1 {
		return nil, Error{
			Scope:     ArgumentScope,
			Structure: AttributeValueStructure,
			Attribute: HeightAttribute,
			Condition: TooSmallCondition,
			Values:    ErrorData{height, 1},
		}
	}
	g := &Grid{
		width:  width,
		height: height,
		cells:  make([]cell, width*height),
		seen:   make([]bool, width*height*int(numDirections)),
	}
	for i := range g.cells {
		g.cells[i] = cell{index: i, row: i / width, col: i % width}
	}
	return g, nil
}

// Width is the number of columns.
func (g *Grid) Width() int { return g.width }

// Height is the number of rows.
func (g *Grid) Height() int { return g.height }

// Len is the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// checkIndex returns an IndexOutOfBounds Error for indices
// outside the grid.
func (g *Grid) checkIndex(index int) error {
	if index < 0 || index >= len(g.cells) {
		return indexError(index, len(g.cells))
	}
	return nil
}

// Piece returns the piece in the cell at index.
func (g *Grid) Piece(index int) (Piece, error) {
	if err := g.checkIndex(index); err != nil {
		return Piece{}, err
	}
	return g.cells[index].piece, nil
}

// Place puts a piece in the cell at index, replacing whatever
// was there.
func (g *Grid) Place(index int, p Piece) error {
	if err := g.checkIndex(index); err != nil {
		return err
	}
	p, err := NewPiece(p.Kind, p.Rotation)
	if err != nil {
		return err
	}
	g.cells[index].piece = p
	return nil
}

// Rotate advances the piece at index to its next rotation state.
// It does not recompute connectivity.
func (g *Grid) Rotate(index int) error {
	if err := g.checkIndex(index); err != nil {
		return err
	}
	g.cells[index].piece = g.cells[index].piece.Rotated()
	return nil
}

// Live reports whether the cell at index was connected to a
// server as of the last Recompute.
func (g *Grid) Live(index int) (bool, error) {
	if err := g.checkIndex(index); err != nil {
		return false, err
	}
	return g.cells[index].live, nil
}

// LiveCells returns the live flags of all the cells, in index
// order.  The result doesn't share storage with the grid.
func (g *Grid) LiveCells() []bool {
	live := make([]bool, len(g.cells))
	for i := range g.cells {
		live[i] = g.cells[i].live
	}
	return live
}

// Indices returns the indices of the cells whose pieces satisfy
// the predicate, in index order.
func (g *Grid) Indices(match func(Piece) bool) []int {
	var is []int
	for i := range g.cells {
		if match(g.cells[i].piece) {
			is = append(is, i)
		}
	}
	return is
}

// isPipe and isComputer are predicates for Indices.
func isPipe(p Piece) bool     { return p.Kind.IsPipe() }
func isComputer(p Piece) bool { return p.Kind.IsComputer() }

// Clone returns a deep copy of the grid, live flags included.
func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	c := &Grid{
		width:  g.width,
		height: g.height,
		cells:  append([]cell(nil), g.cells...),
		seen:   make([]bool, len(g.seen)),
	}
	return c
}

/*

Neighbors

*/

// neighbor returns the index of the cell next to the given one
// in the given direction, and false at the edges of the grid.
// The index is assumed valid.
func (g *Grid) neighbor(index int, d Direction) (int, bool) {
	c := &g.cells[index]
	switch d {
	case Up:
		if c.row == 0 {
			return 0, false
		}
		return index - g.width, true
	case Down:
		if c.row == g.height-1 {
			return 0, false
		}
		return index + g.width, true
	case Left:
		if c.col == 0 {
			return 0, false
		}
		return index - 1, true
	case Right:
		if c.col == g.width-1 {
			return 0, false
		}
		return index + 1, true
	}
	return 0, false
}

// Neighbor returns the index of the cell next to the given one
// in the given direction.  The boolean is false if there is no
// such cell, either because the index is outside the grid or
// because the cell is on the grid edge in that direction.
func (g *Grid) Neighbor(index int, d Direction) (int, bool) {
	if g.checkIndex(index) != nil {
		return 0, false
	}
	return g.neighbor(index, d)
}

// Neighbors gives the indices of the cells adjacent to a cell.
// Directions off the edge of the grid are nil.
type Neighbors struct {
	Up    *int `json:"up"`
	Down  *int `json:"down"`
	Left  *int `json:"left"`
	Right *int `json:"right"`
}

// Neighbors returns the adjacent cells of the cell at index.
func (g *Grid) Neighbors(index int) (Neighbors, error) {
	var ns Neighbors
	if err := g.checkIndex(index); err != nil {
		return ns, err
	}
	lookup := func(d Direction) *int {
		if n, ok := g.neighbor(index, d); ok {
			return &n
		}
		return nil
	}
	ns.Up, ns.Down, ns.Left, ns.Right = lookup(Up), lookup(Down), lookup(Left), lookup(Right)
	return ns, nil
}
