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

/*

Connectivity

Live cells are found by flood fill from every server.  Flow
leaves a server through its single connector and enters the
neighbor on that side.  A pipe entered from a side it has a
connector on becomes live and passes the flow out of all its
other connectors; a pipe entered from any other side is a dead
end.  A terminal becomes live only when the flow arrives on the
side its connector faces.  Servers never pass flow along.

Grids can contain loops, so each cell is visited at most once
per arrival direction.

*/

// Recompute updates the live flag of every cell.  Servers are
// always live; every other cell is live exactly when flow from
// some server reaches it.
func (g *Grid) Recompute() {
	for i := range g.cells {
		g.cells[i].live = g.cells[i].piece.Kind == Server
	}
	for i := range g.seen {
		g.seen[i] = false
	}
	for i := range g.cells {
		if g.cells[i].piece.Kind != Server {
			continue
		}
		d := ConnectorDirection(g.cells[i].piece.Rotation)
		if n, ok := g.neighbor(i, d); ok {
			g.visit(n, d.Opposite())
		}
	}
}

// visit propagates flow into the cell at index, arriving on the
// from side of the cell.
func (g *Grid) visit(index int, from Direction) {
	key := index*int(numDirections) + int(from)
	if g.seen[key] {
		return
	}
	g.seen[key] = true

	c := &g.cells[index]
	switch c.piece.Kind {
	case Server:
		return
	case Terminal:
		if ConnectorDirection(c.piece.Rotation) == from {
			c.live = true
		}
		return
	}
	connectors := c.piece.Connectors()
	if !connectors.Has(from) {
		return
	}
	c.live = true
	for d := Up; d < numDirections; d++ {
		if d == from || !connectors.Has(d) {
			continue
		}
		if n, ok := g.neighbor(index, d); ok {
			g.visit(n, d.Opposite())
		}
	}
}

// Solved reports whether every terminal was live as of the last
// Recompute.  A grid with no terminals is trivially solved.
func (g *Grid) Solved() bool {
	for i := range g.cells {
		if g.cells[i].piece.Kind == Terminal && !g.cells[i].live {
			return false
		}
	}
	return true
}
