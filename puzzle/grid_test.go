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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func intp(i int) *int { return &i }

func TestNewGridErrors(t *testing.T) {
	tests := []struct {
		width, height int
		attribute     ErrorAttribute
	}{
		{0, 4, WidthAttribute},
		{4, 0, HeightAttribute},
		{-1, -1, WidthAttribute},
	}
	for _, test := range tests {
		g, e := NewGrid(test.width, test.height)
		if e == nil {
			t.Errorf("NewGrid(%d, %d) succeeded: %v", test.width, test.height, g)
			continue
		}
		err, ok := e.(Error)
		if !ok || err.Attribute != test.attribute || err.Condition != TooSmallCondition {
			t.Errorf("NewGrid(%d, %d) returned %#v", test.width, test.height, e)
		}
	}
}

func TestNeighbors(t *testing.T) {
	g, e := NewGrid(3, 2)
	if e != nil {
		t.Fatalf("NewGrid failed: %v", e)
	}
	tests := []struct {
		index  int
		expect Neighbors
	}{
		{0, Neighbors{Up: nil, Down: intp(3), Left: nil, Right: intp(1)}},
		{1, Neighbors{Up: nil, Down: intp(4), Left: intp(0), Right: intp(2)}},
		{2, Neighbors{Up: nil, Down: intp(5), Left: intp(1), Right: nil}},
		{3, Neighbors{Up: intp(0), Down: nil, Left: nil, Right: intp(4)}},
		{5, Neighbors{Up: intp(2), Down: nil, Left: intp(4), Right: nil}},
	}
	for _, test := range tests {
		ns, e := g.Neighbors(test.index)
		if e != nil {
			t.Fatalf("Neighbors(%d) failed: %v", test.index, e)
		}
		if diff := cmp.Diff(test.expect, ns); diff != "" {
			t.Errorf("Neighbors(%d) mismatch (-want +got):\n%s", test.index, diff)
		}
	}
	for _, d := range []Direction{Up, Right, Down, Left} {
		if n, ok := g.Neighbor(6, d); ok {
			t.Errorf("Neighbor(6, %v) = %d for a 6-cell grid", d, n)
		}
	}
}

func TestIndexOutOfBounds(t *testing.T) {
	g, _ := NewGrid(2, 2)
	checks := map[string]func(int) error{
		"Piece":     func(i int) error { _, e := g.Piece(i); return e },
		"Place":     func(i int) error { return g.Place(i, Piece{Kind: Cross}) },
		"Rotate":    func(i int) error { return g.Rotate(i) },
		"Live":      func(i int) error { _, e := g.Live(i); return e },
		"Neighbors": func(i int) error { _, e := g.Neighbors(i); return e },
	}
	for name, check := range checks {
		for _, i := range []int{-1, 4, 100} {
			e := check(i)
			err, ok := e.(Error)
			if !ok || err.Condition != IndexOutOfBoundsCondition {
				t.Errorf("%s(%d) returned %v, expected IndexOutOfBounds", name, i, e)
			}
		}
		if e := check(3); e != nil {
			t.Errorf("%s(3) failed: %v", name, e)
		}
	}
}

func TestPlaceAndRotate(t *testing.T) {
	g, _ := NewGrid(2, 1)
	if e := g.Place(1, Piece{Kind: Elbow, Rotation: 7}); e != nil {
		t.Fatalf("Place failed: %v", e)
	}
	if p, _ := g.Piece(1); p != (Piece{Elbow, 3}) {
		t.Errorf("Placed piece is %#v, expected a normalized elbow", p)
	}
	if e := g.Place(0, Piece{Kind: Kind(12)}); e == nil {
		t.Errorf("Placed a piece of unknown kind")
	}
	if e := g.Rotate(1); e != nil {
		t.Fatalf("Rotate failed: %v", e)
	}
	if p, _ := g.Piece(1); p.Rotation != 0 {
		t.Errorf("Rotated elbow has rotation %d, expected 0", p.Rotation)
	}
}

func TestClone(t *testing.T) {
	g, e := Parse("S> s0 T<")
	if e != nil {
		t.Fatalf("Parse failed: %v", e)
	}
	c := g.Clone()
	if c.String() != g.String() {
		t.Errorf("Clone is %q, original is %q", c, g)
	}
	c.Rotate(1)
	c.Recompute()
	if !g.Solved() {
		t.Errorf("Rotating the clone changed the original: %q", g)
	}
	if c.Solved() {
		t.Errorf("Rotated clone is still solved: %q", c)
	}
	var nilGrid *Grid
	if nilGrid.Clone() != nil {
		t.Errorf("Clone of nil grid is not nil")
	}
}

func TestStringAndParse(t *testing.T) {
	g, e := Parse("S> s0 T<")
	if e != nil {
		t.Fatalf("Parse failed: %v", e)
	}
	if s := g.String(); s != "S>* s0* T<*\n" {
		t.Errorf("String is %q", s)
	}
	h, e := Parse(g.String())
	if e != nil {
		t.Fatalf("Parse of String form failed: %v", e)
	}
	if diff := cmp.Diff(g.State(), h.State()); diff != "" {
		t.Errorf("Reparsed grid mismatch (-want +got):\n%s", diff)
	}
	bad := []string{"S> s0 / T<", "S> q1", "S> s7", "Sx"}
	for _, text := range bad {
		if _, e := Parse(text); e == nil {
			t.Errorf("Parse(%q) succeeded", text)
		}
	}
}
