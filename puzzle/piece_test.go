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
	"encoding/json"
	"testing"
)

/*

Directions

*/

func TestDirectionOpposite(t *testing.T) {
	pairs := [][2]Direction{{Up, Down}, {Down, Up}, {Left, Right}, {Right, Left}}
	for _, p := range pairs {
		if o := p[0].Opposite(); o != p[1] {
			t.Errorf("%v.Opposite() = %v, expected %v", p[0], o, p[1])
		}
	}
}

func TestDirectionSet(t *testing.T) {
	s := NewDirectionSet(Left, Up, Left)
	if s.Count() != 2 {
		t.Errorf("%v has count %d, expected 2", s, s.Count())
	}
	if !s.Has(Up) || !s.Has(Left) || s.Has(Right) || s.Has(Down) {
		t.Errorf("%v has the wrong members", s)
	}
	ds := s.Directions()
	if len(ds) != 2 || ds[0] != Up || ds[1] != Left {
		t.Errorf("%v.Directions() = %v, expected [up left]", s, ds)
	}
}

func TestDirectionJSON(t *testing.T) {
	bytes, e := json.Marshal([]Direction{Up, Right, Down, Left})
	if e != nil {
		t.Fatalf("Marshal failed: %v", e)
	}
	if string(bytes) != `["up","right","down","left"]` {
		t.Errorf("Directions encoded as %s", bytes)
	}
	var ds []Direction
	if e := json.Unmarshal(bytes, &ds); e != nil {
		t.Fatalf("Unmarshal failed: %v", e)
	}
	if len(ds) != 4 || ds[3] != Left {
		t.Errorf("Directions decoded as %v", ds)
	}
	var d Direction
	if e := json.Unmarshal([]byte(`"sideways"`), &d); e == nil {
		t.Errorf("Decoded a bad direction as %v", d)
	}
}

/*

Kinds and the catalog

*/

func TestConnectorCardinality(t *testing.T) {
	counts := map[Kind]int{Empty: 0, Straight: 2, Elbow: 2, Tee: 3, Cross: 4, Server: 1, Terminal: 1}
	for kind, count := range counts {
		for r := -5; r < 9; r++ {
			s, e := Connectors(kind, r)
			if e != nil {
				t.Fatalf("Connectors(%v, %d) failed: %v", kind, r, e)
			}
			if s.Count() != count {
				t.Errorf("Connectors(%v, %d) = %v, expected %d connectors", kind, r, s, count)
			}
		}
	}
}

func TestConnectorShapes(t *testing.T) {
	for r := 0; r < rotationStates; r++ {
		s, _ := Connectors(Straight, r)
		if s.Has(Up) != s.Has(Down) || s.Has(Left) != s.Has(Right) {
			t.Errorf("Straight rotation %d connects %v, not opposite sides", r, s)
		}
		e, _ := Connectors(Elbow, r)
		if e.Has(Up) == e.Has(Down) || e.Has(Left) == e.Has(Right) {
			t.Errorf("Elbow rotation %d connects %v, not adjacent sides", r, e)
		}
	}
	distinct := map[Kind]int{Straight: 2, Elbow: 4, Tee: 4, Cross: 1, Empty: 1}
	for kind, expect := range distinct {
		if n := len(distinctTurns(Piece{Kind: kind})); n != expect {
			t.Errorf("%v has %d distinct rotation states, expected %d", kind, n, expect)
		}
	}
}

func TestConnectorDirectionCycle(t *testing.T) {
	expect := []Direction{Up, Right, Down, Left, Up, Right}
	for r, d := range expect {
		if cd := ConnectorDirection(r); cd != d {
			t.Errorf("ConnectorDirection(%d) = %v, expected %v", r, cd, d)
		}
	}
	if cd := ConnectorDirection(-1); cd != Left {
		t.Errorf("ConnectorDirection(-1) = %v, expected left", cd)
	}
}

func TestRotationCycleClosure(t *testing.T) {
	for kind := Empty; kind < numKinds; kind++ {
		for r := 0; r < rotationStates; r++ {
			p, e := NewPiece(kind, r)
			if e != nil {
				t.Fatalf("NewPiece(%v, %d) failed: %v", kind, r, e)
			}
			q := p
			for i := 0; i < 4; i++ {
				q = q.Rotated()
			}
			if q.Connectors() != p.Connectors() {
				t.Errorf("%v rotated 4 times is %v", p, q)
			}
		}
	}
}

func TestInvalidKind(t *testing.T) {
	for _, kind := range []Kind{-1, numKinds, 42} {
		_, e := Connectors(kind, 0)
		err, ok := e.(Error)
		if !ok {
			t.Fatalf("Connectors(%d) returned %v, expected an Error", kind, e)
		}
		if err.Condition != InvalidKindCondition {
			t.Errorf("Connectors(%d) returned condition %v, expected InvalidKind", kind, err.Condition)
		}
		if _, e := NewPiece(kind, 0); e == nil {
			t.Errorf("NewPiece(%d) succeeded", kind)
		}
	}
}

func TestKindJSON(t *testing.T) {
	p := Piece{Kind: Tee, Rotation: 2}
	bytes, e := json.Marshal(p)
	if e != nil {
		t.Fatalf("Marshal failed: %v", e)
	}
	if string(bytes) != `{"kind":"tee","rotation":2}` {
		t.Errorf("Piece encoded as %s", bytes)
	}
	var q Piece
	if e := json.Unmarshal(bytes, &q); e != nil || q != p {
		t.Errorf("Piece decoded as %+v (error %v)", q, e)
	}
	if e := json.Unmarshal([]byte(`{"kind":"valve"}`), &q); e == nil {
		t.Errorf("Decoded an unknown kind as %v", q.Kind)
	}
}

func TestPieceString(t *testing.T) {
	tests := []struct {
		piece  Piece
		expect string
	}{
		{Piece{Terminal, 3}, "terminal(left)"},
		{Piece{Server, 1}, "server(right)"},
		{Piece{Straight, 1}, "straight[up down]"},
		{Piece{Kind(99), 0}, "<kind 99>"},
	}
	for _, test := range tests {
		if s := test.piece.String(); s != test.expect {
			t.Errorf("String of %#v was %q, expected %q", test.piece, s, test.expect)
		}
	}
}
