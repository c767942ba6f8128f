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
	"strings"
)

/*

Print forms of pieces and grids, for debugging.

*/

// pieceCodes are single letters for each kind; computers are
// followed by an arrow giving their connector direction, pipes
// by their rotation.
var (
	pieceCodes = [...]string{
		Empty:    "e",
		Straight: "s",
		Elbow:    "l",
		Tee:      "t",
		Cross:    "x",
		Server:   "S",
		Terminal: "T",
	}
	arrowCodes = [...]string{Up: "^", Right: ">", Down: "v", Left: "<"}
	badCode    = "?"
)

func pcode(p Piece) string {
	if p.Kind < 0 || int(p.Kind) >= len(pieceCodes) {
		return badCode + badCode
	}
	if p.Kind.IsComputer() {
		return pieceCodes[p.Kind] + arrowCodes[ConnectorDirection(p.Rotation)]
	}
	return fmt.Sprintf("%s%d", pieceCodes[p.Kind], normalize(p.Rotation))
}

// String gives a compact view of a grid, one row per line.  Live
// cells are marked with a star.  For example, a solved 1x3 grid
// with a server, a horizontal straight and a terminal is
//
//	S>* s0* T<*
func (g *Grid) String() string {
	if g == nil {
		return "<nil grid>"
	}
	var b strings.Builder
	for i := range g.cells {
		c := &g.cells[i]
		if c.col > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(pcode(c.piece))
		if c.live {
			b.WriteByte('*')
		} else {
			b.WriteByte(' ')
		}
		if c.col == g.width-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Parse makes a grid from the compact form produced by String,
// ignoring any live marks, and computes its live cells.  Rows
// are separated by newlines or slashes, and cells by spaces.
func Parse(text string) (*Grid, error) {
	rows := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '/' })
	var summary Summary
	for _, row := range rows {
		codes := strings.Fields(row)
		if len(codes) == 0 {
			continue
		}
		if summary.Width == 0 {
			summary.Width = len(codes)
		} else if len(codes) != summary.Width {
			return nil, Error{
				Scope:     ArgumentScope,
				Structure: AttributeValueStructure,
				Attribute: WidthAttribute,
				Condition: WrongGridSizeCondition,
				Values:    ErrorData{len(codes), summary.Width},
			}
		}
		summary.Height++
		for _, code := range codes {
			p, ok := parseCode(strings.TrimSuffix(code, "*"))
			if !ok {
				return nil, Error{
					Scope:     ArgumentScope,
					Structure: AttributeValueStructure,
					Attribute: KindAttribute,
					Condition: InvalidKindCondition,
					Values:    ErrorData{code},
				}
			}
			summary.Kinds = append(summary.Kinds, p.Kind)
			summary.Rotations = append(summary.Rotations, p.Rotation)
		}
	}
	return New(&summary)
}

func parseCode(code string) (Piece, bool) {
	if len(code) != 2 {
		return Piece{}, false
	}
	for k, pc := range pieceCodes {
		if pc[0] != code[0] {
			continue
		}
		kind := Kind(k)
		if kind.IsComputer() {
			for d, ac := range arrowCodes {
				if ac[0] == code[1] {
					return Piece{Kind: kind, Rotation: d}, true
				}
			}
			return Piece{}, false
		}
		if code[1] < '0' || code[1] > '3' {
			return Piece{}, false
		}
		return Piece{Kind: kind, Rotation: int(code[1] - '0')}, true
	}
	return Piece{}, false
}
