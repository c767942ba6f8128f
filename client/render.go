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


package client

import (
	"fmt"
	"strings"

	"github.com/ancientHacker/netwalk.go/puzzle"
)

/*

glyphs

*/

// pipe glyphs are indexed by connector set; live pipes are drawn
// with heavy lines.
var (
	lightPipes = [16]rune{
		' ', '╵', '╶', '└', '╷', '│', '┌', '├',
		'╴', '┘', '─', '┴', '┐', '┤', '┬', '┼',
	}
	heavyPipes = [16]rune{
		' ', '╹', '╺', '┗', '╻', '┃', '┏', '┣',
		'╸', '┛', '━', '┻', '┓', '┫', '┳', '╋',
	}
	serverGlyphs   = [4]rune{'⇧', '⇨', '⇩', '⇦'}
	terminalGlyphs = [4]rune{'▲', '▶', '▼', '◀'}
	deadTerminals  = [4]rune{'△', '▷', '▽', '◁'}
)

// Glyph is the single-character picture of a piece.
func Glyph(p puzzle.Piece, live bool) rune {
	switch p.Kind {
	case puzzle.Server:
		return serverGlyphs[puzzle.ConnectorDirection(p.Rotation)]
	case puzzle.Terminal:
		if live {
			return terminalGlyphs[puzzle.ConnectorDirection(p.Rotation)]
		}
		return deadTerminals[puzzle.ConnectorDirection(p.Rotation)]
	}
	c, err := puzzle.Connectors(p.Kind, p.Rotation)
	if err != nil {
		return '?'
	}
	if live {
		return heavyPipes[c]
	}
	return lightPipes[c]
}

/*

text rendering

*/

// Text draws a grid state as rows of glyphs inside a frame, with
// column numbers above and the row's first index to the left,
// followed by a status line.
func Text(state *puzzle.State) string {
	var b strings.Builder
	w, h := state.Width, state.Height
	b.WriteString("     ")
	for col := 0; col < w; col++ {
		fmt.Fprintf(&b, "%d", col%10)
	}
	b.WriteString("\n    ┌" + strings.Repeat("─", w) + "┐\n")
	for row := 0; row < h; row++ {
		fmt.Fprintf(&b, "%3d │", row*w)
		for col := 0; col < w; col++ {
			b.WriteRune(Glyph(cellPiece(state, row*w+col), state.Live[row*w+col]))
		}
		b.WriteString("│\n")
	}
	b.WriteString("    └" + strings.Repeat("─", w) + "┘\n")
	b.WriteString(Status(state) + "\n")
	return b.String()
}

// Status is the one-line summary of a state: the win message
// once every terminal is connected, otherwise a count.
func Status(state *puzzle.State) string {
	if state.Solved {
		return "All terminals are connected.  Congratulations!"
	}
	live, total := 0, 0
	for i, k := range state.Kinds {
		if k == puzzle.Terminal {
			total++
			if state.Live[i] {
				live++
			}
		}
	}
	return fmt.Sprintf("%d of %d terminals connected.", live, total)
}

func cellPiece(state *puzzle.State, index int) puzzle.Piece {
	p := puzzle.Piece{Kind: state.Kinds[index]}
	if len(state.Rotations) > 0 {
		p.Rotation = state.Rotations[index]
	}
	return p
}
