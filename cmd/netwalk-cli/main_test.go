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


package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ancientHacker/netwalk.go/client"
	"github.com/ancientHacker/netwalk.go/config"
	"github.com/ancientHacker/netwalk.go/puzzle"
)

// run feeds input to a fresh session and returns its output.
func run(t *testing.T, input string) string {
	t.Helper()
	out := new(bytes.Buffer)
	s := newSession(config.Defaults(), out)
	if err := s.listener(context.Background(), strings.NewReader(input)); err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	return out.String()
}

func layout(t *testing.T, text string) *puzzle.Grid {
	t.Helper()
	g, err := puzzle.Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", text, err)
	}
	return g
}

func TestNullInput(t *testing.T) {
	if result := run(t, ""); result != "" {
		t.Errorf("Got %q for no input", result)
	}
}

func TestQuit(t *testing.T) {
	if result := run(t, "glyphs\nquit\nglyphs\n"); result != "Glyphs are on\n" {
		t.Errorf("Got %q, expected output to stop at quit", result)
	}
}

func TestGlyphs(t *testing.T) {
	expected := "Glyphs are on\nGlyphs are off\nGlyphs are on\n"
	if result := run(t, "glyphs\nglyphs off\n\nGLYPHS On\n"); result != expected {
		t.Errorf("Got %q, expected %q", result, expected)
	}
}

func TestNoPuzzle(t *testing.T) {
	expected := strings.Repeat("No puzzle yet: use new, seed, load, or library.\n", 3)
	if result := run(t, "state\nsolve\napply\n"); result != expected {
		t.Errorf("Got %q, expected %q", result, expected)
	}
}

func TestLoadAndRotate(t *testing.T) {
	before, after := layout(t, "S> s1 T<"), layout(t, "S> s0 T<")
	expected := "Glyphs are off\n" +
		before.String() + "0 of 1 terminals connected.\n" +
		after.String() + "All terminals are connected.  Congratulations!\n"
	if result := run(t, "glyphs off\nload S> s1 T<\nrotate 1\n"); result != expected {
		t.Errorf("Got %q, expected %q", result, expected)
	}
}

func TestSolveAndApply(t *testing.T) {
	result := run(t, "load S> s1 T<\napply\nsolve\napply\napply\n")
	solved := client.Text(layout(t, "S> s0 T<").State())
	parts := []string{
		client.Text(layout(t, "S> s1 T<").State()),
		"No solution to apply: solve first.\n",
		"by 1 rotations: 1×1\n",
		solved,
		"No solution to apply: solve first.\n",
	}
	rest := result
	for _, part := range parts {
		i := strings.Index(rest, part)
		if i < 0 {
			t.Fatalf("Output lacks %q in order:\n%s", part, result)
		}
		rest = rest[i+len(part):]
	}
}

func TestNoSolution(t *testing.T) {
	result := run(t, "load S> e0 T<\nsolve\n")
	if !strings.HasSuffix(result, "No solution after 1 tries.\n") {
		t.Errorf("Got %q", result)
	}
}

func TestNeighbors(t *testing.T) {
	result := run(t, "load S> s1 T</e0 e0 e0\nneighbors 1\nneighbors 5\nneighbors 6\nneighbors x\n")
	for _, want := range []string{
		"up: -, right: 2, down: 4, left: 0\n",
		"up: 2, right: -, down: -, left: 4\n",
		"Neighbors failed: ",
		"Error: neighbors index (x) is not a number\n",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("Output lacks %q:\n%s", want, result)
		}
	}
}

func TestSeedIsReproducible(t *testing.T) {
	first := run(t, "seed 7\n")
	if !strings.HasPrefix(first, "Puzzle 7:\n") {
		t.Fatalf("Got %q", first)
	}
	if second := run(t, "new\nseed 7\n"); !strings.HasSuffix(second, first) {
		t.Errorf("Seed 7 gave\n%s\nthen\n%s", first, second)
	}
}

func TestNewErrors(t *testing.T) {
	result := run(t, "new 3 3\nnew a 3 1\nnew 2 2 9\n")
	for _, want := range []string{
		"Error: new takes no arguments or three\n",
		"Error: new argument (a) is not a number\n",
		"Can't generate: ",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("Output lacks %q:\n%s", want, result)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	result := run(t, "frob\n")
	if !strings.HasPrefix(result, "Error: \"frob\" is not a known command\nUsage:\n") {
		t.Errorf("Got %q", result)
	}
	if !strings.Contains(result, "neighbors") {
		t.Errorf("Usage doesn't list commands: %q", result)
	}
}

func TestNoLibrary(t *testing.T) {
	expected := "There is no puzzle library: set DATABASE_URL.\n"
	if result := run(t, "library\n"); result != expected {
		t.Errorf("Got %q, expected %q", result, expected)
	}
}

func TestListenerStopsOnCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	s := newSession(config.Defaults(), io.Discard)
	go func() { done <- s.listener(ctx, r) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Listener returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Listener didn't stop")
	}
}
