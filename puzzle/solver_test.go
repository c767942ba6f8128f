package puzzle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// testContext bounds a search so a broken solver fails the test
// rather than hanging it.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestSolveSoundness(t *testing.T) {
	for seed := uint64(100); seed < 110; seed++ {
		gen, _ := NewGenerator(Params{}.WithDefaults(), seed)
		g, e := gen.Generate()
		if e != nil {
			t.Fatalf("Generate failed: %v", e)
		}
		before := g.String()
		sol, e := Solve(testContext(t), g)
		if e != nil {
			t.Fatalf("Seed %d: Solve failed: %v", seed, e)
		}
		if !sol.Found {
			t.Fatalf("Seed %d: no solution found for generated puzzle:\n%s", seed, g)
		}
		if g.String() != before {
			t.Errorf("Seed %d: Solve changed its input:\n%s\nwas\n%s", seed, g, before)
		}
		fresh := g.Clone()
		if e := fresh.Apply(sol.Rotations); e != nil {
			t.Fatalf("Seed %d: Apply failed: %v", seed, e)
		}
		if !fresh.Solved() {
			t.Errorf("Seed %d: applying %+v doesn't solve:\n%s", seed, sol.Rotations, fresh)
		}
		for _, r := range sol.Rotations {
			if r.Count < 1 || r.Count > 3 {
				t.Errorf("Seed %d: rotation %+v out of range", seed, r)
			}
		}
	}
}

func TestSolveAlreadySolved(t *testing.T) {
	g := mustParse(t, "S> s0 T<")
	sol, e := Solve(testContext(t), g)
	if e != nil {
		t.Fatalf("Solve failed: %v", e)
	}
	if diff := cmp.Diff(Solution{Found: true}, sol); diff != "" {
		t.Errorf("Solution mismatch (-want +got):\n%s", diff)
	}
}

func TestSolveOneStraight(t *testing.T) {
	g := mustParse(t, "S> s1 T<")
	sol, e := Solve(testContext(t), g)
	if e != nil {
		t.Fatalf("Solve failed: %v", e)
	}
	expect := Solution{Found: true, Rotations: []Rotation{{Index: 1, Count: 1}}, Tries: 2}
	if diff := cmp.Diff(expect, sol); diff != "" {
		t.Errorf("Solution mismatch (-want +got):\n%s", diff)
	}
}

func TestSolveNoSolution(t *testing.T) {
	tests := []string{
		"S> T^",
		"S> s0 e0 T<",
		"S< l0 T<",
	}
	for _, layout := range tests {
		g := mustParse(t, layout)
		sol, e := Solve(testContext(t), g)
		if e != nil {
			t.Errorf("%q: Solve failed: %v", layout, e)
		}
		if sol.Found {
			t.Errorf("%q: found solution %+v", layout, sol)
		}
		if len(sol.Rotations) != 0 {
			t.Errorf("%q: returned rotations %+v with no solution", layout, sol.Rotations)
		}
	}
}

func TestSolveCancel(t *testing.T) {
	gen, _ := NewGenerator(Params{}.WithDefaults(), 5)
	g, e := gen.Generate()
	if e != nil {
		t.Fatalf("Generate failed: %v", e)
	}
	g.Rotate(g.Computers()[0]) // almost surely unsolvable now
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, e = Solve(ctx, g)
	if !errors.Is(e, context.Canceled) && e != nil {
		t.Errorf("Cancelled Solve returned %v", e)
	}

	// cancel from inside the progress callback
	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()
	g = mustParse(t, "S> l0 l0 l0 l0 l0 l0 l0 T^")
	calls := 0
	s := Solver{ProgressEvery: 10, OnProgress: func(tries int) {
		calls++
		if tries >= 50 {
			cancel()
		}
	}}
	sol, e := s.Solve(ctx, g)
	if !errors.Is(e, context.Canceled) {
		t.Fatalf("Solve returned %v after cancel, expected context.Canceled", e)
	}
	if sol.Found || sol.Tries < 50 || sol.Tries > 51 {
		t.Errorf("Cancelled solve returned %+v", sol)
	}
	if calls != 5 {
		t.Errorf("Progress called %d times, expected 5", calls)
	}
}

func TestApplyErrors(t *testing.T) {
	g := mustParse(t, "S> s1 T<")
	e := g.Apply([]Rotation{{Index: 1, Count: 1}, {Index: 3, Count: 1}})
	if err, ok := e.(Error); !ok || err.Condition != IndexOutOfBoundsCondition {
		t.Errorf("Apply with bad index returned %v", e)
	}
	if g.Solved() {
		t.Errorf("Failed Apply rotated the grid:\n%s", g)
	}
}
