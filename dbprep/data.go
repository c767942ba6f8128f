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


package dbprep

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ancientHacker/netwalk.go/puzzle"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

/*

entries

*/

type dataFunction func(context.Context, pgx.Tx) error

var (
	upFunctions = []dataFunction{
		insertSamples,
	}
	downFunctions = []dataFunction{
		deleteSamples,
	}
)

// DataUp: load the sample data into the database.  You should do
// this after you get the schema up!
func DataUp(url string) error {
	return applyFunctions(url, upFunctions)
}

// DataDown: remove the sample data from the database.  You
// should do this before you tear the schema down!
func DataDown(url string) error {
	return applyFunctions(url, downFunctions)
}

// apply dataFunctions to the database.  Each is applied in a
// separate transaction, so later ones can rely on the effect of
// earlier ones having been committed.
func applyFunctions(url string, fns []dataFunction) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	runFunc := func(fn dataFunction) error {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return err
		}
		// a no-op after Commit
		defer tx.Rollback(ctx)
		if err := fn(ctx, tx); err != nil {
			return err
		}
		return tx.Commit(ctx)
	}

	for i, fn := range fns {
		if err := runFunc(fn); err != nil {
			return fmt.Errorf("data function %d failed: %v", i, err)
		}
	}
	return nil
}

/*

sample puzzles

*/

// A Sample is a library puzzle that gets installed with the
// schema.  Its layout comes from generating with a fixed seed,
// so every installation gets the same samples.
type Sample struct {
	Name   string
	Seed   uint64
	Params puzzle.Params
}

var SamplePuzzles = []Sample{
	{"starter", 1, puzzle.Params{Width: 3, Height: 3, Terminals: 3}},
	{"classic", 2015, puzzle.Params{}},
	{"wide", 7, puzzle.Params{Width: 7, Height: 3, Terminals: 6}},
	{"tall", 11, puzzle.Params{Width: 3, Height: 7, Terminals: 6}},
	{"office", 1600, puzzle.Params{Width: 6, Height: 6, Terminals: 12}},
}

// PuzzleID is the library id of the sample, which is stable
// across installations.
func (s Sample) PuzzleID() string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("netwalk:sample:"+s.Name)).String()
}

// Grid generates the sample's scrambled layout.
func (s Sample) Grid() (*puzzle.Grid, error) {
	gen, err := puzzle.NewGenerator(s.Params.WithDefaults(), s.Seed)
	if err != nil {
		return nil, err
	}
	return gen.Generate()
}

func insertSamples(ctx context.Context, tx pgx.Tx) error {
	created := time.Now().UTC().Truncate(time.Microsecond)
	for _, s := range SamplePuzzles {
		g, err := s.Grid()
		if err != nil {
			return fmt.Errorf("sample %q: %v", s.Name, err)
		}
		summary, err := json.Marshal(g.Summary())
		if err != nil {
			return fmt.Errorf("sample %q: %v", s.Name, err)
		}
		_, err = tx.Exec(ctx,
			"INSERT INTO puzzles (puzzleId, name, seed, summary, created) "+
				"VALUES ($1, $2, $3, $4, $5) ON CONFLICT (name) DO NOTHING",
			s.PuzzleID(), s.Name, int64(s.Seed), summary, created)
		if err != nil {
			return fmt.Errorf("sample %q: %v", s.Name, err)
		}
	}
	return nil
}

func deleteSamples(ctx context.Context, tx pgx.Tx) error {
	for _, s := range SamplePuzzles {
		if _, err := tx.Exec(ctx, "DELETE FROM puzzles WHERE puzzleId = $1", s.PuzzleID()); err != nil {
			return fmt.Errorf("sample %q: %v", s.Name, err)
		}
	}
	return nil
}
