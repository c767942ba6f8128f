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


package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ancientHacker/netwalk.go/puzzle"
	"github.com/gomodule/redigo/redis"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

/*

library puzzles

*/

// An Entry is the stored form of a library puzzle: its starting
// (scrambled) layout plus the seed it was generated from.  It is
// JSON serializable so it can go into the cache as well as the
// database.  Player progress is never stored.
type Entry struct {
	PuzzleID string          `json:"id"`
	Name     string          `json:"name"`
	Seed     uint64          `json:"seed"`
	Summary  *puzzle.Summary `json:"summary"`
	Created  time.Time       `json:"created"`
}

// ErrNoSuchPuzzle is returned for lookups of unknown puzzles.
var ErrNoSuchPuzzle = errors.New("no such library puzzle")

// NewEntry makes a library entry for a grid, with a fresh id.
func NewEntry(name string, seed uint64, g *puzzle.Grid) *Entry {
	return &Entry{
		PuzzleID: uuid.NewString(),
		Name:     name,
		Seed:     seed,
		Summary:  g.Summary(),
		Created:  time.Now().UTC().Truncate(time.Microsecond),
	}
}

// Grid makes the puzzle described by the entry.
func (pe *Entry) Grid() (*puzzle.Grid, error) {
	g, err := puzzle.New(pe.Summary)
	if err != nil {
		return nil, fmt.Errorf("library puzzle %q: %w", pe.PuzzleID, err)
	}
	return g, nil
}

// LookupPuzzle first checks the cache, then the database, to
// find a library puzzle.  If it loads from the database, it
// caches the result.
func LookupPuzzle(ctx context.Context, id string) (pe *Entry, err error) {
	defer catch(&err)
	pe = &Entry{PuzzleID: id}
	if pe.cacheLoad() {
		return pe, nil
	}
	// cache miss, load from database and save to cache
	if !pe.databaseLoad(ctx) {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchPuzzle, id)
	}
	pe.cacheInsert()
	return pe, nil
}

// ListPuzzles returns all the library puzzles, by name.
func ListPuzzles(ctx context.Context) (entries []*Entry, err error) {
	defer catch(&err)
	body := func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			"SELECT puzzleId, name, seed, summary, created FROM puzzles ORDER BY name")
		if err != nil {
			return fmt.Errorf("failure listing puzzles: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			pe := &Entry{}
			if err := pe.scan(rows); err != nil {
				return err
			}
			entries = append(entries, pe)
		}
		return rows.Err()
	}
	pgExecute(ctx, body)
	return entries, nil
}

// InsertPuzzle saves a new library puzzle in the database and
// the cache.  It fails if there is already a puzzle with the
// same id or name.
func InsertPuzzle(ctx context.Context, pe *Entry) (err error) {
	defer catch(&err)
	pe.databaseInsert(ctx)
	pe.cacheInsert()
	return nil
}

// key: compute the cache key for an Entry.
func (pe *Entry) key() string {
	return "PID:" + pe.PuzzleID
}

// cacheLoad: load an already cached puzzle entry.  Returns
// whether the entry was found in the cache.
func (pe *Entry) cacheLoad() bool {
	var bytes []byte
	body := func(tx redis.Conn) (err error) {
		bytes, err = redis.Bytes(tx.Do("GET", pe.key()))
		if err == redis.ErrNil {
			return nil
		}
		if err != nil {
			err = fmt.Errorf("cache failure loading puzzle %q: %w", pe.PuzzleID, err)
		}
		return
	}
	if !rdExecute(body) || len(bytes) == 0 {
		return false
	}
	var spe *Entry
	if err := json.Unmarshal(bytes, &spe); err != nil {
		panic(fmt.Errorf("failed to unmarshal cached puzzle %q: %w", pe.PuzzleID, err))
	}
	if spe.PuzzleID != pe.PuzzleID {
		panic(fmt.Errorf("cached entry (id: %q) found for puzzle %q", spe.PuzzleID, pe.PuzzleID))
	}
	*pe = *spe
	return true
}

// cacheInsert: insert a puzzle entry into the cache. Replaces
// any existing entry with the same id.
func (pe *Entry) cacheInsert() {
	bytes, e := json.Marshal(pe)
	if e != nil {
		panic(fmt.Errorf("failed to marshal puzzle %q: %w", pe.PuzzleID, e))
	}
	body := func(tx redis.Conn) (err error) {
		_, err = tx.Do("SET", pe.key(), bytes)
		if err != nil {
			err = fmt.Errorf("cache failure saving puzzle %q: %w", pe.PuzzleID, err)
		}
		return
	}
	rdExecute(body)
}

// scanner is the part of pgx.Row that scan needs.
type scanner interface {
	Scan(dest ...any) error
}

// scan: fill the entry from a row of the puzzles table.
func (pe *Entry) scan(row scanner) error {
	var seed int64
	var summary []byte
	if err := row.Scan(&pe.PuzzleID, &pe.Name, &seed, &summary, &pe.Created); err != nil {
		return err
	}
	pe.Seed = uint64(seed)
	if err := json.Unmarshal(summary, &pe.Summary); err != nil {
		return fmt.Errorf("stored summary of puzzle %q: %w", pe.PuzzleID, err)
	}
	return nil
}

// databaseLoad: load a puzzle entry from the database.  Returns
// whether there was one.
func (pe *Entry) databaseLoad(ctx context.Context) (found bool) {
	body := func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			"SELECT puzzleId, name, seed, summary, created FROM puzzles "+
				"WHERE puzzleId = $1 OR name = $1", pe.PuzzleID)
		err := pe.scan(row)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failure looking up puzzle %q: %w", pe.PuzzleID, err)
		}
		found = true
		return nil
	}
	pgExecute(ctx, body)
	return
}

// databaseInsert: insert a new puzzle entry into the database.
func (pe *Entry) databaseInsert(ctx context.Context) {
	summary, err := json.Marshal(pe.Summary)
	if err != nil {
		panic(fmt.Errorf("failed to marshal summary of puzzle %q: %w", pe.PuzzleID, err))
	}
	body := func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			"INSERT INTO puzzles (puzzleId, name, seed, summary, created) "+
				"VALUES ($1, $2, $3, $4, $5)",
			pe.PuzzleID, pe.Name, int64(pe.Seed), summary, pe.Created)
		if err != nil {
			return fmt.Errorf("database error saving puzzle %q: %w", pe.PuzzleID, err)
		}
		return nil
	}
	pgExecute(ctx, body)
}
