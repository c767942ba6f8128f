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
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ancientHacker/netwalk.go/puzzle"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

/*

the generation journal

*/

// A Record is one line of the journal.  Generation records carry
// the generator's parameters, seed, and stats; solve records
// carry the outcome of a search.
type Record struct {
	Time     time.Time        `json:"time"`
	Kind     string           `json:"kind"` // "generate" or "solve"
	SID      string           `json:"sid,omitempty"`
	Params   *puzzle.Params   `json:"params,omitempty"`
	Seed     uint64           `json:"seed,omitempty"`
	Stats    *puzzle.Stats    `json:"stats,omitempty"`
	Solution *puzzle.Solution `json:"solution,omitempty"`
	Elapsed  time.Duration    `json:"elapsed,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// A Journal appends records as zstd-compressed JSON lines to
// files named by the hour they were written in.  A nil Journal
// discards everything, so callers needn't check whether one is
// configured.
type Journal struct {
	dir    string
	prefix string

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

// NewJournal returns a journal writing in dir, or nil if dir is
// empty.
func NewJournal(dir string) *Journal {
	if dir == "" {
		return nil
	}
	return &Journal{dir: dir, prefix: "netwalk"}
}

// Generated records a generation.  A nil generator means the
// parameters were rejected, which isn't worth recording.
func (j *Journal) Generated(sid string, gen *puzzle.Generator, err error) error {
	if j == nil || gen == nil {
		return nil
	}
	params, stats := gen.Params(), gen.Stats()
	r := Record{Kind: "generate", SID: sid, Params: &params, Seed: gen.SeedValue(), Stats: &stats}
	if err != nil {
		r.Error = err.Error()
	}
	return j.Write(r)
}

// Solved records a search.
func (j *Journal) Solved(sid string, sol puzzle.Solution, elapsed time.Duration, err error) error {
	if j == nil {
		return nil
	}
	r := Record{Kind: "solve", SID: sid, Solution: &sol, Elapsed: elapsed}
	if err != nil {
		r.Error = err.Error()
	}
	return j.Write(r)
}

// Write appends a record, stamping it with the current time if
// it has none.
func (j *Journal) Write(r Record) error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	if r.Time.IsZero() {
		r.Time = time.Now().UTC()
	}
	hour := r.Time.UTC().Format("2006-01-02-15")
	if hour != j.curHour {
		if err := j.rotateLocked(hour); err != nil {
			return err
		}
	}
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if _, err := j.w.Write(b); err != nil {
		return err
	}
	if err := j.w.WriteByte('\n'); err != nil {
		return err
	}
	return j.w.Flush()
}

// Close finishes the current file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.closeLocked()
}

// rotateLocked starts the file for hour.  Trouble finishing the
// old file is logged, not returned, so it can't stop the new one.
func (j *Journal) rotateLocked(hour string) error {
	if old := j.curHour; old != "" {
		if err := j.closeLocked(); err != nil {
			zap.S().Errorf("Journal file for hour %v not closed cleanly: %v", old, err)
		}
	}
	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(j.pathForHour(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	j.f = f
	j.enc = enc
	j.w = bufio.NewWriter(enc)
	j.curHour = hour
	return nil
}

func (j *Journal) closeLocked() error {
	var errs []error
	if j.w != nil {
		errs = append(errs, j.w.Flush())
	}
	if j.enc != nil {
		errs = append(errs, j.enc.Close())
		j.enc = nil
	}
	if j.f != nil {
		errs = append(errs, j.f.Close())
		j.f = nil
	}
	j.w = nil
	j.curHour = ""
	return errors.Join(errs...)
}

func (j *Journal) pathForHour(hour string) string {
	return filepath.Join(j.dir, fmt.Sprintf("%s-%s.jsonl.zst", j.prefix, hour))
}

// ReadJournal reads back the records in a closed journal file.
func ReadJournal(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	var records []Record
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var r Record
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			return records, fmt.Errorf("%s: %w", path, err)
		}
		records = append(records, r)
	}
	return records, sc.Err()
}
