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
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ancientHacker/netwalk.go/puzzle"
	"github.com/google/uuid"
	"github.com/tidwall/buntdb"
	"go.uber.org/zap"
)

// A Session tracks a player's current puzzle.  Sessions live in
// memory only: nothing about a game survives a server restart.
type Session struct {
	SID      string           `json:"sid"`
	PuzzleID string           `json:"pid,omitempty"` // library id, if the puzzle came from there
	Seed     uint64           `json:"seed,omitempty"`
	Summary  *puzzle.Summary  `json:"summary,omitempty"`
	Solution *puzzle.Solution `json:"solution,omitempty"` // last solution found for the current layout
	Created  time.Time        `json:"created"`
	Saved    time.Time        `json:"saved"`

	// Grid is rebuilt from the summary when the session is loaded.
	Grid *puzzle.Grid `json:"-"`
}

// NewSID makes a new session id.
func NewSID() string {
	return uuid.NewString()
}

// Sessions is a store of sessions keyed by session id.  Sessions
// expire once they go unsaved for the store's TTL.
type Sessions struct {
	db  *buntdb.DB
	ttl time.Duration
}

// NewSessions opens an in-memory session store.
func NewSessions(ttl time.Duration) (*Sessions, error) {
	db, err := buntdb.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("couldn't open session store: %w", err)
	}
	return &Sessions{db: db, ttl: ttl}, nil
}

// Close releases the store.
func (s *Sessions) Close() error {
	return s.db.Close()
}

// key - returns the session key
func key(sid string) string {
	return "SID:" + sid
}

// Load returns the session with the given id, with its grid
// rebuilt, and whether it was found.
func (s *Sessions) Load(sid string) (session *Session, found bool, err error) {
	err = s.db.View(func(tx *buntdb.Tx) error {
		session, found, err = get(tx, sid)
		return err
	})
	return
}

// Update runs fn on the session with the given id inside a
// single exclusive transaction, then saves the session (with a
// fresh summary of its grid) unless fn returns an error.  If
// there is no such session, fn gets a new one with no grid.
// Updates of the same store never run concurrently, so fn
// should be quick.
func (s *Sessions) Update(sid string, fn func(*Session) error) (session *Session, err error) {
	err = s.db.Update(func(tx *buntdb.Tx) error {
		var found bool
		session, found, err = get(tx, sid)
		if err != nil {
			return err
		}
		if !found {
			now := time.Now()
			session = &Session{SID: sid, Created: now}
			zap.S().Infof("Created session %v.", sid)
		}
		if err := fn(session); err != nil {
			return err
		}
		return put(tx, session, s.ttl)
	})
	if err != nil {
		session = nil
	}
	return
}

// Delete removes a session, if it exists.
func (s *Sessions) Delete(sid string) error {
	return s.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(key(sid))
		if errors.Is(err, buntdb.ErrNotFound) {
			return nil
		}
		return err
	})
}

// Count is the number of live sessions.
func (s *Sessions) Count() (n int, err error) {
	err = s.db.View(func(tx *buntdb.Tx) error {
		n, err = tx.Len()
		return err
	})
	return
}

/*

serialization of sessions into and out of the store

*/

func get(tx *buntdb.Tx, sid string) (*Session, bool, error) {
	val, err := tx.Get(key(sid))
	if errors.Is(err, buntdb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var session *Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal session %q: %w", sid, err)
	}
	if session.Summary != nil {
		if session.Grid, err = puzzle.New(session.Summary); err != nil {
			return nil, false, fmt.Errorf("failed to rebuild grid of session %q: %w", sid, err)
		}
	}
	return session, true, nil
}

func put(tx *buntdb.Tx, session *Session, ttl time.Duration) error {
	if session.Grid != nil {
		session.Summary = session.Grid.Summary()
	}
	session.Saved = time.Now()
	bytes, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session %q: %w", session.SID, err)
	}
	_, _, err = tx.Set(key(session.SID), string(bytes), &buntdb.SetOptions{Expires: true, TTL: ttl})
	return err
}
