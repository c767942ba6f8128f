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


// Package storage keeps the state the netwalk server needs
// beyond a single request: players' sessions (in memory only),
// the library of named puzzles (a Redis cache in front of a
// Postgres database), and the journal of puzzles generated and
// solved.
package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ancientHacker/netwalk.go/config"
	"github.com/ancientHacker/netwalk.go/dbprep"
	"github.com/gomodule/redigo/redis"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Connect opens the library's cache and database as configured.
// Either can be left unconfigured: without a cache every lookup
// goes to the database, and without a database there is no
// library.  It returns the URLs actually connected to.
func Connect(cfg config.Config) (cacheID, databaseID string, err error) {
	if cfg.Database.URL != "" {
		// make sure the database is initialized
		if err = dbprep.EnsureData(cfg.Database.URL); err != nil {
			err = fmt.Errorf("couldn't initialize database: %w", err)
			return
		}
		pgMutex.Lock()
		pgURL = cfg.Database.URL
		databaseID, err = pgConnect()
		pgMutex.Unlock()
		if err != nil {
			return
		}
	}
	if cfg.Cache.URL != "" {
		rdMutex.Lock()
		rdURL = cfg.Cache.URL
		cacheID, err = rdConnect()
		rdMutex.Unlock()
		if err != nil {
			return
		}
	}
	zap.S().Infow("storage connected", "cache", cacheID, "database", databaseID)
	return
}

// Close closes whatever Connect opened.
func Close() {
	pgMutex.Lock()
	pgClose()
	pgMutex.Unlock()
	rdMutex.Lock()
	rdClose()
	rdMutex.Unlock()
}

// HasLibrary reports whether a database is connected.
func HasLibrary() bool {
	pgMutex.Lock()
	defer pgMutex.Unlock()
	return pgConn != nil
}

// catch turns a panic from rdExecute or pgExecute back into an
// error at package entry points.
func catch(err *error) {
	if r := recover(); r != nil {
		if e, ok := r.(error); ok {
			*err = e
		} else {
			*err = fmt.Errorf("storage failure: %v", r)
		}
	}
}

/*

cache using Redis

*/

// Redis connection data
var (
	rdc     redis.Conn // open connection, if any
	rdURL   string     // URL for the open connection
	rdMutex sync.Mutex // prevent concurrent connection use
)

// rdConnect: connect to the Redis URL.  Returns the connection
// id, if successful, an error otherwise.
func rdConnect() (string, error) {
	conn, err := redis.DialURL(rdURL, redis.DialConnectTimeout(5*time.Second))
	if err != nil {
		return "", fmt.Errorf("couldn't connect to cache at %q: %w", rdURL, err)
	}
	rdc = conn
	return rdURL, nil
}

// rdClose: close the Redis connection.
func rdClose() {
	if rdc != nil {
		rdc.Close()
		rdc = nil
	}
}

// rdExecute: execute the body with the Redis mutex and
// connection.  It reports whether there was a cache to run
// against.  Errors in execution panic back to the package entry
// point.
func rdExecute(body func(tx redis.Conn) error) bool {
	rdMutex.Lock()
	defer rdMutex.Unlock()
	if rdc == nil {
		return false
	}
	// wrap the body against runtime and cache failures
	wrapper := func() (err error) {
		defer catch(&err)
		// Redis connections can go away without warning, so
		// ping to make sure the connection is alive, and try to
		// reconnect if not.
		if _, err := rdc.Do("PING"); err != nil {
			rdClose()
			if _, err := rdConnect(); err != nil {
				return fmt.Errorf("failed to reconnect to cache at %q: %w", rdURL, err)
			}
		}
		return body(rdc)
	}
	if err := wrapper(); err != nil {
		panic(err)
	}
	return true
}

/*

persistence using Postgres

*/

// Postgres connection data
var (
	pgConn  *pgx.Conn  // open database, if any
	pgURL   string     // URL for the open connection
	pgMutex sync.Mutex // pgx connections aren't safe for concurrent use
)

// pgConnect: open the Postgres database.  Returns any error
// encountered during the open.
func pgConnect() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn, err := pgx.Connect(ctx, pgURL)
	if err != nil {
		return "", fmt.Errorf("couldn't connect to db at %q: %w", pgURL, err)
	}
	pgConn = conn
	return pgURL, nil
}

// pgClose: close the Postgres connection.
func pgClose() {
	if pgConn != nil {
		pgConn.Close(context.Background())
		pgConn = nil
	}
}

// pgExecute: execute the body inside a single transaction.  If
// the body errs out, then the transaction is rolled back,
// otherwise it's committed.  Errors panic back to the package
// entry point.
func pgExecute(ctx context.Context, body func(tx pgx.Tx) error) {
	pgMutex.Lock()
	defer pgMutex.Unlock()
	if pgConn == nil {
		panic(fmt.Errorf("no puzzle library database is connected"))
	}
	tx, err := pgConn.Begin(ctx)
	if err != nil {
		panic(fmt.Errorf("can't open a transaction against database: %w", err))
	}
	// wrap the body against runtime and database failures
	wrapper := func() (err error) {
		defer catch(&err)
		return body(tx)
	}
	if err := wrapper(); err != nil {
		tx.Rollback(ctx)
		panic(err)
	}
	if err := tx.Commit(ctx); err != nil {
		panic(fmt.Errorf("commit failed: %w", err))
	}
}
