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


// Package dbprep installs, loads, and clears the library
// storage: the Postgres schema and sample puzzles, and the Redis
// cache in front of them.
package dbprep

import (
	"fmt"
)

// EnsureData brings the schema up to date and, if that changed
// anything, loads the sample puzzles.
func EnsureData(url string) error {
	inVersion, err := SchemaVersion(url)
	if err != nil {
		return fmt.Errorf("Couldn't get initial data schema version: %v", err)
	}
	if err := SchemaUp(url); err != nil {
		return fmt.Errorf("Couldn't install data schema: %v", err)
	}
	outVersion, err := SchemaVersion(url)
	if err != nil {
		return fmt.Errorf("Couldn't get final data schema version: %v", err)
	}
	if outVersion == 0 {
		return fmt.Errorf("Database schema still at version 0, shouldn't be.")
	}
	if inVersion != outVersion {
		if err := DataUp(url); err != nil {
			return fmt.Errorf("Couldn't load data: %v", err)
		}
	}
	return nil
}

// RemoveData tears down the schema, if there is one.
func RemoveData(url string) error {
	version, err := SchemaVersion(url)
	if err != nil {
		return fmt.Errorf("Couldn't get initial data schema version: %v", err)
	}
	if version > 0 {
		if err := SchemaDown(url); err != nil {
			return fmt.Errorf("Couldn't remove tables: %v", err)
		}
	}
	return nil
}

// ReinitializeAll clears the cache (if there is one), then
// rebuilds the database from scratch.
func ReinitializeAll(databaseURL, cacheURL string) error {
	if cacheURL != "" {
		if err := ClearCache(cacheURL); err != nil {
			return fmt.Errorf("Couldn't clear cache: %v", err)
		}
	}
	if err := RemoveData(databaseURL); err != nil {
		return fmt.Errorf("Couldn't clear database: %v", err)
	}
	if err := EnsureData(databaseURL); err != nil {
		return fmt.Errorf("Couldn't load database: %v", err)
	}
	return nil
}
