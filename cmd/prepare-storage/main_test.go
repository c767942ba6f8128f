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
	"os"
	"testing"

	"github.com/ancientHacker/netwalk.go/config"
	"github.com/ancientHacker/netwalk.go/dbprep"
)

func TestPrepareStorageNeedsDatabase(t *testing.T) {
	if err := prepareStorage(config.Defaults()); err == nil {
		t.Errorf("Prepared storage without a database")
	}
}

func TestPrepareStorage(t *testing.T) {
	cfg := config.Defaults()
	cfg.Database.URL = os.Getenv(config.DatabaseEnvVar)
	cfg.Cache.URL = os.Getenv(config.CacheEnvVar)
	if cfg.Database.URL == "" {
		t.Skip("DATABASE_URL not set")
	}
	if err := prepareStorage(cfg); err != nil {
		t.Fatalf("%v", err)
	}
	if v, err := dbprep.SchemaVersion(cfg.Database.URL); err != nil || v == 0 {
		t.Errorf("Schema version after prepare is %v (error %v)", v, err)
	}
}
