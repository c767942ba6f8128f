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


// Remove the netwalk storage system: empty the cache and tear
// down the database schema.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ancientHacker/netwalk.go/config"
	"github.com/ancientHacker/netwalk.go/dbprep"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	defer zap.S().Sync()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		zap.S().Fatalf("Couldn't load .env: %v", err)
	}
	cfg, err := config.LoadDefault()
	if err != nil {
		zap.S().Fatalf("Configuration failure: %v", err)
	}
	if err := clearStorage(cfg); err != nil {
		zap.S().Fatalf("Couldn't clear storage: %v", err)
	}
	zap.S().Infof("Storage cleared.")
}

func clearStorage(cfg config.Config) error {
	if cfg.Cache.URL != "" {
		if err := dbprep.ClearCache(cfg.Cache.URL); err != nil {
			return fmt.Errorf("Couldn't clear cache: %v", err)
		}
	}
	if cfg.Database.URL != "" {
		if err := dbprep.RemoveData(cfg.Database.URL); err != nil {
			return fmt.Errorf("Couldn't clear database: %v", err)
		}
	}
	return nil
}
