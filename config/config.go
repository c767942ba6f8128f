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


// Package config loads the settings shared by the netwalk
// binaries.  Settings come from built-in defaults, then an
// optional YAML file, then the environment (so hosted
// deployments can configure the server the usual way).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ancientHacker/netwalk.go/puzzle"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load.
const (
	PathEnvVar       = "NETWALK_CONFIG"
	PortEnvVar       = "PORT"
	CacheEnvVar      = "REDIS_URL"
	LegacyCacheVar   = "REDISTOGO_URL"
	DatabaseEnvVar   = "DATABASE_URL"
	JournalDirEnvVar = "NETWALK_JOURNAL_DIR"
)

type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Cache    StoreConfig   `yaml:"cache"`
	Database StoreConfig   `yaml:"database"`
	Puzzle   puzzle.Params `yaml:"puzzle"`
	Solver   SolverConfig  `yaml:"solver"`
	Session  SessionConfig `yaml:"session"`
	Journal  JournalConfig `yaml:"journal"`
}

type ServerConfig struct {
	// Port is either a bare port number or a host:port address.
	Port string `yaml:"port"`
	// AllowedOrigins are the cross-origin callers of the api.
	// Empty allows all.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// A StoreConfig locates a cache or database.  An empty URL means
// the store isn't used.
type StoreConfig struct {
	URL string `yaml:"url"`
}

type SolverConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	ProgressEvery int           `yaml:"progress_every"`
}

type SessionConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// A JournalConfig says where to write the generation journal.
// An empty Dir turns the journal off.
type JournalConfig struct {
	Dir string `yaml:"dir"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Server: ServerConfig{Port: "localhost:8080"},
		Puzzle: puzzle.Params{
			Width:       puzzle.DefaultWidth,
			Height:      puzzle.DefaultHeight,
			Terminals:   puzzle.DefaultTerminals,
			MaxAttempts: puzzle.DefaultMaxAttempts,
		},
		Solver:  SolverConfig{Timeout: 30 * time.Second, ProgressEvery: 1000},
		Session: SessionConfig{TTL: 24 * time.Hour},
	}
}

// Load reads the YAML file at path over the defaults, then
// applies the environment.  An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		if path != "" {
			err = fmt.Errorf("%s: %w", path, err)
		}
		return cfg, err
	}
	return cfg, nil
}

// LoadDefault loads from the file named by NETWALK_CONFIG, if
// any.
func LoadDefault() (Config, error) {
	return Load(os.Getenv(PathEnvVar))
}

// applyEnv overrides settings from the environment.  A bare
// PORT means we're running as a true server, so listen on all
// interfaces.
func (c *Config) applyEnv() {
	if port := os.Getenv(PortEnvVar); port != "" {
		c.Server.Port = port
	}
	if !strings.Contains(c.Server.Port, ":") {
		c.Server.Port = ":" + c.Server.Port
	}
	if url := os.Getenv(CacheEnvVar); url != "" {
		c.Cache.URL = url
	} else if url := os.Getenv(LegacyCacheVar); url != "" {
		c.Cache.URL = url
	}
	if url := os.Getenv(DatabaseEnvVar); url != "" {
		c.Database.URL = url
	}
	if dir := os.Getenv(JournalDirEnvVar); dir != "" {
		c.Journal.Dir = dir
	}
}

// Validate checks settings the binaries can't work around.
func (c *Config) Validate() error {
	if c.Solver.Timeout <= 0 {
		return fmt.Errorf("solver timeout must be positive, got %v", c.Solver.Timeout)
	}
	if c.Solver.ProgressEvery < 0 {
		return fmt.Errorf("solver progress_every must not be negative, got %d", c.Solver.ProgressEvery)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %v", c.Session.TTL)
	}
	c.Puzzle = c.Puzzle.WithDefaults()
	if _, err := puzzle.NewGenerator(c.Puzzle, 0); err != nil {
		return fmt.Errorf("puzzle: %w", err)
	}
	return nil
}
