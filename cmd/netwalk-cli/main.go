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


// Command-line client for netwalk.go puzzles
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ancientHacker/netwalk.go/client"
	"github.com/ancientHacker/netwalk.go/config"
	"github.com/ancientHacker/netwalk.go/puzzle"
	"github.com/ancientHacker/netwalk.go/storage"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	level := zap.LevelFlag("log-level", zap.WarnLevel, "set log level")
	envFile := flag.String("env", ".env", "environment file to load, if it exists")
	flag.Parse()
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(*level)
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	defer zap.S().Sync()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		zap.S().Fatalf("Couldn't load %s: %v", *envFile, err)
	}
	settings, err := config.LoadDefault()
	if err != nil {
		zap.S().Fatalf("Configuration failure: %v", err)
	}
	if settings.Database.URL != "" {
		if _, _, err := storage.Connect(settings); err != nil {
			zap.S().Fatalf("Storage failure: %v", err)
		}
		defer storage.Close()
	}

	// catch signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// serve
	session := newSession(settings, os.Stdout)
	if err := session.listener(ctx, os.Stdin); err != nil {
		zap.S().Errorf("CLI failure: %v", err)
		os.Exit(1)
	}
}

/*

CLI listener

*/

type request struct {
	inline  string
	command string
	args    []string
}

// listener reads lines and dispatches them to handlers, until
// EOF, a quit command, or the context is done.  Running
// searches are stopped by the context too.
func (s *cliSession) listener(ctx context.Context, in io.Reader) error {
	s.ctx = ctx
	// if we are on a terminal, we do prompting
	prompt := false
	if f, ok := s.out.(*os.File); ok {
		if stat, err := f.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			prompt = true
		}
	}

	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		errs <- scanner.Err()
		close(lines)
	}()

	for {
		if prompt {
			fmt.Fprintf(s.out, "netwalk> ")
		}
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			if prompt {
				fmt.Fprintf(s.out, " (EOF)\n")
			}
			return <-errs
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		r := &request{inline: line, command: strings.ToLower(fields[0]), args: fields[1:]}
		switch r.command {
		case "quit", "exit":
			return nil
		}
		s.dispatchCommand(r)
	}
}

// command dispatching
type commandInfo struct {
	command     string
	argInfo     string
	description string
	handler     func(*cliSession, *request)
}

var (
	dispatchInfo  []commandInfo
	dispatchTable map[string]*commandInfo
)

func init() {
	dispatchInfo = []commandInfo{
		{"new", "[w h terminals]", "generate a new puzzle", (*cliSession).newHandler},
		{"seed", "n", "generate the puzzle for seed n", (*cliSession).seedHandler},
		{"load", "layout", "load a layout like S> s0 T</e0 e0 e0", (*cliSession).loadHandler},
		{"rotate", "index", "rotate a piece clockwise", (*cliSession).rotateHandler},
		{"state", "", "show the puzzle", (*cliSession).stateHandler},
		{"neighbors", "index", "show the neighbors of a cell", (*cliSession).neighborsHandler},
		{"solve", "", "search for a solution", (*cliSession).solveHandler},
		{"apply", "", "apply the last solution found", (*cliSession).applyHandler},
		{"glyphs", "on|off", "draw pieces as lines or codes", (*cliSession).glyphsHandler},
		{"library", "[name]", "list or load library puzzles", (*cliSession).libraryHandler},
		{"help", "", "show this list", (*cliSession).helpHandler},
	}
	dispatchTable = make(map[string]*commandInfo, len(dispatchInfo))
	for i := range dispatchInfo {
		dispatchTable[dispatchInfo[i].command] = &dispatchInfo[i]
	}
}

func (s *cliSession) dispatchCommand(r *request) {
	defer func() {
		if err := recover(); err != nil {
			s.errorHandler(err, r)
		}
	}()

	ci := dispatchTable[r.command]
	if ci == nil {
		s.usageHandler(fmt.Sprintf("%q is not a known command", r.command))
		return
	}
	ci.handler(s, r)
}

/*

session

*/

// A cliSession is the puzzle being played at the command line.
type cliSession struct {
	cfg      config.Config
	out      io.Writer
	ctx      context.Context
	grid     *puzzle.Grid
	seed     uint64
	solution *puzzle.Solution
	glyphs   bool
}

func newSession(cfg config.Config, out io.Writer) *cliSession {
	return &cliSession{cfg: cfg, out: out, ctx: context.Background(), glyphs: true}
}

// start makes g the current puzzle.
func (s *cliSession) start(g *puzzle.Grid, seed uint64) {
	s.grid, s.seed, s.solution = g, seed, nil
	s.stateHandler(nil)
}

// needGrid reports whether there is a puzzle, and complains if
// there isn't.
func (s *cliSession) needGrid() bool {
	if s.grid == nil {
		fmt.Fprintf(s.out, "No puzzle yet: use new, seed, load, or library.\n")
		return false
	}
	return true
}

// indexArg parses the single index argument of r.
func (s *cliSession) indexArg(r *request) (int, bool) {
	if len(r.args) != 1 {
		s.usageHandler(fmt.Sprintf("%s requires one argument", r.command))
		return 0, false
	}
	index, err := strconv.Atoi(r.args[0])
	if err != nil {
		s.usageHandler(fmt.Sprintf("%s index (%s) is not a number", r.command, r.args[0]))
		return 0, false
	}
	return index, true
}

/*

request handlers

*/

func (s *cliSession) newHandler(r *request) {
	params := s.cfg.Puzzle.WithDefaults()
	switch len(r.args) {
	case 0:
	case 3:
		var vals [3]int
		for i, arg := range r.args {
			v, err := strconv.Atoi(arg)
			if err != nil {
				s.usageHandler(fmt.Sprintf("%s argument (%s) is not a number", r.command, arg))
				return
			}
			vals[i] = v
		}
		params.Width, params.Height, params.Terminals = vals[0], vals[1], vals[2]
	default:
		s.usageHandler(fmt.Sprintf("%s takes no arguments or three", r.command))
		return
	}
	s.generate(params, uint64(time.Now().UnixNano()))
}

func (s *cliSession) seedHandler(r *request) {
	if len(r.args) != 1 {
		s.usageHandler(fmt.Sprintf("%s requires one argument", r.command))
		return
	}
	seed, err := strconv.ParseUint(r.args[0], 10, 64)
	if err != nil {
		s.usageHandler(fmt.Sprintf("%s value (%s) must be a number", r.command, r.args[0]))
		return
	}
	params := s.cfg.Puzzle.WithDefaults()
	if s.grid != nil {
		params.Width, params.Height = s.grid.Width(), s.grid.Height()
		params.Terminals = len(s.grid.Computers()) - 1
	}
	s.generate(params, seed)
}

func (s *cliSession) generate(params puzzle.Params, seed uint64) {
	gen, err := puzzle.NewGenerator(params, seed)
	if err != nil {
		fmt.Fprintf(s.out, "Can't generate: %v\n", err)
		return
	}
	g, err := gen.Generate()
	if err != nil {
		fmt.Fprintf(s.out, "Generation failed: %v\n", err)
		return
	}
	zap.S().Infow("generated", "seed", seed, "stats", gen.Stats())
	fmt.Fprintf(s.out, "Puzzle %d:\n", seed)
	s.start(g, seed)
}

func (s *cliSession) loadHandler(r *request) {
	if len(r.args) == 0 {
		s.usageHandler(fmt.Sprintf("%s requires a layout", r.command))
		return
	}
	g, err := puzzle.Parse(strings.Join(r.args, " "))
	if err != nil {
		fmt.Fprintf(s.out, "Load failed: %v\n", err)
		return
	}
	s.start(g, 0)
}

func (s *cliSession) rotateHandler(r *request) {
	index, ok := s.indexArg(r)
	if !ok || !s.needGrid() {
		return
	}
	if err := s.grid.Rotate(index); err != nil {
		fmt.Fprintf(s.out, "Rotate failed: %v\n", err)
		return
	}
	s.grid.Recompute()
	s.solution = nil
	s.stateHandler(r)
}

func (s *cliSession) stateHandler(r *request) {
	if !s.needGrid() {
		return
	}
	if s.glyphs {
		fmt.Fprint(s.out, client.Text(s.grid.State()))
	} else {
		fmt.Fprint(s.out, s.grid.String())
		fmt.Fprintln(s.out, client.Status(s.grid.State()))
	}
}

func (s *cliSession) neighborsHandler(r *request) {
	index, ok := s.indexArg(r)
	if !ok || !s.needGrid() {
		return
	}
	n, err := s.grid.Neighbors(index)
	if err != nil {
		fmt.Fprintf(s.out, "Neighbors failed: %v\n", err)
		return
	}
	show := func(p *int) string {
		if p == nil {
			return "-"
		}
		return strconv.Itoa(*p)
	}
	fmt.Fprintf(s.out, "up: %s, right: %s, down: %s, left: %s\n",
		show(n.Up), show(n.Right), show(n.Down), show(n.Left))
}

func (s *cliSession) solveHandler(r *request) {
	if !s.needGrid() {
		return
	}
	solver := &puzzle.Solver{
		ProgressEvery: s.cfg.Solver.ProgressEvery,
		OnProgress: func(tries int) {
			fmt.Fprintf(s.out, "Tried %d layouts...\n", tries)
		},
	}
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.Solver.Timeout)
	defer cancel()
	sol, err := solver.Solve(ctx, s.grid)
	switch {
	case err != nil:
		fmt.Fprintf(s.out, "Gave up after %d tries: %v\n", sol.Tries, err)
	case !sol.Found:
		fmt.Fprintf(s.out, "No solution after %d tries.\n", sol.Tries)
	default:
		s.solution = &sol
		fmt.Fprintf(s.out, "Solved in %d tries by %d rotations:", sol.Tries, len(sol.Rotations))
		for _, rot := range sol.Rotations {
			fmt.Fprintf(s.out, " %d×%d", rot.Index, rot.Count)
		}
		fmt.Fprintf(s.out, "\n")
	}
}

func (s *cliSession) applyHandler(r *request) {
	if !s.needGrid() {
		return
	}
	if s.solution == nil {
		fmt.Fprintf(s.out, "No solution to apply: solve first.\n")
		return
	}
	if err := s.grid.Apply(s.solution.Rotations); err != nil {
		panic(err)
	}
	s.solution = nil
	s.stateHandler(r)
}

func (s *cliSession) glyphsHandler(r *request) {
	if len(r.args) > 0 {
		switch strings.ToLower(r.args[0]) {
		case "on":
			s.glyphs = true
		case "off":
			s.glyphs = false
		default:
			s.usageHandler(fmt.Sprintf("argument to %s must be 'on' or 'off'", r.command))
			return
		}
	}
	if s.glyphs {
		fmt.Fprintf(s.out, "Glyphs are on\n")
	} else {
		fmt.Fprintf(s.out, "Glyphs are off\n")
	}
}

func (s *cliSession) libraryHandler(r *request) {
	if !storage.HasLibrary() {
		fmt.Fprintf(s.out, "There is no puzzle library: set %s.\n", config.DatabaseEnvVar)
		return
	}
	if len(r.args) == 0 {
		entries, err := storage.ListPuzzles(s.ctx)
		if err != nil {
			fmt.Fprintf(s.out, "Can't list library: %v\n", err)
			return
		}
		for _, pe := range entries {
			fmt.Fprintf(s.out, "%-12s %dx%d (seed %d)\n", pe.Name, pe.Summary.Width, pe.Summary.Height, pe.Seed)
		}
		return
	}
	pe, err := storage.LookupPuzzle(s.ctx, r.args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Library lookup failed: %v\n", err)
		return
	}
	g, err := pe.Grid()
	if err != nil {
		fmt.Fprintf(s.out, "Library puzzle is damaged: %v\n", err)
		return
	}
	s.start(g, pe.Seed)
}

func (s *cliSession) helpHandler(r *request) {
	s.printUsage()
}

func (s *cliSession) usageHandler(msg string) {
	fmt.Fprintf(s.out, "Error: %s\n", msg)
	s.printUsage()
}

func (s *cliSession) printUsage() {
	fmt.Fprintf(s.out, "Usage:\n")
	for _, ci := range dispatchInfo {
		fmt.Fprintf(s.out, "    %9s %-15s\t%s\n", ci.command, ci.argInfo, ci.description)
	}
	fmt.Fprintf(s.out, "  and 'quit' or EOF to exit.\n")
}

func (s *cliSession) errorHandler(err interface{}, r *request) {
	fmt.Fprintf(s.out, "Panic executing %q: %v\n", r.inline, err)
	zap.S().Errorf("Error executing %q: %v", r.inline, err)
}
