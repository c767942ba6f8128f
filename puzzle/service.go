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


package puzzle

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

/*

Puzzle Creation

*/

// NewHandler is a POST handler that reads a JSON-encoded Summary
// value from the request body and calls New on it to create a
// new Grid.  The new Grid's State is sent as a 200 response, and
// the grid itself is returned to the golang caller.  If New
// fails, the error is sent as a 400 response and also returned
// to the caller.
//
// If we can't decode the posted Summary, we send a 400 reponse and
// return the error to the caller.
func NewHandler(w http.ResponseWriter, r *http.Request) (*Grid, error) {
	dec := json.NewDecoder(r.Body)
	var summary Summary
	if e := dec.Decode(&summary); e != nil {
		return nil, writeError(requestDecodingError, ErrorData{e.Error()}, w, r)
	}
	g, e := New(&summary)
	if e != nil {
		return nil, sendError(e, http.StatusBadRequest, "NewHandler", w, r)
	}
	return g, g.StateHandler(w, r)
}

// GenerateHandler is a POST handler that reads optional
// JSON-encoded Params from the request body and generates a new
// scrambled puzzle with them.  Fields missing from the body (or
// the whole body) take their values from defaults; fields that
// are present are used as given, zeros included.  The new
// Grid's State is sent as a 200 response, and the grid and the
// generator are returned to the golang caller.
//
// Parameters that can't make a puzzle get a 400 response.  A
// generator that gives up gets a 503 response, since trying
// again may well work.
func GenerateHandler(defaults Params, w http.ResponseWriter, r *http.Request) (*Grid, *Generator, error) {
	params := defaults.WithDefaults()
	if r.Body != nil {
		var posted struct {
			Width     *int `json:"width"`
			Height    *int `json:"height"`
			Terminals *int `json:"terminals"`
		}
		e := json.NewDecoder(r.Body).Decode(&posted)
		if e != nil && !errors.Is(e, io.EOF) {
			return nil, nil, writeError(requestDecodingError, ErrorData{e.Error()}, w, r)
		}
		if posted.Width != nil {
			params.Width = *posted.Width
		}
		if posted.Height != nil {
			params.Height = *posted.Height
		}
		if posted.Terminals != nil {
			params.Terminals = *posted.Terminals
		}
	}
	gen, e := NewGenerator(params, uint64(time.Now().UnixNano()))
	if e != nil {
		return nil, nil, sendError(e, http.StatusBadRequest, "GenerateHandler", w, r)
	}
	g, e := gen.Generate()
	if e != nil {
		status := http.StatusBadRequest
		if IsGenerationExhausted(e) {
			status = http.StatusServiceUnavailable
		}
		return nil, gen, sendError(e, status, "GenerateHandler", w, r)
	}
	return g, gen, g.StateHandler(w, r)
}

/*

Puzzle Download Methods

*/

// SummaryHandler responds with the Grid's summary.  If we can't
// encode the response to the client successfully, we give both
// the client and the golang caller an Error response.
func (g *Grid) SummaryHandler(w http.ResponseWriter, r *http.Request) error {
	if g == nil {
		return writeError(noPuzzleError, ErrorData{r.URL.Path, "No puzzle"}, w, r)
	}
	return writeJSON(g.Summary(), http.StatusOK, w, r)
}

// StateHandler responds with the Grid's state.  If we can't
// encode the response to the client successfully, we give both
// the client and the golang caller an Error response.
func (g *Grid) StateHandler(w http.ResponseWriter, r *http.Request) error {
	if g == nil {
		return writeError(noPuzzleError, ErrorData{r.URL.Path, "No puzzle"}, w, r)
	}
	return writeJSON(g.State(), http.StatusOK, w, r)
}

// NeighborsHandler responds with the neighbors of the cell at
// index.  A bad index gets a 400 response.
func (g *Grid) NeighborsHandler(index int, w http.ResponseWriter, r *http.Request) error {
	if g == nil {
		return writeError(noPuzzleError, ErrorData{r.URL.Path, "No puzzle"}, w, r)
	}
	ns, e := g.Neighbors(index)
	if e != nil {
		return sendError(e, http.StatusBadRequest, "NeighborsHandler", w, r)
	}
	return writeJSON(ns, http.StatusOK, w, r)
}

// SolveHandler searches a clone of the Grid for a solution,
// using the request's context to bound the search, and responds
// with the Solution.  Not finding a solution is a normal 200
// response.  A search cut short by the context gets a 503
// response.  The grid itself is never changed.
func (g *Grid) SolveHandler(s *Solver, w http.ResponseWriter, r *http.Request) (Solution, error) {
	if g == nil {
		return Solution{}, writeError(noPuzzleError, ErrorData{r.URL.Path, "No puzzle"}, w, r)
	}
	sol, e := s.Solve(r.Context(), g)
	if e != nil {
		err := Error{
			Scope:     RequestScope,
			Structure: ScopeStructure,
			Condition: GeneralCondition,
			Values:    ErrorData{fmt.Sprintf("Search stopped after %d tries: %v", sol.Tries, e)},
		}
		err.Message = err.Error()
		return sol, writeJSON(err, http.StatusServiceUnavailable, w, r)
	}
	return sol, writeJSON(sol, http.StatusOK, w, r)
}

/*

Puzzle Updates

*/

// A Move asks for the piece at Index to be rotated once.
type Move struct {
	Index int `json:"index"`
}

// RotateHandler is a POST handler that rotates the piece named
// by a posted Move and recomputes the live cells.  The poster
// gets the resulting State, and the caller gets the move.
//
// If we can't decode the posted move, or its index is out of
// bounds, we send a 400 reponse and return the error to the
// caller.
func (g *Grid) RotateHandler(w http.ResponseWriter, r *http.Request) (Move, error) {
	if g == nil {
		return Move{}, writeError(noPuzzleError, ErrorData{r.URL.Path, "No puzzle"}, w, r)
	}
	var move Move
	if e := json.NewDecoder(r.Body).Decode(&move); e != nil {
		return move, writeError(requestDecodingError, ErrorData{e.Error()}, w, r)
	}
	if e := g.Rotate(move.Index); e != nil {
		return move, sendError(e, http.StatusBadRequest, "RotateHandler", w, r)
	}
	g.Recompute()
	return move, g.StateHandler(w, r)
}

/*

Utilities

*/

type handlerError int

const (
	requestDecodingError handlerError = iota
	responseEncodingError
	noPuzzleError
	errorFormatError
)

// sendError sends an error returned by the puzzle API.  These
// are always Errors, but if one isn't we send an internal error
// naming the handler it came from.
func sendError(e error, status int, where string, w http.ResponseWriter, r *http.Request) error {
	err, ok := e.(Error)
	if !ok {
		return writeError(errorFormatError, ErrorData{where, e.Error()}, w, r)
	}
	err.Message = err.Error()
	return writeJSON(err, status, w, r)
}

// SendError sends e as an Error response with the given status,
// for callers outside the package that build their own Errors.
func SendError(e error, status int, w http.ResponseWriter, r *http.Request) error {
	return sendError(e, status, "SendError", w, r)
}

// writeError sends back a server error of the given type, sort
// of like http.Error, but it sends the JSON form of an
// appropriate Error.
func writeError(et handlerError, ed ErrorData,
	w http.ResponseWriter, r *http.Request) error {
	var err Error
	var status int
	switch et {
	case requestDecodingError:
		status = http.StatusBadRequest
		err = Error{
			Scope:     RequestScope,
			Structure: AttributeStructure,
			Attribute: DecodeAttribute,
			Condition: GeneralCondition,
			Values:    ed,
		}
	case responseEncodingError:
		status = http.StatusInternalServerError
		err = Error{
			Scope:     InternalScope,
			Structure: AttributeStructure,
			Attribute: EncodeAttribute,
			Condition: GeneralCondition,
			Values:    ed,
		}
	case noPuzzleError:
		status = http.StatusNotFound
		err = Error{
			Scope:     RequestScope,
			Structure: AttributeValueStructure,
			Attribute: URLAttribute,
			Condition: GeneralCondition,
			Values:    ed,
		}
	case errorFormatError:
		status = http.StatusInternalServerError
		err = Error{
			Scope:     InternalScope,
			Structure: AttributeStructure,
			Attribute: LocationAttribute,
			Condition: GeneralCondition,
			Values:    ed,
		}
	default:
		status = http.StatusInternalServerError
		err = Error{
			Scope:     InternalScope,
			Structure: AttributeStructure,
			Attribute: LocationAttribute,
			Condition: GeneralCondition,
			Values: ErrorData{
				"writeError",
				fmt.Sprintf("Unknown handler error type (%v)", et),
			},
		}
	}
	err.Message = err.Error()
	return writeJSON(err, status, w, r)
}

// writeJSON is called by handlers to encode and send the client
// response.  It returns an appropriate error status for the
// handler to return to its caller, as follows:
//
// 1. If writeJSON encounters an encoding error sending the
// response, it will create an Error object describing the
// failure, encode that Error as a 500-series response to the
// client, and return that Error to the handler.
//
// 2. If no encoding error occurs, but the handler is sending an
// Error object as the response to the client, writeJSON will
// return that same Error to the handler.
//
// 3. If no encoding error occurs, and the handler is sending a
// non-Error object as the response to the client, writeJSON will
// return nil to the handler.
func writeJSON(obj interface{}, status int, w http.ResponseWriter, r *http.Request) error {
	err, isErr := obj.(Error)
	bytes, e := json.Marshal(obj)
	if e != nil {
		if isErr && err.Scope == InternalScope && err.Attribute == EncodeAttribute {
			// We just failed to encode an Encoding error, so
			// the JSON encoder is dead: send the message as a
			// quoted string.
			status = http.StatusInternalServerError
			bytes = []byte(fmt.Sprintf("%q", err.Error()))
		} else {
			return writeError(responseEncodingError, ErrorData{e.Error()}, w, r)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
	if isErr {
		return err
	}
	return nil
}
