package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ancientHacker/netwalk.go/client"
	"github.com/ancientHacker/netwalk.go/config"
	"github.com/ancientHacker/netwalk.go/puzzle"
	"github.com/ancientHacker/netwalk.go/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/r3labs/sse/v2"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const (
	cookieName = "netwalkID"
	cookiePath = "/"
	sidKey     = "sid"
)

// errStale means a solution was found for a layout the player
// has since changed.
var errStale = errors.New("layout changed during search")

type server struct {
	cfg      config.Config
	sessions *storage.Sessions
	journal  *storage.Journal
	events   *sse.Server
	upgrader websocket.Upgrader
}

func newServer(cfg config.Config, sessions *storage.Sessions, journal *storage.Journal) *server {
	events := sse.New()
	events.AutoStream = true
	events.AutoReplay = false
	return &server{
		cfg:      cfg,
		sessions: sessions,
		journal:  journal,
		events:   events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (s *server) routes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), s.withSession)

	r.GET("/", s.home)
	r.GET("/health", s.health)
	api := r.Group("/api")
	api.GET("/state", s.state)
	api.POST("/new", s.generate)
	api.POST("/rotate", s.rotate)
	api.GET("/neighbors/:index", s.neighbors)
	api.POST("/solve", s.solve)
	api.POST("/apply", s.apply)
	api.GET("/library", s.library)
	api.POST("/library", s.save)
	api.POST("/library/:id", s.start)
	r.GET("/events", s.stream)
	r.GET("/ws", s.rotateLoop)
	r.NoRoute(func(c *gin.Context) {
		if !client.StaticHandler(c.Writer, c.Request) {
			requestError(c, http.StatusNotFound, fmt.Sprintf("Nothing at %s", c.Request.URL.Path))
		}
	})

	return cors.New(cors.Options{
		AllowedOrigins:   s.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowCredentials: true,
	}).Handler(r)
}

/*

middleware

*/

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		zap.S().Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}

// withSession finds the session cookie, or sets a new one.  Only
// ids we could have issued are accepted.
func (s *server) withSession(c *gin.Context) {
	sid, err := c.Cookie(cookieName)
	if _, perr := uuid.Parse(sid); err != nil || perr != nil {
		sid = storage.NewSID()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, sid, 0, cookiePath, "", false, true)
	}
	c.Set(sidKey, sid)
	c.Next()
}

func sessionID(c *gin.Context) string {
	return c.GetString(sidKey)
}

// requestError sends a general request Error.
func requestError(c *gin.Context, status int, message string) error {
	return puzzle.SendError(generalError(message), status, c.Writer, c.Request)
}

func generalError(message string) puzzle.Error {
	return puzzle.Error{
		Scope:     puzzle.RequestScope,
		Structure: puzzle.ScopeStructure,
		Condition: puzzle.GeneralCondition,
		Values:    puzzle.ErrorData{message},
	}
}

/*

sessions

*/

// ensureGrid gives a session without a puzzle a fresh one.
func (s *server) ensureGrid(ss *storage.Session) error {
	if ss.Grid != nil {
		return nil
	}
	gen, err := puzzle.NewGenerator(s.cfg.Puzzle.WithDefaults(), uint64(time.Now().UnixNano()))
	if err != nil {
		return err
	}
	g, err := gen.Generate()
	s.journalGenerated(ss.SID, gen, err)
	if err != nil {
		return err
	}
	ss.Grid, ss.Seed, ss.PuzzleID, ss.Solution = g, gen.SeedValue(), "", nil
	zap.S().Infof("Started session %v on puzzle with seed %d.", ss.SID, ss.Seed)
	return nil
}

func (s *server) journalGenerated(sid string, gen *puzzle.Generator, err error) {
	if jerr := s.journal.Generated(sid, gen, err); jerr != nil {
		zap.S().Errorf("Couldn't journal generation for session %v: %v", sid, jerr)
	}
}

// update runs fn on the request's session, which always has a
// grid.  If fn returns an error it has already been sent.
func (s *server) update(c *gin.Context, fn func(ss *storage.Session) error) {
	_, err := s.sessions.Update(sessionID(c), func(ss *storage.Session) error {
		if err := s.ensureGrid(ss); err != nil {
			return puzzle.SendError(err, http.StatusServiceUnavailable, c.Writer, c.Request)
		}
		return fn(ss)
	})
	if err != nil {
		zap.S().Infof("Session %v not changed: %v", sessionID(c), err)
	}
}

// current loads the request's session, giving it a grid if it
// needs one.  Errors have been sent.
func (s *server) current(c *gin.Context) (ss *storage.Session, err error) {
	s.update(c, func(loaded *storage.Session) error {
		ss = loaded
		return nil
	})
	if ss == nil {
		err = errors.New("no session")
	}
	return
}

/*

handlers

*/

func (s *server) home(c *gin.Context) {
	ss, err := s.current(c)
	if err != nil {
		return
	}
	var links []client.LibraryLink
	if storage.HasLibrary() {
		entries, err := storage.ListPuzzles(c.Request.Context())
		if err != nil {
			zap.S().Errorf("Couldn't list library: %v", err)
		}
		for _, pe := range entries {
			links = append(links, client.LibraryLink{ID: pe.PuzzleID, Name: pe.Name})
		}
	}
	page := client.GamePage(ss.SID, ss.Grid.State(), links)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (s *server) health(c *gin.Context) {
	n, err := s.sessions.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": n, "library": storage.HasLibrary()})
}

func (s *server) state(c *gin.Context) {
	if ss, err := s.current(c); err == nil {
		ss.Grid.StateHandler(c.Writer, c.Request)
	}
}

func (s *server) generate(c *gin.Context) {
	s.update(c, func(ss *storage.Session) error {
		g, gen, err := puzzle.GenerateHandler(s.cfg.Puzzle, c.Writer, c.Request)
		s.journalGenerated(ss.SID, gen, err)
		if err != nil {
			return err
		}
		ss.Grid, ss.Seed, ss.PuzzleID, ss.Solution = g, gen.SeedValue(), "", nil
		return nil
	})
}

func (s *server) rotate(c *gin.Context) {
	s.update(c, func(ss *storage.Session) error {
		if _, err := ss.Grid.RotateHandler(c.Writer, c.Request); err != nil {
			return err
		}
		ss.Solution = nil
		return nil
	})
}

func (s *server) neighbors(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		requestError(c, http.StatusBadRequest, fmt.Sprintf("Cell index %q is not a number", c.Param("index")))
		return
	}
	if ss, err := s.current(c); err == nil {
		ss.Grid.NeighborsHandler(index, c.Writer, c.Request)
	}
}

// solve searches outside the session transaction, so the player
// can keep rotating; a solution found for a layout that has
// since changed isn't kept.
func (s *server) solve(c *gin.Context) {
	ss, err := s.current(c)
	if err != nil {
		return
	}
	sid, layout := ss.SID, ss.Grid.String()
	solver := &puzzle.Solver{
		ProgressEvery: s.cfg.Solver.ProgressEvery,
		OnProgress: func(tries int) {
			s.publish(sid, fmt.Sprintf("Tried %d layouts...", tries))
		},
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.Solver.Timeout)
	defer cancel()
	start := time.Now()
	sol, err := ss.Grid.SolveHandler(solver, c.Writer, c.Request.WithContext(ctx))
	elapsed := time.Since(start)
	if jerr := s.journal.Solved(sid, sol, elapsed, err); jerr != nil {
		zap.S().Errorf("Couldn't journal solve for session %v: %v", sid, jerr)
	}
	switch {
	case err != nil:
		s.publish(sid, fmt.Sprintf("Gave up after %d tries.", sol.Tries))
		return
	case !sol.Found:
		s.publish(sid, fmt.Sprintf("No solution after %d tries.", sol.Tries))
		return
	}
	s.publish(sid, fmt.Sprintf("Solved in %d tries.", sol.Tries))
	zap.S().Infof("Session %v solved in %d tries (%v).", sid, sol.Tries, elapsed)
	_, err = s.sessions.Update(sid, func(ss *storage.Session) error {
		if ss.Grid == nil || ss.Grid.String() != layout {
			return errStale
		}
		ss.Solution = &sol
		return nil
	})
	if err != nil {
		zap.S().Infof("Solution for session %v not kept: %v", sid, err)
	}
}

func (s *server) publish(sid, message string) {
	s.events.TryPublish(sid, &sse.Event{Data: []byte(message)})
}

func (s *server) stream(c *gin.Context) {
	if c.Query("stream") != sessionID(c) {
		requestError(c, http.StatusForbidden, "Progress is only available for your own session")
		return
	}
	s.events.ServeHTTP(c.Writer, c.Request)
}

func (s *server) apply(c *gin.Context) {
	s.update(c, func(ss *storage.Session) error {
		if ss.Solution == nil || !ss.Solution.Found {
			return requestError(c, http.StatusConflict, "There is no solution to apply: solve the puzzle first")
		}
		if err := ss.Grid.Apply(ss.Solution.Rotations); err != nil {
			return puzzle.SendError(err, http.StatusInternalServerError, c.Writer, c.Request)
		}
		ss.Solution = nil
		return ss.Grid.StateHandler(c.Writer, c.Request)
	})
}

/*

library

*/

func (s *server) library(c *gin.Context) {
	if !storage.HasLibrary() {
		requestError(c, http.StatusNotFound, "There is no puzzle library")
		return
	}
	entries, err := storage.ListPuzzles(c.Request.Context())
	if err != nil {
		requestError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, entries)
}

// start puts the session on a library puzzle.
func (s *server) start(c *gin.Context) {
	if !storage.HasLibrary() {
		requestError(c, http.StatusNotFound, "There is no puzzle library")
		return
	}
	pe, err := storage.LookupPuzzle(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNoSuchPuzzle) {
		requestError(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		requestError(c, http.StatusInternalServerError, err.Error())
		return
	}
	g, err := pe.Grid()
	if err != nil {
		requestError(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.update(c, func(ss *storage.Session) error {
		ss.Grid, ss.Seed, ss.PuzzleID, ss.Solution = g, pe.Seed, pe.PuzzleID, nil
		return g.StateHandler(c.Writer, c.Request)
	})
}

// save adds the session's current layout to the library under
// the posted name.
func (s *server) save(c *gin.Context) {
	if !storage.HasLibrary() {
		requestError(c, http.StatusNotFound, "There is no puzzle library")
		return
	}
	var body struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		requestError(c, http.StatusBadRequest, err.Error())
		return
	}
	ss, err := s.current(c)
	if err != nil {
		return
	}
	pe := storage.NewEntry(body.Name, ss.Seed, ss.Grid)
	if err := storage.InsertPuzzle(c.Request.Context(), pe); err != nil {
		requestError(c, http.StatusConflict, err.Error())
		return
	}
	c.JSON(http.StatusCreated, pe)
}

/*

websocket rotate loop

*/

// rotateLoop takes Moves from the socket and answers each with
// the resulting State, or an Error.
func (s *server) rotateLoop(c *gin.Context) {
	header := http.Header{}
	if cookies := c.Writer.Header().Values("Set-Cookie"); len(cookies) > 0 {
		header["Set-Cookie"] = cookies
	}
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, header)
	if err != nil {
		zap.S().Infof("Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	sid := sessionID(c)
	for {
		var move puzzle.Move
		if err := conn.ReadJSON(&move); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				zap.S().Debugf("Websocket for session %v closed: %v", sid, err)
			}
			return
		}
		var reply any
		_, err := s.sessions.Update(sid, func(ss *storage.Session) error {
			if err := s.ensureGrid(ss); err != nil {
				return err
			}
			if err := ss.Grid.Rotate(move.Index); err != nil {
				return err
			}
			ss.Grid.Recompute()
			ss.Solution = nil
			reply = ss.Grid.State()
			return nil
		})
		if err != nil {
			reply = errorReply(err)
		}
		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}

func errorReply(err error) puzzle.Error {
	var pe puzzle.Error
	if !errors.As(err, &pe) {
		pe = generalError(err.Error())
	}
	pe.Message = pe.Error()
	return pe
}
