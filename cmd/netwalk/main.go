// The netwalk game server.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ancientHacker/netwalk.go/client"
	"github.com/ancientHacker/netwalk.go/config"
	"github.com/ancientHacker/netwalk.go/storage"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	level := zap.LevelFlag("log-level", zap.InfoLevel, "set log level")
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
	if err := client.VerifyResources(); err != nil {
		zap.S().Fatalf("Resource failure: %v", err)
	}

	sessions, err := storage.NewSessions(settings.Session.TTL)
	if err != nil {
		zap.S().Fatalf("Session store failure: %v", err)
	}
	defer sessions.Close()
	journal := storage.NewJournal(settings.Journal.Dir)
	defer journal.Close()
	if settings.Database.URL != "" {
		if _, _, err := storage.Connect(settings); err != nil {
			zap.S().Fatalf("Storage failure: %v", err)
		}
		defer storage.Close()
	}

	if *level != zap.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	s := newServer(settings, sessions, journal)
	defer s.events.Close()
	srv := &http.Server{
		Addr:    settings.Server.Port,
		Handler: s.routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		zap.S().Infof("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	zap.S().Infof("Listening on %s...", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.S().Errorf("Listener failure: %v", err)
	}
}
