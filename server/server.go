package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zachgliebs/VinylRecorder/cache"
	"github.com/zachgliebs/VinylRecorder/config"
	"github.com/zachgliebs/VinylRecorder/core/catalog"
	"github.com/zachgliebs/VinylRecorder/core/events"
	"github.com/zachgliebs/VinylRecorder/core/tracker"
	"github.com/zachgliebs/VinylRecorder/db"
	"github.com/zachgliebs/VinylRecorder/logger"
	"github.com/zachgliebs/VinylRecorder/repository"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogOutputPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
	})

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Connect to the database
	if err := db.ConnectDB(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.DB.Close()

	if err := db.ConnectGormDB(cfg); err != nil {
		log.Fatalf("Failed to connect to database with GORM: %v", err)
	}
	defer db.CloseGormDB()

	// Initialize database schema
	if err := db.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// The now-playing cache is optional; the store stays authoritative.
	var nowPlaying *cache.NowPlayingCache
	if err := db.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, now-playing cache disabled", logger.ErrorField(err))
	} else {
		nowPlaying = cache.NewNowPlayingCache(db.RedisClient)
		defer db.CloseRedis()
	}

	albumRepo := repository.NewMySQLAlbumRepository(db.DB)
	sessionRepo := repository.NewGormSessionRepository(db.GormDB)

	hub := events.NewHub()
	catalogSvc := catalog.NewCatalog(albumRepo, nowPlaying)
	trackerSvc := tracker.NewTracker(sessionRepo, nowPlaying, hub)

	apiHandler := NewAPIHandler(catalogSvc, trackerSvc, hub)
	server.Handler = NewRouter(apiHandler, cfg.WebAppDir)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s...", cfg.ServerAddr)
		log.Println("Manage albums via /api/albums, sessions via /api/sessions")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
