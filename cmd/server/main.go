package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mikeboe/pharma-news/pkg/config"
	"github.com/mikeboe/pharma-news/pkg/database"
	"github.com/mikeboe/pharma-news/pkg/research"
	"github.com/mikeboe/pharma-news/pkg/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := research.NewEngine(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to init engine", "error", err)
		os.Exit(1)
	}

	// Job archive: Postgres when configured, otherwise in memory
	var store server.JobStore
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.InitSchema(ctx); err != nil {
			logger.Error("Failed to initialize schema", "error", err)
			os.Exit(1)
		}
		store = db
	} else {
		logger.Info("DATABASE_URL not set, keeping jobs in memory")
		store = database.NewMemoryStore()
	}

	svc := server.NewService(engine, store, logger, cfg.RequestTimeout)
	handler := server.NewHandler(svc, cfg.RequestTimeout)

	// Web Server Setup
	r := gin.Default()

	// CORS Setup
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Length", "Mcp-Session-Id"},
	}))

	handler.RegisterRoutes(r)

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		logger.Error("Failed to start server", "error", err)
		os.Exit(1)
	}

	logger.Info("Server starting", "port", cfg.Port)
	if err := server.Serve(ctx, ln, r, svc, server.DefaultShutdownTimeout); err != nil {
		logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
