package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/xDerniexD/nuzlocke-tracker/internal/adapter/dex"
	"github.com/xDerniexD/nuzlocke-tracker/internal/config"
	"github.com/xDerniexD/nuzlocke-tracker/internal/hub"
	"github.com/xDerniexD/nuzlocke-tracker/internal/service"
	"github.com/xDerniexD/nuzlocke-tracker/internal/store"
	v1 "github.com/xDerniexD/nuzlocke-tracker/internal/transport/http/v1"
	"github.com/xDerniexD/nuzlocke-tracker/internal/ws"
	"github.com/xDerniexD/nuzlocke-tracker/policy"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting nuzlocke tracker...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Dex URL: %s", cfg.DexURL)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize reference-data client
	dexClient := dex.NewClient(cfg.DexURL, cfg.DexTimeout)

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize hub and start its main loop
	h := hub.NewHub()
	go h.Run()

	// Initialize service
	svc := service.New(db, h, dexClient, policyEngine, cfg)

	// Initialize handlers
	apiHandler := v1.NewHandler(svc)
	wsServer := ws.NewServer(cfg, h, db)

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, "X-User-ID"},
	}))

	// Register routes
	apiHandler.RegisterRoutes(e)
	e.GET("/ws", wsServer.HandleWebSocket)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Nuzlocke tracker stopped")
}
