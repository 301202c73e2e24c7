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

	"contestjam/internal/api"
	"contestjam/internal/app/service"
	"contestjam/internal/common/security"
	"contestjam/internal/domain/repository"
	"contestjam/internal/platform/cache"
	"contestjam/internal/platform/config"
	"contestjam/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	problemRepo := repository.NewPgProblemRepository(database.DB)
	partRepo := repository.NewPgPartRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)
	scoreRepo := repository.NewPgScoreRepository(database.DB)

	// 6. Initialize Services
	cfg := config.AppConfig
	authService := service.NewAuthService(userRepo)
	problemService := service.NewProblemService(problemRepo, partRepo)
	partService := service.NewPartService(partRepo, problemRepo)
	submissionService := service.NewSubmissionService(submissionRepo, partRepo, userRepo, cfg.MaxSubmissionBytes)
	scoreService := service.NewScoreService(
		scoreRepo,
		submissionRepo,
		cache.NewRedisLocker(cache.RDB),
		cache.NewRedisScoreboardCache(cache.RDB),
		cfg.ScoreWorkers,
		time.Duration(cfg.ScoreLockTTLSeconds)*time.Second,
		time.Duration(cfg.ScoreboardCacheTTLSeconds)*time.Second,
	)

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(authService, problemService, partService, submissionService, scoreService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
