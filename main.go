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

	"github.com/afzalbekoribjonov/zzz/internal/api"
	"github.com/afzalbekoribjonov/zzz/internal/auth"
	"github.com/afzalbekoribjonov/zzz/internal/config"
	"github.com/afzalbekoribjonov/zzz/internal/database"
	"github.com/afzalbekoribjonov/zzz/internal/logger"
	"github.com/afzalbekoribjonov/zzz/internal/maintenance"
	"github.com/afzalbekoribjonov/zzz/internal/services"
	"github.com/afzalbekoribjonov/zzz/internal/storage"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up the attachment store
	files, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload directory: %v", err)
	}

	// Set up services
	mailer := services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	resetCodec := auth.NewResetTokenCodec(cfg.JWTSecret, 1*time.Hour)
	postService := services.NewPostService(db, files)
	userService := services.NewUserService(db, postService, mailer, resetCodec, cfg.AppBaseURL)
	followService := services.NewFollowService(db)
	feedService := services.NewFeedService(userService, postService, followService)

	// Set up and run the background attachment sweeper
	sweeper := maintenance.NewSweeper(db, files)
	go sweeper.Run()

	// Set up router
	router := api.NewRouter(userService, postService, followService, feedService, files)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	sweeper.Stop() // Stop the maintenance job

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
