package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/joblink-iscim/backend/internal/config"
	"github.com/joblink-iscim/backend/internal/events"
	"github.com/joblink-iscim/backend/internal/httpserver"
	"github.com/joblink-iscim/backend/internal/logging"
	"github.com/joblink-iscim/backend/internal/middleware"
	"github.com/joblink-iscim/backend/internal/provider"
	"github.com/joblink-iscim/backend/internal/repo"
	"github.com/joblink-iscim/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.DB_HOST, "DB_HOST")
	config.MustNonEmpty(cfg.DB_NAME, "DB_NAME")

	logger := logging.New(cfg.LogLevel, "joblink-api")

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	producer := events.NewProducer(cfg.KAFKA_ADDRESS)
	defer producer.Close()

	gormRepo := repo.GormRepo{DB: db}
	authSvc := &service.AuthService{
		Repo:      gormRepo,
		Producer:  producer,
		Providers: provider.NewRegistry(cfg.SocialSecrets),
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		ProfileHandler: &httpserver.ProfileHTTP{Svc: &service.ProfileService{Repo: gormRepo}},
		AdminHandler:   &httpserver.AdminHTTP{Svc: &service.AdminService{Repo: gormRepo, Producer: producer}},
		AuthMW:         middleware.NewSessionAuth(authSvc),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
