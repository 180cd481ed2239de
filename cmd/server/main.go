package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/jpcardenas/tienda/internal/auth"
	"github.com/jpcardenas/tienda/internal/config"
	"github.com/jpcardenas/tienda/internal/db"
	"github.com/jpcardenas/tienda/internal/es"
	"github.com/jpcardenas/tienda/internal/httpserver"
	"github.com/jpcardenas/tienda/internal/logging"
	"github.com/jpcardenas/tienda/internal/models"
	"github.com/jpcardenas/tienda/internal/mykafka"
	"github.com/jpcardenas/tienda/internal/repo"
	"github.com/jpcardenas/tienda/internal/service"
)

func main() {
	cfg := config.Load()
	cfg.MustValidate()

	log := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("database open failed", "error", err)
		os.Exit(1)
	}
	if err := database.AutoMigrate(models.All()...); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
		log.Info("kafka producer ready", "brokers", cfg.KafkaBrokers)
	} else {
		log.Warn("kafka disabled, events will not be published")
	}

	var searchHandler *httpserver.SearchHandler
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Error("elasticsearch unavailable", "error", err)
			os.Exit(1)
		}
		searchHandler = &httpserver.SearchHandler{ES: esClient, Index: cfg.ESIndex}
	} else {
		log.Warn("elasticsearch disabled, /search will answer 503")
	}

	r := repo.New(database)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(httpserver.RequestLogger(log))

	httpserver.Register(e, httpserver.Deps{
		AuthHandler: &httpserver.AuthHandler{
			Repo:          r,
			JWTSecret:     cfg.JWTSecret,
			RefreshSecret: cfg.RefreshSecret,
			Producer:      producer,
		},
		CartHandler: &httpserver.CartHandler{
			Svc:      &service.CartService{Repo: r},
			Producer: producer,
		},
		OrderHandler: &httpserver.OrderHandler{
			Svc:      service.NewOrderService(r, cfg.OrderCodePrefix),
			Producer: producer,
		},
		ProductHandler: &httpserver.ProductHandler{Repo: r},
		RefDataHandler: &httpserver.RefDataHandler{Repo: r},
		SearchHandler:  searchHandler,
		AuthMW:         &auth.Middleware{DB: database, JWTSecret: cfg.JWTSecret},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info("server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("kafka close error", "error", err)
		}
	}
	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("database close error", "error", err)
		}
	}
}
