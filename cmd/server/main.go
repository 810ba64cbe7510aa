package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/example/clothes-shop/internal/config"
	"github.com/example/clothes-shop/internal/es"
	"github.com/example/clothes-shop/internal/handlers"
	"github.com/example/clothes-shop/internal/handlers/cart"
	orderhandlers "github.com/example/clothes-shop/internal/handlers/order"
	"github.com/example/clothes-shop/internal/logging"
	"github.com/example/clothes-shop/internal/middleware/loggingmw"
	"github.com/example/clothes-shop/internal/mykafka"
	orderservice "github.com/example/clothes-shop/internal/service/order"
	"github.com/example/clothes-shop/internal/service/token"
	httpserver "github.com/example/clothes-shop/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	prod := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	tokenService := &token.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}
	orderSvc := orderservice.NewService(db, prod, logger)

	deps := httpserver.Deps{
		DB:               db,
		AuthHandler:      &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: prod},
		ProductHandler:   &handlers.ProductHandler{DB: db, Producer: prod, ES: esClient, Index: "product"},
		InventoryHandler: &handlers.InventoryHandler{DB: db},
		CartHandler:      &cart.CartHandler{DB: db, Producer: prod},
		OrderHandler:     &orderhandlers.OrderHandler{Service: orderSvc},
		SearchHandler:    handlers.NewSearchHandler(esClient, "product"),
		TokenService:     tokenService,
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
