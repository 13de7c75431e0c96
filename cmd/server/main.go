package main

import (
	"context"
	"log"
	"net/http"

	"github.com/foodiehub/api/internal/cart"
	"github.com/foodiehub/api/internal/config"
	"github.com/foodiehub/api/internal/database"
	"github.com/foodiehub/api/internal/router"
	"github.com/foodiehub/api/internal/ws"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to create connection pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")

	queries := database.New(pool)
	carts := cart.NewStore()

	hub := ws.NewHub()
	go hub.Run()

	r := router.New(cfg, queries, carts, hub)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
