package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/config"
	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/database"
	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/routes"
)

func main() {
	addr := flag.String("addr", "", "listen address (overrides PORT)")
	migrate := flag.Bool("migrate", true, "create the todos table on startup")
	flag.Parse()

	cfg := config.Load()
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if *migrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := db.Migrate(ctx)
		cancel()
		if err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	r := routes.SetupRouter(db, cfg.AllowOrigins)

	listen := cfg.Addr()
	if *addr != "" {
		listen = *addr
	}

	// サーバー起動
	log.Printf("Server listening on %s (driver=%s)...", listen, cfg.DBDriver)
	if err := r.Run(listen); err != nil {
		log.Fatal(err)
	}
}
