// Package routesはroutingを行います。
package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/database"
	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/handlers"
	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/repositories"
	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/rpc"
	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/services"
)

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(db *database.DB, allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(gin.LoggerWithFormatter(accessLogFormatter))
	r.Use(gin.Recovery())

	// CORS対策
	config := cors.DefaultConfig()
	if len(allowOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = allowOrigins
	}
	config.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", RequestIDHeader}
	config.ExposeHeaders = []string{RequestIDHeader}
	r.Use(cors.New(config))

	// リポジトリ
	todoRepo := repositories.NewTodoRepository(db)

	// サービス
	todoService := services.NewTodoService(todoRepo)

	// ハンドラー
	todoHandler := handlers.NewTodoHandler(todoService)

	// RPC: /trpc/:procedure
	rpcRouter := rpc.NewRouter()
	todoHandler.RegisterProcedures(rpcRouter)
	rpcRouter.Mount(r.Group("/trpc"))

	// ルーティング
	r.GET("/api/hello", HelloHandler)
	r.GET("/api/dbcheck", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database connection failed", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Database connection is healthy"})
	})

	api := r.Group("/api")
	{
		api.GET("/todos", todoHandler.GetTodosHandler)
		api.POST("/todos", todoHandler.CreateTodoHandler)
		api.PATCH("/todos/:id", todoHandler.UpdateTodoHandler)
		api.DELETE("/todos/:id", todoHandler.DeleteTodoHandler)
	}

	return r
}

func HelloHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello from Go Backend!"})
}
