package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/evhart/dayhub/internal/config"
	"github.com/evhart/dayhub/internal/database"
	"github.com/evhart/dayhub/internal/handler"
	"github.com/evhart/dayhub/internal/middleware"
	"github.com/evhart/dayhub/internal/queue"
	"github.com/evhart/dayhub/internal/repository"
	"github.com/evhart/dayhub/internal/router"
	queue_publisher "github.com/evhart/dayhub/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Optional Redis: cache and rate limiting degrade to no-ops
	// when the client comes back nil.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Print("redis unavailable; response cache and rate limiting disabled")
	}

	accounts := repository.NewAccountRepo(db)
	sessions := repository.NewSessionRepo(db, time.Duration(cfg.SessionTTLDays)*24*time.Hour)
	todos := repository.NewTodoRepo(db)
	blogs := repository.NewBlogRepo(db)
	events := queue_publisher.New()

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAccount(e,
		handler.NewAccountHandler(accounts, sessions, todos, blogs, events),
		handler.NewSessionHandler(sessions),
		sessions)
	router.RegisterBlog(e,
		handler.NewBlogHandler(blogs, events),
		sessions,
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterTodo(e, handler.NewTodoHandler(todos), sessions)

	// Background consumer mirrors published activity into logs/.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
