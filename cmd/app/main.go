package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"lan_chess/internal/config"
	"lan_chess/internal/db"
	httpServer "lan_chess/internal/http"
	"lan_chess/internal/http/handlers"
	"lan_chess/internal/http/middleware"
	"lan_chess/internal/logger"
	"lan_chess/internal/repository"
	"lan_chess/internal/session"
	"lan_chess/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Version устанавливается при сборке
var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load failed", "error", err)
	}

	// Инициализация структурированного логгера
	logger.Init(cfg.LogLevel, cfg.JSONLogs())
	log := logger.Get()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// архив партий опционален
	var games *repository.GameRepository
	if cfg.DatabaseURL != "" {
		dbPool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("database connect failed", "error", err)
		}
		defer dbPool.Close()
		if err := db.Migrate(ctx, dbPool); err != nil {
			logger.Fatal("database migrate failed", "error", err)
		}
		games = repository.NewGameRepository(dbPool)
		log.Info("game archive enabled")
	} else {
		log.Warn("DATABASE_URL not set - finished games will not be archived")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, rate limiter falls back to memory", "addr", cfg.RedisAddr, "error", err)
		}
	}

	store := session.NewStore(nil)
	hub := ws.NewHub()

	opts := []session.Option{
		session.WithCoin(session.NewCoin(cfg.CoinSeed)),
		session.WithBuffer(cfg.EventBuffer),
		session.WithStrictTurns(cfg.StrictTurns),
	}
	h := handlers.NewHandler(store, nil, Version)
	if games != nil {
		opts = append(opts, session.WithRecorder(games))
		h.Games = games
	}
	coord := session.NewCoordinator(store, hub, opts...)

	coordDone := make(chan struct{})
	go func() {
		defer close(coordDone)
		coord.Run(ctx)
	}()

	gin.SetMode(cfg.GinMode)
	r := gin.Default()

	// CORS для фронта на другом origin
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (cfg.AllowedOrigin == "" || origin == cfg.AllowedOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, httpServer.Deps{
		Handler: h,
		WS:      ws.NewWSHandler(ctx, hub, coord, cfg.AllowedOrigin),
		Limiter: middleware.NewRateLimiter(rdb, cfg.RateLimit, cfg.RateLimitWindow),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort, "version", Version, "strict_turns", cfg.StrictTurns)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	// вебсокеты hijacked, Shutdown их не закрывает
	log.Info("closing websockets", "clients", hub.Count())
	hub.CloseAll()

	// координатор дожидается записи архива
	cancel()
	select {
	case <-coordDone:
	case <-shutdownCtx.Done():
		log.Warn("coordinator did not stop in time")
	}

	log.Info("server exited")
}
