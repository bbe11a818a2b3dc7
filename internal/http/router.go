package http

import (
	"lan_chess/internal/http/handlers"
	"lan_chess/internal/http/middleware"
	"lan_chess/internal/ws"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Handler *handlers.Handler
	WS      *ws.WSHandler
	Limiter *middleware.RateLimiter // nil - без ограничений
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", d.Handler.Health)

	limited := r.Group("/")
	if d.Limiter != nil {
		limited.Use(d.Limiter.Middleware())
	}

	// вебсокет сессии
	limited.GET("/ws", d.WS.HandleWS())

	api := limited.Group("/api")
	{
		api.GET("/state", d.Handler.GetState)
		api.GET("/games", d.Handler.ListGames)
		api.GET("/games/:id", d.Handler.GetGame)
	}
}
