package ws

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSHandler поднимает websocket и запускает клиента
type WSHandler struct {
	ctx      context.Context
	Hub      *Hub
	Dispatch Dispatcher
	upgrader websocket.Upgrader
}

// NewWSHandler; ctx живет столько же, сколько сервер.
// Пустой allowedOrigin разрешает любой Origin (LAN).
func NewWSHandler(ctx context.Context, hub *Hub, dispatch Dispatcher, allowedOrigin string) *WSHandler {
	return &WSHandler{
		ctx:      ctx,
		Hub:      hub,
		Dispatch: dispatch,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

func (h *WSHandler) HandleWS() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade уже ответил клиенту ошибкой
			h.Hub.log.Warn("ws upgrade failed", "remote", c.ClientIP(), "error", err)
			return
		}

		client := NewClient(conn, h.Hub, h.Dispatch)
		h.Hub.log.Info("ws upgraded", "conn", client.ID, "remote", c.ClientIP())
		go client.Run(h.ctx)
	}
}
