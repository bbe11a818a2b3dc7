package ws

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"lan_chess/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 256
	submitTimeout  = 2 * time.Second
)

type Client struct {
	ID   domain.ConnID
	Conn *websocket.Conn
	Send chan []byte

	hub      *Hub
	dispatch Dispatcher
	log      *slog.Logger
}

func NewClient(conn *websocket.Conn, hub *Hub, dispatch Dispatcher) *Client {
	id := domain.ConnID(uuid.NewString())
	return &Client{
		ID:       id,
		Conn:     conn,
		Send:     make(chan []byte, sendBuffer),
		hub:      hub,
		dispatch: dispatch,
		log:      hub.log.With("conn", id),
	}
}

// Run регистрирует клиента, сообщает сессии о подключении и читает кадры
// до разрыва соединения
func (c *Client) Run(ctx context.Context) {
	// регистрируем до connect, чтобы снимок дошел до нового клиента
	c.hub.Register(c)
	go c.writePump()

	c.submit(ctx, domain.Connect{ConnID: c.ID})
	c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c.ID)
		// сессия должна узнать об отключении даже при остановке сервера
		c.submit(context.Background(), domain.Disconnect{ConnID: c.ID})
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("read failed", "error", err)
			}
			return
		}

		ev, err := domain.DecodeInbound(c.ID, msg)
		if err != nil {
			c.log.Warn("bad frame", "error", err, "bytes", len(msg))
			continue
		}
		c.submit(ctx, ev)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Warn("write failed", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) submit(ctx context.Context, ev domain.Inbound) {
	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()
	if err := c.dispatch.Submit(ctx, ev); err != nil {
		lvl := slog.LevelWarn
		if errors.Is(err, context.Canceled) {
			lvl = slog.LevelDebug
		}
		c.log.Log(ctx, lvl, "submit event failed", "error", err)
	}
}
