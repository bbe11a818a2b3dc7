package ws

import (
	"context"
	"log/slog"
	"sync"

	"lan_chess/internal/domain"
	"lan_chess/internal/logger"
	"lan_chess/internal/metrics"
)

// Dispatcher принимает входящие события сессии
type Dispatcher interface {
	Submit(ctx context.Context, ev domain.Inbound) error
}

// Hub - реестр живых соединений. Реализует session.Transport.
type Hub struct {
	mu      sync.RWMutex
	clients map[domain.ConnID]*Client
	log     *slog.Logger
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[domain.ConnID]*Client),
		log:     logger.With("component", "ws"),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	h.log.Debug("client registered", "conn", c.ID)
}

// Unregister удаляет клиента и закрывает его очередь отправки.
// Повторный вызов безопасен.
func (h *Hub) Unregister(id domain.ConnID) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		close(c.Send)
	}
	h.mu.Unlock()
	if ok {
		h.log.Debug("client unregistered", "conn", id)
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll закрывает все соединения при остановке сервера
func (h *Hub) CloseAll() {
	h.mu.RLock()
	conns := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if c.Conn != nil {
			_ = c.Conn.Close()
		}
	}
}

func (h *Hub) Unicast(id domain.ConnID, ev domain.Outbound) {
	data, ok := h.encode(ev)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, found := h.clients[id]
	if !found {
		h.log.Debug("unicast to unknown client", "conn", id, "type", ev.EventType())
		return
	}
	h.deliver(c, data, ev.EventType())
}

func (h *Hub) Broadcast(ev domain.Outbound) {
	h.BroadcastExcept("", ev)
}

func (h *Hub) BroadcastExcept(id domain.ConnID, ev domain.Outbound) {
	data, ok := h.encode(ev)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for cid, c := range h.clients {
		if cid == id {
			continue
		}
		h.deliver(c, data, ev.EventType())
	}
}

func (h *Hub) encode(ev domain.Outbound) ([]byte, bool) {
	data, err := domain.Encode(ev)
	if err != nil {
		h.log.Error("encode outbound event", "type", ev.EventType(), "error", err)
		return nil, false
	}
	return data, true
}

// deliver не блокирует цикл сессии: медленный клиент теряет кадр.
// Вызывать под h.mu.RLock, чтобы Unregister не закрыл канал во время отправки.
func (h *Hub) deliver(c *Client, data []byte, typ string) {
	select {
	case c.Send <- data:
	default:
		metrics.DroppedMessages.Inc()
		h.log.Warn("send buffer full, dropping frame", "conn", c.ID, "type", typ)
	}
}
