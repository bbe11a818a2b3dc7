package session

import "lan_chess/internal/domain"

// Transport доставляет события соединениям
type Transport interface {
	Unicast(id domain.ConnID, ev domain.Outbound)
	Broadcast(ev domain.Outbound)
	BroadcastExcept(id domain.ConnID, ev domain.Outbound)
}

// Broadcaster формирует исходящие события поверх транспорта
type Broadcaster struct {
	t Transport
}

func NewBroadcaster(t Transport) *Broadcaster {
	return &Broadcaster{t: t}
}

// SyncTo отправляет снимок только одному соединению
func (b *Broadcaster) SyncTo(id domain.ConnID, snap domain.Snapshot) {
	b.t.Unicast(id, domain.BoardUpdate{Snapshot: snap})
}

// MoveApplied рассылает всем результат принятого хода
func (b *Broadcaster) MoveApplied(res MoveResult) {
	status := res.Status
	last := res.LastMove
	b.t.Broadcast(domain.BoardUpdate{
		Snapshot: res.Snapshot,
		Status:   &status,
		Winner:   res.Winner,
		LastMove: &last,
	})
}

// NewGame рассылает всем свежий снимок после сброса
func (b *Broadcaster) NewGame(snap domain.Snapshot) {
	status := StatusNewGame
	b.t.Broadcast(domain.BoardUpdate{Snapshot: snap, Status: &status})
}

func (b *Broadcaster) PlayerCount(n int) {
	b.t.Broadcast(domain.PlayerCount{Count: n})
}

func (b *Broadcaster) RoleAssigned(id domain.ConnID, c domain.Color) {
	b.t.Unicast(id, domain.StartGameInfo{Color: c})
}

// Joined уведомляет всех, кроме вошедшего
func (b *Broadcaster) Joined(id domain.ConnID, name string) {
	b.t.BroadcastExcept(id, domain.PlayerJoined{Name: name})
}

func (b *Broadcaster) Rejected(id domain.ConnID, msg string) {
	b.t.Unicast(id, domain.InvalidMove{Error: msg})
}
