package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"lan_chess/internal/domain"
	"lan_chess/internal/logger"
	"lan_chess/internal/metrics"
)

var ErrCoordinatorStopped = errors.New("session coordinator stopped")

const (
	defaultBuffer  = 256
	archiveTimeout = 5 * time.Second
)

// Recorder сохраняет завершенные партии
type Recorder interface {
	Create(ctx context.Context, g *domain.FinishedGame) error
}

type Option func(*Coordinator)

// WithCoin подменяет монету жеребьевки (для тестов - детерминированную)
func WithCoin(f CoinFlipper) Option {
	return func(c *Coordinator) { c.flip = f }
}

func WithRecorder(r Recorder) Option {
	return func(c *Coordinator) { c.recorder = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

func WithBuffer(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.events = make(chan domain.Inbound, n)
		}
	}
}

// WithStrictTurns разрешает ход только игроку, чья сейчас очередь.
// По умолчанию ходить может любое соединение.
func WithStrictTurns(strict bool) Option {
	return func(c *Coordinator) { c.strictTurns = strict }
}

// Coordinator обрабатывает входящие события по одному, до конца каждое.
// Единственный писатель Store; рассылки отражают состояние на момент
// окончания обработки события.
type Coordinator struct {
	store       *Store
	out         *Broadcaster
	flip        CoinFlipper
	recorder    Recorder
	strictTurns bool
	log         *slog.Logger

	events    chan domain.Inbound
	done      chan struct{}
	archiveWG sync.WaitGroup
}

func NewCoordinator(store *Store, t Transport, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:  store,
		out:    NewBroadcaster(t),
		events: make(chan domain.Inbound, defaultBuffer),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.flip == nil {
		c.flip = NewCoin(0)
	}
	if c.log == nil {
		c.log = logger.With("component", "session")
	}
	return c
}

// Store возвращает состояние только для чтения снимков
func (c *Coordinator) Store() *Store {
	return c.store
}

// Run - цикл обработки событий; возвращается при отмене ctx
func (c *Coordinator) Run(ctx context.Context) error {
	defer close(c.done)
	c.log.Info("session coordinator started")

	for {
		select {
		case <-ctx.Done():
			c.archiveWG.Wait()
			c.log.Info("session coordinator stopped")
			return ctx.Err()
		case ev := <-c.events:
			c.Handle(ev)
		}
	}
}

// Submit ставит событие в очередь координатора
func (c *Coordinator) Submit(ctx context.Context, ev domain.Inbound) error {
	select {
	case <-c.done:
		return ErrCoordinatorStopped
	default:
	}

	select {
	case c.events <- ev:
		return nil
	case <-c.done:
		return ErrCoordinatorStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Handle синхронно обрабатывает одно событие. Вызывать только из Run
// или из тестов, где нет параллельного Run.
func (c *Coordinator) Handle(ev domain.Inbound) {
	if ev == nil {
		return
	}
	start := time.Now()
	name := eventName(ev)
	defer func() {
		metrics.EventDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	c.log.Debug("event", "type", name, "conn", ev.Conn())

	switch e := ev.(type) {
	case domain.Connect:
		c.handleConnect(e)
	case domain.Disconnect:
		c.handleDisconnect(e)
	case domain.JoinGame:
		c.handleJoin(e)
	case domain.RequestSync:
		c.out.SyncTo(e.ConnID, c.store.Snapshot())
	case domain.MoveRequest:
		c.handleMove(e)
	case domain.Reset:
		c.handleReset(e)
	default:
		c.log.Warn("unhandled event", "type", fmt.Sprintf("%T", ev))
	}
}

func (c *Coordinator) handleConnect(e domain.Connect) {
	n := c.store.Connect()
	metrics.Connections.Set(float64(n))

	c.out.SyncTo(e.ConnID, c.store.Snapshot())
	c.out.PlayerCount(n)
	c.log.Info("client connected", "conn", e.ConnID, "total", n)
}

func (c *Coordinator) handleDisconnect(e domain.Disconnect) {
	role, n := c.store.Disconnect(e.ConnID)
	metrics.Connections.Set(float64(n))

	c.out.PlayerCount(n)
	c.log.Info("client disconnected", "conn", e.ConnID, "role", role, "total", n)
}

func (c *Coordinator) handleJoin(e domain.JoinGame) {
	a := c.store.AssignRole(e.ConnID, c.flip)
	if a.Repeat {
		c.log.Debug("repeat join ignored", "conn", e.ConnID, "role", a.Role)
		return
	}
	metrics.Joins.WithLabelValues(string(a.Role)).Inc()

	for _, n := range a.Notify {
		c.out.RoleAssigned(n.ConnID, n.Color)
	}
	c.out.Joined(e.ConnID, e.Name)
	c.log.Info("player joined", "conn", e.ConnID, "name", e.Name, "role", a.Role)
}

func (c *Coordinator) handleMove(e domain.MoveRequest) {
	if c.strictTurns && !c.ownsTurn(e.ConnID) {
		c.reject(e, errors.New("not the submitter's turn"))
		return
	}

	res, err := c.store.ApplyMove(e)
	if err != nil {
		c.reject(e, err)
		return
	}
	metrics.Moves.WithLabelValues(metrics.MoveAccepted).Inc()

	c.out.MoveApplied(res)
	c.log.Info("move applied", "conn", e.ConnID, "uci", res.Played.UCI(), "score", res.Snapshot.Analytics.Score, "status", res.Status)

	if res.Finished != nil {
		metrics.GamesFinished.WithLabelValues(res.Finished.Method).Inc()
		c.archive(res.Finished)
	}
}

func (c *Coordinator) reject(e domain.MoveRequest, err error) {
	metrics.Moves.WithLabelValues(metrics.MoveRejected).Inc()
	c.log.Warn("invalid move received", "conn", e.ConnID, "source", e.Source, "target", e.Target, "promotion", e.Promotion, "error", err)
	c.out.Rejected(e.ConnID, InvalidMoveMessage)
}

func (c *Coordinator) ownsTurn(id domain.ConnID) bool {
	role, ok := c.store.Role(id)
	if !ok || !role.IsPlayer() {
		return false
	}
	return role == domain.RoleFor(c.store.Snapshot().Turn)
}

func (c *Coordinator) handleReset(e domain.Reset) {
	snap := c.store.Reset()
	metrics.Resets.Inc()

	c.out.NewGame(snap)
	c.log.Info("board reset", "conn", e.ConnID)
}

// archive пишет партию вне критической секции
func (c *Coordinator) archive(g *domain.FinishedGame) {
	if c.recorder == nil {
		return
	}
	c.archiveWG.Add(1)
	go func() {
		defer c.archiveWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := c.recorder.Create(ctx, g); err != nil {
			c.log.Error("archive finished game failed", "game_id", g.ID, "error", err)
			return
		}
		c.log.Info("finished game archived", "game_id", g.ID, "result", g.Result, "method", g.Method)
	}()
}

func eventName(ev domain.Inbound) string {
	switch ev.(type) {
	case domain.Connect:
		return "connect"
	case domain.Disconnect:
		return "disconnect"
	case domain.JoinGame:
		return domain.EventJoinGame
	case domain.RequestSync:
		return domain.EventRequestSync
	case domain.MoveRequest:
		return domain.EventMove
	case domain.Reset:
		return domain.EventReset
	}
	return "unknown"
}
