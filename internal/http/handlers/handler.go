package handlers

import (
	"context"

	"lan_chess/internal/domain"
)

// SnapshotSource отдает снимок сессии только для чтения
type SnapshotSource interface {
	Snapshot() domain.Snapshot
}

// GameLister читает архив завершенных партий
type GameLister interface {
	ListRecent(ctx context.Context, limit int) ([]*domain.FinishedGame, error)
	GetByID(ctx context.Context, id string) (*domain.FinishedGame, error)
}

type Handler struct {
	State   SnapshotSource
	Games   GameLister // nil, если архив не настроен
	Version string
}

func NewHandler(state SnapshotSource, games GameLister, version string) *Handler {
	return &Handler{State: state, Games: games, Version: version}
}
