package session

import (
	"sync"

	"lan_chess/internal/domain"
	"lan_chess/internal/game"
)

// Store владеет авторитетным состоянием сессии. Все изменения проходят
// через его методы; внешние записи невозможны.
type Store struct {
	mu sync.RWMutex

	newBoard    func() game.Oracle
	board       game.Oracle
	evalHistory []int

	roles       map[domain.ConnID]domain.Role
	provisional domain.ConnID // первый вошедший, ожидающий жеребьевки

	connections int
}

// NewStore создает состояние; newBoard вызывается при старте и каждом сбросе
func NewStore(newBoard func() game.Oracle) *Store {
	if newBoard == nil {
		newBoard = game.StandardOracle
	}
	return &Store{
		newBoard:    newBoard,
		board:       newBoard(),
		evalHistory: []int{0},
		roles:       make(map[domain.ConnID]domain.Role),
	}
}

// Snapshot возвращает копию внешнего представления
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() domain.Snapshot {
	history := make([]int, len(s.evalHistory))
	copy(history, s.evalHistory)
	return domain.Snapshot{
		FEN:  s.board.Position(),
		Turn: sideColor(s.board.SideToMove()),
		Analytics: domain.Analytics{
			History: history,
			Score:   history[len(history)-1],
		},
		PlayersCount: s.connections,
	}
}

// Connect учитывает новое транспортное соединение
func (s *Store) Connect() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections++
	return s.connections
}

// Disconnect освобождает роль соединения и уменьшает счетчик (не ниже 0)
func (s *Store) Disconnect(id domain.ConnID) (domain.Role, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, had := s.roles[id]
	if had {
		delete(s.roles, id)
	}
	if s.provisional == id {
		s.provisional = ""
	}
	if s.connections > 0 {
		s.connections--
	}
	return role, s.connections
}

// Reset возвращает доску и историю оценок к началу; роли сохраняются
func (s *Store) Reset() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = s.newBoard()
	s.evalHistory = []int{0}
	return s.snapshotLocked()
}

// Role возвращает роль соединения, если она назначена
func (s *Store) Role(id domain.ConnID) (domain.Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roles[id]
	return r, ok
}

func sideColor(c game.Color) domain.Color {
	if c == game.Black {
		return domain.ColorBlack
	}
	return domain.ColorWhite
}
