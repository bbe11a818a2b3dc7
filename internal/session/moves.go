package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lan_chess/internal/domain"
	"lan_chess/internal/game"
)

var ErrIllegalMove = errors.New("illegal move")

// тексты статуса, рассылаемые клиентам
const (
	StatusCheck     = "Check!"
	StatusStalemate = "Draw by stalemate!"
	StatusDraw      = "Draw!"
	StatusNewGame   = "New game started!"

	InvalidMoveMessage = "Illegal move or not your turn."
)

func checkmateStatus(winner domain.Color) string {
	if winner == domain.ColorWhite {
		return "Checkmate! White wins."
	}
	return "Checkmate! Black wins."
}

// MoveResult - состояние после принятого хода
type MoveResult struct {
	Snapshot domain.Snapshot
	Status   string
	Winner   *domain.Color
	LastMove domain.LastMove
	Played   game.Move
	// заполнен, если ход завершил партию
	Finished *domain.FinishedGame
}

// candidates возвращает кандидатов в порядке приоритета: обычный ход,
// ход с указанной фигурой превращения, автопревращение в ферзя
func candidates(req domain.MoveRequest) []game.Move {
	out := []game.Move{game.NewMove(req.Source, req.Target, "")}
	if req.Promotion != "" {
		out = append(out, game.NewMove(req.Source, req.Target, req.Promotion))
	}
	return append(out, game.NewMove(req.Source, req.Target, game.PromoteQueen))
}

// ApplyMove разрешает запрос в конкретный ход, применяет его и дописывает
// оценку. Очередь хода проверяет сам оракул: фигура не той стороны
// дает недопустимый ход. При ошибке состояние не меняется.
// Finished заполняется только ходом, который завершил партию.
func (s *Store) ApplyMove(req domain.MoveRequest) (MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// после автоматической ничьей оракул продолжает принимать ходы
	wasFinished := s.board.Status().Finished()

	var chosen game.Move
	found := false
	for _, c := range candidates(req) {
		if s.board.IsLegal(c) {
			chosen, found = c, true
			break
		}
	}
	if !found {
		return MoveResult{}, fmt.Errorf("%w: %s->%s promotion=%q", ErrIllegalMove, req.Source, req.Target, req.Promotion)
	}
	if err := s.board.Apply(chosen); err != nil {
		return MoveResult{}, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}

	score := game.Evaluate(s.board)
	s.evalHistory = append(s.evalHistory, score)

	res := MoveResult{
		LastMove: domain.LastMove{Source: req.Source, Target: req.Target},
		Played:   chosen,
	}

	st := s.board.Status()
	switch st {
	case game.StatusCheckmate:
		// победила сторона, которая не ходит
		w := sideColor(s.board.SideToMove()).Opposite()
		res.Winner = &w
		res.Status = checkmateStatus(w)
	case game.StatusStalemate:
		res.Status = StatusStalemate
	case game.StatusDraw:
		res.Status = StatusDraw
	case game.StatusCheck:
		res.Status = StatusCheck
	}

	res.Snapshot = s.snapshotLocked()
	if st.Finished() && !wasFinished {
		res.Finished = s.finishedLocked(res.Winner)
	}
	return res, nil
}

func (s *Store) finishedLocked(winner *domain.Color) *domain.FinishedGame {
	outcome, method := s.board.Result()
	history := make([]int, len(s.evalHistory))
	copy(history, s.evalHistory)

	fg := &domain.FinishedGame{
		ID:          uuid.NewString(),
		Result:      outcome,
		Method:      method,
		PGN:         s.board.PGN(),
		FinalFEN:    s.board.Position(),
		EvalHistory: history,
		Plies:       len(s.board.Moves()),
		FinishedAt:  time.Now().UTC(),
	}
	if winner != nil {
		fg.Winner = *winner
	}
	return fg
}
