package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"lan_chess/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// архив завершенных партий
type GameRepository struct {
	db *pgxpool.Pool
}

func NewGameRepository(db *pgxpool.Pool) *GameRepository {
	return &GameRepository{db: db}
}

// сохраняет завершенную партию; повторная запись с тем же id игнорируется
func (r *GameRepository) Create(ctx context.Context, g *domain.FinishedGame) error {
	evalJSON, err := json.Marshal(g.EvalHistory)
	if err != nil {
		return fmt.Errorf("marshal eval history: %w", err)
	}

	var winner *string
	if g.Winner != "" {
		w := string(g.Winner)
		winner = &w
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO finished_games (id, result, method, winner, pgn, final_fen, eval_history, plies, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`, g.ID, g.Result, g.Method, winner, g.PGN, g.FinalFEN, evalJSON, g.Plies, g.FinishedAt)
	return err
}

// последние партии, новые первыми
func (r *GameRepository) ListRecent(ctx context.Context, limit int) ([]*domain.FinishedGame, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, result, method, COALESCE(winner, ''), pgn, final_fen, eval_history, plies, finished_at
		FROM finished_games
		ORDER BY finished_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGames(rows)
}

// возвращает партию по id, pgx.ErrNoRows если не найдена
func (r *GameRepository) GetByID(ctx context.Context, id string) (*domain.FinishedGame, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, result, method, COALESCE(winner, ''), pgn, final_fen, eval_history, plies, finished_at
		FROM finished_games
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games, err := scanGames(rows)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, pgx.ErrNoRows
	}
	return games[0], nil
}

func scanGames(rows pgx.Rows) ([]*domain.FinishedGame, error) {
	var games []*domain.FinishedGame
	for rows.Next() {
		var (
			g        domain.FinishedGame
			winner   string
			evalJSON []byte
		)
		if err := rows.Scan(&g.ID, &g.Result, &g.Method, &winner, &g.PGN, &g.FinalFEN, &evalJSON, &g.Plies, &g.FinishedAt); err != nil {
			return nil, err
		}
		g.Winner = domain.Color(winner)
		if len(evalJSON) > 0 {
			if err := json.Unmarshal(evalJSON, &g.EvalHistory); err != nil {
				return nil, fmt.Errorf("unmarshal eval history: %w", err)
			}
		}
		games = append(games, &g)
	}
	return games, rows.Err()
}
