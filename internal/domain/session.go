package domain

import "time"

// ConnID идентифицирует одно транспортное соединение
type ConnID string

// Цвет фигур / сторона
type Color string

const (
	ColorWhite Color = "white"
	ColorBlack Color = "black"
)

// Opposite возвращает противоположную сторону
func (c Color) Opposite() Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// Роль соединения в сессии
type Role string

const (
	RoleWhite     Role = "white"
	RoleBlack     Role = "black"
	RoleSpectator Role = "spectator"
)

// IsPlayer сообщает, занимает ли роль место за доской
func (r Role) IsPlayer() bool {
	return r == RoleWhite || r == RoleBlack
}

// RoleFor возвращает роль игрока для цвета
func RoleFor(c Color) Role {
	if c == ColorBlack {
		return RoleBlack
	}
	return RoleWhite
}

type Analytics struct {
	History []int `json:"history"`
	Score   int   `json:"score"`
}

// Snapshot - внешнее представление состояния сессии
type Snapshot struct {
	FEN          string    `json:"fen"`
	Turn         Color     `json:"turn"`
	Analytics    Analytics `json:"analytics"`
	PlayersCount int       `json:"players_count"`
}

type LastMove struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Результат партии для архива
type FinishedGame struct {
	ID          string    `db:"id" json:"id"`
	Result      string    `db:"result" json:"result"` // 1-0, 0-1, 1/2-1/2
	Method      string    `db:"method" json:"method"`
	Winner      Color     `db:"winner" json:"winner,omitempty"`
	PGN         string    `db:"pgn" json:"pgn"`
	FinalFEN    string    `db:"final_fen" json:"final_fen"`
	EvalHistory []int     `db:"eval_history" json:"eval_history"`
	Plies       int       `db:"plies" json:"plies"`
	FinishedAt  time.Time `db:"finished_at" json:"finished_at"`
}
