package game

import "strings"

type Color int

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

type PieceKind int

const (
	Pawn PieceKind = iota + 1
	Knight
	Bishop
	Rook
	Queen
	King
)

type Piece struct {
	Kind  PieceKind
	Color Color
}

// Status - терминальное состояние позиции после последнего хода
type Status int

const (
	StatusOngoing Status = iota
	StatusCheck
	StatusCheckmate
	StatusStalemate
	StatusDraw // автоматическая ничья (материал, повторение, 75 ходов)
)

// Finished сообщает, закончена ли партия
func (s Status) Finished() bool {
	return s == StatusCheckmate || s == StatusStalemate || s == StatusDraw
}

// PromoteQueen - код сильнейшей фигуры превращения
const PromoteQueen = "q"

// Move - кандидат хода в координатной записи
type Move struct {
	From      string
	To        string
	Promotion string // односимвольный код фигуры, "" если нет
}

// NewMove нормализует регистр полей
func NewMove(from, to, promotion string) Move {
	return Move{
		From:      strings.ToLower(strings.TrimSpace(from)),
		To:        strings.ToLower(strings.TrimSpace(to)),
		Promotion: strings.ToLower(strings.TrimSpace(promotion)),
	}
}

// UCI возвращает ход в длинной алгебраической записи
func (m Move) UCI() string {
	return m.From + m.To + m.Promotion
}

// Oracle знает правила игры. Сессия не реализует правила сама.
type Oracle interface {
	IsLegal(m Move) bool
	Apply(m Move) error
	Status() Status
	SideToMove() Color

	// переносимая запись позиции (FEN)
	Position() string
	Pieces() []Piece

	// сыгранные ходы, результат и PGN для архива
	Moves() []string
	Result() (outcome, method string)
	PGN() string
}
