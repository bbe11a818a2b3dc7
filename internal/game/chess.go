package game

import (
	"errors"
	"fmt"

	"github.com/notnil/chess"
)

var ErrIllegal = errors.New("illegal move")

// Board - адаптер над github.com/notnil/chess
type Board struct {
	g *chess.Game
}

// NewBoard создает доску в стартовой позиции
func NewBoard() *Board {
	return &Board{g: chess.NewGame()}
}

// NewBoardFromFEN создает доску из произвольной позиции
func NewBoardFromFEN(fen string) (*Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}
	return &Board{g: chess.NewGame(opt)}, nil
}

// StandardOracle - фабрика для сессии
func StandardOracle() Oracle {
	return NewBoard()
}

// ищет ход среди допустимых; неразбираемые поля просто не совпадут
func (b *Board) find(m Move) *chess.Move {
	for _, vm := range b.g.ValidMoves() {
		if vm.S1().String() == m.From && vm.S2().String() == m.To && vm.Promo().String() == m.Promotion {
			return vm
		}
	}
	return nil
}

func (b *Board) IsLegal(m Move) bool {
	return b.find(m) != nil
}

func (b *Board) Apply(m Move) error {
	vm := b.find(m)
	if vm == nil {
		return fmt.Errorf("%w: %s", ErrIllegal, m.UCI())
	}
	return b.g.Move(vm)
}

func (b *Board) Status() Status {
	switch b.g.Method() {
	case chess.Checkmate:
		return StatusCheckmate
	case chess.Stalemate:
		return StatusStalemate
	}
	if b.g.Outcome() == chess.Draw {
		return StatusDraw
	}

	moves := b.g.Moves()
	if len(moves) > 0 && moves[len(moves)-1].HasTag(chess.Check) {
		return StatusCheck
	}
	return StatusOngoing
}

func (b *Board) SideToMove() Color {
	return fromChessColor(b.g.Position().Turn())
}

func (b *Board) Position() string {
	return b.g.FEN()
}

func (b *Board) Pieces() []Piece {
	sq := b.g.Position().Board().SquareMap()
	out := make([]Piece, 0, len(sq))
	for _, p := range sq {
		kind, ok := kinds[p.Type()]
		if !ok {
			continue
		}
		out = append(out, Piece{Kind: kind, Color: fromChessColor(p.Color())})
	}
	return out
}

func (b *Board) Moves() []string {
	moves := b.g.Moves()
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	return out
}

func (b *Board) Result() (string, string) {
	return string(b.g.Outcome()), methodName(b.g.Method())
}

func (b *Board) PGN() string {
	return b.g.String()
}

var kinds = map[chess.PieceType]PieceKind{
	chess.Pawn:   Pawn,
	chess.Knight: Knight,
	chess.Bishop: Bishop,
	chess.Rook:   Rook,
	chess.Queen:  Queen,
	chess.King:   King,
}

func fromChessColor(c chess.Color) Color {
	if c == chess.Black {
		return Black
	}
	return White
}

func methodName(m chess.Method) string {
	switch m {
	case chess.Checkmate:
		return "checkmate"
	case chess.Stalemate:
		return "stalemate"
	case chess.InsufficientMaterial:
		return "insufficient_material"
	case chess.FivefoldRepetition:
		return "fivefold_repetition"
	case chess.SeventyFiveMoveRule:
		return "seventy_five_move_rule"
	case chess.ThreefoldRepetition:
		return "threefold_repetition"
	case chess.FiftyMoveRule:
		return "fifty_move_rule"
	}
	return ""
}
