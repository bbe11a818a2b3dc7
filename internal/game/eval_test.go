package game

import "testing"

type stubOracle struct {
	Oracle
	status Status
	turn   Color
	pieces []Piece
}

func (s stubOracle) Status() Status    { return s.status }
func (s stubOracle) SideToMove() Color { return s.turn }
func (s stubOracle) Pieces() []Piece   { return s.pieces }

func TestEvaluate_StartIsBalanced(t *testing.T) {
	if got := Evaluate(NewBoard()); got != 0 {
		t.Fatalf("ожидалась оценка 0, получили %d", got)
	}
}

func TestEvaluate_SignIsAbsolute(t *testing.T) {
	pieces := []Piece{
		{Kind: King, Color: White},
		{Kind: King, Color: Black},
		{Kind: Rook, Color: White},
		{Kind: Pawn, Color: Black},
	}
	for _, turn := range []Color{White, Black} {
		got := Evaluate(stubOracle{turn: turn, pieces: pieces})
		if got != 40 {
			t.Fatalf("ход %v: ожидалось 40, получили %d", turn, got)
		}
	}
}

func TestEvaluate_CheckmateSentinel(t *testing.T) {
	cases := []struct {
		loser Color
		want  int
	}{
		{Black, CheckmateScore},
		{White, -CheckmateScore},
	}
	for _, tc := range cases {
		o := stubOracle{
			status: StatusCheckmate,
			turn:   tc.loser,
			pieces: []Piece{{Kind: Queen, Color: Black}},
		}
		if got := Evaluate(o); got != tc.want {
			t.Fatalf("проиграли %v: ожидалось %d, получили %d", tc.loser, tc.want, got)
		}
	}
}

func TestEvaluate_AfterCapture(t *testing.T) {
	b := NewBoard()
	play(t, b, "e2e4", "d7d5", "e4d5")
	if got := Evaluate(b); got != 10 {
		t.Fatalf("после взятия пешки ожидалось 10, получили %d", got)
	}
}
