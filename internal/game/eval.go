package game

// CheckmateScore - оценка решенной партии, не зависит от материала
const CheckmateScore = 9999

var pieceValues = map[PieceKind]int{
	Pawn:   10,
	Knight: 30,
	Bishop: 30,
	Rook:   50,
	Queen:  90,
	King:   900,
}

// Evaluate считает материал: белые со знаком плюс, черные со знаком минус,
// независимо от очереди хода. При мате возвращает ±CheckmateScore
// в пользу выигравшей стороны.
func Evaluate(o Oracle) int {
	if o.Status() == StatusCheckmate {
		if o.SideToMove() == Black {
			return CheckmateScore
		}
		return -CheckmateScore
	}

	score := 0
	for _, p := range o.Pieces() {
		if p.Color == White {
			score += pieceValues[p.Kind]
		} else {
			score -= pieceValues[p.Kind]
		}
	}
	return score
}
