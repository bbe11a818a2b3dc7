package session

import (
	"errors"
	"strings"
	"testing"

	"lan_chess/internal/domain"
	"lan_chess/internal/game"
)

func move(src, dst string) domain.MoveRequest {
	return domain.MoveRequest{ConnID: "c", Source: src, Target: dst}
}

func TestApplyMove_OpeningPawnPush(t *testing.T) {
	s := NewStore(nil)

	res, err := s.ApplyMove(move("e2", "e4"))
	if err != nil {
		t.Fatalf("ход e2e4 должен быть принят: %v", err)
	}
	if res.Snapshot.Turn != domain.ColorBlack {
		t.Fatalf("после хода белых очередь черных, получили %s", res.Snapshot.Turn)
	}
	if got := res.Snapshot.Analytics.History; len(got) != 2 || got[0] != 0 || got[1] != 0 {
		t.Fatalf("ожидалась история [0 0], получили %v", got)
	}
	if res.Status != "" || res.Winner != nil || res.Finished != nil {
		t.Fatalf("обычный ход не меняет статус: %+v", res)
	}
	if res.LastMove != (domain.LastMove{Source: "e2", Target: "e4"}) {
		t.Fatalf("неверный last_move: %+v", res.LastMove)
	}
}

func TestApplyMove_RejectedLeavesStateUnchanged(t *testing.T) {
	cases := []domain.MoveRequest{
		move("e2", "e9"),
		move("", ""),
		move("e2e4", ""),
		move("e7", "e5"), // не очередь черных
		move("e2", "e5"),
		{Source: "e2", Target: "e4", Promotion: "x"}, // e2e4 все равно допустим
	}
	for _, req := range cases[:len(cases)-1] {
		s := NewStore(nil)
		before := s.Snapshot()

		_, err := s.ApplyMove(req)
		if !errors.Is(err, ErrIllegalMove) {
			t.Fatalf("%+v: ожидалась ErrIllegalMove, получили %v", req, err)
		}
		after := s.Snapshot()
		if after.FEN != before.FEN || len(after.Analytics.History) != 1 {
			t.Fatalf("%+v: состояние изменилось после отказа", req)
		}
	}

	s := NewStore(nil)
	if _, err := s.ApplyMove(cases[len(cases)-1]); err != nil {
		t.Fatalf("лишняя подсказка превращения не мешает обычному ходу: %v", err)
	}
}

func TestApplyMove_AutoPromotion(t *testing.T) {
	s := NewStore(fromFEN(t, "8/P7/8/8/8/8/8/k6K w - - 0 1"))

	res, err := s.ApplyMove(move("a7", "a8"))
	if err != nil {
		t.Fatalf("ход на последнюю горизонталь без фигуры должен превращаться в ферзя: %v", err)
	}
	if res.Played.Promotion != game.PromoteQueen {
		t.Fatalf("ожидалось превращение в ферзя, получили %q", res.Played.Promotion)
	}
	if !strings.HasPrefix(res.Snapshot.FEN, "Q7/") {
		t.Fatalf("ожидался ферзь на a8: %s", res.Snapshot.FEN)
	}
	// у черных только король: оценка равна ферзю
	if res.Snapshot.Analytics.Score != 90 {
		t.Fatalf("ожидалась оценка 90, получили %d", res.Snapshot.Analytics.Score)
	}
}

func TestApplyMove_PromotionHint(t *testing.T) {
	s := NewStore(fromFEN(t, "8/P7/8/8/8/8/8/k6K w - - 0 1"))

	res, err := s.ApplyMove(domain.MoveRequest{Source: "a7", Target: "a8", Promotion: "N"})
	if err != nil {
		t.Fatalf("превращение в коня должно быть принято: %v", err)
	}
	if res.Played.Promotion != "n" {
		t.Fatalf("ожидался конь, получили %q", res.Played.Promotion)
	}
	if !strings.HasPrefix(res.Snapshot.FEN, "N7/") {
		t.Fatalf("ожидался конь на a8: %s", res.Snapshot.FEN)
	}
}

func TestApplyMove_Checkmate(t *testing.T) {
	s := NewStore(nil)
	for _, m := range [][2]string{{"f2", "f3"}, {"e7", "e5"}, {"g2", "g4"}} {
		if _, err := s.ApplyMove(move(m[0], m[1])); err != nil {
			t.Fatalf("ход %v не принят: %v", m, err)
		}
	}

	res, err := s.ApplyMove(move("d8", "h4"))
	if err != nil {
		t.Fatalf("матующий ход не принят: %v", err)
	}
	if res.Winner == nil || *res.Winner != domain.ColorBlack {
		t.Fatalf("победить должны черные, получили %v", res.Winner)
	}
	if !strings.Contains(res.Status, "Checkmate") || !strings.Contains(res.Status, "Black") {
		t.Fatalf("неверный статус: %q", res.Status)
	}
	if res.Snapshot.Analytics.Score != -game.CheckmateScore {
		t.Fatalf("ожидалась оценка -9999, получили %d", res.Snapshot.Analytics.Score)
	}
	if res.Finished == nil {
		t.Fatalf("ожидалась запись завершенной партии")
	}
	if res.Finished.Result != "0-1" || res.Finished.Method != "checkmate" || res.Finished.Plies != 4 || res.Finished.ID == "" {
		t.Fatalf("неверная запись партии: %+v", res.Finished)
	}
	if res.Finished.Winner != domain.ColorBlack {
		t.Fatalf("неверный победитель в записи: %s", res.Finished.Winner)
	}
}

func TestApplyMove_CheckAndStalemate(t *testing.T) {
	s := NewStore(nil)
	for _, m := range [][2]string{{"e2", "e4"}, {"f7", "f6"}} {
		if _, err := s.ApplyMove(move(m[0], m[1])); err != nil {
			t.Fatalf("ход %v не принят: %v", m, err)
		}
	}
	res, err := s.ApplyMove(move("d1", "h5"))
	if err != nil {
		t.Fatalf("шах не принят: %v", err)
	}
	if res.Status != StatusCheck || res.Winner != nil {
		t.Fatalf("ожидался шах, получили %+v", res)
	}

	s = NewStore(fromFEN(t, "k7/8/1Q6/8/8/8/8/7K w - - 0 1"))
	res, err = s.ApplyMove(move("b6", "c7"))
	if err != nil {
		t.Fatalf("ход не принят: %v", err)
	}
	if res.Status != StatusStalemate || res.Winner != nil {
		t.Fatalf("ожидался пат, получили %+v", res)
	}
	if res.Finished == nil || res.Finished.Result != "1/2-1/2" {
		t.Fatalf("пат должен завершать партию ничьей: %+v", res.Finished)
	}
}

func TestApplyMove_HistoryTracksPlies(t *testing.T) {
	s := NewStore(nil)
	line := [][2]string{
		{"e2", "e4"}, {"e7", "e5"}, {"g1", "f3"}, {"b8", "c6"},
		{"f1", "b5"}, {"a7", "a6"}, {"b5", "c6"}, {"d7", "c6"},
	}
	for i, m := range line {
		res, err := s.ApplyMove(move(m[0], m[1]))
		if err != nil {
			t.Fatalf("ход %d %v не принят: %v", i, m, err)
		}
		h := res.Snapshot.Analytics.History
		if len(h) != i+2 || h[0] != 0 {
			t.Fatalf("после %d ходов ожидалась история длины %d с нулем в начале, получили %v", i+1, i+2, h)
		}
		if res.Snapshot.Analytics.Score != h[len(h)-1] {
			t.Fatalf("score должен совпадать с последней оценкой")
		}
	}
	// размен слона на коня: материал равен
	if got := s.Snapshot().Analytics.Score; got != 0 {
		t.Fatalf("ожидалась оценка 0, получили %d", got)
	}
}

func TestApplyMove_DrawFinishesOnce(t *testing.T) {
	s := NewStore(fromFEN(t, "k7/8/8/8/2N5/8/1n6/7K w - - 0 1"))

	// конь против голого короля - ничья по недостатку материала
	res, err := s.ApplyMove(move("c4", "b2"))
	if err != nil {
		t.Fatalf("взятие не принято: %v", err)
	}
	if res.Status != StatusDraw || res.Finished == nil {
		t.Fatalf("взятие должно завершить партию ничьей: %+v", res)
	}
	if res.Finished.Result != "1/2-1/2" || res.Finished.Winner != "" || res.Finished.Plies != 1 {
		t.Fatalf("неверная запись партии: %+v", res.Finished)
	}

	for _, m := range [][2]string{{"a8", "a7"}, {"h1", "g1"}, {"a7", "a8"}, {"g1", "h1"}} {
		res, err := s.ApplyMove(move(m[0], m[1]))
		if err != nil {
			t.Fatalf("ход %v после ничьей не принят: %v", m, err)
		}
		if res.Finished != nil {
			t.Fatalf("ход %v после ничьей не должен создавать новую запись: %+v", m, res.Finished)
		}
	}
	if got := len(s.Snapshot().Analytics.History); got != 6 {
		t.Fatalf("ожидалось 6 оценок, получили %d", got)
	}
}
