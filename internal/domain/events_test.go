package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeInbound_Move(t *testing.T) {
	raw := []byte(`{"type":"move","data":{"source":"e7","target":"e8","promotion":"n"}}`)

	ev, err := DecodeInbound("c1", raw)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	mv, ok := ev.(MoveRequest)
	if !ok {
		t.Fatalf("ожидался MoveRequest, получили %T", ev)
	}
	if mv.ConnID != "c1" || mv.Source != "e7" || mv.Target != "e8" || mv.Promotion != "n" {
		t.Fatalf("неверно разобран ход: %+v", mv)
	}
}

func TestDecodeInbound_JoinDefaultsName(t *testing.T) {
	for _, raw := range []string{
		`{"type":"join_game"}`,
		`{"type":"join_game","data":{}}`,
		`{"type":"join_game","data":null}`,
	} {
		ev, err := DecodeInbound("c1", []byte(raw))
		if err != nil {
			t.Fatalf("%s: неожиданная ошибка: %v", raw, err)
		}
		join := ev.(JoinGame)
		if join.Name != DefaultPlayerName {
			t.Fatalf("%s: ожидалось имя по умолчанию, получили %q", raw, join.Name)
		}
	}
}

func TestDecodeInbound_Errors(t *testing.T) {
	cases := []struct {
		raw  string
		want error
	}{
		{`not json`, ErrMalformedEvent},
		{`{"type":"move","data":"e2e4"}`, ErrMalformedEvent},
		{`{"type":"connect"}`, ErrUnknownEvent},
		{`{"type":"chat","data":{"text":"hi"}}`, ErrUnknownEvent},
	}
	for _, tc := range cases {
		_, err := DecodeInbound("c1", []byte(tc.raw))
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: ожидалась ошибка %v, получили %v", tc.raw, tc.want, err)
		}
	}
}

func TestEncode_BoardUpdateOmitsUnsetFields(t *testing.T) {
	b, err := Encode(BoardUpdate{Snapshot: Snapshot{
		FEN:       "fen",
		Turn:      ColorWhite,
		Analytics: Analytics{History: []int{0}, Score: 0},
	}})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	var msg struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(b, &msg); err != nil {
		t.Fatalf("не удалось разобрать: %v", err)
	}
	if msg.Type != EventBoardUpdate {
		t.Fatalf("ожидался тип %s, получили %s", EventBoardUpdate, msg.Type)
	}
	for _, k := range []string{"status", "winner", "last_move"} {
		if _, ok := msg.Data[k]; ok {
			t.Fatalf("поле %s не должно присутствовать", k)
		}
	}
	if msg.Data["fen"] != "fen" || msg.Data["turn"] != "white" {
		t.Fatalf("снимок не развернут в payload: %v", msg.Data)
	}
}

func TestEncode_EmptyStatusIsKept(t *testing.T) {
	status := ""
	b, err := Encode(BoardUpdate{Status: &status})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	var msg struct {
		Data map[string]any `json:"data"`
	}
	_ = json.Unmarshal(b, &msg)
	if v, ok := msg.Data["status"]; !ok || v != "" {
		t.Fatalf("пустой статус должен передаваться явно, получили %v", msg.Data)
	}
}

func TestColorOpposite(t *testing.T) {
	if ColorWhite.Opposite() != ColorBlack || ColorBlack.Opposite() != ColorWhite {
		t.Fatalf("Opposite работает неверно")
	}
}
