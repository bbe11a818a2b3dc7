package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownEvent   = errors.New("unknown event type")
	ErrMalformedEvent = errors.New("malformed event payload")
)

// имена событий на проводе
const (
	EventJoinGame    = "join_game"
	EventRequestSync = "request_sync"
	EventMove        = "move"
	EventReset       = "reset"

	EventBoardUpdate       = "board_update"
	EventUpdatePlayerCount = "update_player_count"
	EventStartGameInfo     = "start_game_info"
	EventPlayerJoined      = "player_joined"
	EventInvalidMove       = "invalid_move"
)

const DefaultPlayerName = "Player"

// Message - конверт для всех сообщений websocket
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ---------- входящие ----------

// Inbound - событие, обрабатываемое координатором сессии
type Inbound interface {
	Conn() ConnID
}

type Connect struct{ ConnID ConnID }

type Disconnect struct{ ConnID ConnID }

type JoinGame struct {
	ConnID ConnID
	Name   string
}

type RequestSync struct{ ConnID ConnID }

type MoveRequest struct {
	ConnID    ConnID
	Source    string
	Target    string
	Promotion string
}

type Reset struct{ ConnID ConnID }

func (e Connect) Conn() ConnID     { return e.ConnID }
func (e Disconnect) Conn() ConnID  { return e.ConnID }
func (e JoinGame) Conn() ConnID    { return e.ConnID }
func (e RequestSync) Conn() ConnID { return e.ConnID }
func (e MoveRequest) Conn() ConnID { return e.ConnID }
func (e Reset) Conn() ConnID       { return e.ConnID }

// DecodeInbound разбирает кадр клиента. connect/disconnect приходят
// только от транспорта и здесь не принимаются.
func DecodeInbound(id ConnID, raw []byte) (Inbound, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	switch msg.Type {
	case EventJoinGame:
		var p struct {
			Name string `json:"name"`
		}
		if err := decodeData(msg.Data, &p); err != nil {
			return nil, err
		}
		if p.Name == "" {
			p.Name = DefaultPlayerName
		}
		return JoinGame{ConnID: id, Name: p.Name}, nil

	case EventRequestSync:
		return RequestSync{ConnID: id}, nil

	case EventMove:
		var p struct {
			Source    string `json:"source"`
			Target    string `json:"target"`
			Promotion string `json:"promotion"`
		}
		if err := decodeData(msg.Data, &p); err != nil {
			return nil, err
		}
		return MoveRequest{ConnID: id, Source: p.Source, Target: p.Target, Promotion: p.Promotion}, nil

	case EventReset:
		return Reset{ConnID: id}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, msg.Type)
}

func decodeData(data json.RawMessage, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return nil
}

// ---------- исходящие ----------

// Outbound - событие, отправляемое клиентам
type Outbound interface {
	EventType() string
}

// BoardUpdate несет снимок; Status/Winner/LastMove заполняются по ситуации
type BoardUpdate struct {
	Snapshot
	Status   *string   `json:"status,omitempty"`
	Winner   *Color    `json:"winner,omitempty"`
	LastMove *LastMove `json:"last_move,omitempty"`
}

type PlayerCount struct {
	Count int `json:"count"`
}

type StartGameInfo struct {
	Color Color `json:"color"`
}

type PlayerJoined struct {
	Name string `json:"name"`
}

type InvalidMove struct {
	Error string `json:"error"`
}

func (BoardUpdate) EventType() string   { return EventBoardUpdate }
func (PlayerCount) EventType() string   { return EventUpdatePlayerCount }
func (StartGameInfo) EventType() string { return EventStartGameInfo }
func (PlayerJoined) EventType() string  { return EventPlayerJoined }
func (InvalidMove) EventType() string   { return EventInvalidMove }

// Encode сериализует исходящее событие в конверт
func Encode(ev Outbound) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", ev.EventType(), err)
	}
	return json.Marshal(Message{Type: ev.EventType(), Data: data})
}
