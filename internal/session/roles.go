package session

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"

	"lan_chess/internal/domain"
)

// CoinFlipper - источник честной монеты; true означает, что белые
// достаются первому вошедшему
type CoinFlipper func() bool

// NewCoin возвращает детерминированную монету для заданного seed.
// seed == 0 берется из crypto/rand.
func NewCoin(seed int64) CoinFlipper {
	if seed == 0 {
		seed = randomSeed()
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
	return func() bool {
		return rng.IntN(2) == 0
	}
}

func randomSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// Assignment - итог запроса join_game
type Assignment struct {
	Role   domain.Role
	Repeat bool // соединение уже имело роль, ничего не изменилось
	// кому отправить start_game_info, в порядке входа
	Notify []Notice
}

type Notice struct {
	ConnID domain.ConnID
	Color  domain.Color
}

// AssignRole назначает роль по запросу join_game.
//
// Первый вошедший получает белых предварительно. Второй запускает
// жеребьевку, после которой цвета обоих фиксированы до их отключения.
// Если после жеребьевки одно место освободилось, новый участник занимает
// его. Остальные становятся зрителями. Повторный join ничего не меняет.
func (s *Store) AssignRole(id domain.ConnID, flip CoinFlipper) Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.roles[id]; ok {
		return Assignment{Role: r, Repeat: true}
	}

	white, black := s.seatsLocked()

	switch {
	case s.provisional != "":
		first := s.provisional
		firstColor := domain.ColorWhite
		if !flip() {
			firstColor = domain.ColorBlack
		}
		s.roles[first] = domain.RoleFor(firstColor)
		s.roles[id] = domain.RoleFor(firstColor.Opposite())
		s.provisional = ""
		return Assignment{
			Role: s.roles[id],
			Notify: []Notice{
				{ConnID: first, Color: firstColor},
				{ConnID: id, Color: firstColor.Opposite()},
			},
		}

	case white == "" && black == "":
		s.roles[id] = domain.RoleWhite
		s.provisional = id
		return Assignment{Role: domain.RoleWhite}

	case white == "" || black == "":
		vacant := domain.ColorWhite
		if black == "" {
			vacant = domain.ColorBlack
		}
		s.roles[id] = domain.RoleFor(vacant)
		return Assignment{
			Role:   s.roles[id],
			Notify: []Notice{{ConnID: id, Color: vacant}},
		}
	}

	s.roles[id] = domain.RoleSpectator
	return Assignment{Role: domain.RoleSpectator}
}

func (s *Store) seatsLocked() (white, black domain.ConnID) {
	for id, r := range s.roles {
		switch r {
		case domain.RoleWhite:
			white = id
		case domain.RoleBlack:
			black = id
		}
	}
	return white, black
}
