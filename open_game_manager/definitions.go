package open_game_manager

import (
	"errors"
	"sync"

	"github.com/weedbox/syncsaga"
)

var (
	ErrParticipantNotFound = errors.New("open_game_manager: participant not found")
)

// OpenGameManager holds the pause between two hands. The next hand opens
// once every seated participant is ready or the pause times out.
type OpenGameManager interface {
	Ready(seatID string) error
	Setup(handCount int, seatIDs []string)
	Stop()
	GetState() OpenGameState
}

type openGameManager struct {
	mu              sync.Mutex
	onOpenGameReady func(state OpenGameState)
	rg              *syncsaga.ReadyGroup
	state           *OpenGameState
}

type OpenGameOption struct {
	Timeout         int // seconds
	OnOpenGameReady func(state OpenGameState)
}

type OpenGameState struct {
	Timeout      int                             `json:"timeout"`
	HandCount    int                             `json:"hand_count"`
	Participants map[string]*OpenGameParticipant `json:"participants"` // key: seat_id
}

type OpenGameParticipant struct {
	SeatID  string `json:"seat_id"`
	Index   int    `json:"index"`
	IsReady bool   `json:"is_ready"`
}
