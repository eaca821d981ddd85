package store

import (
	"context"
	"errors"

	"github.com/weedbox/holdemtable/deck"
	"github.com/weedbox/holdemtable/hand_session"
	"github.com/weedbox/holdemtable/open_game_manager"
	"github.com/weedbox/holdemtable/seat_ring"
	"github.com/weedbox/holdemtable/settlement"
)

var (
	ErrNotFound       = errors.New("store: record not found")
	ErrEmptyChangeSet = errors.New("store: empty change set")
	ErrMissingTableID = errors.New("store: missing table id")
)

// MetaRecord mirrors the fixed table settings.
type MetaRecord struct {
	Name            string `json:"name"`
	SmallBlind      int64  `json:"small_blind"`
	MinBuyIn        int64  `json:"min_buy_in"`
	MinDenomination int64  `json:"min_denomination"`
	ActionTime      int    `json:"action_time"`
	PauseTime       int    `json:"pause_time"`
	MaxSeatCount    int    `json:"max_seat_count"`
}

type TableRecord struct {
	ID           string                           `json:"id"`
	Meta         MetaRecord                       `json:"meta"`
	Status       string                           `json:"status"`
	StartAt      int64                            `json:"start_at"`
	Bank         int64                            `json:"bank"`
	Pot          int64                            `json:"pot"`
	DealerID     string                           `json:"dealer_id"`
	HostID       string                           `json:"host_id"`
	HandsPlayed  int                              `json:"hands_played"`
	Board        []deck.Card                      `json:"board"`
	Ledger       []*settlement.PlayerLog          `json:"ledger"`
	Pause        *open_game_manager.OpenGameState `json:"pause,omitempty"` // readiness between hands
	Report       *settlement.Report               `json:"report,omitempty"`
	UpdateSerial int64                            `json:"update_serial"`
	UpdateAt     int64                            `json:"update_at"`
}

type SeatRecord struct {
	TableID string         `json:"table_id"`
	NextID  string         `json:"next_id"` // successor in the seat ring
	Seat    seat_ring.Seat `json:"seat"`
}

type SessionRecord struct {
	TableID string                   `json:"table_id"`
	Info    hand_session.SessionInfo `json:"info"`
	Result  *hand_session.HandResult `json:"result,omitempty"`
}

// ChangeSet is written all or nothing.
type ChangeSet struct {
	TableID      string         `json:"table_id"`
	Table        *TableRecord   `json:"table,omitempty"`
	Seats        []*SeatRecord  `json:"seats,omitempty"`
	RemovedSeats []string       `json:"removed_seats,omitempty"`
	Session      *SessionRecord `json:"session,omitempty"`
}

func (cs ChangeSet) IsEmpty() bool {
	return cs.Table == nil && len(cs.Seats) == 0 && len(cs.RemovedSeats) == 0 && cs.Session == nil
}

type Store interface {
	LoadTable(ctx context.Context, tableID string) (*TableRecord, error)
	LoadSeat(ctx context.Context, tableID string, seatID string) (*SeatRecord, error)
	LoadSession(ctx context.Context, tableID string) (*SessionRecord, error)
	Commit(ctx context.Context, cs ChangeSet) error
}
