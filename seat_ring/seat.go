package seat_ring

import (
	"github.com/weedbox/holdemtable/deck"
)

const (
	UnsetValue = -1
)

type SeatStatistics struct {
	HandsPlayed int   `json:"hands_played"`
	HandsWon    int   `json:"hands_won"`
	BiggestWin  int64 `json:"biggest_win"`
	BiggestLoss int64 `json:"biggest_loss"`
}

// Seat is a player sitting at the table. Amounts are in cents.
type Seat struct {
	ID         string         `json:"id"`
	PlayerID   string         `json:"player_id"`
	Name       string         `json:"name"`
	Contact    string         `json:"contact"`
	Stack      int64          `json:"stack"`       // chips behind
	Bet        int64          `json:"bet"`         // committed on the current street
	Committed  int64          `json:"committed"`   // committed during the current hand
	BuyIn      int64          `json:"buy_in"`      // total bought in by this seat, net of cash-outs
	Intent     int64          `json:"intent"`      // pending increment, UnsetValue when none
	IsActive   bool           `json:"is_active"`   // takes part in turn sequencing
	IsFolded   bool           `json:"is_folded"`   // folded during the current hand
	IsChecked  bool           `json:"is_checked"`  // checked on the current street
	IsSitOut   bool           `json:"is_sit_out"`  // asked to skip hands
	IsInHand   bool           `json:"is_in_hand"`  // was dealt into the current hand
	HoleCards  []deck.Card    `json:"hole_cards"`
	Action     string         `json:"action"`
	Statistics SeatStatistics `json:"statistics"`
}

func NewSeat(id, playerID, name string, buyIn int64) *Seat {
	return &Seat{
		ID:        id,
		PlayerID:  playerID,
		Name:      name,
		Stack:     buyIn,
		BuyIn:     buyIn,
		Intent:    UnsetValue,
		HoleCards: make([]deck.Card, 0, 2),
	}
}

func (s *Seat) HasIntent() bool {
	return s.Intent != UnsetValue
}

func (s *Seat) ClearIntent() {
	s.Intent = UnsetValue
}

// NetGain is the seat result so far, stack against money brought in.
func (s *Seat) NetGain() int64 {
	return s.Stack - s.BuyIn
}

// CanPlay tells whether the seat may be dealt into the next hand.
func (s *Seat) CanPlay() bool {
	return !s.IsSitOut && s.Stack > 0
}

// Commit moves chips from the stack into the current street bet.
func (s *Seat) Commit(amount int64) {
	s.Stack -= amount
	s.Bet += amount
	s.Committed += amount
}

func (s *Seat) Fold() {
	s.IsActive = false
	s.IsFolded = true
	s.IsChecked = false
	s.Action = "Fold"
	s.ClearIntent()
}

// ResetForHand clears per-hand state and re-activates seats able to play.
func (s *Seat) ResetForHand() {
	s.Bet = 0
	s.Committed = 0
	s.IsFolded = false
	s.IsChecked = false
	s.IsInHand = false
	s.Action = ""
	s.HoleCards = make([]deck.Card, 0, 2)
	s.ClearIntent()
	s.IsActive = s.CanPlay()
}

func (s *Seat) Clone() *Seat {
	c := *s
	c.HoleCards = append([]deck.Card(nil), s.HoleCards...)
	return &c
}
