package hand_session

import (
	"errors"
	"fmt"
	"time"

	"github.com/weedbox/holdemtable/betting_round"
	"github.com/weedbox/holdemtable/deck"
	"github.com/weedbox/holdemtable/seat_ring"
)

var (
	ErrHandNotRunning = errors.New("hand session: hand is not running")
	ErrHandStarted    = errors.New("hand session: hand already started")
)

type Stage string

const (
	Stage_Idle     Stage = "idle"
	Stage_Preflop  Stage = "preflop"
	Stage_Flop     Stage = "flop"
	Stage_Turn     Stage = "turn"
	Stage_River    Stage = "river"
	Stage_Showdown Stage = "showdown"
	Stage_Done     Stage = "done"
)

type Status string

const (
	Status_AwaitingAction Status = "awaiting_action"
	Status_StreetComplete Status = "street_complete"
	Status_HandComplete   Status = "hand_complete"
)

const (
	Notice_Win     betting_round.NoticeKind = "win"
	Notice_Aborted betting_round.NoticeKind = "aborted"
)

const HoleCardCount = 2

type Setting struct {
	HandNumber      int    `json:"hand_number"`
	DealerID        string `json:"dealer_id"`
	SmallBlind      int64  `json:"small_blind"`
	MinDenomination int64  `json:"min_denomination"`
}

type SessionInfo struct {
	HandNumber   int                  `json:"hand_number"`
	Stage        Stage                `json:"stage"`
	Board        []deck.Card          `json:"board"`
	Street       betting_round.Street `json:"street"`
	BettingRound int                  `json:"betting_round"`
	Bet          int64                `json:"bet"`
	MinRaise     int64                `json:"min_raise"`
	TurnSeatID   string               `json:"turn_seat_id"`
	TurnStartAt  int64                `json:"turn_start_at"`
	Pot          int64                `json:"pot"`
}

// Session plays one hand on the seats of a ring, from the deal to the award.
type Session struct {
	ring        *seat_ring.Ring
	deck        *deck.Deck
	setting     Setting
	stage       Stage
	board       []deck.Card
	pot         *betting_round.Pot
	round       *betting_round.Round
	roundNumber int
	turnKey     string
	turnStartAt int64
	pending     []betting_round.Notice
	result      *HandResult
	now         func() time.Time
}

func NewSession(ring *seat_ring.Ring, d *deck.Deck, setting Setting) *Session {
	return &Session{
		ring:    ring,
		deck:    d,
		setting: setting,
		stage:   Stage_Idle,
		board:   make([]deck.Card, 0, 5),
		pot:     &betting_round.Pot{},
		pending: make([]betting_round.Notice, 0),
		now:     time.Now,
	}
}

/*
Start 開局
  - 洗牌並標記參與本手的玩家
  - 從 Dealer 左手邊開始一次一張發兩張手牌
  - 翻前下大小盲
*/
func (s *Session) Start() error {
	if s.stage != Stage_Idle {
		return ErrHandStarted
	}

	s.deck.Reset()

	if s.ring.CountActive() < 2 {
		s.abort()
		return seat_ring.ErrNoActivePlayers
	}

	first, err := s.ring.Next(s.setting.DealerID)
	if err != nil {
		s.abort()
		return err
	}
	players := s.ring.ActiveSeats(first)

	for _, p := range players {
		p.IsInHand = true
		p.Statistics.HandsPlayed++
	}

	for i := 0; i < HoleCardCount; i++ {
		for _, p := range players {
			c, err := s.deck.Draw()
			if err != nil {
				s.abort()
				return err
			}
			p.HoleCards = append(p.HoleCards, c)
		}
	}

	s.startRound(Stage_Preflop, betting_round.Street_Preflop)
	return nil
}

func (s *Session) startRound(stage Stage, street betting_round.Street) {
	s.stage = stage
	s.roundNumber++
	s.round = betting_round.NewRound(s.ring, s.pot, betting_round.Setting{
		Street:          street,
		SmallBlind:      s.setting.SmallBlind,
		MinDenomination: s.setting.MinDenomination,
		DealerID:        s.setting.DealerID,
	})
	s.pending = append(s.pending, s.round.Begin()...)
}

/*
Advance 推進牌局
  - 需要玩家動作時回傳 Status_AwaitingAction
  - 每條街結束回傳 Status_StreetComplete
  - 牌局結束回傳 Status_HandComplete
*/
func (s *Session) Advance() (Status, []betting_round.Notice) {
	notices := s.pending
	s.pending = make([]betting_round.Notice, 0)

	if s.stage == Stage_Idle || s.stage == Stage_Done {
		return Status_HandComplete, notices
	}

	state, n := s.round.Advance()
	notices = append(notices, n...)

	if state == betting_round.State_AwaitingAction {
		key := fmt.Sprintf("%d:%s", s.roundNumber, s.round.Turn())
		if key != s.turnKey {
			s.turnKey = key
			s.turnStartAt = s.now().Unix()
		}
		return Status_AwaitingAction, notices
	}
	s.turnKey = ""

	if s.ring.CountActive() <= 1 {
		notices = append(notices, s.awardUncontested()...)
		return Status_HandComplete, notices
	}

	var err error
	switch s.stage {
	case Stage_Preflop:
		err = s.dealBoard(3)
		if err == nil {
			s.startRound(Stage_Flop, betting_round.Street_Flop)
		}
	case Stage_Flop:
		err = s.dealBoard(1)
		if err == nil {
			s.startRound(Stage_Turn, betting_round.Street_Turn)
		}
	case Stage_Turn:
		err = s.dealBoard(1)
		if err == nil {
			s.startRound(Stage_River, betting_round.Street_River)
		}
	default:
		notices = append(notices, s.showdown()...)
		return Status_HandComplete, notices
	}

	if err != nil {
		// out of cards, settle on the board dealt so far
		notices = append(notices, s.showdown()...)
		return Status_HandComplete, notices
	}

	return Status_StreetComplete, notices
}

func (s *Session) dealBoard(n int) error {
	cards, err := s.deck.DrawN(n)
	if err != nil {
		return err
	}
	s.board = append(s.board, cards...)
	return nil
}

// abort ends the hand and gives every committed chip back.
func (s *Session) abort() {
	for _, seat := range s.ring.Seats(s.setting.DealerID) {
		seat.Stack += seat.Committed
		seat.Bet = 0
		seat.Committed = 0
		seat.IsInHand = false
	}
	s.pot.Total = 0

	s.stage = Stage_Done
	s.result = &HandResult{
		HandNumber: s.setting.HandNumber,
		Board:      append([]deck.Card(nil), s.board...),
		Aborted:    true,
		Winners:    make([]*Winner, 0),
		Revealed:   make([]*RevealedHand, 0),
	}
}

func (s *Session) Submit(seatID string, total int64) error {
	if !s.IsRunning() {
		return ErrHandNotRunning
	}
	return s.round.Submit(seatID, total)
}

func (s *Session) Fold(seatID string) error {
	if !s.IsRunning() {
		return ErrHandNotRunning
	}
	return s.round.Fold(seatID)
}

func (s *Session) Timeout(seatID string) error {
	if !s.IsRunning() {
		return ErrHandNotRunning
	}
	return s.round.Timeout(seatID)
}

func (s *Session) IsRunning() bool {
	return s.stage != Stage_Idle && s.stage != Stage_Done
}

func (s *Session) Stage() Stage {
	return s.stage
}

// Turn is the seat the hand is waiting for, empty when nobody has to act.
func (s *Session) Turn() string {
	if !s.IsRunning() || s.round.State() != betting_round.State_AwaitingAction {
		return ""
	}
	return s.round.Turn()
}

func (s *Session) CallAmount(seatID string) int64 {
	if !s.IsRunning() {
		return 0
	}
	return s.round.CallAmount(seatID)
}

func (s *Session) Pot() int64 {
	return s.pot.Total
}

func (s *Session) Board() []deck.Card {
	return append([]deck.Card(nil), s.board...)
}

func (s *Session) Info() SessionInfo {
	info := SessionInfo{
		HandNumber:   s.setting.HandNumber,
		Stage:        s.stage,
		Board:        s.Board(),
		BettingRound: s.roundNumber,
		Pot:          s.pot.Total,
	}

	if s.round != nil {
		info.Street = s.round.Street()
		info.Bet = s.round.Bet()
		info.MinRaise = s.round.MinRaise()
	}

	if turn := s.Turn(); turn != "" {
		info.TurnSeatID = turn
		info.TurnStartAt = s.turnStartAt
	}

	return info
}

// Result is nil until the hand is over.
func (s *Session) Result() *HandResult {
	return s.result
}
