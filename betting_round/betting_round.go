package betting_round

import (
	"errors"
	"fmt"

	"github.com/weedbox/holdemtable/seat_ring"
	"github.com/weedbox/holdemtable/settlement"
)

var (
	ErrInvalidAction = errors.New("betting round: invalid action")
	ErrNotYourTurn   = fmt.Errorf("%w: not this seat's turn", ErrInvalidAction)
	ErrInvalidAmount = fmt.Errorf("%w: amount is not a multiple of the minimum denomination", ErrInvalidAction)
	ErrBelowBet      = fmt.Errorf("%w: amount below the chips already committed", ErrInvalidAction)
	ErrExceedsStack  = fmt.Errorf("%w: amount exceeds the stack", ErrInvalidAction)
	ErrBelowCall     = fmt.Errorf("%w: amount below the minimum call", ErrInvalidAction)
	ErrBelowMinRaise = fmt.Errorf("%w: raise below the minimum raise", ErrInvalidAction)
	ErrRoundComplete = errors.New("betting round: round is complete")
)

type Street string

const (
	Street_Preflop Street = "preflop"
	Street_Flop    Street = "flop"
	Street_Turn    Street = "turn"
	Street_River   Street = "river"
)

type State string

const (
	State_RoundActive    State = "round_active"
	State_AwaitingAction State = "awaiting_action"
	State_RoundComplete  State = "round_complete"
)

const (
	Action_SmallBlind = "Small Blind"
	Action_BigBlind   = "Big Blind"
	Action_Check      = "Check"
	Action_Call       = "Call"
	Action_Bet        = "Bet"
	Action_Raise      = "Raise"
	Action_AllIn      = "All In"
	Action_Fold       = "Fold"
	Action_AutoFold   = "Auto Fold"
)

// Pot receives the street bets when a round completes.
type Pot struct {
	Total int64 `json:"total"`
}

type Setting struct {
	Street          Street `json:"street"`
	SmallBlind      int64  `json:"small_blind"`
	MinDenomination int64  `json:"min_denomination"`
	DealerID        string `json:"dealer_id"`
}

type Round struct {
	ring           *seat_ring.Ring
	pot            *Pot
	setting        Setting
	state          State
	bet            int64
	minRaise       int64
	turn           string
	bigBlindID     string
	bigBlindOption bool
	turnChecked    bool
	timedOut       string
}

func NewRound(ring *seat_ring.Ring, pot *Pot, setting Setting) *Round {
	return &Round{
		ring:     ring,
		pot:      pot,
		setting:  setting,
		state:    State_RoundActive,
		minRaise: setting.SmallBlind * 2,
	}
}

func (r *Round) State() State { return r.state }
func (r *Round) Street() Street { return r.setting.Street }
func (r *Round) Bet() int64 { return r.bet }
func (r *Round) MinRaise() int64 { return r.minRaise }
func (r *Round) Turn() string { return r.turn }
func (r *Round) BigBlindID() string { return r.bigBlindID }

/*
Begin 開始本輪下注
  - 重置下注目標與最小加注
  - 翻前由 Dealer 後兩位玩家自動下大小盲
*/
func (r *Round) Begin() []Notice {
	notices := make([]Notice, 0)

	for _, s := range r.ring.Seats(r.setting.DealerID) {
		s.IsChecked = false
		s.ClearIntent()
		if s.IsActive {
			s.Action = ""
		}
	}

	r.bet = 0
	r.minRaise = r.setting.SmallBlind * 2

	first, err := r.ring.NextActive(r.setting.DealerID)
	if err != nil || r.ring.CountActive() <= 1 {
		r.complete()
		return notices
	}

	if r.setting.Street == Street_Preflop {
		notices = append(notices, r.postBlind(first, r.setting.SmallBlind, Action_SmallBlind))

		bb, err := r.ring.NextActive(first.ID)
		if err != nil {
			r.complete()
			return notices
		}
		notices = append(notices, r.postBlind(bb, r.setting.SmallBlind*2, Action_BigBlind))

		r.bet = r.setting.SmallBlind * 2
		r.bigBlindID = bb.ID
		r.bigBlindOption = true

		first, err = r.ring.NextActive(bb.ID)
		if err != nil {
			r.complete()
			return notices
		}
	}

	r.turn = first.ID
	r.turnChecked = false
	r.state = State_RoundActive
	return notices
}

func (r *Round) postBlind(s *seat_ring.Seat, amount int64, label string) Notice {
	if amount > s.Stack {
		amount = s.Stack
	}
	s.Commit(amount)
	s.Action = label

	return newNotice(Notice_Blind, s, amount, "%s posts the %s of %s.", s.Name, labelName(label), settlement.FormatMoney(amount))
}

func labelName(label string) string {
	if label == Action_SmallBlind {
		return "small blind"
	}
	return "big blind"
}

/*
Advance 推進下注流程
  - 直到需要等待某位玩家動作或本輪結束
*/
func (r *Round) Advance() (State, []Notice) {
	notices := make([]Notice, 0)

	for {
		if r.state == State_RoundComplete {
			return r.state, notices
		}

		seat, err := r.ring.Get(r.turn)
		if err != nil {
			r.complete()
			continue
		}

		if !r.turnChecked {
			if r.IsComplete(seat) {
				r.complete()
				continue
			}
			r.turnChecked = true
		}

		acted, notice := r.process(seat)
		if notice != nil {
			notices = append(notices, *notice)
		}
		if !acted {
			r.state = State_AwaitingAction
			return r.state, notices
		}

		next, err := r.ring.NextActive(seat.ID)
		if err != nil {
			r.complete()
			continue
		}

		r.state = State_RoundActive
		r.turn = next.ID
		r.turnChecked = false
	}
}

// IsComplete tells whether the round is over when next is the seat to act.
func (r *Round) IsComplete(next *seat_ring.Seat) bool {
	if r.ring.CountActive() <= 1 {
		return true
	}

	if r.allActiveAllIn() {
		return true
	}

	if r.bet == 0 {
		return next.IsChecked
	}

	if next.Bet != r.bet {
		return false
	}

	for _, s := range r.ring.ActiveSeats(r.setting.DealerID) {
		if s.Stack > 0 && s.Bet != r.bet {
			return false
		}
	}

	// the big blind keeps the option to raise an unraised pot
	if r.setting.Street == Street_Preflop && r.bigBlindOption && next.ID == r.bigBlindID {
		return false
	}

	return true
}

func (r *Round) allActiveAllIn() bool {
	for _, s := range r.ring.ActiveSeats(r.setting.DealerID) {
		if s.Stack > 0 {
			return false
		}
	}
	return true
}

func (r *Round) othersAllIn(seat *seat_ring.Seat) bool {
	for _, s := range r.ring.ActiveSeats(r.setting.DealerID) {
		if s.ID != seat.ID && s.Stack > 0 {
			return false
		}
	}
	return true
}

func (r *Round) process(seat *seat_ring.Seat) (bool, *Notice) {
	switch {
	case seat.IsFolded:
		seat.IsChecked = false
		r.actedOnce(seat)
		if r.timedOut == seat.ID {
			r.timedOut = ""
			n := newNotice(Notice_AutoFold, seat, 0, "%s was auto-folded.", seat.Name)
			return true, &n
		}
		n := newNotice(Notice_Fold, seat, 0, "%s has folded.", seat.Name)
		return true, &n

	case seat.HasIntent():
		n := r.apply(seat, seat.Intent)
		return true, &n

	case seat.Stack == 0:
		// all in from an earlier bet
		seat.IsChecked = true
		seat.Action = Action_AllIn
		r.actedOnce(seat)
		return true, nil

	case seat.Bet == r.bet && r.othersAllIn(seat):
		n := r.apply(seat, 0)
		return true, &n
	}

	return false, nil
}

func (r *Round) apply(seat *seat_ring.Seat, increment int64) Notice {
	prevBet := r.bet

	seat.Commit(increment)
	seat.ClearIntent()
	r.actedOnce(seat)

	if seat.Bet > r.bet {
		r.minRaise = seat.Bet - r.bet
		r.bet = seat.Bet
	}

	if increment == 0 {
		seat.IsChecked = true
		seat.Action = Action_Check
		return newNotice(Notice_Check, seat, 0, "%s checks.", seat.Name)
	}

	switch {
	case seat.Stack == 0:
		seat.Action = Action_AllIn
		return newNotice(Notice_AllIn, seat, seat.Bet, "%s is all in for %s.", seat.Name, settlement.FormatMoney(seat.Bet))
	case seat.Bet == prevBet:
		seat.Action = Action_Call
		return newNotice(Notice_Call, seat, increment, "%s calls %s.", seat.Name, settlement.FormatMoney(increment))
	case prevBet == 0:
		seat.Action = Action_Bet
		return newNotice(Notice_Bet, seat, seat.Bet, "%s bets %s.", seat.Name, settlement.FormatMoney(seat.Bet))
	}

	seat.Action = Action_Raise
	return newNotice(Notice_Raise, seat, seat.Bet, "%s raises to %s.", seat.Name, settlement.FormatMoney(seat.Bet))
}

func (r *Round) actedOnce(seat *seat_ring.Seat) {
	if seat.ID == r.bigBlindID {
		r.bigBlindOption = false
	}
}

// complete sweeps every street bet into the pot.
func (r *Round) complete() {
	if r.state == State_RoundComplete {
		return
	}

	for _, s := range r.ring.Seats(r.setting.DealerID) {
		r.pot.Total += s.Bet
		s.Bet = 0
		s.IsChecked = false
		s.ClearIntent()
		if s.IsActive {
			s.Action = ""
		}
	}

	r.turn = ""
	r.state = State_RoundComplete
}

func (r *Round) awaiting(seatID string) (*seat_ring.Seat, error) {
	if r.state == State_RoundComplete {
		return nil, ErrRoundComplete
	}
	if r.state != State_AwaitingAction || seatID != r.turn {
		return nil, ErrNotYourTurn
	}
	return r.ring.Get(seatID)
}

/*
Submit 玩家下注意圖
  - total 為本輪累計投入的總額
  - 面對下注時 total 等於已投入金額視為棄牌，否則視為過牌
*/
func (r *Round) Submit(seatID string, total int64) error {
	seat, err := r.awaiting(seatID)
	if err != nil {
		return err
	}

	if md := r.setting.MinDenomination; md > 0 && total%md != 0 {
		return ErrInvalidAmount
	}

	if total < seat.Bet {
		return ErrBelowBet
	}

	increment := total - seat.Bet
	if increment > seat.Stack {
		return ErrExceedsStack
	}

	if increment == 0 {
		if seat.Bet < r.bet {
			seat.Fold()
			return nil
		}
		seat.Intent = 0
		return nil
	}

	allIn := increment == seat.Stack
	if total < r.bet && !allIn {
		return ErrBelowCall
	}
	if total > r.bet && total < r.bet+r.minRaise && !allIn {
		return ErrBelowMinRaise
	}

	seat.Intent = increment
	return nil
}

func (r *Round) Fold(seatID string) error {
	seat, err := r.awaiting(seatID)
	if err != nil {
		return err
	}

	seat.Fold()
	return nil
}

// Timeout force-folds the seat the round is waiting for.
func (r *Round) Timeout(seatID string) error {
	seat, err := r.awaiting(seatID)
	if err != nil {
		return err
	}

	seat.Fold()
	seat.Action = Action_AutoFold
	r.timedOut = seat.ID
	return nil
}

// CallAmount is what seatID has to add to match the current bet.
func (r *Round) CallAmount(seatID string) int64 {
	seat, err := r.ring.Get(seatID)
	if err != nil {
		return 0
	}

	owed := r.bet - seat.Bet
	if owed > seat.Stack {
		owed = seat.Stack
	}
	if owed < 0 {
		return 0
	}
	return owed
}
