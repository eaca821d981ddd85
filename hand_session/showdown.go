package hand_session

import (
	"fmt"

	"github.com/weedbox/holdemtable/betting_round"
	"github.com/weedbox/holdemtable/deck"
	"github.com/weedbox/holdemtable/hand_evaluator"
	"github.com/weedbox/holdemtable/seat_ring"
	"github.com/weedbox/holdemtable/settlement"
)

type Winner struct {
	SeatID      string `json:"seat_id"`
	Name        string `json:"name"`
	Share       int64  `json:"share"`
	Description string `json:"description"`
}

type RevealedHand struct {
	SeatID      string      `json:"seat_id"`
	HoleCards   []deck.Card `json:"hole_cards"`
	Description string      `json:"description"`
}

type HandResult struct {
	HandNumber int             `json:"hand_number"`
	Board      []deck.Card     `json:"board"`
	Pot        int64           `json:"pot"`
	Contested  bool            `json:"contested"` // decided by a showdown
	Aborted    bool            `json:"aborted"`
	Winners    []*Winner       `json:"winners"`
	Revealed   []*RevealedHand `json:"revealed"`
}

func (r *HandResult) IsWinner(seatID string) bool {
	for _, w := range r.Winners {
		if w.SeatID == seatID {
			return true
		}
	}
	return false
}

func (s *Session) newResult(contested bool) *HandResult {
	return &HandResult{
		HandNumber: s.setting.HandNumber,
		Board:      s.Board(),
		Pot:        s.pot.Total,
		Contested:  contested,
		Winners:    make([]*Winner, 0),
		Revealed:   make([]*RevealedHand, 0),
	}
}

func (s *Session) awardUncontested() []betting_round.Notice {
	active := s.ring.ActiveSeats(s.setting.DealerID)
	if len(active) == 0 {
		// nobody left to take the pot
		s.abort()
		return []betting_round.Notice{{
			Kind:    Notice_Aborted,
			Message: "The hand was aborted and every bet returned.",
		}}
	}

	winner := active[0]
	result := s.newResult(false)
	share := s.pot.Total

	winner.Stack += share
	s.pot.Total = 0
	result.Winners = append(result.Winners, &Winner{
		SeatID: winner.ID,
		Name:   winner.Name,
		Share:  share,
	})

	s.finish(result)

	return []betting_round.Notice{{
		Kind:    Notice_Win,
		SeatID:  winner.ID,
		Amount:  share,
		Message: fmt.Sprintf("%s wins %s uncontested.", winner.Name, settlement.FormatMoney(share)),
	}}
}

/*
showdown 攤牌
  - 計算每位剩餘玩家的最佳牌型
  - 平手時以最小面額為單位平分底池
*/
func (s *Session) showdown() []betting_round.Notice {
	s.stage = Stage_Showdown

	active := s.ring.ActiveSeats(s.setting.DealerID)
	hands := make(map[string]hand_evaluator.Hand, len(active))
	result := s.newResult(true)

	for _, seat := range active {
		cards := append(append([]deck.Card{}, seat.HoleCards...), s.board...)
		h, err := hand_evaluator.Evaluate(cards)
		if err != nil {
			continue
		}
		hands[seat.ID] = h
		result.Revealed = append(result.Revealed, &RevealedHand{
			SeatID:      seat.ID,
			HoleCards:   append([]deck.Card(nil), seat.HoleCards...),
			Description: hand_evaluator.Describe(h),
		})
	}

	winners := hand_evaluator.Winners(hands)

	unit := s.setting.MinDenomination
	if unit <= 0 {
		unit = settlement.CentUnit
	}

	shares, err := settlement.SplitPot(s.pot.Total, unit, winners)
	if err != nil {
		s.abort()
		return []betting_round.Notice{{
			Kind:    Notice_Aborted,
			Message: "The hand was aborted and every bet returned.",
		}}
	}

	notices := make([]betting_round.Notice, 0, len(winners))
	for _, id := range winners {
		seat, _ := s.ring.Get(id)
		seat.Stack += shares[id]

		desc := hand_evaluator.Describe(hands[id])
		result.Winners = append(result.Winners, &Winner{
			SeatID:      id,
			Name:        seat.Name,
			Share:       shares[id],
			Description: desc,
		})
		notices = append(notices, betting_round.Notice{
			Kind:    Notice_Win,
			SeatID:  id,
			Amount:  shares[id],
			Message: fmt.Sprintf("%s wins %s with %s.", seat.Name, settlement.FormatMoney(shares[id]), desc),
		})
	}
	s.pot.Total = 0

	s.finish(result)
	return notices
}

func (s *Session) finish(result *HandResult) {
	for _, seat := range s.ring.Seats(s.setting.DealerID) {
		if !seat.IsInHand {
			continue
		}
		updateStatistics(seat, result)
	}

	s.result = result
	s.stage = Stage_Done
}

func updateStatistics(seat *seat_ring.Seat, result *HandResult) {
	for _, w := range result.Winners {
		if w.SeatID != seat.ID {
			continue
		}
		seat.Statistics.HandsWon++
		if w.Share > seat.Statistics.BiggestWin {
			seat.Statistics.BiggestWin = w.Share
		}
		return
	}

	if seat.Committed > seat.Statistics.BiggestLoss {
		seat.Statistics.BiggestLoss = seat.Committed
	}
}
