package betting_round

import (
	"fmt"

	"github.com/weedbox/holdemtable/seat_ring"
)

type NoticeKind string

const (
	Notice_Blind    NoticeKind = "blind"
	Notice_Fold     NoticeKind = "fold"
	Notice_AutoFold NoticeKind = "auto_fold"
	Notice_Check    NoticeKind = "check"
	Notice_Call     NoticeKind = "call"
	Notice_Bet      NoticeKind = "bet"
	Notice_Raise    NoticeKind = "raise"
	Notice_AllIn    NoticeKind = "all_in"
)

// Notice is a human readable account of something a seat did.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	SeatID  string     `json:"seat_id"`
	Amount  int64      `json:"amount"`
	Message string     `json:"message"`
}

func newNotice(kind NoticeKind, s *seat_ring.Seat, amount int64, format string, args ...interface{}) Notice {
	return Notice{
		Kind:    kind,
		SeatID:  s.ID,
		Amount:  amount,
		Message: fmt.Sprintf(format, args...),
	}
}
