package settlement

import (
	"github.com/thoas/go-funk"

	"github.com/weedbox/holdemtable/seat_ring"
)

// PlayerLog accumulates what a player brought to and took from a table.
type PlayerLog struct {
	PlayerID   string                   `json:"player_id"`
	Name       string                   `json:"name"`
	Contact    string                   `json:"contact"`
	BuyIn      int64                    `json:"buy_in"` // buy-ins and rebuys, net of cash-outs
	End        int64                    `json:"end"`    // stacks taken away when leaving
	Seated     int                      `json:"seated"` // seats currently held at the table
	Statistics seat_ring.SeatStatistics `json:"statistics"`
}

func (pl *PlayerLog) Net() int64 {
	return pl.End - pl.BuyIn
}

type Ledger struct {
	logs  map[string]*PlayerLog
	order []string
}

func NewLedger() *Ledger {
	return &Ledger{
		logs:  make(map[string]*PlayerLog),
		order: make([]string, 0),
	}
}

// NewLedgerFromLogs rebuilds a ledger from persisted logs.
func NewLedgerFromLogs(logs []*PlayerLog) *Ledger {
	l := NewLedger()
	for _, pl := range logs {
		c := *pl
		l.logs[c.PlayerID] = &c
		l.order = append(l.order, c.PlayerID)
	}
	return l
}

// Join records a buy-in on a new seat, creating the log on first join.
func (l *Ledger) Join(playerID, name, contact string, amount int64) {
	pl, ok := l.logs[playerID]
	if !ok {
		pl = &PlayerLog{
			PlayerID: playerID,
			Name:     name,
			Contact:  contact,
		}
		l.logs[playerID] = pl
		l.order = append(l.order, playerID)
	}

	if contact != "" {
		pl.Contact = contact
	}
	pl.BuyIn += amount
	pl.Seated++
}

func (l *Ledger) Rebuy(playerID string, amount int64) {
	if pl, ok := l.logs[playerID]; ok {
		pl.BuyIn += amount
	}
}

func (l *Ledger) CashOut(playerID string, amount int64) {
	if pl, ok := l.logs[playerID]; ok {
		pl.BuyIn -= amount
	}
}

// Leave adds the remaining stack and seat statistics of a departing seat.
func (l *Ledger) Leave(playerID string, stack int64, stats seat_ring.SeatStatistics) {
	pl, ok := l.logs[playerID]
	if !ok {
		return
	}

	pl.End += stack
	pl.Seated--
	pl.Statistics.HandsPlayed += stats.HandsPlayed
	pl.Statistics.HandsWon += stats.HandsWon
	if stats.BiggestWin > pl.Statistics.BiggestWin {
		pl.Statistics.BiggestWin = stats.BiggestWin
	}
	if stats.BiggestLoss > pl.Statistics.BiggestLoss {
		pl.Statistics.BiggestLoss = stats.BiggestLoss
	}
}

func (l *Ledger) Get(playerID string) (*PlayerLog, bool) {
	pl, ok := l.logs[playerID]
	return pl, ok
}

// Logs returns copies of every log in first-join order.
func (l *Ledger) Logs() []*PlayerLog {
	logs := make([]*PlayerLog, 0, len(l.order))
	for _, id := range l.order {
		c := *l.logs[id]
		logs = append(logs, &c)
	}
	return logs
}

func (l *Ledger) TotalBuyIn() int64 {
	total := int64(0)
	for _, pl := range l.logs {
		total += pl.BuyIn
	}
	return total
}

// Recipients lists the distinct contact addresses of every logged player.
func (l *Ledger) Recipients() []string {
	recipients := make([]string, 0)
	for _, id := range l.order {
		contact := l.logs[id].Contact
		if contact == "" || funk.ContainsString(recipients, contact) {
			continue
		}
		recipients = append(recipients, contact)
	}
	return recipients
}
