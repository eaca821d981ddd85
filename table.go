package holdemtable

import (
	"time"

	"github.com/thoas/go-funk"

	"github.com/weedbox/holdemtable/betting_round"
	"github.com/weedbox/holdemtable/deck"
	"github.com/weedbox/holdemtable/hand_session"
	"github.com/weedbox/holdemtable/seat_ring"
	"github.com/weedbox/holdemtable/settlement"
)

type TableStateStatus string

const (
	TableStateStatus_TableCreated     TableStateStatus = "table_created"      // 桌次已建立
	TableStateStatus_TableGameStandby TableStateStatus = "table_game_standby" // 等待玩家人數足夠
	TableStateStatus_TableGamePlaying TableStateStatus = "table_game_playing" // 牌局進行中
	TableStateStatus_TableGameSettled TableStateStatus = "table_game_settled" // 牌局已結算，等待下一手
	TableStateStatus_TablePausing     TableStateStatus = "table_pausing"      // 桌次暫停中
	TableStateStatus_TableHalted      TableStateStatus = "table_halted"       // 籌碼不平衡，桌次停止
	TableStateStatus_TableClosed      TableStateStatus = "table_closed"       // 桌次已結束
)

type Table struct {
	ID           string      `json:"id"`
	Meta         TableMeta   `json:"meta"`
	State        *TableState `json:"state"`
	UpdateAt     int64       `json:"update_at"`     // 更新時間 (Seconds)
	UpdateSerial int64       `json:"update_serial"` // 更新序列號 (數字越大越晚發生)
}

// TableMeta holds the fixed table settings. Amounts are in cents.
type TableMeta struct {
	Name            string `json:"name"`             // 桌次名稱
	SmallBlind      int64  `json:"small_blind"`      // 小盲籌碼量，大盲為兩倍
	MinBuyIn        int64  `json:"min_buy_in"`       // 最低買入
	MinDenomination int64  `json:"min_denomination"` // 最小單位籌碼量
	ActionTime      int    `json:"action_time"`      // 玩家動作思考時間 (Seconds)
	PauseTime       int    `json:"pause_time"`       // 每手結束後的等待時間 (Seconds)
	MaxSeatCount    int    `json:"max_seat_count"`   // 每桌人數上限
}

type TableState struct {
	Status          TableStateStatus          `json:"status"`           // 當前桌次狀態
	StartAt         int64                     `json:"start_at"`         // 開打時間 (Seconds)
	Bank            int64                     `json:"bank"`             // 桌上總金額
	Pot             int64                     `json:"pot"`              // 底池
	Board           []deck.Card               `json:"board"`            // 公牌
	DealerID        string                    `json:"dealer_id"`        // Dealer 座位 ID
	HostID          string                    `json:"host_id"`          // 桌主座位 ID
	HandCount       int                       `json:"hand_count"`       // 已開局手數
	Seats           []*seat_ring.Seat         `json:"seats"`            // 從 Dealer 開始的座位順序
	Session         *hand_session.SessionInfo `json:"session"`          // 本手狀態
	LastResult      *hand_session.HandResult  `json:"last_result"`      // 上一手結果
	Notices         []betting_round.Notice    `json:"notices"`          // 最近一次事件的通知
	PendingCommands int                       `json:"pending_commands"` // 等待執行的管理指令數
	Report          *settlement.Report        `json:"report"`           // 關桌結算報表
}

func NewDefaultTableMeta() TableMeta {
	return TableMeta{
		Name:            "Hold'em",
		SmallBlind:      5,
		MinBuyIn:        1000,
		MinDenomination: 5,
		ActionTime:      DefaultActionTime,
		PauseTime:       DefaultPauseTime,
		MaxSeatCount:    DefaultMaxSeatCount,
	}
}

// Setters
func (t *Table) RefreshUpdateAt() {
	t.UpdateAt = time.Now().Unix()
	t.UpdateSerial++
}

// Getters
func (t *Table) FindSeat(seatID string) *seat_ring.Seat {
	for _, s := range t.State.Seats {
		if s.ID == seatID {
			return s
		}
	}
	return nil
}

func (t *Table) FindSeatByPlayer(playerID string) *seat_ring.Seat {
	for _, s := range t.State.Seats {
		if s.PlayerID == playerID {
			return s
		}
	}
	return nil
}

func (t *Table) ActiveSeats() []*seat_ring.Seat {
	return funk.Filter(t.State.Seats, func(s *seat_ring.Seat) bool {
		return s.IsActive
	}).([]*seat_ring.Seat)
}

func (t *Table) IsPlaying() bool {
	return t.State.Status == TableStateStatus_TableGamePlaying
}

// TurnSeatID is the seat the table is waiting for, empty when nobody has to act.
func (t *Table) TurnSeatID() string {
	if !t.IsPlaying() || t.State.Session == nil {
		return ""
	}
	return t.State.Session.TurnSeatID
}

func (t *Table) Clone() *Table {
	c := *t

	state := *t.State
	state.Board = append([]deck.Card(nil), t.State.Board...)
	state.Notices = append([]betting_round.Notice(nil), t.State.Notices...)
	state.Seats = make([]*seat_ring.Seat, 0, len(t.State.Seats))
	for _, s := range t.State.Seats {
		state.Seats = append(state.Seats, s.Clone())
	}
	if t.State.Session != nil {
		info := *t.State.Session
		info.Board = append([]deck.Card(nil), t.State.Session.Board...)
		state.Session = &info
	}

	c.State = &state
	return &c
}

/*
ViewFor 玩家視角
  - 自己的手牌永遠可見
  - 其他玩家的手牌只在有攤牌的一手結束後可見
*/
func (t *Table) ViewFor(seatID string) *Table {
	view := t.Clone()

	revealed := make(map[string]bool)
	result := view.State.LastResult
	if result != nil && result.Contested && !view.IsPlaying() {
		for _, r := range result.Revealed {
			revealed[r.SeatID] = true
		}
	}

	for _, s := range view.State.Seats {
		if s.ID == seatID || revealed[s.ID] {
			continue
		}
		s.HoleCards = make([]deck.Card, 0)
	}

	return view
}
