package holdemtable

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/weedbox/timebank"

	"github.com/weedbox/holdemtable/betting_round"
	"github.com/weedbox/holdemtable/deck"
	"github.com/weedbox/holdemtable/hand_session"
	"github.com/weedbox/holdemtable/open_game_manager"
	"github.com/weedbox/holdemtable/seat_ring"
	"github.com/weedbox/holdemtable/settlement"
	"github.com/weedbox/holdemtable/store"
)

var (
	ErrTableInvalidCreateSetting = errors.New("table: invalid create table setting")
	ErrTableRestore              = errors.New("table: cannot restore table")
	ErrTableNotCreated           = errors.New("table: table is not created")
	ErrTableClosed               = errors.New("table: table is closed")
	ErrTableHalted               = errors.New("table: table is halted")
	ErrTableNoEmptySeats         = errors.New("table: no empty seats available")
	ErrTableNotEnoughPlayers     = errors.New("table: not enough players to open a hand")
	ErrUnknownSeat               = errors.New("table: unknown seat")
	ErrMoneyInvariantViolation   = errors.New("table: money conservation violated")
	ErrTableInvalidAction        = fmt.Errorf("table: %w", betting_round.ErrInvalidAction)
	ErrInvalidCommand            = fmt.Errorf("%w: invalid command", ErrTableInvalidAction)
	ErrInvalidBuyIn              = fmt.Errorf("%w: invalid amount", ErrTableInvalidAction)
)

type TableEngineOpt func(*tableEngine)

type TableEngine interface {
	// Events
	OnTableUpdated(fn func(*Table))                     // 桌次更新事件監聽器
	OnTableErrorUpdated(fn func(*Table, error))         // 錯誤更新事件監聽器
	OnTableSettled(fn func(*Table, *settlement.Report)) // 關桌結算事件監聽器

	// Table Actions
	GetTable() *Table                                      // 取得桌次
	CreateTable(tableSetting TableSetting) (*Table, error) // 建立桌
	RestoreTable(tableID string) (*Table, error)           // 從儲存的紀錄還原桌次
	StartTableGame() error                                 // 開打遊戲
	PauseTable() error                                     // 暫停桌次
	CloseTable() error                                     // 關閉桌並結算
	Done() <-chan struct{}                                 // 桌次結束後關閉

	// Player Table Actions
	PlayerJoin(joinPlayer JoinPlayer) (string, error) // 玩家入桌
	SubmitCommand(cmd AdminCommand) error             // 管理指令

	// Player Game Actions
	PlayerAct(seatID string, total int64) error // 玩家下注，total 為本街累計下注額
	PlayerFold(seatID string) error             // 玩家棄牌
	PlayerReady(seatID string) error            // 玩家準備開下一手
}

type tableEngine struct {
	lock                sync.Mutex
	options             *TableEngineOptions
	logger              *slog.Logger
	store               store.Store
	notifyTarget        Notifier
	notifier            *asyncNotifier
	deliverer           ReportDeliverer
	deliveries          sync.WaitGroup
	rnd                 *rand.Rand
	deck                *deck.Deck
	created             atomic.Bool
	table               *Table
	snapshot            *Table
	ring                *seat_ring.Ring
	ledger              *settlement.Ledger
	session             *hand_session.Session
	commands            []AdminCommand
	removed             []string
	tb                  *timebank.TimeBank
	turnSerial          int64
	ogm                 open_game_manager.OpenGameManager
	incoming            chan *Request
	done                chan struct{}
	pausing             bool
	halted              bool
	closed              bool
	dealerMoved         bool
	onTableUpdated      func(*Table)
	onTableErrorUpdated func(*Table, error)
	onTableSettled      func(*Table, *settlement.Report)
}

func NewTableEngine(options *TableEngineOptions, opts ...TableEngineOpt) TableEngine {
	if options == nil {
		options = NewTableEngineOptions()
	}

	callbacks := NewTableEngineCallbacks()
	te := &tableEngine{
		options:             options,
		logger:              slog.Default(),
		store:               store.NewMemoryStore(),
		rnd:                 rand.New(rand.NewSource(time.Now().UnixNano())),
		ring:                seat_ring.NewRing(),
		ledger:              settlement.NewLedger(),
		commands:            make([]AdminCommand, 0),
		removed:             make([]string, 0),
		tb:                  timebank.NewTimeBank(),
		incoming:            make(chan *Request, 64),
		done:                make(chan struct{}),
		onTableUpdated:      callbacks.OnTableUpdated,
		onTableErrorUpdated: callbacks.OnTableErrorUpdated,
		onTableSettled:      callbacks.OnTableSettled,
	}

	for _, opt := range opts {
		opt(te)
	}

	if te.notifyTarget == nil {
		te.notifyTarget = NewLogNotifier(te.logger)
	}
	if te.deliverer == nil {
		te.deliverer = NewLogReportDeliverer(te.logger)
	}
	te.deck = deck.NewDeck(deck.WithRandSource(rand.NewSource(te.rnd.Int63())))

	return te
}

func WithStore(s store.Store) TableEngineOpt {
	return func(te *tableEngine) {
		te.store = s
	}
}

func WithNotifier(n Notifier) TableEngineOpt {
	return func(te *tableEngine) {
		te.notifyTarget = n
	}
}

func WithReportDeliverer(d ReportDeliverer) TableEngineOpt {
	return func(te *tableEngine) {
		te.deliverer = d
	}
}

func WithLogger(logger *slog.Logger) TableEngineOpt {
	return func(te *tableEngine) {
		if logger != nil {
			te.logger = logger
		}
	}
}

// WithRandSource makes seating, host picking and shuffling reproducible.
func WithRandSource(src rand.Source) TableEngineOpt {
	return func(te *tableEngine) {
		te.rnd = rand.New(src)
	}
}

func (te *tableEngine) OnTableUpdated(fn func(*Table)) {
	te.lock.Lock()
	defer te.lock.Unlock()
	te.onTableUpdated = fn
}

func (te *tableEngine) OnTableErrorUpdated(fn func(*Table, error)) {
	te.lock.Lock()
	defer te.lock.Unlock()
	te.onTableErrorUpdated = fn
}

func (te *tableEngine) OnTableSettled(fn func(*Table, *settlement.Report)) {
	te.lock.Lock()
	defer te.lock.Unlock()
	te.onTableSettled = fn
}

// GetTable returns a copy of the last published table.
func (te *tableEngine) GetTable() *Table {
	te.lock.Lock()
	defer te.lock.Unlock()

	if te.snapshot == nil {
		return nil
	}
	return te.snapshot.Clone()
}

func (te *tableEngine) Done() <-chan struct{} {
	return te.done
}

/*
CreateTable 建立桌
  - 驗證桌次設定
  - 桌主入座並成為第一手的 Dealer
  - 其他玩家隨機入座
  - 啟動桌次的處理迴圈
*/
func (te *tableEngine) CreateTable(tableSetting TableSetting) (*Table, error) {
	if te.created.Load() {
		return nil, fmt.Errorf("%w: table already created", ErrTableInvalidCreateSetting)
	}

	meta := tableSetting.Meta
	if meta.ActionTime == 0 {
		meta.ActionTime = DefaultActionTime
	}
	if meta.MaxSeatCount == 0 {
		meta.MaxSeatCount = DefaultMaxSeatCount
	}
	if err := validateTableMeta(meta); err != nil {
		return nil, err
	}

	players := append([]JoinPlayer{tableSetting.Host}, tableSetting.JoinPlayers...)
	if len(players) > meta.MaxSeatCount {
		return nil, fmt.Errorf("%w: %d players for %d seats", ErrTableInvalidCreateSetting, len(players), meta.MaxSeatCount)
	}
	seen := make(map[string]bool, len(players))
	for idx, jp := range players {
		if err := validateJoinPlayer(meta, jp); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTableInvalidCreateSetting, err)
		}
		if jp.SeatID == "" {
			players[idx].SeatID = uuid.New().String()
		}
		if seen[players[idx].SeatID] {
			return nil, fmt.Errorf("%w: duplicated seat %s", ErrTableInvalidCreateSetting, jp.SeatID)
		}
		seen[players[idx].SeatID] = true
	}

	tableID := tableSetting.TableID
	if tableID == "" {
		tableID = uuid.New().String()
	}

	te.table = &Table{
		ID:   tableID,
		Meta: meta,
		State: &TableState{
			Status:  TableStateStatus_TableCreated,
			StartAt: UnsetValue,
			Board:   make([]deck.Card, 0),
			Seats:   make([]*seat_ring.Seat, 0),
			Notices: make([]betting_round.Notice, 0),
		},
	}

	for idx, jp := range players {
		seatID := jp.SeatID
		seat := seat_ring.NewSeat(seatID, jp.PlayerID, jp.Name, jp.BuyIn)
		seat.Contact = jp.Contact
		if idx == 0 {
			_ = te.ring.Insert(seat)
			te.table.State.HostID = seatID
			te.table.State.DealerID = seatID
		} else {
			_ = te.ring.InsertRandom(seat, te.rnd)
		}

		te.table.State.Bank += jp.BuyIn
		te.ledger.Join(jp.PlayerID, jp.Name, jp.Contact, jp.BuyIn)
	}

	te.notifier = newAsyncNotifier(te.notifyTarget, te.options.NotifyBufferSize, te.options.StoreTimeout, te.logger)
	te.ogm = open_game_manager.NewOpenGameManager(te.openGameOption())
	te.launch("CreateTable")

	return te.GetTable(), nil
}

func (te *tableEngine) openGameOption() open_game_manager.OpenGameOption {
	return open_game_manager.OpenGameOption{
		Timeout: te.table.Meta.PauseTime,
		OnOpenGameReady: func(state open_game_manager.OpenGameState) {
			go te.post(&Request{
				Action: RequestAction_OpenNextHand,
				Param:  OpenNextHandParam{HandCount: state.HandCount},
			})
		},
	}
}

// launch persists the new table, publishes it and starts the table loop.
func (te *tableEngine) launch(eventName string) {
	te.persist()
	te.emitEvent(eventName, "")
	te.created.Store(true)

	go te.run()
}

func (te *tableEngine) StartTableGame() error {
	return te.incomingRequest(RequestAction_StartTableGame, nil)
}

func (te *tableEngine) PauseTable() error {
	return te.SubmitCommand(PauseCommand())
}

func (te *tableEngine) CloseTable() error {
	return te.SubmitCommand(ShutdownCommand())
}

// PlayerJoin seats a player and returns the new seat id.
func (te *tableEngine) PlayerJoin(joinPlayer JoinPlayer) (string, error) {
	if joinPlayer.SeatID == "" {
		joinPlayer.SeatID = uuid.New().String()
	}

	err := te.incomingRequest(RequestAction_PlayerJoin, PlayerJoinParam{JoinPlayer: joinPlayer})
	if err != nil {
		return "", err
	}
	return joinPlayer.SeatID, nil
}

func (te *tableEngine) SubmitCommand(cmd AdminCommand) error {
	return te.incomingRequest(RequestAction_AdminCommand, cmd)
}

func (te *tableEngine) PlayerAct(seatID string, total int64) error {
	return te.incomingRequest(RequestAction_PlayerAct, PlayerActParam{SeatID: seatID, Total: total})
}

func (te *tableEngine) PlayerFold(seatID string) error {
	return te.incomingRequest(RequestAction_PlayerFold, PlayerSeatParam{SeatID: seatID})
}

func (te *tableEngine) PlayerReady(seatID string) error {
	return te.incomingRequest(RequestAction_PlayerReady, PlayerSeatParam{SeatID: seatID})
}

func validateTableMeta(meta TableMeta) error {
	switch {
	case meta.MinDenomination <= 0:
		return fmt.Errorf("%w: minimum denomination must be positive", ErrTableInvalidCreateSetting)
	case meta.SmallBlind <= 0 || meta.SmallBlind%meta.MinDenomination != 0:
		return fmt.Errorf("%w: small blind must be a positive multiple of %d", ErrTableInvalidCreateSetting, meta.MinDenomination)
	case meta.MinBuyIn < 2*meta.SmallBlind || meta.MinBuyIn%meta.MinDenomination != 0:
		return fmt.Errorf("%w: minimum buy-in must cover the big blind and be a multiple of %d", ErrTableInvalidCreateSetting, meta.MinDenomination)
	case meta.ActionTime < 0:
		return fmt.Errorf("%w: action time must not be negative", ErrTableInvalidCreateSetting)
	case meta.PauseTime < 0:
		return fmt.Errorf("%w: pause time must not be negative", ErrTableInvalidCreateSetting)
	case meta.MaxSeatCount < 2 || meta.MaxSeatCount > MaxSeatCountLimit:
		return fmt.Errorf("%w: max seat count must be between 2 and %d", ErrTableInvalidCreateSetting, MaxSeatCountLimit)
	}
	return nil
}

func validateJoinPlayer(meta TableMeta, jp JoinPlayer) error {
	if jp.PlayerID == "" {
		return fmt.Errorf("%w: missing player id", ErrInvalidCommand)
	}
	if jp.BuyIn < meta.MinBuyIn {
		return fmt.Errorf("%w: buy-in %s below the minimum %s", ErrInvalidBuyIn, settlement.FormatMoney(jp.BuyIn), settlement.FormatMoney(meta.MinBuyIn))
	}
	if jp.BuyIn%meta.MinDenomination != 0 {
		return fmt.Errorf("%w: buy-in must be a multiple of %d", ErrInvalidBuyIn, meta.MinDenomination)
	}
	return nil
}
