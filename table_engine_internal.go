package holdemtable

import (
	"context"
	"fmt"
	"time"

	"github.com/thoas/go-funk"

	"github.com/weedbox/holdemtable/betting_round"
	"github.com/weedbox/holdemtable/hand_session"
	"github.com/weedbox/holdemtable/seat_ring"
	"github.com/weedbox/holdemtable/settlement"
	"github.com/weedbox/holdemtable/store"
)

/*
openHand 開下一手 (safe point)
  - 執行佇列中的管理指令
  - 重置座位，籌碼歸零或坐離的座位不參與
  - 輪轉 Dealer
  - 發牌並推進到第一個需要動作的玩家
*/
func (te *tableEngine) openHand() {
	te.drainCommands()
	if te.closed || te.halted {
		return
	}

	for _, s := range te.ring.Seats("") {
		s.ResetForHand()
	}

	if te.pausing {
		te.enterPause()
		te.persist()
		te.emitEvent("TablePaused", "")
		return
	}

	if te.ring.CountActive() < 2 {
		te.table.State.Status = TableStateStatus_TableGameStandby
		te.persist()
		te.emitEvent("TableStandby", "")
		return
	}

	dealer, err := te.ring.Get(te.table.State.DealerID)
	if err != nil || !dealer.IsActive || (te.table.State.HandCount > 0 && !te.dealerMoved) {
		next, err := te.ring.NextActive(te.table.State.DealerID)
		if err == nil {
			te.table.State.DealerID = next.ID
		}
	}
	te.dealerMoved = false

	te.table.State.HandCount++
	te.session = hand_session.NewSession(te.ring, te.deck, hand_session.Setting{
		HandNumber:      te.table.State.HandCount,
		DealerID:        te.table.State.DealerID,
		SmallBlind:      te.table.Meta.SmallBlind,
		MinDenomination: te.table.Meta.MinDenomination,
	})

	if err := te.session.Start(); err != nil {
		te.logger.Error("failed to open hand", "table", te.table.ID, "hand", te.table.State.HandCount, "error", err)
		te.table.State.Status = TableStateStatus_TableGameStandby
		te.table.State.LastResult = te.session.Result()
		te.persist()
		te.emitErrorEvent("OpenHand", "", err)
		return
	}

	te.table.State.Status = TableStateStatus_TableGamePlaying
	te.persist()
	te.emitEvent("HandOpened", te.table.State.DealerID)
	te.progress()
}

// drainCommands runs the commands queued while a hand was running.
func (te *tableEngine) drainCommands() {
	commands := te.commands
	te.commands = make([]AdminCommand, 0)

	for _, cmd := range commands {
		if te.closed {
			return
		}

		if cmd.NeedsSeat() && !te.ring.Has(cmd.SeatID) {
			te.emitErrorEvent("AdminCommand", cmd.SeatID, fmt.Errorf("%w: %s skipped", ErrUnknownSeat, cmd))
			continue
		}

		if err := te.applyCommand(cmd); err != nil {
			te.emitErrorEvent("AdminCommand", cmd.SeatID, err)
			continue
		}
		if te.closed {
			return
		}

		if err := te.checkInvariant(); err != nil {
			te.halt(err)
			return
		}
	}

	if len(commands) > 0 {
		te.persist()
	}
}

// progress drives the hand until a seat has to act or the hand is over.
func (te *tableEngine) progress() {
	te.tb.Cancel()

	for {
		status, notices := te.session.Advance()
		te.recordNotices(notices)

		if err := te.checkInvariant(); err != nil {
			te.halt(err)
			return
		}

		switch status {
		case hand_session.Status_AwaitingAction:
			te.armTurnTimer()
			te.emitEvent("AwaitingAction", te.session.Turn())
			return
		case hand_session.Status_StreetComplete:
			te.persist()
			te.emitEvent("StreetComplete", "")
		case hand_session.Status_HandComplete:
			te.finishHand()
			return
		}
	}
}

func (te *tableEngine) recordNotices(notices []betting_round.Notice) {
	te.table.State.Notices = notices

	for _, n := range notices {
		te.logger.Debug(n.Message, "table", te.table.ID, "seat", n.SeatID, "kind", n.Kind)

		switch n.Kind {
		case betting_round.Notice_Fold, betting_round.Notice_AutoFold,
			hand_session.Notice_Win, hand_session.Notice_Aborted:
			te.notify(n.Message)
		}
	}
}

func (te *tableEngine) armTurnTimer() {
	te.turnSerial++
	serial := te.turnSerial
	seatID := te.session.Turn()

	if te.table.Meta.ActionTime <= 0 {
		return
	}

	err := te.tb.NewTask(time.Duration(te.table.Meta.ActionTime)*time.Second, func(isCancelled bool) {
		if isCancelled {
			return
		}

		go te.post(&Request{
			Action: RequestAction_Timeout,
			Param:  TimeoutParam{SeatID: seatID, Serial: serial},
		})
	})
	if err != nil {
		te.logger.Error("failed to arm turn timer", "table", te.table.ID, "seat", seatID, "error", err)
	}
}

/*
finishHand 結算本手
  - 有等待時間則等所有玩家準備好或逾時
  - 否則直接開下一手
*/
func (te *tableEngine) finishHand() {
	te.tb.Cancel()

	te.table.State.LastResult = te.session.Result()
	te.table.State.Status = TableStateStatus_TableGameSettled

	handCount := te.table.State.HandCount
	if te.table.Meta.PauseTime > 0 {
		seats := funk.Filter(te.ring.Seats(""), func(s *seat_ring.Seat) bool {
			return s.CanPlay()
		}).([]*seat_ring.Seat)

		ids := make([]string, 0, len(seats))
		for _, s := range seats {
			ids = append(ids, s.ID)
		}
		te.ogm.Setup(handCount, ids)
		te.persist()
		te.emitEvent("HandSettled", "")
		return
	}

	te.persist()
	te.emitEvent("HandSettled", "")
	go te.post(&Request{
		Action: RequestAction_OpenNextHand,
		Param:  OpenNextHandParam{HandCount: handCount},
	})
}

func (te *tableEngine) enterPause() {
	te.pausing = false
	te.ogm.Stop()
	te.table.State.Status = TableStateStatus_TablePausing
}

func (te *tableEngine) resumeStandby() {
	if te.table.State.Status != TableStateStatus_TableGameStandby {
		return
	}

	go te.post(&Request{
		Action: RequestAction_OpenNextHand,
		Param:  OpenNextHandParam{HandCount: te.table.State.HandCount},
	})
}

func (te *tableEngine) applyCommand(cmd AdminCommand) error {
	if cmd.Kind == CommandKind_Pause {
		te.pausing = true
		te.notify("The table is paused.")
		return nil
	}

	if cmd.Kind == CommandKind_Shutdown {
		te.shutdown()
		return nil
	}

	seat, err := te.ring.Get(cmd.SeatID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownSeat, cmd.SeatID)
	}

	switch cmd.Kind {
	case CommandKind_SitOut:
		seat.IsSitOut = true
		if !seat.IsInHand {
			seat.IsActive = false
		}
		te.releaseReady(seat.ID)
		te.notify(fmt.Sprintf("%s is sitting out.", seat.Name))

	case CommandKind_SitIn:
		seat.IsSitOut = false
		te.notify(fmt.Sprintf("%s is back at the table.", seat.Name))

	case CommandKind_BuyIn:
		seat.Stack += cmd.Amount
		seat.BuyIn += cmd.Amount
		te.table.State.Bank += cmd.Amount
		te.ledger.Rebuy(seat.PlayerID, cmd.Amount)
		te.notify(fmt.Sprintf("%s bought in for %s.", seat.Name, settlement.FormatMoney(cmd.Amount)))

	case CommandKind_CashOut:
		if cmd.Amount > seat.Stack {
			return fmt.Errorf("%w: cash-out %s exceeds the stack of %s", ErrInvalidBuyIn, settlement.FormatMoney(cmd.Amount), settlement.FormatMoney(seat.Stack))
		}
		seat.Stack -= cmd.Amount
		seat.BuyIn -= cmd.Amount
		te.table.State.Bank -= cmd.Amount
		te.ledger.CashOut(seat.PlayerID, cmd.Amount)
		te.notify(fmt.Sprintf("%s cashed out %s.", seat.Name, settlement.FormatMoney(cmd.Amount)))

	case CommandKind_Kick:
		te.notify(fmt.Sprintf("%s was removed from the table.", seat.Name))
		te.removeSeat(seat)

	case CommandKind_Leave:
		te.notify(fmt.Sprintf("%s left the table.", seat.Name))
		te.removeSeat(seat)
	}

	return nil
}

/*
removeSeat 座位離桌
  - 帶走的籌碼從桌上總金額扣除並記錄到帳本
  - Dealer 離開則交給下一個可以玩的座位
  - 桌主離開則交給目前戰績最好的座位
  - 最後一人離開則關桌
*/
func (te *tableEngine) removeSeat(seat *seat_ring.Seat) {
	te.table.State.Bank -= seat.Stack
	te.ledger.Leave(seat.PlayerID, seat.Stack, seat.Statistics)

	nextDealer := ""
	if te.table.State.DealerID == seat.ID {
		nextDealer = te.nextPlayable(seat.ID)
	}

	_ = te.ring.Remove(seat.ID)
	te.removed = append(te.removed, seat.ID)
	te.releaseReady(seat.ID)

	if te.ring.Len() == 0 {
		te.shutdown()
		return
	}

	if nextDealer != "" {
		te.table.State.DealerID = nextDealer
		te.dealerMoved = true
		if d, err := te.ring.Get(nextDealer); err == nil {
			te.notify(fmt.Sprintf("%s is now the dealer.", d.Name))
		}
	}

	if te.table.State.HostID == seat.ID {
		host, err := seat_ring.PickSuccessor(te.hostCandidates(), te.rnd)
		if err == nil {
			te.table.State.HostID = host.ID
			te.notify(fmt.Sprintf("%s is now the host.", host.Name))
		}
	}
}

// hostCandidates returns the seats still playing, or every seat when
// nobody is.
func (te *tableEngine) hostCandidates() []*seat_ring.Seat {
	seats := te.ring.Seats("")
	playing := funk.Filter(seats, func(s *seat_ring.Seat) bool {
		return s.CanPlay()
	}).([]*seat_ring.Seat)

	if len(playing) == 0 {
		return seats
	}
	return playing
}

// releaseReady stops the pause between hands from waiting on a seat that
// will not play the next hand.
func (te *tableEngine) releaseReady(seatID string) {
	if te.table.State.Status != TableStateStatus_TableGameSettled || te.table.Meta.PauseTime <= 0 {
		return
	}
	_ = te.ogm.Ready(seatID)
}

// nextPlayable returns the first seat after seatID able to play, falling
// back to its direct successor.
func (te *tableEngine) nextPlayable(seatID string) string {
	ids := te.ring.IDs(seatID)
	for _, id := range ids[1:] {
		if s, _ := te.ring.Get(id); s.CanPlay() {
			return id
		}
	}

	if len(ids) > 1 {
		return ids[1]
	}
	return ""
}

// checkInvariant verifies bank == pot + every stack + every street bet.
func (te *tableEngine) checkInvariant() error {
	total := int64(0)
	if te.session != nil {
		total += te.session.Pot()
	}
	for _, s := range te.ring.Seats("") {
		total += s.Stack + s.Bet
	}

	if total != te.table.State.Bank {
		return fmt.Errorf("%w: bank %s, chips on the table %s", ErrMoneyInvariantViolation,
			settlement.FormatMoney(te.table.State.Bank), settlement.FormatMoney(total))
	}
	return nil
}

// halt stops the table without persisting anything.
func (te *tableEngine) halt(err error) {
	te.halted = true
	te.tb.Cancel()
	te.ogm.Stop()
	te.table.State.Status = TableStateStatus_TableHalted

	te.logger.Error("table halted", "table", te.table.ID, "error", err)
	te.emitErrorEvent("TableHalted", "", err)
	te.emitEvent("TableHalted", "")
}

/*
shutdown 關桌
  - 所有座位離桌並記錄結束籌碼
  - 依帳本結算，報表非同步寄送給所有玩家
*/
func (te *tableEngine) shutdown() {
	te.tb.Cancel()
	te.ogm.Stop()

	for _, s := range te.ring.Seats(te.table.State.DealerID) {
		te.table.State.Bank -= s.Stack
		te.ledger.Leave(s.PlayerID, s.Stack, s.Statistics)
		_ = te.ring.Remove(s.ID)
		te.removed = append(te.removed, s.ID)
	}
	te.commands = make([]AdminCommand, 0)

	report, err := settlement.Settle(te.ledger.Logs(), te.ledger.TotalBuyIn(), settlement.Options{
		Unit:        te.options.SettlementUnit,
		RoundToUnit: true,
	})
	if err != nil {
		te.emitErrorEvent("Settle", "", err)
	} else {
		report.Recipients = te.ledger.Recipients()
		te.table.State.Report = report
	}

	te.table.State.Status = TableStateStatus_TableClosed
	te.persist()
	te.emitEvent("TableClosed", "")

	if report != nil {
		te.lock.Lock()
		fn := te.onTableSettled
		te.lock.Unlock()
		fn(te.table.Clone(), report)

		te.deliveries.Add(1)
		go func() {
			defer te.deliveries.Done()

			ctx, cancel := context.WithTimeout(context.Background(), te.options.StoreTimeout)
			defer cancel()

			if err := te.deliverer.Deliver(ctx, report, report.Recipients); err != nil {
				te.logger.Warn("failed to deliver settlement report", "table", te.table.ID, "error", err)
			}
		}()
	}

	te.closed = true
	go te.notifier.Close()
}

func (te *tableEngine) notify(message string) {
	if te.notifier == nil {
		return
	}
	te.notifier.Send(te.table.ID, message)
}

// persist commits the table at a safe point. Failures never stop the game.
func (te *tableEngine) persist() {
	if te.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), te.options.StoreTimeout)
	defer cancel()

	if err := te.store.Commit(ctx, te.changeSet()); err != nil {
		te.logger.Error("failed to persist table", "table", te.table.ID, "error", err)
		te.emitErrorEvent("Persist", "", err)
		return
	}
	te.removed = make([]string, 0)
}

func (te *tableEngine) changeSet() store.ChangeSet {
	te.syncState()

	state := te.table.State
	cs := store.ChangeSet{
		TableID: te.table.ID,
		Table: &store.TableRecord{
			ID: te.table.ID,
			Meta: store.MetaRecord{
				Name:            te.table.Meta.Name,
				SmallBlind:      te.table.Meta.SmallBlind,
				MinBuyIn:        te.table.Meta.MinBuyIn,
				MinDenomination: te.table.Meta.MinDenomination,
				ActionTime:      te.table.Meta.ActionTime,
				PauseTime:       te.table.Meta.PauseTime,
				MaxSeatCount:    te.table.Meta.MaxSeatCount,
			},
			Status:       string(state.Status),
			StartAt:      state.StartAt,
			Bank:         state.Bank,
			Pot:          state.Pot,
			DealerID:     state.DealerID,
			HostID:       state.HostID,
			HandsPlayed:  state.HandCount,
			Board:        state.Board,
			Ledger:       te.ledger.Logs(),
			Report:       state.Report,
			UpdateSerial: te.table.UpdateSerial,
			UpdateAt:     te.table.UpdateAt,
		},
		Seats:        make([]*store.SeatRecord, 0, te.ring.Len()),
		RemovedSeats: append([]string(nil), te.removed...),
	}

	if state.Status == TableStateStatus_TableGameSettled && te.table.Meta.PauseTime > 0 {
		pause := te.ogm.GetState()
		cs.Table.Pause = &pause
	}

	for _, s := range te.ring.Seats("") {
		nextID, _ := te.ring.Next(s.ID)
		cs.Seats = append(cs.Seats, &store.SeatRecord{
			TableID: te.table.ID,
			NextID:  nextID,
			Seat:    *s.Clone(),
		})
	}

	if te.session != nil {
		cs.Session = &store.SessionRecord{
			TableID: te.table.ID,
			Info:    te.session.Info(),
			Result:  te.session.Result(),
		}
	}

	return cs
}

// syncState copies the live ring and hand into the table state.
func (te *tableEngine) syncState() {
	state := te.table.State
	state.Seats = te.ring.Seats(state.DealerID)
	state.PendingCommands = len(te.commands)

	if te.session == nil {
		return
	}

	info := te.session.Info()
	state.Session = &info
	state.Pot = te.session.Pot()
	state.Board = te.session.Board()
}
