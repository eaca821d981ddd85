package holdemtable

import (
	"context"
	"errors"
	"fmt"

	"github.com/weedbox/holdemtable/betting_round"
	"github.com/weedbox/holdemtable/deck"
	"github.com/weedbox/holdemtable/open_game_manager"
	"github.com/weedbox/holdemtable/seat_ring"
	"github.com/weedbox/holdemtable/settlement"
	"github.com/weedbox/holdemtable/store"
)

/*
RestoreTable 從儲存的紀錄還原桌次
  - 依座位紀錄的 NextID 從 Dealer 開始重建座位環
  - 帳本與等待下一手的準備狀態一併還原
  - 牌局進行中的一手作廢，本手下注退回，桌次改為暫停，由 StartTableGame 繼續
*/
func (te *tableEngine) RestoreTable(tableID string) (*Table, error) {
	if te.created.Load() {
		return nil, fmt.Errorf("%w: table already created", ErrTableInvalidCreateSetting)
	}

	ctx, cancel := context.WithTimeout(context.Background(), te.options.StoreTimeout)
	defer cancel()

	record, err := te.store.LoadTable(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTableRestore, err)
	}

	status := TableStateStatus(record.Status)
	if status == TableStateStatus_TableClosed {
		return nil, ErrTableClosed
	}

	meta := TableMeta{
		Name:            record.Meta.Name,
		SmallBlind:      record.Meta.SmallBlind,
		MinBuyIn:        record.Meta.MinBuyIn,
		MinDenomination: record.Meta.MinDenomination,
		ActionTime:      record.Meta.ActionTime,
		PauseTime:       record.Meta.PauseTime,
		MaxSeatCount:    record.Meta.MaxSeatCount,
	}
	if err := validateTableMeta(meta); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTableRestore, err)
	}

	if err := te.restoreRing(ctx, record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTableRestore, err)
	}

	te.table = &Table{
		ID:   record.ID,
		Meta: meta,
		State: &TableState{
			Status:    status,
			StartAt:   record.StartAt,
			Bank:      record.Bank,
			DealerID:  record.DealerID,
			HostID:    record.HostID,
			HandCount: record.HandsPlayed,
			Board:     make([]deck.Card, 0),
			Seats:     make([]*seat_ring.Seat, 0),
			Notices:   make([]betting_round.Notice, 0),
		},
	}
	te.ledger = settlement.NewLedgerFromLogs(record.Ledger)

	session, err := te.store.LoadSession(ctx, tableID)
	switch {
	case err == nil:
		te.table.State.LastResult = session.Result
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("%w: %w", ErrTableRestore, err)
	}

	te.notifier = newAsyncNotifier(te.notifyTarget, te.options.NotifyBufferSize, te.options.StoreTimeout, te.logger)
	if status == TableStateStatus_TableGamePlaying {
		te.abortRestoredHand()
	}

	if err := te.checkInvariant(); err != nil {
		te.notifier.Close()
		return nil, fmt.Errorf("%w: %w", ErrTableRestore, err)
	}

	openNext := false
	switch {
	case status == TableStateStatus_TableGameSettled && meta.PauseTime > 0 && record.Pause != nil:
		te.ogm = open_game_manager.NewOpenGameManagerFromState(*record.Pause, te.openGameOption())
	case status == TableStateStatus_TableGameSettled:
		openNext = true
		fallthrough
	default:
		te.ogm = open_game_manager.NewOpenGameManager(te.openGameOption())
	}

	te.logger.Info("table restored", "table", te.table.ID, "status", status, "hands", te.table.State.HandCount, "seats", te.ring.Len())
	te.launch("RestoreTable")

	if openNext {
		go te.post(&Request{
			Action: RequestAction_OpenNextHand,
			Param:  OpenNextHandParam{HandCount: te.table.State.HandCount},
		})
	}

	return te.GetTable(), nil
}

// restoreRing follows the stored successor ids around the table from the dealer.
func (te *tableEngine) restoreRing(ctx context.Context, record *store.TableRecord) error {
	maxSeats := record.Meta.MaxSeatCount
	if maxSeats <= 0 {
		maxSeats = MaxSeatCountLimit
	}

	prevID := ""
	seatID := record.DealerID
	for i := 0; i <= maxSeats; i++ {
		if te.ring.Has(seatID) {
			return nil
		}

		r, err := te.store.LoadSeat(ctx, record.ID, seatID)
		if err != nil {
			return fmt.Errorf("seat %s: %w", seatID, err)
		}

		seat := r.Seat.Clone()
		if prevID == "" {
			err = te.ring.Insert(seat)
		} else {
			err = te.ring.InsertAfter(prevID, seat)
		}
		if err != nil {
			return err
		}

		prevID = seat.ID
		seatID = r.NextID
	}

	return fmt.Errorf("seat ring of %s does not close", record.ID)
}

// abortRestoredHand gives back what every seat committed to the unfinished hand.
func (te *tableEngine) abortRestoredHand() {
	for _, s := range te.ring.Seats("") {
		s.Stack += s.Committed
		s.ResetForHand()
	}

	te.table.State.Status = TableStateStatus_TablePausing
	te.notify(fmt.Sprintf("Hand %d was cancelled and every bet was returned.", te.table.State.HandCount))
}
