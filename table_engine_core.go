package holdemtable

import (
	"fmt"
	"time"

	"github.com/weedbox/holdemtable/seat_ring"
)

// incomingRequest hands the request to the table loop and waits for its answer.
func (te *tableEngine) incomingRequest(action RequestAction, param interface{}) error {
	if !te.created.Load() {
		return ErrTableNotCreated
	}

	req := &Request{
		Action: action,
		Param:  param,
		reply:  make(chan error, 1),
	}

	select {
	case <-te.done:
		return ErrTableClosed
	case te.incoming <- req:
	}

	select {
	case err := <-req.reply:
		return err
	case <-te.done:
		// the loop answered right before it stopped
		select {
		case err := <-req.reply:
			return err
		default:
			return ErrTableClosed
		}
	}
}

// post queues an internal request without waiting for an answer.
func (te *tableEngine) post(req *Request) {
	select {
	case te.incoming <- req:
	case <-te.done:
	}
}

func (te *tableEngine) run() {
	defer func() {
		te.deliveries.Wait()
		close(te.done)
	}()

	for req := range te.incoming {
		err := te.requestHandler(req)
		if req.reply != nil {
			req.reply <- err
		}

		if te.closed {
			return
		}
	}
}

func (te *tableEngine) requestHandler(req *Request) error {
	if te.halted {
		// a halted table can only be stopped, it is never settled
		if cmd, ok := req.Param.(AdminCommand); ok && cmd.Kind == CommandKind_Shutdown {
			te.closed = true
			go te.notifier.Close()
			return nil
		}
		return ErrTableHalted
	}

	handlers := map[RequestAction]func(interface{}) error{
		RequestAction_StartTableGame: te.handleStartTableGame,
		RequestAction_PlayerJoin:     te.handlePlayerJoin,
		RequestAction_PlayerAct:      te.handlePlayerAct,
		RequestAction_PlayerFold:     te.handlePlayerFold,
		RequestAction_PlayerReady:    te.handlePlayerReady,
		RequestAction_AdminCommand:   te.handleAdminCommand,
		RequestAction_Timeout:        te.handleTimeout,
		RequestAction_OpenNextHand:   te.handleOpenNextHand,
	}

	handler, ok := handlers[req.Action]
	if !ok {
		return fmt.Errorf("%w: unknown request %s", ErrTableInvalidAction, req.Action)
	}

	err := handler(req.Param)
	if err != nil {
		te.logger.Debug("request rejected", "table", te.table.ID, "action", req.Action, "error", err)
	}
	return err
}

func (te *tableEngine) handleStartTableGame(param interface{}) error {
	switch te.table.State.Status {
	case TableStateStatus_TableCreated, TableStateStatus_TablePausing, TableStateStatus_TableGameStandby:
	default:
		return fmt.Errorf("%w: game already started", ErrTableInvalidAction)
	}

	if te.ring.Len() < 2 {
		return ErrTableNotEnoughPlayers
	}

	if te.table.State.StartAt == UnsetValue {
		te.table.State.StartAt = time.Now().Unix()
	}
	te.pausing = false

	te.openHand()
	return nil
}

func (te *tableEngine) handlePlayerJoin(param interface{}) error {
	jp := param.(PlayerJoinParam).JoinPlayer

	if err := validateJoinPlayer(te.table.Meta, jp); err != nil {
		return err
	}
	if te.ring.Len() >= te.table.Meta.MaxSeatCount {
		return ErrTableNoEmptySeats
	}
	if te.ring.Has(jp.SeatID) {
		return fmt.Errorf("%w: seat %s is taken", ErrTableInvalidAction, jp.SeatID)
	}

	// a seat joining mid-hand waits for the next one
	seat := seat_ring.NewSeat(jp.SeatID, jp.PlayerID, jp.Name, jp.BuyIn)
	seat.Contact = jp.Contact
	if err := te.ring.InsertRandom(seat, te.rnd); err != nil {
		return err
	}

	te.table.State.Bank += jp.BuyIn
	te.ledger.Join(jp.PlayerID, jp.Name, jp.Contact, jp.BuyIn)

	if err := te.checkInvariant(); err != nil {
		te.halt(err)
		return err
	}

	te.persist()
	te.emitEvent("PlayerJoin", seat.ID)
	te.resumeStandby()
	return nil
}

func (te *tableEngine) handlePlayerAct(param interface{}) error {
	p := param.(PlayerActParam)

	if !te.table.IsPlaying() {
		return fmt.Errorf("%w: no hand is running", ErrTableInvalidAction)
	}
	if err := te.session.Submit(p.SeatID, p.Total); err != nil {
		return err
	}

	te.progress()
	return nil
}

func (te *tableEngine) handlePlayerFold(param interface{}) error {
	p := param.(PlayerSeatParam)

	if !te.table.IsPlaying() {
		return fmt.Errorf("%w: no hand is running", ErrTableInvalidAction)
	}
	if err := te.session.Fold(p.SeatID); err != nil {
		return err
	}

	te.progress()
	return nil
}

func (te *tableEngine) handlePlayerReady(param interface{}) error {
	p := param.(PlayerSeatParam)

	if te.table.State.Status != TableStateStatus_TableGameSettled || te.table.Meta.PauseTime <= 0 {
		return fmt.Errorf("%w: table is not waiting for players", ErrTableInvalidAction)
	}
	return te.ogm.Ready(p.SeatID)
}

/*
handleAdminCommand 管理指令
  - 沒有牌局進行時立即執行
  - 牌局進行中則排入佇列，下一手開始前執行
  - 踢出或離開不在本手且不是 Dealer 的座位則立即執行
*/
func (te *tableEngine) handleAdminCommand(param interface{}) error {
	cmd := param.(AdminCommand)

	if err := cmd.Validate(te.table.Meta.MinDenomination); err != nil {
		return err
	}

	var seat *seat_ring.Seat
	if cmd.NeedsSeat() {
		s, err := te.ring.Get(cmd.SeatID)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrUnknownSeat, cmd.SeatID)
		}
		seat = s
	}

	if te.table.IsPlaying() && !te.canApplyDuringHand(cmd, seat) {
		te.commands = append(te.commands, cmd)
		te.emitEvent("CommandQueued", cmd.SeatID)
		return nil
	}

	if err := te.applyCommand(cmd); err != nil {
		return err
	}
	if te.closed {
		return nil
	}

	if err := te.checkInvariant(); err != nil {
		te.halt(err)
		return err
	}

	// between hands a pause takes effect right away
	if te.pausing {
		switch te.table.State.Status {
		case TableStateStatus_TableGameSettled, TableStateStatus_TableGameStandby:
			te.enterPause()
		}
	}

	te.persist()
	te.emitEvent(fmt.Sprintf("AdminCommand:%s", cmd.Kind), cmd.SeatID)
	te.resumeStandby()
	return nil
}

func (te *tableEngine) canApplyDuringHand(cmd AdminCommand, seat *seat_ring.Seat) bool {
	if cmd.Kind != CommandKind_Kick && cmd.Kind != CommandKind_Leave {
		return false
	}
	return !seat.IsInHand && seat.ID != te.table.State.DealerID
}

func (te *tableEngine) handleTimeout(param interface{}) error {
	p := param.(TimeoutParam)

	// stale deadline
	if !te.table.IsPlaying() || p.Serial != te.turnSerial || te.session.Turn() != p.SeatID {
		return nil
	}

	if err := te.session.Timeout(p.SeatID); err != nil {
		return err
	}

	te.progress()
	return nil
}

func (te *tableEngine) handleOpenNextHand(param interface{}) error {
	p := param.(OpenNextHandParam)

	switch te.table.State.Status {
	case TableStateStatus_TableGameSettled:
		if p.HandCount != te.table.State.HandCount {
			return nil
		}
	case TableStateStatus_TableGameStandby:
	default:
		return nil
	}

	te.ogm.Stop()
	te.openHand()
	return nil
}
