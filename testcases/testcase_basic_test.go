package testcases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weedbox/holdemtable"
	"github.com/weedbox/holdemtable/betting_round"
	"github.com/weedbox/holdemtable/hand_session"
)

func TestTableGame_Basic(t *testing.T) {
	// given conditions
	setting := NewDefaultTableSetting(1000, "Fred", "Jeffrey", "Chuck")
	te, _ := NewTestTableEngine(t, setting)

	// start game
	require.NoError(t, te.StartTableGame(), "start table game failed")

	table := te.GetTable()
	require.True(t, table.IsPlaying())
	assert.Equal(t, 1, table.State.HandCount)
	assert.Equal(t, "seat-Fred", table.State.DealerID)
	assert.Equal(t, "seat-Fred", table.State.HostID)
	assert.NotEqual(t, int64(holdemtable.UnsetValue), table.State.StartAt)

	seats := table.State.Seats
	require.Len(t, seats, 3)
	dealer, sb, bb := seats[0], seats[1], seats[2]
	assert.Equal(t, "seat-Fred", dealer.ID)
	assert.Equal(t, int64(5), sb.Bet)
	assert.Equal(t, int64(10), bb.Bet)
	for _, s := range seats {
		assert.Len(t, s.HoleCards, 2, "%s hole cards", s.ID)
	}
	AssertMoneyConserved(t, table)

	// preflop: dealer calls, small blind completes, big blind checks
	assert.Equal(t, dealer.ID, Call(t, te))
	assert.Equal(t, sb.ID, Call(t, te))
	assert.Equal(t, bb.ID, Check(t, te))

	table = te.GetTable()
	require.True(t, table.IsPlaying())
	assert.Equal(t, hand_session.Stage_Flop, table.State.Session.Stage)
	assert.Len(t, table.State.Board, 3)
	assert.Equal(t, int64(30), table.State.Pot)
	assert.Equal(t, sb.ID, table.TurnSeatID(), "small blind opens the flop")
	AssertMoneyConserved(t, table)

	// check it down
	for i := 0; i < 9; i++ {
		Check(t, te)
	}

	table = WaitForStatus(t, te, holdemtable.TableStateStatus_TableGameSettled)
	DebugPrintTable(*table)

	result := table.State.LastResult
	require.NotNil(t, result, "invalid game result")
	assert.True(t, result.Contested)
	assert.Equal(t, int64(30), result.Pot)
	assert.Len(t, result.Board, 5)
	assert.Len(t, result.Revealed, 3)
	require.NotEmpty(t, result.Winners)

	shares := int64(0)
	for _, w := range result.Winners {
		shares += w.Share
	}
	assert.Equal(t, int64(30), shares)
	assert.Equal(t, int64(3000), table.State.Bank)
	assert.Zero(t, table.State.Pot)
	AssertMoneyConserved(t, table)

	// a showdown shows everybody's cards
	view := table.ViewFor(sb.ID)
	for _, s := range view.State.Seats {
		assert.Len(t, s.HoleCards, 2, "%s cards should be revealed", s.ID)
	}

	// next hand moves the button
	AllSeatsReady(t, te)
	table = WaitForHand(t, te, 2)
	assert.Equal(t, sb.ID, table.State.DealerID)
	assert.Equal(t, sb.ID, table.State.Seats[0].ID)
	AssertMoneyConserved(t, table)

	// cards of a running hand stay private
	view = table.ViewFor(dealer.ID)
	for _, s := range view.State.Seats {
		if s.ID == dealer.ID {
			assert.Len(t, s.HoleCards, 2)
			continue
		}
		assert.Empty(t, s.HoleCards, "%s cards should be hidden", s.ID)
	}
}

func TestTableGame_RejectsInvalidActions(t *testing.T) {
	setting := NewDefaultTableSetting(1000, "Fred", "Jeffrey", "Chuck")
	te, _ := NewTestTableEngine(t, setting)

	assert.ErrorIs(t, te.PlayerAct("seat-Fred", 10), holdemtable.ErrTableInvalidAction, "no hand is running yet")
	require.NoError(t, te.StartTableGame())
	assert.ErrorIs(t, te.StartTableGame(), holdemtable.ErrTableInvalidAction)

	table := te.GetTable()
	turn := table.FindSeat(table.TurnSeatID())
	other := table.State.Seats[1]
	require.NotEqual(t, turn.ID, other.ID)

	assert.ErrorIs(t, te.PlayerAct(other.ID, 10), betting_round.ErrInvalidAction, "out of turn")
	assert.ErrorIs(t, te.PlayerAct(turn.ID, 12), betting_round.ErrInvalidAction, "off denomination")
	assert.ErrorIs(t, te.PlayerAct(turn.ID, 15), betting_round.ErrInvalidAction, "below the minimum raise")
	assert.ErrorIs(t, te.PlayerAct(turn.ID, 5000), betting_round.ErrInvalidAction, "above the stack")
	assert.ErrorIs(t, te.PlayerReady(turn.ID), holdemtable.ErrTableInvalidAction, "hand still running")

	// nothing changed
	after := te.GetTable()
	assert.Equal(t, turn.ID, after.TurnSeatID())
	AssertMoneyConserved(t, after)

	// a legal raise reopens the action
	assert.Equal(t, turn.ID, Raise(t, te, 30))
	after = te.GetTable()
	assert.Equal(t, int64(30), after.State.Session.Bet)
	assert.Equal(t, int64(20), after.State.Session.MinRaise)
}
