package testcases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weedbox/holdemtable"
)

func TestTableGame_KnockoutPeople_Continue(t *testing.T) {
	// given conditions
	setting := NewDefaultTableSetting(1000, "Fred", "Jeffrey", "Chuck")
	te, _ := NewTestTableEngine(t, setting)

	require.NoError(t, te.StartTableGame(), "start table game failed")

	seats := te.GetTable().State.Seats
	dealer, sb, bb := seats[0], seats[1], seats[2]

	// button shoves, small blind folds, big blind calls it off
	assert.Equal(t, dealer.ID, AllIn(t, te))
	assert.Equal(t, sb.ID, Fold(t, te))
	assert.Equal(t, bb.ID, Call(t, te))

	table := WaitForStatus(t, te, holdemtable.TableStateStatus_TableGameSettled)
	DebugPrintTable(*table)

	result := table.State.LastResult
	require.NotNil(t, result)
	assert.True(t, result.Contested)
	assert.Len(t, result.Board, 5, "the board runs out when everybody is all in")
	assert.Equal(t, int64(2005), result.Pot)
	AssertMoneyConserved(t, table)

	if len(result.Winners) != 1 {
		// a chopped pot leaves nobody busted
		assert.Equal(t, table.FindSeat(dealer.ID).Stack+table.FindSeat(bb.ID).Stack, int64(2005))
		return
	}

	winner := result.Winners[0].SeatID
	loser := dealer.ID
	if winner == dealer.ID {
		loser = bb.ID
	}
	assert.Equal(t, int64(2005), table.FindSeat(winner).Stack)
	assert.Zero(t, table.FindSeat(loser).Stack)
	assert.False(t, table.FindSeat(loser).CanPlay())

	// the busted seat stays at the table but sits the next hand out
	AllSeatsReady(t, te)
	table = WaitForHand(t, te, 2)

	busted := table.FindSeat(loser)
	require.NotNil(t, busted)
	assert.False(t, busted.IsActive)
	assert.False(t, busted.IsInHand)
	assert.Empty(t, busted.HoleCards)
	assert.Len(t, table.ActiveSeats(), 2)
	assert.NotEqual(t, loser, table.TurnSeatID())
	AssertMoneyConserved(t, table)

	// a rebuy brings the seat back for the hand after
	require.NoError(t, te.SubmitCommand(holdemtable.BuyInCommand(loser, 1000)))
	assert.Equal(t, 1, te.GetTable().State.PendingCommands)

	CallDown(t, te)
	AllSeatsReady(t, te)
	table = WaitForHand(t, te, 3)

	busted = table.FindSeat(loser)
	assert.True(t, busted.IsInHand)
	assert.Equal(t, int64(1000), busted.Stack+busted.Bet)
	assert.Equal(t, int64(2000), busted.BuyIn)
	assert.Equal(t, int64(4000), table.State.Bank)
	assert.Zero(t, table.State.PendingCommands)
	AssertMoneyConserved(t, table)
}
