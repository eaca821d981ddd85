package holdemtable

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weedbox/holdemtable/seat_ring"
	"github.com/weedbox/holdemtable/store"
)

func seatIDs(seats []*seat_ring.Seat) []string {
	ids := make([]string, 0, len(seats))
	for _, s := range seats {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestRestoreTable_CancelsRunningHand(t *testing.T) {
	ms := store.NewMemoryStore()
	origin := newTestEngine(WithStore(ms))

	_, err := origin.CreateTable(newTestSetting("a", "b", "c"))
	require.NoError(t, err)
	require.NoError(t, origin.StartTableGame())

	before := origin.GetTable()
	require.True(t, before.IsPlaying())

	te := newTestEngine(WithStore(ms))
	table, err := te.RestoreTable(before.ID)
	require.NoError(t, err)

	assert.Equal(t, TableStateStatus_TablePausing, table.State.Status)
	assert.Equal(t, 1, table.State.HandCount)
	assert.Equal(t, before.State.DealerID, table.State.DealerID)
	assert.Equal(t, before.State.HostID, table.State.HostID)
	assert.Equal(t, before.State.StartAt, table.State.StartAt)
	assert.Equal(t, int64(3000), table.State.Bank)
	assert.Equal(t, seatIDs(before.State.Seats), seatIDs(table.State.Seats))
	for _, s := range table.State.Seats {
		assert.Equal(t, int64(1000), s.Stack, "blinds are returned to %s", s.ID)
		assert.Zero(t, s.Bet)
		assert.Zero(t, s.Committed)
		assert.Empty(t, s.HoleCards)
	}
	assert.Len(t, te.ledger.Logs(), 3)

	record, err := ms.LoadTable(context.Background(), before.ID)
	require.NoError(t, err)
	assert.Equal(t, string(TableStateStatus_TablePausing), record.Status)

	require.NoError(t, te.StartTableGame())
	table = te.GetTable()
	assert.True(t, table.IsPlaying())
	assert.Equal(t, 2, table.State.HandCount)
	assert.NoError(t, te.checkInvariant())
}

func TestRestoreTable_ResumesPause(t *testing.T) {
	ms := store.NewMemoryStore()
	origin := newTestEngine(WithStore(ms))

	setting := newTestSetting("a", "b")
	setting.Meta.PauseTime = 60
	_, err := origin.CreateTable(setting)
	require.NoError(t, err)
	require.NoError(t, origin.StartTableGame())
	require.NoError(t, origin.PlayerFold(origin.GetTable().TurnSeatID()))

	require.Eventually(t, func() bool {
		return origin.GetTable().State.Status == TableStateStatus_TableGameSettled
	}, 3*time.Second, 10*time.Millisecond)

	tableID := origin.GetTable().ID
	record, err := ms.LoadTable(context.Background(), tableID)
	require.NoError(t, err)
	require.NotNil(t, record.Pause)
	assert.Len(t, record.Pause.Participants, 2)
	assert.Equal(t, 1, record.Pause.HandCount)

	te := newTestEngine(WithStore(ms))
	table, err := te.RestoreTable(tableID)
	require.NoError(t, err)
	assert.Equal(t, TableStateStatus_TableGameSettled, table.State.Status)
	assert.NotNil(t, table.State.LastResult)
	assert.Equal(t, 60, table.Meta.PauseTime)

	require.NoError(t, te.PlayerReady("a"))
	require.NoError(t, te.PlayerReady("b"))

	require.Eventually(t, func() bool {
		table := te.GetTable()
		return table.State.HandCount == 2 && table.IsPlaying()
	}, 3*time.Second, 10*time.Millisecond)
}

func settledChangeSet(tableID string, pauseTime int, nextIDs map[string]string) store.ChangeSet {
	meta := NewDefaultTableMeta()
	meta.PauseTime = pauseTime

	cs := store.ChangeSet{
		TableID: tableID,
		Table: &store.TableRecord{
			ID: tableID,
			Meta: store.MetaRecord{
				Name:            meta.Name,
				SmallBlind:      meta.SmallBlind,
				MinBuyIn:        meta.MinBuyIn,
				MinDenomination: meta.MinDenomination,
				ActionTime:      meta.ActionTime,
				PauseTime:       meta.PauseTime,
				MaxSeatCount:    meta.MaxSeatCount,
			},
			Status:      string(TableStateStatus_TableGameSettled),
			StartAt:     time.Now().Unix(),
			Bank:        int64(1000 * len(nextIDs)),
			DealerID:    "a",
			HostID:      "b",
			HandsPlayed: 4,
		},
	}
	for id, next := range nextIDs {
		cs.Seats = append(cs.Seats, &store.SeatRecord{
			TableID: tableID,
			NextID:  next,
			Seat:    *seat_ring.NewSeat(id, "player-"+id, id, 1000),
		})
	}
	return cs
}

func TestRestoreTable_OpensNextHandWithoutPause(t *testing.T) {
	ms := store.NewMemoryStore()
	require.NoError(t, ms.Commit(context.Background(),
		settledChangeSet("t1", 0, map[string]string{"a": "c", "c": "b", "b": "a"})))

	te := newTestEngine(WithStore(ms))
	table, err := te.RestoreTable("t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, seatIDs(table.State.Seats), "ring order follows the stored successors")
	assert.Equal(t, "b", table.State.HostID)

	require.Eventually(t, func() bool {
		table := te.GetTable()
		return table.State.HandCount == 5 && table.IsPlaying()
	}, 3*time.Second, 10*time.Millisecond)
}

func TestRestoreTable_Failures(t *testing.T) {
	ms := store.NewMemoryStore()
	ctx := context.Background()

	_, err := newTestEngine(WithStore(ms)).RestoreTable("missing")
	assert.ErrorIs(t, err, ErrTableRestore)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// b points at a seat that was never stored
	require.NoError(t, ms.Commit(ctx, settledChangeSet("broken", 0, map[string]string{"a": "b", "b": "x"})))
	_, err = newTestEngine(WithStore(ms)).RestoreTable("broken")
	assert.ErrorIs(t, err, ErrTableRestore)
	assert.ErrorIs(t, err, store.ErrNotFound)

	cs := settledChangeSet("short", 0, map[string]string{"a": "b", "b": "a"})
	cs.Table.Bank += 5
	require.NoError(t, ms.Commit(ctx, cs))
	_, err = newTestEngine(WithStore(ms)).RestoreTable("short")
	assert.ErrorIs(t, err, ErrTableRestore)
	assert.ErrorIs(t, err, ErrMoneyInvariantViolation)

	origin := newTestEngine(WithStore(ms))
	table, err := origin.CreateTable(newTestSetting("a", "b"))
	require.NoError(t, err)
	require.NoError(t, origin.CloseTable())
	<-origin.Done()

	_, err = newTestEngine(WithStore(ms)).RestoreTable(table.ID)
	assert.ErrorIs(t, err, ErrTableClosed)

	te := newTestEngine(WithStore(ms))
	_, err = te.CreateTable(newTestSetting("a", "b"))
	require.NoError(t, err)
	_, err = te.RestoreTable(table.ID)
	assert.ErrorIs(t, err, ErrTableInvalidCreateSetting, "a running engine cannot take another table")
}

func TestManager_RestoreTable(t *testing.T) {
	ms := store.NewMemoryStore()
	m := NewManager()

	setting := newTestSetting("a", "b")
	setting.TableID = "table-1"
	_, err := m.CreateTable(nil, nil, setting, WithStore(ms))
	require.NoError(t, err)
	require.NoError(t, m.StartTableGame("table-1"))

	_, err = m.RestoreTable(nil, nil, "table-1", WithStore(ms))
	assert.ErrorIs(t, err, ErrTableRestore, "the table is still running here")

	other := NewManager()
	table, err := other.RestoreTable(nil, nil, "table-1", WithStore(ms))
	require.NoError(t, err)
	assert.Equal(t, TableStateStatus_TablePausing, table.State.Status)

	require.NoError(t, other.StartTableGame("table-1"))
	te, err := other.GetTableEngine("table-1")
	require.NoError(t, err)
	assert.Equal(t, 2, te.GetTable().State.HandCount)

	_, err = other.RestoreTable(nil, nil, "missing", WithStore(ms))
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = other.GetTableEngine("missing")
	assert.ErrorIs(t, err, ErrManagerTableNotFound)
}
