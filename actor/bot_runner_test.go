package actor

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weedbox/holdemtable"
	"github.com/weedbox/holdemtable/hand_session"
	"github.com/weedbox/holdemtable/seat_ring"
	"github.com/weedbox/holdemtable/settlement"
)

type call struct {
	Method string
	SeatID string
	Total  int64
}

type fakeActions struct {
	calls chan call
}

func newFakeActions() *fakeActions {
	return &fakeActions{calls: make(chan call, 16)}
}

func (f *fakeActions) PlayerAct(seatID string, total int64) error {
	f.calls <- call{Method: "act", SeatID: seatID, Total: total}
	return nil
}

func (f *fakeActions) PlayerFold(seatID string) error {
	f.calls <- call{Method: "fold", SeatID: seatID}
	return nil
}

func (f *fakeActions) PlayerReady(seatID string) error {
	f.calls <- call{Method: "ready", SeatID: seatID}
	return nil
}

func (f *fakeActions) next(t *testing.T) call {
	select {
	case c := <-f.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("bot did not act")
	}
	return call{}
}

func (f *fakeActions) assertIdle(t *testing.T) {
	select {
	case c := <-f.calls:
		t.Fatalf("unexpected call %+v", c)
	case <-time.After(200 * time.Millisecond):
	}
}

func turnTable(seat *seat_ring.Seat, bet int64, minRaise int64) *holdemtable.Table {
	return &holdemtable.Table{
		ID:   "t1",
		Meta: holdemtable.NewDefaultTableMeta(),
		State: &holdemtable.TableState{
			Status:    holdemtable.TableStateStatus_TableGamePlaying,
			HandCount: 1,
			Seats:     []*seat_ring.Seat{seat},
			Session: &hand_session.SessionInfo{
				HandNumber:   1,
				BettingRound: 1,
				Bet:          bet,
				MinRaise:     minRaise,
				TurnSeatID:   seat.ID,
			},
		},
	}
}

func Test_CalcActionProbabilities(t *testing.T) {
	br := NewBotRunner(newFakeActions(), "a")

	probabilities := br.calcActionProbabilities([]string{Action_Call, Action_Fold})
	require.Len(t, probabilities, 2)
	assert.Equal(t, Action_Call, probabilities[0].Action)
	assert.InDelta(t, 0.8, probabilities[0].Weight, 1e-9)
	assert.Equal(t, Action_Fold, probabilities[1].Action)
	assert.InDelta(t, 1.0, probabilities[1].Weight, 1e-9)
}

func Test_BotCallsOnItsTurnOnce(t *testing.T) {
	actions := newFakeActions()
	br := NewBotRunner(actions, "a", WithActionProbabilities([]ActionProbability{
		{Action: Action_Call, Weight: 1},
	}))

	seat := seat_ring.NewSeat("a", "player-a", "Ann", 1000)
	table := turnTable(seat, 10, 10)

	require.NoError(t, br.UpdateTableState(table))
	c := actions.next(t)
	assert.Equal(t, call{Method: "act", SeatID: "a", Total: 10}, c)

	// the same turn published again
	require.NoError(t, br.UpdateTableState(table))
	actions.assertIdle(t)
}

func Test_BotRaiseStaysOnDenomination(t *testing.T) {
	actions := newFakeActions()
	br := NewBotRunner(actions, "a",
		WithRand(rand.New(rand.NewSource(3))),
		WithActionProbabilities([]ActionProbability{{Action: Action_Raise, Weight: 1}}),
	)

	seat := seat_ring.NewSeat("a", "player-a", "Ann", 1000)
	require.NoError(t, br.UpdateTableState(turnTable(seat, 10, 10)))

	c := actions.next(t)
	assert.Equal(t, "act", c.Method)
	assert.GreaterOrEqual(t, c.Total, int64(20))
	assert.LessOrEqual(t, c.Total, int64(1000))
	assert.Zero(t, c.Total%5)
}

func Test_BotShortCallGoesAllIn(t *testing.T) {
	actions := newFakeActions()
	br := NewBotRunner(actions, "a", WithActionProbabilities([]ActionProbability{
		{Action: Action_Call, Weight: 1},
	}))

	seat := seat_ring.NewSeat("a", "player-a", "Ann", 50)
	require.NoError(t, br.UpdateTableState(turnTable(seat, 200, 100)))

	assert.Equal(t, call{Method: "act", SeatID: "a", Total: 50}, actions.next(t))
}

func Test_BotFoldsOnlyWhenFacingABet(t *testing.T) {
	actions := newFakeActions()
	br := NewBotRunner(actions, "a", WithActionProbabilities([]ActionProbability{
		{Action: Action_Check, Weight: 1},
		{Action: Action_Fold, Weight: 1},
	}))

	seat := seat_ring.NewSeat("a", "player-a", "Ann", 1000)

	// nothing owed, so the only weighted choice is a check
	require.NoError(t, br.UpdateTableState(turnTable(seat, 0, 10)))
	assert.Equal(t, call{Method: "act", SeatID: "a", Total: 0}, actions.next(t))

	table := turnTable(seat, 10, 10)
	table.State.Session.BettingRound = 2
	require.NoError(t, br.UpdateTableState(table))
	assert.Equal(t, call{Method: "fold", SeatID: "a"}, actions.next(t))
}

func Test_BotReadiesAfterHand(t *testing.T) {
	actions := newFakeActions()
	br := NewBotRunner(actions, "a")

	seat := seat_ring.NewSeat("a", "player-a", "Ann", 1000)
	table := turnTable(seat, 0, 10)
	table.Meta.PauseTime = 5
	table.State.Status = holdemtable.TableStateStatus_TableGameSettled

	require.NoError(t, br.UpdateTableState(table))
	assert.Equal(t, call{Method: "ready", SeatID: "a"}, actions.next(t))

	require.NoError(t, br.UpdateTableState(table))
	actions.assertIdle(t)
}

func Test_BotsPlayTableToSettlement(t *testing.T) {
	const hands = 5

	var mu sync.Mutex
	bots := make([]*botRunner, 0)
	closing := make(chan struct{})
	settled := make(chan *settlement.Report, 1)
	var once sync.Once

	meta := holdemtable.NewDefaultTableMeta()
	meta.ActionTime = 5

	te := holdemtable.NewTableEngine(holdemtable.NewTableEngineOptions(),
		holdemtable.WithRandSource(rand.NewSource(11)),
	)
	te.OnTableUpdated(func(table *holdemtable.Table) {
		mu.Lock()
		defer mu.Unlock()

		for _, br := range bots {
			_ = br.UpdateTableState(table.ViewFor(br.SeatID()))
		}

		// a table short of players stops early
		if table.State.HandCount >= hands || table.State.Status == holdemtable.TableStateStatus_TableGameStandby {
			once.Do(func() { close(closing) })
		}
	})
	te.OnTableSettled(func(table *holdemtable.Table, report *settlement.Report) {
		settled <- report
	})

	host := holdemtable.JoinPlayer{PlayerID: "p1", Name: "Ann", Contact: "ann@example.com", BuyIn: 2000}
	setting := holdemtable.NewDefaultTableSetting(host,
		holdemtable.JoinPlayer{PlayerID: "p2", Name: "Bob", Contact: "bob@example.com", BuyIn: 2000},
		holdemtable.JoinPlayer{PlayerID: "p3", Name: "Cid", BuyIn: 2000},
	)
	setting.Meta = meta

	table, err := te.CreateTable(setting)
	require.NoError(t, err)

	mu.Lock()
	for idx, s := range table.State.Seats {
		bots = append(bots, NewBotRunner(te, s.ID, WithRand(rand.New(rand.NewSource(int64(idx+1))))))
	}
	mu.Unlock()

	require.NoError(t, te.StartTableGame())

	select {
	case <-closing:
	case <-time.After(30 * time.Second):
		t.Fatal("bots did not finish the hands")
	}
	require.NoError(t, te.CloseTable())

	var report *settlement.Report
	select {
	case report = <-settled:
	case <-time.After(5 * time.Second):
		t.Fatal("table was not settled")
	}

	<-te.Done()

	net := int64(0)
	for _, e := range report.Entries() {
		net += e.Net
		assert.Equal(t, int64(2000), e.BuyIn)
	}
	assert.Zero(t, net)
	assert.Equal(t, []string{"ann@example.com", "bob@example.com"}, report.Recipients)

	final := te.GetTable()
	assert.Equal(t, holdemtable.TableStateStatus_TableClosed, final.State.Status)
	assert.Zero(t, final.State.Bank)
	assert.NotZero(t, final.State.HandCount)
}
