package testcases

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weedbox/holdemtable"
	"github.com/weedbox/holdemtable/seat_ring"
	"github.com/weedbox/holdemtable/settlement"
)

// Recorder collects everything a table sends to its collaborators.
type Recorder struct {
	mu       sync.Mutex
	errors   []error
	messages []string
	reports  []*settlement.Report
}

func (r *Recorder) Notify(ctx context.Context, tableID string, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return nil
}

func (r *Recorder) Deliver(ctx context.Context, report *settlement.Report, recipients []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
	return nil
}

func (r *Recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errors...)
}

func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func (r *Recorder) Reports() []*settlement.Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*settlement.Report(nil), r.reports...)
}

func NewTestTableEngine(t *testing.T, setting holdemtable.TableSetting, opts ...holdemtable.TableEngineOpt) (holdemtable.TableEngine, *Recorder) {
	recorder := &Recorder{}

	opts = append([]holdemtable.TableEngineOpt{
		holdemtable.WithRandSource(rand.NewSource(42)),
		holdemtable.WithNotifier(recorder),
		holdemtable.WithReportDeliverer(recorder),
	}, opts...)

	te := holdemtable.NewTableEngine(holdemtable.NewTableEngineOptions(), opts...)
	te.OnTableErrorUpdated(func(table *holdemtable.Table, err error) {
		recorder.mu.Lock()
		defer recorder.mu.Unlock()
		recorder.errors = append(recorder.errors, err)
	})

	_, err := te.CreateTable(setting)
	require.NoError(t, err, "create table failed")

	return te, recorder
}

func CurrentSeat(t *testing.T, te holdemtable.TableEngine) *seat_ring.Seat {
	table := te.GetTable()
	seat := table.FindSeat(table.TurnSeatID())
	require.NotNil(t, seat, "nobody to act, table is %s", table.State.Status)
	return seat
}

// Call matches the current bet for the seat to act and returns its id.
func Call(t *testing.T, te holdemtable.TableEngine) string {
	seat := CurrentSeat(t, te)
	total := te.GetTable().State.Session.Bet
	if total > seat.Bet+seat.Stack {
		total = seat.Bet + seat.Stack
	}
	require.NoError(t, te.PlayerAct(seat.ID, total), "%s call failed", seat.ID)
	return seat.ID
}

func Check(t *testing.T, te holdemtable.TableEngine) string {
	seat := CurrentSeat(t, te)
	require.NoError(t, te.PlayerAct(seat.ID, seat.Bet), "%s check failed", seat.ID)
	return seat.ID
}

func Raise(t *testing.T, te holdemtable.TableEngine, total int64) string {
	seat := CurrentSeat(t, te)
	require.NoError(t, te.PlayerAct(seat.ID, total), "%s raise to %d failed", seat.ID, total)
	return seat.ID
}

func AllIn(t *testing.T, te holdemtable.TableEngine) string {
	seat := CurrentSeat(t, te)
	require.NoError(t, te.PlayerAct(seat.ID, seat.Bet+seat.Stack), "%s all in failed", seat.ID)
	return seat.ID
}

func Fold(t *testing.T, te holdemtable.TableEngine) string {
	seat := CurrentSeat(t, te)
	require.NoError(t, te.PlayerFold(seat.ID), "%s fold failed", seat.ID)
	return seat.ID
}

// CallDown plays the running hand to the end by calling every bet.
func CallDown(t *testing.T, te holdemtable.TableEngine) *holdemtable.Table {
	for i := 0; i < 100; i++ {
		table := te.GetTable()
		if !table.IsPlaying() {
			return table
		}
		Call(t, te)
	}
	t.Fatal("hand did not finish")
	return nil
}

func AllSeatsReady(t *testing.T, te holdemtable.TableEngine) {
	for _, s := range te.GetTable().State.Seats {
		if !s.CanPlay() {
			continue
		}
		assert.NoError(t, te.PlayerReady(s.ID), "%s ready failed", s.ID)
	}
}

func WaitForStatus(t *testing.T, te holdemtable.TableEngine, status holdemtable.TableStateStatus) *holdemtable.Table {
	require.Eventually(t, func() bool {
		return te.GetTable().State.Status == status
	}, 3*time.Second, 10*time.Millisecond, "table never reached %s", status)
	return te.GetTable()
}

func WaitForHand(t *testing.T, te holdemtable.TableEngine, handCount int) *holdemtable.Table {
	require.Eventually(t, func() bool {
		table := te.GetTable()
		return table.State.HandCount == handCount && table.IsPlaying()
	}, 3*time.Second, 10*time.Millisecond, "hand %d never opened", handCount)
	return te.GetTable()
}

func AssertMoneyConserved(t *testing.T, table *holdemtable.Table) {
	total := table.State.Pot
	for _, s := range table.State.Seats {
		total += s.Stack + s.Bet
	}
	assert.Equal(t, table.State.Bank, total, "bank %d, chips on the table %d", table.State.Bank, total)
}

func SeatIDs(table *holdemtable.Table) []string {
	ids := make([]string, 0, len(table.State.Seats))
	for _, s := range table.State.Seats {
		ids = append(ids, s.ID)
	}
	return ids
}
