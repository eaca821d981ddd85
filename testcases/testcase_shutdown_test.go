package testcases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weedbox/holdemtable"
	"github.com/weedbox/holdemtable/settlement"
)

func TestTableGame_Shutdown_Report(t *testing.T) {
	// given conditions
	setting := NewDefaultTableSetting(1000, "Fred", "Jeffrey", "Chuck")
	te, recorder := NewTestTableEngine(t, setting)

	var settled *settlement.Report
	te.OnTableSettled(func(table *holdemtable.Table, report *settlement.Report) {
		settled = report
	})

	require.NoError(t, te.StartTableGame(), "start table game failed")
	require.NoError(t, te.SubmitCommand(holdemtable.BuyInCommand("seat-Chuck", 500)))

	// shutdown waits for the running hand
	require.NoError(t, te.CloseTable())
	assert.True(t, te.GetTable().IsPlaying())

	for te.GetTable().IsPlaying() {
		Fold(t, te)
	}
	AllSeatsReady(t, te)

	select {
	case <-te.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("table did not close")
	}

	table := te.GetTable()
	DebugPrintTable(*table)
	assert.Equal(t, holdemtable.TableStateStatus_TableClosed, table.State.Status)
	assert.Empty(t, table.State.Seats)
	assert.Zero(t, table.State.Bank)

	report := table.State.Report
	require.NotNil(t, report)
	require.NotNil(t, settled)
	assert.Equal(t, report.Bank, settled.Bank)
	assert.Equal(t, int64(3500), report.Bank)
	assert.Equal(t, []string{"Fred@example.com", "Jeffrey@example.com", "Chuck@example.com"}, report.Recipients)

	// commands queued ahead of the shutdown still apply
	chuck := report.Entry("Chuck")
	require.NotNil(t, chuck)
	assert.Equal(t, int64(1500), chuck.BuyIn)

	net := int64(0)
	rounded := int64(0)
	for _, e := range report.Entries() {
		net += e.Net
		rounded += e.Rounded
		assert.Zero(t, e.Rounded%100, "%s rounded to whole units", e.PlayerID)
	}
	assert.Zero(t, net)
	assert.Zero(t, rounded)
	assert.Len(t, report.Entries(), 3)

	require.Len(t, recorder.Reports(), 1)
	assert.Equal(t, report.Bank, recorder.Reports()[0].Bank)

	// a closed table refuses everything
	assert.ErrorIs(t, te.StartTableGame(), holdemtable.ErrTableClosed)
	assert.ErrorIs(t, te.PlayerAct("seat-Fred", 10), holdemtable.ErrTableClosed)
	_, err := te.PlayerJoin(holdemtable.JoinPlayer{PlayerID: "Dave", BuyIn: 1000})
	assert.ErrorIs(t, err, holdemtable.ErrTableClosed)
}
