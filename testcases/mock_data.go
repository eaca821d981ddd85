package testcases

import (
	"fmt"

	"github.com/weedbox/holdemtable"
)

// NewDefaultTableSetting seats one player per id, the first one hosts.
func NewDefaultTableSetting(buyIn int64, playerIDs ...string) holdemtable.TableSetting {
	players := make([]holdemtable.JoinPlayer, 0, len(playerIDs))
	for _, id := range playerIDs {
		players = append(players, holdemtable.JoinPlayer{
			SeatID:   "seat-" + id,
			PlayerID: id,
			Name:     id,
			Contact:  fmt.Sprintf("%s@example.com", id),
			BuyIn:    buyIn,
		})
	}

	meta := holdemtable.NewDefaultTableMeta()
	meta.Name = "table name"
	meta.ActionTime = 10
	meta.PauseTime = 60

	return holdemtable.TableSetting{
		TableID:     "table-id",
		Meta:        meta,
		Host:        players[0],
		JoinPlayers: players[1:],
	}
}
