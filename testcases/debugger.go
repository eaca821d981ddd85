package testcases

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/weedbox/holdemtable"
	"github.com/weedbox/holdemtable/deck"
	"github.com/weedbox/holdemtable/settlement"
)

func DebugPrintTable(t holdemtable.Table) {
	boolToString := func(value bool) string {
		if value {
			return "O"
		}
		return "X"
	}

	fmt.Printf("---------- 第 (%d) 手 [%s] ----------\n", t.State.HandCount, t.State.Status)
	fmt.Println("[Table ID] ", t.ID)
	fmt.Println("[Table Dealer] ", t.State.DealerID)
	fmt.Println("[Table Host] ", t.State.HostID)
	fmt.Println("[Table Bank] ", settlement.FormatMoney(t.State.Bank))
	fmt.Println("[Table Pot] ", settlement.FormatMoney(t.State.Pot))
	fmt.Println("[Table Board] ", deck.CardsString(t.State.Board))

	data := pterm.TableData{{"seat", "player", "stack", "bet", "active", "folded", "cards", "action"}}
	for _, s := range t.State.Seats {
		data = append(data, []string{
			s.ID,
			s.Name,
			settlement.FormatMoney(s.Stack),
			settlement.FormatMoney(s.Bet),
			boolToString(s.IsActive),
			boolToString(s.IsFolded),
			deck.CardsString(s.HoleCards),
			s.Action,
		})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(out)

	for _, n := range t.State.Notices {
		fmt.Println("[Notice] ", n.Message)
	}
}
