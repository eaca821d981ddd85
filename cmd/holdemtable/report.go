package main

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/weedbox/holdemtable/settlement"
)

func printResults(results []*TableResult) {
	for _, r := range results {
		pterm.DefaultSection.Printfln("%s (%d hands, bank %s)", r.TableID, r.Hands, settlement.FormatMoney(r.Report.Bank))

		data := pterm.TableData{{"Player", "Buy-in", "End", "Net", "Rounded"}}
		for _, e := range r.Report.Entries() {
			data = append(data, []string{
				e.Name,
				settlement.FormatMoney(e.BuyIn),
				settlement.FormatMoney(e.End),
				colorNet(e.Net),
				colorNet(e.Rounded),
			})
		}

		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			pterm.Error.Println(err)
		}

		pterm.DefaultBox.
			WithTitle(fmt.Sprintf("Report for %d recipients", len(r.Report.Recipients))).
			Println(r.Report.String())
	}
}

func colorNet(cents int64) string {
	switch {
	case cents > 0:
		return pterm.Green(settlement.FormatMoney(cents))
	case cents < 0:
		return pterm.Red(settlement.FormatMoney(cents))
	}
	return settlement.FormatMoney(cents)
}
