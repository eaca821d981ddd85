package settlement

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidUnit    = errors.New("settlement: rounding unit must be positive")
	ErrNoWinners      = errors.New("settlement: no winners to split the pot")
	ErrNegativeAmount = errors.New("settlement: negative amount")
)

const (
	DollarUnit int64 = 100
	CentUnit   int64 = 1
)

type Options struct {
	Unit        int64 `json:"unit"`          // rounding unit in cents
	RoundToUnit bool  `json:"round_to_unit"` // report rounded results
}

func NewOptions() Options {
	return Options{
		Unit:        DollarUnit,
		RoundToUnit: true,
	}
}

type Entry struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Contact  string `json:"contact"`
	BuyIn    int64  `json:"buy_in"`
	End      int64  `json:"end"`
	Net      int64  `json:"net"`
	Rounded  int64  `json:"rounded"` // net floored to the unit plus any leftover unit awarded
	Awarded  bool   `json:"awarded"` // received one leftover unit
}

type Report struct {
	Options       Options  `json:"options"`
	Bank          int64    `json:"bank"`
	LeftoverUnits int64    `json:"leftover_units"`
	Up            []*Entry `json:"up"`
	Down          []*Entry `json:"down"`
	Recipients    []string `json:"recipients"`
}

// Entries returns up and down players together, net descending.
func (r *Report) Entries() []*Entry {
	return append(append([]*Entry{}, r.Up...), r.Down...)
}

func (r *Report) Entry(playerID string) *Entry {
	for _, e := range r.Entries() {
		if e.PlayerID == playerID {
			return e
		}
	}
	return nil
}

/*
Settle 結算
  - 每位玩家 net = 結束籌碼 - 總買入
  - 無條件捨去到 unit 後，剩餘的 leftover 依照進位優先順序每人發放一個 unit
*/
func Settle(logs []*PlayerLog, bank int64, opts Options) (*Report, error) {
	if opts.Unit <= 0 {
		return nil, ErrInvalidUnit
	}
	unit := opts.Unit

	entries := make([]*Entry, 0, len(logs))
	flooredEnds := int64(0)
	for _, pl := range logs {
		net := pl.End - pl.BuyIn
		entries = append(entries, &Entry{
			PlayerID: pl.PlayerID,
			Name:     pl.Name,
			Contact:  pl.Contact,
			BuyIn:    pl.BuyIn,
			End:      pl.End,
			Net:      net,
			Rounded:  floorDiv(net, unit) * unit,
		})
		flooredEnds += floorDiv(pl.End, unit) * unit
	}

	leftover := roundDiv(bank-flooredEnds, unit)

	order := make([]*Entry, len(entries))
	copy(order, entries)
	sortByRoundingPriority(order, unit, func(e *Entry) int64 { return e.Net }, func(e *Entry) string {
		return e.Name + "\x00" + e.PlayerID
	})

	for i := int64(0); i < leftover && len(order) > 0; i++ {
		e := order[i%int64(len(order))]
		e.Rounded += unit
		e.Awarded = true
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Net != entries[j].Net {
			return entries[i].Net > entries[j].Net
		}
		return entries[i].Name < entries[j].Name
	})

	report := &Report{
		Options:       opts,
		Bank:          bank,
		LeftoverUnits: leftover,
		Up:            make([]*Entry, 0),
		Down:          make([]*Entry, 0),
		Recipients:    make([]string, 0),
	}
	for _, e := range entries {
		down := e.Net < 0
		if opts.RoundToUnit {
			down = e.Rounded < 0
		}

		if down {
			report.Down = append(report.Down, e)
		} else {
			report.Up = append(report.Up, e)
		}
	}

	return report, nil
}

// sortByRoundingPriority orders items closest to rounding up first. The
// priority is diff mod unit for break-even or negative diffs and
// unit - (diff mod unit) otherwise, ties broken by key.
func sortByRoundingPriority[T any](items []T, unit int64, diff func(T) int64, key func(T) string) {
	priority := func(item T) int64 {
		d := diff(item)
		m := floorMod(d, unit)
		if d > 0 {
			return unit - m
		}
		return m
	}

	sort.SliceStable(items, func(i, j int) bool {
		pi, pj := priority(items[i]), priority(items[j])
		if pi != pj {
			return pi < pj
		}
		return key(items[i]) < key(items[j])
	})
}

/*
SplitPot 平分底池
  - 以 unit 為單位平分給所有贏家
  - 無法整除的 unit 依照與結算相同的進位優先順序分配
*/
func SplitPot(pot, unit int64, winners []string) (map[string]int64, error) {
	if unit <= 0 {
		return nil, ErrInvalidUnit
	}
	if pot < 0 {
		return nil, ErrNegativeAmount
	}
	if len(winners) == 0 {
		return nil, ErrNoWinners
	}

	n := int64(len(winners))
	units := pot / unit
	share := (units / n) * unit

	shares := make(map[string]int64, len(winners))
	for _, id := range winners {
		shares[id] = share
	}

	// every winner has the same fractional share, so the order falls back to the id
	order := append([]string{}, winners...)
	exact := func(string) int64 { return pot - share*n }
	sortByRoundingPriority(order, unit, exact, func(id string) string { return id })

	remainder := units % n
	for i := int64(0); i < remainder; i++ {
		shares[order[i]] += unit
	}

	// cents below the unit go to the first winner in order
	shares[order[0]] += pot % unit

	return shares, nil
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return ((a % b) + b) % b
}

// roundDiv divides rounding half away from zero; negative results become zero.
func roundDiv(a, b int64) int64 {
	if a <= 0 {
		return 0
	}
	return (a + b/2) / b
}

func FormatMoney(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func (r *Report) String() string {
	var sb strings.Builder

	sb.WriteString("The following players were up and may collect from the pot:\n")
	for _, e := range r.Up {
		sb.WriteString(r.line(e))
	}

	if len(r.Down) > 0 {
		sb.WriteString("\nThe following players were down and owe money to the pot:\n")
		for _, e := range r.Down {
			sb.WriteString(r.line(e))
		}
	}

	return sb.String()
}

func (r *Report) line(e *Entry) string {
	if r.Options.RoundToUnit {
		return fmt.Sprintf("%s: %s --> %s = %s (%s)\n", e.Name, FormatMoney(e.BuyIn), FormatMoney(e.End), FormatMoney(e.Net), FormatMoney(e.Rounded))
	}
	return fmt.Sprintf("%s: %s --> %s = %s\n", e.Name, FormatMoney(e.BuyIn), FormatMoney(e.End), FormatMoney(e.Net))
}
