package hand_evaluator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/weedbox/holdemtable/deck"
)

var (
	ErrInvalidCards = errors.New("hand evaluator: invalid cards")
)

const MaxCards = 7

type Category int

const (
	Category_HighCard Category = iota
	Category_Pair
	Category_TwoPair
	Category_ThreeOfAKind
	Category_Straight
	Category_Flush
	Category_FullHouse
	Category_FourOfAKind
	Category_StraightFlush
)

var categoryNames = []string{
	"high card",
	"pair",
	"two pair",
	"three of a kind",
	"straight",
	"flush",
	"full house",
	"four of a kind",
	"straight flush",
}

func (c Category) String() string {
	if c < Category_HighCard || c > Category_StraightFlush {
		return "unknown"
	}
	return categoryNames[c]
}

// Hand is the classification of the best five cards out of at most seven.
type Hand struct {
	Category  Category     `json:"category"`
	Tiebreaks []deck.Value `json:"tiebreaks"`
}

func (h Hand) String() string {
	return Describe(h)
}

/*
Evaluate 牌型判斷
  - 輸入最多 7 張牌 (2 張手牌 + 最多 5 張公牌)
  - 回傳牌型與比較用的 kicker 序列
*/
func Evaluate(cards []deck.Card) (Hand, error) {
	if len(cards) > MaxCards {
		return Hand{}, fmt.Errorf("%w: %d cards", ErrInvalidCards, len(cards))
	}

	seen := make(map[deck.Card]bool, len(cards))
	var values [deck.ValueCount]int
	var suits [deck.SuitCount]int
	for _, c := range cards {
		if !c.Valid() || seen[c] {
			return Hand{}, fmt.Errorf("%w: %s", ErrInvalidCards, c)
		}
		seen[c] = true
		values[c.Value]++
		suits[c.Suit]++
	}

	// straight flush
	flushSuit := -1
	for s, count := range suits {
		if count >= 5 {
			flushSuit = s
			break
		}
	}

	var suited [deck.ValueCount]int
	if flushSuit != -1 {
		for _, c := range cards {
			if int(c.Suit) == flushSuit {
				suited[c.Value]++
			}
		}

		if high, ok := highestStraight(suited); ok {
			return Hand{Category: Category_StraightFlush, Tiebreaks: []deck.Value{high}}, nil
		}
	}

	quads := valuesWithCount(values, 4)
	triples := valuesWithCount(values, 3)
	pairs := valuesWithCount(values, 2)

	if len(quads) > 0 {
		return Hand{
			Category:  Category_FourOfAKind,
			Tiebreaks: append([]deck.Value{quads[0]}, kickers(values, 1, quads[0])...),
		}, nil
	}

	// full house
	if len(triples) >= 2 {
		second := triples[1]
		if len(pairs) > 0 && pairs[0] > second {
			second = pairs[0]
		}
		return Hand{Category: Category_FullHouse, Tiebreaks: []deck.Value{triples[0], second}}, nil
	}
	if len(triples) == 1 && len(pairs) > 0 {
		return Hand{Category: Category_FullHouse, Tiebreaks: []deck.Value{triples[0], pairs[0]}}, nil
	}

	if flushSuit != -1 {
		return Hand{Category: Category_Flush, Tiebreaks: kickers(suited, 5)}, nil
	}

	if high, ok := highestStraight(values); ok {
		return Hand{Category: Category_Straight, Tiebreaks: []deck.Value{high}}, nil
	}

	if len(triples) == 1 {
		return Hand{
			Category:  Category_ThreeOfAKind,
			Tiebreaks: append([]deck.Value{triples[0]}, kickers(values, 2, triples[0])...),
		}, nil
	}

	if len(pairs) >= 2 {
		return Hand{
			Category:  Category_TwoPair,
			Tiebreaks: append([]deck.Value{pairs[0], pairs[1]}, kickers(values, 1, pairs[0], pairs[1])...),
		}, nil
	}

	if len(pairs) == 1 {
		return Hand{
			Category:  Category_Pair,
			Tiebreaks: append([]deck.Value{pairs[0]}, kickers(values, 3, pairs[0])...),
		}, nil
	}

	return Hand{Category: Category_HighCard, Tiebreaks: kickers(values, 5)}, nil
}

// highestStraight scans for five consecutive occupied values, the wheel
// (A,2,3,4,5) counting as five high.
func highestStraight(counts [deck.ValueCount]int) (deck.Value, bool) {
	run := 0
	for v := deck.Value_Ace; v >= deck.Value_Two; v-- {
		if counts[v] == 0 {
			run = 0
			continue
		}

		run++
		if run == 5 {
			return v + 4, true
		}
	}

	if run == 4 && counts[deck.Value_Ace] > 0 {
		return deck.Value_Five, true
	}

	return 0, false
}

// valuesWithCount lists values occurring exactly n times, highest first.
func valuesWithCount(counts [deck.ValueCount]int, n int) []deck.Value {
	found := make([]deck.Value, 0)
	for v := deck.Value_Ace; v >= deck.Value_Two; v-- {
		if counts[v] == n {
			found = append(found, v)
		}
	}
	return found
}

// kickers returns up to n distinct values, highest first, skipping excluded ones.
func kickers(counts [deck.ValueCount]int, n int, excluded ...deck.Value) []deck.Value {
	skip := make(map[deck.Value]bool, len(excluded))
	for _, v := range excluded {
		skip[v] = true
	}

	found := make([]deck.Value, 0, n)
	for v := deck.Value_Ace; v >= deck.Value_Two && len(found) < n; v-- {
		if counts[v] > 0 && !skip[v] {
			found = append(found, v)
		}
	}
	return found
}

func Describe(h Hand) string {
	if len(h.Tiebreaks) == 0 {
		return h.Category.String()
	}

	top := h.Tiebreaks[0].Name()
	switch h.Category {
	case Category_Straight, Category_StraightFlush, Category_Flush, Category_HighCard:
		return fmt.Sprintf("%s, %s high", h.Category, top)
	case Category_FullHouse:
		if len(h.Tiebreaks) > 1 {
			return fmt.Sprintf("%s, %s full of %s", h.Category, plural(top), plural(h.Tiebreaks[1].Name()))
		}
	case Category_TwoPair:
		if len(h.Tiebreaks) > 1 {
			return fmt.Sprintf("%s, %s and %s", h.Category, plural(top), plural(h.Tiebreaks[1].Name()))
		}
	}

	return fmt.Sprintf("%s, %s", h.Category, plural(top))
}

func plural(name string) string {
	if name == "six" {
		return "sixes"
	}
	return name + "s"
}

func sortedIDs(ids []string) []string {
	sort.Strings(ids)
	return ids
}
