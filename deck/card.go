package deck

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCard = errors.New("deck: invalid card")
)

// Value is the rank index of a card, Two (0) to Ace (12).
type Value int

const (
	Value_Two Value = iota
	Value_Three
	Value_Four
	Value_Five
	Value_Six
	Value_Seven
	Value_Eight
	Value_Nine
	Value_Ten
	Value_Jack
	Value_Queen
	Value_King
	Value_Ace
)

const ValueCount = 13

// Suit in the table's canonical order H, C, D, S.
type Suit int

const (
	Suit_Hearts Suit = iota
	Suit_Clubs
	Suit_Diamonds
	Suit_Spades
)

const SuitCount = 4

var (
	valueSymbols = "23456789TJQKA"
	suitSymbols  = "HCDS"
	valueNames   = []string{"two", "three", "four", "five", "six", "seven", "eight", "nine", "ten", "jack", "queen", "king", "ace"}
)

func (v Value) String() string {
	if v < Value_Two || v > Value_Ace {
		return "?"
	}
	return string(valueSymbols[v])
}

func (v Value) Name() string {
	if v < Value_Two || v > Value_Ace {
		return "unknown"
	}
	return valueNames[v]
}

func (s Suit) String() string {
	if s < Suit_Hearts || s > Suit_Spades {
		return "?"
	}
	return string(suitSymbols[s])
}

type Card struct {
	Value Value `json:"value"`
	Suit  Suit  `json:"suit"`
}

func NewCard(v Value, s Suit) Card {
	return Card{Value: v, Suit: s}
}

func (c Card) String() string {
	return c.Value.String() + c.Suit.String()
}

func (c Card) Valid() bool {
	return c.Value >= Value_Two && c.Value <= Value_Ace && c.Suit >= Suit_Hearts && c.Suit <= Suit_Spades
}

func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, ErrInvalidCard
	}
	return []byte(c.String()), nil
}

func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard reads the two-character form such as "AH" or "tc".
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	v := strings.IndexByte(valueSymbols, s[0])
	suit := strings.IndexByte(suitSymbols, s[1])
	if v < 0 || suit < 0 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	return Card{Value: Value(v), Suit: Suit(suit)}, nil
}

// ParseCards reads a comma or space separated card list.
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})

	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}

	return cards, nil
}

func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

func CardsString(cards []Card) string {
	symbols := make([]string, 0, len(cards))
	for _, c := range cards {
		symbols = append(symbols, c.String())
	}
	return strings.Join(symbols, ",")
}
