package deck

import (
	"errors"
	"math/rand"
	"time"
)

var (
	ErrEmptyDeck = errors.New("deck: no cards remaining")
)

const Size = ValueCount * SuitCount

type DeckOpt func(*Deck)

type Deck struct {
	cards []Card
	rnd   *rand.Rand
}

func WithRandSource(src rand.Source) DeckOpt {
	return func(d *Deck) {
		d.rnd = rand.New(src)
	}
}

// NewDeck returns a full, shuffled deck.
func NewDeck(opts ...DeckOpt) *Deck {
	d := &Deck{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(d)
	}

	d.Reset()
	return d
}

// NewStandardCards lists the 52 cards ordered by value, then suit.
func NewStandardCards() []Card {
	cards := make([]Card, 0, Size)
	for v := Value_Two; v <= Value_Ace; v++ {
		for s := Suit_Hearts; s <= Suit_Spades; s++ {
			cards = append(cards, NewCard(v, s))
		}
	}
	return cards
}

// Shuffle applies a Fisher-Yates permutation to the remaining cards.
func (d *Deck) Shuffle() {
	d.rnd.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the last card of the deck.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}

	last := len(d.cards) - 1
	c := d.cards[last]
	d.cards = d.cards[:last]
	return c, nil
}

func (d *Deck) DrawN(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, ErrEmptyDeck
	}

	cards := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		c, _ := d.Draw()
		cards = append(cards, c)
	}
	return cards, nil
}

// Reset restores all 52 cards and reshuffles them.
func (d *Deck) Reset() {
	d.cards = NewStandardCards()
	d.Shuffle()
}

func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards, top of the deck last.
func (d *Deck) Cards() []Card {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards)
	return cards
}
