package hand_evaluator

import (
	"math/rand"
	"testing"

	"github.com/paulhankin/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weedbox/holdemtable/deck"
)

func evaluate(t *testing.T, cards string) Hand {
	t.Helper()
	h, err := Evaluate(deck.MustParseCards(cards))
	require.NoError(t, err)
	return h
}

func Test_Evaluate_Categories(t *testing.T) {
	cases := []struct {
		cards     string
		category  Category
		tiebreaks string
	}{
		{"AH,KH,QH,JH,TH,2C,3D", Category_StraightFlush, "A"},
		{"9S,9H,9D,9C,KH,2C,3D", Category_FourOfAKind, "9K"},
		{"9S,9H,9D,KC,KH,2C,3D", Category_FullHouse, "9K"},
		{"9S,9H,9D,KC,KH,KD,3D", Category_FullHouse, "K9"},
		{"9S,9H,9D,KC,KH,KD,QD,QS", Category_FullHouse, ""},
		{"2H,7H,9H,JH,KH,AH,3C", Category_Flush, "AKJ97"},
		{"5C,6D,7H,8S,9C,KD,2H", Category_Straight, "9"},
		{"AC,2D,3H,4S,5C,KD,KH", Category_Straight, "5"},
		{"7C,7D,7H,AS,2C,9D,JH", Category_ThreeOfAKind, "7AJ"},
		{"7C,7D,5H,5S,2C,2D,AH", Category_TwoPair, "75A"},
		{"7C,7D,5H,5S,3C,3D,2H", Category_TwoPair, "753"},
		{"7C,7D,5H,KS,2C,9D,JH", Category_Pair, "7KJ9"},
		{"7C,4D,5H,KS,2C,9D,JH", Category_HighCard, "KJ975"},
	}

	for _, c := range cases {
		cards := deck.MustParseCards(c.cards)
		if len(cards) > MaxCards {
			_, err := Evaluate(cards)
			assert.ErrorIs(t, err, ErrInvalidCards, c.cards)
			continue
		}

		h, err := Evaluate(cards)
		require.NoError(t, err, c.cards)
		assert.Equal(t, c.category, h.Category, c.cards)
		assert.Equal(t, c.tiebreaks, valuesString(h.Tiebreaks), c.cards)
	}
}

func valuesString(values []deck.Value) string {
	s := ""
	for _, v := range values {
		s += v.String()
	}
	return s
}

func Test_Evaluate_OrderInvariant(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		cards := deck.NewStandardCards()
		rnd.Shuffle(len(cards), func(a, b int) { cards[a], cards[b] = cards[b], cards[a] })
		hand := cards[:7]

		expected, err := Evaluate(hand)
		require.NoError(t, err)

		for j := 0; j < 5; j++ {
			shuffled := append([]deck.Card(nil), hand...)
			rnd.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

			actual, err := Evaluate(shuffled)
			require.NoError(t, err)
			assert.Equal(t, expected, actual)
		}
	}
}

func Test_Evaluate_WheelBelowSixHigh(t *testing.T) {
	wheel := evaluate(t, "AH,2C,3D,4S,5H")
	sixHigh := evaluate(t, "2C,3D,4S,5H,6C")

	assert.Equal(t, Category_Straight, wheel.Category)
	assert.Equal(t, []deck.Value{deck.Value_Five}, wheel.Tiebreaks)
	assert.Equal(t, -1, Compare(wheel, sixHigh))
	assert.Equal(t, 1, Compare(sixHigh, wheel))
}

func Test_Evaluate_HighestStraightFlush(t *testing.T) {
	h := evaluate(t, "4H,5H,6H,7H,8H,9H,TH")
	assert.Equal(t, Category_StraightFlush, h.Category)
	assert.Equal(t, []deck.Value{deck.Value_Ten}, h.Tiebreaks)

	wheel := evaluate(t, "AD,2D,3D,4D,5D,KC,QS")
	assert.Equal(t, Category_StraightFlush, wheel.Category)
	assert.Equal(t, []deck.Value{deck.Value_Five}, wheel.Tiebreaks)
}

func Test_Evaluate_RoyalBeatsEverything(t *testing.T) {
	board := "QH,JH,TH,2C,3D"
	royal := evaluate(t, "AH,KH,"+board)
	assert.Equal(t, Category_StraightFlush, royal.Category)

	others := []string{
		"QC,QD," + board, // trips
		"JC,2D," + board, // two pair
		"AC,KC," + board, // straight
		"9H,4H," + board, // flush
		"QC,QS,QH,JC,JD", // full house
		"2H,2S,2D,2C,AD", // quads
	}
	for _, o := range others {
		assert.Equal(t, 1, Compare(royal, evaluate(t, o)), o)
	}
}

func Test_Compare_QuadsKicker(t *testing.T) {
	board := "9S,9H,9D,9C,2D"
	high := evaluate(t, "KH,3C,"+board)
	low := evaluate(t, "QH,3S,"+board)

	assert.Equal(t, 1, Compare(high, low))
	assert.Equal(t, []string{"p1"}, Winners(map[string]Hand{"p1": high, "p2": low}))
}

func Test_Compare_Tie(t *testing.T) {
	board := "AS,KD,QC,JH,9S"
	a := evaluate(t, "2C,3C,"+board)
	b := evaluate(t, "2D,3H,"+board)

	assert.Equal(t, 0, Compare(a, b))
	assert.Equal(t, []string{"a", "b"}, Winners(map[string]Hand{"b": b, "a": a}))
}

func Test_Evaluate_FewCards(t *testing.T) {
	h := evaluate(t, "AH,AC")
	assert.Equal(t, Category_Pair, h.Category)
	assert.Equal(t, []deck.Value{deck.Value_Ace}, h.Tiebreaks)

	empty, err := Evaluate(nil)
	require.NoError(t, err)
	assert.Equal(t, Category_HighCard, empty.Category)
}

func Test_Evaluate_Duplicates(t *testing.T) {
	_, err := Evaluate(deck.MustParseCards("AH,AH,2C"))
	assert.ErrorIs(t, err, ErrInvalidCards)
}

func Test_Describe(t *testing.T) {
	assert.Equal(t, "straight flush, ace high", Describe(evaluate(t, "AH,KH,QH,JH,TH")))
	assert.Equal(t, "full house, nines full of kings", Describe(evaluate(t, "9S,9H,9D,KC,KH")))
	assert.Equal(t, "two pair, sevens and fives", Describe(evaluate(t, "7C,7D,5H,5S,2C")))
	assert.Equal(t, "pair, sevens", Describe(evaluate(t, "7C,7D,5H,KS,2C")))
}

func toReferenceCard(t *testing.T, c deck.Card) poker.Card {
	suits := map[deck.Suit]poker.Suit{
		deck.Suit_Hearts:   poker.Heart,
		deck.Suit_Clubs:    poker.Club,
		deck.Suit_Diamonds: poker.Diamond,
		deck.Suit_Spades:   poker.Spade,
	}

	// reference ranks: ace is 1, two to king are 2..13
	rank := poker.Rank(int(c.Value) + 2)
	if c.Value == deck.Value_Ace {
		rank = 1
	}

	card, err := poker.MakeCard(suits[c.Suit], rank)
	require.NoError(t, err)
	return card
}

func Test_Compare_MatchesReferenceEvaluator(t *testing.T) {
	rnd := rand.New(rand.NewSource(2023))
	for i := 0; i < 3000; i++ {
		cards := deck.NewStandardCards()
		rnd.Shuffle(len(cards), func(a, b int) { cards[a], cards[b] = cards[b], cards[a] })

		var refA, refB [7]poker.Card
		for j := 0; j < 5; j++ {
			refA[j] = toReferenceCard(t, cards[j])
			refB[j] = toReferenceCard(t, cards[j])
		}
		refA[5], refA[6] = toReferenceCard(t, cards[5]), toReferenceCard(t, cards[6])
		refB[5], refB[6] = toReferenceCard(t, cards[7]), toReferenceCard(t, cards[8])

		a, err := Evaluate(cards[0:7])
		require.NoError(t, err)
		b, err := Evaluate(append(append([]deck.Card{}, cards[0:5]...), cards[7:9]...))
		require.NoError(t, err)

		expected := 0
		scoreA, scoreB := poker.Eval7(&refA), poker.Eval7(&refB)
		if scoreA > scoreB {
			expected = 1
		} else if scoreA < scoreB {
			expected = -1
		}

		assert.Equal(t, expected, Compare(a, b), "%s vs %s", deck.CardsString(cards[0:7]), deck.CardsString(cards[7:9]))
	}
}
