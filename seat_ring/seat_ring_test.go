package seat_ring

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActiveSeat(id string, stack int64) *Seat {
	s := NewSeat(id, "player-"+id, id, stack)
	s.IsActive = true
	return s
}

func newRing(t *testing.T, ids ...string) *Ring {
	r := NewRing()
	for _, id := range ids {
		require.NoError(t, r.Insert(newActiveSeat(id, 1000)))
	}
	return r
}

func Test_InsertKeepsOrder(t *testing.T) {
	r := newRing(t, "a", "b", "c")
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"a", "b", "c"}, r.IDs("a"))
	assert.Equal(t, []string{"b", "c", "a"}, r.IDs("b"))

	err := r.Insert(newActiveSeat("a", 1))
	assert.ErrorIs(t, err, ErrSeatExists)
}

func Test_InsertAfter(t *testing.T) {
	r := newRing(t, "a", "b", "c")
	require.NoError(t, r.InsertAfter("a", newActiveSeat("x", 1000)))
	assert.Equal(t, []string{"a", "x", "b", "c"}, r.IDs("a"))

	err := r.InsertAfter("missing", newActiveSeat("y", 1000))
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func Test_InsertRandom(t *testing.T) {
	r := newRing(t, "a", "b", "c")
	rnd := rand.New(rand.NewSource(5))
	for i := 0; i < 5; i++ {
		require.NoError(t, r.InsertRandom(newActiveSeat(uuid.New().String(), 1000), rnd))
	}
	assert.Equal(t, 8, r.Len())
	assert.Len(t, r.IDs("a"), 8)
}

func Test_Remove(t *testing.T) {
	r := newRing(t, "a", "b", "c", "d")

	require.NoError(t, r.Remove("c"))
	assert.Equal(t, []string{"a", "b", "d"}, r.IDs("a"))
	next, err := r.Next("b")
	require.NoError(t, err)
	assert.Equal(t, "d", next)

	require.NoError(t, r.Remove("a"))
	assert.Equal(t, []string{"b", "d"}, r.IDs("b"))
	assert.NotEqual(t, "a", r.Head())

	assert.ErrorIs(t, r.Remove("a"), ErrSeatNotFound)

	require.NoError(t, r.Remove("b"))
	require.NoError(t, r.Remove("d"))
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.IDs(""))

	// an emptied ring accepts seats again
	require.NoError(t, r.Insert(newActiveSeat("e", 1)))
	next, err = r.Next("e")
	require.NoError(t, err)
	assert.Equal(t, "e", next)
}

func Test_NextActiveSkipsInactive(t *testing.T) {
	r := newRing(t, "a", "b", "c", "d")
	b, _ := r.Get("b")
	b.IsActive = false
	c, _ := r.Get("c")
	c.IsActive = false

	s, err := r.NextActive("a")
	require.NoError(t, err)
	assert.Equal(t, "d", s.ID)

	s, err = r.NextActive("d")
	require.NoError(t, err)
	assert.Equal(t, "a", s.ID)

	// inactive start seats still find their successor
	s, err = r.NextActive("b")
	require.NoError(t, err)
	assert.Equal(t, "d", s.ID)
}

func Test_NextActiveNoActivePlayers(t *testing.T) {
	r := newRing(t, "a", "b", "c")
	for _, s := range r.Seats("a") {
		s.IsActive = false
	}

	_, err := r.NextActive("a")
	assert.ErrorIs(t, err, ErrNoActivePlayers)

	// the start seat alone does not count
	a, _ := r.Get("a")
	a.IsActive = true
	_, err = r.NextActive("a")
	assert.ErrorIs(t, err, ErrNoActivePlayers)

	_, err = r.NextActive("missing")
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func Test_ActiveSeats(t *testing.T) {
	r := newRing(t, "a", "b", "c")
	b, _ := r.Get("b")
	b.IsActive = false

	active := r.ActiveSeats("c")
	require.Len(t, active, 2)
	assert.Equal(t, "c", active[0].ID)
	assert.Equal(t, "a", active[1].ID)
	assert.Equal(t, 2, r.CountActive())
}

func Test_PickSuccessor(t *testing.T) {
	a := newActiveSeat("a", 1000)
	b := newActiveSeat("b", 1000)
	c := newActiveSeat("c", 1000)
	a.Stack = 1500 // +500
	b.Stack = 900  // -100
	c.BuyIn = 500
	c.Stack = 1000 // +500

	rnd := rand.New(rand.NewSource(1))
	picked := make(map[string]int)
	for i := 0; i < 200; i++ {
		s, err := PickSuccessor([]*Seat{a, b, c}, rnd)
		require.NoError(t, err)
		picked[s.ID]++
	}

	assert.Zero(t, picked["b"])
	assert.NotZero(t, picked["a"])
	assert.NotZero(t, picked["c"])

	_, err := PickSuccessor(nil, rnd)
	assert.ErrorIs(t, err, ErrNoCandidateSeats)
}

func Test_SeatLifecycle(t *testing.T) {
	s := NewSeat("s", "p", "Pat", 1000)
	assert.False(t, s.HasIntent())
	assert.True(t, s.CanPlay())

	s.ResetForHand()
	assert.True(t, s.IsActive)

	s.Commit(300)
	assert.Equal(t, int64(700), s.Stack)
	assert.Equal(t, int64(300), s.Bet)
	assert.Equal(t, int64(300), s.Committed)

	s.Fold()
	assert.False(t, s.IsActive)
	assert.True(t, s.IsFolded)

	s.Stack = 0
	s.ResetForHand()
	assert.False(t, s.IsActive, "busted seats stay out")

	s.Stack = 100
	s.IsSitOut = true
	s.ResetForHand()
	assert.False(t, s.IsActive)
}
