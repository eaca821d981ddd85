package seat_ring

import (
	"errors"
	"math/rand"

	"github.com/thoas/go-funk"
)

var (
	ErrSeatNotFound     = errors.New("seat ring: seat not found")
	ErrSeatExists       = errors.New("seat ring: seat already exists")
	ErrNoActivePlayers  = errors.New("seat ring: no active players")
	ErrEmptyRing        = errors.New("seat ring: ring is empty")
	ErrNoCandidateSeats = errors.New("seat ring: no candidate seats")
)

// Ring keeps seats by stable id with the successor of each seat stored as an id.
// A ring is owned by one table session and is not safe for concurrent use.
type Ring struct {
	seats map[string]*Seat
	next  map[string]string
	head  string
}

func NewRing() *Ring {
	return &Ring{
		seats: make(map[string]*Seat),
		next:  make(map[string]string),
	}
}

func (r *Ring) Len() int {
	return len(r.seats)
}

func (r *Ring) Get(id string) (*Seat, error) {
	seat, ok := r.seats[id]
	if !ok {
		return nil, ErrSeatNotFound
	}
	return seat, nil
}

func (r *Ring) Has(id string) bool {
	_, ok := r.seats[id]
	return ok
}

// Insert adds a seat after the most recently linked position.
// The first seat of an empty ring becomes its own successor.
func (r *Ring) Insert(seat *Seat) error {
	if len(r.seats) == 0 {
		if seat == nil || seat.ID == "" {
			return ErrSeatNotFound
		}
		r.seats[seat.ID] = seat
		r.next[seat.ID] = seat.ID
		r.head = seat.ID
		return nil
	}

	return r.InsertAfter(r.predecessor(r.head), seat)
}

// InsertAfter splices seat right after anchorID.
func (r *Ring) InsertAfter(anchorID string, seat *Seat) error {
	if seat == nil || seat.ID == "" {
		return ErrSeatNotFound
	}
	if r.Has(seat.ID) {
		return ErrSeatExists
	}
	if len(r.seats) == 0 {
		return r.Insert(seat)
	}
	if !r.Has(anchorID) {
		return ErrSeatNotFound
	}

	r.seats[seat.ID] = seat
	r.next[seat.ID] = r.next[anchorID]
	r.next[anchorID] = seat.ID
	return nil
}

// InsertRandom splices seat after a randomly chosen seat.
func (r *Ring) InsertRandom(seat *Seat, rnd *rand.Rand) error {
	if len(r.seats) == 0 {
		return r.Insert(seat)
	}

	ids := r.IDs(r.head)
	return r.InsertAfter(ids[rnd.Intn(len(ids))], seat)
}

// Remove unlinks a seat, relinking its predecessor to its successor.
func (r *Ring) Remove(id string) error {
	if !r.Has(id) {
		return ErrSeatNotFound
	}

	if len(r.seats) == 1 {
		delete(r.seats, id)
		delete(r.next, id)
		r.head = ""
		return nil
	}

	prev := r.predecessor(id)
	r.next[prev] = r.next[id]
	if r.head == id {
		r.head = r.next[id]
	}

	delete(r.seats, id)
	delete(r.next, id)
	return nil
}

func (r *Ring) predecessor(id string) string {
	for seatID, nextID := range r.next {
		if nextID == id {
			return seatID
		}
	}
	return id
}

// Next returns the raw successor id, active or not.
func (r *Ring) Next(id string) (string, error) {
	nextID, ok := r.next[id]
	if !ok {
		return "", ErrSeatNotFound
	}
	return nextID, nil
}

// NextActive walks successors from fromID and returns the first active seat
// other than fromID itself.
func (r *Ring) NextActive(fromID string) (*Seat, error) {
	if !r.Has(fromID) {
		return nil, ErrSeatNotFound
	}

	for id := r.next[fromID]; id != fromID; id = r.next[id] {
		if r.seats[id].IsActive {
			return r.seats[id], nil
		}
	}

	return nil, ErrNoActivePlayers
}

// IDs lists seat ids in ring order starting at startID. Ring order from the
// first seated player is used when startID is unknown.
func (r *Ring) IDs(startID string) []string {
	if len(r.seats) == 0 {
		return []string{}
	}
	if !r.Has(startID) {
		startID = r.head
	}

	ids := make([]string, 0, len(r.seats))
	id := startID
	for {
		ids = append(ids, id)
		id = r.next[id]
		if id == startID {
			break
		}
	}
	return ids
}

func (r *Ring) Seats(startID string) []*Seat {
	ids := r.IDs(startID)
	seats := make([]*Seat, 0, len(ids))
	for _, id := range ids {
		seats = append(seats, r.seats[id])
	}
	return seats
}

func (r *Ring) ActiveSeats(startID string) []*Seat {
	return funk.Filter(r.Seats(startID), func(s *Seat) bool {
		return s.IsActive
	}).([]*Seat)
}

func (r *Ring) CountActive() int {
	count := 0
	for _, s := range r.seats {
		if s.IsActive {
			count++
		}
	}
	return count
}

func (r *Ring) Head() string {
	return r.head
}

// PickSuccessor chooses the seat doing best at the table, highest stack
// against buy-in, breaking ties uniformly at random.
func PickSuccessor(candidates []*Seat, rnd *rand.Rand) (*Seat, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidateSeats
	}

	best := make([]*Seat, 0)
	for _, s := range candidates {
		if len(best) == 0 || s.NetGain() > best[0].NetGain() {
			best = []*Seat{s}
			continue
		}
		if s.NetGain() == best[0].NetGain() {
			best = append(best, s)
		}
	}

	return best[rnd.Intn(len(best))], nil
}
