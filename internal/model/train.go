package model

// Train is the single shared aggregate: one coach worth of seats plus
// the booking ledger.  Exactly one train exists per deployment.  The
// aggregate is loaded as a snapshot, mutated on a private copy and
// swapped back atomically; Version is the optimistic concurrency token
// used by the store to reject stale commits.
type Train struct {
	Seats    []Seat    `json:"seats"`
	Bookings []Booking `json:"bookings"`
	Version  uint64    `json:"-"`
}

// NewTrain builds a fresh, fully unbooked train for the given layout.
func NewTrain(l Layout) *Train {
	return &Train{
		Seats:    l.Generate(),
		Bookings: []Booking{},
	}
}

// Clone returns a deep copy of the train.  Mutating the copy never
// leaks into the original, which is what allows an aborted attempt to
// leave shared state untouched.
func (t *Train) Clone() *Train {
	c := &Train{
		Seats:    make([]Seat, len(t.Seats)),
		Bookings: make([]Booking, 0, len(t.Bookings)),
		Version:  t.Version,
	}
	copy(c.Seats, t.Seats)
	for _, b := range t.Bookings {
		seats := make([]int, len(b.Seats))
		copy(seats, b.Seats)
		c.Bookings = append(c.Bookings, Booking{Ref: b.Ref, Seats: seats, CreatedAt: b.CreatedAt})
	}
	return c
}

// Seat returns a pointer to the seat with the given number, or nil when
// no such seat exists.  Seats are stored ordered by number starting at
// 1, so the lookup is a direct index with a defensive scan fallback.
func (t *Train) Seat(number int) *Seat {
	if number >= 1 && number <= len(t.Seats) && t.Seats[number-1].Number == number {
		return &t.Seats[number-1]
	}
	for i := range t.Seats {
		if t.Seats[i].Number == number {
			return &t.Seats[i]
		}
	}
	return nil
}

// BookedNumbers returns the numbers of all seats currently marked
// booked, in ascending order.
func (t *Train) BookedNumbers() []int {
	nums := make([]int, 0)
	for _, s := range t.Seats {
		if s.IsBooked {
			nums = append(nums, s.Number)
		}
	}
	return nums
}
