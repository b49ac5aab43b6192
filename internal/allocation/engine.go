package allocation

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
)

// MaxSeatsPerBooking caps how many seats one book request may ask for.
const MaxSeatsPerBooking = 7

// Demo seeding pre-books between 6 and 8 random seats.
const (
	prebookMin = 6
	prebookMax = 8
)

// Engine applies booking and unbooking as atomic state transitions
// over the shared train aggregate.  All mutation goes through
// runAtomic; nothing else in the process touches the stored train.
type Engine struct {
	store repository.TrainStore
	users repository.UserStore
}

// New returns an Engine over the given train store and user directory.
func New(store repository.TrainStore, users repository.UserStore) *Engine {
	if store == nil || users == nil {
		panic("nil store passed to allocation.New")
	}
	return &Engine{store: store, users: users}
}

// authorize resolves the caller identity against the user directory.
func (e *Engine) authorize(ctx context.Context, userID uint64) error {
	if userID == 0 {
		return ErrUnauthorized
	}
	ok, err := e.users.UserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// Book allocates the first contiguous run of count free seats, marks
// them booked and appends a ledger entry.  count must be within
// 1..MaxSeatsPerBooking.  Returns the committed booking.
func (e *Engine) Book(ctx context.Context, userID uint64, count int) (model.Booking, error) {
	if err := e.authorize(ctx, userID); err != nil {
		return model.Booking{}, err
	}
	if count < 1 || count > MaxSeatsPerBooking {
		return model.Booking{}, fmt.Errorf("%w: num_seats must be between 1 and %d",
			ErrInvalidRequest, MaxSeatsPerBooking)
	}
	var booking model.Booking
	_, err := e.runAtomic(ctx, func(t *model.Train) error {
		block, ok := FindContiguousBlock(t.Seats, count)
		if !ok {
			return ErrNoSeatsAvailable
		}
		for _, n := range block {
			t.Seat(n).IsBooked = true
		}
		booking = model.Booking{
			Ref:       uuid.NewString(),
			Seats:     block,
			CreatedAt: time.Now().UTC(),
		}
		t.Bookings = append(t.Bookings, booking)
		return nil
	})
	if err != nil {
		return model.Booking{}, err
	}
	return booking, nil
}

// Unbook releases the requested seats.  Seat numbers that do not exist
// or are already free are silently skipped; when nothing at all was
// released the operation fails with ErrNothingToUnbook and state is
// left unchanged.  Released numbers are removed from every ledger
// entry and entries whose seat set empties are dropped.  Returns the
// seats actually released, ascending.
func (e *Engine) Unbook(ctx context.Context, userID uint64, seatNumbers []int) ([]int, error) {
	if err := e.authorize(ctx, userID); err != nil {
		return nil, err
	}
	if len(seatNumbers) == 0 {
		return nil, fmt.Errorf("%w: no seats specified for unbooking", ErrInvalidRequest)
	}
	var released []int
	_, err := e.runAtomic(ctx, func(t *model.Train) error {
		released = released[:0]
		seen := make(map[int]struct{}, len(seatNumbers))
		for _, n := range seatNumbers {
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			if s := t.Seat(n); s != nil && s.IsBooked {
				s.IsBooked = false
				released = append(released, n)
			}
		}
		if len(released) == 0 {
			return ErrNothingToUnbook
		}
		sort.Ints(released)
		pruneLedger(t, released)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return released, nil
}

// pruneLedger removes the released seat numbers from every booking and
// drops bookings left with no seats.
func pruneLedger(t *model.Train, released []int) {
	gone := make(map[int]struct{}, len(released))
	for _, n := range released {
		gone[n] = struct{}{}
	}
	kept := t.Bookings[:0]
	for _, b := range t.Bookings {
		seats := b.Seats[:0]
		for _, n := range b.Seats {
			if _, ok := gone[n]; !ok {
				seats = append(seats, n)
			}
		}
		b.Seats = seats
		if len(b.Seats) > 0 {
			kept = append(kept, b)
		}
	}
	t.Bookings = kept
}

// State returns a read-only snapshot of the train.
func (e *Engine) State(ctx context.Context) (*model.Train, error) {
	train, err := e.store.Load(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return train, nil
}

// Reset regenerates the coach for the given layout with every seat
// free and an empty ledger.  When prebook is set, 6 to 8 distinct
// random seats are booked up front (one ledger entry each) as demo
// fixtures, mirroring the original seeding behavior.
func (e *Engine) Reset(ctx context.Context, layout model.Layout, prebook bool) (*model.Train, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	train := model.NewTrain(layout)
	if prebook {
		prebookRandom(train)
	}
	if err := e.store.Reset(ctx, train); err != nil {
		return nil, storeError(err)
	}
	return e.State(ctx)
}

// prebookRandom books 6-8 distinct random seats, each under its own
// ledger entry, so the booked set stays equal to the ledger union.
func prebookRandom(t *model.Train) {
	n := prebookMin + rand.Intn(prebookMax-prebookMin+1)
	if n > len(t.Seats) {
		n = len(t.Seats)
	}
	now := time.Now().UTC()
	for _, idx := range rand.Perm(len(t.Seats))[:n] {
		t.Seats[idx].IsBooked = true
		t.Bookings = append(t.Bookings, model.Booking{
			Ref:       uuid.NewString(),
			Seats:     []int{t.Seats[idx].Number},
			CreatedAt: now,
		})
	}
	sort.Slice(t.Bookings, func(i, j int) bool {
		return t.Bookings[i].Seats[0] < t.Bookings[j].Seats[0]
	})
}
