package allocation

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
)

// newTestEngine wires an engine over a memory store seeded with the
// given layout, the listed seats pre-booked under one ledger entry, and
// one registered user whose ID it returns.
func newTestEngine(t *testing.T, layout model.Layout, booked ...int) (*Engine, uint64) {
	t.Helper()
	store := repository.NewMemoryStore()
	uid, err := store.CreateUser(context.Background(), "rider@example.com", "secret", 4)
	require.NoError(t, err)

	train := model.NewTrain(layout)
	if len(booked) > 0 {
		for _, n := range booked {
			train.Seat(n).IsBooked = true
		}
		train.Bookings = append(train.Bookings, model.Booking{
			Ref:       "fixture",
			Seats:     append([]int(nil), booked...),
			CreatedAt: time.Now().UTC(),
		})
	}
	require.NoError(t, store.Reset(context.Background(), train))
	return New(store, store), uid
}

// requireLedgerMatchesSeats asserts the core invariant: the union of
// ledger seats equals the set of booked seats, with no overlap between
// entries and no empty entries.
func requireLedgerMatchesSeats(t *testing.T, train *model.Train) {
	t.Helper()
	union := make([]int, 0)
	seen := make(map[int]struct{})
	for _, b := range train.Bookings {
		require.NotEmpty(t, b.Seats, "ledger entry %s has no seats", b.Ref)
		for _, n := range b.Seats {
			_, dup := seen[n]
			require.False(t, dup, "seat %d appears in more than one ledger entry", n)
			seen[n] = struct{}{}
			union = append(union, n)
		}
	}
	sort.Ints(union)
	require.Equal(t, train.BookedNumbers(), union)
}

func TestBookFirstFit(t *testing.T) {
	engine, uid := newTestEngine(t, model.DefaultLayout(), 1, 2, 3, 4, 5, 6)

	booking, err := engine.Book(context.Background(), uid, 3)
	require.NoError(t, err)
	require.Equal(t, []int{7, 8, 9}, booking.Seats)
	require.NotEmpty(t, booking.Ref)

	train, err := engine.State(context.Background())
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, train.BookedNumbers())
	requireLedgerMatchesSeats(t, train)
}

func TestBookValidation(t *testing.T) {
	engine, uid := newTestEngine(t, model.DefaultLayout())

	for _, count := range []int{0, -1, MaxSeatsPerBooking + 1} {
		_, err := engine.Book(context.Background(), uid, count)
		require.ErrorIs(t, err, ErrInvalidRequest)
	}

	// Validation failures must not touch state.
	train, err := engine.State(context.Background())
	require.NoError(t, err)
	require.Empty(t, train.BookedNumbers())
	require.Empty(t, train.Bookings)
}

func TestBookUnknownUser(t *testing.T) {
	engine, _ := newTestEngine(t, model.DefaultLayout())

	_, err := engine.Book(context.Background(), 0, 2)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = engine.Book(context.Background(), 999, 2)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestBookNoSeatsAvailable(t *testing.T) {
	layout := model.Layout{Rows: 2, SeatsPerRow: 3, LastRowSeats: 2}
	all := []int{1, 2, 3, 4, 5}
	engine, uid := newTestEngine(t, layout, all...)

	_, err := engine.Book(context.Background(), uid, 1)
	require.ErrorIs(t, err, ErrNoSeatsAvailable)

	// A fragmented coach can refuse even when enough seats are free.
	engine2, uid2 := newTestEngine(t, layout, 2, 4)
	_, err = engine2.Book(context.Background(), uid2, 2)
	require.ErrorIs(t, err, ErrNoSeatsAvailable)
}

func TestUnbookSplitsBooking(t *testing.T) {
	engine, uid := newTestEngine(t, model.DefaultLayout())

	booking, err := engine.Book(context.Background(), uid, 3)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, booking.Seats)

	released, err := engine.Unbook(context.Background(), uid, []int{2})
	require.NoError(t, err)
	require.Equal(t, []int{2}, released)

	train, err := engine.State(context.Background())
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, train.BookedNumbers())
	requireLedgerMatchesSeats(t, train)
	for _, b := range train.Bookings {
		require.NotContains(t, b.Seats, 2)
	}
}

func TestUnbookDropsEmptiedBooking(t *testing.T) {
	engine, uid := newTestEngine(t, model.DefaultLayout())

	_, err := engine.Book(context.Background(), uid, 2)
	require.NoError(t, err)

	released, err := engine.Unbook(context.Background(), uid, []int{1, 2})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, released)

	train, err := engine.State(context.Background())
	require.NoError(t, err)
	require.Empty(t, train.BookedNumbers())
	require.Empty(t, train.Bookings)
}

func TestUnbookSkipsFreeAndUnknownSeats(t *testing.T) {
	engine, uid := newTestEngine(t, model.DefaultLayout(), 5, 6, 7)

	// Duplicates, free seats and out-of-range numbers are skipped; only
	// actually-booked seats come back, ascending.
	released, err := engine.Unbook(context.Background(), uid, []int{7, 7, 5, 2, 999})
	require.NoError(t, err)
	require.Equal(t, []int{5, 7}, released)

	train, err := engine.State(context.Background())
	require.NoError(t, err)
	require.Equal(t, []int{6}, train.BookedNumbers())
	requireLedgerMatchesSeats(t, train)
}

func TestUnbookNothingToRelease(t *testing.T) {
	engine, uid := newTestEngine(t, model.DefaultLayout(), 10)

	before, err := engine.State(context.Background())
	require.NoError(t, err)

	_, err = engine.Unbook(context.Background(), uid, []int{1, 2, 3})
	require.ErrorIs(t, err, ErrNothingToUnbook)

	_, err = engine.Unbook(context.Background(), uid, nil)
	require.ErrorIs(t, err, ErrInvalidRequest)

	after, err := engine.State(context.Background())
	require.NoError(t, err)
	require.Equal(t, before.BookedNumbers(), after.BookedNumbers())
	require.Equal(t, before.Bookings, after.Bookings)
}

func TestResetPrebooksRandomSeats(t *testing.T) {
	engine, uid := newTestEngine(t, model.DefaultLayout())

	train, err := engine.Reset(context.Background(), model.DefaultLayout(), true)
	require.NoError(t, err)
	require.Len(t, train.Seats, 80)

	booked := train.BookedNumbers()
	require.GreaterOrEqual(t, len(booked), prebookMin)
	require.LessOrEqual(t, len(booked), prebookMax)
	requireLedgerMatchesSeats(t, train)
	for _, b := range train.Bookings {
		require.Len(t, b.Seats, 1)
	}

	// A clean reset wipes everything.
	train, err = engine.Reset(context.Background(), model.DefaultLayout(), false)
	require.NoError(t, err)
	require.Empty(t, train.BookedNumbers())
	require.Empty(t, train.Bookings)

	// Booking still works against the regenerated coach.
	booking, err := engine.Book(context.Background(), uid, 4)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3, 4}, booking.Seats)
}

func TestResetRejectsBadLayout(t *testing.T) {
	engine, _ := newTestEngine(t, model.DefaultLayout())

	_, err := engine.Reset(context.Background(), model.Layout{Rows: 0, SeatsPerRow: 7, LastRowSeats: 3}, false)
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestStateMissingTrain(t *testing.T) {
	store := repository.NewMemoryStore()
	engine := New(store, store)

	_, err := engine.State(context.Background())
	require.ErrorIs(t, err, repository.ErrTrainNotFound)
}
