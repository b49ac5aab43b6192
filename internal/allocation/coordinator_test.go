package allocation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
)

// TestConcurrentBookingsNoOverlap races two bookings for 4 seats over a
// 7-seat coach.  Only one can succeed; the loser either fails the
// version check at commit or, having loaded after the winner committed,
// finds no contiguous run left.  Either way no seat is double-booked.
func TestConcurrentBookingsNoOverlap(t *testing.T) {
	layout := model.Layout{Rows: 2, SeatsPerRow: 4, LastRowSeats: 3}
	engine, uid := newTestEngine(t, layout)

	var (
		start    = make(chan struct{})
		wg       sync.WaitGroup
		errs     = make([]error, 2)
		bookings = make([]model.Booking, 2)
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			bookings[i], errs[i] = engine.Book(context.Background(), uid, 4)
		}(i)
	}
	close(start)
	wg.Wait()

	var won, lost int
	for i := 0; i < 2; i++ {
		if errs[i] == nil {
			won++
			require.Len(t, bookings[i].Seats, 4)
			continue
		}
		lost++
		require.True(t,
			errors.Is(errs[i], ErrConflict) || errors.Is(errs[i], ErrNoSeatsAvailable),
			"unexpected loser error: %v", errs[i])
	}
	require.Equal(t, 1, won)
	require.Equal(t, 1, lost)

	train, err := engine.State(context.Background())
	require.NoError(t, err)
	require.Len(t, train.BookedNumbers(), 4)
	requireLedgerMatchesSeats(t, train)
}

// failingStore errors on every operation to exercise the storage error
// mapping.
type failingStore struct{ err error }

func (f failingStore) Load(ctx context.Context) (*model.Train, error)       { return nil, f.err }
func (f failingStore) Commit(ctx context.Context, t *model.Train) error     { return f.err }
func (f failingStore) Reset(ctx context.Context, t *model.Train) error      { return f.err }
func (f failingStore) UserExists(ctx context.Context, id uint64) (bool, error) {
	return true, nil
}
func (f failingStore) CreateUser(ctx context.Context, email, password string, cost int) (uint64, error) {
	return 0, f.err
}
func (f failingStore) UserByEmail(ctx context.Context, email string) (repository.User, error) {
	return repository.User{}, f.err
}

func TestStoreFailureSurfacesAsUnavailable(t *testing.T) {
	boom := errors.New("connection refused")
	engine := New(failingStore{err: boom}, failingStore{err: boom})

	_, err := engine.Book(context.Background(), 1, 2)
	require.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = engine.State(context.Background())
	require.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestMissingTrainPassesThrough(t *testing.T) {
	engine := New(failingStore{err: repository.ErrTrainNotFound}, failingStore{})

	_, err := engine.Book(context.Background(), 1, 2)
	require.ErrorIs(t, err, repository.ErrTrainNotFound)
}
