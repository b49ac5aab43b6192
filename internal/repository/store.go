package repository

import (
	"context"
	"time"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// TrainStore is the persistence contract the transaction coordinator is
// built on: load a consistent snapshot, commit a mutated one.  Commit
// must apply the seat map and the booking ledger together or not at
// all, and must fail with ErrVersionConflict when the stored aggregate
// changed after the snapshot was taken.
type TrainStore interface {
	// Load returns a point-in-time snapshot of the train.  Callers own
	// the returned value and may mutate it freely.
	Load(ctx context.Context) (*model.Train, error)
	// Commit atomically replaces the stored train with the snapshot,
	// provided the snapshot's version still matches the stored one.
	Commit(ctx context.Context, train *model.Train) error
	// Reset unconditionally replaces the stored train, seeding a new
	// coach and clearing the ledger.
	Reset(ctx context.Context, train *model.Train) error
}

// User mirrors the user directory record.  Identity is opaque to the
// core: the allocation engine only ever asks whether a user exists.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserStore is the identity collaborator contract.  CreateUser hashes
// the password itself so callers never handle hashes directly.
type UserStore interface {
	CreateUser(ctx context.Context, email, password string, cost int) (uint64, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	UserExists(ctx context.Context, id uint64) (bool, error)
}
