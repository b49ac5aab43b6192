package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/utils"
)

// MemoryStore keeps the train aggregate and the user directory in
// process memory.  It is the development and test driver; the same
// optimistic version check as the MySQL driver guards commits, so
// concurrency behavior is identical across drivers.
type MemoryStore struct {
	mu     sync.RWMutex
	train  *model.Train
	users  map[uint64]User
	byMail map[string]uint64
	nextID uint64
}

var (
	_ TrainStore = (*MemoryStore)(nil)
	_ UserStore  = (*MemoryStore)(nil)
)

// NewMemoryStore returns an empty in-memory store with no train seeded.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[uint64]User),
		byMail: make(map[string]uint64),
	}
}

// Load returns a deep copy of the stored train so callers can mutate
// their snapshot without holding the lock.
func (s *MemoryStore) Load(ctx context.Context) (*model.Train, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.train == nil {
		return nil, ErrTrainNotFound
	}
	return s.train.Clone(), nil
}

// Commit swaps in the snapshot when its version still matches the
// stored aggregate, bumping the version so later stale commits fail.
func (s *MemoryStore) Commit(ctx context.Context, train *model.Train) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.train == nil {
		return ErrTrainNotFound
	}
	if train.Version != s.train.Version {
		return ErrVersionConflict
	}
	next := train.Clone()
	next.Version++
	s.train = next
	return nil
}

// Reset replaces the stored train unconditionally.  The version keeps
// increasing across resets so snapshots loaded before the reset can
// never commit over it.
func (s *MemoryStore) Reset(ctx context.Context, train *model.Train) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := train.Clone()
	if s.train != nil {
		next.Version = s.train.Version + 1
	} else {
		next.Version = 1
	}
	s.train = next
	return nil
}

// CreateUser registers a user with a bcrypt-hashed password.
func (s *MemoryStore) CreateUser(ctx context.Context, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byMail[email]; taken {
		return 0, ErrEmailExists
	}
	s.nextID++
	id := s.nextID
	s.users[id] = User{ID: id, Email: email, PasswordHash: hash, CreatedAt: time.Now().UTC()}
	s.byMail[email] = id
	return id, nil
}

// UserByEmail fetches a user by normalized email.
func (s *MemoryStore) UserByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byMail[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return s.users[id], nil
}

// UserExists reports whether a user with the given ID is registered.
func (s *MemoryStore) UserExists(ctx context.Context, id uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[id]
	return ok, nil
}
