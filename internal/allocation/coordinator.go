package allocation

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
)

// runAtomic executes one unit of work against the train aggregate:
// load a snapshot, let work mutate it, commit the result.  The work
// function only ever sees a private snapshot, so any failure aborts
// with persisted state untouched.  A version conflict on commit means
// a concurrent transaction won the race; it is surfaced as ErrConflict
// without retrying — retry policy belongs to the caller.
func (e *Engine) runAtomic(ctx context.Context, work func(*model.Train) error) (*model.Train, error) {
	train, err := e.store.Load(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	if err := work(train); err != nil {
		return nil, err
	}
	if err := e.store.Commit(ctx, train); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, ErrConflict
		}
		return nil, storeError(err)
	}
	return train, nil
}

// storeError passes ErrTrainNotFound through untouched (the handler
// maps it to 404) and folds everything else into ErrStorageUnavailable.
func storeError(err error) error {
	if errors.Is(err, repository.ErrTrainNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
