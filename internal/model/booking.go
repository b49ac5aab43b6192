package model

import "time"

// Booking is one ledger entry: the set of seat numbers allocated by a
// single successful book operation.  Unbooking removes seat numbers
// from existing entries; an entry whose seat set becomes empty is
// dropped from the ledger entirely so that no dangling seat references
// remain.
//
// Fields:
//
//	Ref       – opaque reference handed back to the caller.
//	Seats     – seat numbers covered by this booking, ascending.
//	CreatedAt – when the booking was committed (UTC).
type Booking struct {
	Ref       string    `json:"ref"`
	Seats     []int     `json:"seats"`
	CreatedAt time.Time `json:"created_at"`
}
