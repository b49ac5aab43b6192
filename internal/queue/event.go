// Package queue defines the seat-change events exchanged over the
// message broker, the publisher that emits them after a committed
// booking change, and the background consumer that writes them to the
// booking log.
package queue

// Seat event actions.
const (
	ActionBooked   = "BOOKED"
	ActionUnbooked = "UNBOOKED"
)

// SeatsEvent is published after a book or unbook commits.  It carries
// enough for downstream consumers to log or notify without querying
// the primary store.
type SeatsEvent struct {
	Action     string `json:"action"` // BOOKED or UNBOOKED
	UserID     uint64 `json:"user_id"`
	BookingRef string `json:"booking_ref,omitempty"`
	Seats      []int  `json:"seats"`
	OccurredAt string `json:"occurred_at"` // RFC3339 UTC
}
