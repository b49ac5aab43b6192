package model

// Seat describes one physical seat in the coach.  Seats are uniquely
// identified by their number, which runs from 1 across the whole coach
// and defines contiguity for booking purposes.  Row membership is fixed
// when the coach is seeded and never changes afterwards.
//
// Fields:
//
//	Number   – coach-wide seat number (1-based, defines ordering).
//	Row      – row the seat belongs to (1-based).
//	IsBooked – whether the seat is currently part of an active booking.
type Seat struct {
	Number   int  `json:"number"`
	Row      int  `json:"row"`
	IsBooked bool `json:"is_booked"`
}
