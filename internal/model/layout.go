package model

import "fmt"

// Layout describes the static shape of the coach: how many rows it has,
// how many seats a full row holds and how many seats the last (short)
// row holds.  The default mirrors the demo coach: 12 rows of 7 seats
// with only 3 seats in the final row.
type Layout struct {
	Rows         int `json:"rows"`
	SeatsPerRow  int `json:"seats_per_row"`
	LastRowSeats int `json:"last_row_seats"`
}

// DefaultLayout returns the demo coach layout (12 rows x 7, last row 3).
func DefaultLayout() Layout {
	return Layout{Rows: 12, SeatsPerRow: 7, LastRowSeats: 3}
}

// Validate rejects layouts that cannot produce a usable coach.
func (l Layout) Validate() error {
	if l.Rows < 1 || l.SeatsPerRow < 1 || l.LastRowSeats < 1 {
		return fmt.Errorf("layout values must be positive: rows=%d seats_per_row=%d last_row_seats=%d",
			l.Rows, l.SeatsPerRow, l.LastRowSeats)
	}
	return nil
}

// TotalSeats returns the number of seats the layout generates.
func (l Layout) TotalSeats() int {
	return (l.Rows-1)*l.SeatsPerRow + l.LastRowSeats
}

// Generate numbers seats 1..N row by row.  Every row holds SeatsPerRow
// seats except the last, which holds LastRowSeats.  All seats start
// unbooked.
func (l Layout) Generate() []Seat {
	seats := make([]Seat, 0, l.TotalSeats())
	number := 1
	for row := 1; row <= l.Rows; row++ {
		inRow := l.SeatsPerRow
		if row == l.Rows {
			inRow = l.LastRowSeats
		}
		for i := 0; i < inRow; i++ {
			seats = append(seats, Seat{Number: number, Row: row})
			number++
		}
	}
	return seats
}
