package allocation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// seatRow builds a seat sequence numbered 1..n with the given numbers
// already booked.
func seatRow(n int, booked ...int) []model.Seat {
	seats := make([]model.Seat, n)
	for i := range seats {
		seats[i] = model.Seat{Number: i + 1, Row: 1}
	}
	for _, b := range booked {
		seats[b-1].IsBooked = true
	}
	return seats
}

func TestFindContiguousBlock(t *testing.T) {
	for _, tt := range []struct {
		name   string
		seats  []model.Seat
		count  int
		want   []int
		wantOK bool
	}{
		{
			name:   "empty coach first fit",
			seats:  seatRow(10),
			count:  3,
			want:   []int{1, 2, 3},
			wantOK: true,
		},
		{
			name:   "skips leading booked run",
			seats:  seatRow(10, 1, 2, 3, 4, 5, 6),
			count:  3,
			want:   []int{7, 8, 9},
			wantOK: true,
		},
		{
			name:   "broken run forces later block",
			seats:  seatRow(10, 3),
			count:  3,
			want:   []int{4, 5, 6},
			wantOK: true,
		},
		{
			name:   "earliest fit wins over larger gap",
			seats:  seatRow(10, 3, 7),
			count:  2,
			want:   []int{1, 2},
			wantOK: true,
		},
		{
			name:   "exact remaining capacity",
			seats:  seatRow(5),
			count:  5,
			want:   []int{1, 2, 3, 4, 5},
			wantOK: true,
		},
		{
			name:  "no run long enough",
			seats: seatRow(10, 3, 6, 9),
			count: 3,
		},
		{
			name:  "full coach",
			seats: seatRow(4, 1, 2, 3, 4),
			count: 1,
		},
		{
			name:  "zero count rejected",
			seats: seatRow(10),
			count: 0,
		},
		{
			name:  "negative count rejected",
			seats: seatRow(10),
			count: -2,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindContiguousBlock(tt.seats, tt.count)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.Equal(t, tt.want, got)
			} else {
				require.Nil(t, got)
			}
		})
	}
}
