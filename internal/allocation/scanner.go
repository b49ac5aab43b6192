package allocation

import "github.com/iliyamo/train-seat-reservation/internal/model"

// FindContiguousBlock scans the seat sequence left to right for the
// first run of count consecutive unbooked seats and returns their
// numbers.  First fit only: the earliest qualifying run wins, there is
// no search for a better one.  Contiguity is by seat-number ordering;
// runs may span rows.  Returns false when no run of the required
// length exists.
func FindContiguousBlock(seats []model.Seat, count int) ([]int, bool) {
	if count < 1 {
		return nil, false
	}
	run := 0
	start := 0
	for i := range seats {
		if seats[i].IsBooked {
			run = 0
			continue
		}
		run++
		if run == 1 {
			start = i
		}
		if run == count {
			block := make([]int, 0, count)
			for _, s := range seats[start : i+1] {
				block = append(block, s.Number)
			}
			return block, true
		}
	}
	return nil, false
}
