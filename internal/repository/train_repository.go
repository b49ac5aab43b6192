package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// trainID is the primary key of the single train row.  Exactly one
// coach exists per deployment.
const trainID = 1

// TrainRepo persists the train aggregate in MySQL.  The trains row
// carries an optimistic version counter; every commit bumps it with a
// compare-and-set UPDATE so that two snapshots taken from the same
// version can never both land.
type TrainRepo struct {
	db *sql.DB
}

var _ TrainStore = (*TrainRepo)(nil)

// NewTrainRepo returns a TrainRepo bound to the given database.
func NewTrainRepo(db *sql.DB) *TrainRepo { return &TrainRepo{db: db} }

// Load reads the whole aggregate inside a read-only transaction so the
// version, seat map and ledger form one consistent snapshot.
func (r *TrainRepo) Load(ctx context.Context) (*model.Train, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var t model.Train
	err = tx.QueryRowContext(ctx, `SELECT version FROM trains WHERE id = ?`, trainID).Scan(&t.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrainNotFound
		}
		return nil, err
	}

	const seatQ = `SELECT number, row_num, is_booked FROM seats WHERE train_id = ? ORDER BY number`
	rows, err := tx.QueryContext(ctx, seatQ, trainID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.Number, &s.Row, &s.IsBooked); err != nil {
			return nil, err
		}
		t.Seats = append(t.Seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	bookings, err := loadBookingsTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	t.Bookings = bookings

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &t, nil
}

// loadBookingsTx hydrates the ledger with two queries: one for the
// booking rows, one for all their seats, joined up via an index map.
func loadBookingsTx(ctx context.Context, tx *sql.Tx) ([]model.Booking, error) {
	const q = `SELECT id, ref, created_at FROM bookings WHERE train_id = ? ORDER BY id`
	rows, err := tx.QueryContext(ctx, q, trainID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]model.Booking, 0)
	ids := make([]interface{}, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var id uint64
		var b model.Booking
		if err := rows.Scan(&id, &b.Ref, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.Seats = []int{}
		index[id] = len(bookings)
		bookings = append(bookings, b)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return bookings, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	seatQ := `SELECT booking_id, seat_number FROM booking_seats
	          WHERE booking_id IN (` + placeholders + `)
	          ORDER BY booking_id, seat_number`
	srows, err := tx.QueryContext(ctx, seatQ, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var bid uint64
		var num int
		if err := srows.Scan(&bid, &num); err != nil {
			return nil, err
		}
		if idx, ok := index[bid]; ok {
			bookings[idx].Seats = append(bookings[idx].Seats, num)
		}
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// Commit swaps the stored aggregate for the snapshot.  The version
// compare-and-set runs first; when it matches no concurrent writer got
// in between and the seat map plus ledger are rewritten in the same
// transaction.
func (r *TrainRepo) Commit(ctx context.Context, train *model.Train) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE trains SET version = version + 1 WHERE id = ? AND version = ?`,
		trainID, train.Version)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVersionConflict
	}

	if err := writeSeatStatesTx(ctx, tx, train); err != nil {
		return err
	}
	if err := writeLedgerTx(ctx, tx, train.Bookings); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Reset replaces the stored train with a freshly seeded one.  The
// version keeps climbing across resets so snapshots taken before the
// reset cannot commit over it.
func (r *TrainRepo) Reset(ctx context.Context, train *model.Train) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trains (id, version) VALUES (?, 1)
		 ON DUPLICATE KEY UPDATE version = version + 1`, trainID)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM seats WHERE train_id = ?`, trainID); err != nil {
		return err
	}
	if err := insertSeatsBulkTx(ctx, tx, train.Seats); err != nil {
		return err
	}
	if err := writeLedgerTx(ctx, tx, train.Bookings); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// insertSeatsBulkTx inserts all seats in a single statement.
func insertSeatsBulkTx(ctx context.Context, tx *sql.Tx, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (train_id, number, row_num, is_booked) VALUES `
	args := make([]interface{}, 0, len(seats)*4)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, trainID, s.Number, s.Row, s.IsBooked)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// writeSeatStatesTx rewrites the booked flags: clear everything, then
// set the booked set in one IN update.
func writeSeatStatesTx(ctx context.Context, tx *sql.Tx, train *model.Train) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE seats SET is_booked = 0 WHERE train_id = ?`, trainID); err != nil {
		return err
	}
	booked := train.BookedNumbers()
	if len(booked) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(booked)), ",")
	query := `UPDATE seats SET is_booked = 1 WHERE train_id = ? AND number IN (` + placeholders + `)`
	args := make([]interface{}, 0, len(booked)+1)
	args = append(args, trainID)
	for _, n := range booked {
		args = append(args, n)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// writeLedgerTx replaces the stored ledger with the snapshot's ledger.
// booking_seats rows go away via the FK cascade.
func writeLedgerTx(ctx context.Context, tx *sql.Tx, bookings []model.Booking) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE train_id = ?`, trainID); err != nil {
		return err
	}
	for _, b := range bookings {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO bookings (train_id, ref, created_at) VALUES (?, ?, ?)`,
			trainID, b.Ref, b.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if len(b.Seats) == 0 {
			continue
		}
		query := `INSERT INTO booking_seats (booking_id, seat_number) VALUES `
		args := make([]interface{}, 0, len(b.Seats)*2)
		for i, n := range b.Seats {
			if i > 0 {
				query += ","
			}
			query += "(?, ?)"
			args = append(args, id, n)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}
