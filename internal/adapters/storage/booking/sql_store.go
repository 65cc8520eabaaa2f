package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitclub/internal/adapters/storage"
	domain "fitclub/internal/domain/booking"
)

const bookingColumns = "id, member_id, course_id, status, booking_time, confirmed_at, cancelled_at, cancel_reason"

// SQLStore implements Store on the shared relational database.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new booking store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (domain.Booking, error) {
	var entity domain.Booking
	var status, bookingTime string
	var confirmedAt, cancelledAt, reason sql.NullString
	if err := row.Scan(&entity.ID, &entity.MemberID, &entity.CourseID, &status, &bookingTime, &confirmedAt, &cancelledAt, &reason); err != nil {
		return domain.Booking{}, err
	}
	entity.Status = domain.Status(status)
	entity.CancelReason = reason.String

	var err error
	if entity.BookingTime, err = storage.ParseTime(bookingTime); err != nil {
		return domain.Booking{}, fmt.Errorf("failed to parse booking_time: %w", err)
	}
	if confirmedAt.Valid {
		if entity.ConfirmedAt, err = storage.ParseTime(confirmedAt.String); err != nil {
			return domain.Booking{}, fmt.Errorf("failed to parse confirmed_at: %w", err)
		}
	}
	if cancelledAt.Valid {
		if entity.CancelledAt, err = storage.ParseTime(cancelledAt.String); err != nil {
			return domain.Booking{}, fmt.Errorf("failed to parse cancelled_at: %w", err)
		}
	}
	return entity, nil
}

func (s *SQLStore) list(ctx context.Context, where string, args ...any) ([]domain.Booking, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+bookingColumns+" FROM booking WHERE "+where+" ORDER BY booking_time", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Booking
	for rows.Next() {
		entity, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// GetByID retrieves a Booking by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Booking, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM booking WHERE id = ?", id)
	entity, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, fmt.Errorf("booking %s: %w", id, storage.ErrNotFound)
	}
	return entity, err
}

// Create inserts a new booking.
// PRE: entity has been validated and is pending
// POST: Returns storage.ErrDuplicate when the member already holds an
// active booking for the course
func (s *SQLStore) Create(ctx context.Context, entity domain.Booking) error {
	query := `INSERT INTO booking (id, member_id, course_id, status, booking_time, confirmed_at, cancelled_at, cancel_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.MemberID,
		entity.CourseID,
		string(entity.Status),
		storage.FormatTime(entity.BookingTime),
		storage.NullTime(entity.ConfirmedAt),
		storage.NullTime(entity.CancelledAt),
		nullString(entity.CancelReason),
	)
	if storage.IsUniqueViolation(err) {
		return fmt.Errorf("booking for member %s course %s: %w", entity.MemberID, entity.CourseID, storage.ErrDuplicate)
	}
	return err
}

// FindActive returns the member's non-cancelled booking for a course.
func (s *SQLStore) FindActive(ctx context.Context, memberID, courseID string) (domain.Booking, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM booking WHERE member_id = ? AND course_id = ? AND status <> 'cancelled'",
		memberID, courseID)
	entity, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, fmt.Errorf("active booking for member %s course %s: %w", memberID, courseID, storage.ErrNotFound)
	}
	return entity, err
}

// ListByMember returns all bookings of a member, oldest first.
func (s *SQLStore) ListByMember(ctx context.Context, memberID string) ([]domain.Booking, error) {
	return s.list(ctx, "member_id = ?", memberID)
}

// ListByCourse returns all bookings of a course, oldest first.
func (s *SQLStore) ListByCourse(ctx context.Context, courseID string) ([]domain.Booking, error) {
	return s.list(ctx, "course_id = ?", courseID)
}

// ListByStatus returns all bookings in a status, oldest first.
func (s *SQLStore) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Booking, error) {
	return s.list(ctx, "status = ?", string(status))
}

// ListByDateRange returns bookings made in [from, to).
func (s *SQLStore) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	return s.list(ctx, "booking_time >= ? AND booking_time < ?", storage.FormatTime(from), storage.FormatTime(to))
}

// Confirm commits a pending to confirmed transition and takes a seat.
// PRE: entity.Status is confirmed in memory, the stored row is pending
// POST: Both the booking row and the course counter change, or neither.
// Returns storage.ErrConflict if the row is no longer pending and
// storage.ErrCapacityReached if the course has no seat left
func (s *SQLStore) Confirm(ctx context.Context, entity domain.Booking) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		storage.Bind(s.db, "UPDATE booking SET status = 'confirmed', confirmed_at = ? WHERE id = ? AND status = 'pending'"),
		storage.FormatTime(entity.ConfirmedAt), entity.ID)
	if err := expectOne(res, err, fmt.Errorf("booking %s: %w", entity.ID, storage.ErrConflict)); err != nil {
		return err
	}

	res, err = tx.ExecContext(ctx,
		storage.Bind(s.db, "UPDATE course SET confirmed_count = confirmed_count + 1 WHERE id = ? AND confirmed_count < max_capacity"),
		entity.CourseID)
	if err := expectOne(res, err, fmt.Errorf("course %s: %w", entity.CourseID, storage.ErrCapacityReached)); err != nil {
		return err
	}

	return tx.Commit()
}

// Cancel commits a transition to cancelled. A confirmed booking gives its
// seat back in the same transaction.
// PRE: entity.Status is cancelled in memory, prior is the stored status
// POST: Returns storage.ErrConflict if the stored status is no longer prior
func (s *SQLStore) Cancel(ctx context.Context, entity domain.Booking, prior domain.Status) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		storage.Bind(s.db, "UPDATE booking SET status = 'cancelled', cancelled_at = ?, cancel_reason = ? WHERE id = ? AND status = ?"),
		storage.FormatTime(entity.CancelledAt), nullString(entity.CancelReason), entity.ID, string(prior))
	if err := expectOne(res, err, fmt.Errorf("booking %s: %w", entity.ID, storage.ErrConflict)); err != nil {
		return err
	}

	if prior == domain.StatusConfirmed {
		_, err = tx.ExecContext(ctx,
			storage.Bind(s.db, "UPDATE course SET confirmed_count = confirmed_count - 1 WHERE id = ? AND confirmed_count > 0"),
			entity.CourseID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes a cancelled booking.
// POST: Returns storage.ErrNotFound for unknown ids and storage.ErrConflict
// when the booking is not cancelled
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM booking WHERE id = ? AND status = 'cancelled'", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("booking %s: %w", id, storage.ErrConflict)
}

// expectOne turns an UPDATE that matched no row into miss.
func expectOne(res sql.Result, err error, miss error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return miss
	}
	return nil
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
