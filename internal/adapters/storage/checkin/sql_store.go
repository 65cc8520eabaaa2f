package checkin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitclub/internal/adapters/storage"
	domain "fitclub/internal/domain/checkin"
)

const checkinColumns = "id, member_id, check_in_time, check_out_time, auto_closed"

// SQLStore implements Store on the shared relational database.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new check-in store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheckIn(row rowScanner) (domain.CheckIn, error) {
	var entity domain.CheckIn
	var checkInTime string
	var checkOutTime sql.NullString
	var autoClosed int
	if err := row.Scan(&entity.ID, &entity.MemberID, &checkInTime, &checkOutTime, &autoClosed); err != nil {
		return domain.CheckIn{}, err
	}
	var err error
	if entity.CheckInTime, err = storage.ParseTime(checkInTime); err != nil {
		return domain.CheckIn{}, fmt.Errorf("failed to parse check_in_time: %w", err)
	}
	if checkOutTime.Valid {
		if entity.CheckOutTime, err = storage.ParseTime(checkOutTime.String); err != nil {
			return domain.CheckIn{}, fmt.Errorf("failed to parse check_out_time: %w", err)
		}
	}
	entity.AutoClosed = autoClosed != 0
	return entity, nil
}

func collect(rows *sql.Rows) ([]domain.CheckIn, error) {
	defer rows.Close()
	var results []domain.CheckIn
	for rows.Next() {
		entity, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func (s *SQLStore) list(ctx context.Context, where string, args ...any) ([]domain.CheckIn, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+checkinColumns+" FROM checkin WHERE "+where+" ORDER BY check_in_time", args...)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// GetByID retrieves a CheckIn by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.CheckIn, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+checkinColumns+" FROM checkin WHERE id = ?", id)
	entity, err := scanCheckIn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CheckIn{}, fmt.Errorf("check-in %s: %w", id, storage.ErrNotFound)
	}
	return entity, err
}

// Create opens a new session.
// PRE: entity has been validated and is open
// POST: Returns storage.ErrDuplicate when the member already has an open session
func (s *SQLStore) Create(ctx context.Context, entity domain.CheckIn) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO checkin (id, member_id, check_in_time, check_out_time, auto_closed) VALUES (?, ?, ?, ?, ?)",
		entity.ID,
		entity.MemberID,
		storage.FormatTime(entity.CheckInTime),
		storage.NullTime(entity.CheckOutTime),
		boolInt(entity.AutoClosed),
	)
	if storage.IsUniqueViolation(err) {
		return fmt.Errorf("open session for member %s: %w", entity.MemberID, storage.ErrDuplicate)
	}
	return err
}

// GetOpenByMemberID returns the member's session without a check-out time.
func (s *SQLStore) GetOpenByMemberID(ctx context.Context, memberID string) (domain.CheckIn, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+checkinColumns+" FROM checkin WHERE member_id = ? AND check_out_time IS NULL", memberID)
	entity, err := scanCheckIn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CheckIn{}, fmt.Errorf("open session for member %s: %w", memberID, storage.ErrNotFound)
	}
	return entity, err
}

// CheckOut records the check-out time of an open session.
// PRE: entity.CheckOutTime is set in memory
// POST: Returns storage.ErrConflict if the stored session was already closed
func (s *SQLStore) CheckOut(ctx context.Context, entity domain.CheckIn) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE checkin SET check_out_time = ?, auto_closed = ? WHERE id = ? AND check_out_time IS NULL",
		storage.FormatTime(entity.CheckOutTime), boolInt(entity.AutoClosed), entity.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("check-in %s: %w", entity.ID, storage.ErrConflict)
	}
	return nil
}

// ListOpen returns every session still open, i.e. the members on the premises.
func (s *SQLStore) ListOpen(ctx context.Context) ([]domain.CheckIn, error) {
	return s.list(ctx, "check_out_time IS NULL")
}

// ListByMemberID returns the member's visit history, oldest first.
func (s *SQLStore) ListByMemberID(ctx context.Context, memberID string) ([]domain.CheckIn, error) {
	return s.list(ctx, "member_id = ?", memberID)
}

// ListByDateRange returns sessions started in [from, to).
func (s *SQLStore) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.CheckIn, error) {
	return s.list(ctx, "check_in_time >= ? AND check_in_time < ?", storage.FormatTime(from), storage.FormatTime(to))
}

// ListByMemberIDAndDateRange returns one member's sessions started in [from, to).
func (s *SQLStore) ListByMemberIDAndDateRange(ctx context.Context, memberID string, from, to time.Time) ([]domain.CheckIn, error) {
	return s.list(ctx, "member_id = ? AND check_in_time >= ? AND check_in_time < ?",
		memberID, storage.FormatTime(from), storage.FormatTime(to))
}

// CloseOverdue closes every open session that started before cutoff.
// POST: Returns the sessions it closed; a repeat call with the same cutoff
// closes nothing because the update only matches open rows
func (s *SQLStore) CloseOverdue(ctx context.Context, cutoff, now time.Time) ([]domain.CheckIn, error) {
	rows, err := s.db.QueryContext(ctx,
		"UPDATE checkin SET check_out_time = ?, auto_closed = 1 WHERE check_out_time IS NULL AND check_in_time < ? RETURNING "+checkinColumns,
		storage.FormatTime(now), storage.FormatTime(cutoff))
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
