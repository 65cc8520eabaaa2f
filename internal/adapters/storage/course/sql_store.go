package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitclub/internal/adapters/storage"
	domain "fitclub/internal/domain/course"
)

const courseColumns = "id, name, employee_id, course_time, max_capacity, confirmed_count"

// SQLStore implements Store on the shared relational database.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new course store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (domain.Course, error) {
	var entity domain.Course
	var courseTime string
	if err := row.Scan(&entity.ID, &entity.Name, &entity.EmployeeID, &courseTime, &entity.MaxCapacity, &entity.ConfirmedCount); err != nil {
		return domain.Course{}, err
	}
	parsed, err := storage.ParseTime(courseTime)
	if err != nil {
		return domain.Course{}, fmt.Errorf("failed to parse course_time: %w", err)
	}
	entity.CourseTime = parsed
	return entity, nil
}

// GetByID retrieves a Course by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Course, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+courseColumns+" FROM course WHERE id = ?", id)
	entity, err := scanCourse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Course{}, fmt.Errorf("course %s: %w", id, storage.ErrNotFound)
	}
	return entity, err
}

// Save persists a Course (insert or update). The confirmed counter is only
// written on insert; afterwards bookings own it.
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLStore) Save(ctx context.Context, entity domain.Course) error {
	query := `INSERT INTO course (id, name, employee_id, course_time, max_capacity, confirmed_count) VALUES (?, ?, ?, ?, ?, 0)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, employee_id=excluded.employee_id, course_time=excluded.course_time`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		entity.EmployeeID,
		storage.FormatTime(entity.CourseTime),
		entity.MaxCapacity,
	)
	return err
}

// List returns courses scheduled in [from, to), earliest first. A zero to
// means no upper bound.
func (s *SQLStore) List(ctx context.Context, from, to time.Time) ([]domain.Course, error) {
	query := "SELECT " + courseColumns + " FROM course WHERE course_time >= ?"
	args := []any{storage.FormatTime(from)}
	if !to.IsZero() {
		query += " AND course_time < ?"
		args = append(args, storage.FormatTime(to))
	}
	query += " ORDER BY course_time"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Course
	for rows.Next() {
		entity, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// CountConfirmed counts the confirmed bookings of a course.
func (s *SQLStore) CountConfirmed(ctx context.Context, courseID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM booking WHERE course_id = ? AND status = 'confirmed'", courseID).Scan(&n)
	return n, err
}

// UpdateCapacity sets a new maximum capacity.
// PRE: capacity > 0
// POST: Applied only when no more seats are confirmed than capacity;
// otherwise returns storage.ErrConflict. Unknown ids return storage.ErrNotFound
func (s *SQLStore) UpdateCapacity(ctx context.Context, id string, capacity int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE course SET max_capacity = ? WHERE id = ? AND confirmed_count <= ?",
		capacity, id, capacity)
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
	return fmt.Errorf("course %s capacity %d: %w", id, capacity, storage.ErrConflict)
}
