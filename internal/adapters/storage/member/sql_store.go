package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fitclub/internal/adapters/storage"
	domain "fitclub/internal/domain/member"
)

const memberColumns = "id, name, email, phone, status"

// SQLStore implements Store on the shared relational database.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new member store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (domain.Member, error) {
	var entity domain.Member
	var email, phone sql.NullString
	var status string
	if err := row.Scan(&entity.ID, &entity.Name, &email, &phone, &status); err != nil {
		return domain.Member{}, err
	}
	entity.Email = email.String
	entity.Phone = phone.String
	entity.Status = domain.Status(status)
	return entity, nil
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM member WHERE id = ?", id)
	entity, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, fmt.Errorf("member %s: %w", id, storage.ErrNotFound)
	}
	return entity, err
}

// Save persists a Member (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLStore) Save(ctx context.Context, entity domain.Member) error {
	query := `INSERT INTO member (id, name, email, phone, status) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, email=excluded.email, phone=excluded.phone, status=excluded.status`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		nullString(entity.Email),
		nullString(entity.Phone),
		string(entity.Status),
	)
	return err
}

// UpdateStatus changes only the status column.
// PRE: status is a valid domain.Status
// POST: Returns storage.ErrNotFound when no member has the id
func (s *SQLStore) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	res, err := s.db.ExecContext(ctx, "UPDATE member SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("member %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// List retrieves Members ordered by name.
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Member, error) {
	query := "SELECT " + memberColumns + " FROM member WHERE 1=1"
	var args []any
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += " ORDER BY name ASC LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	return s.query(ctx, query, args...)
}

// SearchByName finds members whose name matches the query (LIKE).
// PRE: query is non-empty, limit > 0
// POST: Returns matching members ordered by name
func (s *SQLStore) SearchByName(ctx context.Context, query string, limit int) ([]domain.Member, error) {
	q := "SELECT " + memberColumns + " FROM member WHERE name LIKE ? ORDER BY name LIMIT ?"
	return s.query(ctx, q, "%"+query+"%", limit)
}

func (s *SQLStore) query(ctx context.Context, query string, args ...any) ([]domain.Member, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Member
	for rows.Next() {
		entity, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
