package membershipcard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitclub/internal/adapters/storage"
	domain "fitclub/internal/domain/membershipcard"
)

const cardColumns = "id, member_id, card_type, start_date, end_date, status"

// SQLStore implements Store on the shared relational database.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new membership card store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (domain.Card, error) {
	var entity domain.Card
	var startStr, endStr, status string
	if err := row.Scan(&entity.ID, &entity.MemberID, &entity.CardType, &startStr, &endStr, &status); err != nil {
		return domain.Card{}, err
	}
	var err error
	if entity.StartDate, err = storage.ParseTime(startStr); err != nil {
		return domain.Card{}, fmt.Errorf("failed to parse start_date: %w", err)
	}
	if entity.EndDate, err = storage.ParseTime(endStr); err != nil {
		return domain.Card{}, fmt.Errorf("failed to parse end_date: %w", err)
	}
	entity.Status = domain.Status(status)
	return entity, nil
}

// GetByID retrieves a Card by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Card, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+cardColumns+" FROM membership_card WHERE id = ?", id)
	entity, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Card{}, fmt.Errorf("card %s: %w", id, storage.ErrNotFound)
	}
	return entity, err
}

// Save persists a Card (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLStore) Save(ctx context.Context, entity domain.Card) error {
	query := `INSERT INTO membership_card (id, member_id, card_type, start_date, end_date, status) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET card_type=excluded.card_type, start_date=excluded.start_date, end_date=excluded.end_date, status=excluded.status`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.MemberID,
		entity.CardType,
		storage.FormatTime(entity.StartDate),
		storage.FormatTime(entity.EndDate),
		string(entity.Status),
	)
	return err
}

// GetActiveByMemberID returns the member's active card ending last.
// POST: Returns storage.ErrNotFound when the member holds no active card
func (s *SQLStore) GetActiveByMemberID(ctx context.Context, memberID string) (domain.Card, error) {
	query := "SELECT " + cardColumns + " FROM membership_card WHERE member_id = ? AND status = ? ORDER BY end_date DESC LIMIT 1"
	entity, err := scanCard(s.db.QueryRowContext(ctx, query, memberID, string(domain.StatusActive)))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Card{}, fmt.Errorf("active card for member %s: %w", memberID, storage.ErrNotFound)
	}
	return entity, err
}

// ListByMemberID returns the card history, newest end date first.
func (s *SQLStore) ListByMemberID(ctx context.Context, memberID string) ([]domain.Card, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+cardColumns+" FROM membership_card WHERE member_id = ? ORDER BY end_date DESC", memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Card
	for rows.Next() {
		entity, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// ExpireLapsed marks active cards whose end date has passed as expired.
// POST: Returns the number of cards changed; a second call at the same now returns 0
func (s *SQLStore) ExpireLapsed(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE membership_card SET status = ? WHERE status = ? AND end_date < ?",
		string(domain.StatusExpired), string(domain.StatusActive), storage.FormatTime(now))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
