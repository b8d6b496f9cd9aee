package notifications

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// HasUndismissed reports whether an open alert with the given title
// prefix already exists for a check.
func (s *Store) HasUndismissed(ctx context.Context, checkID, titlePrefix string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (
      SELECT 1 FROM notifications
      WHERE check_id = $1 AND dismissed_at IS NULL AND title LIKE $2 || '%'
    )
  `, checkID, titlePrefix).Scan(&exists)
	return exists, err
}

func (s *Store) Insert(ctx context.Context, n Notification) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (source_app, severity, title, message, action_url, check_id)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, n.SourceApp, n.Severity, n.Title, n.Message, n.ActionURL, nullableID(n.CheckID))
	return err
}

func (s *Store) List(ctx context.Context, undismissedOnly bool, limit, offset int) ([]Notification, error) {
	query := `
    SELECT id, source_app, severity, title, message, COALESCE(action_url, ''),
           COALESCE(check_id::text, ''), created_at, dismissed_at, COALESCE(dismissed_by, '')
    FROM notifications`
	if undismissedOnly {
		query += ` WHERE dismissed_at IS NULL`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := s.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.SourceApp, &n.Severity, &n.Title, &n.Message,
			&n.ActionURL, &n.CheckID, &n.CreatedAt, &n.DismissedAt, &n.DismissedBy); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Dismiss marks a notification as handled. Dismissing an already
// dismissed notification keeps the original dismissal.
func (s *Store) Dismiss(ctx context.Context, id, dismissedBy string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notifications
    SET dismissed_at = COALESCE(dismissed_at, now()),
        dismissed_by = COALESCE(dismissed_by, $1)
    WHERE id = $2
  `, dismissedBy, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func nullableID(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
