package retention

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the pgx-backed deleted-records ledger. Rows are insert-only;
// there is no update or delete path.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Insert(ctx context.Context, entry DeletedEntry) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO deleted_checks (check_id, full_name, employment_start, employment_end, deletion_due, deleted_at, deleted_by, reason)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, entry.CheckID, entry.FullName, entry.EmploymentStart, entry.EmploymentEnd,
		entry.DeletionDue, entry.DeletedAt, entry.DeletedBy, entry.Reason)
	return err
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]DeletedEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, check_id, full_name, employment_start, employment_end, deletion_due, deleted_at, deleted_by, reason
    FROM deleted_checks
    ORDER BY deleted_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DeletedEntry
	for rows.Next() {
		var entry DeletedEntry
		if err := rows.Scan(&entry.ID, &entry.CheckID, &entry.FullName,
			&entry.EmploymentStart, &entry.EmploymentEnd, &entry.DeletionDue,
			&entry.DeletedAt, &entry.DeletedBy, &entry.Reason); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
