package rtw

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const checkColumns = `id, full_name, date_of_birth, check_date, check_type, check_method,
       share_code, idsp_provider, document_tokens, verification_answers,
       declaration_confirmed, declared_by, notes, scan_path, scan_filename,
       expiry_date, follow_up_date, employment_start_date, employment_end_date,
       deletion_due_date, status, onboarding_ref, created_by, created_at, updated_at`

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, check *Check) error {
	answers, err := json.Marshal(check.VerificationAnswers)
	if err != nil {
		return err
	}
	return s.DB.QueryRow(ctx, `
    INSERT INTO rtw_checks (
      full_name, date_of_birth, check_date, check_type, check_method,
      share_code, idsp_provider, document_tokens, verification_answers,
      declaration_confirmed, declared_by, notes, scan_path, scan_filename,
      expiry_date, follow_up_date, employment_start_date, employment_end_date,
      deletion_due_date, status, onboarding_ref, created_by
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
    RETURNING id, created_at, updated_at
  `, check.FullName, check.DateOfBirth, check.CheckDate, check.CheckType, check.CheckMethod,
		check.ShareCode, check.IDSPProvider, check.DocumentTokens, answers,
		check.DeclarationConfirmed, check.DeclaredBy, check.Notes, check.ScanPath, check.ScanFilename,
		check.ExpiryDate, check.FollowUpDate, check.EmploymentStartDate, check.EmploymentEndDate,
		check.DeletionDueDate, check.Status, nullable(check.OnboardingRef), nullable(check.CreatedBy),
	).Scan(&check.ID, &check.CreatedAt, &check.UpdatedAt)
}

func (s *Store) Get(ctx context.Context, id string) (Check, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+checkColumns+` FROM rtw_checks WHERE id = $1`, id)
	check, err := scanCheck(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Check{}, ErrCheckNotFound
	}
	return check, err
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Check, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+checkColumns+`
    FROM rtw_checks
    ORDER BY created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanChecks(rows)
}

// ListActive returns every check the alert generator should consider.
// Records already past their deletion due date still qualify: the
// pending-deletion alert is the one that tells a manager the sweep is
// about to act.
func (s *Store) ListActive(ctx context.Context) ([]Check, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+checkColumns+`
    FROM rtw_checks
    ORDER BY created_at
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanChecks(rows)
}

// ListDue returns checks whose deletion due date is on or before day.
func (s *Store) ListDue(ctx context.Context, day time.Time) ([]Check, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+checkColumns+`
    FROM rtw_checks
    WHERE deletion_due_date IS NOT NULL AND deletion_due_date <= $1
    ORDER BY deletion_due_date
  `, DayOf(day))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanChecks(rows)
}

func (s *Store) Update(ctx context.Context, check *Check) error {
	answers, err := json.Marshal(check.VerificationAnswers)
	if err != nil {
		return err
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE rtw_checks
    SET full_name = $1, date_of_birth = $2, check_date = $3, check_type = $4,
        check_method = $5, share_code = $6, idsp_provider = $7,
        document_tokens = $8, verification_answers = $9,
        declaration_confirmed = $10, declared_by = $11, notes = $12,
        scan_path = $13, scan_filename = $14, expiry_date = $15,
        follow_up_date = $16, employment_start_date = $17,
        employment_end_date = $18, deletion_due_date = $19, status = $20,
        updated_at = now()
    WHERE id = $21
  `, check.FullName, check.DateOfBirth, check.CheckDate, check.CheckType,
		check.CheckMethod, check.ShareCode, check.IDSPProvider,
		check.DocumentTokens, answers,
		check.DeclarationConfirmed, check.DeclaredBy, check.Notes,
		check.ScanPath, check.ScanFilename, check.ExpiryDate,
		check.FollowUpDate, check.EmploymentStartDate,
		check.EmploymentEndDate, check.DeletionDueDate, check.Status,
		check.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCheckNotFound
	}
	return nil
}

// SetEmploymentEnd writes the employment end date and its paired deletion
// due date in one statement so the two can never diverge.
func (s *Store) SetEmploymentEnd(ctx context.Context, id string, end, due *time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE rtw_checks
    SET employment_end_date = $1, deletion_due_date = $2, updated_at = now()
    WHERE id = $3
  `, end, due, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCheckNotFound
	}
	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, id string, status Status) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE rtw_checks SET status = $1, updated_at = now() WHERE id = $2
  `, status, id)
	return err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM rtw_checks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCheckNotFound
	}
	return nil
}

func scanChecks(rows pgx.Rows) ([]Check, error) {
	var out []Check
	for rows.Next() {
		check, err := scanCheck(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, check)
	}
	return out, rows.Err()
}

func scanCheck(row pgx.Row) (Check, error) {
	var check Check
	var answers []byte
	var onboardingRef, createdBy *string
	err := row.Scan(
		&check.ID, &check.FullName, &check.DateOfBirth, &check.CheckDate,
		&check.CheckType, &check.CheckMethod, &check.ShareCode,
		&check.IDSPProvider, &check.DocumentTokens, &answers,
		&check.DeclarationConfirmed, &check.DeclaredBy, &check.Notes,
		&check.ScanPath, &check.ScanFilename, &check.ExpiryDate,
		&check.FollowUpDate, &check.EmploymentStartDate,
		&check.EmploymentEndDate, &check.DeletionDueDate, &check.Status,
		&onboardingRef, &createdBy, &check.CreatedAt, &check.UpdatedAt,
	)
	if err != nil {
		return Check{}, err
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &check.VerificationAnswers); err != nil {
			return Check{}, err
		}
	}
	if onboardingRef != nil {
		check.OnboardingRef = *onboardingRef
	}
	if createdBy != nil {
		check.CreatedBy = *createdBy
	}
	return check, nil
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
