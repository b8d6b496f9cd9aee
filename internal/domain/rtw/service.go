package rtw

import (
	"context"
	"time"
)

type Service struct {
	store *Store
	now   func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Store() *Store {
	return s.store
}

// Create normalizes the retention pairing, classifies the check and
// persists it.
func (s *Service) Create(ctx context.Context, check *Check) error {
	check.DeletionDueDate = DeletionDue(check.EmploymentEndDate)
	check.Status = Classify(*check, s.now())
	return s.store.Create(ctx, check)
}

func (s *Service) Get(ctx context.Context, id string) (Check, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Check, error) {
	return s.store.List(ctx, limit, offset)
}

// Update rewrites a check. The deletion due date is never taken from the
// caller: it is recomputed from the employment end date so the pair stays
// consistent, and the status column is refreshed in the same write.
func (s *Service) Update(ctx context.Context, check *Check) error {
	check.DeletionDueDate = DeletionDue(check.EmploymentEndDate)
	check.Status = Classify(*check, s.now())
	return s.store.Update(ctx, check)
}

// EndEmployment records the employment end date (or clears it when nil)
// together with the derived deletion due date.
func (s *Service) EndEmployment(ctx context.Context, id string, end *time.Time) error {
	end = dayPtr(end)
	if err := s.store.SetEmploymentEnd(ctx, id, end, DeletionDue(end)); err != nil {
		return err
	}
	check, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.store.UpdateStatus(ctx, id, Classify(check, s.now()))
}

// RefreshStatuses re-derives the denormalized status column for every
// check. Run after date thresholds roll over.
func (s *Service) RefreshStatuses(ctx context.Context) (int, error) {
	checks, err := s.store.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	today := s.now()
	updated := 0
	for _, check := range checks {
		status := Classify(check, today)
		if status == check.Status {
			continue
		}
		if err := s.store.UpdateStatus(ctx, check.ID, status); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
