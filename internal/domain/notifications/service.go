package notifications

import (
	"context"
	"log/slog"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// Service fronts the alert store for transport and the generator. It
// satisfies AlertStore; urgent alerts are additionally fanned out by
// email when a mailer and recipient are configured. Email failures never
// fail the insert.
type Service struct {
	store   *Store
	Mailer  Mailer
	From    string
	AlertTo string
}

func New(store *Store, mailer Mailer, from, alertTo string) *Service {
	return &Service{store: store, Mailer: mailer, From: from, AlertTo: alertTo}
}

func (s *Service) HasUndismissed(ctx context.Context, checkID, titlePrefix string) (bool, error) {
	return s.store.HasUndismissed(ctx, checkID, titlePrefix)
}

func (s *Service) Insert(ctx context.Context, n Notification) error {
	if err := s.store.Insert(ctx, n); err != nil {
		return err
	}
	if s.Mailer == nil || s.AlertTo == "" || n.Severity != SeverityUrgent {
		return nil
	}
	if err := s.Mailer.Send(ctx, s.From, s.AlertTo, n.Title, n.Message); err != nil {
		slog.Warn("urgent alert email failed", "title", n.Title, "err", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, undismissedOnly bool, limit, offset int) ([]Notification, error) {
	return s.store.List(ctx, undismissedOnly, limit, offset)
}

func (s *Service) Dismiss(ctx context.Context, id, dismissedBy string) error {
	return s.store.Dismiss(ctx, id, dismissedBy)
}
