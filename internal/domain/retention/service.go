package retention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rtw/internal/domain/rtw"
)

var ErrActorUnresolved = errors.New("sweep actor could not be resolved")

// CheckStore is the slice of the record store the sweep needs.
type CheckStore interface {
	ListDue(ctx context.Context, day time.Time) ([]rtw.Check, error)
	Delete(ctx context.Context, id string) error
}

// LedgerStore appends to the immutable deleted-records ledger.
type LedgerStore interface {
	Insert(ctx context.Context, entry DeletedEntry) error
}

// ScanStore purges binary scans for a check.
type ScanStore interface {
	DeleteAllForCheck(ctx context.Context, checkID string) error
}

// Scrubber redacts personal data from a check's audit history.
type Scrubber interface {
	ScrubCheck(ctx context.Context, checkID string) error
}

// ActorResolver identifies the principal a run is attributed to.
type ActorResolver interface {
	CurrentActor(ctx context.Context) (Actor, error)
}

// ActorFunc adapts a function to ActorResolver.
type ActorFunc func(ctx context.Context) (Actor, error)

func (f ActorFunc) CurrentActor(ctx context.Context) (Actor, error) {
	return f(ctx)
}

type Metrics interface {
	SweepRun(trigger string)
	ChecksDeleted(n int)
	SweepErrors(n int)
}

type Service struct {
	checks   CheckStore
	ledger   LedgerStore
	scans    ScanStore
	scrubber Scrubber
	metrics  Metrics
	now      func() time.Time
}

func NewService(checks CheckStore, ledger LedgerStore, scans ScanStore, scrubber Scrubber, metrics Metrics) *Service {
	return &Service{
		checks:   checks,
		ledger:   ledger,
		scans:    scans,
		scrubber: scrubber,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Run executes one retention sweep. Failures are isolated per candidate:
// every due check is attempted, and each failure becomes one entry in
// the report rather than aborting the run. The only fatal conditions are
// the candidate query itself and an unresolvable actor, both of which
// happen before any deletion.
//
// A second run with no intervening writes deletes nothing: the candidate
// query only matches rows that still exist.
func (s *Service) Run(ctx context.Context, trigger Trigger, resolver ActorResolver) (Report, error) {
	report := Report{DeletedNames: []string{}, Errors: []string{}}
	today := rtw.DayOf(s.now())

	due, err := s.checks.ListDue(ctx, today)
	if err != nil {
		return report, fmt.Errorf("list due checks: %w", err)
	}
	if len(due) == 0 {
		return report, nil
	}

	actor, err := resolver.CurrentActor(ctx)
	if err != nil {
		return report, fmt.Errorf("%w: %v", ErrActorUnresolved, err)
	}

	if s.metrics != nil {
		s.metrics.SweepRun(string(trigger))
	}

	reason := ReasonRetentionExpired
	if trigger == TriggerManual {
		reason = ReasonManualDeletion
	}

	for _, check := range due {
		if err := s.purge(ctx, check, actor, reason); err != nil {
			if errors.Is(err, rtw.ErrCheckNotFound) {
				// A concurrent sweep got there first. Not an error.
				slog.Info("check already deleted", "checkId", check.ID)
				continue
			}
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", check.FullName, err))
			continue
		}
		report.DeletedNames = append(report.DeletedNames, check.FullName)
	}

	if s.metrics != nil {
		s.metrics.ChecksDeleted(len(report.DeletedNames))
		s.metrics.SweepErrors(len(report.Errors))
	}
	slog.Info("retention sweep finished",
		"trigger", trigger,
		"deleted", len(report.DeletedNames),
		"errors", len(report.Errors))
	return report, nil
}

// DeleteCheck erases a single check through the same ledger-first
// pipeline the sweep uses, attributed to the given actor. Used for
// explicit manager deletions; the record does not need to be past its
// retention date.
func (s *Service) DeleteCheck(ctx context.Context, check rtw.Check, actor Actor) error {
	return s.purge(ctx, check, actor, ReasonManualDeletion)
}

// purge runs the per-candidate pipeline: ledger first, then scans, then
// the row, then the audit scrub. Steps already completed are not rolled
// back on a later failure; a ledger entry for an attempted deletion is
// preferable to silent loss.
func (s *Service) purge(ctx context.Context, check rtw.Check, actor Actor, reason string) error {
	entry := DeletedEntry{
		CheckID:         check.ID,
		FullName:        check.FullName,
		EmploymentStart: check.EmploymentStartDate,
		EmploymentEnd:   check.EmploymentEndDate,
		DeletionDue:     check.DeletionDueDate,
		DeletedAt:       s.now(),
		DeletedBy:       actor.Display(),
		Reason:          reason,
	}
	if err := s.ledger.Insert(ctx, entry); err != nil {
		return fmt.Errorf("ledger entry: %w", err)
	}
	if err := s.scans.DeleteAllForCheck(ctx, check.ID); err != nil {
		return fmt.Errorf("delete scans: %w", err)
	}
	if err := s.checks.Delete(ctx, check.ID); err != nil {
		if errors.Is(err, rtw.ErrCheckNotFound) {
			return err
		}
		return fmt.Errorf("delete check: %w", err)
	}
	if err := s.scrubber.ScrubCheck(ctx, check.ID); err != nil {
		return fmt.Errorf("scrub audit history: %w", err)
	}
	return nil
}
