package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rtw/internal/domain/rtw"
)

// CheckSource is the slice of the record store the generator reads.
type CheckSource interface {
	ListActive(ctx context.Context) ([]rtw.Check, error)
}

// AlertStore is the notification sink with the duplicate check the
// generator relies on.
type AlertStore interface {
	HasUndismissed(ctx context.Context, checkID, titlePrefix string) (bool, error)
	Insert(ctx context.Context, n Notification) error
}

type Metrics interface {
	AlertsCreated(n int)
}

type alert struct {
	category Category
	severity Severity
	message  string
}

// evaluate applies the five threshold rules to one check. The guard
// clauses mirror the status classifier's precedence: a pending deletion
// suppresses everything else, an expired check suppresses follow-up
// alerts, and an expiry inside the window only alerts when no follow-up
// falls in that same window.
func evaluate(check rtw.Check, today time.Time) []alert {
	day := rtw.DayOf(today)
	horizon := day.AddDate(0, 0, rtw.WarningWindowDays)

	var deletionDue, expiry, followUp *time.Time
	if check.DeletionDueDate != nil {
		d := rtw.DayOf(*check.DeletionDueDate)
		deletionDue = &d
	}
	if check.ExpiryDate != nil {
		d := rtw.DayOf(*check.ExpiryDate)
		expiry = &d
	}
	if check.FollowUpDate != nil {
		d := rtw.DayOf(*check.FollowUpDate)
		followUp = &d
	}

	pendingDeletion := deletionDue != nil && !deletionDue.After(day)
	expired := expiry != nil && expiry.Before(day)
	followUpOverdue := followUp != nil && followUp.Before(day)
	followUpInWindow := followUp != nil && !followUp.Before(day) && !followUp.After(horizon)
	expiryInWindow := expiry != nil && !expiry.Before(day) && !expiry.After(horizon)

	var out []alert
	if pendingDeletion {
		out = append(out, alert{
			category: CategoryPendingDeletion,
			severity: SeverityUrgent,
			message:  fmt.Sprintf("The record for %s passed its GDPR deletion due date on %s and will be erased by the next retention sweep.", check.FullName, deletionDue.Format("2006-01-02")),
		})
	}
	if expired && !pendingDeletion {
		out = append(out, alert{
			category: CategoryExpired,
			severity: SeverityUrgent,
			message:  fmt.Sprintf("The right to work check for %s expired on %s. A new check is required.", check.FullName, expiry.Format("2006-01-02")),
		})
	}
	if followUpOverdue && !expired && !pendingDeletion {
		out = append(out, alert{
			category: CategoryFollowUpOverdue,
			severity: SeverityWarning,
			message:  fmt.Sprintf("The follow-up check for %s was due on %s and is now overdue.", check.FullName, followUp.Format("2006-01-02")),
		})
	}
	if followUpInWindow && !expired && !pendingDeletion {
		out = append(out, alert{
			category: CategoryFollowUpDue,
			severity: SeverityInfo,
			message:  fmt.Sprintf("A follow-up check for %s is due on %s.", check.FullName, followUp.Format("2006-01-02")),
		})
	}
	if expiryInWindow && !followUpInWindow && !pendingDeletion {
		out = append(out, alert{
			category: CategoryExpiringSoon,
			severity: SeverityWarning,
			message:  fmt.Sprintf("The right to work check for %s expires on %s.", check.FullName, expiry.Format("2006-01-02")),
		})
	}
	return out
}

type Generator struct {
	checks  CheckSource
	store   AlertStore
	metrics Metrics
	now     func() time.Time
}

func NewGenerator(checks CheckSource, store AlertStore, metrics Metrics) *Generator {
	return &Generator{checks: checks, store: store, metrics: metrics, now: time.Now}
}

// Run evaluates every active check and inserts any alerts not already
// present undismissed. Failures on one check are logged and do not stop
// the rest; only the initial listing is fatal. Returns the number of
// alerts created.
//
// The duplicate check is check-then-insert: two concurrent runs can both
// pass it and double-insert. Dismissal is idempotent, so duplicates are
// cosmetic.
func (g *Generator) Run(ctx context.Context) (int, error) {
	checks, err := g.checks.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active checks: %w", err)
	}

	today := g.now()
	created := 0
	for _, check := range checks {
		for _, a := range evaluate(check, today) {
			prefix := TitlePrefix(a.category)
			exists, err := g.store.HasUndismissed(ctx, check.ID, prefix)
			if err != nil {
				slog.Warn("alert duplicate check failed", "checkId", check.ID, "category", a.category, "err", err)
				continue
			}
			if exists {
				continue
			}
			n := Notification{
				SourceApp: SourceApp,
				Severity:  a.severity,
				Title:     prefix + check.FullName,
				Message:   a.message,
				ActionURL: "/checks/" + check.ID,
				CheckID:   check.ID,
			}
			if err := g.store.Insert(ctx, n); err != nil {
				slog.Warn("alert insert failed", "checkId", check.ID, "category", a.category, "err", err)
				continue
			}
			created++
		}
	}

	if g.metrics != nil {
		g.metrics.AlertsCreated(created)
	}
	slog.Info("alert generation finished", "checks", len(checks), "created", created)
	return created, nil
}
