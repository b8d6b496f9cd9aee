package notifications

import (
	"context"
	"strings"
	"testing"
	"time"

	"rtw/internal/domain/rtw"
)

var genToday = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

type memAlertStore struct {
	alerts []Notification
}

func (m *memAlertStore) HasUndismissed(ctx context.Context, checkID, titlePrefix string) (bool, error) {
	for _, n := range m.alerts {
		if n.CheckID == checkID && n.DismissedAt == nil && strings.HasPrefix(n.Title, titlePrefix) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAlertStore) Insert(ctx context.Context, n Notification) error {
	m.alerts = append(m.alerts, n)
	return nil
}

type staticChecks []rtw.Check

func (s staticChecks) ListActive(ctx context.Context) ([]rtw.Check, error) {
	return s, nil
}

func genDays(n int) *time.Time {
	d := rtw.DayOf(genToday).AddDate(0, 0, n)
	return &d
}

func newGen(checks []rtw.Check, store *memAlertStore) *Generator {
	g := NewGenerator(staticChecks(checks), store, nil)
	g.now = func() time.Time { return genToday }
	return g
}

func TestGenerateExpiredAlert(t *testing.T) {
	store := &memAlertStore{}
	check := rtw.Check{ID: "c1", FullName: "Ada Lovelace", ExpiryDate: genDays(-1)}
	gen := newGen([]rtw.Check{check}, store)

	created, err := gen.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != 1 || len(store.alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(store.alerts))
	}
	n := store.alerts[0]
	if n.Severity != SeverityUrgent {
		t.Fatalf("expected urgent severity, got %s", n.Severity)
	}
	if !strings.HasPrefix(n.Title, TitlePrefix(CategoryExpired)) {
		t.Fatalf("unexpected title %q", n.Title)
	}
	if n.SourceApp != SourceApp {
		t.Fatalf("unexpected source app %q", n.SourceApp)
	}
	if n.ActionURL != "/checks/c1" {
		t.Fatalf("unexpected action url %q", n.ActionURL)
	}
}

func TestGenerateDeduplicates(t *testing.T) {
	store := &memAlertStore{}
	checks := []rtw.Check{
		{ID: "c1", FullName: "Ada Lovelace", ExpiryDate: genDays(-1)},
		{ID: "c2", FullName: "Grace Hopper", FollowUpDate: genDays(10)},
	}
	gen := newGen(checks, store)

	if _, err := gen.Run(context.Background()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	first := len(store.alerts)

	created, err := gen.Run(context.Background())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if created != 0 {
		t.Fatalf("expected no new alerts on unchanged input, created %d", created)
	}
	if len(store.alerts) != first {
		t.Fatalf("undismissed alert count grew from %d to %d", first, len(store.alerts))
	}
}

func TestGenerateAfterDismissal(t *testing.T) {
	store := &memAlertStore{}
	check := rtw.Check{ID: "c1", FullName: "Ada Lovelace", ExpiryDate: genDays(-1)}
	gen := newGen([]rtw.Check{check}, store)

	if _, err := gen.Run(context.Background()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	dismissed := genToday
	store.alerts[0].DismissedAt = &dismissed

	created, err := gen.Run(context.Background())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if created != 1 {
		t.Fatalf("expected a fresh alert after dismissal, created %d", created)
	}
}

func TestEvaluateCategoryGuards(t *testing.T) {
	cases := []struct {
		name  string
		check rtw.Check
		want  []Category
	}{
		{
			"pending deletion suppresses everything",
			rtw.Check{DeletionDueDate: genDays(0), EmploymentEndDate: genDays(-730), ExpiryDate: genDays(-1), FollowUpDate: genDays(-2)},
			[]Category{CategoryPendingDeletion},
		},
		{
			"expired suppresses follow-up alerts",
			rtw.Check{ExpiryDate: genDays(-1), FollowUpDate: genDays(-3)},
			[]Category{CategoryExpired},
		},
		{
			"follow-up overdue with future expiry",
			rtw.Check{FollowUpDate: genDays(-3), ExpiryDate: genDays(60)},
			[]Category{CategoryFollowUpOverdue},
		},
		{
			"follow-up due soon",
			rtw.Check{FollowUpDate: genDays(10)},
			[]Category{CategoryFollowUpDue},
		},
		{
			"expiry soon without follow-up",
			rtw.Check{ExpiryDate: genDays(14)},
			[]Category{CategoryExpiringSoon},
		},
		{
			"follow-up in window suppresses expiring soon",
			rtw.Check{ExpiryDate: genDays(14), FollowUpDate: genDays(7)},
			[]Category{CategoryFollowUpDue},
		},
		{
			"nothing due",
			rtw.Check{ExpiryDate: genDays(90)},
			nil,
		},
	}

	for _, tc := range cases {
		alerts := evaluate(tc.check, genToday)
		if len(alerts) != len(tc.want) {
			t.Fatalf("%s: expected %d alerts, got %d", tc.name, len(tc.want), len(alerts))
		}
		for i, a := range alerts {
			if a.category != tc.want[i] {
				t.Fatalf("%s: expected category %s, got %s", tc.name, tc.want[i], a.category)
			}
		}
	}
}

func TestEvaluateWindowEdges(t *testing.T) {
	// Day 28 is inside the window, day 29 is outside.
	alerts := evaluate(rtw.Check{FollowUpDate: genDays(28)}, genToday)
	if len(alerts) != 1 || alerts[0].category != CategoryFollowUpDue {
		t.Fatalf("expected follow_up_due on window edge, got %+v", alerts)
	}
	if alerts := evaluate(rtw.Check{FollowUpDate: genDays(29)}, genToday); len(alerts) != 0 {
		t.Fatalf("expected no alert beyond window, got %+v", alerts)
	}
	// Expiry today is expiring soon, not expired.
	alerts = evaluate(rtw.Check{ExpiryDate: genDays(0)}, genToday)
	if len(alerts) != 1 || alerts[0].category != CategoryExpiringSoon {
		t.Fatalf("expected expiring_soon for same-day expiry, got %+v", alerts)
	}
}
