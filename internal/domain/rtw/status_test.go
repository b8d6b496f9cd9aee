package rtw

import (
	"testing"
	"time"
)

var testToday = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time {
	return &t
}

func days(n int) *time.Time {
	return datePtr(testToday.AddDate(0, 0, n))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		check Check
		want  Status
	}{
		{"no dates", Check{CheckDate: days(-30)}, StatusValid},
		{"follow-up in ten days", Check{CheckDate: days(-30), FollowUpDate: days(10)}, StatusFollowUpDue},
		{"follow-up on window edge", Check{FollowUpDate: days(28)}, StatusFollowUpDue},
		{"follow-up beyond window", Check{FollowUpDate: days(29)}, StatusValid},
		{"follow-up today", Check{FollowUpDate: days(0)}, StatusFollowUpDue},
		{"follow-up yesterday", Check{FollowUpDate: days(-1)}, StatusFollowUpOverdue},
		{"expiry yesterday", Check{ExpiryDate: days(-1)}, StatusExpired},
		{"expiry today", Check{ExpiryDate: days(0)}, StatusExpiringSoon},
		{"expiry on window edge", Check{ExpiryDate: days(28)}, StatusExpiringSoon},
		{"expiry beyond window", Check{ExpiryDate: days(29)}, StatusValid},
		{"deletion due today", Check{DeletionDueDate: days(0), EmploymentEndDate: days(-730)}, StatusPendingDeletion},
		{"deletion due in future", Check{DeletionDueDate: days(30), EmploymentEndDate: days(-700)}, StatusValid},
		{"onboarding without check date", Check{OnboardingRef: "ob-1", ExpiryDate: days(-5), DeletionDueDate: days(-1)}, StatusPendingOnboarding},
		{"onboarding with check date", Check{OnboardingRef: "ob-1", CheckDate: days(-3), ExpiryDate: days(-5)}, StatusExpired},
	}

	for _, tc := range cases {
		if got := Classify(tc.check, testToday); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestClassifyPrecedence(t *testing.T) {
	// An overdue follow-up must win over a future expiry.
	check := Check{FollowUpDate: days(-2), ExpiryDate: days(60)}
	if got := Classify(check, testToday); got != StatusFollowUpOverdue {
		t.Fatalf("expected follow_up_overdue, got %s", got)
	}

	// Expired wins over any follow-up state.
	check = Check{ExpiryDate: days(-1), FollowUpDate: days(-10)}
	if got := Classify(check, testToday); got != StatusExpired {
		t.Fatalf("expected expired, got %s", got)
	}

	// Pending deletion wins over expired.
	check = Check{DeletionDueDate: days(-5), EmploymentEndDate: days(-735), ExpiryDate: days(-1)}
	if got := Classify(check, testToday); got != StatusPendingDeletion {
		t.Fatalf("expected pending_deletion, got %s", got)
	}
}

func TestClassifyNormalizesTimeOfDay(t *testing.T) {
	lateToday := time.Date(2026, 3, 10, 23, 45, 0, 0, time.FixedZone("BST", 3600))
	followUp := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	check := Check{FollowUpDate: &followUp}
	if got := Classify(check, lateToday); got != StatusFollowUpDue {
		t.Fatalf("expected follow_up_due for same-day follow-up, got %s", got)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	check := Check{FollowUpDate: days(5), ExpiryDate: days(12)}
	first := Classify(check, testToday)
	for i := 0; i < 10; i++ {
		if got := Classify(check, testToday); got != first {
			t.Fatalf("classification not stable: %s then %s", first, got)
		}
	}
}
