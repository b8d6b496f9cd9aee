package rtw

import (
	"testing"
	"time"
)

func TestDeletionDueNil(t *testing.T) {
	if due := DeletionDue(nil); due != nil {
		t.Fatalf("expected nil due date, got %v", due)
	}
}

func TestDeletionDueTwoCalendarYears(t *testing.T) {
	end := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	due := DeletionDue(&end)
	if due == nil {
		t.Fatal("expected due date")
	}
	want := time.Date(2027, 6, 15, 0, 0, 0, 0, time.UTC)
	if !due.Equal(want) {
		t.Fatalf("expected %v, got %v", want, due)
	}
}

func TestDeletionDueLeapYear(t *testing.T) {
	end := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	due := DeletionDue(&end)
	// AddDate normalizes 29 Feb + 2y to 1 March 2026.
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !due.Equal(want) {
		t.Fatalf("expected %v, got %v", want, due)
	}
}

func TestDeletionDueStripsTimeOfDay(t *testing.T) {
	end := time.Date(2025, 1, 10, 17, 30, 0, 0, time.FixedZone("BST", 3600))
	due := DeletionDue(&end)
	want := time.Date(2027, 1, 10, 0, 0, 0, 0, time.UTC)
	if !due.Equal(want) {
		t.Fatalf("expected %v, got %v", want, due)
	}
}
