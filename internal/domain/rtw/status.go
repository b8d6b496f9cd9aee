package rtw

import "time"

// DayOf strips the time-of-day component so comparisons happen at day
// granularity regardless of the zone the value was parsed in.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	day := DayOf(*t)
	return &day
}

// Classify returns the compliance status of a check as of today. It is a
// total function: every well-formed check maps to exactly one status.
// The branch order is load-bearing; an overdue follow-up must win over a
// future expiry, and pending deletion trumps everything except a check
// still waiting on onboarding.
func Classify(check Check, today time.Time) Status {
	day := DayOf(today)
	horizon := day.AddDate(0, 0, WarningWindowDays)

	if check.OnboardingRef != "" && check.CheckDate == nil {
		return StatusPendingOnboarding
	}
	if due := dayPtr(check.DeletionDueDate); due != nil && !due.After(day) {
		return StatusPendingDeletion
	}
	expiry := dayPtr(check.ExpiryDate)
	if expiry != nil && expiry.Before(day) {
		return StatusExpired
	}
	if followUp := dayPtr(check.FollowUpDate); followUp != nil {
		if followUp.Before(day) {
			return StatusFollowUpOverdue
		}
		if !followUp.After(horizon) {
			return StatusFollowUpDue
		}
	}
	if expiry != nil && !expiry.After(horizon) {
		return StatusExpiringSoon
	}
	return StatusValid
}
