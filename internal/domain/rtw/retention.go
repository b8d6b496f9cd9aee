package rtw

import "time"

// DeletionDue returns the GDPR deletion due date for an employment end
// date: exactly two calendar years on, nil for nil. AddDate normalizes
// 29 February starts to 1 March in the target year.
func DeletionDue(employmentEnd *time.Time) *time.Time {
	if employmentEnd == nil {
		return nil
	}
	due := DayOf(*employmentEnd).AddDate(RetentionYears, 0, 0)
	return &due
}
