package rtw

// Status is the denormalized compliance state of a check. Classification
// precedence is fixed; see Classify.
type Status string

const (
	StatusValid             Status = "valid"
	StatusFollowUpDue       Status = "follow_up_due"
	StatusFollowUpOverdue   Status = "follow_up_overdue"
	StatusExpiringSoon      Status = "expiring_soon"
	StatusExpired           Status = "expired"
	StatusPendingDeletion   Status = "pending_deletion"
	StatusPendingOnboarding Status = "pending_onboarding"
)

const (
	CheckTypeInitial  = "initial"
	CheckTypeFollowUp = "follow_up"
)

const (
	CheckMethodManual = "manual"
	CheckMethodIDSP   = "idsp"
	CheckMethodOnline = "online"
)

// WarningWindowDays is the fixed look-ahead for due-soon classification
// and alerting. The window is inclusive of today+28.
const WarningWindowDays = 28

// RetentionYears is the statutory retention period beyond the end of
// employment.
const RetentionYears = 2
