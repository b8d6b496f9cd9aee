package notifications

// SourceApp tags every alert this service writes.
const SourceApp = "rtw-checker"

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityUrgent  Severity = "urgent"
)

// Category identifies one of the five alert rules. The title prefix is
// what the duplicate check matches on, so it must stay stable once rows
// exist.
type Category string

const (
	CategoryPendingDeletion Category = "pending_deletion"
	CategoryExpired         Category = "expired"
	CategoryFollowUpOverdue Category = "follow_up_overdue"
	CategoryFollowUpDue     Category = "follow_up_due"
	CategoryExpiringSoon    Category = "expiring_soon"
)

var titlePrefixes = map[Category]string{
	CategoryPendingDeletion: "Deletion due: ",
	CategoryExpired:         "Check expired: ",
	CategoryFollowUpOverdue: "Follow-up overdue: ",
	CategoryFollowUpDue:     "Follow-up due: ",
	CategoryExpiringSoon:    "Expiring soon: ",
}

// TitlePrefix returns the stable per-category title prefix.
func TitlePrefix(category Category) string {
	return titlePrefixes[category]
}
