package notifications

import "time"

type Notification struct {
	ID          string     `json:"id"`
	SourceApp   string     `json:"sourceApp"`
	Severity    Severity   `json:"severity"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	ActionURL   string     `json:"actionUrl,omitempty"`
	CheckID     string     `json:"checkId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	DismissedAt *time.Time `json:"dismissedAt,omitempty"`
	DismissedBy string     `json:"dismissedBy,omitempty"`
}
