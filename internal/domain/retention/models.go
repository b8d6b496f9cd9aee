package retention

import "time"

// Trigger distinguishes a scheduled sweep from one a manager started by
// hand; it decides the ledger reason and the fallback actor.
type Trigger string

const (
	TriggerAuto   Trigger = "auto"
	TriggerManual Trigger = "manual"
)

const (
	ReasonRetentionExpired = "GDPR retention period expired (auto)"
	ReasonManualDeletion   = "Manual deletion by manager"
)

// Actor is the principal a deletion is attributed to. The zero-ID actor
// is the autonomous system.
type Actor struct {
	ID    string
	Email string
}

func SystemActor() Actor {
	return Actor{}
}

func (a Actor) IsSystem() bool {
	return a.ID == ""
}

// Display is the value written to the ledger's deleted_by column.
func (a Actor) Display() string {
	if a.IsSystem() {
		return "system"
	}
	return a.Email
}

// DeletedEntry is the write-once GDPR ledger row proving a deletion
// happened, sufficient for audit without reconstructing the subject.
type DeletedEntry struct {
	ID              string     `json:"id"`
	CheckID         string     `json:"checkId"`
	FullName        string     `json:"fullName"`
	EmploymentStart *time.Time `json:"employmentStart,omitempty"`
	EmploymentEnd   *time.Time `json:"employmentEnd,omitempty"`
	DeletionDue     *time.Time `json:"deletionDue,omitempty"`
	DeletedAt       time.Time  `json:"deletedAt"`
	DeletedBy       string     `json:"deletedBy"`
	Reason          string     `json:"reason"`
}

// Report is the outcome of one sweep run. Errors holds one formatted
// "{name}: {cause}" entry per candidate that could not be fully purged.
type Report struct {
	DeletedNames []string `json:"deletedNames"`
	Errors       []string `json:"errors"`
}
