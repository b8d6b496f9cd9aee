package rtw

import "time"

// Check is a single Right to Work record. Optional date fields are nil
// when unset; all dates are day-granularity.
type Check struct {
	ID                   string            `json:"id"`
	FullName             string            `json:"fullName"`
	DateOfBirth          *time.Time        `json:"dateOfBirth,omitempty"`
	CheckDate            *time.Time        `json:"checkDate,omitempty"`
	CheckType            string            `json:"checkType"`
	CheckMethod          string            `json:"checkMethod"`
	ShareCode            string            `json:"shareCode,omitempty"`
	IDSPProvider         string            `json:"idspProvider,omitempty"`
	DocumentTokens       []string          `json:"documentTokens,omitempty"`
	VerificationAnswers  map[string]string `json:"verificationAnswers,omitempty"`
	DeclarationConfirmed bool              `json:"declarationConfirmed"`
	DeclaredBy           string            `json:"declaredBy,omitempty"`
	Notes                string            `json:"notes,omitempty"`
	ScanPath             string            `json:"scanPath,omitempty"`
	ScanFilename         string            `json:"scanFilename,omitempty"`
	ExpiryDate           *time.Time        `json:"expiryDate,omitempty"`
	FollowUpDate         *time.Time        `json:"followUpDate,omitempty"`
	EmploymentStartDate  *time.Time        `json:"employmentStartDate,omitempty"`
	EmploymentEndDate    *time.Time        `json:"employmentEndDate,omitempty"`
	DeletionDueDate      *time.Time        `json:"deletionDueDate,omitempty"`
	Status               Status            `json:"status"`
	OnboardingRef        string            `json:"onboardingRef,omitempty"`
	CreatedBy            string            `json:"createdBy,omitempty"`
	CreatedAt            time.Time         `json:"createdAt"`
	UpdatedAt            time.Time         `json:"updatedAt"`
}
