package domain

import "time"

// User represents a user of the application in the domain.
// CurrencyCode is the currency every monetary record of the user is
// denominated in; it only changes through a completed conversion.
type User struct {
	UserID       string `json:"userID"` // Primary Key (e.g., UUID)
	Name         string `json:"name"`
	CurrencyCode string `json:"currencyCode"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"` // Used for soft delete
}
