package models

import (
	"time"
)

// User represents a row of the users table.
type User struct {
	UserID       string `db:"user_id"`
	Name         string `db:"name"`
	CurrencyCode string `db:"currency_code"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
