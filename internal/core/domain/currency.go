package domain

// Currency represents a supported currency in the domain. The supported
// set is the allow-list the API boundary validates conversion targets
// against; the conversion engine itself assumes well-formed codes.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol       string `json:"symbol"`       // e.g., "$"
	Name         string `json:"name"`         // e.g., "US Dollar"
	Precision    int16  `json:"precision"`    // Display decimal places
	AuditFields
}
