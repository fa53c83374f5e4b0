package models

import "time"

// InvoiceSequence is the per-month counter behind invoice numbers. One row per
// calendar month, bumped atomically inside the transaction that writes the invoice.
type InvoiceSequence struct {
	YearMonth string `gorm:"primary_key;type:varchar(6)"` // e.g. "202608"
	LastValue int64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
