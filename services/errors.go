package services

import "errors"

// Business errors surfaced by the ledger. Controllers map these onto HTTP statuses.
var (
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrPhoneTaken           = errors.New("customer with this phone number already exists")
	ErrInvalidHours         = errors.New("hours must be greater than zero")
	ErrInsufficientHours    = errors.New("insufficient remaining hours")
)
