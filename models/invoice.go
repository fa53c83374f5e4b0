package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment modes accepted on an invoice.
var PaymentModes = []string{"Cash", "Card", "UPI", "Subscription", "Bank Transfer", "Cheque"}

// Invoice statuses.
const (
	InvoicePaid          = "paid"
	InvoicePending       = "pending"
	InvoicePartiallyPaid = "partially_paid"
	InvoiceCancelled     = "cancelled"
	InvoiceRefunded      = "refunded"
)

type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNumber string    `gorm:"uniqueIndex;not null" json:"invoiceNumber"`

	// Weak reference: the customer may be deleted while the invoice survives,
	// hence the redundant CustomerName for display.
	CustomerID   uuid.UUID `gorm:"type:uuid;index" json:"customerId"`
	CustomerName string    `json:"customerName"`

	ServiceType string    `gorm:"not null" json:"serviceType"`
	HoursUsed   float64   `gorm:"not null" json:"hoursUsed"`
	ServiceDate time.Time `json:"serviceDate"`

	PaidAmount float64 `gorm:"type:decimal(10,2);default:0" json:"paidAmount"`
	TaxAmount  float64 `gorm:"type:decimal(10,2);default:0" json:"taxAmount"`

	ModeOfPayment string `gorm:"not null" json:"modeOfPayment"`
	Status        string `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	// Set when the invoice originates from a subscription purchase or renewal.
	SubscriptionID *uuid.UUID `gorm:"type:uuid;index" json:"subscriptionId"`

	Notes     string    `json:"notes"`
	CreatedBy string    `json:"createdBy"` // employee who recorded the invoice
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

func ValidPaymentMode(mode string) bool {
	for _, m := range PaymentModes {
		if m == mode {
			return true
		}
	}
	return false
}

func ValidInvoiceStatus(status string) bool {
	switch status {
	case InvoicePaid, InvoicePending, InvoicePartiallyPaid, InvoiceCancelled, InvoiceRefunded:
		return true
	}
	return false
}
