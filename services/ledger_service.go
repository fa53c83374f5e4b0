package services

import (
	"errors"
	"time"

	"spabliss-backend/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LedgerService owns every mutation of Customer.RemainingHours. Each business
// operation runs in a single transaction: the balance change and its invoice
// commit together or not at all, and decrements are guarded in the UPDATE
// itself so a balance can never go negative, even under concurrent requests.
type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

type SignupInput struct {
	Name           string
	Age            int
	Phone          string
	SubscriptionID uuid.UUID
	CreatedBy      string
}

// SignupCustomer creates a customer on a plan, seeds the balance with the
// plan's validity hours and writes the purchase invoice.
func (s *LedgerService) SignupCustomer(in SignupInput) (*models.Customer, *models.Invoice, error) {
	var customer models.Customer
	var invoice models.Invoice

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var plan models.Subscription
		if err := tx.First(&plan, "id = ?", in.SubscriptionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubscriptionNotFound
			}
			return err
		}

		var existing models.Customer
		if err := tx.Where("phone = ?", in.Phone).First(&existing).Error; err == nil {
			return ErrPhoneTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		customer = models.Customer{
			ID:             uuid.New(),
			Name:           in.Name,
			Age:            in.Age,
			Phone:          in.Phone,
			SubscriptionID: &plan.ID,
			RemainingHours: plan.ValidityHours,
			Status:         models.CustomerActive,
		}
		if err := tx.Create(&customer).Error; err != nil {
			return err
		}

		invoice = s.subscriptionInvoice(&customer, &plan, in.CreatedBy)
		if err := EnsureInvoiceNumber(tx, &invoice, time.Now()); err != nil {
			return err
		}
		return tx.Create(&invoice).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &customer, &invoice, nil
}

// RenewSubscription adds the plan's validity hours onto the existing balance
// (never a reset, unlike signup) and reactivates the customer.
func (s *LedgerService) RenewSubscription(customerID, subscriptionID uuid.UUID, createdBy string) (*models.Customer, *models.Invoice, error) {
	var customer models.Customer
	var invoice models.Invoice

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&customer, "id = ?", customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		var plan models.Subscription
		if err := tx.First(&plan, "id = ?", subscriptionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubscriptionNotFound
			}
			return err
		}

		if err := tx.Model(&models.Customer{}).Where("id = ?", customer.ID).
			Updates(map[string]interface{}{
				"subscription_id": plan.ID,
				"remaining_hours": gorm.Expr("remaining_hours + ?", plan.ValidityHours),
				"status":          models.CustomerActive,
			}).Error; err != nil {
			return err
		}

		if err := tx.First(&customer, "id = ?", customer.ID).Error; err != nil {
			return err
		}

		invoice = s.subscriptionInvoice(&customer, &plan, createdBy)
		if err := EnsureInvoiceNumber(tx, &invoice, time.Now()); err != nil {
			return err
		}
		return tx.Create(&invoice).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &customer, &invoice, nil
}

func (s *LedgerService) subscriptionInvoice(customer *models.Customer, plan *models.Subscription, createdBy string) models.Invoice {
	return models.Invoice{
		ID:             uuid.New(),
		CustomerID:     customer.ID,
		CustomerName:   customer.Name,
		ServiceType:    plan.Name,
		HoursUsed:      plan.ValidityHours,
		ServiceDate:    time.Now(),
		ModeOfPayment:  "Subscription",
		PaidAmount:     plan.Price,
		Status:         models.InvoicePaid,
		SubscriptionID: &plan.ID,
		CreatedBy:      createdBy,
	}
}

type UsageInput struct {
	CustomerID  uuid.UUID
	ServiceType string
	Hours       float64
	ServiceDate time.Time
	CreatedBy   string
}

// UseServiceHours consumes hours from the balance in exchange for a service.
// Overuse is rejected up front; nothing is mutated and no invoice is written
// on a rejected request.
func (s *LedgerService) UseServiceHours(in UsageInput) (*models.Customer, *models.Invoice, error) {
	if in.Hours <= 0 {
		return nil, nil, ErrInvalidHours
	}

	var customer models.Customer
	var invoice models.Invoice

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&customer, "id = ?", in.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		if in.Hours > customer.RemainingHours {
			return ErrInsufficientHours
		}

		// Conditional decrement: a concurrent request that drained the balance
		// first makes this a no-op instead of driving the balance negative.
		res := tx.Model(&models.Customer{}).
			Where("id = ? AND remaining_hours >= ?", customer.ID, in.Hours).
			UpdateColumn("remaining_hours", gorm.Expr("remaining_hours - ?", in.Hours))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientHours
		}

		if err := tx.First(&customer, "id = ?", customer.ID).Error; err != nil {
			return err
		}
		if customer.RemainingHours == 0 {
			customer.Status = models.CustomerExpired
			if err := tx.Model(&models.Customer{}).Where("id = ?", customer.ID).
				Update("status", models.CustomerExpired).Error; err != nil {
				return err
			}
		}

		serviceDate := in.ServiceDate
		if serviceDate.IsZero() {
			serviceDate = time.Now()
		}

		invoice = models.Invoice{
			ID:            uuid.New(),
			CustomerID:    customer.ID,
			CustomerName:  customer.Name,
			ServiceType:   in.ServiceType,
			HoursUsed:     in.Hours,
			ServiceDate:   serviceDate,
			ModeOfPayment: "Subscription",
			PaidAmount:    0,
			Status:        models.InvoicePaid,
			CreatedBy:     in.CreatedBy,
		}
		if err := EnsureInvoiceNumber(tx, &invoice, time.Now()); err != nil {
			return err
		}
		return tx.Create(&invoice).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &customer, &invoice, nil
}

// DeleteInvoice removes an invoice and hands its hours back to the customer.
// A customer deleted in the meantime just loses the restoration; the invoice
// is still removed.
func (s *LedgerService) DeleteInvoice(invoiceID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.First(&invoice, "id = ?", invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return err
		}

		var customer models.Customer
		err := tx.First(&customer, "id = ?", invoice.CustomerID).Error
		switch {
		case err == nil:
			if err := tx.Model(&models.Customer{}).Where("id = ?", customer.ID).
				UpdateColumn("remaining_hours", gorm.Expr("remaining_hours + ?", invoice.HoursUsed)).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			logrus.WithFields(logrus.Fields{
				"invoice":  invoice.InvoiceNumber,
				"customer": invoice.CustomerID,
				"hours":    invoice.HoursUsed,
			}).Warn("Customer gone, skipping hour restoration")
		default:
			return err
		}

		return tx.Delete(&invoice).Error
	})
}

// InvoiceUpdate carries the editable invoice fields; nil means unchanged.
type InvoiceUpdate struct {
	ServiceType   *string
	HoursUsed     *float64
	ServiceDate   *time.Time
	ModeOfPayment *string
	Status        *string
	PaidAmount    *float64
	TaxAmount     *float64
	Notes         *string
}

// UpdateInvoice edits an invoice. A change to HoursUsed is reconciled against
// the customer's balance (restore old, deduct new) under the same overuse
// policy as usage: the edit is refused rather than the balance clamped.
func (s *LedgerService) UpdateInvoice(invoiceID uuid.UUID, in InvoiceUpdate) (*models.Invoice, error) {
	var invoice models.Invoice

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&invoice, "id = ?", invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return err
		}

		if in.HoursUsed != nil && *in.HoursUsed != invoice.HoursUsed {
			if *in.HoursUsed < 0 {
				return ErrInvalidHours
			}
			if err := s.reconcileHours(tx, &invoice, *in.HoursUsed); err != nil {
				return err
			}
			invoice.HoursUsed = *in.HoursUsed
		}

		if in.ServiceType != nil {
			invoice.ServiceType = *in.ServiceType
		}
		if in.ServiceDate != nil {
			invoice.ServiceDate = *in.ServiceDate
		}
		if in.ModeOfPayment != nil {
			invoice.ModeOfPayment = *in.ModeOfPayment
		}
		if in.Status != nil {
			invoice.Status = *in.Status
		}
		if in.PaidAmount != nil {
			invoice.PaidAmount = *in.PaidAmount
		}
		if in.TaxAmount != nil {
			invoice.TaxAmount = *in.TaxAmount
		}
		if in.Notes != nil {
			invoice.Notes = *in.Notes
		}

		return tx.Save(&invoice).Error
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// reconcileHours applies the net balance adjustment oldHours - newHours.
func (s *LedgerService) reconcileHours(tx *gorm.DB, invoice *models.Invoice, newHours float64) error {
	var customer models.Customer
	if err := tx.First(&customer, "id = ?", invoice.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithFields(logrus.Fields{
				"invoice":  invoice.InvoiceNumber,
				"customer": invoice.CustomerID,
			}).Warn("Customer gone, skipping hour reconciliation")
			return nil
		}
		return err
	}

	delta := invoice.HoursUsed - newHours
	if delta < 0 {
		res := tx.Model(&models.Customer{}).
			Where("id = ? AND remaining_hours >= ?", customer.ID, -delta).
			UpdateColumn("remaining_hours", gorm.Expr("remaining_hours - ?", -delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientHours
		}
	} else {
		if err := tx.Model(&models.Customer{}).Where("id = ?", customer.ID).
			UpdateColumn("remaining_hours", gorm.Expr("remaining_hours + ?", delta)).Error; err != nil {
			return err
		}
	}

	if err := tx.First(&customer, "id = ?", customer.ID).Error; err != nil {
		return err
	}
	if customer.RemainingHours == 0 && customer.Status == models.CustomerActive {
		return tx.Model(&models.Customer{}).Where("id = ?", customer.ID).
			Update("status", models.CustomerExpired).Error
	}
	return nil
}
