package services

import (
	"fmt"
	"time"

	"spabliss-backend/models"

	"gorm.io/gorm"
)

// NextInvoiceNumber allocates the next number for now's calendar month, format
// INV-YYYYMM-NNNN. The per-month counter row is bumped in place, so two invoices
// written in the same transaction scope can never draw the same number.
func NextInvoiceNumber(tx *gorm.DB, now time.Time) (string, error) {
	ym := now.Format("200601")

	res := tx.Model(&models.InvoiceSequence{}).
		Where("year_month = ?", ym).
		UpdateColumn("last_value", gorm.Expr("last_value + 1"))
	if res.Error != nil {
		return "", res.Error
	}

	if res.RowsAffected == 0 {
		seq := models.InvoiceSequence{YearMonth: ym, LastValue: 1}
		if err := tx.Create(&seq).Error; err != nil {
			// Lost the first-of-the-month creation race; bump the row that won.
			if err2 := tx.Model(&models.InvoiceSequence{}).
				Where("year_month = ?", ym).
				UpdateColumn("last_value", gorm.Expr("last_value + 1")).Error; err2 != nil {
				return "", err
			}
		}
	}

	var seq models.InvoiceSequence
	if err := tx.Where("year_month = ?", ym).First(&seq).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("INV-%s-%04d", ym, seq.LastValue), nil
}

// EnsureInvoiceNumber assigns a number only when the invoice does not already
// carry one; re-saving a numbered invoice is a no-op.
func EnsureInvoiceNumber(tx *gorm.DB, invoice *models.Invoice, now time.Time) error {
	if invoice.InvoiceNumber != "" {
		return nil
	}
	number, err := NextInvoiceNumber(tx, now)
	if err != nil {
		return err
	}
	invoice.InvoiceNumber = number
	return nil
}
