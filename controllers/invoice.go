// controllers/invoice.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"spabliss-backend/config"
	"spabliss-backend/models"
	"spabliss-backend/services"
	"spabliss-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AddInvoiceInput defines the expected JSON structure for a staff-recorded invoice
type AddInvoiceInput struct {
	Customer      uuid.UUID  `json:"customer" binding:"required"`
	CustomerName  string     `json:"customerName"`
	ServiceType   string     `json:"serviceType" binding:"required"`
	HoursUsed     float64    `json:"hoursUsed" binding:"required,min=0"`
	ServiceDate   *time.Time `json:"serviceDate" binding:"required"`
	ModeOfPayment string     `json:"modeOfPayment" binding:"required"`
	Status        string     `json:"status" binding:"required"`
	PaidAmount    float64    `json:"paidAmount" binding:"min=0"`
	TaxAmount     float64    `json:"taxAmount" binding:"min=0"`
	Notes         string     `json:"notes"`
}

// UseServiceInput records service consumption against a customer's hour balance
type UseServiceInput struct {
	CustomerID  uuid.UUID  `json:"customerId" binding:"required"`
	ServiceType string     `json:"serviceType" binding:"required"`
	HoursUsed   float64    `json:"hoursUsed" binding:"required"`
	ServiceDate *time.Time `json:"serviceDate"`
}

// UpdateInvoiceInput defines the expected JSON structure for editing an invoice
type UpdateInvoiceInput struct {
	ServiceType   *string    `json:"serviceType"`
	HoursUsed     *float64   `json:"hoursUsed"`
	ServiceDate   *time.Time `json:"serviceDate"`
	ModeOfPayment *string    `json:"modeOfPayment"`
	Status        *string    `json:"status"`
	PaidAmount    *float64   `json:"paidAmount" binding:"omitempty,min=0"`
	TaxAmount     *float64   `json:"taxAmount" binding:"omitempty,min=0"`
	Notes         *string    `json:"notes"`
}

// GetInvoices lists invoices with optional status, payment mode and date filters
func GetInvoices(c *gin.Context) {
	db := config.DB.Model(&models.Invoice{})

	if status := c.Query("status"); status != "" && status != "all" {
		db = db.Where("status = ?", status)
	}
	if mode := c.Query("paymentMode"); mode != "" && mode != "all" {
		db = db.Where("mode_of_payment = ?", mode)
	}
	if from := c.Query("dateFrom"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			db = db.Where("service_date >= ?", utils.BeginningOfDay(t))
		}
	}
	// dateTo is inclusive only up to midnight of the named day.
	if to := c.Query("dateTo"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			db = db.Where("service_date <= ?", utils.BeginningOfDay(t))
		}
	}

	var invoices []models.Invoice
	if err := db.Order("service_date DESC").Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error fetching invoices")
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

// AddInvoice records a manual invoice. The customer may already be deleted;
// the supplied customerName keeps the record displayable.
func AddInvoice(c *gin.Context) {
	var input AddInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Missing required fields")
		return
	}

	if !models.ValidPaymentMode(input.ModeOfPayment) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment mode")
		return
	}
	if !models.ValidInvoiceStatus(input.Status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice status")
		return
	}

	customerName := input.CustomerName
	var customer models.Customer
	if err := config.DB.Select("name").First(&customer, "id = ?", input.Customer).Error; err == nil {
		customerName = customer.Name
	} else if customerName == "" {
		customerName = "Deleted Customer"
	}

	invoice := models.Invoice{
		ID:            uuid.New(),
		CustomerID:    input.Customer,
		CustomerName:  customerName,
		ServiceType:   input.ServiceType,
		HoursUsed:     input.HoursUsed,
		ServiceDate:   *input.ServiceDate,
		ModeOfPayment: input.ModeOfPayment,
		Status:        input.Status,
		PaidAmount:    input.PaidAmount,
		TaxAmount:     input.TaxAmount,
		Notes:         input.Notes,
		CreatedBy:     contextUserID(c),
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := services.EnsureInvoiceNumber(tx, &invoice, time.Now()); err != nil {
			return err
		}
		return tx.Create(&invoice).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// UseService consumes hours from the customer's balance and writes the usage invoice
func UseService(c *gin.Context) {
	var input UseServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	serviceDate := time.Time{}
	if input.ServiceDate != nil {
		serviceDate = *input.ServiceDate
	}

	ledger := services.NewLedgerService(config.DB)
	customer, invoice, err := ledger.UseServiceHours(services.UsageInput{
		CustomerID:  input.CustomerID,
		ServiceType: input.ServiceType,
		Hours:       input.HoursUsed,
		ServiceDate: serviceDate,
		CreatedBy:   contextUserID(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCustomerNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		case errors.Is(err, services.ErrInvalidHours):
			utils.RespondWithError(c, http.StatusBadRequest, "Hours must be greater than zero")
		case errors.Is(err, services.ErrInsufficientHours):
			utils.RespondWithError(c, http.StatusBadRequest, "Insufficient remaining hours")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record service usage")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Service recorded and invoice generated",
		"customer": customer,
		"invoice":  invoice,
	})
}

// SearchInvoices matches customer name (live or stored), invoice number
// substring, and exact paid amount for numeric queries
func SearchInvoices(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Search query is required")
		return
	}

	pattern := "%" + strings.ToLower(query) + "%"
	customerIDs := config.DB.Model(&models.Customer{}).
		Select("id").Where("LOWER(name) LIKE ?", pattern)

	db := config.DB.Where(
		"LOWER(customer_name) LIKE ? OR LOWER(invoice_number) LIKE ? OR customer_id IN (?)",
		pattern, pattern, customerIDs,
	)
	if amount, err := strconv.ParseFloat(query, 64); err == nil {
		db = db.Or("paid_amount = ?", amount)
	}

	var invoices []models.Invoice
	if err := db.Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

// DeleteInvoice removes an invoice and restores its hours to the customer
func DeleteInvoice(c *gin.Context) {
	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	ledger := services.NewLedgerService(config.DB)
	if err := ledger.DeleteInvoice(invoiceUUID); err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Error deleting invoice")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted & hours restored"})
}

// UpdateInvoice edits an invoice; hour changes are reconciled against the
// customer's balance
func UpdateInvoice(c *gin.Context) {
	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	var input UpdateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.ModeOfPayment != nil && !models.ValidPaymentMode(*input.ModeOfPayment) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment mode")
		return
	}
	if input.Status != nil && !models.ValidInvoiceStatus(*input.Status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice status")
		return
	}

	ledger := services.NewLedgerService(config.DB)
	invoice, err := ledger.UpdateInvoice(invoiceUUID, services.InvoiceUpdate{
		ServiceType:   input.ServiceType,
		HoursUsed:     input.HoursUsed,
		ServiceDate:   input.ServiceDate,
		ModeOfPayment: input.ModeOfPayment,
		Status:        input.Status,
		PaidAmount:    input.PaidAmount,
		TaxAmount:     input.TaxAmount,
		Notes:         input.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvoiceNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		case errors.Is(err, services.ErrInvalidHours):
			utils.RespondWithError(c, http.StatusBadRequest, "Hours must not be negative")
		case errors.Is(err, services.ErrInsufficientHours):
			utils.RespondWithError(c, http.StatusBadRequest, "Insufficient remaining hours for this change")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Error updating Invoice")
		}
		return
	}

	c.JSON(http.StatusOK, invoice)
}
