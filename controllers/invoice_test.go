package controllers

import (
	"net/http"
	"testing"
	"time"

	"spabliss-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseServiceEndpoint(t *testing.T) {
	db := setupTestDB(t)
	r := testRouter()
	plan := seedSubscription(t, db, "Basic", 10, 500)
	alice := signupCustomer(t, r, "Alice", "9876543210", plan)

	w := doJSON(t, r, http.MethodPost, "/api/invoices/use", gin.H{
		"customerId": alice.ID, "serviceType": "Swedish Massage", "hoursUsed": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var reloaded models.Customer
	require.NoError(t, db.First(&reloaded, "id = ?", alice.ID).Error)
	assert.Equal(t, 6.0, reloaded.RemainingHours)

	// Overuse is rejected without touching anything.
	w = doJSON(t, r, http.MethodPost, "/api/invoices/use", gin.H{
		"customerId": alice.ID, "serviceType": "Hot Stone", "hoursUsed": 10,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.NoError(t, db.First(&reloaded, "id = ?", alice.ID).Error)
	assert.Equal(t, 6.0, reloaded.RemainingHours)
}

func TestAddInvoiceManual(t *testing.T) {
	db := setupTestDB(t)
	r := testRouter()
	plan := seedSubscription(t, db, "Basic", 10, 500)
	alice := signupCustomer(t, r, "Alice", "9876543210", plan)

	serviceDate := time.Now().Format(time.RFC3339)
	w := doJSON(t, r, http.MethodPost, "/api/invoices/add", gin.H{
		"customer":      alice.ID,
		"serviceType":   "Aromatherapy",
		"hoursUsed":     2,
		"serviceDate":   serviceDate,
		"modeOfPayment": "Cash",
		"status":        "paid",
		"paidAmount":    150,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "Alice", body["customerName"])
	assert.NotEmpty(t, body["invoiceNumber"])

	// Manual entry does not touch the balance.
	var reloaded models.Customer
	require.NoError(t, db.First(&reloaded, "id = ?", alice.ID).Error)
	assert.Equal(t, 10.0, reloaded.RemainingHours)
}

func TestAddInvoiceRejectsBadEnums(t *testing.T) {
	db := setupTestDB(t)
	r := testRouter()
	plan := seedSubscription(t, db, "Basic", 10, 500)
	alice := signupCustomer(t, r, "Alice", "9876543210", plan)

	serviceDate := time.Now().Format(time.RFC3339)
	w := doJSON(t, r, http.MethodPost, "/api/invoices/add", gin.H{
		"customer": alice.ID, "serviceType": "Aromatherapy", "hoursUsed": 2,
		"serviceDate": serviceDate, "modeOfPayment": "Barter", "status": "paid",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/invoices/add", gin.H{
		"customer": alice.ID, "serviceType": "Aromatherapy", "hoursUsed": 2,
		"serviceDate": serviceDate, "modeOfPayment": "Cash", "status": "settled",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetInvoicesFilters(t *testing.T) {
	db := setupTestDB(t)
	r := testRouter()
	plan := seedSubscription(t, db, "Basic", 10, 500)
	alice := signupCustomer(t, r, "Alice", "9876543210", plan)

	serviceDate := time.Now().Format(time.RFC3339)
	w := doJSON(t, r, http.MethodPost, "/api/invoices/add", gin.H{
		"customer": alice.ID, "serviceType": "Aromatherapy", "hoursUsed": 2,
		"serviceDate": serviceDate, "modeOfPayment": "Cash", "status": "pending",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Signup already wrote one paid Subscription invoice.
	w = doJSON(t, r, http.MethodGet, "/api/invoices?status=pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["invoices"].([]interface{}), 1)

	w = doJSON(t, r, http.MethodGet, "/api/invoices?paymentMode=Subscription", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Len(t, body["invoices"].([]interface{}), 1)

	w = doJSON(t, r, http.MethodGet, "/api/invoices", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Len(t, body["invoices"].([]interface{}), 2)

	today := time.Now().Format("2006-01-02")
	w = doJSON(t, r, http.MethodGet, "/api/invoices?dateFrom="+today, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Len(t, body["invoices"].([]interface{}), 2)

	// dateTo cuts off at midnight of the named day, so today's invoices need
	// tomorrow's date to show up.
	w = doJSON(t, r, http.MethodGet, "/api/invoices?dateTo="+today, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Empty(t, body["invoices"])

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	w = doJSON(t, r, http.MethodGet, "/api/invoices?dateTo="+tomorrow, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Len(t, body["invoices"].([]interface{}), 2)
}

func TestSearchInvoices(t *testing.T) {
	db := setupTestDB(t)
	r := testRouter()
	plan := seedSubscription(t, db, "Basic", 10, 500)
	alice := signupCustomer(t, r, "Alice", "9876543210", plan)
	_ = alice

	// By live customer name
	w := doJSON(t, r, http.MethodGet, "/api/invoices/search?query=alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["invoices"].([]interface{}), 1)

	// By invoice number prefix
	w = doJSON(t, r, http.MethodGet, "/api/invoices/search?query=INV-", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Len(t, body["invoices"].([]interface{}), 1)

	// By exact paid amount
	w = doJSON(t, r, http.MethodGet, "/api/invoices/search?query=500", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Len(t, body["invoices"].([]interface{}), 1)

	// Stored customer name still matches after the customer is gone
	require.NoError(t, db.Delete(&models.Customer{}, "id = ?", alice.ID).Error)
	w = doJSON(t, r, http.MethodGet, "/api/invoices/search?query=alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Len(t, body["invoices"].([]interface{}), 1)
}

func TestDeleteInvoiceEndpointRestoresHours(t *testing.T) {
	db := setupTestDB(t)
	r := testRouter()
	plan := seedSubscription(t, db, "Basic", 10, 500)
	alice := signupCustomer(t, r, "Alice", "9876543210", plan)

	w := doJSON(t, r, http.MethodPost, "/api/invoices/use", gin.H{
		"customerId": alice.ID, "serviceType": "Swedish Massage", "hoursUsed": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var usage models.Invoice
	require.NoError(t, db.First(&usage, "service_type = ?", "Swedish Massage").Error)

	w = doJSON(t, r, http.MethodDelete, "/api/invoices/"+usage.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Customer
	require.NoError(t, db.First(&reloaded, "id = ?", alice.ID).Error)
	assert.Equal(t, 10.0, reloaded.RemainingHours)
}

func TestUpdateInvoiceEndpointReconciles(t *testing.T) {
	db := setupTestDB(t)
	r := testRouter()
	plan := seedSubscription(t, db, "Basic", 10, 500)
	alice := signupCustomer(t, r, "Alice", "9876543210", plan)

	w := doJSON(t, r, http.MethodPost, "/api/invoices/use", gin.H{
		"customerId": alice.ID, "serviceType": "Swedish Massage", "hoursUsed": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var usage models.Invoice
	require.NoError(t, db.First(&usage, "service_type = ?", "Swedish Massage").Error)

	w = doJSON(t, r, http.MethodPut, "/api/invoices/update/"+usage.ID.String(), gin.H{
		"hoursUsed": 1,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reloaded models.Customer
	require.NoError(t, db.First(&reloaded, "id = ?", alice.ID).Error)
	assert.Equal(t, 9.0, reloaded.RemainingHours)
}
