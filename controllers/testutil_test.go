package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spabliss-backend/config"
	"spabliss-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Subscription{},
		&models.Massage{},
		&models.Invoice{},
		&models.InvoiceSequence{},
		&models.ReminderLog{},
	))

	config.DB = db
	return db
}

// testRouter registers the API handlers without the auth middleware so tests
// exercise the handlers directly.
func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.POST("/api/customers", CreateCustomer)
	r.GET("/api/customers", GetCustomers)
	r.GET("/api/customers/search", SearchCustomers)
	r.GET("/api/customers/:id", GetCustomer)
	r.PUT("/api/customers/update/:id", UpdateCustomer)
	r.PUT("/api/customers/renew/:id", RenewCustomer)
	r.DELETE("/api/customers/delete/:id", DeleteCustomer)

	r.POST("/api/subscriptions/add", CreateSubscription)
	r.GET("/api/subscriptions", GetSubscriptions)
	r.GET("/api/subscriptions/search", SearchSubscriptions)
	r.PUT("/api/subscriptions/update/:id", UpdateSubscription)
	r.DELETE("/api/subscriptions/delete/:id", DeleteSubscription)

	r.POST("/api/massages", CreateMassage)
	r.GET("/api/massages", GetMassages)
	r.GET("/api/massages/search", SearchMassages)
	r.PUT("/api/massages/update/:id", UpdateMassage)
	r.DELETE("/api/massages/:id", DeleteMassage)

	r.POST("/auth/register", Register)
	r.POST("/auth/login", Login)

	r.GET("/api/invoices", GetInvoices)
	r.GET("/api/invoices/search", SearchInvoices)
	r.POST("/api/invoices/add", AddInvoice)
	r.POST("/api/invoices/use", UseService)
	r.PUT("/api/invoices/update/:id", UpdateInvoice)
	r.DELETE("/api/invoices/:id", DeleteInvoice)

	r.GET("/api/dashboard", GetDashboard)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func seedSubscription(t *testing.T, db *gorm.DB, name string, hours, price float64) models.Subscription {
	t.Helper()
	plan := models.Subscription{Name: name, ValidityHours: hours, Price: price, Status: "active", StartDate: time.Now()}
	require.NoError(t, db.Create(&plan).Error)
	return plan
}

func signupCustomer(t *testing.T, r *gin.Engine, name, phone string, plan models.Subscription) models.Customer {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/customers", gin.H{
		"name": name, "age": 30, "phone": phone, "subscription": plan.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var customer models.Customer
	require.NoError(t, config.DB.First(&customer, "phone = ?", phone).Error)
	return customer
}
