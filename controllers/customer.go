package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"spabliss-backend/config"
	"spabliss-backend/models"
	"spabliss-backend/services"
	"spabliss-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateCustomerInput defines the expected JSON structure for signing up a customer
type CreateCustomerInput struct {
	Name         string    `json:"name" binding:"required"`
	Age          int       `json:"age" binding:"required,min=1"`
	Phone        string    `json:"phone" binding:"required"`
	Subscription uuid.UUID `json:"subscription" binding:"required"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name         *string    `json:"name"`
	Age          *int       `json:"age"`
	Phone        *string    `json:"phone"`
	Subscription *uuid.UUID `json:"subscription"`
	Status       *string    `json:"status"`
}

type RenewInput struct {
	SubscriptionID uuid.UUID `json:"subscriptionId" binding:"required"`
}

// customerResponse flattens the joined plan details onto the customer payload.
type customerResponse struct {
	models.Customer
	ValidityHours    float64 `json:"validityHours"`
	SubscriptionName string  `json:"subscriptionName"`
}

func contextUserID(c *gin.Context) string {
	if v, exists := c.Get("userId"); exists {
		return fmt.Sprint(v)
	}
	return ""
}

// CreateCustomer signs up a new customer on a plan and writes the purchase invoice
func CreateCustomer(c *gin.Context) {
	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	ledger := services.NewLedgerService(config.DB)
	customer, invoice, err := ledger.SignupCustomer(services.SignupInput{
		Name:           input.Name,
		Age:            input.Age,
		Phone:          input.Phone,
		SubscriptionID: input.Subscription,
		CreatedBy:      contextUserID(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSubscriptionNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Subscription not found")
		case errors.Is(err, services.ErrPhoneTaken):
			utils.RespondWithError(c, http.StatusConflict, "Customer with this phone number already exists")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Customer and invoice added successfully",
		"customer": customer,
		"invoice":  invoice,
	})
}

// GetCustomers retrieves all customers with their plan details joined
func GetCustomers(c *gin.Context) {
	var customers []models.Customer
	if err := config.DB.Preload("Subscription").Find(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	response := make([]customerResponse, 0, len(customers))
	for _, customer := range customers {
		resp := customerResponse{Customer: customer}
		if customer.Subscription != nil {
			resp.ValidityHours = customer.Subscription.ValidityHours
			resp.SubscriptionName = customer.Subscription.Name
		}
		response = append(response, resp)
	}

	c.JSON(http.StatusOK, gin.H{"customers": response})
}

// SearchCustomers matches name or phone, case-insensitive substring
func SearchCustomers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Search query is required")
		return
	}

	pattern := "%" + strings.ToLower(query) + "%"

	var customers []models.Customer
	if err := config.DB.Preload("Subscription").
		Where("LOWER(name) LIKE ? OR LOWER(phone) LIKE ?", pattern, pattern).
		Find(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error searching customers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

// GetCustomer retrieves a specific customer by ID
func GetCustomer(c *gin.Context) {
	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var customer models.Customer
	if err := config.DB.Preload("Subscription").
		First(&customer, "id = ?", customerUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer updates customer fields. Moving the customer onto a different
// plan resets the balance to that plan's validity hours (renewal, by contrast,
// is additive).
func UpdateCustomer(c *gin.Context) {
	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", customerUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Age != nil {
		customer.Age = *input.Age
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		if customer.Phone != *input.Phone {
			var existing models.Customer
			if err := config.DB.Where("phone = ?", *input.Phone).First(&existing).Error; err == nil {
				utils.RespondWithError(c, http.StatusConflict, "Another customer with this phone number already exists")
				return
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
				return
			}
		}
		customer.Phone = *input.Phone
	}
	if input.Status != nil {
		customer.Status = *input.Status
	}
	if input.Subscription != nil {
		var plan models.Subscription
		if err := config.DB.First(&plan, "id = ?", *input.Subscription).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid subscription plan")
			return
		}
		customer.SubscriptionID = &plan.ID
		customer.RemainingHours = plan.ValidityHours
	}

	if err := config.DB.Save(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// RenewCustomer adds a plan's hours onto the customer's balance and records
// the renewal invoice
func RenewCustomer(c *gin.Context) {
	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var input RenewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Customer ID and Subscription ID are required")
		return
	}

	ledger := services.NewLedgerService(config.DB)
	customer, invoice, err := ledger.RenewSubscription(customerUUID, input.SubscriptionID, contextUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCustomerNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		case errors.Is(err, services.ErrSubscriptionNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Subscription not found")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to renew subscription")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Subscription renewed and invoice generated",
		"customer": gin.H{
			"id":             customer.ID,
			"name":           customer.Name,
			"remainingHours": customer.RemainingHours,
			"status":         customer.Status,
		},
		"invoice": invoice,
	})
}

// DeleteCustomer permanently removes a customer, freeing their phone number
// for a future signup. Their invoices survive with the stored customer name.
func DeleteCustomer(c *gin.Context) {
	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	result := config.DB.Unscoped().Where("id = ?", customerUUID).Delete(&models.Customer{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
