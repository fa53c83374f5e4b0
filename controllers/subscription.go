package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"spabliss-backend/config"
	"spabliss-backend/models"
	"spabliss-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateSubscriptionInput defines the expected JSON structure for creating a plan
type CreateSubscriptionInput struct {
	Name          string  `json:"subscriptionName" binding:"required"`
	ValidityHours float64 `json:"validityHours" binding:"required,min=0"`
	Price         float64 `json:"price" binding:"min=0"`
}

// UpdateSubscriptionInput defines the expected JSON structure for updating a plan
type UpdateSubscriptionInput struct {
	Name          *string  `json:"name"`
	ValidityHours *float64 `json:"validityHours"`
	Price         *float64 `json:"price"`
	Status        *string  `json:"status"`
}

// CreateSubscription creates a new plan (admin only)
func CreateSubscription(c *gin.Context) {
	var input CreateSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	subscription := models.Subscription{
		Name:          input.Name,
		ValidityHours: input.ValidityHours,
		Price:         input.Price,
		Status:        "active",
		StartDate:     time.Now(),
	}

	if err := config.DB.Create(&subscription).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error adding subscription")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subscription": subscription})
}

// GetSubscriptions retrieves all plans
func GetSubscriptions(c *gin.Context) {
	var subscriptions []models.Subscription
	if err := config.DB.Find(&subscriptions).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error fetching subscriptions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": subscriptions})
}

// SearchSubscriptions matches plan name; a numeric query also matches price exactly
func SearchSubscriptions(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Search query is required")
		return
	}

	pattern := "%" + strings.ToLower(query) + "%"
	db := config.DB.Where("LOWER(name) LIKE ?", pattern)
	if price, err := strconv.ParseFloat(query, 64); err == nil {
		db = config.DB.Where("LOWER(name) LIKE ? OR price = ?", pattern, price)
	}

	var subscriptions []models.Subscription
	if err := db.Find(&subscriptions).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error searching subscriptions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": subscriptions})
}

// UpdateSubscription updates an existing plan (admin only). Customers already
// on the plan keep their current balance.
func UpdateSubscription(c *gin.Context) {
	subscriptionUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid subscription ID format")
		return
	}

	var input UpdateSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var subscription models.Subscription
	if err := config.DB.First(&subscription, "id = ?", subscriptionUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Subscription not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		subscription.Name = *input.Name
	}
	if input.ValidityHours != nil {
		if *input.ValidityHours < 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Validity hours must not be negative")
			return
		}
		subscription.ValidityHours = *input.ValidityHours
	}
	if input.Price != nil {
		if *input.Price < 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Price must not be negative")
			return
		}
		subscription.Price = *input.Price
	}
	if input.Status != nil {
		subscription.Status = *input.Status
	}

	if err := config.DB.Save(&subscription).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error updating subscription")
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": subscription})
}

// DeleteSubscription removes a plan (admin only). Customers referencing it
// keep a dangling reference; consumers handle the missing plan explicitly.
func DeleteSubscription(c *gin.Context) {
	subscriptionUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid subscription ID format")
		return
	}

	result := config.DB.Where("id = ?", subscriptionUUID).Delete(&models.Subscription{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Subscription not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription deleted successfully"})
}
