package controllers

import (
	"errors"
	"net/http"
	"strings"

	"spabliss-backend/config"
	"spabliss-backend/models"
	"spabliss-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateMassageInput defines the expected JSON structure for a catalog entry
type CreateMassageInput struct {
	Name        string `json:"massageName" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// UpdateMassageInput defines the expected JSON structure for updating an entry
type UpdateMassageInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// CreateMassage adds a service to the catalog
func CreateMassage(c *gin.Context) {
	var input CreateMassageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Massage name and description are required")
		return
	}

	massage := models.Massage{
		Name:        input.Name,
		Description: input.Description,
		Status:      "Active",
	}

	if err := config.DB.Create(&massage).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error adding massage")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"massage": massage})
}

// GetMassages retrieves the full catalog
func GetMassages(c *gin.Context) {
	var massages []models.Massage
	if err := config.DB.Find(&massages).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error fetching massages")
		return
	}

	c.JSON(http.StatusOK, massages)
}

// SearchMassages matches name or description, case-insensitive substring
func SearchMassages(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Search query is required")
		return
	}

	pattern := "%" + strings.ToLower(query) + "%"

	var massages []models.Massage
	if err := config.DB.
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Find(&massages).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error searching massages")
		return
	}

	c.JSON(http.StatusOK, gin.H{"massages": massages})
}

// UpdateMassage updates a catalog entry
func UpdateMassage(c *gin.Context) {
	massageUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid massage ID format")
		return
	}

	var input UpdateMassageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var massage models.Massage
	if err := config.DB.First(&massage, "id = ?", massageUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Massage not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		massage.Name = *input.Name
	}
	if input.Description != nil {
		massage.Description = *input.Description
	}
	if input.Status != nil {
		massage.Status = *input.Status
	}

	if err := config.DB.Save(&massage).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error updating massage")
		return
	}

	c.JSON(http.StatusOK, massage)
}

// DeleteMassage removes a catalog entry. Invoices keep the service name as
// free text, so nothing else is touched.
func DeleteMassage(c *gin.Context) {
	massageUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid massage ID format")
		return
	}

	result := config.DB.Where("id = ?", massageUUID).Delete(&models.Massage{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Error deleting massage")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Massage not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Massage deleted successfully"})
}
