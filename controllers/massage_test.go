package controllers

import (
	"net/http"
	"testing"

	"spabliss-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMassageCRUD(t *testing.T) {
	db := setupTestDB(t)
	r := testRouter()

	w := doJSON(t, r, http.MethodPost, "/api/massages", gin.H{
		"massageName": "Deep Tissue", "description": "Firm pressure for muscle knots",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	created := body["massage"].(map[string]interface{})
	assert.Equal(t, "Active", created["status"])

	var massage models.Massage
	require.NoError(t, db.First(&massage, "name = ?", "Deep Tissue").Error)

	w = doJSON(t, r, http.MethodPut, "/api/massages/update/"+massage.ID.String(), gin.H{
		"status": "Inactive",
	})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(&massage, "id = ?", massage.ID).Error)
	assert.Equal(t, "Inactive", massage.Status)
	assert.Equal(t, "Deep Tissue", massage.Name)

	w = doJSON(t, r, http.MethodDelete, "/api/massages/"+massage.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/massages/"+massage.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateMassageRequiresDescription(t *testing.T) {
	setupTestDB(t)
	r := testRouter()

	w := doJSON(t, r, http.MethodPost, "/api/massages", gin.H{
		"massageName": "Deep Tissue",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchMassages(t *testing.T) {
	db := setupTestDB(t)
	r := testRouter()

	require.NoError(t, db.Create(&models.Massage{Name: "Hot Stone", Description: "Heated basalt stones", Status: "Active"}).Error)
	require.NoError(t, db.Create(&models.Massage{Name: "Swedish", Description: "Relaxing full body", Status: "Active"}).Error)

	w := doJSON(t, r, http.MethodGet, "/api/massages/search?query=stone", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["massages"].([]interface{}), 1)

	// Description text matches too.
	w = doJSON(t, r, http.MethodGet, "/api/massages/search?query=relaxing", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Len(t, body["massages"].([]interface{}), 1)

	w = doJSON(t, r, http.MethodGet, "/api/massages/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
