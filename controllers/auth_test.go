package controllers

import (
	"net/http"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	setupTestDB(t)
	r := testRouter()

	w := doJSON(t, r, http.MethodPost, "/auth/register", gin.H{
		"email": "owner@spa.test", "name": "Owner", "password": "supersecret", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "admin", body["role"])

	// Duplicate email
	w = doJSON(t, r, http.MethodPost, "/auth/register", gin.H{
		"email": "owner@spa.test", "name": "Owner", "password": "supersecret", "role": "admin",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/auth/login", gin.H{
		"email": "owner@spa.test", "password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = decodeBody(t, w)
	assert.NotEmpty(t, body["token"])

	w = doJSON(t, r, http.MethodPost, "/auth/login", gin.H{
		"email": "owner@spa.test", "password": "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	setupTestDB(t)
	r := testRouter()

	w := doJSON(t, r, http.MethodPost, "/auth/register", gin.H{
		"email": "owner@spa.test", "name": "Owner", "password": "supersecret", "role": "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
