package utils

import "github.com/gin-gonic/gin"

// RespondWithError writes a structured JSON error and aborts the request.
func RespondWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}
