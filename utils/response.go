package utils

import "github.com/gin-gonic/gin"

// RespondWithError writes a uniform JSON error body
func RespondWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}
