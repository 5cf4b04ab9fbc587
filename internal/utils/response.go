package utils

import "github.com/gin-gonic/gin"

// Every endpoint answers with the same envelope: {"success": ..., "data": ...}
// on success, {"success": false, "error": ...} on failure.

func SuccessResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   message,
	})
}
