package handlers

import (
	"net/http"

	"memberbill/database"

	"github.com/gin-gonic/gin"
)

// ClearDatabase drops and re-migrates every table. Development and test
// environments only.
func ClearDatabase(c *gin.Context) {
	if err := database.ClearDBAndMigrate(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear database: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Database cleared and re-migrated successfully"})
}
