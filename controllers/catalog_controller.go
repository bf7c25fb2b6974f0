package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freshpress/laundry-orders-api/services"
)

// ListServiceTypes handles GET /api/v1/service-types
func ListServiceTypes(c *gin.Context) {
	types, err := services.GetCatalogService().ListServiceTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list service types",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    types,
	})
}

// ListGarmentTypes handles GET /api/v1/garment-types
func ListGarmentTypes(c *gin.Context) {
	types, err := services.GetCatalogService().ListGarmentTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list garment types",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    types,
	})
}
