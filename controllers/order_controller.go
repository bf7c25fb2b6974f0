package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/freshpress/laundry-orders-api/models"
	"github.com/freshpress/laundry-orders-api/services"
)

// LineItemRequest is one line item in an order request body. Quantities <= 0
// are tolerated and dropped by the store's normalization seam.
type LineItemRequest struct {
	GarmentType  string `json:"garment_type" binding:"required"`
	Quantity     int    `json:"quantity"`
	Instructions string `json:"instructions"`
}

// CreateOrderRequest represents the request body for creating an order.
// Legacy callers supply item_description/quantity/price; itemized callers
// supply service_type and line_items instead.
type CreateOrderRequest struct {
	CustomerName  string  `json:"customer_name" binding:"required"`
	CustomerEmail string  `json:"customer_email" binding:"required,email"`
	CustomerPhone *string `json:"customer_phone"`
	Address       *string `json:"address"`
	CustomerID    *uint   `json:"customer_id"`

	ItemDescription string  `json:"item_description"`
	Quantity        int     `json:"quantity" binding:"omitempty,gte=0"`
	Price           float64 `json:"price" binding:"omitempty,gte=0"`

	ServiceType       *string           `json:"service_type"`
	LineItems         []LineItemRequest `json:"line_items"`
	Instructions      *string           `json:"instructions"`
	ScheduledPickup   *time.Time        `json:"scheduled_pickup"`
	ScheduledDelivery *time.Time        `json:"scheduled_delivery"`
}

func toLineItems(items []LineItemRequest) []models.LineItem {
	if items == nil {
		return nil
	}
	out := make([]models.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, models.LineItem{
			GarmentType:  it.GarmentType,
			Quantity:     it.Quantity,
			Instructions: it.Instructions,
		})
	}
	return out
}

// CreateOrder handles POST /api/v1/orders - creates a new order
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	// A legacy order must describe itself; an itemized order derives its
	// description from the line items
	if len(req.LineItems) == 0 && req.ItemDescription == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Either line_items or item_description is required",
			},
		})
		return
	}

	orderID, err := services.GetOrderService().CreateOrder(services.CreateOrderInput{
		CustomerName:      req.CustomerName,
		CustomerEmail:     req.CustomerEmail,
		CustomerPhone:     req.CustomerPhone,
		Address:           req.Address,
		CustomerID:        req.CustomerID,
		ItemDescription:   req.ItemDescription,
		Quantity:          req.Quantity,
		Price:             req.Price,
		ServiceType:       req.ServiceType,
		LineItems:         toLineItems(req.LineItems),
		Instructions:      req.Instructions,
		ScheduledPickup:   req.ScheduledPickup,
		ScheduledDelivery: req.ScheduledDelivery,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	order, found, err := services.GetOrderService().GetOrder(orderID)
	if err != nil || !found {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetOrder handles GET /api/v1/orders/:id - fetches a single order
func GetOrder(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, found, err := services.GetOrderService().GetOrder(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch order",
			},
		})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - lists orders with optional
// status and date-range filters (?status=&date_from=&date_to=&date_field=)
func ListOrders(c *gin.Context) {
	filter := services.OrderFilter{
		Status:    c.Query("status"),
		DateField: c.Query("date_field"),
	}

	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Unknown status filter",
			},
		})
		return
	}
	if filter.DateField != "" && !services.ValidDateField(filter.DateField) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "date_field must be created_at, scheduled_pickup, or scheduled_delivery",
			},
		})
		return
	}

	for param, dest := range map[string]**time.Time{
		"date_from": &filter.DateFrom,
		"date_to":   &filter.DateTo,
	} {
		if value := c.Query(param); value != "" {
			parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "VALIDATION_ERROR",
						"message": param + " must be a YYYY-MM-DD date",
					},
				})
				return
			}
			*dest = &parsed
		}
	}

	orders, err := services.GetOrderService().ListOrders(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// UpdateOrderRequest represents a sparse order update: omitted fields keep
// their stored values. Supplying line_items recomputes the derived pricing
// fields and overrides any quantity/price in the same request.
type UpdateOrderRequest struct {
	CustomerName      *string           `json:"customer_name"`
	CustomerEmail     *string           `json:"customer_email" binding:"omitempty,email"`
	CustomerPhone     *string           `json:"customer_phone"`
	ItemDescription   *string           `json:"item_description"`
	Quantity          *int              `json:"quantity" binding:"omitempty,gte=0"`
	Price             *float64          `json:"price" binding:"omitempty,gte=0"`
	ServiceType       *string           `json:"service_type"`
	LineItems         []LineItemRequest `json:"line_items"`
	Instructions      *string           `json:"instructions"`
	ScheduledPickup   *time.Time        `json:"scheduled_pickup"`
	ScheduledDelivery *time.Time        `json:"scheduled_delivery"`
	Status            *string           `json:"status" binding:"omitempty,oneof=pending scheduled in_progress ready completed cancelled"`
}

// UpdateOrder handles PATCH /api/v1/orders/:id - sparse order update
func UpdateOrder(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	updated, err := services.GetOrderService().UpdateOrder(id, services.UpdateOrderInput{
		CustomerName:      req.CustomerName,
		CustomerEmail:     req.CustomerEmail,
		CustomerPhone:     req.CustomerPhone,
		ItemDescription:   req.ItemDescription,
		Quantity:          req.Quantity,
		Price:             req.Price,
		ServiceType:       req.ServiceType,
		LineItems:         toLineItems(req.LineItems),
		Instructions:      req.Instructions,
		ScheduledPickup:   req.ScheduledPickup,
		ScheduledDelivery: req.ScheduledDelivery,
		Status:            req.Status,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order",
			},
		})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	order, _, err := services.GetOrderService().GetOrder(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrderStatusRequest represents the request body for a status transition
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending scheduled in_progress ready completed cancelled"`
}

// UpdateOrderStatus handles PUT /api/v1/orders/:id/status - transitions an
// order's status; entering "ready" also dispatches customer notifications
func UpdateOrderStatus(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	updated, notification, err := services.GetOrderService().UpdateOrderStatus(id, req.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order status",
			},
		})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	response := gin.H{
		"success": true,
		"data": gin.H{
			"id":     id,
			"status": req.Status,
		},
	}
	if notification != nil {
		response["notification"] = notification
	}
	c.JSON(http.StatusOK, response)
}

// DeleteOrder handles DELETE /api/v1/orders/:id - hard deletes an order
func DeleteOrder(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	deleted, err := services.GetOrderService().DeleteOrder(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete order",
			},
		})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order deleted",
	})
}

// parseOrderID extracts the numeric :id path parameter, writing a 400
// response and returning false when it is not a positive integer.
func parseOrderID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Order id must be a positive integer",
			},
		})
		return 0, false
	}
	return uint(id), true
}
