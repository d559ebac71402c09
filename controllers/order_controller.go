package controllers

import (
	"net/http"

	"storefront-service/models"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// GetOrders returns the order sequence, newest first, with the unread count
func (oc *OrderController) GetOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"orders":       oc.Orders.Orders(),
		"unread_count": oc.Orders.UnreadCount(),
	})
}

// GetOrderByID returns one order, or a not-found state
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID := c.Param("order_id")

	order, ok := oc.Orders.GetByID(orderID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// MarkRead flags an order as read
func (oc *OrderController) MarkRead(c *gin.Context) {
	orderID := c.Param("order_id")

	if _, ok := oc.Orders.GetByID(orderID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	if err := oc.Orders.MarkRead(c, orderID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "order marked as read",
		"unread_count": oc.Orders.UnreadCount(),
	})
}

// UpdateStatus moves an order through its lifecycle
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	orderID := c.Param("order_id")

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !models.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	if _, ok := oc.Orders.GetByID(orderID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	if err := oc.Orders.UpdateStatus(c, orderID, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
		return
	}

	order, _ := oc.Orders.GetByID(orderID)
	c.JSON(http.StatusOK, order)
}
