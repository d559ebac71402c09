package controllers

import (
	"net/http"

	"storefront-service/middleware"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	Cart    *services.CartService
	Catalog *services.CatalogService
}

func NewCartController(cart *services.CartService, catalog *services.CatalogService) *CartController {
	return &CartController{
		Cart:    cart,
		Catalog: catalog,
	}
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

type checkoutRequest struct {
	CustomerName    string `json:"customer_name" binding:"required"`
	CustomerPhone   string `json:"customer_phone" binding:"required"`
	CustomerAddress string `json:"customer_address" binding:"required"`
}

// GetCart returns the current cart with derived totals
func (cc *CartController) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, cc.Cart.Cart())
}

// AddItem adds or merges an item in the cart
func (cc *CartController) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	product, err := cc.Catalog.GetByID(c, req.ProductID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up product"})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	if err := cc.Cart.Add(c, *product, req.Quantity, req.Color, req.Size); err != nil {
		middleware.RecordStorageOperation("cart_save", false)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save cart"})
		return
	}
	middleware.RecordStorageOperation("cart_save", true)

	c.JSON(http.StatusOK, cc.Cart.Cart())
}

// UpdateQuantity sets the quantity of the matching lines, floored at 1
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	productID := c.Param("product_id")

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := cc.Cart.UpdateQuantity(c, productID, req.Quantity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, cc.Cart.Cart())
}

// RemoveItem removes every variant of the product from the cart
func (cc *CartController) RemoveItem(c *gin.Context) {
	productID := c.Param("product_id")

	if err := cc.Cart.Remove(c, productID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, cc.Cart.Cart())
}

// ClearCart removes all items from the cart
func (cc *CartController) ClearCart(c *gin.Context) {
	if err := cc.Cart.Clear(c); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

// Checkout freezes the cart into an order and empties it
func (cc *CartController) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	orderID, err := cc.Cart.PlaceOrder(c, req.CustomerName, req.CustomerPhone, req.CustomerAddress)
	if err != nil {
		middleware.RecordStorageOperation("order_save", false)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place order"})
		return
	}
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		return
	}
	middleware.RecordStorageOperation("order_save", true)

	c.JSON(http.StatusCreated, gin.H{"order_id": orderID})
}
