package routes

import (
	"net/http"

	"storefront-service/controllers"
	"storefront-service/logger"
	"storefront-service/middleware"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Register(
	r *gin.Engine,
	cart *services.CartService,
	orders *services.OrderService,
	catalog *services.CatalogService,
) {
	r.Use(logger.RequestLogger())
	r.Use(middleware.PrometheusMiddleware())

	cartController := controllers.NewCartController(cart, catalog)
	orderController := controllers.NewOrderController(orders)
	productController := controllers.NewProductController(catalog)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	cartGroup := r.Group("/cart")
	{
		cartGroup.GET("", cartController.GetCart)
		cartGroup.POST("/items", cartController.AddItem)
		cartGroup.PATCH("/items/:product_id", cartController.UpdateQuantity)
		cartGroup.DELETE("/items/:product_id", cartController.RemoveItem)
		cartGroup.DELETE("", cartController.ClearCart)
		cartGroup.POST("/checkout", cartController.Checkout)
	}

	orderGroup := r.Group("/orders")
	{
		orderGroup.GET("", orderController.GetOrders)
		orderGroup.GET("/:order_id", orderController.GetOrderByID)
		orderGroup.POST("/:order_id/read", orderController.MarkRead)
		orderGroup.PATCH("/:order_id/status", orderController.UpdateStatus)
	}

	productGroup := r.Group("/products")
	{
		productGroup.GET("", productController.GetProducts)
		productGroup.GET("/search", productController.SearchProducts)
		productGroup.GET("/featured", productController.GetFeaturedProducts)
		productGroup.GET("/category/:category", productController.GetProductsByCategory)
		productGroup.GET("/:product_id", productController.GetProductByID)
		productGroup.POST("", productController.CreateProduct)
		productGroup.PUT("/:product_id", productController.UpdateProduct)
		productGroup.DELETE("/:product_id", productController.DeleteProduct)
	}
}
