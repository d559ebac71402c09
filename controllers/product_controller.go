package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"storefront-service/models"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	Catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{Catalog: catalog}
}

type productRequest struct {
	ID          string   `json:"id"`
	Name        string   `json:"name" binding:"required"`
	Price       float64  `json:"price" binding:"min=0"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Colors      []string `json:"colors"`
	Sizes       []string `json:"sizes"`
	Available   bool     `json:"available"`
}

func (r *productRequest) toModel() models.Product {
	return models.Product{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		Image:       r.Image,
		Description: r.Description,
		Category:    r.Category,
		Colors:      r.Colors,
		Sizes:       r.Sizes,
		Available:   r.Available,
	}
}

// GetProducts returns the full catalog, waiting for initialization
func (pc *ProductController) GetProducts(c *gin.Context) {
	products, err := pc.Catalog.GetAll(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// SearchProducts filters the synchronous cache; used by search-as-you-type,
// which tolerates staleness in exchange for never blocking
func (pc *ProductController) SearchProducts(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("q")))

	matches := []models.Product{}
	for _, p := range pc.Catalog.Cached() {
		if query == "" ||
			strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Description), query) {
			matches = append(matches, p)
		}
	}

	c.JSON(http.StatusOK, matches)
}

// GetFeaturedProducts returns the newest products in the catalog
func (pc *ProductController) GetFeaturedProducts(c *gin.Context) {
	count := 3
	if raw := c.Query("count"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			count = n
		}
	}

	products, err := pc.Catalog.GetFeatured(c, count)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProductByID returns one product or a not-found state
func (pc *ProductController) GetProductByID(c *gin.Context) {
	id := c.Param("product_id")

	product, err := pc.Catalog.GetByID(c, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// GetProductsByCategory returns the products under a category
func (pc *ProductController) GetProductsByCategory(c *gin.Context) {
	category := c.Param("category")

	products, err := pc.Catalog.GetByCategory(c, category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// CreateProduct adds a product to the catalog, allocating an id when absent
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	product, err := pc.Catalog.Upsert(c, req.toModel())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct overwrites a product in place
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	req.ID = c.Param("product_id")

	product, err := pc.Catalog.Upsert(c, req.toModel())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product from the catalog
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id := c.Param("product_id")

	if err := pc.Catalog.Delete(c, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}
