package controllers

import (
	"net/http"

	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/services"
	"github.com/gin-gonic/gin"
)

// ProductController handles HTTP requests for the accessory catalogue.
type ProductController struct {
	productService services.ProductService
}

func NewProductController(productService services.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// ListProducts handles GET /api/products.
func (pc *ProductController) ListProducts(c *gin.Context) {
	minPrice, ok := optionalFloat(c, "minPrice")
	if !ok {
		return
	}
	maxPrice, ok := optionalFloat(c, "maxPrice")
	if !ok {
		return
	}
	filter := models.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Brand:    c.Query("brand"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     c.Query("sort"),
	}
	products, err := pc.productService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Categories handles GET /api/products/categories.
func (pc *ProductController) Categories(c *gin.Context) {
	resp, err := pc.productService.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetProduct handles GET /api/products/:id.
func (pc *ProductController) GetProduct(c *gin.Context) {
	product, err := pc.productService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListSellerProducts handles GET /api/products/seller/mine.
func (pc *ProductController) ListSellerProducts(c *gin.Context) {
	sellerID, ok := callerID(c)
	if !ok {
		return
	}
	products, err := pc.productService.ListBySeller(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// CreateProduct handles POST /api/products.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	sellerID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := pc.productService.Create(c.Request.Context(), sellerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product created successfully", "product": product})
}

// UpdateProduct handles PUT /api/products/:id.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	sellerID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := pc.productService.Update(c.Request.Context(), sellerID, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// DeleteProduct handles DELETE /api/products/:id.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	sellerID, ok := callerID(c)
	if !ok {
		return
	}
	if err := pc.productService.Delete(c.Request.Context(), sellerID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
