package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/catalog"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
	logger         *zap.Logger
}

func NewProductHandler(productService *service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req domain.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}
	userID, ok := principal(c)
	if !ok {
		return
	}

	p, err := h.productService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var patch domain.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	p, err := h.productService.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product removed"})
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	q, err := catalog.ParseQuery(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	products, err := h.productService.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// ListAllProducts serves the admin listing; no filter applies.
func (h *ProductHandler) ListAllProducts(c *gin.Context) {
	products, err := h.productService.List(c.Request.Context(), catalog.Query{})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.productService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) BestSeller(c *gin.Context) {
	p, err := h.productService.BestSeller(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) NewArrivals(c *gin.Context) {
	products, err := h.productService.NewArrivals(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) SimilarProducts(c *gin.Context) {
	products, err := h.productService.Similar(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}
