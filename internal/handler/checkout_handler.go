package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/service"
	"github.com/cloud-wave-best-zizon/storefront-service/pkg/middleware"
)

type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	logger          *zap.Logger
}

func NewCheckoutHandler(checkoutService *service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

func (h *CheckoutHandler) CreateCheckout(c *gin.Context) {
	var req domain.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}
	userID, ok := principal(c)
	if !ok {
		return
	}

	checkout, err := h.checkoutService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, checkout)
}

func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}

	checkout, err := h.checkoutService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, checkout)
}

func (h *CheckoutHandler) PayCheckout(c *gin.Context) {
	var req domain.PaymentUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}
	userID, ok := principal(c)
	if !ok {
		return
	}

	checkout, err := h.checkoutService.Pay(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, checkout)
}

// FinalizeCheckout answers 201 when the order is created and 200 when it already existed.
func (h *CheckoutHandler) FinalizeCheckout(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}

	order, created, err := h.checkoutService.Finalize(c.Request.Context(), userID, c.Param("id"), c.GetString(middleware.RequestIDKey))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(orderStatusCode(created), order)
}

func (h *CheckoutHandler) ConfirmCheckout(c *gin.Context) {
	var req domain.PaymentUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}
	userID, ok := principal(c)
	if !ok {
		return
	}

	order, created, err := h.checkoutService.Confirm(c.Request.Context(), userID, c.Param("id"), req, c.GetString(middleware.RequestIDKey))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(orderStatusCode(created), order)
}

func orderStatusCode(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}
