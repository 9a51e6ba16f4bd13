package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/service"
	"github.com/cloud-wave-best-zizon/storefront-service/pkg/middleware"
)

var errorResponses = []struct {
	err     error
	status  int
	message string
}{
	{service.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{service.ErrNoBestSeller, http.StatusNotFound, "No best seller found"},
	{service.ErrCartNotFound, http.StatusNotFound, "Cart not found"},
	{service.ErrCartItemNotFound, http.StatusNotFound, "Product not found in cart"},
	{service.ErrCheckoutNotFound, http.StatusNotFound, "Checkout not found"},
	{service.ErrOrderNotFound, http.StatusNotFound, "Order not found"},
	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},

	{service.ErrMissingCartOwner, http.StatusBadRequest, "User ID or guest ID is required"},
	{service.ErrInvalidQuantity, http.StatusBadRequest, "Invalid quantity"},
	{service.ErrEmptyCheckout, http.StatusBadRequest, "No items in checkout"},
	{service.ErrInvalidPaymentStatus, http.StatusBadRequest, "Invalid Payment Status"},
	{service.ErrCheckoutNotPaid, http.StatusBadRequest, "Checkout is not paid"},
	{service.ErrCheckoutAlreadyFinalized, http.StatusBadRequest, "Checkout already finalized"},
	{service.ErrInvalidOrderStatus, http.StatusBadRequest, "Invalid order status"},
	{service.ErrEmailTaken, http.StatusBadRequest, "User already exists"},
	{service.ErrInvalidRole, http.StatusBadRequest, "Invalid role"},

	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},

	{service.ErrInvalidProductReference, http.StatusUnprocessableEntity, "Checkout references an unknown product"},
}

// respondError maps service errors onto HTTP responses. Anything unrecognised is
// logged and answered with a generic 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var mismatch *service.TotalMismatchError
	if errors.As(err, &mismatch) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message":     "Total price mismatch",
			"clientTotal": mismatch.Client,
			"serverTotal": mismatch.Server,
		})
		return
	}
	for _, r := range errorResponses {
		if errors.Is(err, r.err) {
			c.JSON(r.status, gin.H{"message": r.message})
			return
		}
	}

	requestID := c.GetString(middleware.RequestIDKey)
	logger.Error("Request failed",
		zap.String("request_id", requestID),
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"message":    "Server error",
		"request_id": requestID,
	})
}

func respondBindError(c *gin.Context, logger *zap.Logger, err error) {
	logger.Warn("Invalid request",
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{
		"message": "Invalid request format",
		"details": err.Error(),
	})
}

// principal returns the authenticated caller. Routes using it sit behind middleware.Auth.
func principal(c *gin.Context) (userID string, ok bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token provided"})
		return "", false
	}
	return p.UserID, true
}
