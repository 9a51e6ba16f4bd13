package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/service"
	"github.com/cloud-wave-best-zizon/storefront-service/pkg/middleware"
)

type cartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	GuestID   string `json:"guestId"`
}

func (r cartRequest) line() service.CartLine {
	return service.CartLine{
		ProductID: r.ProductID,
		Size:      r.Size,
		Color:     r.Color,
		Quantity:  r.Quantity,
	}
}

type mergeRequest struct {
	GuestID string `json:"guestId" binding:"required"`
}

type CartHandler struct {
	cartService *service.CartService
	logger      *zap.Logger
}

func NewCartHandler(cartService *service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// owner prefers the authenticated user over a guest id.
func owner(c *gin.Context, guestID string) domain.CartOwner {
	if p, ok := middleware.PrincipalFrom(c); ok {
		return domain.CartOwner{UserID: p.UserID}
	}
	return domain.CartOwner{GuestID: guestID}
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}
	o := owner(c, req.GuestID)
	if !o.Valid() {
		o.GuestID = service.NewGuestID()
	}

	cart, err := h.cartService.Add(c.Request.Context(), o, req.line())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) UpdateCart(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	cart, err := h.cartService.Update(c.Request.Context(), owner(c, req.GuestID), req.line())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	cart, err := h.cartService.Remove(c.Request.Context(), owner(c, req.GuestID), req.line())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.cartService.Get(c.Request.Context(), owner(c, c.Query("guestId")))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) MergeCart(c *gin.Context) {
	var req mergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}
	userID, ok := principal(c)
	if !ok {
		return
	}

	cart, err := h.cartService.Merge(c.Request.Context(), userID, req.GuestID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}
