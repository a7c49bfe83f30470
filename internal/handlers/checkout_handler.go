package handlers

import (
	"net/http"

	"fluxtrade/internal/auth"
	"fluxtrade/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CheckoutHandler handles quotes, points checkout and card sessions
type CheckoutHandler struct {
	checkoutService *services.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Quote prices a cart without charging
func (h *CheckoutHandler) Quote(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req services.QuoteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	quote, err := h.checkoutService.Quote(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quote,
	})
}

// PayWithPoints settles a cart from the caller's points
func (h *CheckoutHandler) PayWithPoints(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req services.PointsCheckoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	res, err := h.checkoutService.PayWithPoints(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":         true,
		"data":            res.Order,
		"remainingPoints": res.RemainingPoints,
	})
}

func (h *CheckoutHandler) GetMyOrders(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	orders, err := h.checkoutService.ListOrders(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"count":   len(orders),
	})
}

func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.checkoutService.GetOrder(userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// CreateCheckoutSession opens a hosted card payment and returns its URL
func (h *CheckoutHandler) CreateCheckoutSession(c *gin.Context) {
	var req struct {
		Title string           `json:"title"`
		Price *decimal.Decimal `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Price == nil {
		badRequest(c, "Invalid or missing price")
		return
	}

	url, err := h.checkoutService.CreateCheckoutSession(c.Request.Context(), req.Title, *req.Price)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
