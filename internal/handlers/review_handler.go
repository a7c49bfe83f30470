package handlers

import (
	"net/http"

	"fluxtrade/internal/auth"
	"fluxtrade/internal/services"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req services.CreateReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	review, err := h.reviewService.Create(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    review,
	})
}

func (h *ReviewHandler) GetReviewsForListing(c *gin.Context) {
	listingID, ok := parseID(c, "listingId")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListForListing(listingID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reviews,
		"count":   len(reviews),
	})
}
