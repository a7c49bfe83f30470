package handlers

import (
	"net/http"

	"fluxtrade/internal/auth"
	"fluxtrade/internal/models"
	"fluxtrade/internal/services"

	"github.com/gin-gonic/gin"
)

// ListingHandler handles listing endpoints
type ListingHandler struct {
	listingService *services.ListingService
	adminService   *services.AdminService
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(listingService *services.ListingService, adminService *services.AdminService) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		adminService:   adminService,
	}
}

// CreateListing submits a listing for verification
func (h *ListingHandler) CreateListing(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req services.CreateListingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	listing, err := h.listingService.Create(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Listing submitted for verification",
		"data":    listing,
	})
}

// GetListings searches listings. Only verified listings unless showAll=true.
func (h *ListingHandler) GetListings(c *gin.Context) {
	filter := services.ListingFilter{
		Category:  models.Category(c.Query("category")),
		Condition: models.Condition(c.Query("condition")),
		Location:  c.Query("location"),
		ShowAll:   c.Query("showAll") == "true",
	}

	listings, err := h.listingService.GetAll(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    listings,
		"count":   len(listings),
	})
}

func (h *ListingHandler) GetListing(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	listing, err := h.listingService.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    listing,
	})
}

// GetListingStatus returns the moderation status for the submitter to poll
func (h *ListingHandler) GetListingStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	status, err := h.listingService.GetStatus(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    status,
	})
}

// GetPendingListings returns the moderation queue
func (h *ListingHandler) GetPendingListings(c *gin.Context) {
	listings, err := h.adminService.GetPendingListings(actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    listings,
		"count":   len(listings),
	})
}

// VerifyListing approves or rejects a pending listing
func (h *ListingHandler) VerifyListing(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Action string `json:"action"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	listing, err := h.adminService.VerifyListing(id, actorFrom(c), req.Action, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Listing " + string(listing.VerificationStatus),
		"data":    listing,
	})
}
