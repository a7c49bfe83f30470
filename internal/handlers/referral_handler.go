package handlers

import (
	"net/http"

	"fluxtrade/internal/auth"
	"fluxtrade/internal/services"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	referralService *services.ReferralService
}

func NewReferralHandler(referralService *services.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralService: referralService}
}

// GetMyReferrals lists the users the caller referred
func (h *ReferralHandler) GetMyReferrals(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	referrals, err := h.referralService.ListReferrals(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    referrals,
		"count":   len(referrals),
	})
}
