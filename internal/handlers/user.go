package handlers

import (
	"net/http"

	"fluxtrade/internal/auth"
	"fluxtrade/internal/services"

	"github.com/gin-gonic/gin"
)

// UserHandler handles account endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register creates an account
func (h *UserHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	res, err := h.userService.Register(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "User registered successfully",
		"user":       res.User,
		"categories": res.Categories,
	})
}

// SignIn issues a user token
func (h *UserHandler) SignIn(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	res, err := h.userService.SignIn(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"token":      res.Token,
		"user":       res.User,
		"categories": res.Categories,
	})
}

// GetProfile returns the current user's profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	profile, err := h.userService.GetProfile(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profile,
	})
}

// GenerateReferralCode rotates the caller's referral code
func (h *UserHandler) GenerateReferralCode(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	code, err := h.userService.RegenerateReferralCode(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"referralCode": code,
	})
}

// MakeAdmin promotes a user with the bootstrap secret
func (h *UserHandler) MakeAdmin(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		SecretKey string `json:"secretKey"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.PromoteToAdmin(id, req.SecretKey)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User is now an admin",
		"data":    user,
	})
}

// SignOut revokes the presented token
func (h *UserHandler) SignOut(c *gin.Context) {
	claims, _ := auth.GetClaims(c)

	if err := auth.RevokeToken(c.Request.Context(), claims); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Signed out",
	})
}

// GetPointsHistory returns the caller's points ledger
func (h *UserHandler) GetPointsHistory(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	entries, err := h.userService.GetLedger(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
		"count":   len(entries),
	})
}
