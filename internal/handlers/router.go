package handlers

import (
	"net/http"
	"time"

	"fluxtrade/internal/auth"
	"fluxtrade/internal/services"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the HTTP layer calls into
type Services struct {
	Users     *services.UserService
	Referrals *services.ReferralService
	Listings  *services.ListingService
	Reviews   *services.ReviewService
	Forum     *services.ForumService
	Checkout  *services.CheckoutService
	Admin     *services.AdminService
}

// RouteOptions toggles optional surfaces
type RouteOptions struct {
	// EnableAdminBootstrap registers PUT /users/:id/make-admin
	EnableAdminBootstrap bool
	// CredentialLimiter throttles signin and register; nil disables throttling
	CredentialLimiter gin.HandlerFunc
}

// RegisterRoutes mounts the API on router
func RegisterRoutes(router *gin.Engine, svc Services, opts RouteOptions) {
	userHandler := NewUserHandler(svc.Users)
	referralHandler := NewReferralHandler(svc.Referrals)
	listingHandler := NewListingHandler(svc.Listings, svc.Admin)
	reviewHandler := NewReviewHandler(svc.Reviews)
	forumHandler := NewForumHandler(svc.Forum)
	checkoutHandler := NewCheckoutHandler(svc.Checkout)
	adminHandler := NewAdminHandler(svc.Admin)

	limited := opts.CredentialLimiter
	if limited == nil {
		limited = func(c *gin.Context) { c.Next() }
	}

	authenticated := auth.AuthMiddleware()
	user := []gin.HandlerFunc{authenticated, auth.RequireUser()}
	admin := []gin.HandlerFunc{authenticated, auth.RequireAdmin()}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	users := router.Group("/users")
	{
		users.POST("/register", limited, userHandler.Register)
		users.POST("/signin", limited, userHandler.SignIn)
		users.GET("/profile", append(user, userHandler.GetProfile)...)
		users.POST("/generate-referral-code", append(user, userHandler.GenerateReferralCode)...)
		users.POST("/pay-with-points", append(user, checkoutHandler.PayWithPoints)...)
		users.POST("/signout", authenticated, userHandler.SignOut)
		users.GET("/points/history", append(user, userHandler.GetPointsHistory)...)
		if opts.EnableAdminBootstrap {
			users.PUT("/:id/make-admin", limited, userHandler.MakeAdmin)
		}
	}

	router.GET("/referrals/me", append(user, referralHandler.GetMyReferrals)...)

	listings := router.Group("/listings")
	{
		listings.POST("", append(user, listingHandler.CreateListing)...)
		listings.GET("", listingHandler.GetListings)
		listings.GET("/pending", append(admin, listingHandler.GetPendingListings)...)
		listings.GET("/:id", listingHandler.GetListing)
		listings.GET("/:id/status", listingHandler.GetListingStatus)
		listings.PUT("/:id/verify", append(admin, listingHandler.VerifyListing)...)
	}

	reviews := router.Group("/reviews")
	{
		reviews.POST("", append(user, reviewHandler.CreateReview)...)
		reviews.GET("/:listingId", reviewHandler.GetReviewsForListing)
	}

	forum := router.Group("/forum")
	{
		forum.POST("", append(user, forumHandler.CreatePost)...)
		forum.GET("", forumHandler.GetPosts)
		forum.GET("/:id", forumHandler.GetPost)
	}

	orders := router.Group("/orders")
	orders.Use(user...)
	{
		orders.POST("/quote", checkoutHandler.Quote)
		orders.GET("/me", checkoutHandler.GetMyOrders)
		orders.GET("/:id", checkoutHandler.GetOrder)
	}

	adminRoutes := router.Group("/admin")
	{
		adminRoutes.POST("/signin", limited, adminHandler.SignIn)
		adminRoutes.GET("/stats", append(admin, adminHandler.GetPlatformStats)...)
		adminRoutes.GET("/logs", append(admin, adminHandler.GetAdminLogs)...)
	}

	router.POST("/stripe/create-checkout-session", checkoutHandler.CreateCheckoutSession)
}
