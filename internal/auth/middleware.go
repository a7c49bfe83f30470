package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// AuthMiddleware validates JWT tokens and protects routes
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Access token missing",
				"code":  "Unauthenticated",
			})
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format. Expected: Bearer <token>",
				"code":  "Unauthenticated",
			})
			return
		}

		claims, err := ValidateToken(parts[1])
		if err != nil {
			code := "InvalidToken"
			switch {
			case errors.Is(err, ErrTokenExpired):
				code = "ExpiredToken"
			case errors.Is(err, ErrTokenRevoked):
				code = "RevokedToken"
			case !errors.Is(err, ErrInvalidToken):
				// revocation store unreachable
				log.Printf("Auth: token check failed: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
					"code":  "Internal",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Invalid or expired token",
				"code":  code,
			})
			return
		}

		// Set identity in context
		c.Set(claimsKey, claims)
		c.Set("user_id", claims.UserID)

		c.Next()
	}
}

// RequireUser rejects tokens that do not identify a marketplace user
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := GetUserID(c); !ok || id == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "User token required",
				"code":  "Unauthenticated",
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects tokens without the admin claim
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok || !claims.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
				"code":  "Forbidden",
			})
			return
		}
		c.Next()
	}
}

// GetClaims retrieves the decoded token from the context
func GetClaims(c *gin.Context) (*Claims, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// GetUserID retrieves the user ID from the context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint)
	return id, ok
}
