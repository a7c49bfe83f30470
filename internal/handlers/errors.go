package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"fluxtrade/internal/auth"
	"fluxtrade/internal/services"

	"github.com/gin-gonic/gin"
)

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation, services.KindDuplicateUser,
		services.KindInsufficientPoints, services.KindInvalidAction:
		return http.StatusBadRequest
	case services.KindUnauthenticated, services.KindInvalidCredentials:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps a service failure to its status. Unclassified errors are
// logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	var se *services.Error
	if errors.As(err, &se) {
		if se.Err != nil {
			log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		}
		c.JSON(statusFor(se.Kind), gin.H{
			"error": se.Message,
			"code":  se.Kind,
		})
		return
	}

	log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
		"code":  "Internal",
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": message,
		"code":  services.KindValidation,
	})
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+param)
		return 0, false
	}
	return uint(id), true
}

func actorFrom(c *gin.Context) services.Actor {
	claims, ok := auth.GetClaims(c)
	if !ok {
		return services.Actor{}
	}
	return services.Actor{Username: claims.Username, Admin: claims.Admin}
}
