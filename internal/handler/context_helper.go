package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anderswb/laundry-room-api/internal/middleware"
	"github.com/anderswb/laundry-room-api/internal/models"
	appErrors "github.com/anderswb/laundry-room-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// startDateFromQuery reads the start_date query parameter, defaulting to
// today when absent.
func startDateFromQuery(c *gin.Context) (time.Time, error) {
	raw := c.Query("start_date")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrInvalidRequest, "start_date must be a YYYY-MM-DD value")
	}
	return date, nil
}
