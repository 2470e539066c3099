package controllers

import (
	"net/http"
	"strconv"

	"github.com/dogworld/backend/middleware"
	"github.com/dogworld/backend/pkg/apperrors"
	"github.com/dogworld/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// respondError renders err as {"error": message}. Causes of internal
// errors are logged and never returned to the client.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	if appErr.Code >= http.StatusInternalServerError {
		logger.Error(c, "Request failed", appErr.Err,
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("message", appErr.Message),
		)
	} else if appErr.Code == http.StatusConflict {
		logger.Warn(c, "Request rejected",
			zap.String("path", c.FullPath()),
			zap.String("kind", string(appErr.Kind)),
			zap.String("message", appErr.Message),
		)
	}
	c.JSON(appErr.Code, gin.H{"error": appErr.PublicMessage()})
}

// callerID returns the authenticated user id, writing a 401 when absent.
func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
		return primitive.NilObjectID, false
	}
	return id.UserID, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return false
	}
	return true
}

// parsePaginationParams extracts page and limit, falling back to defaults
// for missing or invalid values and capping limit at maxLimit.
func parsePaginationParams(c *gin.Context, defaultLimit, maxLimit int) (int, int) {
	page, limit := 1, defaultLimit
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
		if limit > maxLimit {
			limit = maxLimit
		}
	}
	return page, limit
}

// optionalFloat parses a numeric query parameter. Blank values are nil.
func optionalFloat(c *gin.Context, name string) (*float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return nil, false
	}
	return &v, true
}
