package controllers

import (
	"net/http"

	"github.com/dogworld/backend/middleware"
	"github.com/dogworld/backend/notifier"
	"github.com/dogworld/backend/pkg/auth"
	"github.com/dogworld/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WSController upgrades authenticated clients onto the notification hub.
type WSController struct {
	hub         *notifier.Hub
	tokens      middleware.TokenValidator
	checkOrigin func(*http.Request) bool
}

func NewWSController(hub *notifier.Hub, tokens middleware.TokenValidator, checkOrigin func(*http.Request) bool) *WSController {
	return &WSController{hub: hub, tokens: tokens, checkOrigin: checkOrigin}
}

// Connect handles GET /ws. Browsers cannot set headers on a websocket
// handshake, so the access token may also come from ?token.
func (wc *WSController) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = middleware.BearerToken(c)
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
		return
	}
	claims, err := wc.tokens.ValidateToken(token, auth.TokenTypeAccess)
	if err != nil {
		logger.Warn(c, "Websocket token rejected", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	topics := []string{notifier.BroadcastTopic}
	if claims.Role == auth.RoleSeller {
		topics = append(topics, notifier.SellerTopic(claims.UserID))
	} else {
		topics = append(topics, notifier.UserTopic(claims.UserID))
	}
	logger.Info(c, "Websocket client connected",
		zap.String("user_id", claims.UserID),
		zap.String("role", claims.Role),
	)
	wc.hub.ServeWS(c.Writer, c.Request, wc.checkOrigin, topics...)
}
