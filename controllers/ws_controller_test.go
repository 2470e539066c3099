package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dogworld/backend/controllers"
	"github.com/dogworld/backend/notifier"
	"github.com/dogworld/backend/pkg/auth"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func wsServer(t *testing.T) (*httptest.Server, *notifier.Hub, *auth.TokenManager) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := notifier.NewHub(zap.NewNop())
	go hub.Run(ctx)

	tm, err := auth.NewTokenManager("ws-secret", time.Hour, time.Hour)
	require.NoError(t, err)

	r := gin.New()
	wc := controllers.NewWSController(hub, tm, func(*http.Request) bool { return true })
	r.GET("/ws", wc.Connect)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, hub, tm
}

func TestWSConnect_RejectsMissingToken(t *testing.T) {
	srv, _, _ := wsServer(t)

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWSConnect_SellerReceivesOwnTopic(t *testing.T) {
	srv, hub, tm := wsServer(t)
	sellerID := primitive.NewObjectID().Hex()
	pair, err := tm.GenerateTokenPair(sellerID, "s@x.com", auth.RoleSeller)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + pair.AccessToken
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	frame := []byte(`{"type":"new-order","topic":"seller-` + sellerID + `"}`)
	require.NoError(t, hub.Deliver(context.Background(), notifier.SellerTopic(sellerID), frame))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, "new-order", got["type"])
}
