package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ripple/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticSnapshot(posts []models.Post) SnapshotFunc {
	return func(ctx context.Context) ([]models.Post, error) {
		return posts, nil
	}
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]json.RawMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestFeedHandlerDeliversInitialSnapshot(t *testing.T) {
	posts := []models.Post{
		{Content: "hello", Likes: []string{}, Comments: []models.Comment{}},
	}
	manager := NewManager(staticSnapshot(posts))
	go manager.Start()

	server := httptest.NewServer(http.HandlerFunc(FeedHandler(manager)))
	defer server.Close()

	conn := dial(t, server)
	defer conn.Close()

	msg := readMessage(t, conn)

	var msgType string
	require.NoError(t, json.Unmarshal(msg["type"], &msgType))
	assert.Equal(t, "posts", msgType)

	var payload []models.Post
	require.NoError(t, json.Unmarshal(msg["payload"], &payload))
	require.Len(t, payload, 1)
	assert.Equal(t, "hello", payload[0].Content)
}

func TestNotifyPostsChangedBroadcasts(t *testing.T) {
	posts := []models.Post{{Content: "first"}}
	manager := NewManager(staticSnapshot(posts))
	go manager.Start()

	server := httptest.NewServer(http.HandlerFunc(FeedHandler(manager)))
	defer server.Close()

	conn := dial(t, server)
	defer conn.Close()

	// drain the initial snapshot
	readMessage(t, conn)

	manager.NotifyPostsChanged()

	msg := readMessage(t, conn)
	var payload []models.Post
	require.NoError(t, json.Unmarshal(msg["payload"], &payload))
	require.Len(t, payload, 1)
	assert.Equal(t, "first", payload[0].Content)
}

func TestFeedHandlerRejectsBadToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	manager := NewManager(staticSnapshot(nil))
	go manager.Start()

	server := httptest.NewServer(http.HandlerFunc(FeedHandler(manager)))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?token=garbage"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPingPong(t *testing.T) {
	manager := NewManager(staticSnapshot(nil))
	go manager.Start()

	server := httptest.NewServer(http.HandlerFunc(FeedHandler(manager)))
	defer server.Close()

	conn := dial(t, server)
	defer conn.Close()

	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))

	msg := readMessage(t, conn)
	var msgType string
	require.NoError(t, json.Unmarshal(msg["type"], &msgType))
	assert.Equal(t, "pong", msgType)
}
