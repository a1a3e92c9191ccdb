package realtime

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/paobai-next/internal/constants"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func setupHubTest(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	router := gin.New()
	router.GET("/ws", hub.HandleWS)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return hub, server
}

func dialHub(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial websocket failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, channel string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.SubscriberCount(channel) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("channel %s never reached %d subscribers, got %d", channel, want, hub.SubscriberCount(channel))
}

func TestHubJoinAndBroadcast(t *testing.T) {
	hub, server := setupHubTest(t)
	channel := SessionChannel("SSTEST")

	conn := dialHub(t, server, "")
	if err := conn.WriteJSON(controlMessage{Action: "join", Channel: channel}); err != nil {
		t.Fatalf("send join failed: %v", err)
	}
	waitForSubscribers(t, hub, channel, 1)

	hub.Publish([]string{channel}, NewEvent(constants.EventNewOrder, map[string]interface{}{
		"order_id": "O123",
		"status":   constants.OrderStatusPending,
	}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read event failed: %v", err)
	}
	if event.Type != constants.EventNewOrder {
		t.Fatalf("expected event type %s, got %s", constants.EventNewOrder, event.Type)
	}
	if event.Data["order_id"] != "O123" {
		t.Fatalf("expected order_id O123, got %v", event.Data["order_id"])
	}
	if event.Timestamp.IsZero() {
		t.Fatalf("expected event timestamp to be set")
	}
}

func TestHubQueryChannelAndLeave(t *testing.T) {
	hub, server := setupHubTest(t)
	channel := constants.ChannelKitchen

	conn := dialHub(t, server, "?channel="+channel)
	waitForSubscribers(t, hub, channel, 1)

	if err := conn.WriteJSON(controlMessage{Action: "leave", Channel: channel}); err != nil {
		t.Fatalf("send leave failed: %v", err)
	}
	waitForSubscribers(t, hub, channel, 0)

	// 退出后的广播不应送达
	hub.Publish([]string{channel}, NewEvent(constants.EventOrderStatusUpdate, nil))
	_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var event Event
	if err := conn.ReadJSON(&event); err == nil {
		t.Fatalf("expected no event after leave, got %s", event.Type)
	}
}

func TestHubBroadcastSkipsOtherChannels(t *testing.T) {
	hub, server := setupHubTest(t)

	kitchenConn := dialHub(t, server, "?channel="+constants.ChannelKitchen)
	_ = dialHub(t, server, "?channel="+constants.ChannelAdmin)
	waitForSubscribers(t, hub, constants.ChannelKitchen, 1)
	waitForSubscribers(t, hub, constants.ChannelAdmin, 1)

	hub.Publish([]string{constants.ChannelKitchen}, NewEvent(constants.EventNewOrder, nil))

	_ = kitchenConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	if err := kitchenConn.ReadJSON(&event); err != nil {
		t.Fatalf("kitchen subscriber should receive event: %v", err)
	}
}
