package realtime

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event 实时推送事件
type Event struct {
	Type      string                 `json:"type"`      // 事件类型
	Data      map[string]interface{} `json:"data"`      // 事件负载
	Timestamp time.Time              `json:"timestamp"` // 发出时间
}

// NewEvent 创建事件
func NewEvent(eventType string, data map[string]interface{}) Event {
	return Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// SessionChannel 会话频道名
func SessionChannel(sessionID string) string {
	return constants.ChannelSessionPrefix + sessionID
}

// RestaurantChannel 餐厅频道名
func RestaurantChannel(restaurantID uint) string {
	return fmt.Sprintf("%s%d", constants.ChannelRestaurantPrefix, restaurantID)
}

type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) writeJSON(value interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(value)
}

// Hub 频道化实时推送中心。
// 推送为尽力而为：写失败即断开并移除客户端，不重试、不回放。
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*client]struct{}
}

// NewHub 创建推送中心
func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[*client]struct{}),
	}
}

func (h *Hub) subscribe(channel string, c *client) (unsubscribe func()) {
	key := strings.TrimSpace(channel)
	if key == "" {
		return func() {}
	}

	h.mu.Lock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[*client]struct{})
	}
	h.subs[key][c] = struct{}{}
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		clients := h.subs[key]
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.subs, key)
		}
		h.mu.Unlock()
	}
}

// SubscriberCount 频道当前订阅数
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[strings.TrimSpace(channel)])
}

// Publish 向多个频道广播事件（至多一次送达）
func (h *Hub) Publish(channels []string, event Event) {
	for _, channel := range channels {
		h.broadcast(channel, event)
	}
}

func (h *Hub) broadcast(channel string, event Event) {
	key := strings.TrimSpace(channel)
	if key == "" {
		return
	}

	h.mu.RLock()
	clientsMap := h.subs[key]
	clients := make([]*client, 0, len(clientsMap))
	for c := range clientsMap {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	for _, c := range clients {
		if err := c.writeJSON(event); err != nil {
			_ = c.conn.Close()
			h.mu.Lock()
			if current := h.subs[key]; current != nil {
				delete(current, c)
				if len(current) == 0 {
					delete(h.subs, key)
				}
			}
			h.mu.Unlock()
			logger.Debugw("realtime_client_dropped", "channel", key, "error", err)
		}
	}
}

// controlMessage 客户端控制帧（加入/退出频道）
type controlMessage struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

// HandleWS 处理 WebSocket 连接，按控制帧维护频道订阅
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnw("ws_upgrade_failed", "error", err)
		return
	}

	wsClient := &client{conn: conn}
	unsubscribes := make(map[string]func())
	defer func() {
		for _, unsub := range unsubscribes {
			unsub()
		}
		_ = conn.Close()
	}()

	// 支持通过查询参数预订阅频道
	if channel := strings.TrimSpace(c.Query("channel")); channel != "" {
		unsubscribes[channel] = h.subscribe(channel, wsClient)
	}

	for {
		var msg controlMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		channel := strings.TrimSpace(msg.Channel)
		if channel == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(msg.Action)) {
		case "join":
			if _, ok := unsubscribes[channel]; !ok {
				unsubscribes[channel] = h.subscribe(channel, wsClient)
			}
		case "leave":
			if unsub, ok := unsubscribes[channel]; ok {
				unsub()
				delete(unsubscribes, channel)
			}
		}
	}
}
