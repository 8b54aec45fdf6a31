package service

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"net/http"
	"sync"
	"time"

	"pixelpals_backend/pkg/logger"
	"pixelpals_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	hubShardCount  = 32

	notifyChannel = "pixelpals:notify"
	typingChannel = "typing"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSEvent is the frame delivered to clients: the logical channel (private
// channel name or broadcast topic) plus the payload.
type WSEvent struct {
	Channel string      `json:"channel"`
	Data    interface{} `json:"data"`
}

// typingFrame is the only client-to-server frame the hub itself consumes;
// it is relayed transiently and never persisted.
type typingFrame struct {
	Type           string `json:"type"`
	ChatRoomID     string `json:"chatRoomId"`
	TargetUsername string `json:"targetUsername"`
}

type Client struct {
	Hub       *Hub
	Conn      *websocket.Conn
	Send      chan []byte
	UserID    string
	Username  string
	SessionID string
	Limiter   *rate.Limiter
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Hub.Presence.Disconnected(c.UserID, c.Username, c.SessionID)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.String("userId", c.UserID))
			}
			break
		}

		// 30 frames/s with a burst of 50; excess frames are dropped.
		if !c.Limiter.Allow() {
			continue
		}

		var frame typingFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			continue
		}
		if frame.Type == "TYPING" && frame.TargetUsername != "" && frame.TargetUsername != c.Username {
			c.Hub.SendToUser(frame.TargetUsername, typingChannel, map[string]interface{}{
				"type":       frame.Type,
				"chatRoomId": frame.ChatRoomID,
				"username":   c.Username,
			})
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if n := len(c.Send); n > 0 {
				for i := 0; i < n; i++ {
					w.Write(<-c.Send)
				}
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type hubShard struct {
	mu      sync.RWMutex
	clients map[string]map[string]*Client // username -> sessionID -> client
}

// Hub owns every open websocket session and implements Notifier on top of
// them. Private sends address a username (all of that user's sessions
// receive the frame); broadcasts reach every session. When Redis is
// configured, frames travel through a pub/sub channel so that every
// process delivers to its local sockets; without Redis delivery is
// in-process only.
type Hub struct {
	shards     [hubShardCount]*hubShard
	register   chan *Client
	unregister chan *Client
	Redis      *redis.Client
	Presence   *PresenceEventRouter
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewHub(rdb *redis.Client, presence *PresenceEventRouter) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		Redis:      rdb,
		Presence:   presence,
		ctx:        ctx,
		cancel:     cancel,
	}
	for i := 0; i < hubShardCount; i++ {
		h.shards[i] = &hubShard{
			clients: make(map[string]map[string]*Client),
		}
	}
	return h
}

func (h *Hub) shard(username string) *hubShard {
	f := fnv.New32a()
	f.Write([]byte(username))
	return h.shards[f.Sum32()%hubShardCount]
}

// pubSubMessage is the fan-out envelope on the Redis channel. An empty
// Username means broadcast.
type pubSubMessage struct {
	Username string          `json:"username,omitempty"`
	Channel  string          `json:"channel"`
	Payload  json.RawMessage `json:"payload"`
}

func (h *Hub) Run() {
	if h.Redis != nil {
		pubsub := h.Redis.Subscribe(h.ctx, notifyChannel)
		go func() {
			ch := pubsub.Channel()
			for msg := range ch {
				var psMsg pubSubMessage
				if err := json.Unmarshal([]byte(msg.Payload), &psMsg); err != nil {
					logger.Log.Error("PubSub unmarshal error", zap.Error(err))
					continue
				}
				h.deliverLocal(psMsg.Username, psMsg.Channel, psMsg.Payload)
			}
		}()
	}

	for {
		select {
		case client := <-h.register:
			s := h.shard(client.Username)
			s.mu.Lock()
			sessions, ok := s.clients[client.Username]
			if !ok {
				sessions = make(map[string]*Client)
				s.clients[client.Username] = sessions
				monitoring.OnlineUsers.Inc()
			}
			sessions[client.SessionID] = client
			s.mu.Unlock()
			monitoring.OpenSessions.Inc()

		case client := <-h.unregister:
			s := h.shard(client.Username)
			s.mu.Lock()
			if sessions, ok := s.clients[client.Username]; ok {
				if _, ok := sessions[client.SessionID]; ok {
					delete(sessions, client.SessionID)
					close(client.Send)
					monitoring.OpenSessions.Dec()
				}
				if len(sessions) == 0 {
					delete(s.clients, client.Username)
					monitoring.OnlineUsers.Dec()
				}
			}
			s.mu.Unlock()

		case <-h.ctx.Done():
			return
		}
	}
}

// SendToUser implements Notifier. Marshal failures and absent recipients
// are swallowed: delivery must never fail the state transition that
// triggered it.
func (h *Hub) SendToUser(username, channel string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Error("notify marshal error", zap.Error(err), zap.String("channel", channel))
		return
	}
	monitoring.NotificationCounter.WithLabelValues(channel, "out").Inc()

	if h.Redis == nil {
		h.deliverLocal(username, channel, raw)
		return
	}
	envelope, _ := json.Marshal(pubSubMessage{Username: username, Channel: channel, Payload: raw})
	h.Redis.Publish(h.ctx, notifyChannel, envelope)
}

// Broadcast implements Notifier.
func (h *Hub) Broadcast(topic string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Error("broadcast marshal error", zap.Error(err), zap.String("topic", topic))
		return
	}
	monitoring.NotificationCounter.WithLabelValues(topic, "out").Inc()

	if h.Redis == nil {
		h.deliverLocal("", topic, raw)
		return
	}
	envelope, _ := json.Marshal(pubSubMessage{Channel: topic, Payload: raw})
	h.Redis.Publish(h.ctx, notifyChannel, envelope)
}

func (h *Hub) deliverLocal(username, channel string, payload json.RawMessage) {
	frame, _ := json.Marshal(WSEvent{Channel: channel, Data: payload})

	if username == "" {
		for i := 0; i < hubShardCount; i++ {
			s := h.shards[i]
			s.mu.RLock()
			for _, sessions := range s.clients {
				for _, client := range sessions {
					select {
					case client.Send <- frame:
					default:
					}
				}
			}
			s.mu.RUnlock()
		}
		return
	}

	s := h.shard(username)
	s.mu.RLock()
	for _, client := range s.clients[username] {
		select {
		case client.Send <- frame:
		default:
		}
	}
	s.mu.RUnlock()
}

// Stop closes every connection and stops the run loop.
func (h *Hub) Stop() {
	logger.Log.Info("Hub stopping: closing connections...")

	closed := 0
	for i := 0; i < hubShardCount; i++ {
		s := h.shards[i]
		s.mu.Lock()
		for username, sessions := range s.clients {
			for sessionID, client := range sessions {
				close(client.Send)
				delete(sessions, sessionID)
				closed++
			}
			delete(s.clients, username)
		}
		s.mu.Unlock()
	}

	h.cancel()
	monitoring.OnlineUsers.Set(0)
	monitoring.OpenSessions.Set(0)
	logger.Log.Info("Hub stopped", zap.Int("closedConnections", closed))
}

// ServeWs upgrades an authenticated request, registers the session with
// the hub and routes the presence connect event.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, userID, username string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.String("userId", userID))
		return
	}
	client := &Client{
		Hub:       hub,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		UserID:    userID,
		Username:  username,
		SessionID: uuid.New().String(),
		Limiter:   rate.NewLimiter(rate.Limit(30), 50),
	}
	client.Hub.register <- client
	client.Hub.Presence.Connected(userID, username, client.SessionID)

	go client.writePump()
	go client.readPump()
}
