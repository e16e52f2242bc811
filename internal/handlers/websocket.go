package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pacerDone/liarsdice/internal/game"
	"github.com/pacerDone/liarsdice/internal/models"
	"github.com/pacerDone/liarsdice/internal/redis"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second
	sendBuffer  = 256
	presenceTTL = 24 * time.Hour
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checking is handled by middleware
		return true
	},
}

// Client is one WebSocket connection. Its ID doubles as the player's
// identity in the game core for the connection's lifetime.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

// Hub tracks live connections and bridges them to the game registry:
// inbound actions are routed to the core, core results fan out as
// room-scoped broadcasts or unicasts.
type Hub struct {
	registry *game.Registry

	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub(registry *game.Registry) *Hub {
	return &Hub{
		registry: registry,
		clients:  make(map[string]*Client),
	}
}

// HandleGame upgrades the connection and starts its read/write pumps.
func HandleGame(h *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("Failed to upgrade connection: %v", err)
			return
		}

		client := &Client{
			ID:   uuid.New().String(),
			Conn: conn,
			Send: make(chan []byte, sendBuffer),
		}
		h.addClient(client)
		log.Printf("Connection %s established", client.ID)

		go client.writePump()
		go h.readPump(client)
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client.ID)
}

func (h *Hub) readPump(client *Client) {
	defer func() {
		h.disconnect(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error on %s: %v", client.ID, err)
			}
			break
		}

		var env models.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Printf("Failed to parse message from %s: %v", client.ID, err)
			continue
		}
		h.dispatch(client, env)
	}
}

func (h *Hub) dispatch(client *Client, env models.Envelope) {
	switch env.Type {
	case models.EventJoinGame:
		var req models.JoinGameRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			log.Printf("Malformed joinGame from %s: %v", client.ID, err)
			return
		}
		h.handleJoin(client, req)

	case models.EventMakeCall:
		var req models.MakeCallRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			log.Printf("Malformed makeCall from %s: %v", client.ID, err)
			return
		}
		h.handleCall(client, req)

	case models.EventCallLiar:
		// The lastCall payload is parsed for wire compatibility only; the
		// room's own record of the outstanding call is authoritative.
		var req models.CallLiarRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			log.Printf("Malformed callLiar from %s: %v", client.ID, err)
			return
		}
		h.handleChallenge(client)

	default:
		log.Printf("Unknown message type from %s: %s", client.ID, env.Type)
	}
}

func (h *Hub) handleJoin(client *Client, req models.JoinGameRequest) {
	name := sanitizeName(req.PlayerName)
	roomID := resolveRoomID(req.RoomID)

	res, err := h.registry.Join(client.ID, name, roomID)
	if errors.Is(err, game.ErrRoomFull) {
		h.unicast(client.ID, models.EventError, models.ErrorMessage{Message: "Room is full"})
		return
	}
	if res == nil {
		return
	}

	rc := redis.GetClient()
	ctx := context.Background()
	rc.SAdd(ctx, "room:"+res.RoomID+":peers", client.ID)
	rc.Expire(ctx, "room:"+res.RoomID+":peers", presenceTTL)

	h.broadcast(res.Members, models.EventPlayerJoined, res.Joined)
	log.Printf("Player %s (%q) joined room %s (%d/%d)",
		client.ID, name, res.RoomID, res.Joined.PlayerCount, game.MaxPlayers)

	if res.Start != nil {
		h.broadcast(res.Members, models.EventGameStart, res.Start)
		for id, hand := range res.Hands {
			h.unicast(id, models.EventDealtHand, models.DealtHand{Hand: hand})
		}
		log.Printf("Game started in room %s, first turn %s", res.RoomID, res.Start.CurrentTurn)
	}
}

func (h *Hub) handleCall(client *Client, req models.MakeCallRequest) {
	res, err := h.registry.MakeCall(client.ID, req.Quantity, req.Value)
	if errors.Is(err, game.ErrNotYourTurn) {
		h.unicast(client.ID, models.EventError, models.ErrorMessage{Message: "Not your turn"})
		return
	}
	if res == nil {
		return
	}
	h.broadcast(res.Members, models.EventCallMade, res.Call)
	h.broadcast(res.Members, models.EventNextTurn, res.NextTurn)
}

func (h *Hub) handleChallenge(client *Client) {
	res := h.registry.CallLiar(client.ID)
	if res == nil {
		return
	}
	h.broadcast(res.Members, models.EventLiarCalled, res.Result)
	for id, hand := range res.Hands {
		h.unicast(id, models.EventDealtHand, models.DealtHand{Hand: hand})
	}
	h.broadcast(res.Members, models.EventNextTurn, res.NextTurn)
}

// disconnect runs once per connection when its read pump exits.
func (h *Hub) disconnect(client *Client) {
	h.removeClient(client)

	res := h.registry.Leave(client.ID)
	if res == nil {
		log.Printf("Connection %s closed", client.ID)
		return
	}

	redis.GetClient().SRem(context.Background(), "room:"+res.RoomID+":peers", client.ID)

	h.broadcast(res.Members, models.EventPlayerLeft, res.Left)
	if res.NextTurn != nil {
		h.broadcast(res.Members, models.EventNextTurn, res.NextTurn)
	}
	log.Printf("Player %s left room %s (%d remaining)", client.ID, res.RoomID, res.Left.PlayerCount)
}

// broadcast fans an event out to every listed connection. Slow consumers
// are skipped rather than blocking the room.
func (h *Hub) broadcast(ids []string, eventType models.EventType, payload any) {
	data := marshalEnvelope(eventType, payload)
	if data == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, id := range ids {
		client, ok := h.clients[id]
		if !ok {
			continue
		}
		select {
		case client.Send <- data:
		default:
			log.Printf("Dropping %s event for connection %s, buffer full", eventType, id)
		}
	}
}

// unicast delivers an event to exactly one connection.
func (h *Hub) unicast(id string, eventType models.EventType, payload any) {
	data := marshalEnvelope(eventType, payload)
	if data == nil {
		return
	}
	h.mu.RLock()
	client, ok := h.clients[id]
	h.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case client.Send <- data:
	default:
		log.Printf("Dropping %s event for connection %s, buffer full", eventType, id)
	}
}

func marshalEnvelope(eventType models.EventType, payload any) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s payload: %v", eventType, err)
		return nil
	}
	raw, err := json.Marshal(models.Envelope{Type: eventType, Data: data})
	if err != nil {
		log.Printf("Failed to marshal %s envelope: %v", eventType, err)
		return nil
	}
	return raw
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
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Failed to write to %s: %v", c.ID, err)
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
