package ws

import (
	"log/slog"
	"net/http"
	"sync"

	"stayfinder-backend/models"
	"stayfinder-backend/services"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub tracks which live connections are listening to which rooms and fans
// message events out to them. It is constructed once in main and passed to
// the handlers; there is no package-level instance.
//
// Membership is volatile: it exists only for the lifetime of a connection
// and is re-established on every reconnect. Messages broadcast while a
// participant is disconnected are never replayed; only the REST history
// surfaces them.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]bool
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		rooms:   make(map[string]map[*Client]bool),
		clients: make(map[*Client]bool),
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
}

// unregister drops the connection from every room it had joined and closes
// its send channel.
func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.clients[client] {
		return
	}
	delete(h.clients, client)
	for roomID := range client.rooms {
		h.dropLocked(client, roomID)
	}
	close(client.send)

	slog.Info("client disconnected", "conn", client.id, "user", client.userID)
}

// Join adds the connection to the room's membership set. There is no
// capacity limit and no check against the room's participants; the socket
// layer trusts the authenticated REST surface for authorization.
func (h *Hub) Join(client *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	client.rooms[roomID] = true

	slog.Info("client joined room", "conn", client.id, "user", client.userID,
		"room", roomID, "members", len(h.rooms[roomID]))
}

// Leave is idempotent: leaving a room that was never joined is a no-op.
func (h *Hub) Leave(client *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(client, roomID)
}

func (h *Hub) dropLocked(client *Client, roomID string) {
	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(members, client)
	delete(client.rooms, roomID)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
}

// RoomSize reports the number of live connections joined to a room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// BroadcastMessage implements services.Broadcaster. Every message goes out
// twice: receiveMessage to all joined connections except the sender's own
// (for open transcript views) and updateMessage to every joined connection
// including the sender (for chat-list synchronization). A room with no
// members is silently a no-op.
func (h *Hub) BroadcastMessage(msg models.Message, senderName string) {
	env := envelopeFor(msg, senderName)

	receiveFrame, err := marshalFrame(EventReceiveMessage, env)
	if err != nil {
		slog.Error("failed to marshal receiveMessage frame", "err", err)
		return
	}
	updateFrame, err := marshalFrame(EventUpdateMessage, env)
	if err != nil {
		slog.Error("failed to marshal updateMessage frame", "err", err)
		return
	}

	h.mu.RLock()
	var slow []*Client
	for client := range h.rooms[env.ChatRoom] {
		ok := true
		if client.userID != env.Sender {
			ok = client.trySend(receiveFrame)
		}
		if ok {
			ok = client.trySend(updateFrame)
		}
		if !ok {
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	// A full send buffer means the client stopped draining; cut it loose
	// rather than block the broadcast.
	for _, client := range slow {
		slog.Warn("dropping slow client", "conn", client.id, "user", client.userID)
		client.conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and starts the connection's pumps. The
// caller has already authenticated the user.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID, username string, msgSvc *services.MessageService) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "user", userID, "err", err)
		return
	}

	client := &Client{
		id:       uuid.New(),
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, 256),
		userID:   userID,
		username: username,
		rooms:    make(map[string]bool),
		msgSvc:   msgSvc,
	}
	h.register(client)

	slog.Info("client connected", "conn", client.id, "user", userID)

	go client.writePump()
	go client.readPump()
}
