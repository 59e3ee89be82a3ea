package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"stayfinder-backend/services"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	readDeadline  = 300 * time.Second
	writeDeadline = 30 * time.Second
	pingInterval  = 240 * time.Second
	sendTimeout   = 10 * time.Second
)

// Client is one live WebSocket connection. rooms is the set of room ids the
// connection has joined; it is owned by the hub and only touched under the
// hub's lock.
type Client struct {
	id       uuid.UUID
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	userID   string
	username string
	rooms    map[string]bool
	msgSvc   *services.MessageService
}

// trySend queues a frame without blocking; false means the buffer is full.
func (c *Client) trySend(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) sendError(message string) {
	frame, err := marshalFrame(EventError, ErrorPayload{Message: message})
	if err != nil {
		return
	}
	c.trySend(frame)
}

// readPump decodes incoming frames and dispatches them. Malformed frames
// and unknown events get an error frame back; the connection stays open.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("client read error", "conn", c.id, "err", err)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.sendError("malformed frame")
			continue
		}

		switch frame.Event {
		case EventJoinRoom:
			var p RoomPayload
			if err := decodePayload(frame.Data, &p); err != nil || p.RoomID == "" {
				c.sendError("joinRoom requires a roomId")
				continue
			}
			c.hub.Join(c, p.RoomID)
		case EventLeaveRoom:
			var p RoomPayload
			if err := decodePayload(frame.Data, &p); err != nil || p.RoomID == "" {
				c.sendError("leaveRoom requires a roomId")
				continue
			}
			c.hub.Leave(c, p.RoomID)
		case EventSendMessage:
			c.handleSendMessage(frame.Data)
		default:
			c.sendError("unknown event: " + frame.Event)
		}
	}
}

// handleSendMessage routes a socket send through the same service as the
// REST path: persist first, broadcast on success. The authenticated user is
// the sender regardless of what the payload claims.
func (c *Client) handleSendMessage(raw json.RawMessage) {
	var p SendMessagePayload
	if err := decodePayload(raw, &p); err != nil {
		c.sendError("malformed sendMessage payload")
		return
	}

	roomID, err := bson.ObjectIDFromHex(p.ChatID)
	if err != nil {
		c.sendError("invalid chatId")
		return
	}
	senderID, err := bson.ObjectIDFromHex(c.userID)
	if err != nil {
		c.sendError("invalid sender identity")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if _, err := c.msgSvc.Send(ctx, roomID, senderID, p.Message); err != nil {
		slog.Warn("socket send failed", "conn", c.id, "room", p.ChatID, "err", err)
		c.sendError(err.Error())
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				slog.Warn("client write error", "conn", c.id, "err", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
