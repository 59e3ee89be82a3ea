package ws

import (
	"encoding/json"
	"errors"
	"time"

	"stayfinder-backend/models"
)

// Wire event names. These are the socket contract; renaming one breaks
// every connected client.
const (
	EventJoinRoom       = "joinRoom"
	EventLeaveRoom      = "leaveRoom"
	EventSendMessage    = "sendMessage"
	EventReceiveMessage = "receiveMessage"
	EventUpdateMessage  = "updateMessage"
	EventError          = "error"
)

// Frame is the closed envelope every socket message travels in. Unknown
// events and malformed data are rejected on receipt, never half-applied.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Envelope is the broadcast payload for one chat message event.
type Envelope struct {
	Content    string `json:"content"`
	Sender     string `json:"sender"`
	SenderName string `json:"senderName"`
	Timestamp  string `json:"timestamp"`
	ChatRoom   string `json:"chatRoom"`
}

func envelopeFor(msg models.Message, senderName string) Envelope {
	return Envelope{
		Content:    msg.Content,
		Sender:     msg.SenderID.Hex(),
		SenderName: senderName,
		Timestamp:  msg.Timestamp.UTC().Format(time.RFC3339),
		ChatRoom:   msg.ChatRoomID.Hex(),
	}
}

type RoomPayload struct {
	RoomID string `json:"roomId"`
}

type SendMessagePayload struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
	Sender  string `json:"sender"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func marshalFrame(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Data: raw})
}

func decodePayload(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return errors.New("missing payload")
	}
	return json.Unmarshal(raw, out)
}
