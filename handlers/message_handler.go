package handlers

import (
	"encoding/json"
	"net/http"

	"stayfinder-backend/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type MessageHandler struct {
	svc *services.MessageService
}

func NewMessageHandler(svc *services.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// Send persists a message and broadcasts it to the room's live sockets.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChatRoomID string `json:"chatRoomId"`
		SenderID   string `json:"senderId"`
		Content    string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "bad request format")
		return
	}

	roomID, err := bson.ObjectIDFromHex(req.ChatRoomID)
	if err != nil {
		respondBadRequest(w, "chatRoomId is not a valid id")
		return
	}
	senderID, err := bson.ObjectIDFromHex(req.SenderID)
	if err != nil {
		respondBadRequest(w, "senderId is not a valid id")
		return
	}

	msg, err := h.svc.Send(r.Context(), roomID, senderID, req.Content)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": msg,
	})
}

// List returns the room's transcript, oldest first.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	roomID, err := bson.ObjectIDFromHex(mux.Vars(r)["chatRoomId"])
	if err != nil {
		respondBadRequest(w, "chatRoomId is not a valid id")
		return
	}

	msgs, err := h.svc.ListByRoom(r.Context(), roomID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"messages": msgs,
	})
}
