package handlers

import (
	"encoding/json"
	"net/http"

	"stayfinder-backend/services"
	"stayfinder-backend/ws"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type ChatHandler struct {
	hub     *ws.Hub
	chatSvc *services.ChatService
	msgSvc  *services.MessageService
}

func NewChatHandler(hub *ws.Hub, chatSvc *services.ChatService, msgSvc *services.MessageService) *ChatHandler {
	return &ChatHandler{hub: hub, chatSvc: chatSvc, msgSvc: msgSvc}
}

// CreateRoom returns the room for the pair, creating it when absent. The
// same room comes back regardless of which participant is user1.
func (h *ChatHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User1 string `json:"user1"`
		User2 string `json:"user2"`
		Post  string `json:"post,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "bad request format")
		return
	}

	user1, err := bson.ObjectIDFromHex(req.User1)
	if err != nil {
		respondBadRequest(w, "user1 is not a valid id")
		return
	}
	user2, err := bson.ObjectIDFromHex(req.User2)
	if err != nil {
		respondBadRequest(w, "user2 is not a valid id")
		return
	}

	var postID bson.ObjectID
	if req.Post != "" {
		postID, err = bson.ObjectIDFromHex(req.Post)
		if err != nil {
			respondBadRequest(w, "post is not a valid id")
			return
		}
	}

	room, err := h.chatSvc.CreateOrGet(r.Context(), user1, user2, postID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, room)
}

// ListForUser serves the chat-list view: the user's conversations with
// participants and latest message resolved, newest first.
func (h *ChatHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := bson.ObjectIDFromHex(mux.Vars(r)["userId"])
	if err != nil {
		respondBadRequest(w, "userId is not a valid id")
		return
	}

	convos, err := h.chatSvc.ListForUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, convos)
}

// WS upgrades to the socket protocol. Auth ran in middleware; the identity
// on the context names the connection's user.
func (h *ChatHandler) WS(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "UNAUTHENTICATED"})
		return
	}
	h.hub.ServeWS(w, r, identity.UserID, identity.Name, h.msgSvc)
}
