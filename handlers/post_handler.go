package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"stayfinder-backend/models"
	"stayfinder-backend/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type PostHandler struct {
	svc *services.PostService
}

func NewPostHandler(svc *services.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "UNAUTHENTICATED"})
		return
	}
	userID, err := bson.ObjectIDFromHex(identity.UserID)
	if err != nil {
		respondBadRequest(w, "invalid user id in token")
		return
	}

	var post models.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		respondBadRequest(w, "bad request format")
		return
	}
	post.PostedBy = userID

	created, err := h.svc.Create(r.Context(), &post)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, created)
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.PostFilter{
		Location: q.Get("location"),
		Type:     q.Get("type"),
	}
	if v := q.Get("minPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = p
		}
	}
	if v := q.Get("maxPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = p
		}
	}

	posts, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, posts)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := bson.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondBadRequest(w, "id is not a valid id")
		return
	}

	post, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, post)
}

func (h *PostHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := bson.ObjectIDFromHex(mux.Vars(r)["userId"])
	if err != nil {
		respondBadRequest(w, "userId is not a valid id")
		return
	}

	posts, err := h.svc.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, posts)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "UNAUTHENTICATED"})
		return
	}
	userID, err := bson.ObjectIDFromHex(identity.UserID)
	if err != nil {
		respondBadRequest(w, "invalid user id in token")
		return
	}
	id, err := bson.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondBadRequest(w, "id is not a valid id")
		return
	}

	var post models.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		respondBadRequest(w, "bad request format")
		return
	}

	updated, err := h.svc.Update(r.Context(), id, userID, &post)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, updated)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "UNAUTHENTICATED"})
		return
	}
	userID, err := bson.ObjectIDFromHex(identity.UserID)
	if err != nil {
		respondBadRequest(w, "invalid user id in token")
		return
	}
	id, err := bson.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondBadRequest(w, "id is not a valid id")
		return
	}

	if err := h.svc.Delete(r.Context(), id, userID); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"message": "post deleted"})
}
