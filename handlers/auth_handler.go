package handlers

import (
	"encoding/json"
	"net/http"

	"stayfinder-backend/services"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register starts the OTP flow: the account is only created after the
// emailed code is verified.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "bad request format")
		return
	}

	if err := h.svc.RequestOtp(r.Context(), req.Name, req.Email, req.Password); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{
		"message": "otp sent to " + req.Email,
	})
}

func (h *AuthHandler) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Otp   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "bad request format")
		return
	}
	if req.Email == "" || req.Otp == "" {
		respondBadRequest(w, "email and otp are required")
		return
	}

	token, user, err := h.svc.VerifyOtp(r.Context(), req.Email, req.Otp)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "bad request format")
		return
	}

	token, user, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "UNAUTHENTICATED"})
		return
	}
	id, err := bson.ObjectIDFromHex(identity.UserID)
	if err != nil {
		respondBadRequest(w, "invalid user id in token")
		return
	}

	user, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "UNAUTHENTICATED"})
		return
	}
	id, err := bson.ObjectIDFromHex(identity.UserID)
	if err != nil {
		respondBadRequest(w, "invalid user id in token")
		return
	}

	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "bad request format")
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), id, req.Name, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, user)
}
