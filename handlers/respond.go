package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"stayfinder-backend/pkg/apperrors"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondSuccess(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, SuccessResponse{Success: true, Data: data})
}

// respondError maps the error taxonomy onto HTTP. Internal failures get a
// generic body; the detail goes to the log only.
func respondError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	code := apperrors.CodeOf(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "code", code, "err", err)
		message = "something went wrong"
	}
	respondJSON(w, status, ErrorResponse{Error: string(code), Message: message})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   string(apperrors.CodeInvalidArgument),
		Message: message,
	})
}
