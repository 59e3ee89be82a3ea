package handlers

import (
	"net/http"

	"stayfinder-backend/services"
)

type UploadHandler struct {
	svc *services.UploadService
}

func NewUploadHandler(svc *services.UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

// Signature hands the client signed params for a direct CDN upload.
func (h *UploadHandler) Signature(w http.ResponseWriter, r *http.Request) {
	sig := h.svc.Sign(r.URL.Query().Get("folder"))
	respondSuccess(w, http.StatusOK, sig)
}
