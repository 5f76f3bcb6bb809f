package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Farerworks/secondbrain-coach/internal/api"
	"github.com/Farerworks/secondbrain-coach/internal/service"
)

type ChatAnswerer interface {
	Answer(ctx context.Context, message string) (*service.ChatOutput, error)
}

type ChatHandler struct {
	svc ChatAnswerer
}

func NewChatHandler(svc ChatAnswerer) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type ChatRequest struct {
	Message string `json:"message"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		api.Error(w, http.StatusBadRequest, "message is required")
		return
	}

	out, err := h.svc.Answer(r.Context(), req.Message)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, out)
}
