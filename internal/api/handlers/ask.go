package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Farerworks/secondbrain-coach/internal/api"
	"github.com/Farerworks/secondbrain-coach/internal/domain"
)

type Retriever interface {
	Ask(ctx context.Context, notebookID, question string, k int) (*domain.RetrievalResult, error)
}

type ContextAnswerer interface {
	AnswerFromContexts(ctx context.Context, question string, contexts []string) string
}

type AskHandler struct {
	retriever Retriever
	answerer  ContextAnswerer
}

func NewAskHandler(retriever Retriever, answerer ContextAnswerer) *AskHandler {
	return &AskHandler{retriever: retriever, answerer: answerer}
}

type AskRequest struct {
	NotebookID string `json:"notebookId"`
	Question   string `json:"question"`
	TopK       int    `json:"topK,omitempty"`
}

type AskResponse struct {
	Answer    string            `json:"answer"`
	Citations []domain.Citation `json:"citations"`
}

func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NotebookID == "" {
		api.Error(w, http.StatusBadRequest, "notebookId is required")
		return
	}
	if req.Question == "" {
		api.Error(w, http.StatusBadRequest, "question is required")
		return
	}

	result, err := h.retriever.Ask(r.Context(), req.NotebookID, req.Question, req.TopK)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := AskResponse{
		Answer:    h.answerer.AnswerFromContexts(r.Context(), req.Question, result.Contexts),
		Citations: result.Citations,
	}

	api.Success(w, http.StatusOK, resp)
}
