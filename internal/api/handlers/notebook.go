package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/Farerworks/secondbrain-coach/internal/api"
	"github.com/Farerworks/secondbrain-coach/internal/domain"
	"github.com/go-chi/chi/v5"
)

const uploadMemoryLimit = 8 << 20

// RAGService is the retrieval pipeline surface the notebook endpoints use.
type RAGService interface {
	CreateNotebook(title string) (*domain.Notebook, error)
	ListNotebooks() ([]domain.Notebook, error)
	ListSources(notebookID string) ([]domain.SourceDocument, error)
	Ingest(ctx context.Context, notebookID, fileName string, data []byte, mimeType string) (*domain.IngestResult, error)
	IngestText(ctx context.Context, notebookID, fileName, text string) (*domain.IngestResult, error)
	IngestCurated(ctx context.Context, notebookID string) (*domain.IngestResult, error)
}

type NotebookHandler struct {
	svc RAGService
}

func NewNotebookHandler(svc RAGService) *NotebookHandler {
	return &NotebookHandler{svc: svc}
}

type CreateNotebookRequest struct {
	Title string `json:"title"`
}

func (h *NotebookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateNotebookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		api.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	notebook, err := h.svc.CreateNotebook(req.Title)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, notebook)
}

func (h *NotebookHandler) List(w http.ResponseWriter, r *http.Request) {
	notebooks, err := h.svc.ListNotebooks()
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, notebooks)
}

func (h *NotebookHandler) Sources(w http.ResponseWriter, r *http.Request) {
	notebookID := chi.URLParam(r, "notebookID")

	sources, err := h.svc.ListSources(notebookID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, sources)
}

// UploadFileResult reports ingestion of one uploaded file.
type UploadFileResult struct {
	File string `json:"file"`
	domain.IngestResult
}

// UploadResponse aggregates results for every file in one upload.
type UploadResponse struct {
	NotebookID string             `json:"notebookId"`
	Results    []UploadFileResult `json:"results"`
}

// Upload ingests documents into a notebook. Accepts a multipart form
// with one or more "file" parts, or a JSON body with fileName and text
// fields for a single plain-text document.
func (h *NotebookHandler) Upload(w http.ResponseWriter, r *http.Request) {
	notebookID := chi.URLParam(r, "notebookID")

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.uploadMultipart(w, r, notebookID)
		return
	}

	var req struct {
		FileName string `json:"fileName"`
		Text     string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FileName == "" {
		api.Error(w, http.StatusBadRequest, "fileName is required")
		return
	}

	result, err := h.svc.IngestText(r.Context(), notebookID, req.FileName, req.Text)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}

func (h *NotebookHandler) uploadMultipart(w http.ResponseWriter, r *http.Request, notebookID string) {
	if err := r.ParseMultipartForm(uploadMemoryLimit); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		api.Error(w, http.StatusBadRequest, "file is required")
		return
	}

	resp := UploadResponse{NotebookID: notebookID}
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			api.Error(w, http.StatusBadRequest, "failed to read file")
			return
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			api.Error(w, http.StatusBadRequest, "failed to read file")
			return
		}

		result, err := h.svc.Ingest(r.Context(), notebookID, header.Filename, data, header.Header.Get("Content-Type"))
		if err != nil {
			api.HandleError(w, err)
			return
		}

		resp.Results = append(resp.Results, UploadFileResult{File: header.Filename, IngestResult: *result})
	}

	api.Success(w, http.StatusOK, resp)
}

type IngestCuratedRequest struct {
	NotebookID string `json:"notebookId"`
}

// IngestCurated loads the bundled coaching collections into a notebook.
func (h *NotebookHandler) IngestCurated(w http.ResponseWriter, r *http.Request) {
	var req IngestCuratedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NotebookID == "" {
		api.Error(w, http.StatusBadRequest, "notebookId is required")
		return
	}

	result, err := h.svc.IngestCurated(r.Context(), req.NotebookID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}
