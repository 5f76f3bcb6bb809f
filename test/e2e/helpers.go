//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Farerworks/secondbrain-coach/internal/api/handlers"
	"github.com/Farerworks/secondbrain-coach/internal/knowledge"
	"github.com/Farerworks/secondbrain-coach/internal/rag"
	"github.com/Farerworks/secondbrain-coach/internal/search"
	"github.com/Farerworks/secondbrain-coach/internal/server"
	"github.com/Farerworks/secondbrain-coach/internal/service"
	"github.com/Farerworks/secondbrain-coach/internal/store"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T          *testing.T
	Ctx        context.Context
	Server     *httptest.Server
	HTTPClient *http.Client
}

// hashEmbedder produces deterministic vectors from text content so
// retrieval ordering is stable without a live model endpoint.
type hashEmbedder struct{}

func (hashEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, 8)
		for j, r := range text {
			vec[j%8] += float32(r%97) / 97
		}
		out[i] = vec
	}
	return out, nil
}

// SetupE2EEnv builds a full in-process server over a temp data dir.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	vectorStore, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open vector store: %v", err)
	}

	ragSvc := rag.NewService(vectorStore, hashEmbedder{})

	corpus, err := knowledge.Load()
	if err != nil {
		t.Fatalf("failed to load knowledge base: %v", err)
	}
	index := search.NewIndex(corpus.Items)
	chatSvc := service.NewChatService(index, nil)

	router := server.NewRouter(server.RouterConfig{
		SearchHandler:   handlers.NewSearchHandler(index),
		ChatHandler:     handlers.NewChatHandler(chatSvc),
		NotebookHandler: handlers.NewNotebookHandler(ragSvc),
		AskHandler:      handlers.NewAskHandler(ragSvc, chatSvc),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &E2ETestEnv{
		T:          t,
		Ctx:        ctx,
		Server:     srv,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIResponse is the standard success envelope.
type APIResponse struct {
	Data json.RawMessage `json:"data"`
}

// APIError is the standard error envelope.
type APIError struct {
	Error string `json:"error"`
}

// Get performs a GET request and decodes the success envelope.
func (e *E2ETestEnv) Get(path string) (*APIResponse, error) {
	resp, err := e.HTTPClient.Get(e.Server.URL + path)
	if err != nil {
		return nil, err
	}
	return decodeResponse(resp)
}

// Post performs a JSON POST request and decodes the success envelope.
func (e *E2ETestEnv) Post(path string, body interface{}) (*APIResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	resp, err := e.HTTPClient.Post(e.Server.URL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	return decodeResponse(resp)
}

// PostExpectStatus performs a JSON POST and returns the raw status and body.
func (e *E2ETestEnv) PostExpectStatus(path string, body interface{}) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, err
	}

	resp, err := e.HTTPClient.Post(e.Server.URL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, raw, nil
}

// Upload sends a multipart file to the notebook upload endpoint.
func (e *E2ETestEnv) Upload(notebookID, fileName string, content []byte) (*APIResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(content); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/rag/notebooks/%s/upload", e.Server.URL, notebookID)
	resp, err := e.HTTPClient.Post(url, mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	return decodeResponse(resp)
}

func decodeResponse(resp *http.Response) (*APIResponse, error) {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var apiErr APIError
		if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("http %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(raw))
	}

	var envelope APIResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &envelope, nil
}
