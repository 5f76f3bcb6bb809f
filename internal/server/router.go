package server

import (
	"net/http"

	"github.com/Farerworks/secondbrain-coach/internal/api"
	"github.com/Farerworks/secondbrain-coach/internal/api/handlers"
	"github.com/Farerworks/secondbrain-coach/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	SearchHandler   *handlers.SearchHandler
	ChatHandler     *handlers.ChatHandler
	NotebookHandler *handlers.NotebookHandler
	AskHandler      *handlers.AskHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Uploads carry whole PDF files.
	const maxBodyBytes int64 = 20 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/search", cfg.SearchHandler.Search)
	r.Post("/chat", cfg.ChatHandler.Chat)

	r.Route("/rag", func(r chi.Router) {
		r.Route("/notebooks", func(r chi.Router) {
			r.Post("/", cfg.NotebookHandler.Create)
			r.Get("/", cfg.NotebookHandler.List)
			r.Post("/{notebookID}/upload", cfg.NotebookHandler.Upload)
			r.Get("/{notebookID}/sources", cfg.NotebookHandler.Sources)
		})

		r.Post("/ask", cfg.AskHandler.Ask)
		r.Post("/ingest-curated", cfg.NotebookHandler.IngestCurated)
	})

	return r
}
