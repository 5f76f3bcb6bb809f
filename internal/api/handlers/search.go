package handlers

import (
	"net/http"

	"github.com/Farerworks/secondbrain-coach/internal/api"
	"github.com/Farerworks/secondbrain-coach/internal/search"
)

type SearchIndex interface {
	Search(query string) []search.Result
	RelatedTopics(topic string) []string
}

type SearchHandler struct {
	index SearchIndex
}

func NewSearchHandler(index SearchIndex) *SearchHandler {
	return &SearchHandler{index: index}
}

type SearchResultResponse struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Summary  string   `json:"summary,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Score    float64  `json:"score"`
}

type SearchResponse struct {
	Query   string                 `json:"query"`
	Results []SearchResultResponse `json:"results"`
	Related []string               `json:"related,omitempty"`
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		api.Error(w, http.StatusBadRequest, "q is required")
		return
	}

	results := h.index.Search(query)

	resp := SearchResponse{
		Query:   query,
		Results: make([]SearchResultResponse, 0, len(results)),
	}
	for _, res := range results {
		resp.Results = append(resp.Results, SearchResultResponse{
			ID:       res.Item.ID,
			Category: res.Item.Category,
			Title:    res.Item.Title,
			Content:  res.Item.Content,
			Summary:  res.Item.Summary,
			Tags:     res.Item.Tags,
			Score:    res.Score,
		})
	}
	// Related topics are found by re-searching the top match's title,
	// not its id; ids are opaque slugs the index cannot match.
	if len(results) > 0 {
		resp.Related = h.index.RelatedTopics(results[0].Item.Title)
	}

	api.Success(w, http.StatusOK, resp)
}
