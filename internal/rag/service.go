// Package rag coordinates chunking, embedding, persistence, and top-k
// retrieval for notebooks.
package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/Farerworks/secondbrain-coach/internal/domain"
	"github.com/Farerworks/secondbrain-coach/internal/knowledge"
	"github.com/Farerworks/secondbrain-coach/internal/store"
	"github.com/Farerworks/secondbrain-coach/internal/telemetry"
)

const (
	// DefaultTopK is used when the caller does not request a count.
	DefaultTopK = 5
	// MaxTopK caps retrieval size regardless of the request.
	MaxTopK = 8

	snippetMaxRunes = 200

	// CuratedFileName is the synthetic document name used when bulk
	// ingesting the curated knowledge collections into a notebook.
	CuratedFileName = "curated.jsonl"
)

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore defines the persistence interface the pipeline needs.
type VectorStore interface {
	CreateNotebook(title string) (*domain.Notebook, error)
	ListNotebooks() ([]domain.Notebook, error)
	HasNotebook(notebookID string) (bool, error)
	ListSources(notebookID string) ([]domain.SourceDocument, error)
	AppendSource(notebookID string, source domain.SourceDocument, entries []domain.VectorEntry) error
	Entries(notebookID string) ([]domain.VectorEntry, error)
}

// Service is the retrieval pipeline: documents in, ranked contexts out.
type Service struct {
	store    VectorStore
	embedder EmbeddingClient
}

// NewService creates the retrieval pipeline over the given store and
// embedding client.
func NewService(vs VectorStore, embedder EmbeddingClient) *Service {
	return &Service{store: vs, embedder: embedder}
}

// CreateNotebook creates and persists a notebook.
func (s *Service) CreateNotebook(title string) (*domain.Notebook, error) {
	if title == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "title is required")
	}
	return s.store.CreateNotebook(title)
}

// ListNotebooks returns all notebooks.
func (s *Service) ListNotebooks() ([]domain.Notebook, error) {
	return s.store.ListNotebooks()
}

// ListSources returns the source documents of a notebook.
func (s *Service) ListSources(notebookID string) ([]domain.SourceDocument, error) {
	return s.store.ListSources(notebookID)
}

// chunkPiece is one passage awaiting embedding, with its provenance.
type chunkPiece struct {
	text string
	page string
	idx  int
}

// Ingest chunks, embeds, and persists an uploaded file. PDF content is
// paginated first; everything else is treated as UTF-8 plain text. A
// document that yields no chunks is a zero-count success and records no
// source entry.
func (s *Service) Ingest(ctx context.Context, notebookID, fileName string, data []byte, mimeType string) (*domain.IngestResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "RAGService.Ingest", telemetry.SpanAttributes{
		NotebookID: notebookID,
		Operation:  "ingest",
	})
	defer span.End()

	ok, err := s.store.HasNotebook(notebookID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotebookNotFound
	}

	var pieces []chunkPiece
	if IsPDF(fileName, mimeType) {
		pages, err := ExtractPDFPages(data)
		if err != nil {
			return nil, fmt.Errorf("failed to extract pdf text: %w", err)
		}
		for i, page := range pages {
			for j, c := range Chunk(page) {
				pieces = append(pieces, chunkPiece{text: c, page: fmt.Sprintf("%d", i+1), idx: j})
			}
		}
	} else {
		for j, c := range Chunk(string(data)) {
			pieces = append(pieces, chunkPiece{text: c, page: domain.PagePlaceholder, idx: j})
		}
	}

	return s.persistChunks(ctx, notebookID, fileName, pieces)
}

// IngestText ingests pre-flattened text as a synthetic document,
// skipping MIME dispatch.
func (s *Service) IngestText(ctx context.Context, notebookID, fileName, text string) (*domain.IngestResult, error) {
	ok, err := s.store.HasNotebook(notebookID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotebookNotFound
	}

	var pieces []chunkPiece
	for j, c := range Chunk(text) {
		pieces = append(pieces, chunkPiece{text: c, page: domain.PagePlaceholder, idx: j})
	}
	return s.persistChunks(ctx, notebookID, fileName, pieces)
}

// IngestCurated flattens the curated knowledge collections and ingests
// them into the notebook as one synthetic document.
func (s *Service) IngestCurated(ctx context.Context, notebookID string) (*domain.IngestResult, error) {
	text, err := knowledge.CuratedText()
	if err != nil {
		return nil, err
	}
	return s.IngestText(ctx, notebookID, CuratedFileName, text)
}

func (s *Service) persistChunks(ctx context.Context, notebookID, fileName string, pieces []chunkPiece) (*domain.IngestResult, error) {
	if len(pieces) == 0 {
		return &domain.IngestResult{AddedChunks: 0}, nil
	}

	texts := make([]string, len(pieces))
	for i, p := range pieces {
		texts[i] = p.text
	}
	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}

	sourceID := store.NewSourceID()
	now := time.Now().UTC()
	source := domain.SourceDocument{
		ID:         sourceID,
		NotebookID: notebookID,
		FileName:   fileName,
		UploadedAt: now,
	}

	entries := make([]domain.VectorEntry, len(pieces))
	for i, p := range pieces {
		entries[i] = domain.VectorEntry{
			ID:   fmt.Sprintf("%s_%d", sourceID, i),
			Text: p.text,
			Metadata: domain.ChunkMeta{
				SourceID:   sourceID,
				FileName:   fileName,
				Page:       p.page,
				ChunkIndex: p.idx,
			},
			Vector: vectors[i],
		}
	}

	if err := s.store.AppendSource(notebookID, source, entries); err != nil {
		return nil, err
	}
	return &domain.IngestResult{AddedChunks: len(pieces), SourceID: sourceID}, nil
}

// Ask embeds the question once and returns the top-k contexts with
// citations, best first. A notebook with no entries yields an empty
// result, not an error. k is clamped to [1, MaxTopK]; zero means
// DefaultTopK.
func (s *Service) Ask(ctx context.Context, notebookID, question string, k int) (*domain.RetrievalResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "RAGService.Ask", telemetry.SpanAttributes{
		NotebookID: notebookID,
		Operation:  "ask",
	})
	defer span.End()

	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}
	if k <= 0 {
		k = DefaultTopK
	}
	if k > MaxTopK {
		k = MaxTopK
	}

	entries, err := s.store.Entries(notebookID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return &domain.RetrievalResult{Contexts: []string{}, Citations: []domain.Citation{}}, nil
	}

	vectors, err := s.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		return nil, err
	}

	ranked := store.TopKSimilar(vectors[0], entries, k)
	contexts := make([]string, len(ranked))
	citations := make([]domain.Citation, len(ranked))
	for i, r := range ranked {
		contexts[i] = r.Entry.Text
		citations[i] = domain.Citation{
			Score:    r.Score,
			FileName: r.Entry.Metadata.FileName,
			Page:     r.Entry.Metadata.Page,
			SourceID: r.Entry.Metadata.SourceID,
			Snippet:  snippet(r.Entry.Text),
		}
	}
	return &domain.RetrievalResult{Contexts: contexts, Citations: citations}, nil
}

func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetMaxRunes {
		return text
	}
	return string(runes[:snippetMaxRunes])
}
