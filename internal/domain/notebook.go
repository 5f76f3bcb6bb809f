package domain

import "time"

// Notebook is a user-created container for uploaded documents.
type Notebook struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// SourceDocument is a file uploaded into a notebook. A source belongs to
// exactly one notebook.
type SourceDocument struct {
	ID         string    `json:"id"`
	NotebookID string    `json:"notebookId"`
	FileName   string    `json:"fileName"`
	PageCount  int       `json:"pageCount,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ChunkMeta records the provenance of a vector entry.
type ChunkMeta struct {
	SourceID   string `json:"sourceId"`
	FileName   string `json:"fileName"`
	Page       string `json:"page"`
	ChunkIndex int    `json:"chunkIndex"`
}

// PagePlaceholder is used as the page value for non-paginated input.
const PagePlaceholder = "-"

// VectorEntry is the retrievable unit of text: one chunk plus its
// embedding. Entries are immutable once written.
type VectorEntry struct {
	ID       string    `json:"id"`
	Text     string    `json:"text"`
	Metadata ChunkMeta `json:"metadata"`
	Vector   []float32 `json:"vector"`
}

// Citation is a retrieval result's provenance record.
type Citation struct {
	Score    float32 `json:"score"`
	FileName string  `json:"fileName"`
	Page     string  `json:"page"`
	SourceID string  `json:"sourceId"`
	Snippet  string  `json:"snippet"`
}

// RetrievalResult holds the top-k contexts for a question with their
// citations, ordered by descending similarity.
type RetrievalResult struct {
	Contexts  []string   `json:"contexts"`
	Citations []Citation `json:"citations"`
}

// IngestResult reports how many chunks a single ingestion call added.
// AddedChunks of zero means the document produced no extractable text;
// no source record is created in that case.
type IngestResult struct {
	AddedChunks int    `json:"added"`
	SourceID    string `json:"sourceId,omitempty"`
}

// NewNotebook creates a Notebook with the given generator-assigned id.
func NewNotebook(id, title string, createdAt time.Time) *Notebook {
	return &Notebook{
		ID:        id,
		Title:     title,
		CreatedAt: createdAt,
	}
}

// ValidateNotebook validates a Notebook instance
func ValidateNotebook(n *Notebook) error {
	if n == nil {
		return NewDomainError(ErrCodeValidation, "notebook cannot be nil")
	}
	if n.ID == "" {
		return NewDomainError(ErrCodeValidation, "notebook ID is required")
	}
	if n.Title == "" {
		return NewDomainError(ErrCodeValidation, "notebook Title is required")
	}
	return nil
}
