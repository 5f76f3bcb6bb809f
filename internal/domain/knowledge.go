package domain

// Knowledge categories used by the static corpus. Curated collections may
// carry free-form categories beyond these.
const (
	CategoryPARA    = "PARA"
	CategoryCODE    = "CODE"
	CategoryNotes   = "NOTES"
	CategoryReview  = "REVIEW"
	CategoryGeneral = "GENERAL"

	// CategoryCurated is stamped on curated-collection items that carry no
	// category of their own.
	CategoryCurated = "닥터가드너"
)

// TypeCurated marks items loaded from the curated collections. Ranking
// prefers these over generic corpus entries.
const TypeCurated = "dr-gardner"

// KnowledgeItem is a methodology article in the static knowledge base.
// ID is unique per source collection; the merged corpus keeps duplicate
// IDs from distinct sources as distinct entries.
type KnowledgeItem struct {
	ID            string   `json:"id"`
	Category      string   `json:"category"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Keywords      []string `json:"keywords"`
	Examples      []string `json:"examples,omitempty"`
	RelatedTopics []string `json:"relatedTopics,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Type          string   `json:"type,omitempty"`
	KeyPoints     []string `json:"keyPoints,omitempty"`
	Summary       string   `json:"summary,omitempty"`
}

// IsCurated reports whether the item came from a curated collection.
func (k KnowledgeItem) IsCurated() bool {
	return k.Type == TypeCurated
}
