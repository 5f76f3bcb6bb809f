// Package search implements the weighted fuzzy full-text index over the
// static knowledge corpus, with locale-aware query normalization and a
// prioritized re-ranking rule pipeline on top of the raw scores.
package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/Farerworks/secondbrain-coach/internal/domain"
)

const (
	// minMatchLength is the minimum matched-token length in runes.
	minMatchLength = 2
	// scoreThreshold excludes items scoring worse than this on every
	// field. Scores are in [0,1]; lower is better.
	scoreThreshold = 0.4
	// maxResults caps Search output after all re-ranking steps.
	maxResults = 10
)

// Result pairs a knowledge item with its match score. Score 0 is a
// perfect match; results are transient and never persisted.
type Result struct {
	Item  domain.KnowledgeItem
	Score float64
}

type fieldWeight struct {
	weight float64
	values func(item *domain.KnowledgeItem) []string
}

// Field weights mirror the corpus shape: content is the primary
// searchable field.
var searchFields = []fieldWeight{
	{0.3, func(i *domain.KnowledgeItem) []string { return []string{i.Title} }},
	{0.4, func(i *domain.KnowledgeItem) []string { return []string{i.Content} }},
	{0.3, func(i *domain.KnowledgeItem) []string { return i.Keywords }},
	{0.2, func(i *domain.KnowledgeItem) []string { return i.Tags }},
	{0.2, func(i *domain.KnowledgeItem) []string { return []string{i.Summary} }},
}

// Index is the in-memory fuzzy search index. It is immutable after
// construction and safe for concurrent use.
type Index struct {
	items   []domain.KnowledgeItem
	curated []domain.KnowledgeItem
	rules   []rerankRule
}

// NewIndex builds an index over the merged corpus.
func NewIndex(items []domain.KnowledgeItem) *Index {
	curated := make([]domain.KnowledgeItem, 0, len(items))
	for _, item := range items {
		if item.IsCurated() {
			curated = append(curated, item)
		}
	}
	return &Index{
		items:   items,
		curated: curated,
		rules:   defaultRules(),
	}
}

// Search runs the weighted fuzzy match for the query, applies the
// re-ranking rules in order, and returns at most 10 results, best
// first. A blank query yields no results; Search never fails.
func (idx *Index) Search(query string) []Result {
	normalized := NormalizeQuery(query)
	results := idx.rawSearch(normalized, idx.items)

	for _, rule := range idx.rules {
		if rule.applies(query) {
			results = rule.apply(idx, query, results)
		}
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// SearchCurated runs the same weighted match restricted to the curated
// subset, without re-ranking or truncation.
func (idx *Index) SearchCurated(query string) []Result {
	return idx.rawSearch(NormalizeQuery(query), idx.curated)
}

// SearchByCategory returns every item whose category equals the given
// category (case-insensitive) or contains it as a substring. No ranking.
func (idx *Index) SearchByCategory(category string) []domain.KnowledgeItem {
	matched := make([]domain.KnowledgeItem, 0, 8)
	for _, item := range idx.items {
		if strings.EqualFold(item.Category, category) || strings.Contains(item.Category, category) {
			matched = append(matched, item)
		}
	}
	return matched
}

// RelatedTopics searches for the topic and unions the related-topic
// lists of the ranked results, preserving first-seen order.
func (idx *Index) RelatedTopics(topic string) []string {
	seen := make(map[string]struct{})
	topics := make([]string, 0, 16)
	for _, result := range idx.Search(topic) {
		for _, t := range result.Item.RelatedTopics {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			topics = append(topics, t)
		}
	}
	return topics
}

// rawSearch scores every item against the normalized query and returns
// the matches sorted by ascending score, corpus order on ties.
func (idx *Index) rawSearch(normalized string, items []domain.KnowledgeItem) []Result {
	tokens := tokenize(normalized)
	if len(tokens) == 0 {
		return []Result{}
	}

	results := make([]Result, 0, len(items))
	for i := range items {
		score, ok := scoreItem(tokens, &items[i])
		if !ok {
			continue
		}
		results = append(results, Result{Item: items[i], Score: score})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score < results[b].Score
	})
	return results
}

// scoreItem computes the weighted score across all fields. Every field
// is scored (no short-circuit on first match); an item qualifies only
// if at least one field beats the threshold.
func scoreItem(tokens []string, item *domain.KnowledgeItem) (float64, bool) {
	var weighted, totalWeight float64
	matched := false

	for _, field := range searchFields {
		score, ok := scoreField(tokens, field.values(item))
		if !ok {
			continue
		}
		if score <= scoreThreshold {
			matched = true
		}
		weighted += field.weight * score
		totalWeight += field.weight
	}

	if !matched || totalWeight == 0 {
		return 0, false
	}
	return weighted / totalWeight, true
}

// scoreField returns the best score over a field's values. Multi-valued
// fields (keywords, tags) score each value independently.
func scoreField(tokens []string, values []string) (float64, bool) {
	best := 1.0
	found := false
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			continue
		}
		score := scoreText(tokens, value)
		if !found || score < best {
			best = score
			found = true
		}
	}
	return best, found
}

// scoreText averages per-token scores against one text value. A token
// contained anywhere in the text scores 0 (position-insensitive);
// otherwise it scores the best normalized edit distance against the
// text's words.
func scoreText(tokens []string, text string) float64 {
	lowered := strings.ToLower(text)
	words := strings.Fields(lowered)

	var sum float64
	for _, token := range tokens {
		sum += scoreToken(token, lowered, words)
	}
	return sum / float64(len(tokens))
}

func scoreToken(token, lowered string, words []string) float64 {
	if strings.Contains(lowered, token) {
		return 0
	}

	best := 1.0
	tokenLen := len([]rune(token))
	for _, word := range words {
		wordLen := len([]rune(word))
		maxLen := tokenLen
		if wordLen > maxLen {
			maxLen = wordLen
		}
		dist := fuzzy.LevenshteinDistance(token, word)
		norm := float64(dist) / float64(maxLen)
		if norm < best {
			best = norm
		}
	}
	return best
}
