package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Farerworks/secondbrain-coach/internal/domain"
)

func fixtureItems() []domain.KnowledgeItem {
	return []domain.KnowledgeItem{
		{
			ID:            "para-basic",
			Category:      domain.CategoryPARA,
			Title:         "PARA 시스템 기초",
			Content:       "PARA는 Projects Areas Resources Archives 네 영역으로 모든 노트를 정리하는 체계입니다",
			Keywords:      []string{"PARA", "정리", "폴더"},
			Tags:          []string{"기초"},
			Summary:       "PARA 네 영역 개요",
			RelatedTopics: []string{"CODE 방법론", "프로젝트 관리"},
		},
		{
			ID:            "health-project",
			Category:      domain.CategoryPARA,
			Title:         "건강 목표 프로젝트 만들기",
			Content:       "다이어트와 운동 같은 건강 목표를 Projects 영역에서 관리하는 방법",
			Keywords:      []string{"건강", "다이어트", "운동", "체중"},
			RelatedTopics: []string{"습관 추적"},
		},
		{
			ID:       "capture-habit",
			Category: domain.CategoryNotes,
			Title:    "캡처 습관 만들기",
			Content:  "떠오르는 생각을 바로 수집함에 캡처하는 습관",
			Keywords: []string{"캡처", "수집"},
		},
		{
			ID:            "curated-start",
			Category:      domain.CategoryCurated,
			Type:          domain.TypeCurated,
			Title:         "세컨드브레인 템플릿 시작하기",
			Content:       "세컨드브레인 템플릿을 복제하고 PARA 폴더를 설정하는 가이드",
			Keywords:      []string{"세컨드브레인", "템플릿", "시작"},
			RelatedTopics: []string{"노션 설정"},
		},
	}
}

func TestSearchRanksSubstringMatchFirst(t *testing.T) {
	idx := NewIndex(fixtureItems())

	results := idx.Search("캡처 습관")

	require.NotEmpty(t, results)
	assert.Equal(t, "capture-habit", results[0].Item.ID)
	assert.LessOrEqual(t, results[0].Score, 0.4)
}

func TestSearchEmptyQuery(t *testing.T) {
	idx := NewIndex(fixtureItems())

	assert.Empty(t, idx.Search(""))
	assert.Empty(t, idx.Search("   "))
}

func TestSearchNoMatch(t *testing.T) {
	idx := NewIndex(fixtureItems())

	assert.Empty(t, idx.Search("xylophone quantum"))
}

func TestSearchIsDeterministic(t *testing.T) {
	idx := NewIndex(fixtureItems())

	first := idx.Search("PARA 정리")
	second := idx.Search("PARA 정리")

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Item.ID, second[i].Item.ID)
		assert.Equal(t, first[i].Score, second[i].Score)
	}
}

func TestSearchCapsResults(t *testing.T) {
	items := make([]domain.KnowledgeItem, 0, 15)
	for i := 0; i < 15; i++ {
		items = append(items, domain.KnowledgeItem{
			ID:       fmt.Sprintf("item-%d", i),
			Category: domain.CategoryNotes,
			Title:    "노트 정리 가이드",
			Content:  "노트 정리 방법",
			Keywords: []string{"정리"},
		})
	}
	idx := NewIndex(items)

	results := idx.Search("정리")

	assert.Len(t, results, 10)
}

func TestSearchCuratedItemsRankFirst(t *testing.T) {
	idx := NewIndex(fixtureItems())

	// Both the curated guide and para-basic mention PARA; the curated
	// item must win regardless of raw score.
	results := idx.Search("PARA 폴더")

	require.NotEmpty(t, results)
	assert.Equal(t, "curated-start", results[0].Item.ID)
}

func TestSearchHealthOverride(t *testing.T) {
	idx := NewIndex(fixtureItems())

	results := idx.Search("살 빼는 법 알려줘")

	require.NotEmpty(t, results)
	assert.Equal(t, "health-project", results[0].Item.ID)
}

func TestSearchSystemNamePriority(t *testing.T) {
	idx := NewIndex(fixtureItems())

	results := idx.Search("세컨드브레인 템플릿")

	require.NotEmpty(t, results)
	assert.Equal(t, "curated-start", results[0].Item.ID)
	assert.True(t, results[0].Item.IsCurated())
}

func TestSearchCurated(t *testing.T) {
	idx := NewIndex(fixtureItems())

	results := idx.SearchCurated("템플릿")

	require.Len(t, results, 1)
	assert.Equal(t, "curated-start", results[0].Item.ID)
}

func TestSearchByCategory(t *testing.T) {
	idx := NewIndex(fixtureItems())

	t.Run("exact match is case-insensitive", func(t *testing.T) {
		matched := idx.SearchByCategory("para")
		assert.Len(t, matched, 2)
	})

	t.Run("substring match", func(t *testing.T) {
		matched := idx.SearchByCategory("닥터")
		require.Len(t, matched, 1)
		assert.Equal(t, "curated-start", matched[0].ID)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, idx.SearchByCategory("없는카테고리"))
	})
}

func TestRelatedTopics(t *testing.T) {
	idx := NewIndex(fixtureItems())

	topics := idx.RelatedTopics("PARA 정리")

	assert.NotEmpty(t, topics)
	seen := map[string]int{}
	for _, topic := range topics {
		seen[topic]++
	}
	for topic, count := range seen {
		assert.Equal(t, 1, count, "topic %q duplicated", topic)
	}
}

func TestRelatedTopicsByTitleNotID(t *testing.T) {
	idx := NewIndex(fixtureItems())

	// Slug ids are not indexed text; callers must pass a topic string
	// such as the item's title.
	assert.Empty(t, idx.RelatedTopics("para-basic"))

	topics := idx.RelatedTopics("PARA 시스템 기초")
	assert.Contains(t, topics, "CODE 방법론")
	assert.Contains(t, topics, "프로젝트 관리")
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"strips object particle", "노트를 정리", "노트 정리"},
		{"strips topic particle", "PARA는 무엇", "para 무엇"},
		{"collapses whitespace", "  PARA   정리  ", "para 정리"},
		{"lowercases", "CODE Method", "code method"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeQuery(tt.query))
		})
	}
}

func TestTokenizeDropsShortTokens(t *testing.T) {
	tokens := tokenize("법 검색 a 정리")

	assert.Equal(t, []string{"검색", "정리"}, tokens)
}
