package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Farerworks/secondbrain-coach/internal/domain"
)

func TestLoadMergesBaseAndCurated(t *testing.T) {
	corpus, err := Load()

	require.NoError(t, err)
	assert.NotEmpty(t, corpus.Curated)
	assert.Greater(t, len(corpus.Items), len(corpus.Curated))

	// Base entries come before curated entries in the merged corpus.
	firstCurated := -1
	for i, item := range corpus.Items {
		if item.IsCurated() {
			firstCurated = i
			break
		}
	}
	require.GreaterOrEqual(t, firstCurated, 0)
	for _, item := range corpus.Items[:firstCurated] {
		assert.False(t, item.IsCurated())
	}
	for _, item := range corpus.Items[firstCurated:] {
		assert.True(t, item.IsCurated())
	}
}

func TestLoadCuratedItemsAreStamped(t *testing.T) {
	corpus, err := Load()
	require.NoError(t, err)

	for _, item := range corpus.Curated {
		assert.Equal(t, domain.TypeCurated, item.Type)
		assert.NotEmpty(t, item.ID)
		assert.NotEmpty(t, item.Title)
		assert.NotEmpty(t, item.Category)
		assert.NotEmpty(t, item.Keywords, "item %s has no keywords", item.ID)
	}
}

func TestLoadIsDeterministic(t *testing.T) {
	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)

	require.Equal(t, len(first.Items), len(second.Items))
	for i := range first.Items {
		assert.Equal(t, first.Items[i].ID, second.Items[i].ID)
	}
}

func TestNormalizeCuratedSynthesizesKeywords(t *testing.T) {
	rec := curatedRecord{
		Title:     "노션 설정",
		Tags:      []string{"노션", "설정"},
		KeyPoints: []string{"템플릿 복제"},
	}

	item := normalizeCurated("notion-setup", rec)

	assert.Equal(t, []string{"노션", "설정", "템플릿 복제", "노션 설정"}, item.Keywords)
}

func TestNormalizeCuratedDefaults(t *testing.T) {
	rec := curatedRecord{Content: "내용"}

	item := normalizeCurated("fallback-key", rec)

	assert.Equal(t, "fallback-key", item.ID)
	assert.Equal(t, "fallback-key", item.Title)
	assert.Equal(t, domain.CategoryCurated, item.Category)
	assert.Equal(t, domain.TypeCurated, item.Type)
}

func TestNormalizeCuratedRelatedQuestionsFallback(t *testing.T) {
	rec := curatedRecord{
		Title:            "개념",
		RelatedQuestions: []string{"PARA가 뭐예요?"},
	}

	item := normalizeCurated("concepts", rec)

	assert.Equal(t, []string{"PARA가 뭐예요?"}, item.RelatedTopics)
}

func TestCuratedText(t *testing.T) {
	text, err := CuratedText()

	require.NoError(t, err)
	assert.NotEmpty(t, text)
	// One block per collection file, record separators within blocks.
	assert.Equal(t, len(curatedFiles)-1, strings.Count(text, "\n\n====\n\n"))
	assert.Contains(t, text, "# ")
}

func TestCuratedRecordText(t *testing.T) {
	rec := curatedRecord{
		Title:     "템플릿 설치",
		Summary:   "요약",
		Content:   "본문",
		KeyPoints: []string{"첫째", "둘째"},
		Steps:     []string{"복제", "설정"},
	}

	text := curatedRecordText("install", rec)

	assert.True(t, strings.HasPrefix(text, "# 템플릿 설치\n요약\n본문"))
	assert.Contains(t, text, "핵심:첫째 • 둘째")
	assert.Contains(t, text, "1. 복제")
	assert.Contains(t, text, "2. 설정")
}

func TestDefaultItemsCoverCoreCategories(t *testing.T) {
	items := defaultItems()

	require.NotEmpty(t, items)
	categories := map[string]bool{}
	for _, item := range items {
		categories[item.Category] = true
	}
	assert.True(t, categories[domain.CategoryPARA])
	assert.True(t, categories[domain.CategoryCODE])
}
