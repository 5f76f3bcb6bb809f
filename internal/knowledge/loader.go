// Package knowledge loads the static methodology corpus: a base
// collection plus the curated collections, normalized into one record
// shape.
package knowledge

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Farerworks/secondbrain-coach/internal/domain"
)

//go:embed data/detailed-knowledge.json data/curated/*.json
var dataFS embed.FS

// curatedFiles is the load order of the curated collections.
var curatedFiles = []string{
	"data/curated/core-concepts.json",
	"data/curated/para-system.json",
	"data/curated/code-method.json",
	"data/curated/notion-setup.json",
	"data/curated/automation.json",
	"data/curated/troubleshooting.json",
}

// Corpus is the merged knowledge base. Items holds every entry in
// insertion order of sources (base first, then curated collections);
// Curated holds only the curated subset. Duplicate IDs across sources
// are retained as distinct entries; lookups by ID over the merged
// corpus are therefore ambiguous and callers must not rely on them.
type Corpus struct {
	Items   []domain.KnowledgeItem
	Curated []domain.KnowledgeItem
}

type detailedFile struct {
	Items []domain.KnowledgeItem `json:"items"`
}

// curatedRecord is the loose shape of an entry in a curated collection.
// Collections are keyed objects rather than arrays, and individual
// fields may be absent.
type curatedRecord struct {
	ID               string   `json:"id"`
	Category         string   `json:"category"`
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	Keywords         []string `json:"keywords"`
	Tags             []string `json:"tags"`
	KeyPoints        []string `json:"keyPoints"`
	Examples         []string `json:"examples"`
	Tips             []string `json:"tips"`
	Steps            []string `json:"steps"`
	Summary          string   `json:"summary"`
	RelatedTopics    []string `json:"relatedTopics"`
	RelatedQuestions []string `json:"relatedQuestions"`
}

// Load reads every static source and returns the merged corpus.
func Load() (*Corpus, error) {
	base, err := loadBase()
	if err != nil {
		return nil, err
	}

	curated := make([]domain.KnowledgeItem, 0, 16)
	for _, name := range curatedFiles {
		items, err := loadCurated(name)
		if err != nil {
			return nil, err
		}
		curated = append(curated, items...)
	}

	all := make([]domain.KnowledgeItem, 0, len(base)+len(curated))
	all = append(all, base...)
	all = append(all, curated...)

	return &Corpus{Items: all, Curated: curated}, nil
}

func loadBase() ([]domain.KnowledgeItem, error) {
	raw, err := dataFS.ReadFile("data/detailed-knowledge.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read base knowledge: %w", err)
	}

	var file detailedFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse base knowledge: %w", err)
	}
	if len(file.Items) == 0 {
		return defaultItems(), nil
	}
	return file.Items, nil
}

func loadCurated(name string) ([]domain.KnowledgeItem, error) {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read curated collection %s: %w", name, err)
	}

	var records map[string]curatedRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to parse curated collection %s: %w", name, err)
	}

	keys := make([]string, 0, len(records))
	for key := range records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	items := make([]domain.KnowledgeItem, 0, len(records))
	for _, key := range keys {
		items = append(items, normalizeCurated(key, records[key]))
	}
	return items, nil
}

// normalizeCurated maps a curated record into the common item shape.
// Missing keywords are synthesized from tags, key points, and title;
// missing categories default to the curated label.
func normalizeCurated(key string, rec curatedRecord) domain.KnowledgeItem {
	id := rec.ID
	if id == "" {
		id = key
	}
	title := rec.Title
	if title == "" {
		title = key
	}
	category := rec.Category
	if category == "" {
		category = domain.CategoryCurated
	}

	keywords := rec.Keywords
	if len(keywords) == 0 {
		keywords = make([]string, 0, len(rec.Tags)+len(rec.KeyPoints)+1)
		keywords = append(keywords, rec.Tags...)
		keywords = append(keywords, rec.KeyPoints...)
		if rec.Title != "" {
			keywords = append(keywords, rec.Title)
		}
	}

	related := rec.RelatedTopics
	if len(related) == 0 {
		related = rec.RelatedQuestions
	}

	return domain.KnowledgeItem{
		ID:            id,
		Category:      category,
		Title:         title,
		Content:       rec.Content,
		Keywords:      keywords,
		Examples:      rec.Examples,
		RelatedTopics: related,
		Tags:          rec.Tags,
		Type:          domain.TypeCurated,
		KeyPoints:     rec.KeyPoints,
		Summary:       rec.Summary,
	}
}

// CuratedText flattens every curated collection into one plain-text
// document for bulk ingestion into a notebook.
func CuratedText() (string, error) {
	blocks := make([]string, 0, len(curatedFiles))
	for _, name := range curatedFiles {
		raw, err := dataFS.ReadFile(name)
		if err != nil {
			return "", fmt.Errorf("failed to read curated collection %s: %w", name, err)
		}
		var records map[string]curatedRecord
		if err := json.Unmarshal(raw, &records); err != nil {
			return "", fmt.Errorf("failed to parse curated collection %s: %w", name, err)
		}

		keys := make([]string, 0, len(records))
		for key := range records {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		lines := make([]string, 0, len(records))
		for _, key := range keys {
			lines = append(lines, curatedRecordText(key, records[key]))
		}
		blocks = append(blocks, strings.Join(lines, "\n\n---\n\n"))
	}
	return strings.Join(blocks, "\n\n====\n\n"), nil
}

func curatedRecordText(key string, rec curatedRecord) string {
	title := rec.Title
	if title == "" {
		title = key
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n%s\n%s", title, rec.Summary, rec.Content)
	if len(rec.KeyPoints) > 0 {
		fmt.Fprintf(&b, "\n핵심:%s", strings.Join(rec.KeyPoints, " • "))
	}
	if len(rec.Examples) > 0 {
		fmt.Fprintf(&b, "\n예시:%s", strings.Join(rec.Examples, " • "))
	}
	if len(rec.Tips) > 0 {
		fmt.Fprintf(&b, "\n팁:%s", strings.Join(rec.Tips, " • "))
	}
	if len(rec.Steps) > 0 {
		steps := make([]string, len(rec.Steps))
		for i, s := range rec.Steps {
			steps[i] = fmt.Sprintf("%d. %s", i+1, s)
		}
		fmt.Fprintf(&b, "\n단계:%s", strings.Join(steps, " \n "))
	}
	return b.String()
}

func defaultItems() []domain.KnowledgeItem {
	return []domain.KnowledgeItem{
		{
			ID:       "para-basic",
			Category: domain.CategoryPARA,
			Title:    "PARA 시스템 기초",
			Content: "PARA는 Projects, Areas, Resources, Archives의 약자로, 정보를 체계적으로 정리하는 시스템입니다. " +
				"프로젝트는 끝이 있는 목표, 영역은 지속적인 책임, 자원은 미래 참고용 정보, 아카이브는 비활성 정보입니다.",
			Keywords:      []string{"para", "프로젝트", "영역", "자원", "아카이브", "정리", "시스템"},
			RelatedTopics: []string{"프로젝트와 영역의 차이", "PARA 실전 적용법", "자원 관리 방법"},
		},
		{
			ID:       "project-area-diff",
			Category: domain.CategoryPARA,
			Title:    "프로젝트와 영역의 차이",
			Content: "프로젝트와 영역의 가장 중요한 차이는 '끝이 있느냐 없느냐'입니다. " +
				"프로젝트는 명확한 완료 시점이 있는 목표(예: 이사하기, 책 쓰기)이고, 영역은 지속적으로 유지해야 하는 책임(예: 건강 관리, 재정 관리)입니다.",
			Keywords:      []string{"프로젝트", "영역", "차이", "구분", "끝", "목표", "책임"},
			RelatedTopics: []string{"PARA 시스템 기초", "프로젝트 관리법", "영역 설정 방법"},
		},
		{
			ID:       "code-method",
			Category: domain.CategoryCODE,
			Title:    "CODE 방법론",
			Content: "CODE는 Capture(수집), Organize(정리), Distill(추출), Express(표현)의 약자입니다. " +
				"정보를 빠르게 수집하고, 체계적으로 정리하며, 핵심을 추출하여, 최종적으로 가치있는 결과물로 표현하는 프로세스입니다.",
			Keywords:      []string{"code", "수집", "정리", "추출", "표현", "방법론", "프로세스"},
			RelatedTopics: []string{"빠른 수집 방법", "효과적인 정리법", "핵심 추출 기술"},
		},
		{
			ID:       "health-project",
			Category: domain.CategoryPARA,
			Title:    "건강 관리를 Second Brain에 적용하기",
			Content: "다이어트나 운동 목표는 기한이 있다면 '프로젝트'로, 지속적인 건강 관리는 '영역'으로 설정합니다. " +
				"운동 루틴, 식단 정보는 '자원'에, 과거 다이어트 기록은 '아카이브'에 보관합니다. " +
				"매일의 운동과 식단은 할 일로 관리하고, 주간 리뷰에서 진행 상황을 점검합니다.",
			Keywords:      []string{"건강", "다이어트", "운동", "살빼기", "체중", "프로젝트", "습관"},
			Examples:      []string{"방학 중 5kg 감량 프로젝트", "매일 아침 운동 습관", "주간 체중 기록"},
			RelatedTopics: []string{"습관 추적 방법", "프로젝트 목표 설정", "건강 영역 관리"},
		},
		{
			ID:       "note-splitting",
			Category: domain.CategoryNotes,
			Title:    "노트 쪼개기 (원자적 노트)",
			Content: "원자적 노트는 하나의 아이디어만 담은 독립적인 노트입니다. " +
				"긴 노트를 여러 개의 작은 노트로 쪼개면 재사용성이 높아지고, 아이디어 간 연결이 쉬워집니다. " +
				"각 노트는 독립적으로 이해 가능해야 하며, 명확한 제목을 가져야 합니다.",
			Keywords:      []string{"노트", "쪼개기", "원자적", "아이디어", "분리", "정리"},
			Examples:      []string{"회의록을 액션 아이템별로 분리", "책 요약을 챕터별로 쪼개기"},
			RelatedTopics: []string{"효과적인 노트 작성법", "노트 연결하기", "제목 짓기 팁"},
		},
	}
}
