package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Farerworks/secondbrain-coach/internal/domain"
	"github.com/Farerworks/secondbrain-coach/internal/search"
)

const (
	// Quick responses only apply when the best fuzzy match is weak.
	quickResponseScoreFloor = 0.3

	maxContextItems    = 3
	maxSuggestions     = 3
	fallbackAnswer     = "죄송해요, 그 질문에 대한 답을 찾지 못했어요. PARA 시스템이나 CODE 방법론에 대해 물어보시면 자세히 알려드릴게요!"
	coachSystemPrompt  = "당신은 세컨드브레인 코치입니다. PARA 시스템과 CODE 방법론 전문가로서, 사용자가 노션 기반 세컨드브레인을 구축하고 활용하도록 돕습니다. 제공된 참고 자료를 바탕으로 친근하고 구체적으로 한국어로 답변하세요."
	ragSystemPrompt    = "당신은 업로드된 문서를 바탕으로 질문에 답하는 어시스턴트입니다. 제공된 발췌문에 근거해서만 한국어로 답변하고, 발췌문에 없는 내용은 모른다고 말하세요."
	contextsOnlyHeader = "관련 문서 발췌:"
)

// SearchIndex is the fuzzy lookup the chat flow runs every message through.
type SearchIndex interface {
	Search(query string) []search.Result
}

// AnswerClient produces a completion from a system and user prompt.
type AnswerClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ChatOutput is the assembled reply for one user message.
type ChatOutput struct {
	Answer      string   `json:"answer"`
	Suggestions []string `json:"suggestions,omitempty"`
	Quick       bool     `json:"quick,omitempty"`
}

type quickResponse struct {
	keywords []string
	answer   string
}

// Each keyword is a space separated list of parts that must all appear
// in the normalized message.
var quickResponses = []quickResponse{
	{
		keywords: []string{"안녕", "hello", "hi"},
		answer:   "안녕하세요! 세컨드브레인 코치입니다. PARA 시스템, CODE 방법론, 노션 활용법 등 무엇이든 물어보세요!",
	},
	{
		keywords: []string{"고마워", "감사"},
		answer:   "도움이 되었다니 기뻐요! 또 궁금한 점이 있으면 언제든 물어보세요.",
	},
	{
		keywords: []string{"뭐 할 수", "뭘 할 수", "무엇을 할 수", "어떤 기능"},
		answer:   "저는 세컨드브레인 구축을 도와드려요. PARA 시스템 설명, CODE 방법론 안내, 노션 템플릿 활용법, 노트 정리 습관 만들기까지 질문해 주세요!",
	},
}

// ChatService answers free form questions about the knowledge base.
// The LLM client is optional; without one the service falls back to
// returning matched knowledge content directly.
type ChatService struct {
	index SearchIndex
	llm   AnswerClient
}

func NewChatService(index SearchIndex, llm AnswerClient) *ChatService {
	return &ChatService{index: index, llm: llm}
}

// Answer runs the full reply pipeline for one chat message.
func (s *ChatService) Answer(ctx context.Context, message string) (*ChatOutput, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.ErrEmptyQuestion
	}

	results := s.index.Search(message)

	if quick := findQuickResponse(message); quick != "" {
		if len(results) == 0 || results[0].Score >= quickResponseScoreFloor {
			return &ChatOutput{Answer: quick, Quick: true}, nil
		}
	}

	if s.llm != nil {
		answer, err := s.llm.Complete(ctx, coachSystemPrompt, buildChatPrompt(message, results))
		if err == nil && strings.TrimSpace(answer) != "" {
			return &ChatOutput{
				Answer:      answer,
				Suggestions: s.suggestions(results),
			}, nil
		}
	}

	if len(results) > 0 {
		return &ChatOutput{
			Answer:      results[0].Item.Content,
			Suggestions: s.suggestions(results),
		}, nil
	}

	return &ChatOutput{Answer: fallbackAnswer}, nil
}

// AnswerFromContexts turns retrieved document excerpts into a grounded
// answer. When no LLM is configured, or the call fails, the excerpts are
// returned as a numbered list so the caller still gets usable content.
func (s *ChatService) AnswerFromContexts(ctx context.Context, question string, contexts []string) string {
	if len(contexts) == 0 {
		return "업로드된 문서에서 관련 내용을 찾지 못했어요."
	}

	if s.llm != nil {
		answer, err := s.llm.Complete(ctx, ragSystemPrompt, buildRAGPrompt(question, contexts))
		if err == nil && strings.TrimSpace(answer) != "" {
			return answer
		}
	}

	var b strings.Builder
	b.WriteString(contextsOnlyHeader)
	for i, c := range contexts {
		fmt.Fprintf(&b, "\n\n%d. %s", i+1, c)
	}
	return b.String()
}

// suggestions are the top match's own related topics, deduplicated.
func (s *ChatService) suggestions(results []search.Result) []string {
	if len(results) == 0 {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, topic := range results[0].Item.RelatedTopics {
		if seen[topic] {
			continue
		}
		seen[topic] = true
		out = append(out, topic)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func findQuickResponse(message string) string {
	normalized := strings.ToLower(strings.TrimSpace(message))
	for _, qr := range quickResponses {
		for _, keyword := range qr.keywords {
			if matchesAllParts(normalized, keyword) {
				return qr.answer
			}
		}
	}
	return ""
}

func matchesAllParts(message, keyword string) bool {
	for _, part := range strings.Fields(keyword) {
		if !strings.Contains(message, part) {
			return false
		}
	}
	return true
}

func buildChatPrompt(message string, results []search.Result) string {
	var b strings.Builder
	if len(results) > 0 {
		b.WriteString("참고 자료:\n")
		limit := len(results)
		if limit > maxContextItems {
			limit = maxContextItems
		}
		for i := 0; i < limit; i++ {
			item := results[i].Item
			fmt.Fprintf(&b, "\n[%s]\n%s\n", item.Title, item.Content)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "질문: %s", message)
	return b.String()
}

func buildRAGPrompt(question string, contexts []string) string {
	var b strings.Builder
	b.WriteString("발췌문:\n")
	for i, c := range contexts {
		fmt.Fprintf(&b, "\n[%d] %s\n", i+1, c)
	}
	fmt.Fprintf(&b, "\n질문: %s", question)
	return b.String()
}
