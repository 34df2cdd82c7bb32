package app

import (
	"context"
	"fmt"
	"strings"

	"docrag/internal/ai"
)

const (
	defaultTopK       = 5
	defaultMaxSources = 10
	previewRunes      = 200

	noAnswerFallback = "I couldn't find any relevant information in the documents."

	groundingPrompt = `You are a helpful assistant that answers questions based on the provided documents.

Rules:
1. Only answer based on the information in the documents
2. If the information is not in the documents, say "I don't have this information in the documents"
3. Be specific and cite which document the information comes from
4. Be concise but complete
5. If there are monetary values, dates, or names, include them exactly as they appear`
)

// LLM is the chat-completion side of the answer engine.
type LLM interface {
	Complete(ctx context.Context, messages []ai.ChatMessage, opts ai.ChatOptions) (string, error)
}

// SearchResult is one ranked retrieval hit.
type SearchResult struct {
	Text       string  `json:"text"`
	Filename   string  `json:"filename"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float64 `json:"score"`
}

// Source is one chunk an answer was grounded in. Text is a lossy preview for
// display, never re-fed into reasoning.
type Source struct {
	Filename   string  `json:"filename"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

// Answer is the synthesized response plus the chunks it drew on.
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// AnswerService retrieves relevant chunks and synthesizes grounded answers.
// Each call is a pure function of (input, current index contents); nothing is
// persisted between calls.
type AnswerService struct {
	store       VectorStore
	llm         LLM
	temperature float64
}

func NewAnswerService(store VectorStore, llm LLM, temperature float64) *AnswerService {
	return &AnswerService{
		store:       store,
		llm:         llm,
		temperature: temperature,
	}
}

// Search returns up to topK chunks ranked by descending similarity.
func (s *AnswerService) Search(ctx context.Context, query string, topK int) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidQuery
	}
	if topK <= 0 {
		topK = defaultTopK
	}

	matches, err := s.store.Query(ctx, query, topK)
	if err != nil {
		return nil, &ProviderError{Op: "search documents", Err: err}
	}

	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, SearchResult{
			Text:       m.Metadata.Text,
			Filename:   m.Metadata.Filename,
			ChunkIndex: m.Metadata.ChunkIndex,
			Score:      m.Score,
		})
	}
	return results, nil
}

// Answer retrieves up to maxSources chunks and asks the LLM for an answer
// grounded in them. With zero matches it returns a fixed fallback and makes
// no LLM call. Temperature is sent as an optional parameter; if the provider
// rejects it, the call is retried once without it.
func (s *AnswerService) Answer(ctx context.Context, question string, maxSources int) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrInvalidQuery
	}
	if maxSources <= 0 {
		maxSources = defaultMaxSources
	}

	matches, err := s.store.Query(ctx, question, maxSources)
	if err != nil {
		return nil, &ProviderError{Op: "retrieve context", Err: err}
	}
	if len(matches) == 0 {
		return &Answer{Answer: noAnswerFallback, Sources: []Source{}}, nil
	}

	contextParts := make([]string, 0, len(matches))
	for i, m := range matches {
		contextParts = append(contextParts, fmt.Sprintf("[Document %d - %s]\n%s",
			i+1, m.Metadata.Filename, m.Metadata.Text))
	}
	contextBlock := strings.Join(contextParts, "\n\n")

	messages := []ai.ChatMessage{
		{Role: "system", Content: groundingPrompt},
		{Role: "user", Content: "Documents:\n" + contextBlock + "\n\nQuestion: " + question},
	}

	temperature := s.temperature
	answer, err := s.llm.Complete(ctx, messages, ai.ChatOptions{Temperature: &temperature})
	if err != nil && ai.IsUnsupportedParameter(err) {
		answer, err = s.llm.Complete(ctx, messages, ai.ChatOptions{})
	}
	if err != nil {
		return nil, &ProviderError{Op: "generate answer", Err: err}
	}

	sources := make([]Source, 0, len(matches))
	for _, m := range matches {
		sources = append(sources, Source{
			Filename:   m.Metadata.Filename,
			ChunkIndex: m.Metadata.ChunkIndex,
			Score:      m.Score,
			Text:       preview(m.Metadata.Text),
		})
	}

	return &Answer{
		Answer:  strings.TrimSpace(answer),
		Sources: sources,
	}, nil
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) > previewRunes {
		runes = runes[:previewRunes]
	}
	return string(runes) + "..."
}
